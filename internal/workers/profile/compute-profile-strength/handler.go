// internal/workers/profile/compute-profile-strength/handler.go
package computeprofilestrength

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	cerrors "counsel-workers/internal/common/errors"
	"counsel-workers/internal/common/logger"
	"counsel-workers/internal/common/metrics"
	"counsel-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "compute-profile-strength"
)

type Handler struct {
	config *Config
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	startTime := time.Now()
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, cerrors.ErrCodeParseError, fmt.Sprintf("parse input: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, cerrors.ErrCodeStrengthFailed, err.Error())
		return
	}

	h.completeJob(client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	profile := input.Profile
	if profile == nil {
		profile = &models.UserProfile{}
	}

	academics := h.scoreAcademics(profile)
	exams := h.scoreExams(profile.ExamStatus)
	sop := h.scoreSOP(profile.SOPStatus)
	overall := int(math.Round(float64(academics+exams+sop) / 3.0))

	h.logger.Info("profile strength calculated", map[string]interface{}{
		"userId":    input.UserID,
		"academics": academics,
		"exams":     exams,
		"sop":       sop,
		"overall":   overall,
	})

	return &Output{
		Academics: academics,
		Exams:     exams,
		SOP:       sop,
		Overall:   overall,
	}, nil
}

// scoreAcademics maps the free-text GPA onto 0-100. A missing or unparseable
// GPA scores the neutral 50, not the 25 a known low GPA gets.
func (h *Handler) scoreAcademics(profile *models.UserProfile) int {
	if !profile.HasGPA() {
		return 50
	}
	gpa := models.ParseGPA(profile.GPA, 0)
	switch {
	case gpa >= 3.5:
		return 100
	case gpa >= 3.0:
		return 75
	case gpa >= 2.5:
		return 50
	default:
		return 25
	}
}

func (h *Handler) scoreExams(status string) int {
	switch status {
	case models.StatusCompleted:
		return 100
	case models.StatusInProgress:
		return 50
	default:
		return 0
	}
}

func (h *Handler) scoreSOP(status string) int {
	switch status {
	case models.SOPReady:
		return 100
	case models.SOPDraft:
		return 60
	default:
		return 0
	}
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode cerrors.ErrorCode, errorMessage string) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(errorCode)).Inc()
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    string(errorCode),
		"errorMessage": errorMessage,
		"retryable":    cerrors.IsRetryable(errorCode),
	})

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(string(errorCode)).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
