// internal/workers/tasks/generate-profile-tasks/handler.go
package generateprofiletasks

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	cerrors "counsel-workers/internal/common/errors"
	"counsel-workers/internal/common/logger"
	"counsel-workers/internal/common/metrics"
	"counsel-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "generate-profile-tasks"
)

type Handler struct {
	config *Config
	logger logger.Logger
	now    func() time.Time
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
		now:    time.Now,
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
		h.failJob(client, job, cerrors.ErrCodeTaskGenerateFailed, err.Error())
		return
	}

	h.completeJob(client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
}

// execute runs the gap rules against the profile snapshot. Every rule is
// evaluated independently except the two exam branches, which key off the
// same field. Absent or malformed fields mean the rule does not fire.
func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	profile := input.Profile
	if profile == nil {
		profile = &models.UserProfile{}
	}

	due := func(days int) string {
		return h.now().AddDate(0, 0, days).Format(time.RFC3339)
	}

	var tasks []models.Task
	add := func(title, description, category, priority string, days int) {
		tasks = append(tasks, models.Task{
			UserID:      input.UserID,
			Title:       title,
			Description: description,
			Category:    category,
			Priority:    priority,
			DueDate:     due(days),
		})
	}

	switch profile.ExamStatus {
	case "", models.StatusNotStarted:
		add("Register for TOEFL/IELTS",
			"Book your English proficiency test and start preparing",
			models.TaskCategoryExam, models.TaskPriorityHigh, 14)
		if strings.Contains(strings.ToLower(profile.TargetDegree), "master") {
			add("Prepare for GRE/GMAT",
				"Most master's programs require a GRE or GMAT score",
				models.TaskCategoryExam, models.TaskPriorityHigh, 30)
		}
	case models.StatusInProgress:
		add("Complete exam preparation",
			"Finish your test prep and sit the scheduled exam",
			models.TaskCategoryExam, models.TaskPriorityMedium, 21)
	}

	switch profile.SOPStatus {
	case "", models.StatusNotStarted:
		add("Start your Statement of Purpose",
			"Draft the first version of your SOP",
			models.TaskCategorySOP, models.TaskPriorityHigh, 7)
	case models.SOPDraft:
		add("Refine your Statement of Purpose",
			"Revise your draft SOP with counsellor feedback",
			models.TaskCategorySOP, models.TaskPriorityMedium, 14)
	}

	if profile.CurrentStage == "discovering_universities" {
		add("Research and shortlist universities",
			"Compare your matches and shortlist the ones that fit",
			models.TaskCategoryResearch, models.TaskPriorityMedium, 10)
	}

	add("Request official transcripts",
		"Ask your institution for sealed official transcripts",
		models.TaskCategoryApplication, models.TaskPriorityHigh, 7)
	add("Arrange letters of recommendation",
		"Identify recommenders and brief them on your applications",
		models.TaskCategoryApplication, models.TaskPriorityMedium, 14)

	funding := strings.ToLower(profile.FundingSource)
	if strings.Contains(funding, "scholarship") {
		add("Research scholarship opportunities",
			"Find scholarships matching your profile and note their deadlines",
			models.TaskCategoryFinancial, models.TaskPriorityHigh, 21)
	}
	if strings.Contains(funding, "loan") {
		add("Compare education loan options",
			"Shortlist lenders and gather the documents they require",
			models.TaskCategoryFinancial, models.TaskPriorityMedium, 30)
	}

	for _, task := range tasks {
		metrics.TasksGenerated.WithLabelValues(TaskType, task.Category).Inc()
	}

	h.logger.Info("profile tasks generated", map[string]interface{}{
		"userId": input.UserID,
		"count":  len(tasks),
	})

	return &Output{UserID: input.UserID, Tasks: tasks}, nil
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
