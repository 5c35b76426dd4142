// internal/workers/profile/validate-profile-data/handler.go
package validateprofiledata

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	cerrors "counsel-workers/internal/common/errors"
	"counsel-workers/internal/common/logger"
	"counsel-workers/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/xeipuuv/gojsonschema"
)

const (
	TaskType = "validate-profile-data"
)

// onboardingSchema mirrors the onboarding form contract. GPA stays a string
// on purpose; downstream scoring parses it with a fallback.
var onboardingSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"educationLevel": map[string]interface{}{"type": "string"},
		"major":          map[string]interface{}{"type": "string"},
		"graduationYear": map[string]interface{}{"type": "integer", "minimum": 1980, "maximum": 2100},
		"gpa":            map[string]interface{}{"type": "string"},
		"targetDegree":   map[string]interface{}{"type": "string"},
		"targetField":    map[string]interface{}{"type": "string"},
		"targetCountry":  map[string]interface{}{"type": "string"},
		"intakeYear":     map[string]interface{}{"type": "integer", "minimum": 2020, "maximum": 2100},
		"budgetRange": map[string]interface{}{
			"type": "string",
			"enum": []interface{}{"0-20000", "20000-35000", "35000-50000", "50000+"},
		},
		"fundingSource": map[string]interface{}{"type": "string"},
		"examStatus": map[string]interface{}{
			"type": "string",
			"enum": []interface{}{"not_started", "in_progress", "completed"},
		},
		"sopStatus": map[string]interface{}{
			"type": "string",
			"enum": []interface{}{"not_started", "draft", "ready"},
		},
	},
	"required": []interface{}{"educationLevel", "targetDegree", "targetCountry", "budgetRange"},
}

type Handler struct {
	config *Config
	logger logger.Logger
	schema gojsonschema.JSONLoader
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
		schema: gojsonschema.NewGoLoader(onboardingSchema),
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
		h.failJob(client, job, cerrors.ErrCodeValidationError, err.Error())
		return
	}

	h.completeJob(client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
}

// execute validates the payload against the onboarding schema. Violations
// are reported in the output, never raised as a job failure.
func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	documentLoader := gojsonschema.NewGoLoader(input.ProfileData)

	result, err := gojsonschema.Validate(h.schema, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		h.logger.Info("profile data rejected", map[string]interface{}{
			"userId":     input.UserID,
			"violations": len(errs),
		})
		return &Output{UserID: input.UserID, Valid: false, Errors: errs}, nil
	}

	return &Output{UserID: input.UserID, Valid: true}, nil
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
