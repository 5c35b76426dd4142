// internal/workers/matching/recommend-universities/handler.go
package recommenduniversities

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"counsel-workers/internal/catalog"
	cerrors "counsel-workers/internal/common/errors"
	"counsel-workers/internal/common/logger"
	"counsel-workers/internal/common/metrics"
	"counsel-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "recommend-universities"
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
		h.failJob(client, job, cerrors.ErrCodeRecommendFailed, err.Error())
		return
	}

	h.completeJob(client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
}

// execute partitions the sorted match list into category buckets. The
// matcher's score-descending order is preserved within each bucket and
// never reshuffled across categories.
func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	maxPer := h.config.maxPerCategory()

	var dream, target, safe []models.UniversityMatch
	for _, m := range input.Matches {
		switch m.Category {
		case catalog.CategoryDream:
			if len(dream) < maxPer {
				dream = append(dream, m)
			}
		case catalog.CategoryTarget:
			if len(target) < maxPer {
				target = append(target, m)
			}
		case catalog.CategorySafe:
			if len(safe) < maxPer {
				safe = append(safe, m)
			}
		}
	}

	limit := input.Limit
	if limit <= 0 {
		limit = h.config.defaultLimit()
	}

	all := make([]models.UniversityMatch, 0, len(dream)+len(target)+len(safe))
	all = append(all, dream...)
	all = append(all, target...)
	all = append(all, safe...)
	if len(all) > limit {
		all = all[:limit]
	}

	h.logger.Info("recommendations assembled", map[string]interface{}{
		"userId": input.UserID,
		"dream":  len(dream),
		"target": len(target),
		"safe":   len(safe),
		"all":    len(all),
	})

	return &Output{Dream: dream, Target: target, Safe: safe, All: all}, nil
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
