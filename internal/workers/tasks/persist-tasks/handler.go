// internal/workers/tasks/persist-tasks/handler.go
package persisttasks

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	cerrors "counsel-workers/internal/common/errors"
	"counsel-workers/internal/common/logger"
	"counsel-workers/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "persist-tasks"
)

var (
	ErrDatabaseInsertFailed = errors.New("DATABASE_INSERT_FAILED")
)

type Handler struct {
	db     *sql.DB
	logger logger.Logger
}

func NewHandler(config *Config, db *sql.DB, log logger.Logger) *Handler {
	return &Handler{
		db:     db,
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
		h.failJob(client, job, cerrors.ErrCodeTaskPersistFailed, err.Error())
		return
	}

	h.completeJob(client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
}

// execute inserts the generated task batch in one transaction. IDs are
// assigned here; generators never mint them.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	createdAt := time.Now().UTC().Format(time.RFC3339)

	if len(input.Tasks) == 0 {
		return &Output{UserID: input.UserID, TaskIDs: []string{}, CreatedAt: createdAt}, nil
	}

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: begin: %v", ErrDatabaseInsertFailed, err)
	}
	defer tx.Rollback()

	taskIDs := make([]string, 0, len(input.Tasks))
	for _, task := range input.Tasks {
		id := uuid.New().String()
		userID := task.UserID
		if userID == "" {
			userID = input.UserID
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO tasks (
				id, user_id, title, description, category,
				priority, completed, due_date, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			id,
			userID,
			task.Title,
			task.Description,
			task.Category,
			task.Priority,
			false,
			task.DueDate,
			createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: insert task %q: %v", ErrDatabaseInsertFailed, task.Title, err)
		}
		taskIDs = append(taskIDs, id)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: commit: %v", ErrDatabaseInsertFailed, err)
	}

	h.logger.Info("tasks persisted", map[string]interface{}{
		"userId": input.UserID,
		"count":  len(taskIDs),
	})

	return &Output{
		UserID:    input.UserID,
		TaskIDs:   taskIDs,
		Persisted: len(taskIDs),
		CreatedAt: createdAt,
	}, nil
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
