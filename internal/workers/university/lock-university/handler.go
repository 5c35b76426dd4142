// internal/workers/university/lock-university/handler.go
package lockuniversity

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"counsel-workers/internal/catalog"
	cerrors "counsel-workers/internal/common/errors"
	"counsel-workers/internal/common/logger"
	"counsel-workers/internal/common/metrics"
	"counsel-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "lock-university"
)

var (
	ErrLockFailed        = errors.New("LOCK_FAILED")
	ErrUnlockFailed      = errors.New("UNLOCK_FAILED")
	ErrUnknownUniversity = errors.New("UNKNOWN_UNIVERSITY")
)

type Handler struct {
	config *Config
	db     *sql.DB
	redis  *redis.Client
	logger logger.Logger
}

func NewHandler(config *Config, db *sql.DB, rdb *redis.Client, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		db:     db,
		redis:  rdb,
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
		errorCode := cerrors.ErrCodeLockFailed
		switch {
		case errors.Is(err, ErrUnlockFailed):
			errorCode = cerrors.ErrCodeUnlockFailed
		case errors.Is(err, ErrUnknownUniversity):
			errorCode = cerrors.ErrCodeUnknownUniversity
		}
		h.failJob(client, job, errorCode, err.Error())
		return
	}

	h.completeJob(client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.Action == ActionUnlock {
		return h.unlock(ctx, input)
	}
	return h.lock(ctx, input)
}

// lock replaces any existing lock in the same transaction, so a user holds
// at most one lock at any time.
func (h *Handler) lock(ctx context.Context, input *Input) (*Output, error) {
	if _, ok := catalog.ByID(input.UniversityID); !ok {
		return nil, fmt.Errorf("%w: %q is not in the catalog", ErrUnknownUniversity, input.UniversityID)
	}

	lockedAt := time.Now().UTC().Format(time.RFC3339)

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: begin: %v", ErrLockFailed, err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`DELETE FROM locked_universities WHERE user_id = $1`, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: clear previous lock: %v", ErrLockFailed, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO locked_universities (id, user_id, university_id, locked_at)
		VALUES ($1, $2, $3, $4)`,
		uuid.New().String(), input.UserID, input.UniversityID, lockedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: insert lock: %v", ErrLockFailed, err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: commit: %v", ErrLockFailed, err)
	}

	h.invalidateStageFacts(ctx, input.UserID)

	h.logger.Info("university locked", map[string]interface{}{
		"userId":       input.UserID,
		"universityId": input.UniversityID,
	})

	return &Output{
		UserID:       input.UserID,
		UniversityID: input.UniversityID,
		Locked:       true,
		LockedAt:     lockedAt,
	}, nil
}

func (h *Handler) unlock(ctx context.Context, input *Input) (*Output, error) {
	_, err := h.db.ExecContext(ctx,
		`DELETE FROM locked_universities WHERE user_id = $1`, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: delete lock: %v", ErrUnlockFailed, err)
	}

	h.invalidateStageFacts(ctx, input.UserID)

	h.logger.Info("university unlocked", map[string]interface{}{
		"userId": input.UserID,
	})

	return &Output{UserID: input.UserID, Locked: false}, nil
}

// invalidateStageFacts drops the cached stage facts so the next stage
// determination sees the new lock count. Cache misses are harmless.
func (h *Handler) invalidateStageFacts(ctx context.Context, userID string) {
	if h.redis == nil {
		return
	}
	if err := h.redis.Del(ctx, models.StageFactsCacheKey(userID)).Err(); err != nil {
		h.logger.Warn("stage facts cache invalidation failed", map[string]interface{}{
			"userId": userID,
			"error":  err,
		})
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
