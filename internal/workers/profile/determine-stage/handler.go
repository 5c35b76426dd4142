// internal/workers/profile/determine-stage/handler.go
package determinestage

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
)

const (
	TaskType = "determine-stage"
)

// Funnel stages. The stage is a projection of three stored facts and is
// recomputed on every request; it is never read back from storage.
const (
	StageProfileBuilding        = 1
	StageUniversityDiscovery    = 2
	StageShortlisting           = 3
	StageApplicationPreparation = 4
)

// stageTable maps each stage to its fixed display metadata. Progress is
// intentionally non-linear: visible progress per stage shrinks near the top.
var stageTable = map[int]Info{
	StageProfileBuilding: {
		Name:        "Profile Building",
		Description: "Complete your profile so we can understand your background and goals.",
		NextAction:  "Finish onboarding",
		Progress:    25,
	},
	StageUniversityDiscovery: {
		Name:        "University Discovery",
		Description: "Explore universities matched to your profile and budget.",
		NextAction:  "Shortlist universities you like",
		Progress:    50,
	},
	StageShortlisting: {
		Name:        "Finalizing Universities",
		Description: "Compare your shortlist and commit to the one that fits best.",
		NextAction:  "Lock your university",
		Progress:    65,
	},
	StageApplicationPreparation: {
		Name:        "Application Preparation",
		Description: "Work through the application checklist for your locked university.",
		NextAction:  "Complete your application tasks",
		Progress:    85,
	},
}

// featureGates lists the minimum stage required per gated feature. Features
// not listed are available at every stage.
var featureGates = map[string]int{
	"counsellor":   StageUniversityDiscovery,
	"universities": StageUniversityDiscovery,
	"guidance":     StageApplicationPreparation,
}

// DetermineStage derives the funnel stage from the three authoritative
// facts. A lock takes precedence over any shortlist count; incomplete
// onboarding gates everything.
func DetermineStage(onboardingComplete bool, shortlistedCount, lockedCount int) int {
	switch {
	case !onboardingComplete:
		return StageProfileBuilding
	case lockedCount > 0:
		return StageApplicationPreparation
	case shortlistedCount > 0:
		return StageShortlisting
	default:
		return StageUniversityDiscovery
	}
}

// StageInfo returns the display metadata of a stage. Out-of-range stages
// resolve to stage 1 rather than failing.
func StageInfo(stage int) Info {
	if info, ok := stageTable[stage]; ok {
		return info
	}
	return stageTable[StageProfileBuilding]
}

// CanAccessFeature reports whether a feature is available at the given stage.
func CanAccessFeature(stage int, feature string) bool {
	min, gated := featureGates[feature]
	if !gated {
		return true
	}
	return stage >= min
}

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
		h.failJob(client, job, cerrors.ErrCodeStageResolveFailed, err.Error())
		return
	}

	h.completeJob(client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	stage := DetermineStage(input.OnboardingComplete, input.ShortlistedCount, input.LockedCount)
	info := StageInfo(stage)

	features := make(map[string]bool, len(featureGates))
	for feature := range featureGates {
		features[feature] = CanAccessFeature(stage, feature)
	}

	h.logger.Info("stage determined", map[string]interface{}{
		"userId":           input.UserID,
		"stage":            stage,
		"shortlistedCount": input.ShortlistedCount,
		"lockedCount":      input.LockedCount,
	})

	return &Output{
		Stage:       stage,
		Name:        info.Name,
		Description: info.Description,
		NextAction:  info.NextAction,
		Progress:    info.Progress,
		Features:    features,
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
