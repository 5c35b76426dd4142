// internal/workers/tasks/generate-university-tasks/handler.go
package generateuniversitytasks

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
	TaskType = "generate-university-tasks"

	defaultLORCount = 2
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

// execute builds the application checklist for a locked university. All
// tasks are emitted unconditionally except the English-test and GRE tasks,
// which are gated on the requirement set.
func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	reqs := parseRequirements(input.RequirementsJSON)

	intake := ""
	if input.IntakeYear > 0 {
		intake = fmt.Sprintf(" for the %d intake", input.IntakeYear)
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

	add(fmt.Sprintf("Submit application to %s", input.UniversityName),
		fmt.Sprintf("Complete and submit your application to %s%s", input.UniversityName, intake),
		models.TaskCategoryApplication, models.TaskPriorityHigh, 60)

	add(fmt.Sprintf("Write SOP for %s", input.UniversityName),
		fmt.Sprintf("Tailor your Statement of Purpose to %s", input.UniversityName),
		models.TaskCategorySOP, models.TaskPriorityHigh, 21)

	lorCount := reqs.LORCount
	if lorCount <= 0 {
		lorCount = defaultLORCount
	}
	add(fmt.Sprintf("Collect %d letters of recommendation", lorCount),
		fmt.Sprintf("%s requires %d letters of recommendation", input.UniversityName, lorCount),
		models.TaskCategoryApplication, models.TaskPriorityHigh, 30)

	if test := englishTest(reqs); test != "" {
		add(fmt.Sprintf("Meet the %s requirement", test),
			fmt.Sprintf("%s requires a %s score of %s", input.UniversityName, test, englishThreshold(reqs)),
			models.TaskCategoryExam, models.TaskPriorityHigh, 45)
	}

	if reqs.GRE != "" && reqs.GRE != "Not Required" {
		add("Submit GRE score",
			fmt.Sprintf("%s expects a GRE score of %s", input.UniversityName, reqs.GRE),
			models.TaskCategoryExam, models.TaskPriorityHigh, 40)
	}

	add("Prepare financial documents",
		"Gather bank statements and sponsorship letters for your application",
		models.TaskCategoryFinancial, models.TaskPriorityMedium, 35)

	add("Update your academic CV",
		fmt.Sprintf("Refresh your CV to highlight fit with %s", input.UniversityName),
		models.TaskCategoryApplication, models.TaskPriorityMedium, 14)

	add("Pay the application fee",
		fmt.Sprintf("Pay the application fee for %s before the deadline", input.UniversityName),
		models.TaskCategoryApplication, models.TaskPriorityMedium, 55)

	for _, task := range tasks {
		metrics.TasksGenerated.WithLabelValues(TaskType, task.Category).Inc()
	}

	h.logger.Info("university tasks generated", map[string]interface{}{
		"userId":     input.UserID,
		"university": input.UniversityName,
		"count":      len(tasks),
	})

	return &Output{UserID: input.UserID, Tasks: tasks}, nil
}

// parseRequirements decodes the requirement blob. Anything unparseable is an
// empty requirement set, never an error.
func parseRequirements(raw string) catalog.Requirements {
	var reqs catalog.Requirements
	if raw == "" {
		return reqs
	}
	if err := json.Unmarshal([]byte(raw), &reqs); err != nil {
		return catalog.Requirements{}
	}
	return reqs
}

// englishTest names the proficiency test the requirements call for. TOEFL
// wins when both are present.
func englishTest(reqs catalog.Requirements) string {
	if reqs.TOEFL != "" {
		return "TOEFL"
	}
	if reqs.IELTS != "" {
		return "IELTS"
	}
	return ""
}

func englishThreshold(reqs catalog.Requirements) string {
	if reqs.TOEFL != "" {
		return reqs.TOEFL
	}
	return reqs.IELTS
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
