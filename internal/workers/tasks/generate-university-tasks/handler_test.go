// internal/workers/tasks/generate-university-tasks/handler_test.go
package generateuniversitytasks

import (
	"context"
	"strings"
	"testing"
	"time"

	"counsel-workers/internal/common/logger"
	"counsel-workers/internal/common/metrics"
	"counsel-workers/internal/models"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var frozen = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newHandler() *Handler {
	h := NewHandler(&Config{}, logger.NewNoOpLogger())
	h.now = func() time.Time { return frozen }
	return h
}

func findByTitlePrefix(tasks []models.Task, prefix string) (models.Task, bool) {
	for _, task := range tasks {
		if strings.HasPrefix(task.Title, prefix) {
			return task, true
		}
	}
	return models.Task{}, false
}

func TestExecute_FullRequirementSet(t *testing.T) {
	h := newHandler()

	out, err := h.Execute(context.Background(), &Input{
		UserID:           "user-1",
		UniversityName:   "National University of Singapore",
		RequirementsJSON: `{"toefl":"90+","ielts":"6.5+","gre":"320+","lorCount":2,"sopRequired":true}`,
		IntakeYear:       2026,
	})
	require.NoError(t, err)

	// 6 unconditional + english test + GRE.
	assert.Len(t, out.Tasks, 8)

	submit, ok := findByTitlePrefix(out.Tasks, "Submit application")
	require.True(t, ok)
	assert.Contains(t, submit.Description, "2026 intake")
	assert.Equal(t, frozen.AddDate(0, 0, 60).Format(time.RFC3339), submit.DueDate)

	english, ok := findByTitlePrefix(out.Tasks, "Meet the TOEFL")
	require.True(t, ok, "TOEFL wins when both tests are listed")
	assert.Contains(t, english.Description, "90+")

	_, ok = findByTitlePrefix(out.Tasks, "Submit GRE")
	assert.True(t, ok)
}

func TestExecute_GRENotRequiredSkipped(t *testing.T) {
	h := newHandler()

	out, err := h.Execute(context.Background(), &Input{
		UniversityName:   "University of Oxford",
		RequirementsJSON: `{"toefl":"110+","gre":"Not Required","lorCount":3}`,
	})
	require.NoError(t, err)

	_, ok := findByTitlePrefix(out.Tasks, "Submit GRE")
	assert.False(t, ok)

	lor, ok := findByTitlePrefix(out.Tasks, "Collect 3 letters")
	require.True(t, ok)
	assert.Equal(t, frozen.AddDate(0, 0, 30).Format(time.RFC3339), lor.DueDate)
}

func TestExecute_IELTSOnly(t *testing.T) {
	h := newHandler()

	out, err := h.Execute(context.Background(), &Input{
		UniversityName:   "Coventry University",
		RequirementsJSON: `{"ielts":"6.0+","lorCount":1}`,
	})
	require.NoError(t, err)

	english, ok := findByTitlePrefix(out.Tasks, "Meet the IELTS")
	require.True(t, ok)
	assert.Contains(t, english.Description, "6.0+")
}

func TestExecute_NoEnglishRequirementNoTask(t *testing.T) {
	h := newHandler()

	out, err := h.Execute(context.Background(), &Input{
		UniversityName:   "Somewhere",
		RequirementsJSON: `{"lorCount":2}`,
	})
	require.NoError(t, err)

	_, ok := findByTitlePrefix(out.Tasks, "Meet the")
	assert.False(t, ok)
	assert.Len(t, out.Tasks, 6)
}

func TestExecute_MalformedRequirementsDegrade(t *testing.T) {
	h := newHandler()

	out, err := h.Execute(context.Background(), &Input{
		UserID:           "user-2",
		UniversityName:   "Arizona State University",
		RequirementsJSON: `{not json at all`,
	})
	require.NoError(t, err)

	// Empty requirement set: six unconditional tasks, LOR count defaults to 2.
	assert.Len(t, out.Tasks, 6)
	_, ok := findByTitlePrefix(out.Tasks, "Collect 2 letters")
	assert.True(t, ok)
	for _, task := range out.Tasks {
		assert.Equal(t, "user-2", task.UserID)
	}
}

func TestExecute_NoIntakeYearOmitsClause(t *testing.T) {
	h := newHandler()

	out, err := h.Execute(context.Background(), &Input{UniversityName: "TUM"})
	require.NoError(t, err)

	submit, ok := findByTitlePrefix(out.Tasks, "Submit application")
	require.True(t, ok)
	assert.NotContains(t, submit.Description, "intake")
}

func TestExecute_CountsGeneratedTasks(t *testing.T) {
	h := newHandler()

	before := testutil.ToFloat64(metrics.TasksGenerated.WithLabelValues(TaskType, models.TaskCategoryApplication))

	out, err := h.Execute(context.Background(), &Input{
		UserID:         "user-3",
		UniversityName: "Deakin University",
	})
	require.NoError(t, err)
	require.NotEmpty(t, out.Tasks)

	applications := 0
	for _, task := range out.Tasks {
		if task.Category == models.TaskCategoryApplication {
			applications++
		}
	}

	after := testutil.ToFloat64(metrics.TasksGenerated.WithLabelValues(TaskType, models.TaskCategoryApplication))
	assert.Equal(t, before+float64(applications), after)
}
