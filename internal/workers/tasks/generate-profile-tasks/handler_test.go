// internal/workers/tasks/generate-profile-tasks/handler_test.go
package generateprofiletasks

import (
	"context"
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

func titles(tasks []models.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, task.Title)
	}
	return out
}

func countCategory(tasks []models.Task, category string) int {
	n := 0
	for _, task := range tasks {
		if task.Category == category {
			n++
		}
	}
	return n
}

func TestExecute_MastersApplicantGetsBothExamTasks(t *testing.T) {
	h := newHandler()

	out, err := h.Execute(context.Background(), &Input{
		UserID: "user-1",
		Profile: &models.UserProfile{
			ExamStatus:   models.StatusNotStarted,
			TargetDegree: "Master of Science",
		},
	})
	require.NoError(t, err)

	assert.GreaterOrEqual(t, countCategory(out.Tasks, models.TaskCategoryExam), 2)
	assert.Contains(t, titles(out.Tasks), "Register for TOEFL/IELTS")
	assert.Contains(t, titles(out.Tasks), "Prepare for GRE/GMAT")
}

func TestExecute_CompletedExamYieldsNoExamTasks(t *testing.T) {
	h := newHandler()

	out, err := h.Execute(context.Background(), &Input{
		Profile: &models.UserProfile{ExamStatus: models.StatusCompleted},
	})
	require.NoError(t, err)

	assert.Zero(t, countCategory(out.Tasks, models.TaskCategoryExam))
}

func TestExecute_ExamBranchesMutuallyExclusive(t *testing.T) {
	h := newHandler()

	out, err := h.Execute(context.Background(), &Input{
		Profile: &models.UserProfile{ExamStatus: models.StatusInProgress},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, countCategory(out.Tasks, models.TaskCategoryExam))
	assert.Contains(t, titles(out.Tasks), "Complete exam preparation")
	assert.NotContains(t, titles(out.Tasks), "Register for TOEFL/IELTS")
}

func TestExecute_SOPBranches(t *testing.T) {
	h := newHandler()

	tests := []struct {
		name      string
		sopStatus string
		wantTitle string
		wantCount int
	}{
		{"absent", "", "Start your Statement of Purpose", 1},
		{"not started", models.StatusNotStarted, "Start your Statement of Purpose", 1},
		{"draft", models.SOPDraft, "Refine your Statement of Purpose", 1},
		{"ready", models.SOPReady, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := h.Execute(context.Background(), &Input{
				Profile: &models.UserProfile{SOPStatus: tt.sopStatus},
			})
			require.NoError(t, err)
			assert.Equal(t, tt.wantCount, countCategory(out.Tasks, models.TaskCategorySOP))
			if tt.wantTitle != "" {
				assert.Contains(t, titles(out.Tasks), tt.wantTitle)
			}
		})
	}
}

func TestExecute_UnconditionalTasksAlwaysEmitted(t *testing.T) {
	h := newHandler()

	// A fully-complete profile still gets transcript and LOR tasks.
	out, err := h.Execute(context.Background(), &Input{
		Profile: &models.UserProfile{
			ExamStatus: models.StatusCompleted,
			SOPStatus:  models.SOPReady,
		},
	})
	require.NoError(t, err)

	assert.Contains(t, titles(out.Tasks), "Request official transcripts")
	assert.Contains(t, titles(out.Tasks), "Arrange letters of recommendation")
}

func TestExecute_FundingRulesFireIndependently(t *testing.T) {
	h := newHandler()

	out, err := h.Execute(context.Background(), &Input{
		Profile: &models.UserProfile{
			ExamStatus:    models.StatusCompleted,
			SOPStatus:     models.SOPReady,
			FundingSource: "Scholarship plus education loan",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, countCategory(out.Tasks, models.TaskCategoryFinancial))
}

func TestExecute_DiscoveryStageTask(t *testing.T) {
	h := newHandler()

	out, err := h.Execute(context.Background(), &Input{
		Profile: &models.UserProfile{CurrentStage: "discovering_universities"},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, countCategory(out.Tasks, models.TaskCategoryResearch))
}

func TestExecute_DueDatesRelativeToNow(t *testing.T) {
	h := newHandler()

	out, err := h.Execute(context.Background(), &Input{
		Profile: &models.UserProfile{
			ExamStatus: models.StatusCompleted,
			SOPStatus:  models.SOPReady,
		},
	})
	require.NoError(t, err)

	for _, task := range out.Tasks {
		switch task.Title {
		case "Request official transcripts":
			assert.Equal(t, frozen.AddDate(0, 0, 7).Format(time.RFC3339), task.DueDate)
		case "Arrange letters of recommendation":
			assert.Equal(t, frozen.AddDate(0, 0, 14).Format(time.RFC3339), task.DueDate)
		}
	}
}

func TestExecute_NilProfile(t *testing.T) {
	h := newHandler()

	out, err := h.Execute(context.Background(), &Input{UserID: "user-9"})
	require.NoError(t, err)

	// Absent exam and SOP fields behave as not_started, plus the two
	// unconditional tasks.
	assert.Contains(t, titles(out.Tasks), "Register for TOEFL/IELTS")
	assert.Contains(t, titles(out.Tasks), "Start your Statement of Purpose")
	assert.Len(t, out.Tasks, 4)
	for _, task := range out.Tasks {
		assert.Equal(t, "user-9", task.UserID)
	}
}

func TestExecute_CountsGeneratedTasks(t *testing.T) {
	h := newHandler()

	examBefore := testutil.ToFloat64(metrics.TasksGenerated.WithLabelValues(TaskType, models.TaskCategoryExam))
	sopBefore := testutil.ToFloat64(metrics.TasksGenerated.WithLabelValues(TaskType, models.TaskCategorySOP))

	out, err := h.Execute(context.Background(), &Input{
		UserID: "user-10",
		Profile: &models.UserProfile{
			ExamStatus: models.StatusNotStarted,
			SOPStatus:  models.SOPDraft,
		},
	})
	require.NoError(t, err)
	require.NotEmpty(t, out.Tasks)

	examAfter := testutil.ToFloat64(metrics.TasksGenerated.WithLabelValues(TaskType, models.TaskCategoryExam))
	sopAfter := testutil.ToFloat64(metrics.TasksGenerated.WithLabelValues(TaskType, models.TaskCategorySOP))

	assert.Equal(t, examBefore+1, examAfter)
	assert.Equal(t, sopBefore+1, sopAfter)
}
