// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"counsel-workers/internal/catalog"
	"counsel-workers/internal/common/logger"
	"counsel-workers/internal/models"

	taskreminder "counsel-workers/internal/workers/communication/task-reminder"
	matchuniversities "counsel-workers/internal/workers/matching/match-universities"
	recommenduniversities "counsel-workers/internal/workers/matching/recommend-universities"
	computeprofilestrength "counsel-workers/internal/workers/profile/compute-profile-strength"
	determinestage "counsel-workers/internal/workers/profile/determine-stage"
	validateprofiledata "counsel-workers/internal/workers/profile/validate-profile-data"
	generateprofiletasks "counsel-workers/internal/workers/tasks/generate-profile-tasks"
	generateuniversitytasks "counsel-workers/internal/workers/tasks/generate-university-tasks"
)

// TestCounsellingPipeline walks one user through the whole flow: onboarding
// validation, profile strength, matching, recommendation, stage derivation
// and task generation, chaining each worker's output into the next.
func TestCounsellingPipeline(t *testing.T) {
	ctx := context.Background()
	log := logger.NewNoOpLogger()

	// 1. Validate the onboarding payload.
	validator := validateprofiledata.NewHandler(&validateprofiledata.Config{}, log)
	validation, err := validator.Execute(ctx, &validateprofiledata.Input{
		UserID: "user-e2e",
		ProfileData: map[string]interface{}{
			"educationLevel": "bachelor",
			"major":          "Computer Science",
			"gpa":            "3.2",
			"targetDegree":   "Master of Science",
			"targetCountry":  "USA",
			"budgetRange":    "20000-35000",
			"fundingSource":  "scholarship",
			"examStatus":     "not_started",
			"sopStatus":      "not_started",
		},
	})
	require.NoError(t, err)
	require.True(t, validation.Valid, "onboarding payload should pass validation: %v", validation.Errors)

	profile := &models.UserProfile{
		UserID:             "user-e2e",
		GPA:                "3.2",
		TargetDegree:       "Master of Science",
		TargetCountry:      "USA",
		BudgetRange:        "20000-35000",
		FundingSource:      "scholarship",
		ExamStatus:         models.StatusNotStarted,
		SOPStatus:          models.StatusNotStarted,
		OnboardingComplete: true,
	}

	// 2. Profile strength reflects the unstarted exam and SOP.
	strength := computeprofilestrength.NewHandler(&computeprofilestrength.Config{}, log)
	score, err := strength.Execute(ctx, &computeprofilestrength.Input{
		UserID:  profile.UserID,
		Profile: profile,
	})
	require.NoError(t, err)
	assert.Equal(t, 75, score.Academics)
	assert.Equal(t, 0, score.Exams)
	assert.Equal(t, 0, score.SOP)
	assert.Equal(t, 25, score.Overall)

	// 3. Match against the full catalog.
	matcher := matchuniversities.NewHandler(&matchuniversities.Config{}, nil, nil, log)
	matched, err := matcher.Execute(ctx, &matchuniversities.Input{
		UserID:  profile.UserID,
		Profile: profile,
	})
	require.NoError(t, err)
	require.Equal(t, catalog.Count(), len(matched.Matches))

	for i := 1; i < len(matched.Matches); i++ {
		assert.GreaterOrEqual(t, matched.Matches[i-1].MatchScore, matched.Matches[i].MatchScore)
	}

	// US safe school with master's programs and scholarships should sit at
	// the top for this profile.
	assert.Equal(t, "asu", matched.Matches[0].UniversityID)
	assert.Equal(t, models.RiskLow, matched.Matches[0].RiskLevel)

	// 4. Recommend buckets out of the sorted list.
	recommender := recommenduniversities.NewHandler(&recommenduniversities.Config{}, log)
	recommended, err := recommender.Execute(ctx, &recommenduniversities.Input{
		UserID:  profile.UserID,
		Matches: matched.Matches,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, recommended.Dream)
	assert.NotEmpty(t, recommended.Target)
	assert.NotEmpty(t, recommended.Safe)
	for _, m := range recommended.Dream {
		assert.Equal(t, catalog.CategoryDream, m.Category)
	}

	// 5. Stage derivation: onboarded, nothing shortlisted yet.
	stager := determinestage.NewHandler(&determinestage.Config{}, log)
	stage, err := stager.Execute(ctx, &determinestage.Input{
		UserID:             profile.UserID,
		OnboardingComplete: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, stage.Stage)
	assert.True(t, stage.Features["universities"])
	assert.False(t, stage.Features["guidance"])

	// After locking one university the stage jumps to 4 regardless of the
	// shortlist count.
	locked, err := stager.Execute(ctx, &determinestage.Input{
		UserID:             profile.UserID,
		OnboardingComplete: true,
		ShortlistedCount:   7,
		LockedCount:        1,
	})
	require.NoError(t, err)
	assert.Equal(t, 4, locked.Stage)
	assert.True(t, locked.Features["guidance"])

	// 6. Profile-gap tasks: unstarted exam plus a master's degree target
	// yields both exam tasks, and the scholarship funding source fires the
	// financial rule.
	profileTasks := generateprofiletasks.NewHandler(&generateprofiletasks.Config{}, log)
	gapTasks, err := profileTasks.Execute(ctx, &generateprofiletasks.Input{
		UserID:  profile.UserID,
		Profile: profile,
	})
	require.NoError(t, err)

	examCount := 0
	financialCount := 0
	for _, task := range gapTasks.Tasks {
		switch task.Category {
		case models.TaskCategoryExam:
			examCount++
		case models.TaskCategoryFinancial:
			financialCount++
		}
		assert.NotEmpty(t, task.DueDate)
	}
	assert.GreaterOrEqual(t, examCount, 2)
	assert.Equal(t, 1, financialCount)

	// 7. Locked-university checklist from the catalog requirement blob.
	asu, ok := catalog.ByID("asu")
	require.True(t, ok)

	universityTasks := generateuniversitytasks.NewHandler(&generateuniversitytasks.Config{}, log)
	checklist, err := universityTasks.Execute(ctx, &generateuniversitytasks.Input{
		UserID:           profile.UserID,
		UniversityName:   asu.Name,
		RequirementsJSON: `{"toefl":"80+","ielts":"6.5+","gre":"Not Required","lorCount":2,"sopRequired":true}`,
		IntakeYear:       2026,
	})
	require.NoError(t, err)
	// Six unconditional tasks plus the TOEFL gate; GRE is not required.
	assert.Len(t, checklist.Tasks, 7)

	// 8. A reminder digest goes out over email.
	email := &digestRecorder{}
	reminder := taskreminder.NewHandler(taskreminder.DefaultConfig(), email, nil, log)
	delivered, err := reminder.Execute(ctx, &taskreminder.Input{
		UserID: profile.UserID,
		Email:  "student@example.com",
		Tasks:  checklist.Tasks,
	})
	require.NoError(t, err)
	assert.True(t, delivered.EmailSent)
	assert.Equal(t, len(checklist.Tasks), delivered.TaskCount)
	assert.Contains(t, email.lastBody, asu.Name)
}

type digestRecorder struct {
	lastBody string
}

func (d *digestRecorder) SendEmail(_ context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error) {
	d.lastBody = *input.Message.Body.Text.Data
	return &ses.SendEmailOutput{}, nil
}

func TestPipelineDegradesOnGarbageProfile(t *testing.T) {
	ctx := context.Background()
	log := logger.NewNoOpLogger()

	profile := &models.UserProfile{
		UserID:      "user-garbage",
		GPA:         "not a number",
		BudgetRange: "???",
		ExamStatus:  "whatever",
	}

	strength := computeprofilestrength.NewHandler(&computeprofilestrength.Config{}, log)
	score, err := strength.Execute(ctx, &computeprofilestrength.Input{Profile: profile})
	require.NoError(t, err)
	assert.Equal(t, 50, score.Academics, "malformed GPA falls back to the middle tier")

	matcher := matchuniversities.NewHandler(&matchuniversities.Config{}, nil, nil, log)
	matched, err := matcher.Execute(ctx, &matchuniversities.Input{Profile: profile})
	require.NoError(t, err)
	assert.Equal(t, catalog.Count(), len(matched.Matches))

	tasks := generateprofiletasks.NewHandler(&generateprofiletasks.Config{}, log)
	out, err := tasks.Execute(ctx, &generateprofiletasks.Input{Profile: profile})
	require.NoError(t, err)
	// Unknown exam status fires no exam rule; the unconditional and SOP
	// rules still run.
	assert.NotEmpty(t, out.Tasks)
}
