// internal/workers/data-access/query-postgresql/queries/profile.go
package queries

import (
	"context"
	"database/sql"
	"time"

	"counsel-workers/internal/models"
)

func UserProfile(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	userID, ok := params["userId"].(string)
	if !ok {
		return nil, 0, 0, ErrMissingParam
	}

	start := time.Now()

	var p models.UserProfile
	err := db.QueryRowContext(ctx, `
		SELECT user_id, education_level, major, graduation_year, gpa,
		       target_degree, target_field, target_country, intake_year,
		       budget_range, funding_source, exam_status, gre_status,
		       sop_status, onboarding_complete, current_stage
		FROM user_profiles
		WHERE user_id = $1`, userID).Scan(
		&p.UserID, &p.EducationLevel, &p.Major, &p.GraduationYear, &p.GPA,
		&p.TargetDegree, &p.TargetField, &p.TargetCountry, &p.IntakeYear,
		&p.BudgetRange, &p.FundingSource, &p.ExamStatus, &p.GREStatus,
		&p.SOPStatus, &p.OnboardingComplete, &p.CurrentStage,
	)
	if err != nil {
		return nil, 0, 0, err
	}

	execTime := time.Since(start).Milliseconds()
	return &p, 1, execTime, nil
}
