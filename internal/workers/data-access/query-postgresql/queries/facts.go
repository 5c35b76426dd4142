// internal/workers/data-access/query-postgresql/queries/facts.go
package queries

import (
	"context"
	"database/sql"
	"time"

	"counsel-workers/internal/models"
)

// StageFacts gathers the three inputs the stage determination runs on. The
// stage itself is never read from storage.
func StageFacts(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	userID, ok := params["userId"].(string)
	if !ok {
		return nil, 0, 0, ErrMissingParam
	}

	start := time.Now()

	var facts models.StageFacts
	err := db.QueryRowContext(ctx, `
		SELECT
			COALESCE((SELECT onboarding_complete FROM user_profiles WHERE user_id = $1), false),
			(SELECT COUNT(*) FROM shortlisted_universities WHERE user_id = $1),
			(SELECT COUNT(*) FROM locked_universities WHERE user_id = $1)`,
		userID).Scan(
		&facts.OnboardingComplete, &facts.ShortlistedCount, &facts.LockedCount,
	)
	if err != nil {
		return nil, 0, 0, err
	}

	execTime := time.Since(start).Milliseconds()
	return &facts, 1, execTime, nil
}
