// internal/workers/data-access/query-postgresql/queries/shortlist.go
package queries

import (
	"context"
	"database/sql"
	"time"
)

func Shortlist(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	userID, ok := params["userId"].(string)
	if !ok {
		return nil, 0, 0, ErrMissingParam
	}

	start := time.Now()

	rows, err := db.QueryContext(ctx, `
		SELECT university_id, added_at
		FROM shortlisted_universities
		WHERE user_id = $1
		ORDER BY added_at`, userID)
	if err != nil {
		return nil, 0, 0, err
	}
	defer rows.Close()

	var entries []map[string]interface{}
	for rows.Next() {
		var universityID, addedAt string
		if err := rows.Scan(&universityID, &addedAt); err != nil {
			return nil, 0, 0, err
		}
		entries = append(entries, map[string]interface{}{
			"universityId": universityID,
			"addedAt":      addedAt,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, 0, 0, err
	}

	execTime := time.Since(start).Milliseconds()
	return entries, len(entries), execTime, nil
}
