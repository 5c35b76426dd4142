// internal/workers/data-access/query-postgresql/queries/tasks.go
package queries

import (
	"context"
	"database/sql"
	"time"

	"counsel-workers/internal/models"
)

func UserTasks(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	userID, ok := params["userId"].(string)
	if !ok {
		return nil, 0, 0, ErrMissingParam
	}

	start := time.Now()

	query := `
		SELECT id, user_id, title, description, category, priority, completed, due_date
		FROM tasks
		WHERE user_id = $1`
	args := []interface{}{userID}

	if filters, ok := params["filters"].(map[string]interface{}); ok {
		if completed, ok := filters["completed"].(bool); ok {
			query += ` AND completed = $2`
			args = append(args, completed)
		}
	}
	query += ` ORDER BY due_date`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, 0, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var t models.Task
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Description,
			&t.Category, &t.Priority, &t.Completed, &t.DueDate); err != nil {
			return nil, 0, 0, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, 0, err
	}

	execTime := time.Since(start).Milliseconds()
	return tasks, len(tasks), execTime, nil
}
