// internal/workers/tasks/persist-tasks/models.go
package persisttasks

import "counsel-workers/internal/models"

type Input struct {
	UserID string        `json:"userId"`
	Tasks  []models.Task `json:"tasks"`
}

type Output struct {
	UserID    string   `json:"userId"`
	TaskIDs   []string `json:"taskIds"`
	Persisted int      `json:"persisted"`
	CreatedAt string   `json:"createdAt"`
}
