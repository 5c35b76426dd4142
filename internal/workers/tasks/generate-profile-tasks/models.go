// internal/workers/tasks/generate-profile-tasks/models.go
package generateprofiletasks

import "counsel-workers/internal/models"

type Input struct {
	UserID string `json:"userId"`
	// Profile is the onboarding snapshot the gap rules run against. A nil
	// profile still yields the unconditional tasks.
	Profile *models.UserProfile `json:"profile"`
}

type Output struct {
	UserID string        `json:"userId"`
	Tasks  []models.Task `json:"tasks"`
}
