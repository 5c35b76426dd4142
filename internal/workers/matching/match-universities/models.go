// internal/workers/matching/match-universities/models.go
package matchuniversities

import (
	"counsel-workers/internal/catalog"
	"counsel-workers/internal/models"
)

type Input struct {
	UserID string `json:"userId"`
	// Profile may be passed inline; when absent it is fetched by UserID.
	Profile *models.UserProfile `json:"profile,omitempty"`
	// Universities restricts scoring to a subset. Empty means the full
	// static catalog.
	Universities []catalog.University `json:"universities,omitempty"`
}

type Output struct {
	Matches []models.UniversityMatch `json:"matches"`
}
