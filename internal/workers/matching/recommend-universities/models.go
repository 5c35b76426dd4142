// internal/workers/matching/recommend-universities/models.go
package recommenduniversities

import "counsel-workers/internal/models"

type Input struct {
	UserID string `json:"userId"`
	// Matches is the score-descending output of match-universities.
	Matches []models.UniversityMatch `json:"matches"`
	// Limit caps the combined list; zero means the configured default.
	Limit int `json:"limit,omitempty"`
}

type Output struct {
	Dream  []models.UniversityMatch `json:"dream"`
	Target []models.UniversityMatch `json:"target"`
	Safe   []models.UniversityMatch `json:"safe"`
	All    []models.UniversityMatch `json:"all"`
}
