// internal/workers/tasks/generate-university-tasks/models.go
package generateuniversitytasks

import "counsel-workers/internal/models"

type Input struct {
	UserID         string `json:"userId"`
	UniversityName string `json:"universityName"`
	// RequirementsJSON is the admission requirement blob of the locked
	// university. Malformed JSON is treated as an empty requirement set.
	RequirementsJSON string `json:"requirementsJson,omitempty"`
	IntakeYear       int    `json:"intakeYear,omitempty"`
}

type Output struct {
	UserID string        `json:"userId"`
	Tasks  []models.Task `json:"tasks"`
}
