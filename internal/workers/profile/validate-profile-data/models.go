// internal/workers/profile/validate-profile-data/models.go
package validateprofiledata

type Input struct {
	UserID string `json:"userId"`
	// ProfileData is the raw onboarding payload before persistence.
	ProfileData map[string]interface{} `json:"profileData"`
}

type Output struct {
	UserID string   `json:"userId"`
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}
