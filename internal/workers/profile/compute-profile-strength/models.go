// internal/workers/profile/compute-profile-strength/models.go
package computeprofilestrength

import "counsel-workers/internal/models"

type Input struct {
	UserID  string              `json:"userId"`
	Profile *models.UserProfile `json:"profile"`
}

type Output struct {
	Academics int `json:"academics"`
	Exams     int `json:"exams"`
	SOP       int `json:"sop"`
	Overall   int `json:"overall"`
}
