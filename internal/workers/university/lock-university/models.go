// internal/workers/university/lock-university/models.go
package lockuniversity

const (
	ActionLock   = "lock"
	ActionUnlock = "unlock"
)

type Input struct {
	UserID       string `json:"userId"`
	UniversityID string `json:"universityId,omitempty"`
	// Action is "lock" or "unlock"; empty defaults to lock.
	Action string `json:"action,omitempty"`
}

type Output struct {
	UserID       string `json:"userId"`
	UniversityID string `json:"universityId,omitempty"`
	Locked       bool   `json:"locked"`
	LockedAt     string `json:"lockedAt,omitempty"`
}
