// internal/workers/profile/determine-stage/models.go
package determinestage

type Input struct {
	UserID             string `json:"userId"`
	OnboardingComplete bool   `json:"onboardingComplete"`
	ShortlistedCount   int    `json:"shortlistedCount"`
	LockedCount        int    `json:"lockedCount"`
}

type Output struct {
	Stage       int             `json:"stage"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	NextAction  string          `json:"nextAction"`
	Progress    int             `json:"progress"`
	Features    map[string]bool `json:"features"`
}

// Info is the fixed display metadata of one funnel stage.
type Info struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	NextAction  string `json:"nextAction"`
	Progress    int    `json:"progress"`
}
