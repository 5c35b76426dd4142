// internal/models/match.go
package models

// Acceptance likelihood tiers.
const (
	LikelihoodHigh   = "High"
	LikelihoodMedium = "Medium"
	LikelihoodLow    = "Low"
)

// Risk levels.
const (
	RiskLow    = "Low"
	RiskMedium = "Medium"
	RiskHigh   = "High"
)

// UniversityMatch is the per-university scoring result. It is derived on
// every request and never persisted or cached.
type UniversityMatch struct {
	UniversityID         string `json:"universityId"`
	Name                 string `json:"name"`
	Country              string `json:"country"`
	City                 string `json:"city,omitempty"`
	Category             string `json:"category"`
	Ranking              int    `json:"ranking,omitempty"`
	TuitionUSD           int    `json:"tuitionUsd"`
	MatchScore           int    `json:"matchScore"`
	MatchReason          string `json:"matchReason"`
	AcceptanceLikelihood string `json:"acceptanceLikelihood"`
	RiskLevel            string `json:"riskLevel"`
}
