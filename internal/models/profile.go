// internal/models/profile.go
package models

import (
	"strconv"
	"strings"
)

// Exam and SOP lifecycle states as stored on the profile. These are free-text
// columns upstream; unknown values fall through to the zero branch of every
// consumer, never to an error.
const (
	StatusNotStarted = "not_started"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"

	SOPDraft = "draft"
	SOPReady = "ready"
)

// Budget range buckets accepted during onboarding.
var BudgetRanges = []string{"0-20000", "20000-35000", "35000-50000", "50000+"}

// UserProfile is the onboarding snapshot every scoring worker consumes.
type UserProfile struct {
	UserID             string `json:"userId"`
	EducationLevel     string `json:"educationLevel,omitempty"`
	Major              string `json:"major,omitempty"`
	GraduationYear     int    `json:"graduationYear,omitempty"`
	GPA                string `json:"gpa,omitempty"` // free text, see ParseGPA
	TargetDegree       string `json:"targetDegree,omitempty"`
	TargetField        string `json:"targetField,omitempty"`
	TargetCountry      string `json:"targetCountry,omitempty"`
	IntakeYear         int    `json:"intakeYear,omitempty"`
	BudgetRange        string `json:"budgetRange,omitempty"`
	FundingSource      string `json:"fundingSource,omitempty"`
	ExamStatus         string `json:"examStatus,omitempty"`
	GREStatus          string `json:"greStatus,omitempty"`
	SOPStatus          string `json:"sopStatus,omitempty"`
	OnboardingComplete bool   `json:"onboardingComplete"`
	// CurrentStage is a display label only. The authoritative stage is always
	// recomputed by the determine-stage worker from StageFacts.
	CurrentStage string `json:"currentStage,omitempty"`
}

// ParseGPA parses the free-text GPA column. Absent or malformed values
// resolve to the fallback instead of an error.
func ParseGPA(raw string, fallback float64) float64 {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return fallback
	}
	gpa, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return fallback
	}
	return gpa
}

// HasGPA reports whether the profile carries a parseable GPA value.
func (p *UserProfile) HasGPA() bool {
	trimmed := strings.TrimSpace(p.GPA)
	if trimmed == "" {
		return false
	}
	_, err := strconv.ParseFloat(trimmed, 64)
	return err == nil
}

// StageFacts are the three facts the funnel stage is derived from. They come
// from relational storage on every request; the stage itself is never stored.
type StageFacts struct {
	OnboardingComplete bool `json:"onboardingComplete"`
	ShortlistedCount   int  `json:"shortlistedCount"`
	LockedCount        int  `json:"lockedCount"`
}
