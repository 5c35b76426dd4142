// internal/workers/profile/determine-stage/handler_test.go
package determinestage

import (
	"context"
	"testing"

	"counsel-workers/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetermineStage(t *testing.T) {
	tests := []struct {
		name               string
		onboardingComplete bool
		shortlisted        int
		locked             int
		want               int
	}{
		{"onboarding incomplete gates everything", false, 5, 5, StageProfileBuilding},
		{"fresh user after onboarding", true, 0, 0, StageUniversityDiscovery},
		{"shortlist moves to stage 3", true, 3, 0, StageShortlisting},
		{"lock moves to stage 4", true, 0, 1, StageApplicationPreparation},
		{"lock takes precedence over shortlist", true, 25, 1, StageApplicationPreparation},
		{"large shortlist without lock stays at 3", true, 100, 0, StageShortlisting},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetermineStage(tt.onboardingComplete, tt.shortlisted, tt.locked)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStageInfo_Progress(t *testing.T) {
	assert.Equal(t, 25, StageInfo(StageProfileBuilding).Progress)
	assert.Equal(t, 50, StageInfo(StageUniversityDiscovery).Progress)
	assert.Equal(t, 65, StageInfo(StageShortlisting).Progress)
	assert.Equal(t, 85, StageInfo(StageApplicationPreparation).Progress)

	// Out-of-range stages resolve to stage 1 metadata.
	assert.Equal(t, StageInfo(StageProfileBuilding), StageInfo(0))
	assert.Equal(t, StageInfo(StageProfileBuilding), StageInfo(9))
}

func TestCanAccessFeature(t *testing.T) {
	tests := []struct {
		stage   int
		feature string
		want    bool
	}{
		{StageProfileBuilding, "counsellor", false},
		{StageProfileBuilding, "universities", false},
		{StageUniversityDiscovery, "counsellor", true},
		{StageUniversityDiscovery, "universities", true},
		{StageShortlisting, "guidance", false},
		{StageApplicationPreparation, "guidance", true},
		{StageProfileBuilding, "tasks", true}, // ungated features are always available
	}

	for _, tt := range tests {
		got := CanAccessFeature(tt.stage, tt.feature)
		assert.Equalf(t, tt.want, got, "stage=%d feature=%s", tt.stage, tt.feature)
	}
}

func TestExecute(t *testing.T) {
	h := NewHandler(&Config{}, logger.NewNoOpLogger())

	out, err := h.Execute(context.Background(), &Input{
		UserID:             "user-1",
		OnboardingComplete: true,
		ShortlistedCount:   4,
		LockedCount:        1,
	})
	require.NoError(t, err)

	assert.Equal(t, StageApplicationPreparation, out.Stage)
	assert.Equal(t, "Application Preparation", out.Name)
	assert.Equal(t, 85, out.Progress)
	assert.True(t, out.Features["guidance"])
	assert.True(t, out.Features["counsellor"])
}

func TestExecute_Stage1Features(t *testing.T) {
	h := NewHandler(&Config{}, logger.NewNoOpLogger())

	out, err := h.Execute(context.Background(), &Input{UserID: "user-1"})
	require.NoError(t, err)

	assert.Equal(t, StageProfileBuilding, out.Stage)
	assert.False(t, out.Features["counsellor"])
	assert.False(t, out.Features["universities"])
	assert.False(t, out.Features["guidance"])
}
