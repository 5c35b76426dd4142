// internal/workers/matching/recommend-universities/handler_test.go
package recommenduniversities

import (
	"context"
	"fmt"
	"testing"

	"counsel-workers/internal/common/logger"
	"counsel-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHandler() *Handler {
	return NewHandler(&Config{}, logger.NewNoOpLogger())
}

// sortedMatches fabricates a score-descending match list with n entries per
// category, interleaved the way the matcher would emit them.
func sortedMatches(perCategory int) []models.UniversityMatch {
	var out []models.UniversityMatch
	score := 100
	for i := 0; i < perCategory; i++ {
		for _, cat := range []string{"target", "safe", "dream"} {
			out = append(out, models.UniversityMatch{
				UniversityID: fmt.Sprintf("%s-%d", cat, i),
				Category:     cat,
				MatchScore:   score,
			})
			score--
		}
	}
	return out
}

func TestExecute_Buckets(t *testing.T) {
	h := newHandler()

	out, err := h.Execute(context.Background(), &Input{Matches: sortedMatches(7)})
	require.NoError(t, err)

	assert.Len(t, out.Dream, 5)
	assert.Len(t, out.Target, 5)
	assert.Len(t, out.Safe, 5)
	assert.Len(t, out.All, 15)

	// Bucket order preserves the matcher's score order.
	for i := 1; i < len(out.Target); i++ {
		assert.Greater(t, out.Target[i-1].MatchScore, out.Target[i].MatchScore)
	}

	// All is dream then target then safe.
	assert.Equal(t, "dream-0", out.All[0].UniversityID)
	assert.Equal(t, "target-0", out.All[5].UniversityID)
	assert.Equal(t, "safe-0", out.All[10].UniversityID)
}

func TestExecute_LimitTruncatesAll(t *testing.T) {
	h := newHandler()

	out, err := h.Execute(context.Background(), &Input{Matches: sortedMatches(7), Limit: 8})
	require.NoError(t, err)

	assert.Len(t, out.All, 8)
	// Truncation trims from the tail, so dream entries survive.
	assert.Equal(t, "dream-0", out.All[0].UniversityID)
	// Buckets are not affected by the overall limit.
	assert.Len(t, out.Safe, 5)
}

func TestExecute_FewMatches(t *testing.T) {
	h := newHandler()

	out, err := h.Execute(context.Background(), &Input{Matches: sortedMatches(1)})
	require.NoError(t, err)

	assert.Len(t, out.Dream, 1)
	assert.Len(t, out.Target, 1)
	assert.Len(t, out.Safe, 1)
	assert.Len(t, out.All, 3)
}

func TestExecute_EmptyInput(t *testing.T) {
	h := newHandler()

	out, err := h.Execute(context.Background(), &Input{})
	require.NoError(t, err)

	assert.Empty(t, out.Dream)
	assert.Empty(t, out.Target)
	assert.Empty(t, out.Safe)
	assert.Empty(t, out.All)
}

func TestExecute_UnknownCategoryIgnored(t *testing.T) {
	h := newHandler()

	out, err := h.Execute(context.Background(), &Input{
		Matches: []models.UniversityMatch{
			{UniversityID: "x", Category: "experimental", MatchScore: 99},
			{UniversityID: "y", Category: "safe", MatchScore: 50},
		},
	})
	require.NoError(t, err)

	assert.Len(t, out.All, 1)
	assert.Equal(t, "y", out.All[0].UniversityID)
}
