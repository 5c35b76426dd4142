// internal/workers/data-access/search-universities/queries/builders_test.go
package queries

import (
	"encoding/json"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeBody(t *testing.T, body io.Reader) map[string]interface{} {
	t.Helper()
	var decoded map[string]interface{}
	require.NoError(t, json.NewDecoder(body).Decode(&decoded))
	return decoded
}

func TestBuildQuery_MissingIndex(t *testing.T) {
	_, err := BuildQuery(nil, UniversityQuery{QueryType: "university_search"})
	assert.ErrorIs(t, err, ErrMissingIndex)
}

func TestBuildQuery_UnknownQueryType(t *testing.T) {
	_, err := BuildQuery(nil, UniversityQuery{Index: "universities", QueryType: "bogus"})
	assert.ErrorIs(t, err, ErrUnknownQueryType)
}

func TestBuildQuery_KeywordSearch(t *testing.T) {
	req, err := BuildQuery(nil, UniversityQuery{
		Index:     "universities",
		QueryType: "university_search",
		Filters:   map[string]interface{}{"keywords": "computer science"},
	})
	require.NoError(t, err)

	body := decodeBody(t, req.Body)
	boolQuery := body["query"].(map[string]interface{})["bool"].(map[string]interface{})
	must := boolQuery["must"].([]interface{})
	require.Len(t, must, 1)

	multiMatch := must[0].(map[string]interface{})["multi_match"].(map[string]interface{})
	assert.Equal(t, "computer science", multiMatch["query"])
}

func TestBuildQuery_FiltersApplied(t *testing.T) {
	req, err := BuildQuery(nil, UniversityQuery{
		Index:     "universities",
		QueryType: "university_search",
		Filters: map[string]interface{}{
			"country":          "USA",
			"category":         "safe",
			"maxTuition":       35000.0,
			"scholarshipsOnly": true,
		},
	})
	require.NoError(t, err)

	body := decodeBody(t, req.Body)
	boolQuery := body["query"].(map[string]interface{})["bool"].(map[string]interface{})
	filters := boolQuery["filter"].([]interface{})
	assert.Len(t, filters, 4)

	// No keywords means match_all.
	must := boolQuery["must"].([]interface{})
	_, hasMatchAll := must[0].(map[string]interface{})["match_all"]
	assert.True(t, hasMatchAll)
}

func TestBuildQuery_SortByRanking(t *testing.T) {
	req, err := BuildQuery(nil, UniversityQuery{
		Index:     "universities",
		QueryType: "university_search",
		Filters:   map[string]interface{}{"sortBy": "ranking"},
	})
	require.NoError(t, err)

	body := decodeBody(t, req.Body)
	sort := body["sort"].([]interface{})
	require.Len(t, sort, 1)
	assert.Equal(t, "asc", sort[0].(map[string]interface{})["ranking"])
}

func TestBuildQuery_SimilarUniversities(t *testing.T) {
	req, err := BuildQuery(nil, UniversityQuery{
		Index:        "universities",
		QueryType:    "similar_universities",
		UniversityID: "asu",
	})
	require.NoError(t, err)

	body := decodeBody(t, req.Body)
	boolQuery := body["query"].(map[string]interface{})["bool"].(map[string]interface{})
	assert.NotNil(t, boolQuery["must"])
	assert.NotNil(t, boolQuery["must_not"], "the source entry must be excluded from its own results")
}

func TestBuildQuery_SimilarWithoutIDMatchesNothing(t *testing.T) {
	req, err := BuildQuery(nil, UniversityQuery{
		Index:     "universities",
		QueryType: "similar_universities",
	})
	require.NoError(t, err)

	body := decodeBody(t, req.Body)
	_, hasMatchNone := body["query"].(map[string]interface{})["match_none"]
	assert.True(t, hasMatchNone)
}
