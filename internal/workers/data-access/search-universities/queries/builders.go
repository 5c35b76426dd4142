// internal/workers/data-access/search-universities/queries/builders.go
package queries

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

var (
	ErrUnknownQueryType = errors.New("unknown query type")
	ErrMissingIndex     = errors.New("index name is required")
)

// UniversityQuery defines the structure of a search request
type UniversityQuery struct {
	Index        string
	QueryType    string
	Filters      map[string]interface{}
	UniversityID string
	Category     string
	Pagination   struct {
		From int
		Size int
	}
}

// BuildQuery builds an Elasticsearch search request based on query type and filters
func BuildQuery(esClient *elasticsearch.Client, uq UniversityQuery) (*esapi.SearchRequest, error) {
	if uq.Index == "" {
		return nil, ErrMissingIndex
	}

	var queryBody map[string]interface{}

	switch uq.QueryType {
	case "university_search":
		queryBody = buildUniversitySearchQuery(uq)
	case "similar_universities":
		queryBody = buildSimilarUniversitiesQuery(uq)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownQueryType, uq.QueryType)
	}

	body, _ := json.Marshal(queryBody)

	req := esapi.SearchRequest{
		Index: []string{uq.Index},
		Body:  strings.NewReader(string(body)),
		From:  &uq.Pagination.From,
		Size:  &uq.Pagination.Size,
	}

	return &req, nil
}

// buildUniversitySearchQuery builds the catalog search query dynamically
func buildUniversitySearchQuery(uq UniversityQuery) map[string]interface{} {
	boolQuery := make(map[string]interface{})
	mustClauses := []interface{}{}
	filterClauses := []interface{}{}

	// Keyword search over name, programs and city
	if keywords, ok := uq.Filters["keywords"].(string); ok && keywords != "" {
		mustClauses = append(mustClauses, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  keywords,
				"fields": []string{"name^3", "programs^2", "city"},
				"type":   "best_fields",
			},
		})
	}

	if country, ok := uq.Filters["country"].(string); ok && country != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"country": country},
		})
	}

	if category, ok := uq.Filters["category"].(string); ok && category != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"category": category},
		})
	} else if uq.Category != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"category": uq.Category},
		})
	}

	// Tuition ceiling filter
	if maxTuition, ok := numeric(uq.Filters["maxTuition"]); ok && maxTuition > 0 {
		filterClauses = append(filterClauses, map[string]interface{}{
			"range": map[string]interface{}{
				"tuition_usd": map[string]interface{}{"lte": maxTuition},
			},
		})
	}

	if scholarshipsOnly, ok := uq.Filters["scholarshipsOnly"].(bool); ok && scholarshipsOnly {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"scholarships": true},
		})
	}

	// Default match_all if no keyword
	if len(mustClauses) == 0 {
		mustClauses = append(mustClauses, map[string]interface{}{"match_all": map[string]interface{}{}})
	}

	boolQuery["must"] = mustClauses
	if len(filterClauses) > 0 {
		boolQuery["filter"] = filterClauses
	}

	query := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": boolQuery,
		},
	}

	if sortBy, ok := uq.Filters["sortBy"].(string); ok {
		switch sortBy {
		case "ranking":
			query["sort"] = []map[string]interface{}{{"ranking": "asc"}}
		case "tuition":
			query["sort"] = []map[string]interface{}{{"tuition_usd": "asc"}}
		case "acceptance_rate":
			query["sort"] = []map[string]interface{}{{"acceptance_rate": "desc"}}
		}
	}

	return query
}

// buildSimilarUniversitiesQuery finds entries resembling a given catalog entry
func buildSimilarUniversitiesQuery(uq UniversityQuery) map[string]interface{} {
	if uq.UniversityID == "" {
		return map[string]interface{}{
			"query": map[string]interface{}{
				"match_none": map[string]interface{}{},
			},
		}
	}

	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": []interface{}{
					map[string]interface{}{
						"more_like_this": map[string]interface{}{
							"fields": []string{"programs", "country", "category"},
							"like": []interface{}{
								map[string]interface{}{"_id": uq.UniversityID},
							},
							"min_term_freq": 1,
							"min_doc_freq":  1,
						},
					},
				},
				"must_not": []interface{}{
					map[string]interface{}{
						"term": map[string]interface{}{"_id": uq.UniversityID},
					},
				},
			},
		},
	}
}

func numeric(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
