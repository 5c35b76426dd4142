// internal/workers/data-access/search-universities/models.go
package searchuniversities

type Input struct {
	IndexName    string                 `json:"indexName"`
	QueryType    string                 `json:"queryType"`
	Filters      map[string]interface{} `json:"filters"`
	UniversityID string                 `json:"universityId,omitempty"`
	Category     string                 `json:"category,omitempty"`
	Pagination   Pagination             `json:"pagination"`
}

type Pagination struct {
	From int `json:"from"`
	Size int `json:"size"`
}

type Output struct {
	Data      []map[string]interface{} `json:"data"`
	TotalHits int64                    `json:"totalHits"`
	MaxScore  float64                  `json:"maxScore"`
	Took      int64                    `json:"took"` // milliseconds
}
