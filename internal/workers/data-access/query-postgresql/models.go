// internal/workers/data-access/query-postgresql/models.go
package querypostgresql

import "counsel-workers/internal/models"

type Input struct {
	QueryType string                 `json:"queryType"`
	UserID    string                 `json:"userId,omitempty"`
	Filters   map[string]interface{} `json:"filters,omitempty"`
}

type Output struct {
	Data               interface{} `json:"data"`
	RowCount           int         `json:"rowCount"`
	QueryExecutionTime int64       `json:"queryExecutionTime"` // milliseconds
}

type QueryType = models.QueryType

var (
	QueryTypeUserProfile = models.QueryTypeUserProfile
	QueryTypeStageFacts  = models.QueryTypeStageFacts
	QueryTypeUserTasks   = models.QueryTypeUserTasks
	QueryTypeShortlist   = models.QueryTypeShortlist
)
