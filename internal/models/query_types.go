// internal/models/query_types.go
package models

type QueryType string

const (
	QueryTypeUserProfile QueryType = "user_profile"
	QueryTypeStageFacts  QueryType = "stage_facts"
	QueryTypeUserTasks   QueryType = "user_tasks"
	QueryTypeShortlist   QueryType = "shortlist"
)

// StageFactsCacheKey is the redis key holding a user's cached stage facts.
// The stage-facts query populates it; lock-university invalidates it.
func StageFactsCacheKey(userID string) string {
	return "user:stage-facts:" + userID
}
