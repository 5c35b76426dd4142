// internal/models/task.go
package models

// Task categories.
const (
	TaskCategoryGeneral     = "general"
	TaskCategorySOP         = "sop"
	TaskCategoryExam        = "exam"
	TaskCategoryApplication = "application"
	TaskCategoryFinancial   = "financial"
	TaskCategoryResearch    = "research"
)

// Task priorities.
const (
	TaskPriorityHigh   = "high"
	TaskPriorityMedium = "medium"
	TaskPriorityLow    = "low"
)

// Task is a single actionable item on a user's checklist. Generators emit
// tasks without IDs; persist-tasks assigns them on insert.
type Task struct {
	ID          string `json:"id,omitempty"`
	UserID      string `json:"userId,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
	Completed   bool   `json:"completed"`
	DueDate     string `json:"dueDate,omitempty"` // RFC3339
}
