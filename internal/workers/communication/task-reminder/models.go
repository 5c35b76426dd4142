// internal/workers/communication/task-reminder/models.go
package taskreminder

import (
	"time"

	"counsel-workers/internal/models"
)

const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
	ChannelBoth  = "both"
)

type Input struct {
	UserID string `json:"userId"`
	Email  string `json:"email,omitempty"`
	Phone  string `json:"phone,omitempty"`
	// Channel selects delivery: "email", "sms" or "both". Empty means email.
	Channel string        `json:"channel,omitempty"`
	Tasks   []models.Task `json:"tasks"`
}

type Output struct {
	Success      bool      `json:"success"`
	EmailSent    bool      `json:"emailSent"`
	SMSSent      bool      `json:"smsSent"`
	TaskCount    int       `json:"taskCount"`
	DeliveredAt  time.Time `json:"deliveredAt,omitempty"`
	SkippedEmpty bool      `json:"skippedEmpty,omitempty"`
}
