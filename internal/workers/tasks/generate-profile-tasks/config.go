// internal/workers/tasks/generate-profile-tasks/config.go
package generateprofiletasks

import "time"

type Config struct {
	Timeout time.Duration
}
