// internal/workers/tasks/persist-tasks/config.go
package persisttasks

import "time"

type Config struct {
	Timeout time.Duration
}
