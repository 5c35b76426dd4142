// internal/workers/tasks/generate-university-tasks/config.go
package generateuniversitytasks

import "time"

type Config struct {
	Timeout time.Duration
}
