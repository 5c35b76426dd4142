// internal/workers/university/lock-university/config.go
package lockuniversity

import "time"

type Config struct {
	Timeout time.Duration
}
