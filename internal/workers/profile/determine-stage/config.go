// internal/workers/profile/determine-stage/config.go
package determinestage

import "time"

type Config struct {
	Timeout time.Duration
}
