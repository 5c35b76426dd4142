// internal/workers/profile/compute-profile-strength/config.go
package computeprofilestrength

import "time"

type Config struct {
	Timeout time.Duration
}
