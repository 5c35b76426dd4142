// internal/workers/profile/validate-profile-data/config.go
package validateprofiledata

import "time"

type Config struct {
	Timeout time.Duration
}
