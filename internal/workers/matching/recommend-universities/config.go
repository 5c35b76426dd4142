// internal/workers/matching/recommend-universities/config.go
package recommenduniversities

import "time"

type Config struct {
	MaxPerCategory int
	DefaultLimit   int
	Timeout        time.Duration
}

func (c *Config) maxPerCategory() int {
	if c.MaxPerCategory > 0 {
		return c.MaxPerCategory
	}
	return 5
}

func (c *Config) defaultLimit() int {
	if c.DefaultLimit > 0 {
		return c.DefaultLimit
	}
	return 15
}
