// internal/workers/matching/match-universities/config.go
package matchuniversities

import "time"

type Config struct {
	CacheTTL time.Duration
	Timeout  time.Duration

	// Acceptance-rate tier boundaries (%). Zero values fall back to the
	// legacy 15/30 cut points.
	SelectiveRateBelow float64
	ModerateRateBelow  float64
}

func (c *Config) selectiveBelow() float64 {
	if c.SelectiveRateBelow > 0 {
		return c.SelectiveRateBelow
	}
	return 15
}

func (c *Config) moderateBelow() float64 {
	if c.ModerateRateBelow > 0 {
		return c.ModerateRateBelow
	}
	return 30
}
