// internal/scrape/config.go
package scrape

import "time"

type Config struct {
	BaseURL         string
	APIKey          string
	Timeout         time.Duration
	RetryAttempts   int
	Parallelism     int
	AllowedDomains  []string
	BreakerCooldown time.Duration
	// BackoffBase is doubled per attempt (2^attempt). Overridable in tests.
	BackoffBase time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout:         30 * time.Second,
		RetryAttempts:   3,
		Parallelism:     2,
		AllowedDomains:  []string{"ameli.fr"},
		BreakerCooldown: 60 * time.Second,
		BackoffBase:     time.Second,
	}
}

func (c *Config) backoffBase() time.Duration {
	if c.BackoffBase > 0 {
		return c.BackoffBase
	}
	return time.Second
}
