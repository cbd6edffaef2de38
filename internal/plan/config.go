// internal/plan/config.go
package plan

type Config struct {
	MaxPagesPerQuery int
}

func LoadConfig(maxPages int) *Config {
	if maxPages <= 0 {
		maxPages = 3
	}
	return &Config{MaxPagesPerQuery: maxPages}
}
