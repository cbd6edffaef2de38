// internal/classify/config.go
package classify

import "sante-assist/internal/models"

type Config struct {
	// Policy decides whether a static category match is trusted or the
	// result is downgraded so downstream performs live retrieval.
	Policy models.RoutingPolicy
	// HybridThreshold is the minimum static-match confidence the hybrid
	// policy keeps; weaker matches are downgraded to general.
	HybridThreshold float64
}

func LoadConfig(policy string) *Config {
	return &Config{
		Policy:          models.RoutingPolicy(policy),
		HybridThreshold: 0.8,
	}
}
