// internal/cache/cache.go
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"sante-assist/internal/models"
)

// Store memoizes processed responses keyed by (normalized query, profile
// fingerprint). Implementations: in-process MemoryStore and RedisStore for
// multi-instance deployments.
type Store interface {
	// Get returns the cached response, or nil on miss or expiry.
	Get(ctx context.Context, key string) *models.ProcessedResponse
	// Set stores a response. A zero ttl resolves the duration from the
	// category TTL table.
	Set(ctx context.Context, key string, value models.ProcessedResponse, category models.Category, ttl time.Duration) error
	// Stats reports cache accounting.
	Stats(ctx context.Context) Stats
	// Stop shuts down background maintenance. Safe to call once.
	Stop()
}

// Stats is a point-in-time snapshot of cache behavior.
type Stats struct {
	Items       int       `json:"items"`
	Hits        int64     `json:"hits"`
	Misses      int64     `json:"misses"`
	HitRate     float64   `json:"hitRate"`
	MemoryBytes int       `json:"memoryBytes"`
	Oldest      time.Time `json:"oldest,omitempty"`
	Newest      time.Time `json:"newest,omitempty"`
}

// Key derives the cache key from the normalized query and the profile
// fingerprint. Pure function: identical inputs always map to the same key.
func Key(normalizedQuery, fingerprint string) string {
	sum := sha256.Sum256([]byte(normalizedQuery + "\x00" + fingerprint))
	return hex.EncodeToString(sum[:])
}

// categoryTTL is the fixed category→duration table. Urgency-sensitive or
// frequently-changing categories expire quickly; stable procedural pages
// keep their answers for a day.
var categoryTTL = map[models.Category]time.Duration{
	models.CategoryUrgentCare:      2 * time.Hour,
	models.CategoryPharmacy:        2 * time.Hour,
	models.CategoryReimbursement:   6 * time.Hour,
	models.CategorySpecialist:      12 * time.Hour,
	models.CategoryAsylumSeeker:    12 * time.Hour,
	models.CategoryCard:            24 * time.Hour,
	models.CategoryEnrollment:      24 * time.Hour,
	models.CategoryPrimaryProvider: 24 * time.Hour,
	models.CategoryForeignResident: 24 * time.Hour,
}

// ResolveTTL returns the table duration for the category, or defaultTTL
// when the category is unknown.
func ResolveTTL(category models.Category, defaultTTL time.Duration) time.Duration {
	if ttl, ok := categoryTTL[category]; ok {
		return ttl
	}
	return defaultTTL
}

// Config holds cache tuning knobs.
type Config struct {
	MaxSize         int
	DefaultTTL      time.Duration
	CleanupInterval time.Duration
	MinConfidence   float64
}

func LoadConfig() *Config {
	return &Config{
		MaxSize:         1000,
		DefaultTTL:      6 * time.Hour,
		CleanupInterval: 5 * time.Minute,
		MinConfidence:   0.7,
	}
}
