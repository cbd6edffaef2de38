// internal/cache/memory.go
package cache

import (
	"context"
	"sync"
	"time"

	"sante-assist/internal/common/logger"
	"sante-assist/internal/common/metrics"
	"sante-assist/internal/models"
)

type memoryEntry struct {
	value        models.ProcessedResponse
	category     models.Category
	createdAt    time.Time
	expiresAt    time.Time
	lastAccessed time.Time
	hits         int64
}

// MemoryStore is the default in-process cache: mutex-guarded map with
// per-category TTLs, insertion-order eviction at capacity, lazy expiry on
// read and a periodic background sweep.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	order   []string // insertion order, oldest first

	config *Config
	logger logger.Logger
	now    func() time.Time

	hits   int64
	misses int64

	stopOnce sync.Once
	stopCh   chan struct{}
}

func NewMemoryStore(config *Config, log logger.Logger) *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]*memoryEntry),
		config:  config,
		logger:  log,
		now:     time.Now,
		stopCh:  make(chan struct{}),
	}
	if config.CleanupInterval > 0 {
		go s.sweepLoop(config.CleanupInterval)
	}
	return s
}

func (s *MemoryStore) Get(_ context.Context, key string) *models.ProcessedResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		s.misses++
		metrics.CacheMisses.WithLabelValues("memory").Inc()
		return nil
	}
	if s.now().After(entry.expiresAt) {
		s.removeLocked(key)
		s.misses++
		metrics.CacheMisses.WithLabelValues("memory").Inc()
		metrics.CacheEvictions.WithLabelValues("memory", "expired").Inc()
		return nil
	}

	entry.lastAccessed = s.now()
	entry.hits++
	s.hits++
	metrics.CacheHits.WithLabelValues("memory").Inc()

	value := entry.value
	return &value
}

func (s *MemoryStore) Set(_ context.Context, key string, value models.ProcessedResponse, category models.Category, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = ResolveTTL(category, s.config.DefaultTTL)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[key]; !exists && len(s.entries) >= s.config.MaxSize {
		s.evictOldestLocked()
	}

	now := s.now()
	if _, exists := s.entries[key]; !exists {
		s.order = append(s.order, key)
	}
	s.entries[key] = &memoryEntry{
		value:        value,
		category:     category,
		createdAt:    now,
		expiresAt:    now.Add(ttl),
		lastAccessed: now,
	}

	s.logger.Debug("Cached response", map[string]interface{}{
		"key":      keyPrefix(key),
		"category": string(category),
		"ttl":      ttl.String(),
	})
	return nil
}

func (s *MemoryStore) Stats(_ context.Context) Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := Stats{
		Items:  len(s.entries),
		Hits:   s.hits,
		Misses: s.misses,
	}
	if total := s.hits + s.misses; total > 0 {
		stats.HitRate = float64(s.hits) / float64(total)
	}
	for _, entry := range s.entries {
		stats.MemoryBytes += estimateSize(&entry.value)
		if stats.Oldest.IsZero() || entry.createdAt.Before(stats.Oldest) {
			stats.Oldest = entry.createdAt
		}
		if entry.createdAt.After(stats.Newest) {
			stats.Newest = entry.createdAt
		}
	}
	return stats
}

func (s *MemoryStore) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}

func (s *MemoryStore) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopCh:
			return
		}
	}
}

func (s *MemoryStore) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for key, entry := range s.entries {
		if now.After(entry.expiresAt) {
			s.removeLocked(key)
			metrics.CacheEvictions.WithLabelValues("memory", "expired").Inc()
			removed++
		}
	}
	if removed > 0 {
		s.logger.Debug("Cache sweep removed expired entries", map[string]interface{}{
			"removed":   removed,
			"remaining": len(s.entries),
		})
	}
}

func (s *MemoryStore) evictOldestLocked() {
	for len(s.order) > 0 {
		key := s.order[0]
		if _, ok := s.entries[key]; ok {
			s.removeLocked(key)
			metrics.CacheEvictions.WithLabelValues("memory", "capacity").Inc()
			return
		}
		s.order = s.order[1:]
	}
}

func (s *MemoryStore) removeLocked(key string) {
	delete(s.entries, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// estimateSize approximates the in-memory footprint of a cached response.
// keyPrefix abbreviates a key for logging. Keys are normally sha256
// hex, but callers may pass anything.
func keyPrefix(key string) string {
	if len(key) > 12 {
		return key[:12]
	}
	return key
}

func estimateSize(value *models.ProcessedResponse) int {
	size := len(value.Answer)
	for _, src := range value.Sources {
		size += len(src)
	}
	for _, section := range value.RelevantSections {
		size += len(section)
	}
	return size + 64
}
