// internal/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"sante-assist/internal/common/logger"
	"sante-assist/internal/common/metrics"
	"sante-assist/internal/models"
)

const redisKeyPrefix = "sante:response:"

// RedisStore backs the response cache with Redis so multiple instances
// share one cache. TTLs are enforced natively by Redis; hit/miss counters
// are per-process.
type RedisStore struct {
	client *redis.Client
	config *Config
	logger logger.Logger

	hits   int64
	misses int64
}

type RedisOptions struct {
	Address  string
	Password string
	DB       int
}

func NewRedisStore(ctx context.Context, opts RedisOptions, config *Config, log logger.Logger) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Address,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &RedisStore{client: client, config: config, logger: log}, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) *models.ProcessedResponse {
	raw, err := s.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("Redis get failed", map[string]interface{}{"error": err.Error()})
		}
		atomic.AddInt64(&s.misses, 1)
		metrics.CacheMisses.WithLabelValues("redis").Inc()
		return nil
	}

	var value models.ProcessedResponse
	if err := json.Unmarshal(raw, &value); err != nil {
		s.logger.Warn("Redis entry corrupt, dropping", map[string]interface{}{"error": err.Error()})
		s.client.Del(ctx, redisKeyPrefix+key)
		atomic.AddInt64(&s.misses, 1)
		metrics.CacheMisses.WithLabelValues("redis").Inc()
		return nil
	}

	atomic.AddInt64(&s.hits, 1)
	metrics.CacheHits.WithLabelValues("redis").Inc()
	return &value
}

func (s *RedisStore) Set(ctx context.Context, key string, value models.ProcessedResponse, category models.Category, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = ResolveTTL(category, s.config.DefaultTTL)
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cached response: %w", err)
	}
	if err := s.client.Set(ctx, redisKeyPrefix+key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (s *RedisStore) Stats(ctx context.Context) Stats {
	stats := Stats{
		Hits:   atomic.LoadInt64(&s.hits),
		Misses: atomic.LoadInt64(&s.misses),
	}
	if total := stats.Hits + stats.Misses; total > 0 {
		stats.HitRate = float64(stats.Hits) / float64(total)
	}
	if count, err := s.client.DBSize(ctx).Result(); err == nil {
		stats.Items = int(count)
	}
	return stats
}

func (s *RedisStore) Stop() {
	if err := s.client.Close(); err != nil {
		s.logger.Warn("Redis close failed", map[string]interface{}{"error": err.Error()})
	}
}
