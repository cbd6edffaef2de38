// internal/scrape/client.go
package scrape

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	stderrors "sante-assist/internal/common/errors"
	"sante-assist/internal/common/logger"
	"sante-assist/internal/common/metrics"
	"sante-assist/internal/models"
)

// Client is the retrieval client used by the orchestration layer. Fetch
// failures never cross its public boundary as errors: every URL yields a
// ScrapeResult, failed ones with Success=false.
type Client struct {
	config   *Config
	live     Provider
	fallback Provider
	breaker  *Breaker
	logger   logger.Logger
}

func NewClient(config *Config, live, fallback Provider, log logger.Logger) *Client {
	return &Client{
		config:   config,
		live:     live,
		fallback: fallback,
		breaker:  NewBreaker(config.BreakerCooldown),
		logger: log.With(map[string]interface{}{
			"component": "retrieval",
		}),
	}
}

// FetchPage retrieves one URL with retry and exponential backoff.
func (c *Client) FetchPage(ctx context.Context, url string) models.ScrapeResult {
	var lastErr error

	for attempt := 0; attempt < c.config.RetryAttempts; attempt++ {
		if attempt > 0 {
			backoff := c.config.backoffBase() * time.Duration(1<<attempt)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return failedResult(url, ctx.Err())
			}
		}

		content, err := c.fetchOnce(ctx, url)
		if err == nil {
			return models.ScrapeResult{
				URL:       url,
				Content:   content,
				Success:   true,
				Timestamp: time.Now().UTC(),
			}
		}
		lastErr = err

		if ctx.Err() != nil {
			return failedResult(url, ctx.Err())
		}
	}

	c.logger.Warn("page retrieval failed after retries", map[string]interface{}{
		"url":      url,
		"attempts": c.config.RetryAttempts,
		"error":    lastErr.Error(),
	})

	return failedResult(url, lastErr)
}

// fetchOnce selects a provider through the breaker and records the outcome.
func (c *Client) fetchOnce(ctx context.Context, url string) (string, error) {
	provider := c.pickProvider()
	start := time.Now()

	content, err := provider.FetchAsMarkdown(ctx, url)
	metrics.ScrapeDuration.WithLabelValues(provider.Name()).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.ScrapeAttempts.WithLabelValues(provider.Name(), "error").Inc()
		if ctx.Err() != nil {
			// Caller cancellation is not a provider failure.
			return "", ctx.Err()
		}
		if provider == c.live && errors.Is(err, ErrProviderUnavailable) {
			c.breaker.RecordFailure()
			c.logger.Warn("live provider unavailable, serving from fallback", map[string]interface{}{
				"url": url,
			})
			// Serve the current request from the fallback immediately.
			return c.fallback.FetchAsMarkdown(ctx, url)
		}
		return "", err
	}

	metrics.ScrapeAttempts.WithLabelValues(provider.Name(), "success").Inc()
	if provider == c.live {
		c.breaker.RecordSuccess()
	}
	return content, nil
}

func (c *Client) pickProvider() Provider {
	if c.breaker.Allow() {
		return c.live
	}
	return c.fallback
}

// FetchBatch partitions URLs into chunks of Parallelism, fetches each chunk
// concurrently and awaits it before starting the next. Results preserve the
// input order.
func (c *Client) FetchBatch(ctx context.Context, urls []string) []models.ScrapeResult {
	results := make([]models.ScrapeResult, len(urls))
	chunkSize := c.config.Parallelism
	if chunkSize <= 0 {
		chunkSize = 1
	}

	for start := 0; start < len(urls); start += chunkSize {
		end := start + chunkSize
		if end > len(urls) {
			end = len(urls)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()
				results[idx] = c.FetchPage(ctx, urls[idx])
			}(i)
		}
		wg.Wait()
	}

	return results
}

// Search resolves URLs for a free-text query. Falls back to the static
// catalog index when the live provider is unreachable.
func (c *Client) Search(ctx context.Context, query string) ([]string, error) {
	provider := c.pickProvider()

	urls, err := provider.Search(ctx, query)
	if err != nil {
		if provider == c.live && errors.Is(err, ErrProviderUnavailable) {
			c.breaker.RecordFailure()
			urls, err = c.fallback.Search(ctx, query)
			if err != nil {
				return nil, stderrors.NewProviderUnavailableError(err)
			}
			return urls, nil
		}
		if errors.Is(err, ErrProviderUnavailable) {
			return nil, stderrors.NewProviderUnavailableError(err)
		}
		return nil, err
	}

	if provider == c.live {
		c.breaker.RecordSuccess()
	}
	return urls, nil
}

// BreakerState exposes the current provider circuit state.
func (c *Client) BreakerState() BreakerState {
	return c.breaker.State()
}

func failedResult(url string, err error) models.ScrapeResult {
	if err == nil {
		err = errors.New("unknown error")
	}
	stdErr := stderrors.NewRetrievalFailedError(url, err)
	return models.ScrapeResult{
		URL:       url,
		Success:   false,
		Error:     fmt.Sprintf("%s (%s)", stdErr.Error(), stdErr.Details),
		Timestamp: time.Now().UTC(),
	}
}
