// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"backend"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"backend"},
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_cache_evictions_total",
			Help: "Total number of cache entries evicted",
		},
		[]string{"backend", "reason"},
	)

	ScrapeAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_scrape_attempts_total",
			Help: "Total number of page fetch attempts",
		},
		[]string{"provider", "outcome"},
	)

	ScrapeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "assistant_scrape_duration_seconds",
			Help: "Duration of page fetches in seconds",
		},
		[]string{"provider"},
	)

	LLMCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_llm_calls_total",
			Help: "Total number of LLM calls",
		},
		[]string{"backend", "outcome"},
	)

	LLMTokens = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_llm_tokens_total",
			Help: "Token usage across LLM calls",
		},
		[]string{"backend", "kind"},
	)

	LLMCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "assistant_llm_call_duration_seconds",
			Help: "Duration of LLM calls in seconds",
		},
		[]string{"backend"},
	)

	ToolExecutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_tool_executions_total",
			Help: "Total number of tool executions dispatched by the orchestrator",
		},
		[]string{"tool", "outcome"},
	)

	BreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "assistant_scrape_breaker_state",
			Help: "Scraping provider circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"provider"},
	)
)
