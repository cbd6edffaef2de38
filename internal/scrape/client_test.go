// internal/scrape/client_test.go
package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stderrors "sante-assist/internal/common/errors"
	"sante-assist/internal/common/logger"
	"sante-assist/pkg/catalog"
)

func testConfig(baseURL string) *Config {
	return &Config{
		BaseURL:         baseURL,
		Timeout:         5 * time.Second,
		RetryAttempts:   3,
		Parallelism:     2,
		AllowedDomains:  []string{"ameli.fr"},
		BreakerCooldown: time.Minute,
		BackoffBase:     time.Millisecond,
	}
}

func newTestClient(baseURL string) *Client {
	cfg := testConfig(baseURL)
	return NewClient(cfg, NewLiveProvider(cfg), NewFallbackProvider(catalog.Default()), logger.NewNoOpLogger())
}

func TestClient_FetchPageSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/markdown", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"markdown": "# Carte Vitale\n\nContenu de la page."}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	result := client.FetchPage(context.Background(), "https://www.ameli.fr/assure/droits-demarches/carte-vitale")

	assert.True(t, result.Success)
	assert.Contains(t, result.Content, "Carte Vitale")
	assert.Empty(t, result.Error)
	assert.False(t, result.Timestamp.IsZero())
	assert.Equal(t, BreakerClosed, client.BreakerState())
}

func TestClient_FetchPageRetriesThenFails(t *testing.T) {
	var requests int32
	// 404 is a content-level error: no fallback switch, just retries.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	result := client.FetchPage(context.Background(), "https://www.ameli.fr/missing")

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, string(stderrors.ErrCodeRetrievalFailed))
	assert.Contains(t, result.Error, "status 404")
	assert.Equal(t, int32(3), atomic.LoadInt32(&requests))
	assert.Equal(t, BreakerClosed, client.BreakerState())
}

func TestClient_TransportFailureSwitchesToFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	server.Close() // connection refused from the first request

	client := newTestClient(server.URL)

	result := client.FetchPage(context.Background(), "https://www.ameli.fr/assure/remboursements")

	require.True(t, result.Success, "fallback should serve the request")
	assert.Contains(t, result.Content, "Remboursements")
	assert.Equal(t, BreakerOpen, client.BreakerState())

	// Subsequent requests go straight to the fallback while open.
	again := client.FetchPage(context.Background(), "https://www.ameli.fr/assure/sante/urgence")
	assert.True(t, again.Success)
	assert.Contains(t, again.Content, "Urgences")
}

func TestClient_FetchBatchBoundedConcurrency(t *testing.T) {
	var inFlight, peak int32
	var mu sync.Mutex

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		current := atomic.AddInt32(&inFlight, 1)
		mu.Lock()
		if current > peak {
			peak = current
		}
		mu.Unlock()
		time.Sleep(20 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		w.Write([]byte(`{"markdown": "# Page"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	urls := []string{
		"https://www.ameli.fr/a",
		"https://www.ameli.fr/b",
		"https://www.ameli.fr/c",
		"https://www.ameli.fr/d",
		"https://www.ameli.fr/e",
	}
	results := client.FetchBatch(context.Background(), urls)

	require.Len(t, results, len(urls))
	for i, result := range results {
		assert.Equal(t, urls[i], result.URL, "results must preserve input order")
		assert.True(t, result.Success)
	}

	mu.Lock()
	defer mu.Unlock()
	assert.LessOrEqual(t, peak, int32(2), "parallelism must bound concurrent fetches")
}

func TestClient_SearchExtractsAllowedURLs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/search", r.URL.Path)
		w.Write([]byte(`Here are results: https://www.ameli.fr/assure/remboursements is useful,
also https://evil.example.com/phish and https://www.ameli.fr/assure/remboursements plus
https://forum.ameli.fr/questions/123.`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	urls, err := client.Search(context.Background(), "remboursement consultation")

	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://www.ameli.fr/assure/remboursements",
		"https://forum.ameli.fr/questions/123",
	}, urls)
}

func TestClient_SearchFallsBackWhenUnavailable(t *testing.T) {
	server := httptest.NewServer(nil)
	server.Close()

	client := newTestClient(server.URL)

	urls, err := client.Search(context.Background(), "carte vitale perdue")

	require.NoError(t, err)
	assert.NotEmpty(t, urls)
	assert.Equal(t, BreakerOpen, client.BreakerState())
}

type downProvider struct{}

func (downProvider) FetchAsMarkdown(context.Context, string) (string, error) {
	return "", ErrProviderUnavailable
}

func (downProvider) Search(context.Context, string) ([]string, error) {
	return nil, ErrProviderUnavailable
}

func (downProvider) Name() string { return "down" }

func TestClient_SearchBothProvidersDown(t *testing.T) {
	server := httptest.NewServer(nil)
	server.Close()

	cfg := testConfig(server.URL)
	client := NewClient(cfg, NewLiveProvider(cfg), downProvider{}, logger.NewNoOpLogger())

	_, err := client.Search(context.Background(), "carte vitale")
	require.Error(t, err)

	var stdErr *stderrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, stderrors.ErrCodeProviderUnavailable, stdErr.Code)
}

func TestClient_FetchPageContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := client.FetchPage(ctx, "https://www.ameli.fr/whatever")

	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Error)
}
