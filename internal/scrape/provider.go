// internal/scrape/provider.go
package scrape

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	httpclient "sante-assist/internal/common/http"
)

var (
	// ErrProviderUnavailable marks transport-level failures that open the
	// fallback circuit; content-level failures use ErrFetchFailed.
	ErrProviderUnavailable = errors.New("PROVIDER_UNAVAILABLE")
	ErrFetchFailed         = errors.New("FETCH_FAILED")
)

// Provider abstracts the external scraping service. The fallback provider
// implements the same interface so callers never see which one served them.
type Provider interface {
	FetchAsMarkdown(ctx context.Context, url string) (string, error)
	Search(ctx context.Context, query string) ([]string, error)
	Name() string
}

// LiveProvider talks to the hosted scraping API over HTTP JSON.
type LiveProvider struct {
	config *Config
	client *httpclient.Client
	urlRe  *regexp.Regexp
}

func NewLiveProvider(config *Config) *LiveProvider {
	return &LiveProvider{
		config: config,
		client: httpclient.NewClient(0), // rely on the per-request context
		urlRe:  buildDomainPattern(config.AllowedDomains),
	}
}

func (p *LiveProvider) Name() string { return "live" }

// buildDomainPattern compiles a pattern that only matches URLs on the
// allow-listed sites.
func buildDomainPattern(domains []string) *regexp.Regexp {
	escaped := make([]string, 0, len(domains))
	for _, d := range domains {
		escaped = append(escaped, regexp.QuoteMeta(d))
	}
	if len(escaped) == 0 {
		escaped = append(escaped, regexp.QuoteMeta("ameli.fr"))
	}
	pattern := fmt.Sprintf(`https?://(?:[a-z0-9-]+\.)*(?:%s)[^\s"'<>)\]]*`, strings.Join(escaped, "|"))
	return regexp.MustCompile(pattern)
}

func (p *LiveProvider) FetchAsMarkdown(ctx context.Context, url string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.config.Timeout)
	defer cancel()

	resp, err := p.client.PostJSON(ctx, p.config.BaseURL+"/v1/markdown", map[string]interface{}{
		"url": url,
	}, p.authHeaders())
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return "", fmt.Errorf("%w: status %d", ErrProviderUnavailable, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrFetchFailed, resp.StatusCode)
	}

	var apiResponse struct {
		Markdown string `json:"markdown"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return "", fmt.Errorf("%w: decode error: %v", ErrFetchFailed, err)
	}
	if strings.TrimSpace(apiResponse.Markdown) == "" {
		return "", fmt.Errorf("%w: empty content", ErrFetchFailed)
	}

	return apiResponse.Markdown, nil
}

// Search posts the query and extracts allow-listed URLs from the provider's
// unstructured output.
func (p *LiveProvider) Search(ctx context.Context, query string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.config.Timeout)
	defer cancel()

	resp, err := p.client.PostJSON(ctx, p.config.BaseURL+"/v1/search", map[string]interface{}{
		"query": query,
	}, p.authHeaders())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("%w: status %d", ErrProviderUnavailable, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrFetchFailed, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	return p.extractURLs(string(body)), nil
}

// extractURLs deduplicates matches while preserving first-seen order.
func (p *LiveProvider) extractURLs(raw string) []string {
	matches := p.urlRe.FindAllString(raw, -1)
	seen := make(map[string]bool, len(matches))
	var urls []string
	for _, m := range matches {
		m = strings.TrimRight(m, ".,;")
		if !seen[m] {
			seen[m] = true
			urls = append(urls, m)
		}
	}
	return urls
}

func (p *LiveProvider) authHeaders() map[string]string {
	if p.config.APIKey == "" {
		return nil
	}
	return map[string]string{"Authorization": "Bearer " + p.config.APIKey}
}
