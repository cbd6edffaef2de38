// internal/scrape/fallback_test.go
package scrape

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sante-assist/pkg/catalog"
)

func TestFallbackProvider_FetchByURLKeyword(t *testing.T) {
	provider := NewFallbackProvider(catalog.Default())

	tests := []struct {
		name     string
		url      string
		expected string
	}{
		{"carte vitale page", "https://www.ameli.fr/assure/droits-demarches/carte-vitale", "Carte Vitale"},
		{"reimbursement page", "https://www.ameli.fr/assure/remboursements", "Remboursements"},
		{"emergency page", "https://www.ameli.fr/assure/sante/urgence", "Urgences"},
		{"asylum page", "https://www.ameli.fr/assure/droits-demarches/situations-particulieres/vous-etes-demandeur-dasile", "asile"},
		{"unknown page gets generic content", "https://www.ameli.fr/something-else", "Assurance Maladie"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content, err := provider.FetchAsMarkdown(context.Background(), tt.url)
			require.NoError(t, err)
			assert.Contains(t, content, tt.expected)
		})
	}
}

func TestFallbackProvider_SearchUsesStaticIndex(t *testing.T) {
	provider := NewFallbackProvider(catalog.Default())

	urls, err := provider.Search(context.Background(), "j'ai perdu ma carte vitale")
	require.NoError(t, err)
	assert.Contains(t, urls, "https://www.ameli.fr/assure/droits-demarches/carte-vitale")

	// Unknown queries fall back to the general pages.
	urls, err = provider.Search(context.Background(), "question inconnue")
	require.NoError(t, err)
	assert.NotEmpty(t, urls)
}

func TestFallbackProvider_RespectsContext(t *testing.T) {
	provider := NewFallbackProvider(catalog.Default())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := provider.FetchAsMarkdown(ctx, "https://www.ameli.fr/assure")
	assert.Error(t, err)
}
