// internal/synthesize/synthesizer_test.go
package synthesize

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sante-assist/internal/common/logger"
	"sante-assist/internal/models"
)

func newTestSynthesizer() *Synthesizer {
	return NewSynthesizer(LoadConfig(5000), logger.NewNoOpLogger())
}

func cardClassification() models.Classification {
	return models.Classification{
		IsTopicRelated: true,
		Category:       models.CategoryCard,
		Intent:         models.IntentHowTo,
		Urgency:        models.UrgencyLow,
		Confidence:     0.8,
		Keywords:       []string{"carte vitale"},
	}
}

func TestProcessWithMixedResults(t *testing.T) {
	s := newTestSynthesizer()

	results := []models.ScrapeResult{
		{
			URL:     "https://www.ameli.fr/assure/adresses-et-contacts/carte-vitale",
			Content: "En cas de perte de votre carte vitale, signalez-le depuis votre compte en ligne. Les horaires des points d'accueil varient selon les lieux.",
			Success: true,
		},
		{
			URL:     "https://www.ameli.fr/assure/remboursements",
			Content: "Les conseillers répondent du lundi au vendredi pendant les heures ouvrées.",
			Success: true,
		},
		{
			URL:     "https://www.ameli.fr/assure/droits-demarches",
			Success: false,
			Error:   "FETCH_FAILED",
		},
	}

	response := s.Process(results, cardClassification(), "How do I get my health card?")

	assert.Greater(t, response.Confidence, 0.0)
	assert.Less(t, response.Confidence, 1.0)
	assert.Len(t, response.Sources, 3)
	assert.Contains(t, response.Sources, "https://www.ameli.fr/assure/droits-demarches")
	assert.NotEmpty(t, response.RelevantSections)
	assert.Contains(t, response.Answer, "carte Vitale")
	assert.Equal(t, 3, response.Metadata.PagesAttempted)
	assert.Equal(t, 2, response.Metadata.PagesSuccessful)
	assert.Equal(t, models.CategoryCard, response.Metadata.Category)
}

func TestProcessAllFailed(t *testing.T) {
	s := newTestSynthesizer()

	results := []models.ScrapeResult{
		{URL: "https://www.ameli.fr/a", Success: false, Error: "timeout"},
		{URL: "https://www.ameli.fr/b", Success: false, Error: "PROVIDER_UNAVAILABLE"},
	}

	response := s.Process(results, cardClassification(), "carte vitale")

	assert.Equal(t, 0.1, response.Confidence)
	assert.Empty(t, response.Sources)
	assert.Contains(t, response.Answer, "timeout")
	assert.Contains(t, response.Answer, "PROVIDER_UNAVAILABLE")
	assert.Equal(t, 0, response.Metadata.PagesSuccessful)
}

func TestProcessEmptyContentCountsAsFailure(t *testing.T) {
	s := newTestSynthesizer()

	results := []models.ScrapeResult{
		{URL: "https://www.ameli.fr/a", Content: "   ", Success: true},
	}

	response := s.Process(results, cardClassification(), "carte vitale")
	assert.Equal(t, 0.1, response.Confidence)
}

func TestProcessUrgentClosingNotice(t *testing.T) {
	s := newTestSynthesizer()

	classification := models.Classification{
		IsTopicRelated: true,
		Category:       models.CategoryUrgentCare,
		Urgency:        models.UrgencyUrgent,
		Confidence:     0.9,
		Keywords:       []string{"urgence"},
	}
	results := []models.ScrapeResult{
		{
			URL:     "https://www.ameli.fr/assure/urgences",
			Content: "En cas d'urgence médicale grave, composez le 15 pour joindre le SAMU qui organisera votre prise en charge.",
			Success: true,
		},
	}

	response := s.Process(results, classification, "urgence que faire")
	assert.Contains(t, response.Answer, "appelez le 15")
}

func TestProcessGenericClosingNotice(t *testing.T) {
	s := newTestSynthesizer()

	results := []models.ScrapeResult{
		{
			URL:     "https://www.ameli.fr/assure/carte-vitale",
			Content: "La carte Vitale atteste de vos droits à l'assurance maladie et permet le remboursement rapide de vos soins.",
			Success: true,
		},
	}

	response := s.Process(results, cardClassification(), "carte vitale")
	assert.Contains(t, response.Answer, "3646")
	assert.NotContains(t, response.Answer, "SAMU")
}

func TestCleanContentStripsMarkup(t *testing.T) {
	raw := `<html><head><style>body { color: red; }</style></head>
<body><script>alert("x");</script><p>La   carte Vitale
est   votre carte d'assuré.</p></body></html>`

	cleaned := cleanContent(raw, 5000)

	assert.NotContains(t, cleaned, "<p>")
	assert.NotContains(t, cleaned, "alert")
	assert.NotContains(t, cleaned, "color: red")
	assert.Contains(t, cleaned, "La carte Vitale est votre carte d'assuré.")
}

func TestCleanContentTruncates(t *testing.T) {
	raw := strings.Repeat("a", 6000)
	assert.Len(t, cleanContent(raw, 5000), 5000)
}

func TestSplitSentencesDropsShortFragments(t *testing.T) {
	content := "Oui. La carte Vitale atteste de vos droits! Non? Vous devez déclarer la perte depuis votre compte ameli."
	sentences := splitSentences(content)

	require.Len(t, sentences, 2)
	assert.Equal(t, "La carte Vitale atteste de vos droits", sentences[0])
}

func TestScoreSentenceMonotonicInOccurrences(t *testing.T) {
	keywords := []string{"carte vitale"}
	once := scoreSentence("ma carte vitale est perdue quelque part", keywords)
	twice := scoreSentence("ma carte vitale est perdue, une carte vitale neuve arrive", keywords)

	assert.Greater(t, once, 0.0)
	assert.GreaterOrEqual(t, twice, once)
}

func TestScoreSentenceCapped(t *testing.T) {
	keywords := []string{"carte vitale"}
	sentence := strings.Repeat("carte vitale ", 20)
	assert.Equal(t, 1.0, scoreSentence(sentence, keywords))
}

func TestComputeConfidence(t *testing.T) {
	// Zero sections, zero classification confidence, zero scrapes.
	assert.InDelta(t, 0.5, computeConfidence(0, 0, 0), 0.001)

	// More sections strictly increase confidence up to the cap.
	low := computeConfidence(1, 0.5, 1)
	high := computeConfidence(3, 0.5, 1)
	assert.Greater(t, high, low)

	// Higher classification confidence increases the result.
	assert.Greater(t, computeConfidence(2, 0.9, 1), computeConfidence(2, 0.4, 1))

	// Everything maxed stays clamped.
	assert.Equal(t, 1.0, computeConfidence(50, 1.0, 10))
}

func TestProcessSetsProcessingTime(t *testing.T) {
	s := newTestSynthesizer()
	results := []models.ScrapeResult{
		{URL: "https://www.ameli.fr/a", Content: "La carte Vitale atteste de vos droits à l'assurance maladie en France.", Success: true, Timestamp: time.Now()},
	}

	response := s.Process(results, cardClassification(), "carte vitale")
	assert.Greater(t, response.Metadata.ProcessingTime, time.Duration(0))

	failure := s.Process(nil, cardClassification(), "carte vitale")
	assert.Greater(t, failure.Metadata.ProcessingTime, time.Duration(0))
}
