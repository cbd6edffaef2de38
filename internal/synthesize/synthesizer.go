// internal/synthesize/synthesizer.go
package synthesize

import (
	"fmt"
	"strings"
	"time"

	"sante-assist/internal/classify"
	"sante-assist/internal/common/logger"
	"sante-assist/internal/models"
)

// Synthesizer turns raw scrape results into a sourced, confidence-scored
// answer for the user.
type Synthesizer struct {
	config *Config
	logger logger.Logger
}

func NewSynthesizer(config *Config, log logger.Logger) *Synthesizer {
	return &Synthesizer{config: config, logger: log}
}

var categoryIntros = map[models.Category]string{
	models.CategoryCard:            "Concernant votre carte Vitale, voici ce que nous avons trouvé sur ameli.fr :",
	models.CategoryReimbursement:   "Concernant vos remboursements, voici les informations officielles :",
	models.CategoryEnrollment:      "Concernant votre affiliation à l'Assurance Maladie, voici les démarches :",
	models.CategoryForeignResident: "En tant que résident étranger en France, voici les informations qui vous concernent :",
	models.CategoryAsylumSeeker:    "En tant que demandeur d'asile, voici vos droits à la protection maladie :",
	models.CategoryUrgentCare:      "Pour une situation urgente, voici les informations essentielles :",
	models.CategoryPrimaryProvider: "Concernant le médecin traitant, voici ce qu'il faut savoir :",
	models.CategoryPharmacy:        "Concernant la pharmacie et les médicaments, voici les informations :",
	models.CategorySpecialist:      "Concernant la consultation d'un spécialiste, voici les informations :",
	models.CategoryGeneral:         "Voici les informations trouvées sur ameli.fr :",
}

const (
	emergencyNotice = " En cas d'urgence vitale, appelez le 15 (SAMU) ou le 112 immédiatement."
	genericNotice   = " Pour plus de détails, consultez ameli.fr ou appelez le 3646."
)

// Process builds a ProcessedResponse from scrape results. It never returns
// an error: retrieval failures degrade the response instead of aborting it.
func (s *Synthesizer) Process(results []models.ScrapeResult, classification models.Classification, query string) *models.ProcessedResponse {
	start := time.Now()

	var successful []models.ScrapeResult
	for _, r := range results {
		if r.Success && strings.TrimSpace(r.Content) != "" {
			successful = append(successful, r)
		}
	}

	if len(successful) == 0 {
		return s.failureResponse(results, classification, start)
	}

	keywords := buildKeywordSet(query, classify.CategoryKeywords(classification.Category), classification.Keywords)

	var sentences []string
	for _, r := range successful {
		cleaned := cleanContent(r.Content, s.config.MaxContentLength)
		sentences = append(sentences, splitSentences(cleaned)...)
	}

	sections := rankSections(sentences, keywords, s.config.MinSectionScore, s.config.MaxSections)

	sources := make([]string, 0, len(results))
	for _, r := range results {
		sources = append(sources, r.URL)
	}

	response := &models.ProcessedResponse{
		Answer:           s.buildAnswer(sections, classification),
		Sources:          sources,
		Confidence:       computeConfidence(len(sections), classification.Confidence, len(successful)),
		RelevantSections: sections,
		Metadata: models.ResponseMetadata{
			PagesAttempted:  len(results),
			PagesSuccessful: len(successful),
			ProcessingTime:  time.Since(start),
			Category:        classification.Category,
		},
	}

	s.logger.Info("Synthesized response", map[string]interface{}{
		"category":   string(classification.Category),
		"sections":   len(sections),
		"successful": len(successful),
		"attempted":  len(results),
		"confidence": response.Confidence,
	})
	return response
}

func (s *Synthesizer) buildAnswer(sections []string, classification models.Classification) string {
	intro, ok := categoryIntros[classification.Category]
	if !ok {
		intro = categoryIntros[models.CategoryGeneral]
	}

	var b strings.Builder
	b.WriteString(intro)

	limit := s.config.SectionsInAnswer
	if limit > len(sections) {
		limit = len(sections)
	}
	for _, section := range sections[:limit] {
		b.WriteString(" ")
		b.WriteString(section)
		b.WriteString(".")
	}
	if limit == 0 {
		b.WriteString(" Les pages consultées ne contiennent pas de passage directement pertinent pour votre question.")
	}

	if classification.IsUrgent() {
		b.WriteString(emergencyNotice)
	} else {
		b.WriteString(genericNotice)
	}
	return b.String()
}

func (s *Synthesizer) failureResponse(results []models.ScrapeResult, classification models.Classification, start time.Time) *models.ProcessedResponse {
	var errs []string
	for _, r := range results {
		if r.Error != "" {
			errs = append(errs, fmt.Sprintf("%s: %s", r.URL, r.Error))
		}
	}

	answer := "Nous n'avons pas pu récupérer les informations demandées."
	if len(errs) > 0 {
		answer += " Erreurs rencontrées : " + strings.Join(errs, "; ") + "."
	}
	answer += genericNotice

	s.logger.Warn("Synthesis had no successful scrapes", map[string]interface{}{
		"category":  string(classification.Category),
		"attempted": len(results),
	})

	return &models.ProcessedResponse{
		Answer:     answer,
		Sources:    []string{},
		Confidence: 0.1,
		Metadata: models.ResponseMetadata{
			PagesAttempted:  len(results),
			PagesSuccessful: 0,
			ProcessingTime:  time.Since(start),
			Category:        classification.Category,
		},
	}
}

// computeConfidence blends section coverage, classification certainty and
// scrape success rate. Always clamped to [0,1].
func computeConfidence(sectionCount int, classificationConfidence float64, successfulScrapes int) float64 {
	confidence := 0.5

	sectionBoost := float64(sectionCount) / 10.0
	if sectionBoost > 0.3 {
		sectionBoost = 0.3
	}
	confidence += sectionBoost

	confidence += classificationConfidence * 0.2

	scrapeBoost := float64(successfulScrapes) / 3.0
	if scrapeBoost > 0.2 {
		scrapeBoost = 0.2
	}
	confidence += scrapeBoost

	if confidence > 1.0 {
		confidence = 1.0
	}
	return confidence
}
