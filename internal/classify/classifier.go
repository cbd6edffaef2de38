// internal/classify/classifier.go
package classify

import (
	"regexp"
	"strings"

	"sante-assist/internal/common/errors"
	"sante-assist/internal/common/logger"
	"sante-assist/internal/models"
)

// Classifier maps free text to a Classification using static keyword
// tables. It is deterministic, does no I/O, and has no side effects.
type Classifier struct {
	config *Config
	logger logger.Logger
}

func NewClassifier(config *Config, log logger.Logger) *Classifier {
	return &Classifier{
		config: config,
		logger: log.With(map[string]interface{}{
			"component": "classifier",
		}),
	}
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// Normalize lowercases and collapses whitespace. Cache keys depend on this
// being a pure function of the input text.
func Normalize(text string) string {
	return whitespaceRe.ReplaceAllString(strings.TrimSpace(strings.ToLower(text)), " ")
}

// Classify analyzes one query. The profile is currently unused by the
// tables but kept on the signature so policy extensions can consult it.
func (c *Classifier) Classify(query string, profile models.UserProfile) models.Classification {
	normalized := Normalize(query)

	result := models.Classification{
		IsTopicRelated: c.isTopicRelated(normalized),
		Category:       models.CategoryGeneral,
		Intent:         models.IntentObtainInfo,
		Urgency:        models.UrgencyLow,
	}

	var matched []string
	for _, entry := range categoryTable {
		for _, kw := range entry.keywords {
			if strings.Contains(normalized, kw) {
				matched = append(matched, kw)
			}
		}
		if len(matched) > 0 {
			result.Category = entry.category
			break
		}
	}
	result.Keywords = matched

	for _, entry := range intentTable {
		if containsAny(normalized, entry.keywords) {
			result.Intent = entry.intent
			break
		}
	}

	for _, entry := range urgencyTable {
		if containsAny(normalized, entry.keywords) {
			result.Urgency = entry.urgency
			break
		}
	}

	result.Confidence = staticConfidence(len(matched))
	c.applyPolicy(&result)

	// Ambiguity is non-fatal: the query proceeds as a low-confidence
	// general classification, but gets flagged for diagnostics.
	if result.IsTopicRelated && len(matched) == 0 {
		ambiguous := errors.NewClassificationAmbiguousError(query)
		c.logger.Debug(ambiguous.Message, map[string]interface{}{
			"code":  string(ambiguous.Code),
			"query": query,
		})
	}

	c.logger.Debug("query classified", map[string]interface{}{
		"category":   string(result.Category),
		"intent":     string(result.Intent),
		"urgency":    string(result.Urgency),
		"confidence": result.Confidence,
	})

	return result
}

// applyPolicy downgrades the static match according to the routing policy
// so the planner performs live retrieval instead of trusting the catalog.
func (c *Classifier) applyPolicy(result *models.Classification) {
	switch c.config.Policy {
	case models.RoutingForcedDynamic:
		result.Category = models.CategoryGeneral
		result.Confidence = dynamicConfidence
	case models.RoutingHybrid:
		if result.Confidence < c.config.HybridThreshold {
			result.Category = models.CategoryGeneral
			result.Confidence = dynamicConfidence
		}
	}
}

const dynamicConfidence = 0.3

// staticConfidence grows with the number of keyword hits for the chosen
// category, clamped to [0.3, 0.9].
func staticConfidence(matchCount int) float64 {
	if matchCount == 0 {
		return dynamicConfidence
	}
	conf := 0.6 + 0.1*float64(matchCount)
	if conf > 0.9 {
		conf = 0.9
	}
	return conf
}

func (c *Classifier) isTopicRelated(normalized string) bool {
	return containsAny(normalized, topicIndicators)
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
