// internal/synthesize/scorer.go
package synthesize

import (
	"sort"
	"strings"
)

// sentenceTerminators split cleaned content into sentence-like units.
var sentenceTerminators = func(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// splitSentences breaks cleaned content into units, discarding fragments
// too short to carry meaning.
func splitSentences(content string) []string {
	parts := strings.FieldsFunc(content, sentenceTerminators)
	sentences := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if len(part) > 20 {
			sentences = append(sentences, part)
		}
	}
	return sentences
}

// scoreSentence measures how relevant a sentence is to the keyword set.
// Longer keywords weigh more, repeated occurrences accumulate, and the
// result is capped at 1.0.
func scoreSentence(sentence string, keywords []string) float64 {
	lowered := strings.ToLower(sentence)
	score := 0.0
	for _, keyword := range keywords {
		count := strings.Count(lowered, strings.ToLower(keyword))
		if count == 0 {
			continue
		}
		score += float64(len(keyword)) / 10.0 * float64(count)
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}

type scoredSentence struct {
	text  string
	score float64
}

// rankSections scores every sentence and returns the best ones above the
// threshold, highest score first, at most maxSections entries.
func rankSections(sentences, keywords []string, minScore float64, maxSections int) []string {
	scored := make([]scoredSentence, 0, len(sentences))
	for _, sentence := range sentences {
		if score := scoreSentence(sentence, keywords); score > minScore {
			scored = append(scored, scoredSentence{text: sentence, score: score})
		}
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })

	if len(scored) > maxSections {
		scored = scored[:maxSections]
	}
	sections := make([]string, len(scored))
	for i, s := range scored {
		sections[i] = s.text
	}
	return sections
}

// buildKeywordSet unions the query's own words with the category and
// classification keywords, deduplicated.
func buildKeywordSet(query string, categoryKeywords, classificationKeywords []string) []string {
	seen := make(map[string]bool)
	var keywords []string
	add := func(kw string) {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if len(kw) > 3 && !seen[kw] {
			seen[kw] = true
			keywords = append(keywords, kw)
		}
	}
	for _, word := range strings.Fields(query) {
		add(word)
	}
	for _, kw := range categoryKeywords {
		add(kw)
	}
	for _, kw := range classificationKeywords {
		add(kw)
	}
	return keywords
}
