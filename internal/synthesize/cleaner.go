// internal/synthesize/cleaner.go
package synthesize

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

var whitespacePattern = regexp.MustCompile(`\s+`)

// cleanContent strips markup from scraped page content and bounds its
// length. Content that is not parseable HTML is kept as-is, whitespace
// collapsed.
func cleanContent(raw string, maxLength int) string {
	text := raw
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw)); err == nil {
		doc.Find("script, style, noscript").Remove()
		text = doc.Text()
	}

	text = strings.TrimSpace(whitespacePattern.ReplaceAllString(text, " "))
	if len(text) > maxLength {
		cut := maxLength
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}
	return text
}
