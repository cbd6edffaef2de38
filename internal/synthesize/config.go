// internal/synthesize/config.go
package synthesize

// Config holds synthesis tuning knobs.
type Config struct {
	MaxContentLength int     // chars kept per page after cleaning
	MaxSections      int     // relevant sections retained
	SectionsInAnswer int     // sections concatenated into the answer
	MinSectionScore  float64 // relevance threshold for keeping a section
}

func LoadConfig(maxContentLength int) *Config {
	if maxContentLength <= 0 {
		maxContentLength = 5000
	}
	return &Config{
		MaxContentLength: maxContentLength,
		MaxSections:      10,
		SectionsInAnswer: 5,
		MinSectionScore:  0.3,
	}
}
