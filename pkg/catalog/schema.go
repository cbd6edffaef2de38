// pkg/catalog/schema.go
package catalog

// Catalog is the versioned category→URL allow-list. Updating coverage is a
// data change, not a code change.
type Catalog struct {
	Version     string              `json:"version"`
	LastUpdated string              `json:"lastUpdated"`
	HomeCountry string              `json:"homeCountry"`
	Entries     map[string][]Page   `json:"entries"`
	Contextual  ContextualPages     `json:"contextual"`
	SearchIndex map[string][]string `json:"searchIndex"`
}

// Page is one allow-listed URL with its ordering priority.
type Page struct {
	URL         string `json:"url"`
	Priority    int    `json:"priority"`
	Description string `json:"description"`
}

// ContextualPages are prepended to plans based on the user profile.
type ContextualPages struct {
	ForeignResident Page `json:"foreignResident"`
	AsylumSeeker    Page `json:"asylumSeeker"`
	Student         Page `json:"student"`
}
