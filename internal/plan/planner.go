// internal/plan/planner.go
package plan

import (
	"sort"

	"sante-assist/internal/common/errors"
	"sante-assist/internal/common/logger"
	"sante-assist/internal/models"
	"sante-assist/pkg/catalog"
)

// Planner builds ordered URL plans from the static catalog or from
// externally supplied search results. Pure and deterministic given its
// inputs and the catalog.
type Planner struct {
	config  *Config
	catalog *catalog.Catalog
	logger  logger.Logger
}

func NewPlanner(config *Config, cat *catalog.Catalog, log logger.Logger) *Planner {
	return &Planner{
		config:  config,
		catalog: cat,
		logger: log.With(map[string]interface{}{
			"component": "planner",
		}),
	}
}

// PlanFromURLs wraps externally supplied URLs (typically live search
// results) into a plan, bypassing the catalog. This is the primary path
// when classification forces dynamic routing.
func (p *Planner) PlanFromURLs(urls []string) models.ScrapingPlan {
	bounded := urls
	if len(bounded) > p.config.MaxPagesPerQuery {
		bounded = bounded[:p.config.MaxPagesPerQuery]
	}
	return models.ScrapingPlan{
		Category:    models.CategoryGeneral,
		URLs:        append([]string(nil), bounded...),
		Priority:    1,
		Description: "dynamic search results",
	}
}

// Plan looks the category up in the allow-list, sorts by ascending
// priority, truncates to the page budget and prepends context pages.
func (p *Planner) Plan(category models.Category, profile models.UserProfile) models.ScrapingPlan {
	pages := p.catalog.PagesFor(string(category))
	if len(pages) == 0 {
		catErr := errors.NewCatalogNotFoundError(string(category))
		p.logger.Warn(catErr.Message, map[string]interface{}{
			"code":     string(catErr.Code),
			"category": string(category),
		})
		pages = p.catalog.PagesFor(string(models.CategoryGeneral))
	}

	sorted := append([]catalog.Page(nil), pages...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority < sorted[j].Priority
	})

	urls := make([]string, 0, len(sorted))
	for _, page := range sorted {
		urls = append(urls, page.URL)
	}

	urls = p.adaptToProfile(urls, profile)

	if len(urls) > p.config.MaxPagesPerQuery {
		urls = urls[:p.config.MaxPagesPerQuery]
	}

	description := ""
	priority := 0
	if len(sorted) > 0 {
		description = sorted[0].Description
		priority = sorted[0].Priority
	}

	plan := models.ScrapingPlan{
		Category:    category,
		URLs:        urls,
		Priority:    priority,
		Description: description,
	}

	p.logger.Debug("scraping plan built", map[string]interface{}{
		"category":  string(category),
		"pageCount": plan.PageCount(),
	})

	return plan
}

// adaptToProfile prepends context-specific pages without replacing the base
// plan. Order: asylum > foreign resident > student; the strongest match ends
// up first.
func (p *Planner) adaptToProfile(urls []string, profile models.UserProfile) []string {
	var prefix []string

	if profile.Status == models.StatusAsylumSeeker {
		prefix = append(prefix, p.catalog.Contextual.AsylumSeeker.URL)
	}
	if profile.Country != "" && profile.Country != p.catalog.HomeCountry {
		prefix = append(prefix, p.catalog.Contextual.ForeignResident.URL)
	}
	if profile.Status == models.StatusStudent {
		prefix = append(prefix, p.catalog.Contextual.Student.URL)
	}

	if len(prefix) == 0 {
		return urls
	}

	seen := make(map[string]bool, len(prefix))
	out := make([]string, 0, len(prefix)+len(urls))
	for _, u := range prefix {
		if u != "" && !seen[u] {
			seen[u] = true
			out = append(out, u)
		}
	}
	for _, u := range urls {
		if !seen[u] {
			seen[u] = true
			out = append(out, u)
		}
	}
	return out
}
