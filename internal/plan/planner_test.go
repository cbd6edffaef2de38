// internal/plan/planner_test.go
package plan

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sante-assist/internal/common/logger"
	"sante-assist/internal/models"
	"sante-assist/pkg/catalog"
)

func newTestPlanner(maxPages int) *Planner {
	return NewPlanner(LoadConfig(maxPages), catalog.Default(), logger.NewNoOpLogger())
}

func TestPlanner_BoundedAndSorted(t *testing.T) {
	planner := newTestPlanner(3)
	cat := catalog.Default()

	for category := range cat.Entries {
		plan := planner.Plan(models.Category(category), models.UserProfile{})

		assert.LessOrEqual(t, plan.PageCount(), 3, "category %s exceeds page budget", category)
		assert.NotEmpty(t, plan.URLs, "category %s produced an empty plan", category)

		// URLs must follow ascending catalog priority.
		pages := cat.PagesFor(category)
		sorted := append([]catalog.Page(nil), pages...)
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Priority < sorted[j].Priority })
		for i, u := range plan.URLs {
			assert.Equal(t, sorted[i].URL, u)
		}
	}
}

func TestPlanner_UnknownCategoryFallsBackToGeneral(t *testing.T) {
	planner := newTestPlanner(3)

	plan := planner.Plan(models.Category("does_not_exist"), models.UserProfile{})

	require.NotEmpty(t, plan.URLs)
	assert.Equal(t, catalog.Default().PagesFor("general")[0].URL, plan.URLs[0])
}

func TestPlanner_ProfileAdaptation(t *testing.T) {
	cat := catalog.Default()

	tests := []struct {
		name          string
		profile       models.UserProfile
		expectedFirst string
	}{
		{
			name:          "asylum seeker page first",
			profile:       models.UserProfile{Status: models.StatusAsylumSeeker, Country: "Sudan"},
			expectedFirst: cat.Contextual.AsylumSeeker.URL,
		},
		{
			name:          "foreign resident page first",
			profile:       models.UserProfile{Country: "Italy"},
			expectedFirst: cat.Contextual.ForeignResident.URL,
		},
		{
			name:          "student page first",
			profile:       models.UserProfile{Status: models.StatusStudent, Country: "France"},
			expectedFirst: cat.Contextual.Student.URL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			planner := newTestPlanner(5)
			plan := planner.Plan(models.CategoryReimbursement, tt.profile)

			require.NotEmpty(t, plan.URLs)
			assert.Equal(t, tt.expectedFirst, plan.URLs[0])
			// The base plan is prepended to, not replaced.
			assert.Contains(t, plan.URLs, cat.PagesFor("reimbursement")[0].URL)
		})
	}
}

func TestPlanner_HomeCountryProfileUnchanged(t *testing.T) {
	planner := newTestPlanner(3)
	cat := catalog.Default()

	plan := planner.Plan(models.CategoryCard, models.UserProfile{Country: "France", Status: "insured"})

	assert.Equal(t, cat.PagesFor("card")[0].URL, plan.URLs[0])
}

func TestPlanner_PlanFromURLs(t *testing.T) {
	planner := newTestPlanner(3)

	urls := []string{
		"https://www.ameli.fr/a",
		"https://www.ameli.fr/b",
		"https://www.ameli.fr/c",
		"https://www.ameli.fr/d",
	}
	plan := planner.PlanFromURLs(urls)

	assert.Equal(t, models.CategoryGeneral, plan.Category)
	assert.Equal(t, 3, plan.PageCount())
	assert.Equal(t, urls[:3], plan.URLs)
}
