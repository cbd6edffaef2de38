// internal/suggest/suggester_test.go
package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sante-assist/internal/common/logger"
	"sante-assist/internal/models"
)

func TestSuggestDefaultProfile(t *testing.T) {
	s := NewSuggester(logger.NewNoOpLogger())

	suggestions := s.Suggest(models.UserProfile{Country: "France"})

	require.NotEmpty(t, suggestions)
	assert.Equal(t, models.CategoryCard, suggestions[0].Category)
	for _, sg := range suggestions {
		assert.NotEqual(t, models.CategoryAsylumSeeker, sg.Category)
	}
}

func TestSuggestAsylumSeekerFirst(t *testing.T) {
	s := NewSuggester(logger.NewNoOpLogger())

	suggestions := s.Suggest(models.UserProfile{Country: "Soudan", Status: models.StatusAsylumSeeker})

	require.NotEmpty(t, suggestions)
	assert.Equal(t, models.CategoryAsylumSeeker, suggestions[0].Category)
	assert.Greater(t, len(suggestions), len(baseSuggestions))
}

func TestSuggestForeignResidentFirst(t *testing.T) {
	s := NewSuggester(logger.NewNoOpLogger())

	suggestions := s.Suggest(models.UserProfile{Country: "Canada"})

	require.NotEmpty(t, suggestions)
	assert.Equal(t, models.CategoryForeignResident, suggestions[0].Category)
}

func TestSuggestStudentFirst(t *testing.T) {
	s := NewSuggester(logger.NewNoOpLogger())

	suggestions := s.Suggest(models.UserProfile{Country: "France", Status: models.StatusStudent})

	require.NotEmpty(t, suggestions)
	assert.Equal(t, "Couverture maladie des étudiants", suggestions[0].Topic)
}

func TestSuggestIsDeterministic(t *testing.T) {
	s := NewSuggester(logger.NewNoOpLogger())
	profile := models.UserProfile{Country: "France"}

	assert.Equal(t, s.Suggest(profile), s.Suggest(profile))
}
