// internal/suggest/suggester.go
package suggest

import (
	"sante-assist/internal/common/logger"
	"sante-assist/internal/models"
)

// Suggestion is one proposed topic the user can ask about.
type Suggestion struct {
	Topic       string          `json:"topic"`
	Description string          `json:"description"`
	Category    models.Category `json:"category"`
}

// Suggester serves static topic suggestions, reordered for the user's
// situation.
type Suggester struct {
	logger logger.Logger
}

func NewSuggester(log logger.Logger) *Suggester {
	return &Suggester{logger: log}
}

var baseSuggestions = []Suggestion{
	{Topic: "Obtenir ou renouveler sa carte Vitale", Description: "Démarches pour commander, renouveler ou remplacer votre carte Vitale", Category: models.CategoryCard},
	{Topic: "Comprendre vos remboursements", Description: "Taux de remboursement, feuilles de soins et délais de paiement", Category: models.CategoryReimbursement},
	{Topic: "S'affilier à l'Assurance Maladie", Description: "Inscription, protection universelle maladie et numéro de sécurité sociale", Category: models.CategoryEnrollment},
	{Topic: "Déclarer un médecin traitant", Description: "Choisir et déclarer votre médecin traitant, parcours de soins", Category: models.CategoryPrimaryProvider},
	{Topic: "Consulter un spécialiste", Description: "Accès aux spécialistes et remboursement des consultations", Category: models.CategorySpecialist},
	{Topic: "En cas d'urgence", Description: "Numéros d'urgence et prise en charge des soins urgents", Category: models.CategoryUrgentCare},
}

var asylumSuggestions = []Suggestion{
	{Topic: "Protection maladie des demandeurs d'asile", Description: "Vos droits à la prise en charge des soins pendant la demande d'asile", Category: models.CategoryAsylumSeeker},
	{Topic: "Accès aux soins sans carte Vitale", Description: "Se faire soigner en attendant l'ouverture de vos droits", Category: models.CategoryAsylumSeeker},
}

var foreignSuggestions = []Suggestion{
	{Topic: "S'installer en France : couverture maladie", Description: "Affiliation à l'Assurance Maladie pour les résidents étrangers", Category: models.CategoryForeignResident},
	{Topic: "Soins en France avec une assurance étrangère", Description: "Carte européenne d'assurance maladie et conventions bilatérales", Category: models.CategoryForeignResident},
}

var studentSuggestions = []Suggestion{
	{Topic: "Couverture maladie des étudiants", Description: "Affiliation des étudiants, y compris étudiants internationaux", Category: models.CategoryEnrollment},
}

// Suggest returns topics ordered for the profile: situation-specific
// suggestions first, then the common set.
func (s *Suggester) Suggest(profile models.UserProfile) []Suggestion {
	var suggestions []Suggestion

	switch {
	case profile.Status == models.StatusAsylumSeeker:
		suggestions = append(suggestions, asylumSuggestions...)
	case profile.Status == models.StatusStudent:
		suggestions = append(suggestions, studentSuggestions...)
	case profile.Country != "" && profile.Country != "France":
		suggestions = append(suggestions, foreignSuggestions...)
	}

	suggestions = append(suggestions, baseSuggestions...)

	s.logger.Debug("Built topic suggestions", map[string]interface{}{
		"count":   len(suggestions),
		"status":  profile.Status,
		"country": profile.Country,
	})
	return suggestions
}
