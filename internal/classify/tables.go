// internal/classify/tables.go
package classify

import "sante-assist/internal/models"

// Keyword tables are scanned first-match in declaration order, so the
// slices below are ordered, never maps.

var topicIndicators = []string{
	"carte vitale", "ameli", "assurance maladie", "securite sociale",
	"sécurité sociale", "remboursement", "mutuelle", "cpam",
	"health insurance", "health card", "reimbursement", "social security",
	"medecin", "médecin", "doctor", "pharmacie", "pharmacy", "puma",
}

type categoryKeywords struct {
	category models.Category
	keywords []string
}

var categoryTable = []categoryKeywords{
	{models.CategoryCard, []string{"carte vitale", "health card", "carte perdue", "lost card", "carte volee", "carte volée", "renouveler ma carte"}},
	{models.CategoryReimbursement, []string{"remboursement", "rembourse", "reimbursement", "reimburse", "taux", "feuille de soins", "frais medicaux", "frais médicaux"}},
	{models.CategoryEnrollment, []string{"inscription", "affiliation", "enroll", "s'inscrire", "puma", "protection universelle", "numero de securite sociale", "numéro de sécurité sociale"}},
	{models.CategoryAsylumSeeker, []string{"demandeur d'asile", "asile", "asylum", "refugie", "réfugié", "refugee"}},
	{models.CategoryForeignResident, []string{"etranger", "étranger", "foreigner", "expatrie", "expatrié", "visa", "titre de sejour", "titre de séjour", "moving to france"}},
	{models.CategoryUrgentCare, []string{"urgence", "urgences", "emergency", "samu", "15", "urgent care"}},
	{models.CategoryPrimaryProvider, []string{"medecin traitant", "médecin traitant", "primary doctor", "declarer un medecin", "déclarer un médecin", "parcours de soins"}},
	{models.CategoryPharmacy, []string{"pharmacie", "pharmacy", "medicament", "médicament", "medication", "ordonnance", "prescription"}},
	{models.CategorySpecialist, []string{"specialiste", "spécialiste", "specialist", "dermatologue", "cardiologue", "gynecologue", "gynécologue", "ophtalmologue"}},
}

type intentKeywords struct {
	intent   models.Intent
	keywords []string
}

var intentTable = []intentKeywords{
	{models.IntentHowTo, []string{"comment", "how do", "how to", "how can", "quelle demarche", "quelle démarche", "procedure", "procédure"}},
	{models.IntentResolveProblem, []string{"probleme", "problème", "problem", "perdu", "lost", "vole", "volé", "stolen", "erreur", "refuse", "refusé", "rejected", "ne fonctionne pas"}},
	{models.IntentUnderstand, []string{"pourquoi", "why", "qu'est-ce que", "what is", "c'est quoi", "difference", "différence", "expliquer", "explain"}},
	{models.IntentContact, []string{"contacter", "contact", "telephone", "téléphone", "phone", "adresse", "address", "rendez-vous", "appointment", "joindre"}},
}

type urgencyKeywords struct {
	urgency  models.Urgency
	keywords []string
}

var urgencyTable = []urgencyKeywords{
	{models.UrgencyUrgent, []string{"urgence", "urgent", "emergency", "immediatement", "immédiatement", "immediately", "samu"}},
	{models.UrgencyHigh, []string{"vite", "rapidement", "quickly", "asap", "aujourd'hui", "today", "demain", "tomorrow"}},
	{models.UrgencyMedium, []string{"bientot", "bientôt", "soon", "cette semaine", "this week", "prochainement"}},
}

// CategoryKeywords returns the keyword list backing a category, for
// relevance scoring downstream. Returns nil for categories without a
// keyword table (GENERAL).
func CategoryKeywords(category models.Category) []string {
	for _, entry := range categoryTable {
		if entry.category == category {
			return entry.keywords
		}
	}
	return nil
}
