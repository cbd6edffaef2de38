// pkg/catalog/catalog.go
package catalog

import (
	"encoding/json"
	"os"
)

// LoadCatalog reads a catalog file from disk.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cat Catalog
	err = json.Unmarshal(data, &cat)
	return &cat, err
}

// LoadOrDefault reads the catalog at path, falling back to the compiled-in
// default catalog when path is empty or unreadable.
func LoadOrDefault(path string) *Catalog {
	if path != "" {
		if cat, err := LoadCatalog(path); err == nil {
			return cat
		}
	}
	return Default()
}

// PagesFor returns the allow-listed pages for a category, or nil when the
// category has no coverage.
func (c *Catalog) PagesFor(category string) []Page {
	return c.Entries[category]
}

// Default returns the compiled-in catalog covering the French
// health-insurance site. Kept in sync with configs/catalog.json.
func Default() *Catalog {
	return &Catalog{
		Version:     "2025.2",
		LastUpdated: "2025-06-12",
		HomeCountry: "France",
		Entries: map[string][]Page{
			"card": {
				{URL: "https://www.ameli.fr/assure/droits-demarches/carte-vitale", Priority: 1, Description: "Ordering and renewing the carte Vitale"},
				{URL: "https://www.ameli.fr/assure/droits-demarches/carte-vitale/carte-vitale-perdue-volee", Priority: 2, Description: "Lost or stolen card procedure"},
				{URL: "https://www.ameli.fr/assure/adresses-et-contacts", Priority: 3, Description: "Local office contacts"},
			},
			"reimbursement": {
				{URL: "https://www.ameli.fr/assure/remboursements", Priority: 1, Description: "Reimbursement overview"},
				{URL: "https://www.ameli.fr/assure/remboursements/rembourse/tableau-recapitulatif-taux-remboursement", Priority: 2, Description: "Reimbursement rate tables"},
				{URL: "https://www.ameli.fr/assure/remboursements/etre-bien-rembourse", Priority: 3, Description: "Maximizing reimbursements"},
			},
			"enrollment": {
				{URL: "https://www.ameli.fr/assure/droits-demarches/principes/protection-universelle-maladie", Priority: 1, Description: "Universal health protection enrollment"},
				{URL: "https://www.ameli.fr/assure/droits-demarches/situations-particulieres", Priority: 2, Description: "Special enrollment situations"},
			},
			"foreign_resident": {
				{URL: "https://www.ameli.fr/assure/droits-demarches/europe-international/protection-sociale-france", Priority: 1, Description: "Coverage for foreign residents"},
				{URL: "https://www.ameli.fr/assure/droits-demarches/europe-international", Priority: 2, Description: "International situations"},
			},
			"asylum_seeker": {
				{URL: "https://www.ameli.fr/assure/droits-demarches/situations-particulieres/vous-etes-demandeur-dasile", Priority: 1, Description: "Coverage for asylum seekers"},
			},
			"urgent_care": {
				{URL: "https://www.ameli.fr/assure/sante/urgence", Priority: 1, Description: "Emergency care"},
				{URL: "https://www.ameli.fr/assure/sante/urgence/urgences-medicales", Priority: 2, Description: "Medical emergencies and numbers"},
			},
			"primary_provider": {
				{URL: "https://www.ameli.fr/assure/remboursements/etre-bien-rembourse/medecin-traitant-parcours-soins-coordonnes", Priority: 1, Description: "Declaring a primary physician"},
			},
			"pharmacy": {
				{URL: "https://www.ameli.fr/assure/remboursements/rembourse/medicaments", Priority: 1, Description: "Medication reimbursement"},
			},
			"specialist": {
				{URL: "https://www.ameli.fr/assure/remboursements/etre-bien-rembourse/medecin-traitant-parcours-soins-coordonnes", Priority: 1, Description: "Referral pathway to specialists"},
				{URL: "https://www.ameli.fr/assure/remboursements/rembourse/consultations", Priority: 2, Description: "Consultation reimbursement"},
			},
			"general": {
				{URL: "https://www.ameli.fr/assure", Priority: 1, Description: "Insured persons portal"},
				{URL: "https://www.ameli.fr/assure/droits-demarches", Priority: 2, Description: "Rights and procedures"},
			},
		},
		Contextual: ContextualPages{
			ForeignResident: Page{URL: "https://www.ameli.fr/assure/droits-demarches/europe-international/protection-sociale-france", Priority: 0, Description: "Coverage for foreign residents"},
			AsylumSeeker:    Page{URL: "https://www.ameli.fr/assure/droits-demarches/situations-particulieres/vous-etes-demandeur-dasile", Priority: 0, Description: "Coverage for asylum seekers"},
			Student:         Page{URL: "https://www.ameli.fr/assure/droits-demarches/etudes-stages/etudiant", Priority: 0, Description: "Student coverage"},
		},
		SearchIndex: map[string][]string{
			"carte vitale":  {"https://www.ameli.fr/assure/droits-demarches/carte-vitale"},
			"remboursement": {"https://www.ameli.fr/assure/remboursements"},
			"medecin":       {"https://www.ameli.fr/assure/remboursements/etre-bien-rembourse/medecin-traitant-parcours-soins-coordonnes"},
			"urgence":       {"https://www.ameli.fr/assure/sante/urgence"},
			"etranger":      {"https://www.ameli.fr/assure/droits-demarches/europe-international"},
			"asile":         {"https://www.ameli.fr/assure/droits-demarches/situations-particulieres/vous-etes-demandeur-dasile"},
		},
	}
}
