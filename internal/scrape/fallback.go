// internal/scrape/fallback.go
package scrape

import (
	"context"
	"strings"

	"sante-assist/pkg/catalog"
)

// FallbackProvider serves curated static markdown when the live provider is
// unreachable. Content is selected by keyword match against the URL; search
// answers from the catalog's static index.
type FallbackProvider struct {
	catalog *catalog.Catalog
	pages   []fallbackPage
}

type fallbackPage struct {
	keywords []string
	markdown string
}

func NewFallbackProvider(cat *catalog.Catalog) *FallbackProvider {
	return &FallbackProvider{
		catalog: cat,
		pages:   curatedPages,
	}
}

func (p *FallbackProvider) Name() string { return "fallback" }

func (p *FallbackProvider) FetchAsMarkdown(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	lowered := strings.ToLower(url)
	for _, page := range p.pages {
		for _, kw := range page.keywords {
			if strings.Contains(lowered, kw) {
				return page.markdown, nil
			}
		}
	}
	return genericMarkdown, nil
}

// Search matches query keywords against the static catalog index.
func (p *FallbackProvider) Search(ctx context.Context, query string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lowered := strings.ToLower(query)
	seen := make(map[string]bool)
	var urls []string
	for keyword, indexed := range p.catalog.SearchIndex {
		if strings.Contains(lowered, keyword) {
			for _, u := range indexed {
				if !seen[u] {
					seen[u] = true
					urls = append(urls, u)
				}
			}
		}
	}

	if len(urls) == 0 {
		for _, page := range p.catalog.PagesFor("general") {
			urls = append(urls, page.URL)
		}
	}
	return urls, nil
}

var curatedPages = []fallbackPage{
	{
		keywords: []string{"carte-vitale", "carte_vitale"},
		markdown: "# Carte Vitale\n\nLa carte Vitale atteste de vos droits à l'assurance maladie. " +
			"Pour commander ou renouveler votre carte, connectez-vous à votre compte ameli, rubrique « Mes démarches ». " +
			"En cas de perte ou de vol, déclarez-le immédiatement depuis votre compte ou au 3646, puis commandez une nouvelle carte. " +
			"La fabrication prend environ deux semaines; une attestation de droits peut être téléchargée en attendant.",
	},
	{
		keywords: []string{"remboursement", "rembourse", "medicaments", "consultations"},
		markdown: "# Remboursements\n\nL'Assurance Maladie rembourse une consultation chez le médecin traitant à 70 % du tarif conventionné. " +
			"Les médicaments sont remboursés entre 15 % et 100 % selon le service médical rendu. " +
			"Le suivi des remboursements se fait depuis le compte ameli, en général sous une semaine après transmission de la feuille de soins.",
	},
	{
		keywords: []string{"urgence", "urgences"},
		markdown: "# Urgences\n\nEn cas d'urgence vitale, appelez le 15 (SAMU) ou le 112. " +
			"Les urgences hospitalières accueillent sans avance de frais pour les assurés. " +
			"Pour une urgence non vitale, contactez d'abord le 116 117 pour être orienté.",
	},
	{
		keywords: []string{"medecin-traitant", "parcours-soins", "medecin_traitant"},
		markdown: "# Médecin traitant\n\nDéclarer un médecin traitant permet d'être remboursé au taux normal dans le parcours de soins coordonnés. " +
			"La déclaration se fait directement chez le médecin ou depuis le compte ameli. " +
			"Sans médecin traitant déclaré, le remboursement des consultations est réduit à 30 %.",
	},
	{
		keywords: []string{"asile", "demandeur"},
		markdown: "# Demandeurs d'asile\n\nLes demandeurs d'asile bénéficient de la protection universelle maladie (PUMa) après trois mois de résidence. " +
			"La demande s'effectue auprès de la caisse primaire du lieu de résidence avec l'attestation de demande d'asile.",
	},
	{
		keywords: []string{"europe-international", "etranger", "protection-sociale"},
		markdown: "# Résidents étrangers\n\nToute personne résidant en France de manière stable et régulière peut bénéficier de la prise en charge de ses frais de santé. " +
			"Les ressortissants européens utilisent la carte européenne d'assurance maladie pour les séjours temporaires; " +
			"les résidents non européens relèvent de la PUMa sur critère de résidence.",
	},
}

const genericMarkdown = "# Assurance Maladie\n\nL'Assurance Maladie protège votre santé à chaque étape de la vie. " +
	"Les démarches courantes (carte Vitale, remboursements, déclaration de médecin traitant) s'effectuent depuis le compte ameli. " +
	"Pour toute question, le 3646 est le numéro de contact des assurés."
