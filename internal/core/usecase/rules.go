package usecase

import "strings"

// Static guidance rule tables. All of them are read-only after init and
// safe to share across concurrent requests.

// French summaries per detector class, split by scene family. Lookup
// order: obstacles, retail, restaurant.
var obstacleSummaries = map[string]string{
	"person":  "Personne à proximité",
	"crowd":   "Groupe dense",
	"stairs":  "Escalier",
	"curb":    "Dénivelé",
	"door":    "Porte",
	"cone":    "Cône de chantier",
	"barrier": "Barrière / obstacle fixe",
	"puddle":  "Zone glissante",
}

var retailSummaries = map[string]string{
	"product":   "Article en rayon",
	"price_tag": "Etiquette de prix",
	"barcode":   "Code-barres visible",
	"bottle":    "Bouteille / boisson",
	"can":       "Boîte ou canette",
	"produce":   "Fruit ou légume",
	"package":   "Produit emballé",
}

var restaurantSummaries = map[string]string{
	"table":    "Table",
	"chair":    "Chaise",
	"tray":     "Plateau",
	"cutlery":  "Couverts",
	"terminal": "Terminal de paiement",
	"dish":     "Plat servi",
}

// hazardClasses are the classes that can put a mobility-impaired user at
// risk and therefore participate in the proximity rule.
var hazardClasses = map[string]struct{}{
	"person":  {},
	"crowd":   {},
	"stairs":  {},
	"curb":    {},
	"cone":    {},
	"barrier": {},
	"puddle":  {},
}

// classRisks apply to a hazard class regardless of zone.
var classRisks = map[string][]string{
	"puddle": {"Risque de glissade"},
	"stairs": {"Prévoir montée/descente"},
}

const riskNearObstacle = "Obstacle proche"

// profileRisks add hint-specific risks on top of the base rules. Hints
// only ever add entries, never remove them.
var profileRisks = map[string]map[string][]string{
	"wheelchair": {
		"stairs": {"Passage impraticable en fauteuil, chercher une rampe"},
		"curb":   {"Dénivelé difficile en fauteuil"},
	},
	"cane": {
		"puddle": {"Appui de canne incertain sur sol glissant"},
		"crowd":  {"Passage étroit dans la foule"},
	},
	"visual": {
		"door": {"Vérifier le sens d'ouverture de la porte"},
	},
}

// criticalRiskTerms is the single vocabulary that escalates an advisory
// to high priority when it appears in any enrichment risk.
var criticalRiskTerms = []string{
	"obstacle proche",
	"montée/descente",
	"glissade",
	"impraticable",
}

// summaryFor looks up the French summary by the folded class key. Unknown
// classes fall back to the raw class name as reported by the detector.
func summaryFor(rawClass string) string {
	class := strings.ToLower(strings.TrimSpace(rawClass))
	if s, ok := obstacleSummaries[class]; ok {
		return s
	}
	if s, ok := retailSummaries[class]; ok {
		return s
	}
	if s, ok := restaurantSummaries[class]; ok {
		return s
	}
	return "Objet " + capitalize(strings.TrimSpace(rawClass))
}

func isCriticalRisk(risk string) bool {
	folded := strings.ToLower(risk)
	for _, term := range criticalRiskTerms {
		if strings.Contains(folded, term) {
			return true
		}
	}
	return false
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
