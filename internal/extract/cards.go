package extract

import (
	"regexp"
	"strings"

	"seminary/internal/domain"
)

// CardCount is the number of advantage cards every result carries.
const CardCount = 3

// CardSource tells where the cards before padding came from.
type CardSource string

const (
	SourceResponse CardSource = "response"
	SourceQuery    CardSource = "query"
)

var (
	reAdvantagesHeader = regexp.MustCompile(`(?i)(?:\d+\.)?(?:\s*\*{1,2})?\s*AVANTAGES\s*(?:\*{1,2})?\s*:+\s*(?:\*{1,2})?\s*`)
	reBoldTitle        = regexp.MustCompile(`(?s)\*\*(.*?)\*\*\s*:?\s*(.*)`)
)

var defaultCards = []domain.AdvantageCard{
	{Icon: domain.IconLocation, Title: "Emplacement idéal", Description: "Facilement accessible et situé dans un cadre privilégié"},
	{Icon: domain.IconEquipment, Title: "Équipement complet", Description: "Toutes les technologies nécessaires pour votre événement"},
	{Icon: domain.IconService, Title: "Service personnalisé", Description: "Un accompagnement sur mesure pour votre séminaire"},
}

// DefaultCards returns the padding cards in order.
func DefaultCards() []domain.AdvantageCard {
	out := make([]domain.AdvantageCard, len(defaultCards))
	copy(out, defaultCards)
	return out
}

type queryCard struct {
	keyword string
	card    domain.AdvantageCard
}

// queryCards is used when the response has no usable advantages section.
var queryCards = []queryCard{
	{"accessible", domain.AdvantageCard{Icon: domain.IconLocation, Title: "Facilement accessible", Description: "Emplacement stratégique avec accès facile par différents moyens de transport"}},
	{"central", domain.AdvantageCard{Icon: domain.IconLocation, Title: "Emplacement central", Description: "Situé au cœur de la région, à proximité des points d'intérêt"}},
	{"proche", domain.AdvantageCard{Icon: domain.IconLocation, Title: "Proximité idéale", Description: "À quelques minutes des principales attractions et commodités"}},
	{"parking", domain.AdvantageCard{Icon: domain.IconParking, Title: "Parking disponible", Description: "Stationnement facile et sécurisé pour tous les participants"}},
	{"gare", domain.AdvantageCard{Icon: domain.IconTransit, Title: "Proche des transports", Description: "Facilement accessible en train et autres transports en commun"}},
	{"équipement", domain.AdvantageCard{Icon: domain.IconEquipment, Title: "Équipement complet", Description: "Toutes les technologies nécessaires pour votre événement professionnel"}},
	{"technologie", domain.AdvantageCard{Icon: domain.IconEquipment, Title: "Technologie avancée", Description: "Systèmes audiovisuels modernes et connexion internet haut débit"}},
	{"wifi", domain.AdvantageCard{Icon: domain.IconWifi, Title: "WiFi haut débit", Description: "Connexion internet rapide et fiable dans tout l'établissement"}},
	{"projecteur", domain.AdvantageCard{Icon: domain.IconScreen, Title: "Équipement audiovisuel", Description: "Projecteurs HD, écrans et systèmes sonores professionnels"}},
	{"visioconférence", domain.AdvantageCard{Icon: domain.IconVideo, Title: "Visioconférence", Description: "Équipement pour réunions hybrides et connexions à distance"}},
	{"service", domain.AdvantageCard{Icon: domain.IconService, Title: "Service personnalisé", Description: "Un accompagnement sur mesure pour votre séminaire"}},
	{"personnel", domain.AdvantageCard{Icon: domain.IconStaff, Title: "Personnel attentif", Description: "Équipe professionnelle dédiée à la réussite de votre événement"}},
	{"restauration", domain.AdvantageCard{Icon: domain.IconCatering, Title: "Restauration sur place", Description: "Options de restauration de qualité adaptées à vos besoins"}},
	{"traiteur", domain.AdvantageCard{Icon: domain.IconCatering, Title: "Service traiteur", Description: "Repas et pauses gourmandes préparés par des professionnels"}},
	{"calme", domain.AdvantageCard{Icon: domain.IconCalm, Title: "Environnement calme", Description: "Cadre serein propice à la concentration et aux échanges"}},
	{"nature", domain.AdvantageCard{Icon: domain.IconNature, Title: "Cadre naturel", Description: "Environnement verdoyant pour un séminaire ressourçant"}},
	{"vue", domain.AdvantageCard{Icon: domain.IconView, Title: "Vue panoramique", Description: "Paysages exceptionnels pour inspirer vos équipes"}},
	{"luxe", domain.AdvantageCard{Icon: domain.IconLuxury, Title: "Prestations haut de gamme", Description: "Confort et élégance pour un séminaire prestigieux"}},
	{"grand", domain.AdvantageCard{Icon: domain.IconCapacity, Title: "Grande capacité", Description: "Espace adapté pour accueillir des groupes importants"}},
	{"modulable", domain.AdvantageCard{Icon: domain.IconModular, Title: "Espaces modulables", Description: "Configuration flexible selon vos besoins spécifiques"}},
	{"intime", domain.AdvantageCard{Icon: domain.IconIntimate, Title: "Cadre intimiste", Description: "Parfait pour les petits groupes et les réunions privées"}},
	{"activité", domain.AdvantageCard{Icon: domain.IconActivity, Title: "Activités team building", Description: "Options variées pour renforcer la cohésion d'équipe"}},
	{"détente", domain.AdvantageCard{Icon: domain.IconWellness, Title: "Espaces de détente", Description: "Zones de relaxation pour des pauses bien méritées"}},
	{"sport", domain.AdvantageCard{Icon: domain.IconSport, Title: "Installations sportives", Description: "Équipements pour rester actif pendant votre séjour"}},
	{"spa", domain.AdvantageCard{Icon: domain.IconWellness, Title: "Spa intégré", Description: "Espace bien-être pour se détendre après les réunions"}},
}

const venueCardTitle = "Lieu recommandé"

// Cards returns exactly CardCount advantage cards. They come from the
// response's AVANTAGES section when it holds at least one bullet, otherwise
// from keywords in the user query plus a card naming venueName.
func Cards(response, query, venueName string) ([]domain.AdvantageCard, CardSource) {
	if items := advantageItems(response); len(items) > 0 {
		cards := make([]domain.AdvantageCard, 0, len(items))
		for _, it := range items {
			cards = append(cards, cardFromItem(it))
		}
		return fit(cards), SourceResponse
	}
	return fit(cardsFromQuery(query, venueName)), SourceQuery
}

// advantageItems finds the first AVANTAGES header followed by a bullet and
// returns up to CardCount bullet texts. A bullet runs until the next bullet
// or a blank line; wrapped lines are joined with a space.
func advantageItems(response string) []string {
	for _, loc := range reAdvantagesHeader.FindAllStringIndex(response, -1) {
		rest := response[loc[1]:]
		if !strings.HasPrefix(rest, "-") {
			continue
		}
		var items []string
		for _, line := range strings.Split(rest, "\n") {
			t := strings.TrimSpace(line)
			if t == "" {
				break
			}
			if strings.HasPrefix(t, "-") {
				items = append(items, strings.TrimSpace(strings.TrimPrefix(t, "-")))
				continue
			}
			items[len(items)-1] += " " + t
		}
		var out []string
		for _, it := range items {
			if it != "" {
				out = append(out, it)
			}
		}
		if len(out) > CardCount {
			out = out[:CardCount]
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

func cardFromItem(item string) domain.AdvantageCard {
	m := reBoldTitle.FindStringSubmatch(item)
	if m != nil {
		title := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(m[1]), ":"))
		if title != "" {
			desc := trimLeadingPunct(strings.TrimSpace(m[2]))
			return domain.AdvantageCard{Icon: IconFor(title + " " + desc), Title: title, Description: desc}
		}
	}
	return domain.AdvantageCard{Icon: IconFor(item), Title: ShortTitle(item), Description: item}
}

func trimLeadingPunct(s string) string {
	if s != "" && strings.ContainsRune(",.:;", rune(s[0])) {
		return strings.TrimSpace(s[1:])
	}
	return s
}

// ShortTitle keeps text of five words or fewer as is; longer text is cut to
// its first five words, loses one trailing punctuation mark and gains "...".
func ShortTitle(text string) string {
	words := strings.Fields(text)
	if len(words) <= 5 {
		return strings.TrimSpace(text)
	}
	short := strings.Join(words[:5], " ")
	if strings.ContainsRune(".,!?;:", rune(short[len(short)-1])) {
		short = short[:len(short)-1]
	}
	return short + "..."
}

func cardsFromQuery(query, venueName string) []domain.AdvantageCard {
	lq := strings.ToLower(query)
	var cards []domain.AdvantageCard
	for _, qc := range queryCards {
		if strings.Contains(lq, qc.keyword) {
			cards = append(cards, qc.card)
		}
	}
	if venueName != "" {
		cards = append(cards, domain.AdvantageCard{
			Icon:        domain.IconVenue,
			Title:       venueCardTitle,
			Description: venueName + " - Parfaitement adapté à vos besoins spécifiques",
		})
	}
	return cards
}

// fit truncates cards to CardCount or pads them with default cards whose
// title is not already present.
func fit(cards []domain.AdvantageCard) []domain.AdvantageCard {
	if len(cards) >= CardCount {
		return cards[:CardCount]
	}
	out := append([]domain.AdvantageCard(nil), cards...)
	for _, d := range defaultCards {
		if len(out) == CardCount {
			break
		}
		if !hasTitle(out, d.Title) {
			out = append(out, d)
		}
	}
	return out
}

func hasTitle(cards []domain.AdvantageCard, title string) bool {
	for _, c := range cards {
		if c.Title == title {
			return true
		}
	}
	return false
}
