package extract

import (
	"strings"

	"seminary/internal/domain"
)

type iconRule struct {
	keywords []string
	icon     domain.Icon
}

// iconRules is evaluated top to bottom; the first group with a keyword present wins.
var iconRules = []iconRule{
	// location and access
	{[]string{"emplacement", "accès", "accessible", "proximité", "proche", "central"}, domain.IconLocation},
	{[]string{"parking", "stationnement", "voiture"}, domain.IconParking},
	{[]string{"gare", "train", "transport"}, domain.IconTransit},
	// technology
	{[]string{"équipement", "technologie", "technique", "matériel"}, domain.IconEquipment},
	{[]string{"wifi", "internet", "connexion"}, domain.IconWifi},
	{[]string{"projecteur", "écran", "vidéo", "projection"}, domain.IconScreen},
	{[]string{"visioconférence", "visio", "conférence"}, domain.IconVideo},
	// service
	{[]string{"service", "assistance", "accompagnement"}, domain.IconService},
	{[]string{"personnel", "équipe", "staff"}, domain.IconStaff},
	{[]string{"restauration", "repas", "nourriture", "cuisine"}, domain.IconCatering},
	// ambience
	{[]string{"calme", "tranquille", "silencieux", "paisible"}, domain.IconCalm},
	{[]string{"nature", "vert", "jardin", "parc"}, domain.IconNature},
	{[]string{"vue", "panorama", "paysage"}, domain.IconView},
	{[]string{"luxe", "prestige", "élégant", "haut de gamme"}, domain.IconLuxury},
	// capacity and layout
	{[]string{"grand", "spacieux", "vaste", "capacité"}, domain.IconCapacity},
	{[]string{"modulable", "flexible", "adaptable"}, domain.IconModular},
	{[]string{"intime", "petit", "privé"}, domain.IconIntimate},
	// activities and wellness
	{[]string{"activité", "animation", "team building"}, domain.IconActivity},
	{[]string{"détente", "relaxation", "spa", "bien-être"}, domain.IconWellness},
	{[]string{"sport", "fitness", "exercice"}, domain.IconSport},
}

// IconFor picks the icon of the first keyword group found in text,
// case-insensitively, or domain.IconDefault.
func IconFor(text string) domain.Icon {
	lt := strings.ToLower(text)
	for _, r := range iconRules {
		for _, k := range r.keywords {
			if strings.Contains(lt, k) {
				return r.icon
			}
		}
	}
	return domain.IconDefault
}
