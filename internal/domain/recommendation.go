package domain

type Icon string

const (
	IconLocation  Icon = "fa-map-marker-alt"
	IconParking   Icon = "fa-car"
	IconTransit   Icon = "fa-train"
	IconEquipment Icon = "fa-laptop"
	IconWifi      Icon = "fa-wifi"
	IconScreen    Icon = "fa-tv"
	IconVideo     Icon = "fa-video"
	IconService   Icon = "fa-concierge-bell"
	IconStaff     Icon = "fa-user-tie"
	IconCatering  Icon = "fa-utensils"
	IconCalm      Icon = "fa-leaf"
	IconNature    Icon = "fa-tree"
	IconView      Icon = "fa-mountain"
	IconLuxury    Icon = "fa-gem"
	IconCapacity  Icon = "fa-users"
	IconModular   Icon = "fa-th-large"
	IconIntimate  Icon = "fa-user-friends"
	IconActivity  Icon = "fa-hiking"
	IconWellness  Icon = "fa-spa"
	IconSport     Icon = "fa-dumbbell"
	IconVenue     Icon = "fa-building"
	IconDefault   Icon = "fa-star"
)

type AdvantageCard struct {
	Icon        Icon   `json:"icon"`
	Title       string `json:"title"`
	Description string `json:"text"`
}

type ItemKind string

const (
	KindVenue    ItemKind = "venue"
	KindActivity ItemKind = "activity"
)

type Recommendation struct {
	Query       string          `json:"query"`
	SearchType  ItemKind        `json:"search_type"`
	City        string          `json:"city,omitempty"`
	Name        string          `json:"name"`
	Kind        ItemKind        `json:"kind"`
	Description string          `json:"description"`
	Cards       []AdvantageCard `json:"advantages"`
	Address     string          `json:"address,omitempty"`
	PlaceID     string          `json:"place_id,omitempty"`
	Photos      []string        `json:"photo_references,omitempty"`
	Reviews     []Review        `json:"reviews"`
	Response    string          `json:"response"`
}
