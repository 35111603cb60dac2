package domain

type Review struct {
	PlaceID         string  `json:"-"`
	Author          string  `json:"author_name"`
	ProfilePhotoURL string  `json:"profile_photo_url,omitempty"`
	Rating          float64 `json:"rating"`
	Text            string  `json:"text"`
	RelativeTime    string  `json:"relative_time_description,omitempty"`
	Time            int64   `json:"time,omitempty"` // unix seconds as reported by Places
	Lang            string  `json:"language,omitempty"`
}
