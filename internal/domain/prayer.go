package domain

import "time"

// PrayerType classifies prayers.
type PrayerType string

const (
	PrayerTypeRequest      PrayerType = "request"
	PrayerTypePraise       PrayerType = "praise"
	PrayerTypeThanksgiving PrayerType = "thanksgiving"
)

// Valid reports whether t is a known prayer type.
func (t PrayerType) Valid() bool {
	switch t {
	case PrayerTypeRequest, PrayerTypePraise, PrayerTypeThanksgiving:
		return true
	}
	return false
}

// Prayer is a prayer request or testimony shared with the community.
type Prayer struct {
	ID          string
	AuthorID    string
	Title       string
	Content     string
	Type        PrayerType
	IsAnonymous bool
	IsPublic    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PrayerResponse is a reply posted under a prayer.
type PrayerResponse struct {
	ID        string
	PrayerID  string
	AuthorID  string
	Content   string
	CreatedAt time.Time
}
