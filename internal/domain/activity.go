package domain

import "time"

// ActivityKind identifies the resource behind an activity entry.
type ActivityKind string

const (
	ActivityArticle ActivityKind = "article"
	ActivityPrayer  ActivityKind = "prayer"
	ActivityListing ActivityKind = "listing"
)

// ActivityItem is one entry of a user's recent activity feed.
type ActivityItem struct {
	Kind       ActivityKind
	ResourceID string
	Title      string
	CreatedAt  time.Time
}

// UserStats summarises a user's footprint.
type UserStats struct {
	ArticlesRead    int       `json:"articlesRead"`
	ArticlesWritten int       `json:"articlesWritten"`
	PrayersPosted   int       `json:"prayersPosted"`
	ListingsPosted  int       `json:"listingsPosted"`
	DaysActive      int       `json:"daysActive"`
	ComputedAt      time.Time `json:"computedAt"`
}
