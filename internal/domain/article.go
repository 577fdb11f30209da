package domain

import "time"

// ArticleStatus enumerates publication states.
type ArticleStatus string

const (
	ArticleStatusDraft     ArticleStatus = "draft"
	ArticleStatusPublished ArticleStatus = "published"
)

// DefaultArticleCategory is applied when an article omits its category.
const DefaultArticleCategory = "Other"

// Valid reports whether s is a known status.
func (s ArticleStatus) Valid() bool {
	return s == ArticleStatusDraft || s == ArticleStatusPublished
}

// Article is a long-form post.
type Article struct {
	ID            string
	AuthorID      string
	Title         string
	Slug          string
	Content       string
	Excerpt       string
	Category      string
	Status        ArticleStatus
	FeaturedImage string
	ViewCount     int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Comment belongs to an article. Replies reference their parent comment.
type Comment struct {
	ID        string
	ArticleID string
	AuthorID  string
	ParentID  *string
	Content   string
	LikeCount int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CategoryCount is the number of published articles in a category.
type CategoryCount struct {
	Name  string
	Count int
}
