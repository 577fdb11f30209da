package dto

import (
	"time"

	"github.com/godlywomen/community-api/internal/domain"
)

// ArticleRequest is the POST /articles body.
type ArticleRequest struct {
	Title         string `json:"title"`
	Content       string `json:"content"`
	Excerpt       string `json:"excerpt"`
	Category      string `json:"category"`
	Status        string `json:"status"`
	FeaturedImage string `json:"featured_image"`
}

// ArticleUpdateRequest is the PATCH /articles/:id body.
type ArticleUpdateRequest struct {
	Title         *string `json:"title"`
	Content       *string `json:"content"`
	Excerpt       *string `json:"excerpt"`
	Category      *string `json:"category"`
	Status        *string `json:"status"`
	FeaturedImage *string `json:"featured_image"`
}

// CommentRequest is the POST /articles/:id/comments body.
type CommentRequest struct {
	Content  string  `json:"content"`
	ParentID *string `json:"parent_id"`
}

// ArticleResponse renders an article.
type ArticleResponse struct {
	ID            string    `json:"id"`
	AuthorID      string    `json:"author_id"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	Content       string    `json:"content"`
	Excerpt       string    `json:"excerpt"`
	Category      string    `json:"category"`
	Status        string    `json:"status"`
	FeaturedImage string    `json:"featured_image"`
	ViewCount     int       `json:"view_count"`
	LikeCount     *int      `json:"like_count,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CommentResponse renders a comment; Replies is only set on top-level comments.
type CommentResponse struct {
	ID        string            `json:"id"`
	ArticleID string            `json:"article_id"`
	AuthorID  string            `json:"author_id"`
	ParentID  *string           `json:"parent_id"`
	Content   string            `json:"content"`
	LikeCount int               `json:"like_count"`
	CreatedAt time.Time         `json:"created_at"`
	Replies   []CommentResponse `json:"replies,omitempty"`
}

// ToggleResponse is returned by like and support toggles.
type ToggleResponse struct {
	Active bool `json:"active"`
	Count  int  `json:"count"`
}

// CategoryResponse is one entry of GET /articles/categories.
type CategoryResponse struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// NewArticleResponse converts a domain article.
func NewArticleResponse(a *domain.Article) ArticleResponse {
	return ArticleResponse{
		ID:            a.ID,
		AuthorID:      a.AuthorID,
		Title:         a.Title,
		Slug:          a.Slug,
		Content:       a.Content,
		Excerpt:       a.Excerpt,
		Category:      a.Category,
		Status:        string(a.Status),
		FeaturedImage: a.FeaturedImage,
		ViewCount:     a.ViewCount,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

// NewArticleDetailResponse includes the like count.
func NewArticleDetailResponse(a *domain.Article, likes int) ArticleResponse {
	resp := NewArticleResponse(a)
	resp.LikeCount = &likes
	return resp
}

// NewCommentResponse converts a domain comment.
func NewCommentResponse(c *domain.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		ArticleID: c.ArticleID,
		AuthorID:  c.AuthorID,
		ParentID:  c.ParentID,
		Content:   c.Content,
		LikeCount: c.LikeCount,
		CreatedAt: c.CreatedAt,
	}
}

// NewCommentThreadResponse renders a top-level comment with its replies.
func NewCommentThreadResponse(c *domain.Comment, replies []domain.Comment) CommentResponse {
	resp := NewCommentResponse(c)
	resp.Replies = make([]CommentResponse, 0, len(replies))
	for i := range replies {
		resp.Replies = append(resp.Replies, NewCommentResponse(&replies[i]))
	}
	return resp
}

// NewCategoryResponses renders category counts.
func NewCategoryResponses(categories []domain.CategoryCount) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, CategoryResponse{Name: c.Name, Count: c.Count})
	}
	return out
}
