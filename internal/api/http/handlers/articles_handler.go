package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/godlywomen/community-api/internal/api/dto"
	"github.com/godlywomen/community-api/internal/domain"
	"github.com/godlywomen/community-api/internal/service"
)

// ArticlesHandler manages article, like and comment endpoints.
type ArticlesHandler struct {
	service *service.ArticleService
}

// NewArticlesHandler constructs handler.
func NewArticlesHandler(articles *service.ArticleService) *ArticlesHandler {
	return &ArticlesHandler{service: articles}
}

// List GET /articles.
func (h *ArticlesHandler) List(c *fiber.Ctx) error {
	page, err := h.service.List(c.UserContext(), service.ArticleQuery{
		Status:   domain.ArticleStatus(c.Query("status")),
		Category: c.Query("category"),
		Search:   c.Query("search"),
		AuthorID: c.Query("author"),
		Page:     pageRequest(c),
	}, viewerID(c))
	if err != nil {
		return err
	}
	return list(c, page, dto.NewArticleResponse)
}

// Create POST /articles.
func (h *ArticlesHandler) Create(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	var req dto.ArticleRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	article, err := h.service.Create(c.UserContext(), identity.SubjectID, service.ArticleInput{
		Title:         req.Title,
		Content:       req.Content,
		Excerpt:       req.Excerpt,
		Category:      req.Category,
		Status:        domain.ArticleStatus(req.Status),
		FeaturedImage: req.FeaturedImage,
	})
	if err != nil {
		return err
	}
	return data(c, http.StatusCreated, dto.NewArticleResponse(article))
}

// Get GET /articles/:id.
func (h *ArticlesHandler) Get(c *fiber.Ctx) error {
	detail, err := h.service.Read(c.UserContext(), c.Params("id"), viewerID(c))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewArticleDetailResponse(&detail.Article, detail.LikeCount))
}

// GetBySlug GET /articles/by-slug/:slug.
func (h *ArticlesHandler) GetBySlug(c *fiber.Ctx) error {
	detail, err := h.service.ReadBySlug(c.UserContext(), c.Params("slug"), viewerID(c))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewArticleDetailResponse(&detail.Article, detail.LikeCount))
}

// Update PATCH /articles/:id.
func (h *ArticlesHandler) Update(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	var req dto.ArticleUpdateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	update := service.ArticleUpdate{
		Title:         req.Title,
		Content:       req.Content,
		Excerpt:       req.Excerpt,
		Category:      req.Category,
		FeaturedImage: req.FeaturedImage,
	}
	if req.Status != nil {
		status := domain.ArticleStatus(*req.Status)
		update.Status = &status
	}
	article, err := h.service.Update(c.UserContext(), identity.SubjectID, c.Params("id"), update)
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewArticleResponse(article))
}

// Delete DELETE /articles/:id.
func (h *ArticlesHandler) Delete(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), identity.SubjectID, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Like POST /articles/:id/like.
func (h *ArticlesHandler) Like(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	liked, count, err := h.service.ToggleLike(c.UserContext(), identity.SubjectID, c.Params("id"))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.ToggleResponse{Active: liked, Count: count})
}

// ListComments GET /articles/:id/comments.
func (h *ArticlesHandler) ListComments(c *fiber.Ctx) error {
	page, err := h.service.ListComments(c.UserContext(), c.Params("id"), viewerID(c), pageRequest(c))
	if err != nil {
		return err
	}
	return list(c, page, func(t *service.CommentThread) dto.CommentResponse {
		return dto.NewCommentThreadResponse(&t.Comment, t.Replies)
	})
}

// AddComment POST /articles/:id/comments.
func (h *ArticlesHandler) AddComment(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	var req dto.CommentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	comment, err := h.service.AddComment(c.UserContext(), identity.SubjectID, c.Params("id"), req.Content, req.ParentID)
	if err != nil {
		return err
	}
	return data(c, http.StatusCreated, dto.NewCommentResponse(comment))
}

// DeleteComment DELETE /articles/comments/:commentId.
func (h *ArticlesHandler) DeleteComment(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteComment(c.UserContext(), identity.SubjectID, c.Params("commentId")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// LikeComment POST /articles/comments/:commentId/like.
func (h *ArticlesHandler) LikeComment(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	liked, count, err := h.service.ToggleCommentLike(c.UserContext(), identity.SubjectID, c.Params("commentId"))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.ToggleResponse{Active: liked, Count: count})
}

// Categories GET /articles/categories.
func (h *ArticlesHandler) Categories(c *fiber.Ctx) error {
	categories, err := h.service.Categories(c.UserContext())
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewCategoryResponses(categories))
}
