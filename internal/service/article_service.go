package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/godlywomen/community-api/internal/domain"
	"github.com/godlywomen/community-api/internal/events"
	"github.com/godlywomen/community-api/internal/repository"
	apperrors "github.com/godlywomen/community-api/pkg/util"
)

// ArticleService coordinates articles, likes and comments.
type ArticleService struct {
	articles repository.ArticleRepository
	comments repository.CommentRepository
	events   publisher
	now      func() time.Time
}

// ArticleDependencies bundles collaborators for the article service.
type ArticleDependencies struct {
	ArticleRepo repository.ArticleRepository
	CommentRepo repository.CommentRepository
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
	Clock       func() time.Time
}

// ArticleInput describes a new article.
type ArticleInput struct {
	Title         string
	Content       string
	Excerpt       string
	Category      string
	Status        domain.ArticleStatus
	FeaturedImage string
}

// ArticleUpdate carries optional article changes. The slug is kept stable
// across title edits so shared links keep working.
type ArticleUpdate struct {
	Title         *string
	Content       *string
	Excerpt       *string
	Category      *string
	Status        *domain.ArticleStatus
	FeaturedImage *string
}

// ArticleQuery filters article listings. An empty status means published.
type ArticleQuery struct {
	Status   domain.ArticleStatus
	Category string
	Search   string
	AuthorID string
	Page     PageRequest
}

// ArticleDetail is an article with its engagement counters.
type ArticleDetail struct {
	Article   domain.Article
	LikeCount int
}

// CommentThread is a top-level comment with its replies, oldest reply first.
type CommentThread struct {
	Comment domain.Comment
	Replies []domain.Comment
}

// NewArticleService constructs the service.
func NewArticleService(deps ArticleDependencies) *ArticleService {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &ArticleService{
		articles: deps.ArticleRepo,
		comments: deps.CommentRepo,
		events:   newPublisher(deps.Dispatcher, deps.Logger),
		now:      clock,
	}
}

// Create stores a new article authored by authorID.
func (s *ArticleService) Create(ctx context.Context, authorID string, input ArticleInput) (*domain.Article, error) {
	title := strings.TrimSpace(input.Title)
	content := strings.TrimSpace(input.Content)
	details := map[string]any{}
	if title == "" {
		details["title"] = "required"
	}
	if content == "" {
		details["content"] = "required"
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid article", details)
	}

	status := input.Status
	if status == "" {
		status = domain.ArticleStatusDraft
	}
	if !status.Valid() {
		return nil, invalidArticleStatus(status)
	}
	category := strings.TrimSpace(input.Category)
	if category == "" {
		category = domain.DefaultArticleCategory
	}

	article := &domain.Article{
		AuthorID:      authorID,
		Title:         title,
		Slug:          articleSlug(title, s.now()),
		Content:       content,
		Excerpt:       strings.TrimSpace(input.Excerpt),
		Category:      category,
		Status:        status,
		FeaturedImage: input.FeaturedImage,
	}
	err := s.articles.Create(ctx, article)
	for attempt := 0; errors.Is(err, repository.ErrDuplicate) && attempt < slugRetries; attempt++ {
		article.Slug = withSlugNonce(article.Slug)
		err = s.articles.Create(ctx, article)
	}
	if err != nil {
		return nil, mapRepoError(err, "article")
	}
	s.events.publish(ctx, events.NewEvent(events.EventContentCreated, authorID, events.ResourceArticle, article.ID))
	return article, nil
}

// Read loads an article by id for viewerID (empty when anonymous), counts
// the view and remembers the reader.
func (s *ArticleService) Read(ctx context.Context, id, viewerID string) (*ArticleDetail, error) {
	article, err := s.articles.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "article")
	}
	return s.read(ctx, article, viewerID)
}

// ReadBySlug is Read keyed by slug.
func (s *ArticleService) ReadBySlug(ctx context.Context, slug, viewerID string) (*ArticleDetail, error) {
	article, err := s.articles.GetBySlug(ctx, slug)
	if err != nil {
		return nil, mapRepoError(err, "article")
	}
	return s.read(ctx, article, viewerID)
}

func (s *ArticleService) read(ctx context.Context, article *domain.Article, viewerID string) (*ArticleDetail, error) {
	if !visible(article, viewerID) {
		return nil, apperrors.NewNotFound("article", nil)
	}

	views, err := s.articles.IncrementViews(ctx, article.ID)
	if err != nil {
		return nil, mapRepoError(err, "article")
	}
	article.ViewCount = views

	if viewerID != "" {
		if err := s.articles.RecordView(ctx, article.ID, viewerID); err != nil {
			return nil, mapRepoError(err, "article")
		}
		s.events.publish(ctx, events.NewEvent(events.EventArticleViewed, viewerID, events.ResourceArticle, article.ID))
	}

	likes, err := s.articles.CountLikes(ctx, article.ID)
	if err != nil {
		return nil, err
	}
	return &ArticleDetail{Article: *article, LikeCount: likes}, nil
}

// List returns one page of articles. Drafts are only listed for their author.
func (s *ArticleService) List(ctx context.Context, query ArticleQuery, viewerID string) (Paged[domain.Article], error) {
	status := query.Status
	if status == "" {
		status = domain.ArticleStatusPublished
	}
	if !status.Valid() {
		return Paged[domain.Article]{}, invalidArticleStatus(status)
	}
	authorID := query.AuthorID
	if status == domain.ArticleStatusDraft {
		if viewerID == "" || (authorID != "" && authorID != viewerID) {
			return Paged[domain.Article]{}, apperrors.NewForbidden("drafts are only visible to their author")
		}
		authorID = viewerID
	}

	page := query.Page.Normalize()
	filter := repository.ArticleFilter{
		Status:   status,
		Category: strings.TrimSpace(query.Category),
		Search:   query.Search,
		AuthorID: authorID,
		Limit:    page.Limit,
		Offset:   page.Offset(),
	}
	items, err := s.articles.List(ctx, filter)
	if err != nil {
		return Paged[domain.Article]{}, err
	}
	total, err := s.articles.Count(ctx, filter)
	if err != nil {
		return Paged[domain.Article]{}, err
	}
	return newPaged(items, page, total), nil
}

// Update applies changes to an article authored by callerID.
func (s *ArticleService) Update(ctx context.Context, callerID, id string, update ArticleUpdate) (*domain.Article, error) {
	article, err := s.articles.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "article")
	}
	if err := requireOwner(article.AuthorID, callerID, "article"); err != nil {
		return nil, err
	}

	if update.Title != nil {
		title := strings.TrimSpace(*update.Title)
		if title == "" {
			return nil, apperrors.NewValidationError("title must not be empty", map[string]any{"title": "required"})
		}
		article.Title = title
	}
	if update.Content != nil {
		content := strings.TrimSpace(*update.Content)
		if content == "" {
			return nil, apperrors.NewValidationError("content must not be empty", map[string]any{"content": "required"})
		}
		article.Content = content
	}
	if update.Status != nil {
		if !update.Status.Valid() {
			return nil, invalidArticleStatus(*update.Status)
		}
		article.Status = *update.Status
	}
	if update.Category != nil {
		article.Category = strings.TrimSpace(*update.Category)
		if article.Category == "" {
			article.Category = domain.DefaultArticleCategory
		}
	}
	setString(&article.Excerpt, update.Excerpt)
	setString(&article.FeaturedImage, update.FeaturedImage)

	if err := s.articles.Update(ctx, article); err != nil {
		return nil, mapRepoError(err, "article")
	}
	s.events.publish(ctx, events.NewEvent(events.EventContentUpdated, callerID, events.ResourceArticle, article.ID))
	return article, nil
}

// Delete removes an article with its comments, likes and views.
func (s *ArticleService) Delete(ctx context.Context, callerID, id string) error {
	article, err := s.articles.GetByID(ctx, id)
	if err != nil {
		return mapRepoError(err, "article")
	}
	if err := requireOwner(article.AuthorID, callerID, "article"); err != nil {
		return err
	}
	if err := s.articles.Delete(ctx, id); err != nil {
		return mapRepoError(err, "article")
	}
	s.events.publish(ctx, events.NewEvent(events.EventContentDeleted, callerID, events.ResourceArticle, id))
	return nil
}

// ToggleLike flips userID's like on the article and returns the new state
// and like count.
func (s *ArticleService) ToggleLike(ctx context.Context, userID, id string) (bool, int, error) {
	if _, err := s.visibleArticle(ctx, id, userID); err != nil {
		return false, 0, err
	}
	liked, err := s.articles.ToggleLike(ctx, id, userID)
	if err != nil {
		return false, 0, mapRepoError(err, "article")
	}
	count, err := s.articles.CountLikes(ctx, id)
	if err != nil {
		return false, 0, err
	}
	event := events.NewEvent(events.EventArticleLiked, userID, events.ResourceArticle, id)
	event.Payload = events.ToggledPayload{Active: liked, Count: count}
	s.events.publish(ctx, event)
	return liked, count, nil
}

// ListComments returns one page of top-level comments, newest first, each
// with its replies.
func (s *ArticleService) ListComments(ctx context.Context, articleID, viewerID string, page PageRequest) (Paged[CommentThread], error) {
	if _, err := s.visibleArticle(ctx, articleID, viewerID); err != nil {
		return Paged[CommentThread]{}, err
	}
	page = page.Normalize()
	top, err := s.comments.ListTopLevel(ctx, articleID, page.Limit, page.Offset())
	if err != nil {
		return Paged[CommentThread]{}, err
	}
	total, err := s.comments.CountTopLevel(ctx, articleID)
	if err != nil {
		return Paged[CommentThread]{}, err
	}

	threads := make([]CommentThread, 0, len(top))
	for _, c := range top {
		replies, err := s.comments.ListReplies(ctx, c.ID)
		if err != nil {
			return Paged[CommentThread]{}, err
		}
		threads = append(threads, CommentThread{Comment: c, Replies: replies})
	}
	return newPaged(threads, page, total), nil
}

// AddComment posts a comment on an article. Replies to a reply are attached
// to the top-level comment so threads stay one level deep.
func (s *ArticleService) AddComment(ctx context.Context, authorID, articleID, content string, parentID *string) (*domain.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.NewValidationError("content required", map[string]any{"content": "required"})
	}
	if _, err := s.visibleArticle(ctx, articleID, authorID); err != nil {
		return nil, err
	}

	var parent *string
	if parentID != nil && *parentID != "" {
		p, err := s.comments.GetByID(ctx, *parentID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperrors.NewValidationError("parent comment not found", map[string]any{"parent_id": *parentID})
			}
			return nil, err
		}
		if p.ArticleID != articleID {
			return nil, apperrors.NewValidationError("parent comment belongs to another article", map[string]any{"parent_id": *parentID})
		}
		root := p.ID
		if p.ParentID != nil {
			root = *p.ParentID
		}
		parent = &root
	}

	comment := &domain.Comment{
		ArticleID: articleID,
		AuthorID:  authorID,
		ParentID:  parent,
		Content:   content,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, mapRepoError(err, "comment")
	}
	return comment, nil
}

// DeleteComment removes a comment and its replies.
func (s *ArticleService) DeleteComment(ctx context.Context, callerID, commentID string) error {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return mapRepoError(err, "comment")
	}
	if err := requireOwner(comment.AuthorID, callerID, "comment"); err != nil {
		return err
	}
	return mapRepoError(s.comments.Delete(ctx, commentID), "comment")
}

// ToggleCommentLike flips userID's like on a comment and returns the new
// state and like count. Comments on hidden drafts read as missing.
func (s *ArticleService) ToggleCommentLike(ctx context.Context, userID, commentID string) (bool, int, error) {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return false, 0, mapRepoError(err, "comment")
	}
	article, err := s.articles.GetByID(ctx, comment.ArticleID)
	if err != nil {
		return false, 0, mapRepoError(err, "comment")
	}
	if !visible(article, userID) {
		return false, 0, apperrors.NewNotFound("comment", nil)
	}
	liked, err := s.comments.ToggleLike(ctx, commentID, userID)
	if err != nil {
		return false, 0, mapRepoError(err, "comment")
	}
	count, err := s.comments.CountLikes(ctx, commentID)
	if err != nil {
		return false, 0, err
	}
	return liked, count, nil
}

// Categories lists categories in use by published articles with their
// counts. The default category is always present.
func (s *ArticleService) Categories(ctx context.Context) ([]domain.CategoryCount, error) {
	categories, err := s.articles.Categories(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range categories {
		if c.Name == domain.DefaultArticleCategory {
			return categories, nil
		}
	}
	return append(categories, domain.CategoryCount{Name: domain.DefaultArticleCategory}), nil
}

// visibleArticle loads an article, hiding drafts from everyone but the author.
func (s *ArticleService) visibleArticle(ctx context.Context, id, viewerID string) (*domain.Article, error) {
	article, err := s.articles.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "article")
	}
	if !visible(article, viewerID) {
		return nil, apperrors.NewNotFound("article", nil)
	}
	return article, nil
}

func visible(article *domain.Article, viewerID string) bool {
	return article.Status == domain.ArticleStatusPublished || article.AuthorID == viewerID
}

func invalidArticleStatus(status domain.ArticleStatus) error {
	return apperrors.NewValidationError("invalid article status", map[string]any{
		"status":  string(status),
		"allowed": []string{string(domain.ArticleStatusDraft), string(domain.ArticleStatusPublished)},
	})
}
