package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/godlywomen/community-api/internal/domain"
)

// ArticleRepository encapsulates article persistence together with the
// per-user like and view relations.
type ArticleRepository interface {
	Create(ctx context.Context, article *domain.Article) error
	Update(ctx context.Context, article *domain.Article) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Article, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Article, error)
	List(ctx context.Context, filter ArticleFilter) ([]domain.Article, error)
	Count(ctx context.Context, filter ArticleFilter) (int, error)
	IncrementViews(ctx context.Context, id string) (int, error)
	RecordView(ctx context.Context, articleID, userID string) error
	CountViewsByUser(ctx context.Context, userID string) (int, error)
	ToggleLike(ctx context.Context, articleID, userID string) (bool, error)
	CountLikes(ctx context.Context, articleID string) (int, error)
	Categories(ctx context.Context) ([]domain.CategoryCount, error)
}

type articleRepository struct {
	pool *pgxpool.Pool
}

// NewArticleRepository instantiates repository.
func NewArticleRepository(pool *pgxpool.Pool) ArticleRepository {
	return &articleRepository{pool: pool}
}

const articleColumns = `id, author_id, title, slug, content, excerpt, category, status,
               featured_image, view_count, created_at, updated_at`

func (r *articleRepository) Create(ctx context.Context, article *domain.Article) error {
	const query = `
        INSERT INTO articles (author_id, title, slug, content, excerpt, category, status, featured_image)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, view_count, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		article.AuthorID,
		article.Title,
		article.Slug,
		article.Content,
		article.Excerpt,
		article.Category,
		article.Status,
		article.FeaturedImage,
	).Scan(&article.ID, &article.ViewCount, &article.CreatedAt, &article.UpdatedAt)
	return translate(err)
}

func (r *articleRepository) Update(ctx context.Context, article *domain.Article) error {
	const query = `
        UPDATE articles SET title=$1, slug=$2, content=$3, excerpt=$4, category=$5, status=$6,
            featured_image=$7, updated_at=NOW()
        WHERE id=$8
        RETURNING updated_at`
	err := r.pool.QueryRow(ctx, query,
		article.Title,
		article.Slug,
		article.Content,
		article.Excerpt,
		article.Category,
		article.Status,
		article.FeaturedImage,
		article.ID,
	).Scan(&article.UpdatedAt)
	return translate(err)
}

// Delete removes the article; comments, likes and views cascade.
func (r *articleRepository) Delete(ctx context.Context, id string) error {
	return expectAffected(r.pool.Exec(ctx, `DELETE FROM articles WHERE id=$1`, id))
}

func (r *articleRepository) GetByID(ctx context.Context, id string) (*domain.Article, error) {
	return r.fetchSingle(ctx, `SELECT `+articleColumns+` FROM articles WHERE id=$1`, id)
}

func (r *articleRepository) GetBySlug(ctx context.Context, slug string) (*domain.Article, error) {
	return r.fetchSingle(ctx, `SELECT `+articleColumns+` FROM articles WHERE slug=$1`, slug)
}

func (r *articleRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Article, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()
	articles, err := scanArticles(rows)
	if err != nil {
		return nil, err
	}
	if len(articles) == 0 {
		return nil, ErrNotFound
	}
	return &articles[0], nil
}

func (r *articleRepository) List(ctx context.Context, filter ArticleFilter) ([]domain.Article, error) {
	where := articleWhere(filter)
	limit, offset := page(filter.Limit, filter.Offset)
	query := fmt.Sprintf(`SELECT %s FROM articles WHERE %s ORDER BY created_at DESC, id DESC LIMIT %d OFFSET %d`,
		articleColumns, where.String(), limit, offset)

	rows, err := r.pool.Query(ctx, query, where.args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()
	return scanArticles(rows)
}

func (r *articleRepository) Count(ctx context.Context, filter ArticleFilter) (int, error) {
	where := articleWhere(filter)
	var total int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM articles WHERE `+where.String(), where.args...).Scan(&total)
	return total, translate(err)
}

func (r *articleRepository) IncrementViews(ctx context.Context, id string) (int, error) {
	var views int
	err := r.pool.QueryRow(ctx,
		`UPDATE articles SET view_count = view_count + 1 WHERE id=$1 RETURNING view_count`, id,
	).Scan(&views)
	return views, translate(err)
}

func (r *articleRepository) RecordView(ctx context.Context, articleID, userID string) error {
	const query = `
        INSERT INTO article_views (article_id, user_id) VALUES ($1,$2)
        ON CONFLICT (article_id, user_id) DO UPDATE SET viewed_at = NOW()`
	_, err := r.pool.Exec(ctx, query, articleID, userID)
	return translate(err)
}

func (r *articleRepository) CountViewsByUser(ctx context.Context, userID string) (int, error) {
	var total int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM article_views WHERE user_id=$1`, userID).Scan(&total)
	return total, translate(err)
}

// ToggleLike adds the like when absent and removes it otherwise. It reports
// whether the article is liked afterwards.
func (r *articleRepository) ToggleLike(ctx context.Context, articleID, userID string) (bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	tag, err := tx.Exec(ctx, `DELETE FROM article_likes WHERE article_id=$1 AND user_id=$2`, articleID, userID)
	if err != nil {
		return false, translate(err)
	}
	liked := tag.RowsAffected() == 0
	if liked {
		if _, err := tx.Exec(ctx, `INSERT INTO article_likes (article_id, user_id) VALUES ($1,$2)`, articleID, userID); err != nil {
			return false, translate(err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return liked, nil
}

func (r *articleRepository) CountLikes(ctx context.Context, articleID string) (int, error) {
	var total int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM article_likes WHERE article_id=$1`, articleID).Scan(&total)
	return total, translate(err)
}

// Categories counts published articles per category, largest first.
func (r *articleRepository) Categories(ctx context.Context) ([]domain.CategoryCount, error) {
	const query = `SELECT category, COUNT(*) FROM articles
        WHERE status=$1 GROUP BY category ORDER BY COUNT(*) DESC, category ASC`
	rows, err := r.pool.Query(ctx, query, domain.ArticleStatusPublished)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	var result []domain.CategoryCount
	for rows.Next() {
		var cc domain.CategoryCount
		if err := rows.Scan(&cc.Name, &cc.Count); err != nil {
			return nil, err
		}
		result = append(result, cc)
	}
	return result, rows.Err()
}

func articleWhere(filter ArticleFilter) *whereClause {
	where := newWhere()
	if filter.Status != "" {
		where.add("status=$%[1]d", filter.Status)
	}
	if filter.Category != "" {
		where.add("category=$%[1]d", filter.Category)
	}
	if filter.AuthorID != "" {
		where.add("author_id=$%[1]d", filter.AuthorID)
	}
	if filter.Search != "" {
		where.add("(LOWER(title) LIKE $%[1]d OR LOWER(content) LIKE $%[1]d)", SearchPattern(filter.Search))
	}
	return where
}

func scanArticles(rows pgx.Rows) ([]domain.Article, error) {
	var result []domain.Article
	for rows.Next() {
		var article domain.Article
		if err := rows.Scan(
			&article.ID,
			&article.AuthorID,
			&article.Title,
			&article.Slug,
			&article.Content,
			&article.Excerpt,
			&article.Category,
			&article.Status,
			&article.FeaturedImage,
			&article.ViewCount,
			&article.CreatedAt,
			&article.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, article)
	}
	return result, rows.Err()
}
