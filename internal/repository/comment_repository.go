package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/godlywomen/community-api/internal/domain"
)

// CommentRepository manages article comments and their replies.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	GetByID(ctx context.Context, id string) (*domain.Comment, error)
	Delete(ctx context.Context, id string) error
	ListTopLevel(ctx context.Context, articleID string, limit, offset int) ([]domain.Comment, error)
	CountTopLevel(ctx context.Context, articleID string) (int, error)
	ListReplies(ctx context.Context, parentID string) ([]domain.Comment, error)
	ToggleLike(ctx context.Context, commentID, userID string) (bool, error)
	CountLikes(ctx context.Context, commentID string) (int, error)
}

type commentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository builds the repository.
func NewCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &commentRepository{pool: pool}
}

const commentSelect = `SELECT c.id, c.article_id, c.author_id, c.parent_id, c.content, c.created_at, c.updated_at,
        (SELECT COUNT(*) FROM comment_likes l WHERE l.comment_id = c.id)
        FROM comments c`

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	const query = `
        INSERT INTO comments (article_id, author_id, parent_id, content)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		comment.ArticleID,
		comment.AuthorID,
		comment.ParentID,
		comment.Content,
	).Scan(&comment.ID, &comment.CreatedAt, &comment.UpdatedAt)
	return translate(err)
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	rows, err := r.pool.Query(ctx, commentSelect+` WHERE c.id=$1`, id)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()
	comments, err := scanComments(rows)
	if err != nil {
		return nil, err
	}
	if len(comments) == 0 {
		return nil, ErrNotFound
	}
	return &comments[0], nil
}

// Delete removes the comment and, through the parent_id cascade, its replies.
func (r *commentRepository) Delete(ctx context.Context, id string) error {
	return expectAffected(r.pool.Exec(ctx, `DELETE FROM comments WHERE id=$1`, id))
}

func (r *commentRepository) ListTopLevel(ctx context.Context, articleID string, limit, offset int) ([]domain.Comment, error) {
	limit, offset = page(limit, offset)
	const query = commentSelect + `
        WHERE c.article_id=$1 AND c.parent_id IS NULL
        ORDER BY c.created_at DESC, c.id DESC LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, articleID, limit, offset)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()
	return scanComments(rows)
}

func (r *commentRepository) CountTopLevel(ctx context.Context, articleID string) (int, error) {
	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM comments WHERE article_id=$1 AND parent_id IS NULL`, articleID,
	).Scan(&total)
	return total, translate(err)
}

func (r *commentRepository) ListReplies(ctx context.Context, parentID string) ([]domain.Comment, error) {
	const query = commentSelect + ` WHERE c.parent_id=$1 ORDER BY c.created_at ASC, c.id ASC`
	rows, err := r.pool.Query(ctx, query, parentID)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()
	return scanComments(rows)
}

// ToggleLike flips userID's like on the comment and reports the new state.
func (r *commentRepository) ToggleLike(ctx context.Context, commentID, userID string) (bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	tag, err := tx.Exec(ctx, `DELETE FROM comment_likes WHERE comment_id=$1 AND user_id=$2`, commentID, userID)
	if err != nil {
		return false, translate(err)
	}
	liked := tag.RowsAffected() == 0
	if liked {
		if _, err := tx.Exec(ctx, `INSERT INTO comment_likes (comment_id, user_id) VALUES ($1,$2)`, commentID, userID); err != nil {
			return false, translate(err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return liked, nil
}

func (r *commentRepository) CountLikes(ctx context.Context, commentID string) (int, error) {
	var total int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM comment_likes WHERE comment_id=$1`, commentID).Scan(&total)
	return total, translate(err)
}

func scanComments(rows pgx.Rows) ([]domain.Comment, error) {
	var result []domain.Comment
	for rows.Next() {
		var comment domain.Comment
		if err := rows.Scan(
			&comment.ID,
			&comment.ArticleID,
			&comment.AuthorID,
			&comment.ParentID,
			&comment.Content,
			&comment.CreatedAt,
			&comment.UpdatedAt,
			&comment.LikeCount,
		); err != nil {
			return nil, err
		}
		result = append(result, comment)
	}
	return result, rows.Err()
}
