package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/godlywomen/community-api/internal/domain"
)

// PrayerRepository encapsulates prayer persistence and support toggles.
type PrayerRepository interface {
	Create(ctx context.Context, prayer *domain.Prayer) error
	Update(ctx context.Context, prayer *domain.Prayer) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Prayer, error)
	List(ctx context.Context, filter PrayerFilter) ([]domain.Prayer, error)
	Count(ctx context.Context, filter PrayerFilter) (int, error)
	ToggleSupport(ctx context.Context, prayerID, userID string) (bool, error)
	CountSupporters(ctx context.Context, prayerID string) (int, error)
}

type prayerRepository struct {
	pool *pgxpool.Pool
}

// NewPrayerRepository instantiates repository.
func NewPrayerRepository(pool *pgxpool.Pool) PrayerRepository {
	return &prayerRepository{pool: pool}
}

const prayerColumns = `id, author_id, title, content, prayer_type, is_anonymous, is_public, created_at, updated_at`

func (r *prayerRepository) Create(ctx context.Context, prayer *domain.Prayer) error {
	const query = `
        INSERT INTO prayers (author_id, title, content, prayer_type, is_anonymous, is_public)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		prayer.AuthorID,
		prayer.Title,
		prayer.Content,
		prayer.Type,
		prayer.IsAnonymous,
		prayer.IsPublic,
	).Scan(&prayer.ID, &prayer.CreatedAt, &prayer.UpdatedAt)
	return translate(err)
}

func (r *prayerRepository) Update(ctx context.Context, prayer *domain.Prayer) error {
	const query = `
        UPDATE prayers SET title=$1, content=$2, prayer_type=$3, is_anonymous=$4, is_public=$5, updated_at=NOW()
        WHERE id=$6
        RETURNING updated_at`
	err := r.pool.QueryRow(ctx, query,
		prayer.Title,
		prayer.Content,
		prayer.Type,
		prayer.IsAnonymous,
		prayer.IsPublic,
		prayer.ID,
	).Scan(&prayer.UpdatedAt)
	return translate(err)
}

// Delete removes the prayer; supports and responses cascade.
func (r *prayerRepository) Delete(ctx context.Context, id string) error {
	return expectAffected(r.pool.Exec(ctx, `DELETE FROM prayers WHERE id=$1`, id))
}

func (r *prayerRepository) GetByID(ctx context.Context, id string) (*domain.Prayer, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+prayerColumns+` FROM prayers WHERE id=$1`, id)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()
	prayers, err := scanPrayers(rows)
	if err != nil {
		return nil, err
	}
	if len(prayers) == 0 {
		return nil, ErrNotFound
	}
	return &prayers[0], nil
}

func (r *prayerRepository) List(ctx context.Context, filter PrayerFilter) ([]domain.Prayer, error) {
	where := prayerWhere(filter)
	limit, offset := page(filter.Limit, filter.Offset)
	query := fmt.Sprintf(`SELECT %s FROM prayers WHERE %s ORDER BY created_at DESC, id DESC LIMIT %d OFFSET %d`,
		prayerColumns, where.String(), limit, offset)

	rows, err := r.pool.Query(ctx, query, where.args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()
	return scanPrayers(rows)
}

func (r *prayerRepository) Count(ctx context.Context, filter PrayerFilter) (int, error) {
	where := prayerWhere(filter)
	var total int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM prayers WHERE `+where.String(), where.args...).Scan(&total)
	return total, translate(err)
}

func (r *prayerRepository) ToggleSupport(ctx context.Context, prayerID, userID string) (bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	tag, err := tx.Exec(ctx, `DELETE FROM prayer_supports WHERE prayer_id=$1 AND user_id=$2`, prayerID, userID)
	if err != nil {
		return false, translate(err)
	}
	supported := tag.RowsAffected() == 0
	if supported {
		if _, err := tx.Exec(ctx, `INSERT INTO prayer_supports (prayer_id, user_id) VALUES ($1,$2)`, prayerID, userID); err != nil {
			return false, translate(err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return supported, nil
}

func (r *prayerRepository) CountSupporters(ctx context.Context, prayerID string) (int, error) {
	var total int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM prayer_supports WHERE prayer_id=$1`, prayerID).Scan(&total)
	return total, translate(err)
}

func prayerWhere(filter PrayerFilter) *whereClause {
	where := newWhere()
	if filter.PublicOnly {
		where.add("is_public=$%[1]d", true)
	}
	if filter.NamedOnly {
		where.add("is_anonymous=$%[1]d", false)
	}
	if filter.Type != "" {
		where.add("prayer_type=$%[1]d", filter.Type)
	}
	if filter.AuthorID != "" {
		where.add("author_id=$%[1]d", filter.AuthorID)
	}
	if filter.Search != "" {
		where.add("(LOWER(title) LIKE $%[1]d OR LOWER(content) LIKE $%[1]d)", SearchPattern(filter.Search))
	}
	return where
}

func scanPrayers(rows pgx.Rows) ([]domain.Prayer, error) {
	var result []domain.Prayer
	for rows.Next() {
		var prayer domain.Prayer
		if err := rows.Scan(
			&prayer.ID,
			&prayer.AuthorID,
			&prayer.Title,
			&prayer.Content,
			&prayer.Type,
			&prayer.IsAnonymous,
			&prayer.IsPublic,
			&prayer.CreatedAt,
			&prayer.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, prayer)
	}
	return result, rows.Err()
}
