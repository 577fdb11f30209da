package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/godlywomen/community-api/internal/domain"
)

// PrayerResponseRepository persists replies to prayers.
type PrayerResponseRepository interface {
	Create(ctx context.Context, response *domain.PrayerResponse) error
	GetByID(ctx context.Context, id string) (*domain.PrayerResponse, error)
	Delete(ctx context.Context, id string) error
	ListByPrayer(ctx context.Context, prayerID string, limit, offset int) ([]domain.PrayerResponse, error)
	CountByPrayer(ctx context.Context, prayerID string) (int, error)
}

type prayerResponseRepository struct {
	pool *pgxpool.Pool
}

// NewPrayerResponseRepository returns the repository.
func NewPrayerResponseRepository(pool *pgxpool.Pool) PrayerResponseRepository {
	return &prayerResponseRepository{pool: pool}
}

func (r *prayerResponseRepository) Create(ctx context.Context, response *domain.PrayerResponse) error {
	const query = `
        INSERT INTO prayer_responses (prayer_id, author_id, content)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	err := r.pool.QueryRow(ctx, query,
		response.PrayerID,
		response.AuthorID,
		response.Content,
	).Scan(&response.ID, &response.CreatedAt)
	return translate(err)
}

func (r *prayerResponseRepository) GetByID(ctx context.Context, id string) (*domain.PrayerResponse, error) {
	const query = `SELECT id, prayer_id, author_id, content, created_at FROM prayer_responses WHERE id=$1`
	var response domain.PrayerResponse
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&response.ID,
		&response.PrayerID,
		&response.AuthorID,
		&response.Content,
		&response.CreatedAt,
	); err != nil {
		return nil, translate(err)
	}
	return &response, nil
}

func (r *prayerResponseRepository) Delete(ctx context.Context, id string) error {
	return expectAffected(r.pool.Exec(ctx, `DELETE FROM prayer_responses WHERE id=$1`, id))
}

func (r *prayerResponseRepository) ListByPrayer(ctx context.Context, prayerID string, limit, offset int) ([]domain.PrayerResponse, error) {
	limit, offset = page(limit, offset)
	const query = `
        SELECT id, prayer_id, author_id, content, created_at
        FROM prayer_responses WHERE prayer_id=$1
        ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, prayerID, limit, offset)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	var result []domain.PrayerResponse
	for rows.Next() {
		var response domain.PrayerResponse
		if err := rows.Scan(&response.ID, &response.PrayerID, &response.AuthorID, &response.Content, &response.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, response)
	}
	return result, rows.Err()
}

func (r *prayerResponseRepository) CountByPrayer(ctx context.Context, prayerID string) (int, error) {
	var total int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM prayer_responses WHERE prayer_id=$1`, prayerID).Scan(&total)
	return total, translate(err)
}
