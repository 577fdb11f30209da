package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/godlywomen/community-api/internal/domain"
)

// ListingRepository encapsulates marketplace listing persistence.
type ListingRepository interface {
	Create(ctx context.Context, listing *domain.Listing) error
	Update(ctx context.Context, listing *domain.Listing) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Listing, error)
	List(ctx context.Context, filter ListingFilter) ([]domain.Listing, error)
	Count(ctx context.Context, filter ListingFilter) (int, error)
}

type listingRepository struct {
	pool *pgxpool.Pool
}

// NewListingRepository instantiates repository.
func NewListingRepository(pool *pgxpool.Pool) ListingRepository {
	return &listingRepository{pool: pool}
}

const listingColumns = `id, owner_id, title, description, price, currency, type, contact,
               country_code, image, event_date, created_at, updated_at`

func (r *listingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	const query = `
        INSERT INTO marketplace_listings (owner_id, title, description, price, currency, type, contact, country_code, image, event_date)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		listing.OwnerID,
		listing.Title,
		listing.Description,
		listing.Price,
		listing.Currency,
		listing.Type,
		listing.Contact,
		listing.CountryCode,
		listing.Image,
		listing.Date,
	).Scan(&listing.ID, &listing.CreatedAt, &listing.UpdatedAt)
	return translate(err)
}

func (r *listingRepository) Update(ctx context.Context, listing *domain.Listing) error {
	const query = `
        UPDATE marketplace_listings SET title=$1, description=$2, price=$3, currency=$4, type=$5,
            contact=$6, country_code=$7, image=$8, event_date=$9, updated_at=NOW()
        WHERE id=$10
        RETURNING updated_at`
	err := r.pool.QueryRow(ctx, query,
		listing.Title,
		listing.Description,
		listing.Price,
		listing.Currency,
		listing.Type,
		listing.Contact,
		listing.CountryCode,
		listing.Image,
		listing.Date,
		listing.ID,
	).Scan(&listing.UpdatedAt)
	return translate(err)
}

func (r *listingRepository) Delete(ctx context.Context, id string) error {
	return expectAffected(r.pool.Exec(ctx, `DELETE FROM marketplace_listings WHERE id=$1`, id))
}

func (r *listingRepository) GetByID(ctx context.Context, id string) (*domain.Listing, error) {
	const query = `SELECT ` + listingColumns + ` FROM marketplace_listings WHERE id=$1`
	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()
	listings, err := scanListings(rows)
	if err != nil {
		return nil, err
	}
	if len(listings) == 0 {
		return nil, ErrNotFound
	}
	return &listings[0], nil
}

func (r *listingRepository) List(ctx context.Context, filter ListingFilter) ([]domain.Listing, error) {
	where := listingWhere(filter)
	limit, offset := page(filter.Limit, filter.Offset)
	query := fmt.Sprintf(`SELECT %s FROM marketplace_listings WHERE %s ORDER BY created_at DESC, id DESC LIMIT %d OFFSET %d`,
		listingColumns, where.String(), limit, offset)

	rows, err := r.pool.Query(ctx, query, where.args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()
	return scanListings(rows)
}

func (r *listingRepository) Count(ctx context.Context, filter ListingFilter) (int, error) {
	where := listingWhere(filter)
	var total int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM marketplace_listings WHERE `+where.String(), where.args...).Scan(&total)
	return total, translate(err)
}

func listingWhere(filter ListingFilter) *whereClause {
	where := newWhere()
	if filter.Type != "" {
		where.add("type=$%[1]d", filter.Type)
	}
	if filter.OwnerID != "" {
		where.add("owner_id=$%[1]d", filter.OwnerID)
	}
	if filter.Search != "" {
		where.add("(LOWER(title) LIKE $%[1]d OR LOWER(description) LIKE $%[1]d)", SearchPattern(filter.Search))
	}
	return where
}

func scanListings(rows pgx.Rows) ([]domain.Listing, error) {
	var result []domain.Listing
	for rows.Next() {
		var listing domain.Listing
		if err := rows.Scan(
			&listing.ID,
			&listing.OwnerID,
			&listing.Title,
			&listing.Description,
			&listing.Price,
			&listing.Currency,
			&listing.Type,
			&listing.Contact,
			&listing.CountryCode,
			&listing.Image,
			&listing.Date,
			&listing.CreatedAt,
			&listing.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, listing)
	}
	return result, rows.Err()
}
