package memory

import (
	"context"

	"github.com/godlywomen/community-api/internal/domain"
	"github.com/godlywomen/community-api/internal/repository"
)

type listingRepo struct{ s *Store }

func (r *listingRepo) Create(_ context.Context, listing *domain.Listing) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.now()
	listing.ID = r.s.newID()
	listing.CreatedAt, listing.UpdatedAt = now, now
	stored := *listing
	r.s.listings[listing.ID] = &stored
	return nil
}

func (r *listingRepo) Update(_ context.Context, listing *domain.Listing) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.listings[listing.ID]
	if !ok {
		return repository.ErrNotFound
	}
	listing.OwnerID = existing.OwnerID
	listing.CreatedAt = existing.CreatedAt
	listing.UpdatedAt = r.s.now()
	stored := *listing
	r.s.listings[listing.ID] = &stored
	return nil
}

func (r *listingRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.listings[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.listings, id)
	return nil
}

func (r *listingRepo) GetByID(_ context.Context, id string) (*domain.Listing, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	listing, ok := r.s.listings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *listing
	return &out, nil
}

func (r *listingRepo) List(_ context.Context, filter repository.ListingFilter) ([]domain.Listing, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return window(r.filter(filter), filter.Limit, filter.Offset), nil
}

func (r *listingRepo) Count(_ context.Context, filter repository.ListingFilter) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.filter(filter)), nil
}

func (r *listingRepo) filter(filter repository.ListingFilter) []domain.Listing {
	ids := make([]string, 0, len(r.s.listings))
	for id, l := range r.s.listings {
		if filter.Type != "" && l.Type != filter.Type {
			continue
		}
		if filter.OwnerID != "" && l.OwnerID != filter.OwnerID {
			continue
		}
		if !matches(filter.Search, l.Title, l.Description) {
			continue
		}
		ids = append(ids, id)
	}
	r.s.newestFirst(ids)
	out := make([]domain.Listing, 0, len(ids))
	for _, id := range ids {
		out = append(out, *r.s.listings[id])
	}
	return out
}
