package memory

import (
	"context"

	"github.com/godlywomen/community-api/internal/domain"
	"github.com/godlywomen/community-api/internal/repository"
)

type prayerRepo struct{ s *Store }

func (r *prayerRepo) Create(_ context.Context, prayer *domain.Prayer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.now()
	prayer.ID = r.s.newID()
	prayer.CreatedAt, prayer.UpdatedAt = now, now
	stored := *prayer
	r.s.prayers[prayer.ID] = &stored
	return nil
}

func (r *prayerRepo) Update(_ context.Context, prayer *domain.Prayer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.prayers[prayer.ID]
	if !ok {
		return repository.ErrNotFound
	}
	prayer.AuthorID = existing.AuthorID
	prayer.CreatedAt = existing.CreatedAt
	prayer.UpdatedAt = r.s.now()
	stored := *prayer
	r.s.prayers[prayer.ID] = &stored
	return nil
}

func (r *prayerRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.prayers[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.prayers, id)
	for rid, resp := range r.s.replies {
		if resp.PrayerID == id {
			delete(r.s.replies, rid)
		}
	}
	for key := range r.s.prayerSupport {
		if key.a == id {
			delete(r.s.prayerSupport, key)
		}
	}
	return nil
}

func (r *prayerRepo) GetByID(_ context.Context, id string) (*domain.Prayer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	prayer, ok := r.s.prayers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *prayer
	return &out, nil
}

func (r *prayerRepo) List(_ context.Context, filter repository.PrayerFilter) ([]domain.Prayer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return window(r.filter(filter), filter.Limit, filter.Offset), nil
}

func (r *prayerRepo) Count(_ context.Context, filter repository.PrayerFilter) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.filter(filter)), nil
}

func (r *prayerRepo) ToggleSupport(_ context.Context, prayerID, userID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.prayers[prayerID]; !ok {
		return false, repository.ErrNotFound
	}
	key := pair{prayerID, userID}
	if _, supported := r.s.prayerSupport[key]; supported {
		delete(r.s.prayerSupport, key)
		return false, nil
	}
	r.s.prayerSupport[key] = struct{}{}
	return true, nil
}

func (r *prayerRepo) CountSupporters(_ context.Context, prayerID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	total := 0
	for key := range r.s.prayerSupport {
		if key.a == prayerID {
			total++
		}
	}
	return total, nil
}

func (r *prayerRepo) filter(filter repository.PrayerFilter) []domain.Prayer {
	ids := make([]string, 0, len(r.s.prayers))
	for id, p := range r.s.prayers {
		if filter.PublicOnly && !p.IsPublic {
			continue
		}
		if filter.NamedOnly && p.IsAnonymous {
			continue
		}
		if filter.Type != "" && p.Type != filter.Type {
			continue
		}
		if filter.AuthorID != "" && p.AuthorID != filter.AuthorID {
			continue
		}
		if !matches(filter.Search, p.Title, p.Content) {
			continue
		}
		ids = append(ids, id)
	}
	r.s.newestFirst(ids)
	out := make([]domain.Prayer, 0, len(ids))
	for _, id := range ids {
		out = append(out, *r.s.prayers[id])
	}
	return out
}

type responseRepo struct{ s *Store }

func (r *responseRepo) Create(_ context.Context, response *domain.PrayerResponse) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.prayers[response.PrayerID]; !ok {
		return repository.ErrNotFound
	}
	response.ID = r.s.newID()
	response.CreatedAt = r.s.now()
	stored := *response
	r.s.replies[response.ID] = &stored
	return nil
}

func (r *responseRepo) GetByID(_ context.Context, id string) (*domain.PrayerResponse, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	response, ok := r.s.replies[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *response
	return &out, nil
}

func (r *responseRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.replies[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.replies, id)
	return nil
}

func (r *responseRepo) ListByPrayer(_ context.Context, prayerID string, limit, offset int) ([]domain.PrayerResponse, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return window(r.byPrayer(prayerID), limit, offset), nil
}

func (r *responseRepo) CountByPrayer(_ context.Context, prayerID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.byPrayer(prayerID)), nil
}

func (r *responseRepo) byPrayer(prayerID string) []domain.PrayerResponse {
	ids := []string{}
	for id, resp := range r.s.replies {
		if resp.PrayerID == prayerID {
			ids = append(ids, id)
		}
	}
	r.s.newestFirst(ids)
	out := make([]domain.PrayerResponse, 0, len(ids))
	for _, id := range ids {
		out = append(out, *r.s.replies[id])
	}
	return out
}
