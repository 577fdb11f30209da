package memory

import (
	"context"
	"sort"

	"github.com/godlywomen/community-api/internal/domain"
	"github.com/godlywomen/community-api/internal/repository"
)

type articleRepo struct{ s *Store }

func (r *articleRepo) Create(_ context.Context, article *domain.Article) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.slugTaken(article.Slug, "") {
		return repository.ErrDuplicate
	}
	now := r.s.now()
	article.ID = r.s.newID()
	article.ViewCount = 0
	article.CreatedAt, article.UpdatedAt = now, now
	stored := *article
	r.s.articles[article.ID] = &stored
	return nil
}

func (r *articleRepo) Update(_ context.Context, article *domain.Article) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.articles[article.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if r.slugTaken(article.Slug, article.ID) {
		return repository.ErrDuplicate
	}
	article.AuthorID = existing.AuthorID
	article.ViewCount = existing.ViewCount
	article.CreatedAt = existing.CreatedAt
	article.UpdatedAt = r.s.now()
	stored := *article
	r.s.articles[article.ID] = &stored
	return nil
}

func (r *articleRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.articles[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.articles, id)
	for cid, c := range r.s.comments {
		if c.ArticleID == id {
			r.s.dropComment(cid)
		}
	}
	for key := range r.s.articleLikes {
		if key.a == id {
			delete(r.s.articleLikes, key)
		}
	}
	for key := range r.s.articleViews {
		if key.a == id {
			delete(r.s.articleViews, key)
		}
	}
	return nil
}

func (r *articleRepo) GetByID(_ context.Context, id string) (*domain.Article, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	article, ok := r.s.articles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *article
	return &out, nil
}

func (r *articleRepo) GetBySlug(_ context.Context, slug string) (*domain.Article, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, article := range r.s.articles {
		if article.Slug == slug {
			out := *article
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *articleRepo) List(_ context.Context, filter repository.ArticleFilter) ([]domain.Article, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return window(r.filter(filter), filter.Limit, filter.Offset), nil
}

func (r *articleRepo) Count(_ context.Context, filter repository.ArticleFilter) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.filter(filter)), nil
}

func (r *articleRepo) IncrementViews(_ context.Context, id string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	article, ok := r.s.articles[id]
	if !ok {
		return 0, repository.ErrNotFound
	}
	article.ViewCount++
	return article.ViewCount, nil
}

func (r *articleRepo) RecordView(_ context.Context, articleID, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.articles[articleID]; !ok {
		return repository.ErrNotFound
	}
	r.s.articleViews[pair{articleID, userID}] = r.s.now()
	return nil
}

func (r *articleRepo) CountViewsByUser(_ context.Context, userID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	total := 0
	for key := range r.s.articleViews {
		if key.b == userID {
			total++
		}
	}
	return total, nil
}

func (r *articleRepo) ToggleLike(_ context.Context, articleID, userID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.articles[articleID]; !ok {
		return false, repository.ErrNotFound
	}
	key := pair{articleID, userID}
	if _, liked := r.s.articleLikes[key]; liked {
		delete(r.s.articleLikes, key)
		return false, nil
	}
	r.s.articleLikes[key] = struct{}{}
	return true, nil
}

func (r *articleRepo) CountLikes(_ context.Context, articleID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return likes(r.s.articleLikes, articleID), nil
}

func (r *articleRepo) slugTaken(slug, exceptID string) bool {
	for id, article := range r.s.articles {
		if id != exceptID && article.Slug == slug {
			return true
		}
	}
	return false
}

func (r *articleRepo) filter(filter repository.ArticleFilter) []domain.Article {
	ids := make([]string, 0, len(r.s.articles))
	for id, a := range r.s.articles {
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		if filter.Category != "" && a.Category != filter.Category {
			continue
		}
		if filter.AuthorID != "" && a.AuthorID != filter.AuthorID {
			continue
		}
		if !matches(filter.Search, a.Title, a.Content) {
			continue
		}
		ids = append(ids, id)
	}
	r.s.newestFirst(ids)
	out := make([]domain.Article, 0, len(ids))
	for _, id := range ids {
		out = append(out, *r.s.articles[id])
	}
	return out
}

func (r *articleRepo) Categories(_ context.Context) ([]domain.CategoryCount, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	counts := map[string]int{}
	for _, a := range r.s.articles {
		if a.Status == domain.ArticleStatusPublished {
			counts[a.Category]++
		}
	}
	out := make([]domain.CategoryCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, domain.CategoryCount{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}
