package memory

import (
	"context"

	"github.com/godlywomen/community-api/internal/domain"
	"github.com/godlywomen/community-api/internal/repository"
)

type commentRepo struct{ s *Store }

func (r *commentRepo) Create(_ context.Context, comment *domain.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.articles[comment.ArticleID]; !ok {
		return repository.ErrNotFound
	}
	if comment.ParentID != nil {
		if _, ok := r.s.comments[*comment.ParentID]; !ok {
			return repository.ErrNotFound
		}
	}
	now := r.s.now()
	comment.ID = r.s.newID()
	comment.CreatedAt, comment.UpdatedAt = now, now
	stored := *comment
	r.s.comments[comment.ID] = &stored
	return nil
}

func (r *commentRepo) GetByID(_ context.Context, id string) (*domain.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	comment, ok := r.s.comments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.copyOf(comment), nil
}

func (r *commentRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.comments[id]; !ok {
		return repository.ErrNotFound
	}
	r.deleteTree(id)
	return nil
}

func (r *commentRepo) deleteTree(id string) {
	r.s.dropComment(id)
	for cid, c := range r.s.comments {
		if c.ParentID != nil && *c.ParentID == id {
			r.deleteTree(cid)
		}
	}
}

func (r *commentRepo) ListTopLevel(_ context.Context, articleID string, limit, offset int) ([]domain.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return window(r.topLevel(articleID), limit, offset), nil
}

func (r *commentRepo) CountTopLevel(_ context.Context, articleID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.topLevel(articleID)), nil
}

func (r *commentRepo) ListReplies(_ context.Context, parentID string) ([]domain.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	ids := []string{}
	for id, c := range r.s.comments {
		if c.ParentID != nil && *c.ParentID == parentID {
			ids = append(ids, id)
		}
	}
	r.s.newestFirst(ids)
	out := make([]domain.Comment, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		out = append(out, *r.copyOf(r.s.comments[ids[i]]))
	}
	return out, nil
}

func (r *commentRepo) topLevel(articleID string) []domain.Comment {
	ids := []string{}
	for id, c := range r.s.comments {
		if c.ArticleID == articleID && c.ParentID == nil {
			ids = append(ids, id)
		}
	}
	r.s.newestFirst(ids)
	out := make([]domain.Comment, 0, len(ids))
	for _, id := range ids {
		out = append(out, *r.copyOf(r.s.comments[id]))
	}
	return out
}

func (r *commentRepo) ToggleLike(_ context.Context, commentID, userID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.comments[commentID]; !ok {
		return false, repository.ErrNotFound
	}
	key := pair{commentID, userID}
	if _, liked := r.s.commentLikes[key]; liked {
		delete(r.s.commentLikes, key)
		return false, nil
	}
	r.s.commentLikes[key] = struct{}{}
	return true, nil
}

func (r *commentRepo) CountLikes(_ context.Context, commentID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return likes(r.s.commentLikes, commentID), nil
}

// copyOf must be called with a lock held.
func (r *commentRepo) copyOf(c *domain.Comment) *domain.Comment {
	out := *c
	out.LikeCount = likes(r.s.commentLikes, c.ID)
	return &out
}
