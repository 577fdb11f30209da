// Package memory provides mutex-guarded in-memory implementations of the
// repository interfaces. The service runs on it when no Postgres DSN is
// configured, and tests use it as a fake.
package memory

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/godlywomen/community-api/internal/domain"
	"github.com/godlywomen/community-api/internal/repository"
)

type pair struct {
	a, b string
}

// Store holds every collection behind one lock so cascading deletes stay atomic.
type Store struct {
	mu  sync.RWMutex
	now func() time.Time
	seq int64

	users    map[string]*domain.User
	listings map[string]*domain.Listing
	articles map[string]*domain.Article
	comments map[string]*domain.Comment
	prayers  map[string]*domain.Prayer
	replies  map[string]*domain.PrayerResponse

	order         map[string]int64
	articleLikes  map[pair]struct{}
	articleViews  map[pair]time.Time
	commentLikes  map[pair]struct{}
	prayerSupport map[pair]struct{}

	conversations map[string]*domain.Conversation
	messages      map[string]*domain.Message
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		now:           func() time.Time { return time.Now().UTC() },
		users:         map[string]*domain.User{},
		listings:      map[string]*domain.Listing{},
		articles:      map[string]*domain.Article{},
		comments:      map[string]*domain.Comment{},
		prayers:       map[string]*domain.Prayer{},
		replies:       map[string]*domain.PrayerResponse{},
		order:         map[string]int64{},
		articleLikes:  map[pair]struct{}{},
		articleViews:  map[pair]time.Time{},
		commentLikes:  map[pair]struct{}{},
		prayerSupport: map[pair]struct{}{},
		conversations: map[string]*domain.Conversation{},
		messages:      map[string]*domain.Message{},
	}
}

// SetClock overrides the timestamp source. Intended for tests.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Users returns the user repository view.
func (s *Store) Users() repository.UserRepository { return &userRepo{s} }

// Listings returns the listing repository view.
func (s *Store) Listings() repository.ListingRepository { return &listingRepo{s} }

// Articles returns the article repository view.
func (s *Store) Articles() repository.ArticleRepository { return &articleRepo{s} }

// Comments returns the comment repository view.
func (s *Store) Comments() repository.CommentRepository { return &commentRepo{s} }

// Prayers returns the prayer repository view.
func (s *Store) Prayers() repository.PrayerRepository { return &prayerRepo{s} }

// PrayerResponses returns the prayer response repository view.
func (s *Store) PrayerResponses() repository.PrayerResponseRepository { return &responseRepo{s} }

// Conversations returns the conversation repository view.
func (s *Store) Conversations() repository.ConversationRepository { return &conversationRepo{s} }

// Messages returns the message repository view.
func (s *Store) Messages() repository.MessageRepository { return &messageRepo{s} }

// newID must be called with the write lock held.
func (s *Store) newID() string {
	id := uuid.NewString()
	s.seq++
	s.order[id] = s.seq
	return id
}

// newestFirst sorts ids by insertion order, latest first.
func (s *Store) newestFirst(ids []string) {
	sort.Slice(ids, func(i, j int) bool { return s.order[ids[i]] > s.order[ids[j]] })
}

// dropComment removes one comment and its likes. Caller holds the write lock.
func (s *Store) dropComment(id string) {
	delete(s.comments, id)
	for key := range s.commentLikes {
		if key.a == id {
			delete(s.commentLikes, key)
		}
	}
}

// likes counts pairs whose first element is id. Caller holds a lock.
func likes(set map[pair]struct{}, id string) int {
	total := 0
	for key := range set {
		if key.a == id {
			total++
		}
	}
	return total
}

func window[T any](items []T, limit, offset int) []T {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

func matches(term string, fields ...string) bool {
	if term == "" {
		return true
	}
	needle := strings.ToLower(strings.TrimSpace(term))
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}
