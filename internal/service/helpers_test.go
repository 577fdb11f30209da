package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/godlywomen/community-api/internal/auth"
	"github.com/godlywomen/community-api/internal/config"
	"github.com/godlywomen/community-api/internal/domain"
	"github.com/godlywomen/community-api/internal/events"
	"github.com/godlywomen/community-api/internal/repository/memory"
	apperrors "github.com/godlywomen/community-api/pkg/util"
)

type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func newStepClock() *stepClock {
	return &stepClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}

// Now advances by one second on every call so records get distinct timestamps.
func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

func (c *stepClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordedEvents struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recordedEvents) types() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	store    *memory.Store
	clock    *stepClock
	recorder *recordedEvents
	auth     *AuthService
	listings *ListingService
	articles *ArticleService
	prayers  *PrayerService
	activity *ActivityService
	messages *MessagingService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := newStepClock()
	store := memory.NewStore()
	store.SetClock(clock.Now)

	tokens, err := auth.NewTokenManager("test-secret")
	require.NoError(t, err)

	dispatcher := events.NewInMemoryDispatcher()
	recorder := &recordedEvents{}
	for _, et := range events.AllTypes {
		dispatcher.Subscribe(et, func(_ context.Context, e events.Event) error {
			recorder.mu.Lock()
			defer recorder.mu.Unlock()
			recorder.events = append(recorder.events, e)
			return nil
		})
	}

	return &fixture{
		store:    store,
		clock:    clock,
		recorder: recorder,
		auth: NewAuthService(config.AuthConfig{BcryptCost: bcrypt.MinCost, MinPasswordLength: 6}, AuthDependencies{
			UserRepo:   store.Users(),
			Tokens:     tokens,
			Dispatcher: dispatcher,
		}),
		listings: NewListingService(ListingDependencies{ListingRepo: store.Listings(), Dispatcher: dispatcher}),
		articles: NewArticleService(ArticleDependencies{
			ArticleRepo: store.Articles(),
			CommentRepo: store.Comments(),
			Dispatcher:  dispatcher,
			Clock:       clock.Now,
		}),
		prayers: NewPrayerService(PrayerDependencies{
			PrayerRepo:   store.Prayers(),
			ResponseRepo: store.PrayerResponses(),
			Dispatcher:   dispatcher,
		}),
		activity: NewActivityService(ActivityDependencies{
			UserRepo:    store.Users(),
			ArticleRepo: store.Articles(),
			PrayerRepo:  store.Prayers(),
			ListingRepo: store.Listings(),
			Clock:       clock.Now,
		}),
		messages: NewMessagingService(MessagingDependencies{
			UserRepo:         store.Users(),
			ConversationRepo: store.Conversations(),
			MessageRepo:      store.Messages(),
		}),
	}
}

func (f *fixture) register(t *testing.T, name, email string) *domain.User {
	t.Helper()
	user, _, err := f.auth.Register(context.Background(), RegisterInput{Name: name, Email: email, Password: "secret1"})
	require.NoError(t, err)
	return user
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, code, apperrors.ToDomainError(err).Code)
}
