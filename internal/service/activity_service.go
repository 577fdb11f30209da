package service

import (
	"context"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/godlywomen/community-api/internal/cache"
	"github.com/godlywomen/community-api/internal/domain"
	"github.com/godlywomen/community-api/internal/repository"
)

// ActivityService computes per-user stats and the recent activity feed.
type ActivityService struct {
	users    repository.UserRepository
	articles repository.ArticleRepository
	prayers  repository.PrayerRepository
	listings repository.ListingRepository
	cache    cache.StatsCache
	logger   *zap.Logger
	now      func() time.Time
}

// ActivityDependencies bundles collaborators for the activity service.
type ActivityDependencies struct {
	UserRepo    repository.UserRepository
	ArticleRepo repository.ArticleRepository
	PrayerRepo  repository.PrayerRepository
	ListingRepo repository.ListingRepository
	StatsCache  cache.StatsCache
	Logger      *zap.Logger
	Clock       func() time.Time
}

// NewActivityService constructs the service.
func NewActivityService(deps ActivityDependencies) *ActivityService {
	statsCache := deps.StatsCache
	if statsCache == nil {
		statsCache = cache.NoopStatsCache{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &ActivityService{
		users:    deps.UserRepo,
		articles: deps.ArticleRepo,
		prayers:  deps.PrayerRepo,
		listings: deps.ListingRepo,
		cache:    statsCache,
		logger:   logger,
		now:      clock,
	}
}

// Stats returns the user's counters, served from cache when fresh. Viewers
// other than the user get counts without drafts, private prayers or
// anonymous prayers, matching what Activity shows them.
func (s *ActivityService) Stats(ctx context.Context, userID, viewerID string) (*domain.UserStats, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, mapRepoError(err, "user")
	}
	scope := cache.ScopePublic
	if userID == viewerID {
		scope = cache.ScopeOwner
	}

	cached, ok, err := s.cache.Get(ctx, userID, scope)
	if err != nil {
		s.logger.Warn("stats cache read failed", zap.String("user_id", userID), zap.Error(err))
	} else if ok {
		return cached, nil
	}

	stats, err := s.computeStats(ctx, user, scope)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, userID, scope, *stats); err != nil {
		s.logger.Warn("stats cache write failed", zap.String("user_id", userID), zap.Error(err))
	}
	return stats, nil
}

func (s *ActivityService) computeStats(ctx context.Context, user *domain.User, scope cache.Scope) (*domain.UserStats, error) {
	public := scope == cache.ScopePublic
	articleFilter := repository.ArticleFilter{AuthorID: user.ID}
	if public {
		articleFilter.Status = domain.ArticleStatusPublished
	}

	read, err := s.articles.CountViewsByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	written, err := s.articles.Count(ctx, articleFilter)
	if err != nil {
		return nil, err
	}
	prayers, err := s.prayers.Count(ctx, repository.PrayerFilter{AuthorID: user.ID, PublicOnly: public, NamedOnly: public})
	if err != nil {
		return nil, err
	}
	listings, err := s.listings.Count(ctx, repository.ListingFilter{OwnerID: user.ID})
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	return &domain.UserStats{
		ArticlesRead:    read,
		ArticlesWritten: written,
		PrayersPosted:   prayers,
		ListingsPosted:  listings,
		DaysActive:      daysActive(user.CreatedAt, now),
		ComputedAt:      now,
	}, nil
}

// Activity merges the user's most recent articles, prayers and listings,
// newest first. Viewers other than the user do not see drafts, private
// prayers or anonymous prayers.
func (s *ActivityService) Activity(ctx context.Context, userID, viewerID string, limit int) ([]domain.ActivityItem, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, mapRepoError(err, "user")
	}
	limit = PageRequest{Page: 1, Limit: limit}.Normalize().Limit
	self := userID == viewerID

	articleFilter := repository.ArticleFilter{AuthorID: userID, Limit: limit}
	if !self {
		articleFilter.Status = domain.ArticleStatusPublished
	}
	articles, err := s.articles.List(ctx, articleFilter)
	if err != nil {
		return nil, err
	}
	prayers, err := s.prayers.List(ctx, repository.PrayerFilter{AuthorID: userID, PublicOnly: !self, Limit: limit})
	if err != nil {
		return nil, err
	}
	listings, err := s.listings.List(ctx, repository.ListingFilter{OwnerID: userID, Limit: limit})
	if err != nil {
		return nil, err
	}

	items := make([]domain.ActivityItem, 0, len(articles)+len(prayers)+len(listings))
	for _, a := range articles {
		items = append(items, domain.ActivityItem{Kind: domain.ActivityArticle, ResourceID: a.ID, Title: a.Title, CreatedAt: a.CreatedAt})
	}
	for _, p := range prayers {
		if p.IsAnonymous && !self {
			continue
		}
		items = append(items, domain.ActivityItem{Kind: domain.ActivityPrayer, ResourceID: p.ID, Title: p.Title, CreatedAt: p.CreatedAt})
	}
	for _, l := range listings {
		items = append(items, domain.ActivityItem{Kind: domain.ActivityListing, ResourceID: l.ID, Title: l.Title, CreatedAt: l.CreatedAt})
	}

	slices.SortStableFunc(items, func(a, b domain.ActivityItem) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// daysActive counts calendar days since joining, including the first day.
func daysActive(joined, now time.Time) int {
	if joined.IsZero() || now.Before(joined) {
		return 1
	}
	return int(now.Sub(joined).Hours()/24) + 1
}
