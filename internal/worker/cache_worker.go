package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/godlywomen/community-api/internal/cache"
	"github.com/godlywomen/community-api/internal/events"
)

// StartCacheInvalidationWorker drops a user's cached stats whenever an event
// that changes them is published.
func StartCacheInvalidationWorker(dispatcher events.Dispatcher, stats cache.StatsCache, logger *zap.Logger) {
	if dispatcher == nil || stats == nil {
		return
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	handler := func(ctx context.Context, event events.Event) error {
		if event.ActorID == "" {
			return nil
		}
		if err := stats.Invalidate(ctx, event.ActorID); err != nil {
			logger.Warn("stats invalidation failed",
				zap.String("event", string(event.Type)),
				zap.String("user_id", event.ActorID),
				zap.Error(err),
			)
			return err
		}
		logger.Debug("stats invalidated",
			zap.String("event", string(event.Type)),
			zap.String("user_id", event.ActorID),
		)
		return nil
	}

	for _, eventType := range events.AllTypes {
		dispatcher.Subscribe(eventType, handler)
	}
}
