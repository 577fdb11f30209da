package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/godlywomen/community-api/internal/events"
	"github.com/godlywomen/community-api/internal/repository"
	apperrors "github.com/godlywomen/community-api/pkg/util"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// PageRequest is a 1-based page selector.
type PageRequest struct {
	Page  int
	Limit int
}

// Normalize clamps the page to >= 1 and the limit to [1, MaxPageLimit].
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	return p
}

// Offset is the number of rows skipped before this page.
func (p PageRequest) Offset() int {
	p = p.Normalize()
	return (p.Page - 1) * p.Limit
}

// Paged is one page of results plus the total count.
type Paged[T any] struct {
	Items      []T
	Page       int
	Limit      int
	Total      int
	TotalPages int
}

func newPaged[T any](items []T, page PageRequest, total int) Paged[T] {
	page = page.Normalize()
	pages := 0
	if total > 0 {
		pages = (total + page.Limit - 1) / page.Limit
	}
	if items == nil {
		items = []T{}
	}
	return Paged[T]{Items: items, Page: page.Page, Limit: page.Limit, Total: total, TotalPages: pages}
}

// mapRepoError turns repository sentinels into client-facing errors.
func mapRepoError(err error, resource string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NewNotFound(resource, nil)
	case errors.Is(err, repository.ErrDuplicate):
		return apperrors.NewConflict(resource+" already exists", nil)
	}
	return err
}

// requireOwner rejects callers who do not own a resource.
func requireOwner(ownerID, callerID, resource string) error {
	if ownerID != callerID {
		return apperrors.NewForbidden("only the owner may modify this " + resource)
	}
	return nil
}

// publisher fans events out to the dispatcher. Delivery failures never fail
// the request that caused them.
type publisher struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

func newPublisher(dispatcher events.Dispatcher, logger *zap.Logger) publisher {
	if dispatcher == nil {
		dispatcher = events.NopDispatcher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return publisher{dispatcher: dispatcher, logger: logger}
}

func (p publisher) publish(ctx context.Context, event events.Event) {
	if err := p.dispatcher.Publish(ctx, event); err != nil {
		p.logger.Warn("event handler failed",
			zap.String("event", string(event.Type)),
			zap.String("resource_id", event.ResourceID),
			zap.Error(err),
		)
	}
}
