package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/godlywomen/community-api/internal/domain"
	"github.com/godlywomen/community-api/internal/events"
	"github.com/godlywomen/community-api/internal/repository"
	apperrors "github.com/godlywomen/community-api/pkg/util"
)

// PrayerService manages prayers, support toggles and responses.
type PrayerService struct {
	prayers   repository.PrayerRepository
	responses repository.PrayerResponseRepository
	events    publisher
}

// PrayerDependencies bundles collaborators for the prayer service.
type PrayerDependencies struct {
	PrayerRepo   repository.PrayerRepository
	ResponseRepo repository.PrayerResponseRepository
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// PrayerInput describes a new prayer. IsPublic defaults to true when nil.
type PrayerInput struct {
	Title       string
	Content     string
	Type        domain.PrayerType
	IsAnonymous bool
	IsPublic    *bool
}

// PrayerUpdate carries optional prayer changes.
type PrayerUpdate struct {
	Title       *string
	Content     *string
	Type        *domain.PrayerType
	IsAnonymous *bool
	IsPublic    *bool
}

// PrayerQuery filters the public prayer wall.
type PrayerQuery struct {
	Type     domain.PrayerType
	Search   string
	AuthorID string
	Page     PageRequest
}

// PrayerDetail is a prayer with its counters.
type PrayerDetail struct {
	Prayer        domain.Prayer
	SupportCount  int
	ResponseCount int
}

// NewPrayerService constructs the service.
func NewPrayerService(deps PrayerDependencies) *PrayerService {
	return &PrayerService{
		prayers:   deps.PrayerRepo,
		responses: deps.ResponseRepo,
		events:    newPublisher(deps.Dispatcher, deps.Logger),
	}
}

// Create stores a prayer authored by authorID.
func (s *PrayerService) Create(ctx context.Context, authorID string, input PrayerInput) (*domain.Prayer, error) {
	title := strings.TrimSpace(input.Title)
	content := strings.TrimSpace(input.Content)
	details := map[string]any{}
	if title == "" {
		details["title"] = "required"
	}
	if content == "" {
		details["content"] = "required"
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid prayer", details)
	}

	prayerType := input.Type
	if prayerType == "" {
		prayerType = domain.PrayerTypeRequest
	}
	if !prayerType.Valid() {
		return nil, invalidPrayerType(prayerType)
	}
	public := true
	if input.IsPublic != nil {
		public = *input.IsPublic
	}

	prayer := &domain.Prayer{
		AuthorID:    authorID,
		Title:       title,
		Content:     content,
		Type:        prayerType,
		IsAnonymous: input.IsAnonymous,
		IsPublic:    public,
	}
	if err := s.prayers.Create(ctx, prayer); err != nil {
		return nil, mapRepoError(err, "prayer")
	}
	s.events.publish(ctx, events.NewEvent(events.EventContentCreated, authorID, events.ResourcePrayer, prayer.ID))
	return prayer, nil
}

// Get loads a prayer with its counters. Private prayers are only visible to
// their author.
func (s *PrayerService) Get(ctx context.Context, id, viewerID string) (*PrayerDetail, error) {
	prayer, err := s.visiblePrayer(ctx, id, viewerID)
	if err != nil {
		return nil, err
	}
	supporters, err := s.prayers.CountSupporters(ctx, id)
	if err != nil {
		return nil, err
	}
	responses, err := s.responses.CountByPrayer(ctx, id)
	if err != nil {
		return nil, err
	}
	return &PrayerDetail{Prayer: *prayer, SupportCount: supporters, ResponseCount: responses}, nil
}

// List returns one page of public prayers, newest first.
func (s *PrayerService) List(ctx context.Context, query PrayerQuery) (Paged[domain.Prayer], error) {
	if query.Type != "" && !query.Type.Valid() {
		return Paged[domain.Prayer]{}, invalidPrayerType(query.Type)
	}
	page := query.Page.Normalize()
	filter := repository.PrayerFilter{
		Type:       query.Type,
		Search:     query.Search,
		AuthorID:   query.AuthorID,
		PublicOnly: true,
		Limit:      page.Limit,
		Offset:     page.Offset(),
	}
	items, err := s.prayers.List(ctx, filter)
	if err != nil {
		return Paged[domain.Prayer]{}, err
	}
	total, err := s.prayers.Count(ctx, filter)
	if err != nil {
		return Paged[domain.Prayer]{}, err
	}
	return newPaged(items, page, total), nil
}

// Update applies changes to a prayer authored by callerID.
func (s *PrayerService) Update(ctx context.Context, callerID, id string, update PrayerUpdate) (*domain.Prayer, error) {
	prayer, err := s.prayers.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "prayer")
	}
	if err := requireOwner(prayer.AuthorID, callerID, "prayer"); err != nil {
		return nil, err
	}

	if update.Title != nil {
		title := strings.TrimSpace(*update.Title)
		if title == "" {
			return nil, apperrors.NewValidationError("title must not be empty", map[string]any{"title": "required"})
		}
		prayer.Title = title
	}
	if update.Content != nil {
		content := strings.TrimSpace(*update.Content)
		if content == "" {
			return nil, apperrors.NewValidationError("content must not be empty", map[string]any{"content": "required"})
		}
		prayer.Content = content
	}
	if update.Type != nil {
		if !update.Type.Valid() {
			return nil, invalidPrayerType(*update.Type)
		}
		prayer.Type = *update.Type
	}
	if update.IsAnonymous != nil {
		prayer.IsAnonymous = *update.IsAnonymous
	}
	if update.IsPublic != nil {
		prayer.IsPublic = *update.IsPublic
	}

	if err := s.prayers.Update(ctx, prayer); err != nil {
		return nil, mapRepoError(err, "prayer")
	}
	s.events.publish(ctx, events.NewEvent(events.EventContentUpdated, callerID, events.ResourcePrayer, prayer.ID))
	return prayer, nil
}

// Delete removes a prayer with its supports and responses.
func (s *PrayerService) Delete(ctx context.Context, callerID, id string) error {
	prayer, err := s.prayers.GetByID(ctx, id)
	if err != nil {
		return mapRepoError(err, "prayer")
	}
	if err := requireOwner(prayer.AuthorID, callerID, "prayer"); err != nil {
		return err
	}
	if err := s.prayers.Delete(ctx, id); err != nil {
		return mapRepoError(err, "prayer")
	}
	s.events.publish(ctx, events.NewEvent(events.EventContentDeleted, callerID, events.ResourcePrayer, id))
	return nil
}

// ToggleSupport flips userID's support and returns the new state and count.
func (s *PrayerService) ToggleSupport(ctx context.Context, userID, id string) (bool, int, error) {
	if _, err := s.visiblePrayer(ctx, id, userID); err != nil {
		return false, 0, err
	}
	supported, err := s.prayers.ToggleSupport(ctx, id, userID)
	if err != nil {
		return false, 0, mapRepoError(err, "prayer")
	}
	count, err := s.prayers.CountSupporters(ctx, id)
	if err != nil {
		return false, 0, err
	}
	event := events.NewEvent(events.EventPrayerSupported, userID, events.ResourcePrayer, id)
	event.Payload = events.ToggledPayload{Active: supported, Count: count}
	s.events.publish(ctx, event)
	return supported, count, nil
}

// ListResponses returns one page of responses, newest first.
func (s *PrayerService) ListResponses(ctx context.Context, prayerID, viewerID string, page PageRequest) (Paged[domain.PrayerResponse], error) {
	if _, err := s.visiblePrayer(ctx, prayerID, viewerID); err != nil {
		return Paged[domain.PrayerResponse]{}, err
	}
	page = page.Normalize()
	items, err := s.responses.ListByPrayer(ctx, prayerID, page.Limit, page.Offset())
	if err != nil {
		return Paged[domain.PrayerResponse]{}, err
	}
	total, err := s.responses.CountByPrayer(ctx, prayerID)
	if err != nil {
		return Paged[domain.PrayerResponse]{}, err
	}
	return newPaged(items, page, total), nil
}

// AddResponse posts a response under a prayer.
func (s *PrayerService) AddResponse(ctx context.Context, authorID, prayerID, content string) (*domain.PrayerResponse, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.NewValidationError("content required", map[string]any{"content": "required"})
	}
	if _, err := s.visiblePrayer(ctx, prayerID, authorID); err != nil {
		return nil, err
	}
	response := &domain.PrayerResponse{PrayerID: prayerID, AuthorID: authorID, Content: content}
	if err := s.responses.Create(ctx, response); err != nil {
		return nil, mapRepoError(err, "prayer")
	}
	return response, nil
}

// DeleteResponse removes a response authored by callerID.
func (s *PrayerService) DeleteResponse(ctx context.Context, callerID, responseID string) error {
	response, err := s.responses.GetByID(ctx, responseID)
	if err != nil {
		return mapRepoError(err, "prayer response")
	}
	if err := requireOwner(response.AuthorID, callerID, "response"); err != nil {
		return err
	}
	return mapRepoError(s.responses.Delete(ctx, responseID), "prayer response")
}

func (s *PrayerService) visiblePrayer(ctx context.Context, id, viewerID string) (*domain.Prayer, error) {
	prayer, err := s.prayers.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "prayer")
	}
	if !prayer.IsPublic && prayer.AuthorID != viewerID {
		return nil, apperrors.NewNotFound("prayer", nil)
	}
	return prayer, nil
}

func invalidPrayerType(t domain.PrayerType) error {
	return apperrors.NewValidationError("invalid prayer type", map[string]any{
		"type":    string(t),
		"allowed": []string{string(domain.PrayerTypeRequest), string(domain.PrayerTypePraise), string(domain.PrayerTypeThanksgiving)},
	})
}
