package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/godlywomen/community-api/internal/domain"
	"github.com/godlywomen/community-api/internal/events"
	"github.com/godlywomen/community-api/internal/repository"
	apperrors "github.com/godlywomen/community-api/pkg/util"
)

// ListingService manages marketplace listings.
type ListingService struct {
	listings repository.ListingRepository
	events   publisher
}

// ListingDependencies bundles collaborators for the listing service.
type ListingDependencies struct {
	ListingRepo repository.ListingRepository
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// ListingInput describes a new listing.
type ListingInput struct {
	Title       string
	Description string
	Price       string
	Currency    string
	Type        domain.ListingType
	Contact     string
	CountryCode string
	Image       string
	Date        *time.Time
}

// ListingUpdate carries optional listing changes.
type ListingUpdate struct {
	Title       *string
	Description *string
	Price       *string
	Currency    *string
	Type        *domain.ListingType
	Contact     *string
	CountryCode *string
	Image       *string
	Date        *time.Time
}

// ListingQuery filters the marketplace listing.
type ListingQuery struct {
	Type    domain.ListingType
	Search  string
	OwnerID string
	Page    PageRequest
}

// NewListingService constructs the service.
func NewListingService(deps ListingDependencies) *ListingService {
	return &ListingService{
		listings: deps.ListingRepo,
		events:   newPublisher(deps.Dispatcher, deps.Logger),
	}
}

// Create stores a listing owned by ownerID.
func (s *ListingService) Create(ctx context.Context, ownerID string, input ListingInput) (*domain.Listing, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("title required", map[string]any{"title": "required"})
	}
	listingType := input.Type
	if listingType == "" {
		listingType = domain.ListingTypeProduct
	}
	if !listingType.Valid() {
		return nil, invalidListingType(listingType)
	}
	currency := strings.TrimSpace(input.Currency)
	if currency == "" {
		currency = domain.DefaultListingCurrency
	}

	listing := &domain.Listing{
		OwnerID:     ownerID,
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Price:       strings.TrimSpace(input.Price),
		Currency:    currency,
		Type:        listingType,
		Contact:     strings.TrimSpace(input.Contact),
		CountryCode: strings.TrimSpace(input.CountryCode),
		Image:       input.Image,
		Date:        input.Date,
	}
	if err := s.listings.Create(ctx, listing); err != nil {
		return nil, mapRepoError(err, "listing")
	}
	s.events.publish(ctx, events.NewEvent(events.EventContentCreated, ownerID, events.ResourceListing, listing.ID))
	return listing, nil
}

// Get loads a listing.
func (s *ListingService) Get(ctx context.Context, id string) (*domain.Listing, error) {
	listing, err := s.listings.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "listing")
	}
	return listing, nil
}

// List returns one page of listings, newest first.
func (s *ListingService) List(ctx context.Context, query ListingQuery) (Paged[domain.Listing], error) {
	if query.Type != "" && !query.Type.Valid() {
		return Paged[domain.Listing]{}, invalidListingType(query.Type)
	}
	page := query.Page.Normalize()
	filter := repository.ListingFilter{
		Type:    query.Type,
		Search:  query.Search,
		OwnerID: query.OwnerID,
		Limit:   page.Limit,
		Offset:  page.Offset(),
	}
	items, err := s.listings.List(ctx, filter)
	if err != nil {
		return Paged[domain.Listing]{}, err
	}
	total, err := s.listings.Count(ctx, filter)
	if err != nil {
		return Paged[domain.Listing]{}, err
	}
	return newPaged(items, page, total), nil
}

// Update applies changes to a listing owned by callerID.
func (s *ListingService) Update(ctx context.Context, callerID, id string, update ListingUpdate) (*domain.Listing, error) {
	listing, err := s.listings.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "listing")
	}
	if err := requireOwner(listing.OwnerID, callerID, "listing"); err != nil {
		return nil, err
	}

	if update.Title != nil {
		title := strings.TrimSpace(*update.Title)
		if title == "" {
			return nil, apperrors.NewValidationError("title must not be empty", map[string]any{"title": "required"})
		}
		listing.Title = title
	}
	if update.Type != nil {
		if !update.Type.Valid() {
			return nil, invalidListingType(*update.Type)
		}
		listing.Type = *update.Type
	}
	if update.Currency != nil {
		listing.Currency = strings.TrimSpace(*update.Currency)
		if listing.Currency == "" {
			listing.Currency = domain.DefaultListingCurrency
		}
	}
	setString(&listing.Description, update.Description)
	setString(&listing.Price, update.Price)
	setString(&listing.Contact, update.Contact)
	setString(&listing.CountryCode, update.CountryCode)
	setString(&listing.Image, update.Image)
	if update.Date != nil {
		listing.Date = update.Date
	}

	if err := s.listings.Update(ctx, listing); err != nil {
		return nil, mapRepoError(err, "listing")
	}
	return listing, nil
}

// Delete removes a listing owned by callerID.
func (s *ListingService) Delete(ctx context.Context, callerID, id string) error {
	listing, err := s.listings.GetByID(ctx, id)
	if err != nil {
		return mapRepoError(err, "listing")
	}
	if err := requireOwner(listing.OwnerID, callerID, "listing"); err != nil {
		return err
	}
	if err := s.listings.Delete(ctx, id); err != nil {
		return mapRepoError(err, "listing")
	}
	s.events.publish(ctx, events.NewEvent(events.EventContentDeleted, callerID, events.ResourceListing, id))
	return nil
}

func invalidListingType(t domain.ListingType) error {
	return apperrors.NewValidationError("invalid listing type", map[string]any{
		"type":    string(t),
		"allowed": []string{string(domain.ListingTypeProduct), string(domain.ListingTypeService), string(domain.ListingTypeEvent)},
	})
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}
