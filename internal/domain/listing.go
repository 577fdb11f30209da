package domain

import "time"

// ListingType classifies marketplace listings.
type ListingType string

const (
	ListingTypeProduct ListingType = "Product"
	ListingTypeService ListingType = "Service"
	ListingTypeEvent   ListingType = "Event"
)

// DefaultListingCurrency is applied when a listing omits its currency.
const DefaultListingCurrency = "KSH"

// Valid reports whether t is a known listing type.
func (t ListingType) Valid() bool {
	switch t {
	case ListingTypeProduct, ListingTypeService, ListingTypeEvent:
		return true
	}
	return false
}

// Listing is a marketplace item offered by a user. Price is kept as the
// free-form string the owner entered.
type Listing struct {
	ID          string
	OwnerID     string
	Title       string
	Description string
	Price       string
	Currency    string
	Type        ListingType
	Contact     string
	CountryCode string
	Image       string
	Date        *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
