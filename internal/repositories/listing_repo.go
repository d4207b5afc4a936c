package repositories

import (
	"errors"

	"github.com/meggysis/ejs-eventify/internal/models"
)

// ErrNotFound is returned by repositories when a record does not exist.
// Callers should test with errors.Is.
var ErrNotFound = errors.New("record not found")

// ListingQuery describes a filtered, paginated listing browse.
type ListingQuery struct {
	Search        string // matches title or description, case-insensitive
	Category      string // empty or "all" means no category filter
	EventID       string
	PublishedOnly bool
	Page          int // 1-based; 0 means first page
	Limit         int // 0 means the default page size
}

// ListingRepository defines the interface for listing data access.
//
// DecrementStock is the conditional atomic decrement the cart engine relies
// on: it must only apply when the remaining quantity is sufficient, and must
// report whether it applied, so that a stale availability check can never
// oversell.
type ListingRepository interface {
	GetAll(query ListingQuery) ([]models.Listing, int64, error)
	GetByID(id string) (*models.Listing, error)
	GetByOwner(ownerID string, includeDrafts bool) ([]models.Listing, error)
	Create(listing *models.Listing) error
	Update(listing *models.Listing) error
	Delete(id string) error
	DecrementStock(id string, qty int) (bool, error)
	IncrementStock(id string, qty int) error
}
