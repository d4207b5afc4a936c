package repositories

import (
	"github.com/meggysis/ejs-eventify/internal/models"
)

// CartRepository defines the interface for cart line data access.
//
// AddQuantity is an upsert-increment: it creates the (user, listing) line
// when absent and adds to its quantity when present, in one storage-level
// operation, so a double-submitted add cannot lose an update.
type CartRepository interface {
	Get(userID, listingID string) (*models.CartItem, error)
	GetAll(userID string) ([]models.CartItem, error)
	AddQuantity(userID, listingID string, qty int) error
	SetQuantity(userID, listingID string, qty int) error
	Delete(userID, listingID string) error
	TotalCount(userID string) (int, error)
}
