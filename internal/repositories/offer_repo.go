package repositories

import (
	"github.com/meggysis/ejs-eventify/internal/models"
)

// OfferRepository defines the interface for offer/message data access.
type OfferRepository interface {
	Create(offer *models.Offer) error
	GetByListing(listingID string) ([]models.Offer, error)
}
