package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/meggysis/ejs-eventify/internal/models"
)

// GORMOfferRepository is a GORM implementation of OfferRepository.
type GORMOfferRepository struct {
	db *gorm.DB
}

// NewGORMOfferRepository creates a new instance of GORMOfferRepository.
func NewGORMOfferRepository(db *gorm.DB) *GORMOfferRepository {
	return &GORMOfferRepository{
		db: db,
	}
}

// Create saves a new offer.
func (r *GORMOfferRepository) Create(offer *models.Offer) error {
	if offer.ID == "" {
		offer.ID = uuid.New().String()
	}
	if err := r.db.Create(offer).Error; err != nil {
		return fmt.Errorf("failed to create offer: %w", err)
	}
	return nil
}

// GetByListing retrieves all offers sent for a listing, newest first.
func (r *GORMOfferRepository) GetByListing(listingID string) ([]models.Offer, error) {
	var offers []models.Offer
	err := r.db.Where("listing_id = ?", listingID).Order("created_at DESC").Find(&offers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get offers for listing %s: %w", listingID, err)
	}
	return offers, nil
}
