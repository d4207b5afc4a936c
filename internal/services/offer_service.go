package services

import (
	"errors"
	"fmt"

	"github.com/meggysis/ejs-eventify/internal/models"
	"github.com/meggysis/ejs-eventify/internal/repositories"
)

// OfferService handles offers sent on listings.
type OfferService struct {
	offerRepo   repositories.OfferRepository
	listingRepo repositories.ListingRepository
}

// NewOfferService creates a new OfferService.
func NewOfferService(offerRepo repositories.OfferRepository, listingRepo repositories.ListingRepository) *OfferService {
	return &OfferService{
		offerRepo:   offerRepo,
		listingRepo: listingRepo,
	}
}

// SendOffer records an offer from a user on a listing.
func (s *OfferService) SendOffer(senderID, listingID, message string) (*models.Offer, error) {
	if _, err := s.listingRepo.GetByID(listingID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, &NotFoundError{Resource: "listing", ID: listingID}
		}
		return nil, fmt.Errorf("failed to load listing: %w", err)
	}

	offer := &models.Offer{
		ListingID: listingID,
		SenderID:  senderID,
		Message:   message,
	}
	if err := s.offerRepo.Create(offer); err != nil {
		return nil, fmt.Errorf("failed to send offer: %w", err)
	}
	return offer, nil
}

// ListOffers returns the offers received on a listing. Only the listing's
// owner may read them.
func (s *OfferService) ListOffers(userID, listingID string) ([]models.Offer, error) {
	listing, err := s.listingRepo.GetByID(listingID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, &NotFoundError{Resource: "listing", ID: listingID}
		}
		return nil, fmt.Errorf("failed to load listing: %w", err)
	}
	if listing.OwnerID != userID {
		return nil, &ForbiddenError{Resource: "listing", ID: listingID}
	}

	return s.offerRepo.GetByListing(listingID)
}
