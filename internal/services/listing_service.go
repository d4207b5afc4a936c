package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/meggysis/ejs-eventify/internal/models"
	"github.com/meggysis/ejs-eventify/internal/repositories"
)

// ListingService handles business logic related to listings.
type ListingService struct {
	repo     repositories.ListingRepository
	mqClient EventPublisher
}

// NewListingService creates a new ListingService.
func NewListingService(repo repositories.ListingRepository, mqClient EventPublisher) *ListingService {
	return &ListingService{
		repo:     repo,
		mqClient: mqClient,
	}
}

// Browse retrieves a page of listings matching the query, plus the total
// match count for pagination.
func (s *ListingService) Browse(query repositories.ListingQuery) ([]models.Listing, int64, error) {
	return s.repo.GetAll(query)
}

// GetListingByID retrieves a single listing by its ID.
func (s *ListingService) GetListingByID(id string) (*models.Listing, error) {
	listing, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, &NotFoundError{Resource: "listing", ID: id}
		}
		return nil, err
	}
	return listing, nil
}

// GetListingsByOwner retrieves a user's listings. Drafts are included only
// when the profile is viewed by its owner.
func (s *ListingService) GetListingsByOwner(ownerID string, includeDrafts bool) ([]models.Listing, error) {
	return s.repo.GetByOwner(ownerID, includeDrafts)
}

// CreateListing creates a new listing and publishes a creation event.
func (s *ListingService) CreateListing(listing *models.Listing) error {
	if listing.Quantity < 0 {
		return &InvalidQuantityError{Quantity: listing.Quantity}
	}
	if listing.Quantity == 0 {
		listing.Quantity = 1
	}
	if listing.Delivery == "" {
		listing.Delivery = "pickup"
	}
	if listing.Color == "" {
		listing.Color = "N/A"
	}
	if listing.Handmade == "" {
		listing.Handmade = "no"
	}

	if err := s.repo.Create(listing); err != nil {
		return fmt.Errorf("failed to create listing: %w", err)
	}

	if s.mqClient != nil && !listing.IsDraft {
		body, err := json.Marshal(map[string]interface{}{
			"listingID": listing.ID,
			"ownerID":   listing.OwnerID,
			"title":     listing.Title,
			"price":     listing.Price,
		})
		if err != nil {
			log.Printf("Failed to marshal listing.created event: %v", err)
		} else if err := s.mqClient.Publish("listing.created", body); err != nil {
			log.Printf("Warning: failed to publish listing.created event for listing %s: %v", listing.ID, err)
		}
	}
	return nil
}

// UpdateListing applies the given changes to an existing listing. Only the
// owner may update. When the update replaces the photo set, the previous
// photo paths are returned so the caller can delete the files.
func (s *ListingService) UpdateListing(userID string, updated *models.Listing) ([]string, error) {
	existing, err := s.GetListingByID(updated.ID)
	if err != nil {
		return nil, err
	}
	if existing.OwnerID != userID {
		return nil, &ForbiddenError{Resource: "listing", ID: updated.ID}
	}

	var replacedPhotos []string
	if len(updated.Photos) > 0 {
		replacedPhotos = existing.Photos
	} else {
		updated.Photos = existing.Photos
	}

	// Stock mutations belong to the cart engine; the owner edit sets the new
	// available quantity directly.
	updated.OwnerID = existing.OwnerID
	updated.CreatedAt = existing.CreatedAt

	if err := s.repo.Update(updated); err != nil {
		return nil, fmt.Errorf("failed to update listing: %w", err)
	}
	return replacedPhotos, nil
}

// DeleteListing removes a listing. Only the owner may delete. Returns the
// listing's photo paths so the caller can delete the files. Cart lines that
// still reference the listing are pruned by the cart's self-healing read.
func (s *ListingService) DeleteListing(userID, id string) ([]string, error) {
	existing, err := s.GetListingByID(id)
	if err != nil {
		return nil, err
	}
	if existing.OwnerID != userID {
		return nil, &ForbiddenError{Resource: "listing", ID: id}
	}

	if err := s.repo.Delete(id); err != nil {
		return nil, fmt.Errorf("failed to delete listing: %w", err)
	}
	return existing.Photos, nil
}
