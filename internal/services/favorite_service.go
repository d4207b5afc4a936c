package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/meggysis/ejs-eventify/internal/models"
	"github.com/meggysis/ejs-eventify/internal/repositories"
)

// ErrAlreadyFavorite is returned when a listing is already in the user's
// favorites.
var ErrAlreadyFavorite = errors.New("listing is already in your favorites")

// FavoriteFilter narrows and orders a favorites view.
type FavoriteFilter struct {
	Search      string
	Categories  []string
	PriceBucket string // under25, 25-50, 50-75, 100+, all
	MinPrice    float64
	MaxPrice    float64
	Sort        string // price-asc, price-desc, date-newest, date-oldest
}

// FavoriteService handles saved listings.
type FavoriteService struct {
	favoriteRepo repositories.FavoriteRepository
	listingRepo  repositories.ListingRepository
}

// NewFavoriteService creates a new FavoriteService.
func NewFavoriteService(favoriteRepo repositories.FavoriteRepository, listingRepo repositories.ListingRepository) *FavoriteService {
	return &FavoriteService{
		favoriteRepo: favoriteRepo,
		listingRepo:  listingRepo,
	}
}

// AddFavorite saves a listing to the user's favorites.
func (s *FavoriteService) AddFavorite(userID, listingID string) error {
	if _, err := s.listingRepo.GetByID(listingID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return &NotFoundError{Resource: "listing", ID: listingID}
		}
		return fmt.Errorf("failed to load listing: %w", err)
	}

	exists, err := s.favoriteRepo.Exists(userID, listingID)
	if err != nil {
		return fmt.Errorf("failed to check favorites: %w", err)
	}
	if exists {
		return ErrAlreadyFavorite
	}

	if err := s.favoriteRepo.Add(userID, listingID); err != nil {
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return nil
}

// RemoveFavorite removes a listing from the user's favorites.
func (s *FavoriteService) RemoveFavorite(userID, listingID string) error {
	if err := s.favoriteRepo.Remove(userID, listingID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return &NotFoundError{Resource: "favorite", ID: listingID}
		}
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	return nil
}

// ListFavorites returns the user's saved listings, filtered and sorted.
// Listings that no longer exist are skipped.
func (s *FavoriteService) ListFavorites(userID string, filter FavoriteFilter) ([]models.Listing, error) {
	ids, err := s.favoriteRepo.ListingIDs(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load favorites: %w", err)
	}

	listings := make([]models.Listing, 0, len(ids))
	for _, id := range ids {
		listing, err := s.listingRepo.GetByID(id)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("failed to load listing %s: %w", id, err)
		}
		if matchesFilter(listing, filter) {
			listings = append(listings, *listing)
		}
	}

	sortListings(listings, filter.Sort)
	return listings, nil
}

func matchesFilter(listing *models.Listing, filter FavoriteFilter) bool {
	if filter.Search != "" {
		needle := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(listing.Title), needle) &&
			!strings.Contains(strings.ToLower(listing.Category), needle) &&
			!strings.Contains(strings.ToLower(listing.Description), needle) {
			return false
		}
	}

	if len(filter.Categories) > 0 {
		found := false
		for _, c := range filter.Categories {
			if strings.EqualFold(listing.Category, c) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	switch filter.PriceBucket {
	case "under25":
		if listing.Price >= 25 {
			return false
		}
	case "25-50":
		if listing.Price < 25 || listing.Price > 50 {
			return false
		}
	case "50-75":
		if listing.Price < 50 || listing.Price > 75 {
			return false
		}
	case "100+":
		if listing.Price <= 100 {
			return false
		}
	}

	if filter.MinPrice > 0 || filter.MaxPrice > 0 {
		if filter.MaxPrice > 0 && (listing.Price < filter.MinPrice || listing.Price > filter.MaxPrice) {
			return false
		}
		if filter.MaxPrice == 0 && listing.Price < filter.MinPrice {
			return false
		}
	}
	return true
}

func sortListings(listings []models.Listing, order string) {
	switch order {
	case "price-asc":
		sort.SliceStable(listings, func(i, j int) bool { return listings[i].Price < listings[j].Price })
	case "price-desc":
		sort.SliceStable(listings, func(i, j int) bool { return listings[i].Price > listings[j].Price })
	case "date-newest":
		sort.SliceStable(listings, func(i, j int) bool { return listings[i].CreatedAt.After(listings[j].CreatedAt) })
	case "date-oldest":
		sort.SliceStable(listings, func(i, j int) bool { return listings[i].CreatedAt.Before(listings[j].CreatedAt) })
	}
}
