package repositories

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/meggysis/ejs-eventify/internal/models"
)

// GORMFavoriteRepository is a GORM implementation of FavoriteRepository.
type GORMFavoriteRepository struct {
	db *gorm.DB
}

// NewGORMFavoriteRepository creates a new instance of GORMFavoriteRepository.
func NewGORMFavoriteRepository(db *gorm.DB) *GORMFavoriteRepository {
	return &GORMFavoriteRepository{
		db: db,
	}
}

// Add saves a listing to the user's favorites.
func (r *GORMFavoriteRepository) Add(userID, listingID string) error {
	fav := models.Favorite{UserID: userID, ListingID: listingID}
	if err := r.db.Create(&fav).Error; err != nil {
		return fmt.Errorf("failed to add favorite for listing %s: %w", listingID, err)
	}
	return nil
}

// Remove deletes a listing from the user's favorites.
func (r *GORMFavoriteRepository) Remove(userID, listingID string) error {
	res := r.db.Delete(&models.Favorite{}, "user_id = ? AND listing_id = ?", userID, listingID)
	if res.Error != nil {
		return fmt.Errorf("failed to remove favorite for listing %s: %w", listingID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("favorite for listing %s: %w", listingID, ErrNotFound)
	}
	return nil
}

// Exists reports whether the listing is already in the user's favorites.
func (r *GORMFavoriteRepository) Exists(userID, listingID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Favorite{}).
		Where("user_id = ? AND listing_id = ?", userID, listingID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check favorite for listing %s: %w", listingID, err)
	}
	return count > 0, nil
}

// ListingIDs returns the IDs of all listings the user has saved, newest first.
func (r *GORMFavoriteRepository) ListingIDs(userID string) ([]string, error) {
	var ids []string
	err := r.db.Model(&models.Favorite{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Pluck("listing_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites for user %s: %w", userID, err)
	}
	return ids, nil
}
