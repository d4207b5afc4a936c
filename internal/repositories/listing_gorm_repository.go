package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/meggysis/ejs-eventify/internal/models"
)

const defaultPageSize = 24

// GORMListingRepository is a GORM implementation of ListingRepository.
type GORMListingRepository struct {
	db *gorm.DB
}

// NewGORMListingRepository creates a new instance of GORMListingRepository.
func NewGORMListingRepository(db *gorm.DB) *GORMListingRepository {
	return &GORMListingRepository{
		db: db,
	}
}

// GetAll retrieves a page of listings matching the query, plus the total
// number of matches for pagination.
func (r *GORMListingRepository) GetAll(query ListingQuery) ([]models.Listing, int64, error) {
	tx := r.db.Model(&models.Listing{})

	if query.PublishedOnly {
		tx = tx.Where("is_draft = ?", false)
	}
	if query.Category != "" && query.Category != "all" {
		tx = tx.Where("category = ?", query.Category)
	}
	if query.EventID != "" {
		tx = tx.Where("event_id = ?", query.EventID)
	}
	if query.Search != "" {
		pattern := "%" + query.Search + "%"
		tx = tx.Where("title LIKE ? OR description LIKE ?", pattern, pattern)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count listings: %w", err)
	}

	limit := query.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	page := query.Page
	if page <= 0 {
		page = 1
	}

	var listings []models.Listing
	err := tx.Order("updated_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&listings).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get listings: %w", err)
	}
	return listings, total, nil
}

// GetByID retrieves a single listing by its ID.
func (r *GORMListingRepository) GetByID(id string) (*models.Listing, error) {
	var listing models.Listing
	if err := r.db.First(&listing, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("listing with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get listing by ID %s: %w", id, err)
	}
	return &listing, nil
}

// GetByOwner retrieves the listings published by a user, newest first.
// Drafts are only included when includeDrafts is set.
func (r *GORMListingRepository) GetByOwner(ownerID string, includeDrafts bool) ([]models.Listing, error) {
	tx := r.db.Where("owner_id = ?", ownerID)
	if !includeDrafts {
		tx = tx.Where("is_draft = ?", false)
	}

	var listings []models.Listing
	if err := tx.Order("updated_at DESC").Find(&listings).Error; err != nil {
		return nil, fmt.Errorf("failed to get listings for owner %s: %w", ownerID, err)
	}
	return listings, nil
}

// Create creates a new listing.
func (r *GORMListingRepository) Create(listing *models.Listing) error {
	if listing.ID == "" {
		listing.ID = uuid.New().String()
	}
	if err := r.db.Create(listing).Error; err != nil {
		return fmt.Errorf("failed to create listing: %w", err)
	}
	return nil
}

// Update updates an existing listing.
func (r *GORMListingRepository) Update(listing *models.Listing) error {
	res := r.db.Save(listing) // Save updates all fields, including zero values
	if res.Error != nil {
		return fmt.Errorf("failed to update listing: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("listing with ID %s for update: %w", listing.ID, ErrNotFound)
	}
	return nil
}

// Delete deletes a listing by its ID.
func (r *GORMListingRepository) Delete(id string) error {
	res := r.db.Delete(&models.Listing{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete listing: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("listing with ID %s for deletion: %w", id, ErrNotFound)
	}
	return nil
}

// DecrementStock atomically subtracts qty from the listing's available
// quantity, but only when enough stock remains. The quantity guard lives in
// the WHERE clause so two concurrent decrements can never both pass a stale
// availability check. Returns false when stock was insufficient.
func (r *GORMListingRepository) DecrementStock(id string, qty int) (bool, error) {
	res := r.db.Model(&models.Listing{}).
		Where("id = ? AND quantity >= ?", id, qty).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", qty))
	if res.Error != nil {
		return false, fmt.Errorf("failed to decrement stock for listing %s: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// IncrementStock atomically returns qty units to the listing's available
// quantity. Used when a cart line shrinks or is removed, and as the
// compensating action when a cart write fails after a decrement.
func (r *GORMListingRepository) IncrementStock(id string, qty int) error {
	res := r.db.Model(&models.Listing{}).
		Where("id = ?", id).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", qty))
	if res.Error != nil {
		return fmt.Errorf("failed to increment stock for listing %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("listing with ID %s for stock restore: %w", id, ErrNotFound)
	}
	return nil
}
