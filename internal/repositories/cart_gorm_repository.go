package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/meggysis/ejs-eventify/internal/models"
)

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{
		db: db,
	}
}

// Get retrieves a single cart line.
func (r *GORMCartRepository) Get(userID, listingID string) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.First(&item, "user_id = ? AND listing_id = ?", userID, listingID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cart item for listing %s: %w", listingID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get cart item for listing %s: %w", listingID, err)
	}
	return &item, nil
}

// GetAll retrieves all cart lines for a user, oldest first.
func (r *GORMCartRepository) GetAll(userID string) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.db.Where("user_id = ?", userID).Order("created_at ASC").Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get cart for user %s: %w", userID, err)
	}
	return items, nil
}

// AddQuantity upserts a cart line: insert with the given quantity, or add to
// the existing line's quantity on conflict. The increment happens inside the
// ON CONFLICT clause, so concurrent double-submissions cannot lose an update.
func (r *GORMCartRepository) AddQuantity(userID, listingID string, qty int) error {
	item := models.CartItem{
		UserID:    userID,
		ListingID: listingID,
		Quantity:  qty,
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "listing_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity": gorm.Expr("cart_items.quantity + ?", qty),
		}),
	}).Create(&item).Error
	if err != nil {
		return fmt.Errorf("failed to add cart item for listing %s: %w", listingID, err)
	}
	return nil
}

// SetQuantity sets the quantity of an existing cart line.
func (r *GORMCartRepository) SetQuantity(userID, listingID string, qty int) error {
	res := r.db.Model(&models.CartItem{}).
		Where("user_id = ? AND listing_id = ?", userID, listingID).
		Update("quantity", qty)
	if res.Error != nil {
		return fmt.Errorf("failed to update cart item for listing %s: %w", listingID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart item for listing %s: %w", listingID, ErrNotFound)
	}
	return nil
}

// Delete removes a cart line.
func (r *GORMCartRepository) Delete(userID, listingID string) error {
	res := r.db.Delete(&models.CartItem{}, "user_id = ? AND listing_id = ?", userID, listingID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete cart item for listing %s: %w", listingID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart item for listing %s: %w", listingID, ErrNotFound)
	}
	return nil
}

// TotalCount returns the sum of all line quantities in the user's cart, for
// the cart badge.
func (r *GORMCartRepository) TotalCount(userID string) (int, error) {
	var total int64
	err := r.db.Model(&models.CartItem{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count cart items for user %s: %w", userID, err)
	}
	return int(total), nil
}
