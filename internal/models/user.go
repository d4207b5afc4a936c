package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a marketplace account.
type User struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name       string `json:"name" gorm:"type:varchar(100)" validate:"required,min=3,max=100"`
	Email      string `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password   string `gorm:"type:varchar(255)" validate:"required,min=6"` // No json tag for security
	gorm.Model        // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// CartItem is a single cart line: one (user, listing) pair with the quantity
// the user has reserved. The composite key enforces merge-on-add semantics.
type CartItem struct {
	UserID    string    `json:"user_id" gorm:"primaryKey;type:varchar(36)"`
	ListingID string    `json:"listing_id" gorm:"primaryKey;type:varchar(36)"`
	Quantity  int       `json:"quantity" validate:"gte=1"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Favorite marks a listing saved by a user. A listing appears at most once
// per user's favorites.
type Favorite struct {
	UserID    string    `json:"user_id" gorm:"primaryKey;type:varchar(36)"`
	ListingID string    `json:"listing_id" gorm:"primaryKey;type:varchar(36)"`
	CreatedAt time.Time `json:"created_at"`
}
