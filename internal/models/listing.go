package models

import "gorm.io/gorm"

// Listing represents a sellable item published by a user. Quantity is the
// currently available stock: units reserved in carts are already subtracted.
type Listing struct {
	ID          string  `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	OwnerID     string  `json:"owner_id" gorm:"index;type:varchar(36)" validate:"required"`
	Title       string  `json:"title" validate:"required,min=3,max=100"`
	Description string  `json:"description" validate:"required,max=2000"`
	Price       float64 `json:"price" validate:"required,gte=0"`
	Quantity    int     `json:"quantity" validate:"gte=0"`
	Category    string  `json:"category" gorm:"index;type:varchar(50)" validate:"omitempty,max=50"`
	Location    string  `json:"location" validate:"omitempty,max=100"`
	Color       string  `json:"color" gorm:"default:N/A"`
	Condition   string  `json:"condition" validate:"omitempty,max=50"`
	Delivery    string  `json:"delivery" gorm:"default:pickup" validate:"omitempty,oneof=pickup shipping both"`
	Handmade    string  `json:"handmade" gorm:"default:no" validate:"omitempty,oneof=yes no"`
	Photos      Photos  `json:"photos" gorm:"type:text;serializer:json"`
	IsDraft     bool    `json:"is_draft"`
	EventID     string  `json:"event_id,omitempty" gorm:"index;type:varchar(36)"`
	gorm.Model          // CreatedAt, UpdatedAt, DeletedAt
}

// Photos is the ordered sequence of uploaded image paths for a listing.
type Photos []string
