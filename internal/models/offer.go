package models

import "gorm.io/gorm"

// Offer is a message a buyer sends to a listing's owner.
type Offer struct {
	ID        string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	ListingID string `json:"listing_id" gorm:"index;type:varchar(36)" validate:"required"`
	SenderID  string `json:"sender_id" gorm:"index;type:varchar(36)" validate:"required"`
	Message   string `json:"message" validate:"required,max=1000"`
	gorm.Model
}
