package models

import (
	"time"

	"gorm.io/gorm"
)

// Event is a seasonal promotion. Its banner is shown on the home feed while
// the current time falls inside the active window.
type Event struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string    `json:"name" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	Slug        string    `json:"slug" gorm:"uniqueIndex;type:varchar(100)" validate:"required,lowercase"`
	Image       string    `json:"image" validate:"required"`
	Description string    `json:"description" validate:"required,max=2000"`
	ButtonText  string    `json:"button_text" gorm:"default:Shop Now"`
	TargetURL   string    `json:"target_url" gorm:"default:/shop"`
	StartsAt    time.Time `json:"starts_at" validate:"required"`
	EndsAt      time.Time `json:"ends_at" validate:"required,gtfield=StartsAt"`
	gorm.Model
}

// Active reports whether the event window covers the given instant.
func (e *Event) Active(now time.Time) bool {
	return !now.Before(e.StartsAt) && !now.After(e.EndsAt)
}
