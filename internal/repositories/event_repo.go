package repositories

import (
	"time"

	"github.com/meggysis/ejs-eventify/internal/models"
)

// EventRepository defines the interface for seasonal event data access.
type EventRepository interface {
	GetBySlug(slug string) (*models.Event, error)
	GetActive(now time.Time) ([]models.Event, error)
	Create(event *models.Event) error
}
