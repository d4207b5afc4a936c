package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/meggysis/ejs-eventify/internal/models"
)

// GORMEventRepository is a GORM implementation of EventRepository.
type GORMEventRepository struct {
	db *gorm.DB
}

// NewGORMEventRepository creates a new instance of GORMEventRepository.
func NewGORMEventRepository(db *gorm.DB) *GORMEventRepository {
	return &GORMEventRepository{
		db: db,
	}
}

// GetBySlug retrieves an event by its URL slug.
func (r *GORMEventRepository) GetBySlug(slug string) (*models.Event, error) {
	var event models.Event
	if err := r.db.First(&event, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("event with slug %s: %w", slug, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get event by slug %s: %w", slug, err)
	}
	return &event, nil
}

// GetActive retrieves events whose active window covers the given instant.
func (r *GORMEventRepository) GetActive(now time.Time) ([]models.Event, error) {
	var events []models.Event
	err := r.db.Where("starts_at <= ? AND ends_at >= ?", now, now).Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get active events: %w", err)
	}
	return events, nil
}

// Create creates a new event.
func (r *GORMEventRepository) Create(event *models.Event) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if err := r.db.Create(event).Error; err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}
