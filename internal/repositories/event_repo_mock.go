package repositories

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/meggysis/ejs-eventify/internal/models"
)

// MockEventRepository is an in-memory implementation of EventRepository.
type MockEventRepository struct {
	events map[string]models.Event // keyed by slug
	mu     sync.RWMutex
}

// NewMockEventRepository creates a new instance of MockEventRepository.
func NewMockEventRepository() *MockEventRepository {
	return &MockEventRepository{
		events: make(map[string]models.Event),
	}
}

// GetBySlug returns an event by its URL slug.
func (r *MockEventRepository) GetBySlug(slug string) (*models.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	event, ok := r.events[slug]
	if !ok {
		return nil, fmt.Errorf("event with slug %s: %w", slug, ErrNotFound)
	}
	return &event, nil
}

// GetActive returns events whose window covers the given instant.
func (r *MockEventRepository) GetActive(now time.Time) ([]models.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var active []models.Event
	for _, event := range r.events {
		if event.Active(now) {
			active = append(active, event)
		}
	}
	return active, nil
}

// Create adds a new event.
func (r *MockEventRepository) Create(event *models.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if _, ok := r.events[event.Slug]; ok {
		return fmt.Errorf("event with slug %s already exists", event.Slug)
	}
	r.events[event.Slug] = *event
	return nil
}
