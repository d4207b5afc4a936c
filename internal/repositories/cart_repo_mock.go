package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/meggysis/ejs-eventify/internal/models"
)

// MockCartRepository is an in-memory implementation of CartRepository.
type MockCartRepository struct {
	items map[string]map[string]models.CartItem // userID -> listingID -> line
	mu    sync.RWMutex
}

// NewMockCartRepository creates a new instance of MockCartRepository.
func NewMockCartRepository() *MockCartRepository {
	return &MockCartRepository{
		items: make(map[string]map[string]models.CartItem),
	}
}

// Get returns a single cart line.
func (r *MockCartRepository) Get(userID, listingID string) (*models.CartItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[userID][listingID]
	if !ok {
		return nil, fmt.Errorf("cart item for listing %s: %w", listingID, ErrNotFound)
	}
	return &item, nil
}

// GetAll returns all cart lines for a user, oldest first.
func (r *MockCartRepository) GetAll(userID string) ([]models.CartItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]models.CartItem, 0, len(r.items[userID]))
	for _, item := range r.items[userID] {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

// AddQuantity creates the line or adds to its quantity under one lock,
// mirroring the upsert-increment of the GORM implementation.
func (r *MockCartRepository) AddQuantity(userID, listingID string, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.items[userID] == nil {
		r.items[userID] = make(map[string]models.CartItem)
	}
	item, ok := r.items[userID][listingID]
	if !ok {
		item = models.CartItem{
			UserID:    userID,
			ListingID: listingID,
			CreatedAt: time.Now(),
		}
	}
	item.Quantity += qty
	item.UpdatedAt = time.Now()
	r.items[userID][listingID] = item
	return nil
}

// SetQuantity sets the quantity of an existing line.
func (r *MockCartRepository) SetQuantity(userID, listingID string, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[userID][listingID]
	if !ok {
		return fmt.Errorf("cart item for listing %s: %w", listingID, ErrNotFound)
	}
	item.Quantity = qty
	item.UpdatedAt = time.Now()
	r.items[userID][listingID] = item
	return nil
}

// Delete removes a line.
func (r *MockCartRepository) Delete(userID, listingID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[userID][listingID]; !ok {
		return fmt.Errorf("cart item for listing %s: %w", listingID, ErrNotFound)
	}
	delete(r.items[userID], listingID)
	return nil
}

// TotalCount returns the sum of all line quantities for a user.
func (r *MockCartRepository) TotalCount(userID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := 0
	for _, item := range r.items[userID] {
		total += item.Quantity
	}
	return total, nil
}
