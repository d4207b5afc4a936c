package repositories

import (
	"fmt"
	"sync"
)

// MockFavoriteRepository is an in-memory implementation of FavoriteRepository.
type MockFavoriteRepository struct {
	favorites map[string][]string // userID -> listingIDs, newest first
	mu        sync.RWMutex
}

// NewMockFavoriteRepository creates a new instance of MockFavoriteRepository.
func NewMockFavoriteRepository() *MockFavoriteRepository {
	return &MockFavoriteRepository{
		favorites: make(map[string][]string),
	}
}

// Add saves a listing to the user's favorites.
func (r *MockFavoriteRepository) Add(userID, listingID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range r.favorites[userID] {
		if id == listingID {
			return fmt.Errorf("favorite for listing %s already exists", listingID)
		}
	}
	r.favorites[userID] = append([]string{listingID}, r.favorites[userID]...)
	return nil
}

// Remove deletes a listing from the user's favorites.
func (r *MockFavoriteRepository) Remove(userID, listingID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := r.favorites[userID]
	for i, id := range ids {
		if id == listingID {
			r.favorites[userID] = append(ids[:i], ids[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("favorite for listing %s: %w", listingID, ErrNotFound)
}

// Exists reports whether the listing is in the user's favorites.
func (r *MockFavoriteRepository) Exists(userID, listingID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.favorites[userID] {
		if id == listingID {
			return true, nil
		}
	}
	return false, nil
}

// ListingIDs returns the saved listing IDs, newest first.
func (r *MockFavoriteRepository) ListingIDs(userID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, len(r.favorites[userID]))
	copy(ids, r.favorites[userID])
	return ids, nil
}
