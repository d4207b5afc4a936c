package repositories

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/meggysis/ejs-eventify/internal/models"
)

// MockListingRepository is an in-memory implementation of ListingRepository.
// The mutex gives it the same effective isolation as the SQL UPDATE the GORM
// implementation uses, so concurrent-add tests exercise real contention.
type MockListingRepository struct {
	listings map[string]models.Listing
	mu       sync.RWMutex
}

// NewMockListingRepository creates a new instance of MockListingRepository.
func NewMockListingRepository() *MockListingRepository {
	return &MockListingRepository{
		listings: make(map[string]models.Listing),
	}
}

// GetAll returns a page of listings matching the query.
func (r *MockListingRepository) GetAll(query ListingQuery) ([]models.Listing, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]models.Listing, 0, len(r.listings))
	for _, l := range r.listings {
		if query.PublishedOnly && l.IsDraft {
			continue
		}
		if query.Category != "" && query.Category != "all" && l.Category != query.Category {
			continue
		}
		if query.EventID != "" && l.EventID != query.EventID {
			continue
		}
		if query.Search != "" {
			needle := strings.ToLower(query.Search)
			if !strings.Contains(strings.ToLower(l.Title), needle) &&
				!strings.Contains(strings.ToLower(l.Description), needle) {
				continue
			}
		}
		matched = append(matched, l)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].UpdatedAt.After(matched[j].UpdatedAt)
	})

	total := int64(len(matched))

	limit := query.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	page := query.Page
	if page <= 0 {
		page = 1
	}
	start := (page - 1) * limit
	if start >= len(matched) {
		return []models.Listing{}, total, nil
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

// GetByID returns a listing by its ID.
func (r *MockListingRepository) GetByID(id string) (*models.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	listing, ok := r.listings[id]
	if !ok {
		return nil, fmt.Errorf("listing with ID %s: %w", id, ErrNotFound)
	}
	return &listing, nil
}

// GetByOwner returns the listings owned by a user.
func (r *MockListingRepository) GetByOwner(ownerID string, includeDrafts bool) ([]models.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var listings []models.Listing
	for _, l := range r.listings {
		if l.OwnerID != ownerID {
			continue
		}
		if l.IsDraft && !includeDrafts {
			continue
		}
		listings = append(listings, l)
	}
	sort.Slice(listings, func(i, j int) bool {
		return listings[i].UpdatedAt.After(listings[j].UpdatedAt)
	})
	return listings, nil
}

// Create adds a new listing.
func (r *MockListingRepository) Create(listing *models.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if listing.ID == "" {
		listing.ID = uuid.New().String()
	}
	r.listings[listing.ID] = *listing
	return nil
}

// Update modifies an existing listing.
func (r *MockListingRepository) Update(listing *models.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.listings[listing.ID]
	if !ok {
		return fmt.Errorf("listing with ID %s for update: %w", listing.ID, ErrNotFound)
	}
	r.listings[listing.ID] = *listing
	return nil
}

// Delete removes a listing by its ID.
func (r *MockListingRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.listings[id]
	if !ok {
		return fmt.Errorf("listing with ID %s for deletion: %w", id, ErrNotFound)
	}
	delete(r.listings, id)
	return nil
}

// DecrementStock subtracts qty under the write lock, only when enough stock
// remains. Check and decrement happen under one critical section, matching
// the conditional UPDATE of the GORM implementation.
func (r *MockListingRepository) DecrementStock(id string, qty int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	listing, ok := r.listings[id]
	if !ok {
		return false, fmt.Errorf("listing with ID %s: %w", id, ErrNotFound)
	}
	if listing.Quantity < qty {
		return false, nil
	}
	listing.Quantity -= qty
	r.listings[id] = listing
	return true, nil
}

// IncrementStock returns qty units to the listing's available quantity.
func (r *MockListingRepository) IncrementStock(id string, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	listing, ok := r.listings[id]
	if !ok {
		return fmt.Errorf("listing with ID %s for stock restore: %w", id, ErrNotFound)
	}
	listing.Quantity += qty
	r.listings[id] = listing
	return nil
}
