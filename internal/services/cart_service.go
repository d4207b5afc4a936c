package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/meggysis/ejs-eventify/internal/models"
	"github.com/meggysis/ejs-eventify/internal/repositories"
)

// CartNotice is surfaced once when a cart read had to drop lines whose
// listing no longer exists or carries an invalid price.
const CartNotice = "Some items in your cart are no longer available and have been removed."

// EventPublisher publishes marketplace events. Satisfied by rabbitmq.Client;
// a nil publisher disables publication.
type EventPublisher interface {
	Publish(routingKey string, body []byte) error
}

// CartService moves quantity between listing stock and cart lines while
// keeping the two consistent: for any listing, available stock plus all
// outstanding cart reservations always totals the original stock.
//
// Stock is reserved at add-to-cart time, not at checkout. There is no expiry
// on reservations, so an abandoned cart holds its units until the line is
// removed. That matches the behavior this service replaces; an expiry policy
// would be a deliberate product change, not a bug fix here.
//
// Every mutation touches two records: the listing's quantity and the user's
// cart line. The listing is always mutated first, through a conditional
// atomic update at the storage layer, and a failed cart write is compensated
// by reversing the stock change. A failed compensation is logged and left to
// the self-healing read in ViewCart.
type CartService struct {
	cartRepo    repositories.CartRepository
	listingRepo repositories.ListingRepository
	mqClient    EventPublisher
}

// NewCartService creates a new CartService.
func NewCartService(cartRepo repositories.CartRepository, listingRepo repositories.ListingRepository, mqClient EventPublisher) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		listingRepo: listingRepo,
		mqClient:    mqClient,
	}
}

// CartViewItem is one cart line joined with its listing.
type CartViewItem struct {
	Listing  models.Listing `json:"listing"`
	Quantity int            `json:"quantity"`
	Subtotal float64        `json:"subtotal"`
}

// CartView is the assembled cart presentation.
type CartView struct {
	Items      []CartViewItem `json:"cart"`
	TotalItems int            `json:"total_items"`
	Total      float64        `json:"total"`
	Notice     string         `json:"notice,omitempty"`
}

// AddToCart reserves qty units of a listing into the user's cart. If the
// user already has a line for the listing, the quantities merge. Returns the
// new total cart item count.
func (s *CartService) AddToCart(userID, listingID string, qty int) (int, error) {
	if qty < 1 {
		return 0, &InvalidQuantityError{Quantity: qty}
	}

	if _, err := s.getListing(listingID); err != nil {
		return 0, err
	}

	// Conditional decrement: the availability check and the decrement are one
	// storage operation, so a concurrent add cannot oversell.
	applied, err := s.listingRepo.DecrementStock(listingID, qty)
	if err != nil {
		return 0, fmt.Errorf("failed to reserve stock: %w", err)
	}
	if !applied {
		return 0, s.insufficientStock(listingID)
	}

	if err := s.cartRepo.AddQuantity(userID, listingID, qty); err != nil {
		s.compensateStock(listingID, qty)
		return 0, fmt.Errorf("failed to add cart item: %w", err)
	}

	count, err := s.cartRepo.TotalCount(userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count cart items: %w", err)
	}

	s.publish("cart.item_added", map[string]interface{}{
		"userID":    userID,
		"listingID": listingID,
		"quantity":  qty,
	})
	return count, nil
}

// UpdateQuantity sets an existing cart line to newQty, transferring the
// difference to or from the listing's stock. A newQty below 1 is rejected;
// removal is its own operation. Returns the new total cart item count.
func (s *CartService) UpdateQuantity(userID, listingID string, newQty int) (int, error) {
	if newQty < 1 {
		return 0, &InvalidQuantityError{Quantity: newQty}
	}

	line, err := s.getLine(userID, listingID)
	if err != nil {
		return 0, err
	}

	delta := newQty - line.Quantity
	if delta == 0 {
		return s.cartRepo.TotalCount(userID)
	}

	if delta > 0 {
		applied, err := s.listingRepo.DecrementStock(listingID, delta)
		if err != nil {
			return 0, fmt.Errorf("failed to reserve stock: %w", err)
		}
		if !applied {
			return 0, s.insufficientStock(listingID)
		}
	} else {
		if err := s.listingRepo.IncrementStock(listingID, -delta); err != nil {
			return 0, fmt.Errorf("failed to restore stock: %w", err)
		}
	}

	if err := s.cartRepo.SetQuantity(userID, listingID, newQty); err != nil {
		s.compensateStock(listingID, delta)
		return 0, fmt.Errorf("failed to update cart item: %w", err)
	}

	count, err := s.cartRepo.TotalCount(userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count cart items: %w", err)
	}

	s.publish("cart.updated", map[string]interface{}{
		"userID":    userID,
		"listingID": listingID,
		"quantity":  newQty,
	})
	return count, nil
}

// RemoveFromCart deletes the user's cart line for a listing and returns its
// quantity to the listing's stock. Returns the new total cart item count and
// the removed listing's title.
func (s *CartService) RemoveFromCart(userID, listingID string) (int, string, error) {
	line, err := s.getLine(userID, listingID)
	if err != nil {
		return 0, "", err
	}

	// The listing may have been deleted since the line was added. The line is
	// still removed; there is just no stock left to restore.
	var listingName string
	listing, err := s.listingRepo.GetByID(listingID)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return 0, "", fmt.Errorf("failed to load listing: %w", err)
	}
	listingExists := err == nil
	if listingExists {
		listingName = listing.Title
		if err := s.listingRepo.IncrementStock(listingID, line.Quantity); err != nil {
			return 0, "", fmt.Errorf("failed to restore stock: %w", err)
		}
	}

	if err := s.cartRepo.Delete(userID, listingID); err != nil {
		if listingExists {
			s.compensateStock(listingID, line.Quantity)
		}
		return 0, "", fmt.Errorf("failed to remove cart item: %w", err)
	}

	count, err := s.cartRepo.TotalCount(userID)
	if err != nil {
		return 0, "", fmt.Errorf("failed to count cart items: %w", err)
	}

	s.publish("cart.item_removed", map[string]interface{}{
		"userID":    userID,
		"listingID": listingID,
		"quantity":  line.Quantity,
	})
	return count, listingName, nil
}

// ViewCart joins the user's cart lines with their listings and computes the
// totals. Lines whose listing has disappeared or carries an invalid price
// are deleted from the stored cart as part of the read, and the returned
// view carries a one-time notice; the persisted cart always matches what the
// user was shown.
func (s *CartService) ViewCart(userID string) (*CartView, error) {
	lines, err := s.cartRepo.GetAll(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	view := &CartView{Items: []CartViewItem{}}
	var total float64
	removed := 0

	for _, line := range lines {
		listing, err := s.listingRepo.GetByID(line.ListingID)
		if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("failed to load listing %s: %w", line.ListingID, err)
		}
		if err != nil || listing.Price < 0 {
			if delErr := s.cartRepo.Delete(userID, line.ListingID); delErr != nil {
				log.Printf("Failed to prune stale cart item %s for user %s: %v", line.ListingID, userID, delErr)
			}
			removed++
			continue
		}

		view.Items = append(view.Items, CartViewItem{
			Listing:  *listing,
			Quantity: line.Quantity,
			Subtotal: roundCents(listing.Price * float64(line.Quantity)),
		})
		view.TotalItems += line.Quantity
		total += listing.Price * float64(line.Quantity)
	}

	// Accumulate first, round once.
	view.Total = roundCents(total)
	if removed > 0 {
		view.Notice = CartNotice
	}
	return view, nil
}

// getListing maps a missing listing onto the domain NotFoundError.
func (s *CartService) getListing(listingID string) (*models.Listing, error) {
	listing, err := s.listingRepo.GetByID(listingID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, &NotFoundError{Resource: "listing", ID: listingID}
		}
		return nil, fmt.Errorf("failed to load listing: %w", err)
	}
	return listing, nil
}

// getLine maps a missing cart line onto the domain NotFoundError.
func (s *CartService) getLine(userID, listingID string) (*models.CartItem, error) {
	line, err := s.cartRepo.Get(userID, listingID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, &NotFoundError{Resource: "cart item", ID: listingID}
		}
		return nil, fmt.Errorf("failed to load cart item: %w", err)
	}
	return line, nil
}

// insufficientStock builds the rejection carrying the quantity actually
// available right now. A failed conditional decrement is a legitimate
// sold-out outcome, never retried.
func (s *CartService) insufficientStock(listingID string) error {
	available := 0
	if listing, err := s.listingRepo.GetByID(listingID); err == nil {
		available = listing.Quantity
	}
	return &InsufficientStockError{ListingID: listingID, Available: available}
}

// compensateStock reverses a stock change after the cart write failed.
// delta is the amount the stock was decremented by (negative when it was
// incremented). If the compensation itself fails the two records are out of
// sync until the next ViewCart; the condition is logged as such.
func (s *CartService) compensateStock(listingID string, delta int) {
	var err error
	if delta > 0 {
		err = s.listingRepo.IncrementStock(listingID, delta)
	} else if delta < 0 {
		_, err = s.listingRepo.DecrementStock(listingID, -delta)
	}
	if err != nil {
		log.Printf("Consistency error: failed to compensate stock for listing %s by %d: %v", listingID, delta, err)
	}
}

// publish sends a cart event if a publisher is configured.
func (s *CartService) publish(routingKey string, payload map[string]interface{}) {
	if s.mqClient == nil {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", routingKey, err)
		return
	}
	if err := s.mqClient.Publish(routingKey, body); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", routingKey, err)
	}
}

// roundCents rounds a monetary amount to 2 decimals. Applied only at
// presentation time, after accumulation.
func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
