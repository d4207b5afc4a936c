package services

import "fmt"

// InsufficientStockError is returned when a cart operation asks for more
// units than the listing has available. Available carries the quantity the
// listing actually has left, so the caller can suggest the correct maximum.
type InsufficientStockError struct {
	ListingID string
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("only %d items available", e.Available)
}

// InvalidQuantityError is returned when a quantity is outside the valid
// range. A quantity of zero on update is rejected rather than treated as a
// removal, so ambiguous intent never reaches the engine.
type InvalidQuantityError struct {
	Quantity int
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("invalid quantity %d: must be at least 1", e.Quantity)
}

// NotFoundError is returned when a listing, cart line, or other resource the
// operation targets does not exist. Usually means the caller's page state is
// stale.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// ForbiddenError is returned when a user attempts to mutate a resource they
// do not own.
type ForbiddenError struct {
	Resource string
	ID       string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("not allowed to modify %s %s", e.Resource, e.ID)
}
