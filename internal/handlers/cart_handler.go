package handlers

import (
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/meggysis/ejs-eventify/internal/services"
)

// CartHandler handles HTTP requests for the shopping cart.
type CartHandler struct {
	service  *services.CartService
	validate *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the cart routes with the Fiber app. All cart
// routes require authentication.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleViewCart)
	cartRoutes.Post("/add", h.HandleAddToCart)
	cartRoutes.Post("/update", h.HandleUpdateCart)
	cartRoutes.Post("/remove", h.HandleRemoveFromCart)
}

// CartMutationRequest is the body for add and update operations. Quantity
// must arrive as a JSON integer; forms posting strings are rejected at this
// boundary, before the engine sees them.
type CartMutationRequest struct {
	ListingID string `json:"listingId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
}

// CartRemoveRequest is the body for the remove operation.
type CartRemoveRequest struct {
	ListingID string `json:"listingId" validate:"required"`
}

// HandleAddToCart reserves stock into the user's cart.
func (h *CartHandler) HandleAddToCart(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthenticated(c)
	}

	var req CartMutationRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing add-to-cart request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Listing ID and quantity are required.",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid quantity specified.",
		})
	}

	count, err := h.service.AddToCart(userID, req.ListingID, req.Quantity)
	if err != nil {
		return h.cartError(c, err, "adding the item to your cart")
	}

	return c.JSON(fiber.Map{
		"success":   "Item added to cart successfully.",
		"cartCount": count,
	})
}

// HandleUpdateCart sets a cart line to a new quantity.
func (h *CartHandler) HandleUpdateCart(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthenticated(c)
	}

	var req CartMutationRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing update-cart request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Listing ID and quantity are required.",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid quantity specified.",
		})
	}

	count, err := h.service.UpdateQuantity(userID, req.ListingID, req.Quantity)
	if err != nil {
		return h.cartError(c, err, "updating your cart")
	}

	return c.JSON(fiber.Map{
		"success":   "Cart updated successfully.",
		"cartCount": count,
	})
}

// HandleRemoveFromCart deletes a cart line and restores its stock.
func (h *CartHandler) HandleRemoveFromCart(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthenticated(c)
	}

	var req CartRemoveRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing remove-from-cart request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Listing ID is required.",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Listing ID is required.",
		})
	}

	count, listingName, err := h.service.RemoveFromCart(userID, req.ListingID)
	if err != nil {
		return h.cartError(c, err, "removing the item from your cart")
	}

	return c.JSON(fiber.Map{
		"success":     "Item removed from cart successfully.",
		"cartCount":   count,
		"listingName": listingName,
	})
}

// HandleViewCart returns the user's cart with per-line subtotals and the
// cart total.
func (h *CartHandler) HandleViewCart(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthenticated(c)
	}

	view, err := h.service.ViewCart(userID)
	if err != nil {
		log.Printf("Error fetching cart for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "An error occurred while fetching your cart.",
		})
	}
	return c.JSON(view)
}

// cartError maps engine failures onto the response taxonomy. Every engine
// rejection is a structured response, never an unhandled failure.
func (h *CartHandler) cartError(c *fiber.Ctx, err error, action string) error {
	var insufficient *services.InsufficientStockError
	if errors.As(err, &insufficient) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":     insufficient.Error(),
			"available": insufficient.Available,
		})
	}

	var invalidQty *services.InvalidQuantityError
	if errors.As(err, &invalidQty) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid quantity specified.",
		})
	}

	var notFound *services.NotFoundError
	if errors.As(err, &notFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": notFound.Error() + ".",
		})
	}

	log.Printf("Cart operation failed: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "An error occurred while " + action + ".",
	})
}
