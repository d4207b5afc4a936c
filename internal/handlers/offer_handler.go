package handlers

import (
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/meggysis/ejs-eventify/internal/services"
)

// OfferHandler handles HTTP requests for offers on listings.
type OfferHandler struct {
	service  *services.OfferService
	validate *validator.Validate
}

// NewOfferHandler creates a new OfferHandler.
func NewOfferHandler(service *services.OfferService) *OfferHandler {
	return &OfferHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the offer routes with the Fiber app. All offer
// routes require authentication.
func (h *OfferHandler) RegisterRoutes(router fiber.Router) {
	offerRoutes := router.Group("/offers")
	offerRoutes.Post("/", h.HandleSendOffer)
	offerRoutes.Get("/listing/:listingId", h.HandleListOffers)
}

// SendOfferRequest is the body for sending an offer.
type SendOfferRequest struct {
	ListingID string `json:"listingId" validate:"required"`
	Message   string `json:"message" validate:"required,max=1000"`
}

// HandleSendOffer records an offer on a listing.
func (h *OfferHandler) HandleSendOffer(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthenticated(c)
	}

	var req SendOfferRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing offer request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	offer, err := h.service.SendOffer(userID, req.ListingID, req.Message)
	if err != nil {
		var notFound *services.NotFoundError
		if errors.As(err, &notFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Listing not found.",
			})
		}
		log.Printf("Error sending offer: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not send offer",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(offer)
}

// HandleListOffers returns the offers received on one of the caller's
// listings.
func (h *OfferHandler) HandleListOffers(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthenticated(c)
	}

	listingID := c.Params("listingId")
	offers, err := h.service.ListOffers(userID, listingID)
	if err != nil {
		var notFound *services.NotFoundError
		if errors.As(err, &notFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Listing not found.",
			})
		}
		var forbidden *services.ForbiddenError
		if errors.As(err, &forbidden) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Unauthorized access.",
			})
		}
		log.Printf("Error listing offers for listing %s: %v", listingID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve offers",
			"error":   err.Error(),
		})
	}

	return c.JSON(offers)
}
