package handlers

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/meggysis/ejs-eventify/internal/services"
)

// EventHandler handles HTTP requests for seasonal events.
type EventHandler struct {
	service *services.EventService
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(service *services.EventService) *EventHandler {
	return &EventHandler{
		service: service,
	}
}

// RegisterRoutes registers the event routes with the Fiber app.
func (h *EventHandler) RegisterRoutes(router fiber.Router) {
	eventRoutes := router.Group("/events")
	eventRoutes.Get("/banner", h.HandleBanner)
	eventRoutes.Get("/:slug", h.HandleEventPage)
}

// HandleBanner returns the seasonal banner for the home feed: the active
// event's banner, or the default one when nothing is running.
func (h *EventHandler) HandleBanner(c *fiber.Ctx) error {
	banner, err := h.service.ActiveBanner(time.Now())
	if err != nil {
		log.Printf("Error resolving seasonal banner: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not resolve the seasonal banner",
			"error":   err.Error(),
		})
	}
	return c.JSON(banner)
}

// HandleEventPage returns an event and its published listings.
func (h *EventHandler) HandleEventPage(c *fiber.Ctx) error {
	slug := c.Params("slug")
	event, listings, err := h.service.GetEventPage(slug, time.Now())
	if err != nil {
		var notFound *services.NotFoundError
		if errors.As(err, &notFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Event not found.",
			})
		}
		if errors.Is(err, services.ErrEventInactive) {
			return c.Status(fiber.StatusGone).JSON(fiber.Map{
				"message": "This event is not currently active.",
			})
		}
		log.Printf("Error loading event page %s: %v", slug, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not load event",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"event":    event,
		"listings": listings,
	})
}
