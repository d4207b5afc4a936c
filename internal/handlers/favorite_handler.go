package handlers

import (
	"errors"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/meggysis/ejs-eventify/internal/services"
)

// FavoriteHandler handles HTTP requests for saved listings.
type FavoriteHandler struct {
	service *services.FavoriteService
}

// NewFavoriteHandler creates a new FavoriteHandler.
func NewFavoriteHandler(service *services.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{
		service: service,
	}
}

// RegisterRoutes registers the favorites routes with the Fiber app. All
// favorites routes require authentication.
func (h *FavoriteHandler) RegisterRoutes(router fiber.Router) {
	favRoutes := router.Group("/favorites")
	favRoutes.Get("/", h.HandleListFavorites)
	favRoutes.Post("/add/:listingId", h.HandleAddFavorite)
	favRoutes.Post("/remove/:listingId", h.HandleRemoveFavorite)
}

// HandleListFavorites returns the user's saved listings with optional
// search, category, price, and sort filters.
func (h *FavoriteHandler) HandleListFavorites(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthenticated(c)
	}

	filter := services.FavoriteFilter{
		Search:      c.Query("search"),
		PriceBucket: c.Query("price"),
		Sort:        c.Query("sort"),
	}
	if categories := c.Query("categories"); categories != "" {
		filter.Categories = append(filter.Categories, splitCSV(categories)...)
	}
	if min := c.Query("minPrice"); min != "" {
		if v, err := strconv.ParseFloat(min, 64); err == nil {
			filter.MinPrice = v
		}
	}
	if max := c.Query("maxPrice"); max != "" {
		if v, err := strconv.ParseFloat(max, 64); err == nil {
			filter.MaxPrice = v
		}
	}

	favorites, err := h.service.ListFavorites(userID, filter)
	if err != nil {
		log.Printf("Error fetching favorites for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "An error occurred while fetching your favorites.",
		})
	}

	return c.JSON(fiber.Map{
		"favorites": favorites,
	})
}

// HandleAddFavorite saves a listing to the user's favorites.
func (h *FavoriteHandler) HandleAddFavorite(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthenticated(c)
	}

	listingID := c.Params("listingId")
	if err := h.service.AddFavorite(userID, listingID); err != nil {
		var notFound *services.NotFoundError
		if errors.As(err, &notFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Listing not found.",
			})
		}
		if errors.Is(err, services.ErrAlreadyFavorite) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Listing is already in your favorites.",
			})
		}
		log.Printf("Error adding favorite for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "An error occurred while adding to favorites.",
		})
	}

	return c.JSON(fiber.Map{
		"success": "Listing added to your favorites.",
	})
}

// HandleRemoveFavorite removes a listing from the user's favorites.
func (h *FavoriteHandler) HandleRemoveFavorite(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthenticated(c)
	}

	listingID := c.Params("listingId")
	if err := h.service.RemoveFavorite(userID, listingID); err != nil {
		var notFound *services.NotFoundError
		if errors.As(err, &notFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Listing is not in your favorites.",
			})
		}
		log.Printf("Error removing favorite for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "An error occurred while removing from favorites.",
		})
	}

	return c.JSON(fiber.Map{
		"success": "Listing removed from your favorites.",
	})
}
