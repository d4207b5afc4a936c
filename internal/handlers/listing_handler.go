package handlers

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/meggysis/ejs-eventify/internal/models"
	"github.com/meggysis/ejs-eventify/internal/repositories"
	"github.com/meggysis/ejs-eventify/internal/services"
)

// ListingHandler handles HTTP requests for listings.
type ListingHandler struct {
	service   *services.ListingService
	validate  *validator.Validate
	uploadDir string
}

// NewListingHandler creates a new ListingHandler. Uploaded photos are stored
// under uploadDir.
func NewListingHandler(service *services.ListingService, uploadDir string) *ListingHandler {
	return &ListingHandler{
		service:   service,
		validate:  validator.New(),
		uploadDir: uploadDir,
	}
}

// RegisterRoutes registers the public listing routes with the Fiber app.
func (h *ListingHandler) RegisterRoutes(router fiber.Router) {
	listingRoutes := router.Group("/listings")
	listingRoutes.Get("/", h.HandleBrowse)
	listingRoutes.Get("/:id", h.HandleGetListing)
}

// RegisterProtectedRoutes registers the listing routes that require
// authentication.
func (h *ListingHandler) RegisterProtectedRoutes(router fiber.Router) {
	listingRoutes := router.Group("/listings")
	listingRoutes.Post("/", h.HandleCreateListing)
	listingRoutes.Put("/:id", h.HandleUpdateListing)
	listingRoutes.Delete("/:id", h.HandleDeleteListing)
	router.Get("/profile/listings", h.HandleOwnListings)
}

// HandleBrowse retrieves a page of published listings. Supports search,
// category filtering, and pagination via query parameters.
func (h *ListingHandler) HandleBrowse(c *fiber.Ctx) error {
	query := repositories.ListingQuery{
		Search:        c.Query("search"),
		Category:      strings.ToLower(c.Query("category")),
		PublishedOnly: true,
		Page:          c.QueryInt("page", 1),
		Limit:         c.QueryInt("limit", 0),
	}

	listings, total, err := h.service.Browse(query)
	if err != nil {
		log.Printf("Error browsing listings: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve listings",
			"error":   err.Error(),
		})
	}

	limit := query.Limit
	if limit <= 0 {
		limit = 24
	}
	totalPages := (total + int64(limit) - 1) / int64(limit)

	return c.JSON(fiber.Map{
		"listings":   listings,
		"total":      total,
		"page":       query.Page,
		"totalPages": totalPages,
	})
}

// HandleGetListing retrieves a single listing by its ID.
func (h *ListingHandler) HandleGetListing(c *fiber.Ctx) error {
	listingID := c.Params("id")
	listing, err := h.service.GetListingByID(listingID)
	if err != nil {
		var notFound *services.NotFoundError
		if errors.As(err, &notFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Listing with ID %s not found", listingID),
			})
		}
		log.Printf("Error getting listing by ID %s: %v", listingID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve listing",
			"error":   err.Error(),
		})
	}
	return c.JSON(listing)
}

// HandleOwnListings retrieves the authenticated user's listings, drafts
// included.
func (h *ListingHandler) HandleOwnListings(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthenticated(c)
	}

	listings, err := h.service.GetListingsByOwner(userID, true)
	if err != nil {
		log.Printf("Error getting listings for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve your listings",
			"error":   err.Error(),
		})
	}
	return c.JSON(listings)
}

// HandleCreateListing creates a new listing from a multipart form. The form
// carries the listing fields plus one or more photo files.
func (h *ListingHandler) HandleCreateListing(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthenticated(c)
	}

	listing, err := h.parseListingForm(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid listing form",
			"error":   err.Error(),
		})
	}
	listing.OwnerID = userID

	photos, err := h.savePhotos(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Failed to store photos",
			"error":   err.Error(),
		})
	}
	if len(photos) == 0 && !listing.IsDraft {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "No photos were uploaded.",
		})
	}
	listing.Photos = photos

	if err := h.validate.Struct(listing); err != nil {
		h.removeFiles(photos)
		return validationFailed(c, err)
	}

	if err := h.service.CreateListing(listing); err != nil {
		h.removeFiles(photos)
		log.Printf("Error creating listing: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create listing",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(listing)
}

// HandleUpdateListing updates an existing listing. New photos replace the
// old set; the replaced files are deleted from disk.
func (h *ListingHandler) HandleUpdateListing(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthenticated(c)
	}

	listing, err := h.parseListingForm(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid listing form",
			"error":   err.Error(),
		})
	}
	listing.ID = c.Params("id")

	photos, err := h.savePhotos(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Failed to store photos",
			"error":   err.Error(),
		})
	}
	listing.Photos = photos

	replacedPhotos, err := h.service.UpdateListing(userID, listing)
	if err != nil {
		h.removeFiles(photos)
		return h.mutationError(c, err, "update")
	}
	h.removeFiles(replacedPhotos)

	return c.JSON(listing)
}

// HandleDeleteListing deletes a listing and its photo files.
func (h *ListingHandler) HandleDeleteListing(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthenticated(c)
	}

	listingID := c.Params("id")
	photos, err := h.service.DeleteListing(userID, listingID)
	if err != nil {
		return h.mutationError(c, err, "delete")
	}
	h.removeFiles(photos)

	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Listing %s deleted successfully", listingID),
	})
}

// parseListingForm reads listing fields from a multipart form, converting
// quantity and price to strict numeric types at the boundary.
func (h *ListingHandler) parseListingForm(c *fiber.Ctx) (*models.Listing, error) {
	price, err := strconv.ParseFloat(c.FormValue("price"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid price %q", c.FormValue("price"))
	}

	quantity := 1
	if qv := c.FormValue("quantity"); qv != "" {
		quantity, err = strconv.Atoi(qv)
		if err != nil {
			return nil, fmt.Errorf("invalid quantity %q", qv)
		}
	}

	return &models.Listing{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Price:       price,
		Quantity:    quantity,
		Category:    strings.ToLower(c.FormValue("category")),
		Location:    c.FormValue("location"),
		Color:       c.FormValue("color"),
		Condition:   c.FormValue("condition"),
		Delivery:    c.FormValue("delivery"),
		Handmade:    c.FormValue("handmade"),
		IsDraft:     c.FormValue("isDraft") == "true",
		EventID:     c.FormValue("eventId"),
	}, nil
}

// savePhotos stores the uploaded photo files and returns their public paths.
func (h *ListingHandler) savePhotos(c *fiber.Ctx) ([]string, error) {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil, nil
	}

	files := form.File["photos"]
	var photos []string
	for _, file := range files {
		name := uuid.New().String() + filepath.Ext(file.Filename)
		dest := filepath.Join(h.uploadDir, name)
		if err := c.SaveFile(file, dest); err != nil {
			h.removeFiles(photos)
			return nil, fmt.Errorf("failed to save photo %s: %w", file.Filename, err)
		}
		photos = append(photos, "/uploads/"+name)
	}
	return photos, nil
}

// removeFiles deletes stored photo files; missing files are ignored.
func (h *ListingHandler) removeFiles(photos []string) {
	for _, photo := range photos {
		name := filepath.Base(photo)
		if err := os.Remove(filepath.Join(h.uploadDir, name)); err != nil && !os.IsNotExist(err) {
			log.Printf("Failed to remove photo %s: %v", photo, err)
		}
	}
}

// mutationError maps listing mutation failures onto HTTP statuses.
func (h *ListingHandler) mutationError(c *fiber.Ctx, err error, action string) error {
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
	log.Printf("Error on listing %s: %v", action, err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": fmt.Sprintf("Could not %s listing", action),
		"error":   err.Error(),
	})
}

// validationFailed renders validator errors the way all handlers do.
func validationFailed(c *fiber.Ctx, err error) error {
	validationErrors := err.(validator.ValidationErrors)
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}
