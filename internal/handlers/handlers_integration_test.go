package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/meggysis/ejs-eventify/internal/handlers"
	"github.com/meggysis/ejs-eventify/internal/middleware"
	"github.com/meggysis/ejs-eventify/internal/models"
	"github.com/meggysis/ejs-eventify/internal/repositories"
	"github.com/meggysis/ejs-eventify/internal/services"
)

// setupApp builds a Fiber app over an in-memory SQLite database with all
// handlers and services wired. Each test gets its own named database so
// state never leaks between tests.
func setupApp(t *testing.T) (*fiber.App, repositories.ListingRepository) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "failed to open in-memory database")

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Listing{},
		&models.CartItem{},
		&models.Favorite{},
		&models.Event{},
		&models.Offer{},
	))

	listingRepo := repositories.NewGORMListingRepository(db)
	cartRepo := repositories.NewGORMCartRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)
	favoriteRepo := repositories.NewGORMFavoriteRepository(db)
	eventRepo := repositories.NewGORMEventRepository(db)
	offerRepo := repositories.NewGORMOfferRepository(db)

	authService := services.NewAuthService(userRepo, "test_jwt_secret")
	listingService := services.NewListingService(listingRepo, nil)
	cartService := services.NewCartService(cartRepo, listingRepo, nil)
	favoriteService := services.NewFavoriteService(favoriteRepo, listingRepo)
	eventService := services.NewEventService(eventRepo, listingRepo)
	offerService := services.NewOfferService(offerRepo, listingRepo)

	authHandler := handlers.NewAuthHandler(authService)
	listingHandler := handlers.NewListingHandler(listingService, t.TempDir())
	cartHandler := handlers.NewCartHandler(cartService)
	favoriteHandler := handlers.NewFavoriteHandler(favoriteService)
	eventHandler := handlers.NewEventHandler(eventService)
	offerHandler := handlers.NewOfferHandler(offerService)

	app := fiber.New()
	apiV1 := app.Group("/api/v1")

	authHandler.RegisterRoutes(apiV1)
	listingHandler.RegisterRoutes(apiV1)
	eventHandler.RegisterRoutes(apiV1)

	protected := apiV1.Group("", middleware.AuthRequired(authService))
	authHandler.RegisterProtectedRoutes(protected)
	listingHandler.RegisterProtectedRoutes(protected)
	cartHandler.RegisterRoutes(protected)
	favoriteHandler.RegisterRoutes(protected)
	offerHandler.RegisterRoutes(protected)

	return app, listingRepo
}

// TestMain runs setup and teardown for all tests
func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(io.Discard)
	code := m.Run()
	os.Exit(code)
}

// postJSON sends a JSON request and decodes the JSON response body.
func postJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(jsonBody)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp.StatusCode, decoded
}

// signupAndLogin registers a user and returns a bearer token.
func signupAndLogin(t *testing.T, app *fiber.App, name, email string) string {
	t.Helper()

	status, _ := postJSON(t, app, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"name":     name,
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, status)

	status, body := postJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, status)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

// seedListing inserts a listing directly through the repository.
func seedListing(t *testing.T, repo repositories.ListingRepository, id, title string, price float64, stock int) {
	t.Helper()
	require.NoError(t, repo.Create(&models.Listing{
		ID:          id,
		OwnerID:     "seller-account",
		Title:       title,
		Description: "Seeded listing for integration tests",
		Price:       price,
		Quantity:    stock,
		Category:    "home",
	}))
}

func TestAuthSignupAndLogin(t *testing.T) {
	app, _ := setupApp(t)

	signup := map[string]string{
		"name":     "Test User",
		"email":    "test@example.com",
		"password": "password123",
	}
	status, body := postJSON(t, app, http.MethodPost, "/api/v1/auth/signup", "", signup)
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "Registration successful. Please log in.", body["message"])

	// Duplicate email is rejected
	status, _ = postJSON(t, app, http.MethodPost, "/api/v1/auth/signup", "", signup)
	assert.Equal(t, http.StatusConflict, status)

	// Login with the right password
	status, body = postJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "test@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, body["token"])

	// Login with the wrong password
	status, _ = postJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "test@example.com",
		"password": "wrongpassword",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestCartFlow(t *testing.T) {
	app, listingRepo := setupApp(t)
	token := signupAndLogin(t, app, "Cart User", "cart@example.com")
	seedListing(t, listingRepo, "listing-1", "Ceramic Vase", 20.00, 5)

	// Empty cart to start
	status, body := postJSON(t, app, http.MethodGet, "/api/v1/cart", token, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(0), body["total_items"])

	// Add 2
	status, body = postJSON(t, app, http.MethodPost, "/api/v1/cart/add", token, map[string]interface{}{
		"listingId": "listing-1",
		"quantity":  2,
	})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(2), body["cartCount"])

	// Add 2 more: the line merges instead of duplicating
	status, body = postJSON(t, app, http.MethodPost, "/api/v1/cart/add", token, map[string]interface{}{
		"listingId": "listing-1",
		"quantity":  2,
	})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(4), body["cartCount"])

	// Only 1 unit left: adding 2 is rejected and reports what remains
	status, body = postJSON(t, app, http.MethodPost, "/api/v1/cart/add", token, map[string]interface{}{
		"listingId": "listing-1",
		"quantity":  2,
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, float64(1), body["available"])

	// Update the line to take the last unit
	status, body = postJSON(t, app, http.MethodPost, "/api/v1/cart/update", token, map[string]interface{}{
		"listingId": "listing-1",
		"quantity":  5,
	})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(5), body["cartCount"])

	listing, err := listingRepo.GetByID("listing-1")
	require.NoError(t, err)
	assert.Equal(t, 0, listing.Quantity)

	// View: one line, subtotal and total reflect price * quantity
	status, body = postJSON(t, app, http.MethodGet, "/api/v1/cart", token, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(5), body["total_items"])
	assert.Equal(t, float64(100), body["total"])
	items, ok := body["cart"].([]interface{})
	require.True(t, ok)
	assert.Len(t, items, 1)

	// Remove: the reservation flows back to the listing
	status, body = postJSON(t, app, http.MethodPost, "/api/v1/cart/remove", token, map[string]interface{}{
		"listingId": "listing-1",
	})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(0), body["cartCount"])
	assert.Equal(t, "Ceramic Vase", body["listingName"])

	listing, err = listingRepo.GetByID("listing-1")
	require.NoError(t, err)
	assert.Equal(t, 5, listing.Quantity)
}

func TestCartRejectsMalformedRequests(t *testing.T) {
	app, listingRepo := setupApp(t)
	token := signupAndLogin(t, app, "Cart User", "cart2@example.com")
	seedListing(t, listingRepo, "listing-1", "Ceramic Vase", 20.00, 5)

	// Unknown listing
	status, _ := postJSON(t, app, http.MethodPost, "/api/v1/cart/add", token, map[string]interface{}{
		"listingId": "no-such-listing",
		"quantity":  1,
	})
	assert.Equal(t, http.StatusNotFound, status)

	// Zero and negative quantities
	for _, qty := range []int{0, -1} {
		status, _ = postJSON(t, app, http.MethodPost, "/api/v1/cart/add", token, map[string]interface{}{
			"listingId": "listing-1",
			"quantity":  qty,
		})
		assert.Equal(t, http.StatusBadRequest, status, "quantity %d must be rejected", qty)
	}

	// Quantity as a string fails at the boundary
	status, _ = postJSON(t, app, http.MethodPost, "/api/v1/cart/add", token, map[string]interface{}{
		"listingId": "listing-1",
		"quantity":  "2",
	})
	assert.Equal(t, http.StatusBadRequest, status)

	// Updating a line that does not exist
	status, _ = postJSON(t, app, http.MethodPost, "/api/v1/cart/update", token, map[string]interface{}{
		"listingId": "listing-1",
		"quantity":  2,
	})
	assert.Equal(t, http.StatusNotFound, status)

	// Nothing leaked out of the failed operations
	listing, err := listingRepo.GetByID("listing-1")
	require.NoError(t, err)
	assert.Equal(t, 5, listing.Quantity)
}

func TestFavoritesFlow(t *testing.T) {
	app, listingRepo := setupApp(t)
	token := signupAndLogin(t, app, "Fav User", "fav@example.com")
	seedListing(t, listingRepo, "listing-1", "Wool Scarf", 40.00, 3)
	seedListing(t, listingRepo, "listing-2", "Soy Candle", 12.00, 10)

	status, _ := postJSON(t, app, http.MethodPost, "/api/v1/favorites/add/listing-1", token, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = postJSON(t, app, http.MethodPost, "/api/v1/favorites/add/listing-2", token, nil)
	assert.Equal(t, http.StatusOK, status)

	// Saving twice conflicts
	status, _ = postJSON(t, app, http.MethodPost, "/api/v1/favorites/add/listing-1", token, nil)
	assert.Equal(t, http.StatusConflict, status)

	status, body := postJSON(t, app, http.MethodGet, "/api/v1/favorites?price=under25", token, nil)
	assert.Equal(t, http.StatusOK, status)
	favorites, ok := body["favorites"].([]interface{})
	require.True(t, ok)
	assert.Len(t, favorites, 1)

	status, _ = postJSON(t, app, http.MethodPost, "/api/v1/favorites/remove/listing-1", token, nil)
	assert.Equal(t, http.StatusOK, status)

	status, body = postJSON(t, app, http.MethodGet, "/api/v1/favorites", token, nil)
	assert.Equal(t, http.StatusOK, status)
	favorites, ok = body["favorites"].([]interface{})
	require.True(t, ok)
	assert.Len(t, favorites, 1)
}

func TestProtectedEndpointsWithoutAuth(t *testing.T) {
	app, _ := setupApp(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/cart"},
		{http.MethodPost, "/api/v1/cart/add"},
		{http.MethodGet, "/api/v1/favorites"},
		{http.MethodGet, "/api/v1/profile"},
		{http.MethodPost, "/api/v1/listings"},
	}
	for _, p := range paths {
		req := httptest.NewRequest(p.method, p.path, nil)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "%s %s", p.method, p.path)
		resp.Body.Close()
	}
}

func TestBrowseListingsIsPublic(t *testing.T) {
	app, listingRepo := setupApp(t)
	seedListing(t, listingRepo, "listing-1", "Ceramic Vase", 20.00, 5)

	status, body := postJSON(t, app, http.MethodGet, "/api/v1/listings", "", nil)
	assert.Equal(t, http.StatusOK, status)
	listings, ok := body["listings"].([]interface{})
	require.True(t, ok)
	assert.Len(t, listings, 1)
	assert.Equal(t, float64(1), body["total"])

	status, body = postJSON(t, app, http.MethodGet, "/api/v1/listings/listing-1", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Ceramic Vase", body["title"])
}
