package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meggysis/ejs-eventify/internal/models"
	"github.com/meggysis/ejs-eventify/internal/repositories"
	"github.com/meggysis/ejs-eventify/internal/services"
)

func newListingFixture() (*services.ListingService, *repositories.MockListingRepository) {
	repo := repositories.NewMockListingRepository()
	return services.NewListingService(repo, nil), repo
}

func TestListingService_CreateListing_AppliesDefaults(t *testing.T) {
	service, repo := newListingFixture()

	listing := &models.Listing{
		OwnerID:     "seller-1",
		Title:       "Linen Tablecloth",
		Description: "Washed linen, natural tone",
		Price:       45,
	}
	err := service.CreateListing(listing)
	assert.NoError(t, err)
	assert.NotEmpty(t, listing.ID)

	saved, err := repo.GetByID(listing.ID)
	assert.NoError(t, err)
	assert.Equal(t, 1, saved.Quantity)
	assert.Equal(t, "pickup", saved.Delivery)
	assert.Equal(t, "N/A", saved.Color)
	assert.Equal(t, "no", saved.Handmade)
}

func TestListingService_CreateListing_RejectsNegativeQuantity(t *testing.T) {
	service, _ := newListingFixture()

	err := service.CreateListing(&models.Listing{
		OwnerID:     "seller-1",
		Title:       "Linen Tablecloth",
		Description: "Washed linen, natural tone",
		Price:       45,
		Quantity:    -2,
	})
	var invalid *services.InvalidQuantityError
	assert.ErrorAs(t, err, &invalid)
}

func TestListingService_UpdateListing_OwnershipAndPhotos(t *testing.T) {
	service, repo := newListingFixture()

	require.NoError(t, repo.Create(&models.Listing{
		ID: "listing-1", OwnerID: "seller-1", Title: "Old Title",
		Description: "desc", Price: 10, Quantity: 3,
		Photos: models.Photos{"/uploads/old-1.jpg", "/uploads/old-2.jpg"},
	}))

	// A stranger cannot update
	_, err := service.UpdateListing("intruder", &models.Listing{ID: "listing-1", Title: "Hijacked"})
	var forbidden *services.ForbiddenError
	assert.ErrorAs(t, err, &forbidden)

	// Update without new photos keeps the existing set
	replaced, err := service.UpdateListing("seller-1", &models.Listing{
		ID: "listing-1", Title: "New Title", Description: "desc", Price: 12, Quantity: 3,
	})
	assert.NoError(t, err)
	assert.Empty(t, replaced)
	saved, _ := repo.GetByID("listing-1")
	assert.Equal(t, "New Title", saved.Title)
	assert.Equal(t, models.Photos{"/uploads/old-1.jpg", "/uploads/old-2.jpg"}, saved.Photos)

	// Update with new photos returns the old set for file cleanup
	replaced, err = service.UpdateListing("seller-1", &models.Listing{
		ID: "listing-1", Title: "New Title", Description: "desc", Price: 12, Quantity: 3,
		Photos: models.Photos{"/uploads/new-1.jpg"},
	})
	assert.NoError(t, err)
	assert.Equal(t, []string{"/uploads/old-1.jpg", "/uploads/old-2.jpg"}, replaced)
	saved, _ = repo.GetByID("listing-1")
	assert.Equal(t, models.Photos{"/uploads/new-1.jpg"}, saved.Photos)
}

func TestListingService_DeleteListing(t *testing.T) {
	service, repo := newListingFixture()

	require.NoError(t, repo.Create(&models.Listing{
		ID: "listing-1", OwnerID: "seller-1", Title: "Chair",
		Description: "Oak chair", Price: 60, Quantity: 2,
		Photos: models.Photos{"/uploads/chair.jpg"},
	}))

	_, err := service.DeleteListing("intruder", "listing-1")
	var forbidden *services.ForbiddenError
	assert.ErrorAs(t, err, &forbidden)

	photos, err := service.DeleteListing("seller-1", "listing-1")
	assert.NoError(t, err)
	assert.Equal(t, []string{"/uploads/chair.jpg"}, photos)

	_, err = service.GetListingByID("listing-1")
	var notFound *services.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestListingService_GetListingsByOwner_DraftVisibility(t *testing.T) {
	service, repo := newListingFixture()

	require.NoError(t, repo.Create(&models.Listing{
		ID: "pub-1", OwnerID: "seller-1", Title: "Published",
		Description: "d", Price: 5, Quantity: 1,
	}))
	require.NoError(t, repo.Create(&models.Listing{
		ID: "draft-1", OwnerID: "seller-1", Title: "Draft",
		Description: "d", Price: 5, Quantity: 1, IsDraft: true,
	}))

	own, err := service.GetListingsByOwner("seller-1", true)
	assert.NoError(t, err)
	assert.Len(t, own, 2)

	public, err := service.GetListingsByOwner("seller-1", false)
	assert.NoError(t, err)
	assert.Len(t, public, 1)
	assert.Equal(t, "pub-1", public[0].ID)
}

func TestListingService_Browse_ExcludesDrafts(t *testing.T) {
	service, repo := newListingFixture()

	require.NoError(t, repo.Create(&models.Listing{
		ID: "pub-1", OwnerID: "seller-1", Title: "Candle",
		Description: "Soy candle", Price: 8, Quantity: 10,
	}))
	require.NoError(t, repo.Create(&models.Listing{
		ID: "draft-1", OwnerID: "seller-1", Title: "Candle draft",
		Description: "Soy candle", Price: 8, Quantity: 10, IsDraft: true,
	}))

	listings, total, err := service.Browse(repositories.ListingQuery{PublishedOnly: true})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, listings, 1)
	assert.Equal(t, "pub-1", listings[0].ID)
}
