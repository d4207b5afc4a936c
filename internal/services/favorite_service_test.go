package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meggysis/ejs-eventify/internal/models"
	"github.com/meggysis/ejs-eventify/internal/repositories"
	"github.com/meggysis/ejs-eventify/internal/services"
)

func newFavoriteFixture(t *testing.T) (*services.FavoriteService, *repositories.MockListingRepository) {
	t.Helper()
	listingRepo := repositories.NewMockListingRepository()
	favoriteRepo := repositories.NewMockFavoriteRepository()

	seed := []models.Listing{
		{ID: "l-candle", OwnerID: "s1", Title: "Soy Candle", Description: "Hand-poured", Category: "home", Price: 12, Quantity: 5},
		{ID: "l-scarf", OwnerID: "s1", Title: "Wool Scarf", Description: "Merino wool", Category: "clothing", Price: 40, Quantity: 5},
		{ID: "l-desk", OwnerID: "s2", Title: "Walnut Desk", Description: "Solid walnut", Category: "furniture", Price: 320, Quantity: 1},
	}
	for i := range seed {
		seed[i].CreatedAt = time.Date(2026, 1, 1+i, 0, 0, 0, 0, time.UTC)
		require.NoError(t, listingRepo.Create(&seed[i]))
	}
	return services.NewFavoriteService(favoriteRepo, listingRepo), listingRepo
}

func TestFavoriteService_AddAndList(t *testing.T) {
	service, _ := newFavoriteFixture(t)

	assert.NoError(t, service.AddFavorite("user-1", "l-candle"))
	assert.NoError(t, service.AddFavorite("user-1", "l-scarf"))

	// Adding again is rejected
	err := service.AddFavorite("user-1", "l-candle")
	assert.ErrorIs(t, err, services.ErrAlreadyFavorite)

	// Unknown listings cannot be saved
	err = service.AddFavorite("user-1", "no-such-listing")
	var notFound *services.NotFoundError
	assert.ErrorAs(t, err, &notFound)

	listings, err := service.ListFavorites("user-1", services.FavoriteFilter{})
	assert.NoError(t, err)
	assert.Len(t, listings, 2)
}

func TestFavoriteService_RemoveFavorite(t *testing.T) {
	service, _ := newFavoriteFixture(t)

	require.NoError(t, service.AddFavorite("user-1", "l-candle"))
	assert.NoError(t, service.RemoveFavorite("user-1", "l-candle"))

	err := service.RemoveFavorite("user-1", "l-candle")
	var notFound *services.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestFavoriteService_ListFavorites_SkipsDeletedListings(t *testing.T) {
	service, listingRepo := newFavoriteFixture(t)

	require.NoError(t, service.AddFavorite("user-1", "l-candle"))
	require.NoError(t, service.AddFavorite("user-1", "l-desk"))
	require.NoError(t, listingRepo.Delete("l-desk"))

	listings, err := service.ListFavorites("user-1", services.FavoriteFilter{})
	assert.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, "l-candle", listings[0].ID)
}

func TestFavoriteService_ListFavorites_Filters(t *testing.T) {
	service, _ := newFavoriteFixture(t)
	for _, id := range []string{"l-candle", "l-scarf", "l-desk"} {
		require.NoError(t, service.AddFavorite("user-1", id))
	}

	cases := []struct {
		name   string
		filter services.FavoriteFilter
		want   []string
	}{
		{"search title", services.FavoriteFilter{Search: "scarf"}, []string{"l-scarf"}},
		{"search description", services.FavoriteFilter{Search: "walnut"}, []string{"l-desk"}},
		{"category", services.FavoriteFilter{Categories: []string{"home", "furniture"}}, []string{"l-candle", "l-desk"}},
		{"bucket under25", services.FavoriteFilter{PriceBucket: "under25"}, []string{"l-candle"}},
		{"bucket 25-50", services.FavoriteFilter{PriceBucket: "25-50"}, []string{"l-scarf"}},
		{"bucket 100+", services.FavoriteFilter{PriceBucket: "100+"}, []string{"l-desk"}},
		{"custom range", services.FavoriteFilter{MinPrice: 10, MaxPrice: 50}, []string{"l-candle", "l-scarf"}},
		{"open-ended min", services.FavoriteFilter{MinPrice: 100}, []string{"l-desk"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			listings, err := service.ListFavorites("user-1", tc.filter)
			assert.NoError(t, err)
			got := make([]string, 0, len(listings))
			for _, l := range listings {
				got = append(got, l.ID)
			}
			assert.ElementsMatch(t, tc.want, got)
		})
	}
}

func TestFavoriteService_ListFavorites_Sorting(t *testing.T) {
	service, _ := newFavoriteFixture(t)
	for _, id := range []string{"l-candle", "l-scarf", "l-desk"} {
		require.NoError(t, service.AddFavorite("user-1", id))
	}

	ids := func(listings []models.Listing) []string {
		out := make([]string, 0, len(listings))
		for _, l := range listings {
			out = append(out, l.ID)
		}
		return out
	}

	listings, err := service.ListFavorites("user-1", services.FavoriteFilter{Sort: "price-asc"})
	assert.NoError(t, err)
	assert.Equal(t, []string{"l-candle", "l-scarf", "l-desk"}, ids(listings))

	listings, err = service.ListFavorites("user-1", services.FavoriteFilter{Sort: "price-desc"})
	assert.NoError(t, err)
	assert.Equal(t, []string{"l-desk", "l-scarf", "l-candle"}, ids(listings))

	listings, err = service.ListFavorites("user-1", services.FavoriteFilter{Sort: "date-newest"})
	assert.NoError(t, err)
	assert.Equal(t, []string{"l-desk", "l-scarf", "l-candle"}, ids(listings))

	listings, err = service.ListFavorites("user-1", services.FavoriteFilter{Sort: "date-oldest"})
	assert.NoError(t, err)
	assert.Equal(t, []string{"l-candle", "l-scarf", "l-desk"}, ids(listings))
}
