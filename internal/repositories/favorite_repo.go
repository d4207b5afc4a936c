package repositories

// FavoriteRepository defines the interface for saved-listing data access.
type FavoriteRepository interface {
	Add(userID, listingID string) error
	Remove(userID, listingID string) error
	Exists(userID, listingID string) (bool, error)
	ListingIDs(userID string) ([]string, error)
}
