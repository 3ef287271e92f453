package store

import (
	"errors"

	"estately/pkg/domain"
)

// ErrNotFound is returned by mutating store operations whose target row is
// absent. Lookup operations report absence through their bool return instead.
var ErrNotFound = errors.New("record not found")

// SortDir is the direction of a search sort.
type SortDir string

const (
	SortAsc  SortDir = "asc"
	SortDesc SortDir = "desc"
)

// SearchParams bound a paginated listing search.
type SearchParams struct {
	Query   string
	Page    int
	Limit   int
	SortBy  string
	SortDir SortDir
}

// Store defines persistence operations for users, listings, reviews, likes,
// and purchases.
type Store interface {
	// users
	SaveUser(domain.User) error
	GetUserByID(id string) (domain.User, bool, error)
	GetUserByLogin(usernameOrEmail string) (domain.User, bool, error)
	HasUser(username, email string) (bool, error)
	SetRefreshToken(userID, token string) error
	SetPassword(userID, passwordHash string) error
	UpdateUserDetails(userID, fullName, email string) (domain.User, error)
	SetProfilePic(userID string, pic domain.Asset) (domain.User, error)
	DeleteUser(id string) error
	GetProfile(username string) (domain.Profile, bool, error)

	// wishlist
	AddToWishlist(userID, listingID string) error
	ListWishlist(userID string) ([]domain.ListingWithOwner, error)

	// listings
	SaveListing(domain.Listing) error
	GetListing(id string) (domain.Listing, bool, error)
	GetListingCountingView(id string) (domain.Listing, bool, error)
	UpdateListing(domain.Listing) error
	SearchListings(p SearchParams) (domain.Page[domain.Listing], error)
	ListListingsByOwner(ownerID string) ([]domain.ListingSummary, error)
	DeleteListingCascade(id string) error

	// reviews
	SaveReview(domain.Review) error
	GetReview(id string) (domain.Review, bool, error)
	UpdateReview(id, content string, rating int) (domain.Review, error)
	DeleteReviewCascade(id string) error
	ListListingReviews(listingID, viewerID string, page, limit int) (domain.Page[domain.ReviewSummary], error)

	// likes
	GetListingLike(userID, listingID string) (domain.Like, bool, error)
	GetReviewLike(userID, reviewID string) (domain.Like, bool, error)
	SaveLike(domain.Like) error
	DeleteLike(id string) error
	ListLikedListings(userID string) ([]domain.ListingWithOwner, error)

	// purchases
	GetPurchaseByListing(listingID string) (domain.Purchase, bool, error)
	RecordPurchase(domain.Purchase) error
	ListPurchasesByBuyer(buyerID string) ([]domain.PurchaseRecord, error)
}
