package domain

import "time"

// Asset is a reference to a remotely stored media object.
type Asset struct {
	URL string `json:"url"`
	ID  string `json:"id,omitempty"`
}

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FullName     string    `json:"fullName"`
	PasswordHash string    `json:"-"`
	ProfilePic   Asset     `json:"profilePic"`
	RefreshToken string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Facility groups the physical attributes of a listing.
type Facility struct {
	Bedroom  int    `json:"bedroom"`
	Bathroom int    `json:"bathroom"`
	Area     int    `json:"area"`
	Ambience string `json:"ambience"`
}

type Listing struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	AddressLine1 string    `json:"addressLine1"`
	AddressLine2 string    `json:"addressLine2,omitempty"`
	Location     string    `json:"location"`
	Facility     Facility  `json:"facility"`
	VideoFile    Asset     `json:"videoFile"`
	Pictures     []Asset   `json:"pictures"`
	Views        int64     `json:"views"`
	Price        int64     `json:"price"`
	SoldOut      bool      `json:"soldOut"`
	OwnerID      string    `json:"ownerId"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Review struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Rating    int       `json:"rating"`
	ListingID string    `json:"listingId"`
	OwnerID   string    `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Like targets exactly one of a listing or a review.
type Like struct {
	ID        string    `json:"id"`
	ListingID string    `json:"listingId,omitempty"`
	ReviewID  string    `json:"reviewId,omitempty"`
	LikedByID string    `json:"likedBy"`
	CreatedAt time.Time `json:"createdAt"`
}

type Purchase struct {
	ID        string    `json:"id"`
	ListingID string    `json:"listingId"`
	BuyerID   string    `json:"buyerId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Profile is the public view of a user joined with listing counters.
type Profile struct {
	Username     string `json:"username"`
	FullName     string `json:"fullName"`
	Email        string `json:"email"`
	ProfilePic   Asset  `json:"profilePic"`
	ListingCount int    `json:"listingCount"`
	SoldCount    int    `json:"soldCount"`
}

// Owner is the reduced identity attached to joined listings and reviews.
type Owner struct {
	Username   string `json:"username"`
	FullName   string `json:"fullName,omitempty"`
	ProfilePic Asset  `json:"profilePic"`
}

// ListingWithOwner is a listing joined with its owner's identity, used by
// wishlist and liked-listing views.
type ListingWithOwner struct {
	Listing
	Owner Owner `json:"owner"`
}

// ReviewSummary is a review joined with its author, its like count, and
// whether the requesting user liked it.
type ReviewSummary struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Rating    int       `json:"rating"`
	Owner     Owner     `json:"owner"`
	LikeCount int       `json:"likeCount"`
	Liked     bool      `json:"liked"`
	CreatedAt time.Time `json:"createdAt"`
}

// ListingSummary is the dashboard view of an owned listing.
type ListingSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
	Price    int64  `json:"price"`
	SoldOut  bool   `json:"soldOut"`
}

// PurchaseRecord is a purchase joined with the bought listing.
type PurchaseRecord struct {
	ID        string    `json:"id"`
	ListingID string    `json:"listingId"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"ownerId"`
	Price     int64     `json:"price"`
	CreatedAt time.Time `json:"createdAt"`
}

// Page is one page of a paginated result set.
type Page[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

// NewPage computes page metadata for a slice of items.
func NewPage[T any](items []T, total int64, page, limit int) Page[T] {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Page[T]{
		Items:      items,
		TotalCount: total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}
}
