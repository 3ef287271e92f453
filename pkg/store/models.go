package store

import (
	"time"

	"gorm.io/datatypes"
)

// GORM models used for persistence.
type UserModel struct {
	ID            string `gorm:"primaryKey"`
	Username      string `gorm:"uniqueIndex;not null"`
	Email         string `gorm:"uniqueIndex;not null"`
	FullName      string `gorm:"not null"`
	PasswordHash  string `gorm:"not null"`
	ProfilePicURL string
	ProfilePicID  string
	RefreshToken  string
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time
}

type ListingModel struct {
	ID           string `gorm:"primaryKey"`
	Name         string `gorm:"not null"`
	Description  string `gorm:"type:text;not null"`
	AddressLine1 string `gorm:"not null"`
	AddressLine2 string
	Location     string         `gorm:"not null;index"`
	Facility     datatypes.JSON `gorm:"type:jsonb"`
	VideoURL     string
	VideoID      string
	Pictures     datatypes.JSON `gorm:"type:jsonb"`
	Views        int64          `gorm:"not null;default:0"`
	Price        int64          `gorm:"not null"`
	SoldOut      bool           `gorm:"not null;default:false"`
	OwnerID      string         `gorm:"not null;index"`
	CreatedAt    time.Time      `gorm:"not null;index"`
	UpdatedAt    time.Time      `gorm:"not null"`
}

type ReviewModel struct {
	ID        string `gorm:"primaryKey"`
	Content   string `gorm:"type:text;not null"`
	Rating    int    `gorm:"not null;default:0"`
	ListingID string `gorm:"not null;index"`
	OwnerID   string `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time
}

// LikeModel targets exactly one of listing_id/review_id. The composite unique
// indexes make the toggle race-safe: a concurrent duplicate insert fails
// instead of producing a second row.
type LikeModel struct {
	ID        string  `gorm:"primaryKey"`
	ListingID *string `gorm:"index;uniqueIndex:uniq_listing_like"`
	ReviewID  *string `gorm:"index;uniqueIndex:uniq_review_like"`
	LikedByID string  `gorm:"not null;uniqueIndex:uniq_listing_like;uniqueIndex:uniq_review_like"`
	CreatedAt time.Time `gorm:"not null"`
}

// PurchaseModel holds at most one row per listing.
type PurchaseModel struct {
	ID        string `gorm:"primaryKey"`
	ListingID string `gorm:"not null;uniqueIndex"`
	BuyerID   string `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"not null"`
}

// WishlistItemModel is the set of wishlisted listings per user.
type WishlistItemModel struct {
	UserID    string `gorm:"primaryKey"`
	ListingID string `gorm:"primaryKey;index"`
	CreatedAt time.Time `gorm:"not null"`
}
