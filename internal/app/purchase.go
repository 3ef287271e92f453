package app

import (
	"fmt"
	"time"

	"estately/internal/util"
	"estately/pkg/domain"
)

// PurchaseResult reports the outcome of a purchase attempt. AlreadySold
// means someone else bought the listing first, which is not an error.
type PurchaseResult struct {
	AlreadySold bool            `json:"alreadySold"`
	Purchase    domain.Purchase `json:"purchase,omitempty"`
}

// Purchase records the sale of a listing to buyerID and marks it sold out.
// Owners cannot buy their own listings.
func (a *App) Purchase(buyerID, listingID string) (PurchaseResult, error) {
	listing, ok, err := a.store.GetListing(listingID)
	if err != nil {
		return PurchaseResult{}, fmt.Errorf("fetch listing: %w", err)
	}
	if !ok {
		return PurchaseResult{}, fmt.Errorf("%w: listing", ErrNotFound)
	}
	if listing.OwnerID == buyerID {
		return PurchaseResult{}, ErrOwnListing
	}

	if _, sold, err := a.store.GetPurchaseByListing(listingID); err != nil {
		return PurchaseResult{}, fmt.Errorf("check purchase: %w", err)
	} else if sold {
		return PurchaseResult{AlreadySold: true}, nil
	}

	purchase := domain.Purchase{
		ID:        util.NewID(),
		ListingID: listingID,
		BuyerID:   buyerID,
		CreatedAt: time.Now().UTC(),
	}
	if err := a.store.RecordPurchase(purchase); err != nil {
		return PurchaseResult{}, fmt.Errorf("record purchase: %w", err)
	}
	return PurchaseResult{Purchase: purchase}, nil
}
