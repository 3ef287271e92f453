package app

import (
	"fmt"

	"estately/pkg/domain"
)

// MyListings returns the listings owned by userID for the seller dashboard.
func (a *App) MyListings(userID string) ([]domain.ListingSummary, error) {
	listings, err := a.store.ListListingsByOwner(userID)
	if err != nil {
		return nil, fmt.Errorf("list own listings: %w", err)
	}
	return listings, nil
}

// MyPurchases returns the purchases made by userID joined with the listings.
func (a *App) MyPurchases(userID string) ([]domain.PurchaseRecord, error) {
	purchases, err := a.store.ListPurchasesByBuyer(userID)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	return purchases, nil
}
