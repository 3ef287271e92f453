package app

import (
	"errors"
	"testing"
)

func TestPurchaseMarksListingSold(t *testing.T) {
	env := newTestEnv(t)
	alice := registerUser(t, env, "alice")
	bob := registerUser(t, env, "bob")
	listing := createListing(t, env, alice.ID, "Sunny Flat")

	result, err := env.app.Purchase(bob.ID, listing.ID)
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if result.AlreadySold {
		t.Fatal("first purchase must not report already sold")
	}
	if result.Purchase.BuyerID != bob.ID || result.Purchase.ListingID != listing.ID {
		t.Fatalf("purchase record = %+v", result.Purchase)
	}

	got, err := env.app.GetListing(listing.ID)
	if err != nil {
		t.Fatalf("get listing: %v", err)
	}
	if !got.SoldOut {
		t.Fatal("listing must be marked sold out")
	}
}

func TestPurchaseRejectsOwnerAndMissing(t *testing.T) {
	env := newTestEnv(t)
	alice := registerUser(t, env, "alice")
	listing := createListing(t, env, alice.ID, "Sunny Flat")

	if _, err := env.app.Purchase(alice.ID, listing.ID); !errors.Is(err, ErrOwnListing) {
		t.Fatalf("owner purchase err = %v, want ErrOwnListing", err)
	}
	if _, err := env.app.Purchase(alice.ID, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing listing err = %v, want ErrNotFound", err)
	}
}

func TestPurchaseAlreadySoldIsNotAnError(t *testing.T) {
	env := newTestEnv(t)
	alice := registerUser(t, env, "alice")
	bob := registerUser(t, env, "bob")
	carol := registerUser(t, env, "carol")
	listing := createListing(t, env, alice.ID, "Sunny Flat")

	if _, err := env.app.Purchase(bob.ID, listing.ID); err != nil {
		t.Fatalf("purchase: %v", err)
	}
	result, err := env.app.Purchase(carol.ID, listing.ID)
	if err != nil {
		t.Fatalf("second purchase: %v", err)
	}
	if !result.AlreadySold {
		t.Fatal("second purchase must report already sold")
	}
	if result.Purchase.ID != "" {
		t.Fatal("already-sold result must not carry a new purchase")
	}

	records, err := env.app.MyPurchases(bob.ID)
	if err != nil {
		t.Fatalf("my purchases: %v", err)
	}
	if len(records) != 1 || records[0].ListingID != listing.ID {
		t.Fatalf("bob's purchases = %+v, want the single listing", records)
	}
	if records, _ := env.app.MyPurchases(carol.ID); len(records) != 0 {
		t.Fatal("carol must not have a purchase record")
	}
}

func TestDashboardListings(t *testing.T) {
	env := newTestEnv(t)
	alice := registerUser(t, env, "alice")
	bob := registerUser(t, env, "bob")
	sold := createListing(t, env, alice.ID, "Sold Cottage")
	createListing(t, env, alice.ID, "Open Cottage")
	if _, err := env.app.Purchase(bob.ID, sold.ID); err != nil {
		t.Fatalf("purchase: %v", err)
	}

	listings, err := env.app.MyListings(alice.ID)
	if err != nil {
		t.Fatalf("my listings: %v", err)
	}
	if len(listings) != 2 {
		t.Fatalf("listings = %d, want 2", len(listings))
	}
	soldSeen := false
	for _, l := range listings {
		if l.ID == sold.ID && l.SoldOut {
			soldSeen = true
		}
	}
	if !soldSeen {
		t.Fatal("sold listing must appear with soldOut true")
	}

	records, err := env.app.MyPurchases(bob.ID)
	if err != nil {
		t.Fatalf("my purchases: %v", err)
	}
	if len(records) != 1 || records[0].Name != "Sold Cottage" {
		t.Fatalf("purchases = %+v, want the sold cottage", records)
	}
}
