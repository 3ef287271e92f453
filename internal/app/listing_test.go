package app

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"estately/pkg/domain"
	"estately/pkg/store"
)

func TestCreateListingValidation(t *testing.T) {
	env := newTestEnv(t)
	owner := registerUser(t, env, "alice")

	cases := []struct {
		name string
		in   CreateListingInput
	}{
		{"missing fields", CreateListingInput{Name: "Flat"}},
		{"zero price", CreateListingInput{
			Name: "Flat", Description: "d", AddressLine1: "a", Location: "l",
			Facility: domain.Facility{Bedroom: 1, Bathroom: 1, Area: 10, Ambience: "calm"},
		}},
		{"missing facility", CreateListingInput{
			Name: "Flat", Description: "d", AddressLine1: "a", Location: "l", Price: 100,
		}},
		{"missing video", CreateListingInput{
			Name: "Flat", Description: "d", AddressLine1: "a", Location: "l", Price: 100,
			Facility: domain.Facility{Bedroom: 1, Bathroom: 1, Area: 10, Ambience: "calm"},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := env.app.CreateListing(context.Background(), owner.ID, tc.in); !errors.Is(err, ErrValidation) {
				t.Fatalf("err = %v, want ErrValidation", err)
			}
		})
	}
}

type failingListingStore struct {
	*store.MemoryStore
}

func (f failingListingStore) SaveListing(_ domain.Listing) error {
	return fmt.Errorf("disk full")
}

func TestCreateListingCleansUpAssetsOnSaveFailure(t *testing.T) {
	env := newTestEnvWithStore(t, failingListingStore{store.NewMemoryStore()})
	_, err := env.app.CreateListing(context.Background(), "owner-1", CreateListingInput{
		Name:         "Flat",
		Description:  "d",
		AddressLine1: "a",
		Location:     "l",
		Facility:     domain.Facility{Bedroom: 1, Bathroom: 1, Area: 10, Ambience: "calm"},
		Price:        100,
		VideoPath:    tempUpload(t, "tour.mp4"),
		PicturePaths: []string{tempUpload(t, "a.jpg"), tempUpload(t, "b.jpg")},
	})
	if err == nil {
		t.Fatal("expected save failure")
	}
	if env.media.Count() != 0 {
		t.Fatalf("media count = %d, want 0 after compensation", env.media.Count())
	}
}

func TestGetListingCountsViews(t *testing.T) {
	env := newTestEnv(t)
	owner := registerUser(t, env, "alice")
	listing := createListing(t, env, owner.ID, "Sunny Flat")
	if listing.Views != 0 {
		t.Fatalf("fresh listing views = %d, want 0", listing.Views)
	}

	got, err := env.app.GetListing(listing.ID)
	if err != nil {
		t.Fatalf("get listing: %v", err)
	}
	if got.Views != 1 {
		t.Fatalf("views = %d, want 1", got.Views)
	}
	got, _ = env.app.GetListing(listing.ID)
	if got.Views != 2 {
		t.Fatalf("views = %d, want 2", got.Views)
	}
}

func TestUpdateListingOwnershipAndMediaSwap(t *testing.T) {
	env := newTestEnv(t)
	alice := registerUser(t, env, "alice")
	bob := registerUser(t, env, "bob")
	listing := createListing(t, env, alice.ID, "Sunny Flat")
	oldVideo := listing.VideoFile.ID
	oldPicture := listing.Pictures[0].ID

	_, err := env.app.UpdateListing(context.Background(), bob.ID, listing.ID, UpdateListingInput{
		Name: "Stolen Flat", Description: "d", Price: 1,
	})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("non-owner update err = %v, want ErrForbidden", err)
	}

	updated, err := env.app.UpdateListing(context.Background(), alice.ID, listing.ID, UpdateListingInput{
		Name:         "Renovated Flat",
		Description:  "freshly painted",
		Price:        300000,
		VideoPath:    tempUpload(t, "new-tour.mp4"),
		PicturePaths: []string{tempUpload(t, "new-front.jpg")},
	})
	if err != nil {
		t.Fatalf("update listing: %v", err)
	}
	if updated.Name != "Renovated Flat" || updated.Price != 300000 {
		t.Fatalf("update not applied: %+v", updated)
	}
	if env.media.Has(oldVideo) || env.media.Has(oldPicture) {
		t.Fatal("replaced media must be deleted")
	}
	if !env.media.Has(updated.VideoFile.ID) || !env.media.Has(updated.Pictures[0].ID) {
		t.Fatal("new media must be stored")
	}
}

func TestUpdateListingKeepsMediaWhenNoneUploaded(t *testing.T) {
	env := newTestEnv(t)
	alice := registerUser(t, env, "alice")
	listing := createListing(t, env, alice.ID, "Sunny Flat")

	updated, err := env.app.UpdateListing(context.Background(), alice.ID, listing.ID, UpdateListingInput{
		Name: "Sunny Flat", Description: "still sunny", Price: listing.Price,
	})
	if err != nil {
		t.Fatalf("update listing: %v", err)
	}
	if updated.VideoFile.ID != listing.VideoFile.ID {
		t.Fatal("video must be untouched when no replacement is uploaded")
	}
	if !env.media.Has(listing.VideoFile.ID) {
		t.Fatal("existing media must survive a text-only update")
	}
}

func TestDeleteListingCascades(t *testing.T) {
	env := newTestEnv(t)
	alice := registerUser(t, env, "alice")
	bob := registerUser(t, env, "bob")
	listing := createListing(t, env, alice.ID, "Sunny Flat")

	review, err := env.app.AddReview(bob.ID, listing.ID, "lovely", 5)
	if err != nil {
		t.Fatalf("add review: %v", err)
	}
	if _, err := env.app.ToggleListingLike(bob.ID, listing.ID); err != nil {
		t.Fatalf("like listing: %v", err)
	}
	if _, err := env.app.ToggleReviewLike(alice.ID, review.ID); err != nil {
		t.Fatalf("like review: %v", err)
	}
	if err := env.app.AddToWishlist(bob.ID, listing.ID); err != nil {
		t.Fatalf("wishlist: %v", err)
	}

	if err := env.app.DeleteListing(context.Background(), bob.ID, listing.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("non-owner delete err = %v, want ErrForbidden", err)
	}
	if err := env.app.DeleteListing(context.Background(), alice.ID, listing.ID); err != nil {
		t.Fatalf("delete listing: %v", err)
	}

	if _, err := env.app.GetListing(listing.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("listing fetch err = %v, want ErrNotFound", err)
	}
	if _, found, _ := env.store.GetReview(review.ID); found {
		t.Fatal("reviews must be removed with the listing")
	}
	if _, found, _ := env.store.GetListingLike(bob.ID, listing.ID); found {
		t.Fatal("listing likes must be removed")
	}
	if _, found, _ := env.store.GetReviewLike(alice.ID, review.ID); found {
		t.Fatal("review likes must be removed")
	}
	wishlist, _ := env.app.Wishlist(bob.ID)
	if len(wishlist) != 0 {
		t.Fatal("wishlist entries must be removed")
	}
	// Only the two profile pictures survive the listing's media cleanup.
	if env.media.Count() != 2 {
		t.Fatalf("media count = %d, want only the 2 profile pictures", env.media.Count())
	}
}

func TestSearchValidationAndPaging(t *testing.T) {
	env := newTestEnv(t)
	alice := registerUser(t, env, "alice")
	for i := 0; i < 3; i++ {
		createListing(t, env, alice.ID, fmt.Sprintf("Seaside Villa %d", i))
	}
	createListing(t, env, alice.ID, "Mountain Cabin")

	if _, err := env.app.Search(SearchInput{Query: "   ", Page: 1, Limit: 10}); !errors.Is(err, ErrValidation) {
		t.Fatalf("empty query err = %v, want ErrValidation", err)
	}
	if _, err := env.app.Search(SearchInput{Query: "castle", Page: 1, Limit: 10}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("no-match err = %v, want ErrNotFound", err)
	}

	// Out-of-bounds paging is rejected, never clamped.
	badPaging := []SearchInput{
		{Query: "Seaside", Page: 0, Limit: 5},
		{Query: "Seaside", Page: -3, Limit: 5},
		{Query: "Seaside", Page: 1, Limit: 0},
		{Query: "Seaside", Page: 1, Limit: 50},
	}
	for _, in := range badPaging {
		if _, err := env.app.Search(in); !errors.Is(err, ErrValidation) {
			t.Fatalf("page=%d limit=%d err = %v, want ErrValidation", in.Page, in.Limit, err)
		}
	}

	page, err := env.app.Search(SearchInput{Query: "Seaside", Page: 1, Limit: 2})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if page.TotalCount != 3 || len(page.Items) != 2 || page.TotalPages != 2 {
		t.Fatalf("page = %+v, want 3 total over 2 pages", page)
	}
}

func TestWishlistDeduplicates(t *testing.T) {
	env := newTestEnv(t)
	alice := registerUser(t, env, "alice")
	bob := registerUser(t, env, "bob")
	listing := createListing(t, env, alice.ID, "Sunny Flat")

	if err := env.app.AddToWishlist(bob.ID, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing listing err = %v, want ErrNotFound", err)
	}
	if err := env.app.AddToWishlist(bob.ID, listing.ID); err != nil {
		t.Fatalf("wishlist: %v", err)
	}
	if err := env.app.AddToWishlist(bob.ID, listing.ID); err != nil {
		t.Fatalf("repeat wishlist: %v", err)
	}
	items, err := env.app.Wishlist(bob.ID)
	if err != nil {
		t.Fatalf("list wishlist: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("wishlist size = %d, want 1", len(items))
	}
	if items[0].Owner.Username != "alice" {
		t.Fatalf("owner = %q, want alice", items[0].Owner.Username)
	}
}
