package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"estately/pkg/domain"
	"estately/pkg/storage"
	"estately/pkg/store"
	"estately/pkg/token"
)

type testEnv struct {
	app   *App
	store *store.MemoryStore
	media *storage.MemoryMediaStore
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	return newTestEnvWithStore(t, store.NewMemoryStore())
}

func newTestEnvWithStore(t *testing.T, dataStore store.Store) testEnv {
	t.Helper()
	tokens, err := token.NewManager("test-access-secret", "test-refresh-secret", time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("new token manager: %v", err)
	}
	media := storage.NewMemoryMediaStore()
	a, err := New(Config{
		Tokens:  tokens,
		Store:   dataStore,
		Media:   media,
		Revoker: store.NewMemoryTokenRevoker(),
	})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	memStore, _ := dataStore.(*store.MemoryStore)
	return testEnv{app: a, store: memStore, media: media}
}

func tempUpload(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("media-bytes"), 0o644); err != nil {
		t.Fatalf("write upload: %v", err)
	}
	return path
}

func registerUser(t *testing.T, env testEnv, username string) domain.User {
	t.Helper()
	user, err := env.app.Register(context.Background(), RegisterInput{
		Username:       username,
		Email:          username + "@example.com",
		Password:       "password123",
		FullName:       "Test " + username,
		ProfilePicPath: tempUpload(t, username+".png"),
	})
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return user
}

func createListing(t *testing.T, env testEnv, ownerID, name string) domain.Listing {
	t.Helper()
	listing, err := env.app.CreateListing(context.Background(), ownerID, CreateListingInput{
		Name:         name,
		Description:  "a cosy place",
		AddressLine1: "1 Main St",
		Location:     "Springfield",
		Facility:     domain.Facility{Bedroom: 2, Bathroom: 1, Area: 80, Ambience: "quiet"},
		Price:        250000,
		VideoPath:    tempUpload(t, "tour.mp4"),
		PicturePaths: []string{tempUpload(t, "front.jpg")},
	})
	if err != nil {
		t.Fatalf("create listing %s: %v", name, err)
	}
	return listing
}
