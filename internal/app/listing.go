package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"estately/internal/util"
	"estately/pkg/domain"
	"estately/pkg/store"
)

const (
	searchLimitMax = 10

	// Defaults applied by the HTTP layer when the client omits paging.
	SearchPageDefault  = 1
	SearchLimitDefault = 10
)

// CreateListingInput is the payload for publishing a listing. VideoPath and
// PicturePaths point at spooled uploads on local disk.
type CreateListingInput struct {
	Name         string
	Description  string
	AddressLine1 string
	AddressLine2 string
	Location     string
	Facility     domain.Facility
	Price        int64
	VideoPath    string
	PicturePaths []string
}

// UpdateListingInput carries replacement fields for a listing. Media paths
// are optional, text fields are required.
type UpdateListingInput struct {
	Name         string
	Description  string
	Price        int64
	VideoPath    string
	PicturePaths []string
}

// SearchInput is the user-facing search query before normalization.
type SearchInput struct {
	Query    string
	Page     int
	Limit    int
	SortBy   string
	SortType string
}

// CreateListing validates the input, uploads the media, and persists the
// listing. Uploaded assets are removed again if the listing cannot be saved.
func (a *App) CreateListing(ctx context.Context, ownerID string, in CreateListingInput) (domain.Listing, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.AddressLine1 = strings.TrimSpace(in.AddressLine1)
	in.Location = strings.TrimSpace(in.Location)

	if in.Name == "" || in.Description == "" || in.AddressLine1 == "" || in.Location == "" || in.Price <= 0 {
		return domain.Listing{}, fmt.Errorf("%w: all fields are required", ErrValidation)
	}
	if in.Facility.Bedroom <= 0 || in.Facility.Bathroom <= 0 || in.Facility.Area <= 0 || in.Facility.Ambience == "" {
		return domain.Listing{}, fmt.Errorf("%w: facility details are required", ErrValidation)
	}
	if in.VideoPath == "" {
		return domain.Listing{}, fmt.Errorf("%w: video file is required", ErrValidation)
	}
	if len(in.PicturePaths) == 0 {
		return domain.Listing{}, fmt.Errorf("%w: at least one picture is required", ErrValidation)
	}

	video, err := a.media.UploadVideo(ctx, in.VideoPath)
	if err != nil {
		return domain.Listing{}, fmt.Errorf("upload video: %w", err)
	}
	pictures, err := a.uploadPictures(ctx, in.PicturePaths)
	if err != nil {
		a.discardVideo(ctx, video)
		return domain.Listing{}, err
	}

	listing := domain.Listing{
		ID:           util.NewID(),
		Name:         in.Name,
		Description:  in.Description,
		AddressLine1: in.AddressLine1,
		AddressLine2: strings.TrimSpace(in.AddressLine2),
		Location:     in.Location,
		Facility:     in.Facility,
		VideoFile:    video,
		Pictures:     pictures,
		Price:        in.Price,
		OwnerID:      ownerID,
		CreatedAt:    time.Now().UTC(),
	}
	if err := a.store.SaveListing(listing); err != nil {
		a.discardVideo(ctx, video)
		a.discardPictures(ctx, pictures)
		return domain.Listing{}, fmt.Errorf("save listing: %w", err)
	}
	return listing, nil
}

// GetListing fetches a listing and counts the view.
func (a *App) GetListing(id string) (domain.Listing, error) {
	listing, ok, err := a.store.GetListingCountingView(id)
	if err != nil {
		return domain.Listing{}, fmt.Errorf("fetch listing: %w", err)
	}
	if !ok {
		return domain.Listing{}, fmt.Errorf("%w: listing", ErrNotFound)
	}
	return listing, nil
}

// UpdateListing replaces the listing's details and media. Only the owner may
// update. New media is uploaded before the old assets are deleted so a
// failure partway leaves the listing with working media.
func (a *App) UpdateListing(ctx context.Context, userID, listingID string, in UpdateListingInput) (domain.Listing, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if in.Name == "" || in.Description == "" || in.Price <= 0 {
		return domain.Listing{}, fmt.Errorf("%w: name, description and price are required", ErrValidation)
	}

	listing, ok, err := a.store.GetListing(listingID)
	if err != nil {
		return domain.Listing{}, fmt.Errorf("fetch listing: %w", err)
	}
	if !ok {
		return domain.Listing{}, fmt.Errorf("%w: listing", ErrNotFound)
	}
	if listing.OwnerID != userID {
		return domain.Listing{}, fmt.Errorf("%w: not the listing owner", ErrForbidden)
	}

	oldVideo := listing.VideoFile
	oldPictures := listing.Pictures

	if in.VideoPath != "" {
		video, err := a.media.UploadVideo(ctx, in.VideoPath)
		if err != nil {
			return domain.Listing{}, fmt.Errorf("upload video: %w", err)
		}
		listing.VideoFile = video
	}
	if len(in.PicturePaths) > 0 {
		pictures, err := a.uploadPictures(ctx, in.PicturePaths)
		if err != nil {
			if in.VideoPath != "" {
				a.discardVideo(ctx, listing.VideoFile)
			}
			return domain.Listing{}, err
		}
		listing.Pictures = pictures
	}

	listing.Name = in.Name
	listing.Description = in.Description
	listing.Price = in.Price
	listing.UpdatedAt = time.Now().UTC()

	if err := a.store.UpdateListing(listing); err != nil {
		if in.VideoPath != "" {
			a.discardVideo(ctx, listing.VideoFile)
		}
		if len(in.PicturePaths) > 0 {
			a.discardPictures(ctx, listing.Pictures)
		}
		return domain.Listing{}, fmt.Errorf("update listing: %w", err)
	}

	if in.VideoPath != "" {
		a.discardVideo(ctx, oldVideo)
	}
	if len(in.PicturePaths) > 0 {
		a.discardPictures(ctx, oldPictures)
	}
	return listing, nil
}

// DeleteListing removes the listing together with its reviews, likes,
// purchases and wishlist entries. Only the owner may delete. Media removal
// is best effort, the database cascade is what must not half-complete.
func (a *App) DeleteListing(ctx context.Context, userID, listingID string) error {
	listing, ok, err := a.store.GetListing(listingID)
	if err != nil {
		return fmt.Errorf("fetch listing: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: listing", ErrNotFound)
	}
	if listing.OwnerID != userID {
		return fmt.Errorf("%w: not the listing owner", ErrForbidden)
	}
	if err := a.store.DeleteListingCascade(listingID); err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}
	a.discardVideo(ctx, listing.VideoFile)
	a.discardPictures(ctx, listing.Pictures)
	return nil
}

// Search returns a page of listings matching the query. A query is required,
// page and limit must be within bounds, and an empty result set is reported
// as not found.
func (a *App) Search(in SearchInput) (domain.Page[domain.Listing], error) {
	query := strings.TrimSpace(in.Query)
	if query == "" {
		return domain.Page[domain.Listing]{}, fmt.Errorf("%w: search query required", ErrValidation)
	}
	if in.Page < 1 || in.Limit < 1 || in.Limit > searchLimitMax {
		return domain.Page[domain.Listing]{}, fmt.Errorf("%w: invalid page or limit", ErrValidation)
	}

	dir := store.SortDesc
	if strings.EqualFold(in.SortType, "asc") {
		dir = store.SortAsc
	}
	sortBy := strings.TrimSpace(in.SortBy)
	if sortBy == "" {
		sortBy = "createdAt"
		dir = store.SortDesc
	}

	page, err := a.store.SearchListings(store.SearchParams{
		Query:   query,
		Page:    in.Page,
		Limit:   in.Limit,
		SortBy:  sortBy,
		SortDir: dir,
	})
	if err != nil {
		return domain.Page[domain.Listing]{}, fmt.Errorf("search listings: %w", err)
	}
	if page.TotalCount == 0 {
		return domain.Page[domain.Listing]{}, fmt.Errorf("%w: no listings matched the query", ErrNotFound)
	}
	return page, nil
}

// AddToWishlist saves the listing on the user's wishlist. Adding the same
// listing twice is a no-op.
func (a *App) AddToWishlist(userID, listingID string) error {
	_, ok, err := a.store.GetListing(listingID)
	if err != nil {
		return fmt.Errorf("fetch listing: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: listing", ErrNotFound)
	}
	if err := a.store.AddToWishlist(userID, listingID); err != nil {
		return fmt.Errorf("add to wishlist: %w", err)
	}
	return nil
}

// Wishlist returns the user's saved listings joined with their owners.
func (a *App) Wishlist(userID string) ([]domain.ListingWithOwner, error) {
	items, err := a.store.ListWishlist(userID)
	if err != nil {
		return nil, fmt.Errorf("list wishlist: %w", err)
	}
	return items, nil
}

func (a *App) uploadPictures(ctx context.Context, paths []string) ([]domain.Asset, error) {
	pictures := make([]domain.Asset, 0, len(paths))
	for _, p := range paths {
		pic, err := a.media.UploadImage(ctx, p)
		if err != nil {
			a.discardPictures(ctx, pictures)
			return nil, fmt.Errorf("upload picture: %w", err)
		}
		pictures = append(pictures, pic)
	}
	return pictures, nil
}

func (a *App) discardVideo(ctx context.Context, video domain.Asset) {
	if video.ID == "" {
		return
	}
	if err := a.media.DeleteVideo(ctx, video.ID); err != nil {
		slog.Warn("failed to delete video asset", "asset_id", video.ID, "error", err)
	}
}

func (a *App) discardPictures(ctx context.Context, pictures []domain.Asset) {
	for _, pic := range pictures {
		if pic.ID == "" {
			continue
		}
		if err := a.media.DeleteImage(ctx, pic.ID); err != nil {
			slog.Warn("failed to delete picture asset", "asset_id", pic.ID, "error", err)
		}
	}
}
