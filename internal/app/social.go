package app

import (
	"fmt"
	"strings"
	"time"

	"estately/internal/util"
	"estately/pkg/domain"
)

const (
	reviewLimitMax     = 10
	reviewLimitDefault = 10
)

// ToggleListingLike likes the listing when no like exists and removes the
// like otherwise. It reports the resulting state.
func (a *App) ToggleListingLike(userID, listingID string) (bool, error) {
	_, ok, err := a.store.GetListing(listingID)
	if err != nil {
		return false, fmt.Errorf("fetch listing: %w", err)
	}
	if !ok {
		return false, fmt.Errorf("%w: listing", ErrNotFound)
	}
	existing, found, err := a.store.GetListingLike(userID, listingID)
	if err != nil {
		return false, fmt.Errorf("fetch like: %w", err)
	}
	if found {
		if err := a.store.DeleteLike(existing.ID); err != nil {
			return false, fmt.Errorf("delete like: %w", err)
		}
		return false, nil
	}
	like := domain.Like{
		ID:        util.NewID(),
		ListingID: listingID,
		LikedByID: userID,
		CreatedAt: time.Now().UTC(),
	}
	if err := a.store.SaveLike(like); err != nil {
		return false, fmt.Errorf("save like: %w", err)
	}
	return true, nil
}

// ToggleReviewLike likes or unlikes a review, reporting the resulting state.
func (a *App) ToggleReviewLike(userID, reviewID string) (bool, error) {
	_, ok, err := a.store.GetReview(reviewID)
	if err != nil {
		return false, fmt.Errorf("fetch review: %w", err)
	}
	if !ok {
		return false, fmt.Errorf("%w: review", ErrNotFound)
	}
	existing, found, err := a.store.GetReviewLike(userID, reviewID)
	if err != nil {
		return false, fmt.Errorf("fetch like: %w", err)
	}
	if found {
		if err := a.store.DeleteLike(existing.ID); err != nil {
			return false, fmt.Errorf("delete like: %w", err)
		}
		return false, nil
	}
	like := domain.Like{
		ID:        util.NewID(),
		ReviewID:  reviewID,
		LikedByID: userID,
		CreatedAt: time.Now().UTC(),
	}
	if err := a.store.SaveLike(like); err != nil {
		return false, fmt.Errorf("save like: %w", err)
	}
	return true, nil
}

// LikedListings returns all listings the user has liked, joined with owners.
func (a *App) LikedListings(userID string) ([]domain.ListingWithOwner, error) {
	items, err := a.store.ListLikedListings(userID)
	if err != nil {
		return nil, fmt.Errorf("list liked listings: %w", err)
	}
	return items, nil
}

// AddReview posts a review on a listing.
func (a *App) AddReview(userID, listingID, content string, rating int) (domain.Review, error) {
	content = strings.TrimSpace(content)
	if content == "" && rating == 0 {
		return domain.Review{}, fmt.Errorf("%w: content and rating are required", ErrValidation)
	}
	_, ok, err := a.store.GetListing(listingID)
	if err != nil {
		return domain.Review{}, fmt.Errorf("fetch listing: %w", err)
	}
	if !ok {
		return domain.Review{}, fmt.Errorf("%w: listing", ErrNotFound)
	}
	review := domain.Review{
		ID:        util.NewID(),
		Content:   content,
		Rating:    rating,
		ListingID: listingID,
		OwnerID:   userID,
		CreatedAt: time.Now().UTC(),
	}
	if err := a.store.SaveReview(review); err != nil {
		return domain.Review{}, fmt.Errorf("save review: %w", err)
	}
	return review, nil
}

// UpdateReview edits a review's content and rating. Only the author may edit.
func (a *App) UpdateReview(userID, reviewID, content string, rating int) (domain.Review, error) {
	content = strings.TrimSpace(content)
	if content == "" && rating == 0 {
		return domain.Review{}, fmt.Errorf("%w: content and rating are required", ErrValidation)
	}
	review, ok, err := a.store.GetReview(reviewID)
	if err != nil {
		return domain.Review{}, fmt.Errorf("fetch review: %w", err)
	}
	if !ok {
		return domain.Review{}, fmt.Errorf("%w: review", ErrNotFound)
	}
	if review.OwnerID != userID {
		return domain.Review{}, fmt.Errorf("%w: not the review author", ErrForbidden)
	}
	updated, err := a.store.UpdateReview(reviewID, content, rating)
	if err != nil {
		return domain.Review{}, fmt.Errorf("update review: %w", err)
	}
	return updated, nil
}

// DeleteReview removes a review and its likes. Only the author may delete.
func (a *App) DeleteReview(userID, reviewID string) error {
	review, ok, err := a.store.GetReview(reviewID)
	if err != nil {
		return fmt.Errorf("fetch review: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: review", ErrNotFound)
	}
	if review.OwnerID != userID {
		return fmt.Errorf("%w: not the review author", ErrForbidden)
	}
	if err := a.store.DeleteReviewCascade(reviewID); err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	return nil
}

// ListingReviews returns a page of reviews on a listing with like counts and
// the viewer's own like state.
func (a *App) ListingReviews(listingID, viewerID string, page, limit int) (domain.Page[domain.ReviewSummary], error) {
	_, ok, err := a.store.GetListing(listingID)
	if err != nil {
		return domain.Page[domain.ReviewSummary]{}, fmt.Errorf("fetch listing: %w", err)
	}
	if !ok {
		return domain.Page[domain.ReviewSummary]{}, fmt.Errorf("%w: listing", ErrNotFound)
	}
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > reviewLimitMax {
		limit = reviewLimitDefault
	}
	reviews, err := a.store.ListListingReviews(listingID, viewerID, page, limit)
	if err != nil {
		return domain.Page[domain.ReviewSummary]{}, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}
