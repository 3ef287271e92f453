package store

import (
	"sort"
	"strings"
	"sync"
	"time"

	"estately/pkg/domain"
)

// MemoryStore keeps all records in-process. It backs tests and local runs
// without a database.
type MemoryStore struct {
	mu        sync.RWMutex
	users     map[string]domain.User
	listings  map[string]domain.Listing
	reviews   map[string]domain.Review
	likes     map[string]domain.Like
	purchases map[string]domain.Purchase          // key: listing ID
	wishlists map[string]map[string]time.Time     // user ID -> listing ID -> added at
}

// NewMemoryStore initializes an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:     make(map[string]domain.User),
		listings:  make(map[string]domain.Listing),
		reviews:   make(map[string]domain.Review),
		likes:     make(map[string]domain.Like),
		purchases: make(map[string]domain.Purchase),
		wishlists: make(map[string]map[string]time.Time),
	}
}

// SaveUser registers or replaces a user.
func (m *MemoryStore) SaveUser(u domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
	return nil
}

// GetUserByID retrieves a user by ID.
func (m *MemoryStore) GetUserByID(id string) (domain.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	return u, ok, nil
}

// GetUserByLogin retrieves a user by username or email.
func (m *MemoryStore) GetUserByLogin(usernameOrEmail string) (domain.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Username == usernameOrEmail || u.Email == usernameOrEmail {
			return u, true, nil
		}
	}
	return domain.User{}, false, nil
}

// HasUser checks whether the username or email is taken.
func (m *MemoryStore) HasUser(username, email string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Username == username || u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

// SetRefreshToken replaces the persisted refresh token for a user.
func (m *MemoryStore) SetRefreshToken(userID, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return ErrNotFound
	}
	u.RefreshToken = token
	u.UpdatedAt = time.Now().UTC()
	m.users[userID] = u
	return nil
}

// SetPassword stores a new password hash.
func (m *MemoryStore) SetPassword(userID, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return ErrNotFound
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = time.Now().UTC()
	m.users[userID] = u
	return nil
}

// UpdateUserDetails sets full name and/or email.
func (m *MemoryStore) UpdateUserDetails(userID, fullName, email string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return domain.User{}, ErrNotFound
	}
	if fullName != "" {
		u.FullName = fullName
	}
	if email != "" {
		u.Email = email
	}
	u.UpdatedAt = time.Now().UTC()
	m.users[userID] = u
	return u, nil
}

// SetProfilePic swaps the user's profile picture.
func (m *MemoryStore) SetProfilePic(userID string, pic domain.Asset) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return domain.User{}, ErrNotFound
	}
	u.ProfilePic = pic
	u.UpdatedAt = time.Now().UTC()
	m.users[userID] = u
	return u, nil
}

// DeleteUser removes a user and their wishlist.
func (m *MemoryStore) DeleteUser(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, id)
	delete(m.wishlists, id)
	return nil
}

// GetProfile returns a public profile with listing counters.
func (m *MemoryStore) GetProfile(username string) (domain.Profile, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var user domain.User
	found := false
	for _, u := range m.users {
		if u.Username == username {
			user = u
			found = true
			break
		}
	}
	if !found {
		return domain.Profile{}, false, nil
	}
	listingCount, soldCount := 0, 0
	for _, l := range m.listings {
		if l.OwnerID == user.ID {
			listingCount++
			if l.SoldOut {
				soldCount++
			}
		}
	}
	return domain.Profile{
		Username:     user.Username,
		FullName:     user.FullName,
		Email:        user.Email,
		ProfilePic:   user.ProfilePic,
		ListingCount: listingCount,
		SoldCount:    soldCount,
	}, true, nil
}

// AddToWishlist records a wishlist entry; duplicates are ignored.
func (m *MemoryStore) AddToWishlist(userID, listingID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.wishlists[userID] == nil {
		m.wishlists[userID] = make(map[string]time.Time)
	}
	if _, exists := m.wishlists[userID][listingID]; !exists {
		m.wishlists[userID][listingID] = time.Now().UTC()
	}
	return nil
}

// ListWishlist returns wishlisted listings with owner identity.
func (m *MemoryStore) ListWishlist(userID string) ([]domain.ListingWithOwner, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.ListingWithOwner, 0, len(m.wishlists[userID]))
	for listingID := range m.wishlists[userID] {
		if l, ok := m.listings[listingID]; ok {
			res = append(res, m.joinOwnerLocked(l))
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.After(res[j].CreatedAt) })
	return res, nil
}

// SaveListing stores a new listing.
func (m *MemoryStore) SaveListing(l domain.Listing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listings[l.ID] = l
	return nil
}

// GetListing retrieves a listing without counting a view.
func (m *MemoryStore) GetListing(id string) (domain.Listing, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	l, ok := m.listings[id]
	return l, ok, nil
}

// GetListingCountingView increments the view counter and returns the listing.
func (m *MemoryStore) GetListingCountingView(id string) (domain.Listing, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.listings[id]
	if !ok {
		return domain.Listing{}, false, nil
	}
	l.Views++
	m.listings[id] = l
	return l, true, nil
}

// UpdateListing replaces mutable listing fields and asset references.
func (m *MemoryStore) UpdateListing(l domain.Listing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.listings[l.ID]
	if !ok {
		return ErrNotFound
	}
	current.Name = l.Name
	current.Description = l.Description
	current.VideoFile = l.VideoFile
	current.Pictures = l.Pictures
	current.Price = l.Price
	current.SoldOut = l.SoldOut
	current.UpdatedAt = time.Now().UTC()
	m.listings[l.ID] = current
	return nil
}

// SearchListings matches the query case-insensitively on name, description,
// and location.
func (m *MemoryStore) SearchListings(p SearchParams) (domain.Page[domain.Listing], error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	query := strings.ToLower(p.Query)
	matches := make([]domain.Listing, 0)
	for _, l := range m.listings {
		if strings.Contains(strings.ToLower(l.Name), query) ||
			strings.Contains(strings.ToLower(l.Description), query) ||
			strings.Contains(strings.ToLower(l.Location), query) {
			matches = append(matches, l)
		}
	}
	sortListings(matches, p.SortBy, p.SortDir)
	total := int64(len(matches))
	start := (p.Page - 1) * p.Limit
	if start > len(matches) {
		start = len(matches)
	}
	end := start + p.Limit
	if end > len(matches) {
		end = len(matches)
	}
	return domain.NewPage(matches[start:end], total, p.Page, p.Limit), nil
}

func sortListings(items []domain.Listing, sortBy string, dir SortDir) {
	less := func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) }
	switch sortBy {
	case "price":
		less = func(i, j int) bool { return items[i].Price < items[j].Price }
	case "views":
		less = func(i, j int) bool { return items[i].Views < items[j].Views }
	case "name":
		less = func(i, j int) bool { return items[i].Name < items[j].Name }
	}
	if dir == SortAsc {
		sort.SliceStable(items, less)
		return
	}
	sort.SliceStable(items, func(i, j int) bool { return less(j, i) })
}

// ListListingsByOwner returns dashboard summaries of the user's listings.
func (m *MemoryStore) ListListingsByOwner(ownerID string) ([]domain.ListingSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	owned := make([]domain.Listing, 0)
	for _, l := range m.listings {
		if l.OwnerID == ownerID {
			owned = append(owned, l)
		}
	}
	sort.Slice(owned, func(i, j int) bool { return owned[i].CreatedAt.After(owned[j].CreatedAt) })
	res := make([]domain.ListingSummary, 0, len(owned))
	for _, l := range owned {
		res = append(res, domain.ListingSummary{
			ID: l.ID, Name: l.Name, Location: l.Location, Price: l.Price, SoldOut: l.SoldOut,
		})
	}
	return res, nil
}

// DeleteListingCascade removes a listing, its reviews and their likes, its
// purchase record, and every wishlist reference, under one lock.
func (m *MemoryStore) DeleteListingCascade(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.listings[id]; !ok {
		return ErrNotFound
	}
	reviewIDs := make(map[string]struct{})
	for rid, r := range m.reviews {
		if r.ListingID == id {
			reviewIDs[rid] = struct{}{}
		}
	}
	for lid, like := range m.likes {
		if like.ListingID == id {
			delete(m.likes, lid)
			continue
		}
		if _, ok := reviewIDs[like.ReviewID]; ok && like.ReviewID != "" {
			delete(m.likes, lid)
		}
	}
	for rid := range reviewIDs {
		delete(m.reviews, rid)
	}
	delete(m.purchases, id)
	for userID := range m.wishlists {
		delete(m.wishlists[userID], id)
	}
	delete(m.listings, id)
	return nil
}

// SaveReview stores a new review.
func (m *MemoryStore) SaveReview(r domain.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reviews[r.ID] = r
	return nil
}

// GetReview retrieves a review by ID.
func (m *MemoryStore) GetReview(id string) (domain.Review, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.reviews[id]
	return r, ok, nil
}

// UpdateReview sets content and rating.
func (m *MemoryStore) UpdateReview(id, content string, rating int) (domain.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reviews[id]
	if !ok {
		return domain.Review{}, ErrNotFound
	}
	r.Content = content
	r.Rating = rating
	r.UpdatedAt = time.Now().UTC()
	m.reviews[id] = r
	return r, nil
}

// DeleteReviewCascade removes a review and its likes.
func (m *MemoryStore) DeleteReviewCascade(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.reviews[id]; !ok {
		return ErrNotFound
	}
	for lid, like := range m.likes {
		if like.ReviewID == id {
			delete(m.likes, lid)
		}
	}
	delete(m.reviews, id)
	return nil
}

// ListListingReviews joins reviewer identity, like counts, and the viewer's
// like flag.
func (m *MemoryStore) ListListingReviews(listingID, viewerID string, page, limit int) (domain.Page[domain.ReviewSummary], error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	matched := make([]domain.Review, 0)
	for _, r := range m.reviews {
		if r.ListingID == listingID {
			matched = append(matched, r)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	total := int64(len(matched))
	start := (page - 1) * limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	items := make([]domain.ReviewSummary, 0, end-start)
	for _, r := range matched[start:end] {
		likeCount, liked := 0, false
		for _, like := range m.likes {
			if like.ReviewID == r.ID {
				likeCount++
				if like.LikedByID == viewerID {
					liked = true
				}
			}
		}
		owner := m.users[r.OwnerID]
		items = append(items, domain.ReviewSummary{
			ID:        r.ID,
			Content:   r.Content,
			Rating:    r.Rating,
			Owner:     domain.Owner{Username: owner.Username, ProfilePic: owner.ProfilePic},
			LikeCount: likeCount,
			Liked:     liked,
			CreatedAt: r.CreatedAt,
		})
	}
	return domain.NewPage(items, total, page, limit), nil
}

// GetListingLike returns the user's like on a listing, if any.
func (m *MemoryStore) GetListingLike(userID, listingID string) (domain.Like, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, like := range m.likes {
		if like.LikedByID == userID && like.ListingID == listingID && like.ListingID != "" {
			return like, true, nil
		}
	}
	return domain.Like{}, false, nil
}

// GetReviewLike returns the user's like on a review, if any.
func (m *MemoryStore) GetReviewLike(userID, reviewID string) (domain.Like, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, like := range m.likes {
		if like.LikedByID == userID && like.ReviewID == reviewID && like.ReviewID != "" {
			return like, true, nil
		}
	}
	return domain.Like{}, false, nil
}

// SaveLike stores a new like.
func (m *MemoryStore) SaveLike(l domain.Like) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.likes[l.ID] = l
	return nil
}

// DeleteLike removes a like by ID.
func (m *MemoryStore) DeleteLike(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.likes, id)
	return nil
}

// ListLikedListings returns listings the user liked, with owner identity.
func (m *MemoryStore) ListLikedListings(userID string) ([]domain.ListingWithOwner, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.ListingWithOwner, 0)
	for _, like := range m.likes {
		if like.LikedByID != userID || like.ListingID == "" {
			continue
		}
		if l, ok := m.listings[like.ListingID]; ok {
			res = append(res, m.joinOwnerLocked(l))
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.After(res[j].CreatedAt) })
	return res, nil
}

// GetPurchaseByListing returns the purchase record for a listing, if any.
func (m *MemoryStore) GetPurchaseByListing(listingID string) (domain.Purchase, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.purchases[listingID]
	return p, ok, nil
}

// RecordPurchase inserts the purchase and marks the listing sold.
func (m *MemoryStore) RecordPurchase(p domain.Purchase) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.listings[p.ListingID]
	if !ok {
		return ErrNotFound
	}
	if _, exists := m.purchases[p.ListingID]; exists {
		return ErrNotFound
	}
	m.purchases[p.ListingID] = p
	l.SoldOut = true
	l.UpdatedAt = time.Now().UTC()
	m.listings[p.ListingID] = l
	return nil
}

// ListPurchasesByBuyer returns purchases joined with the bought listing.
func (m *MemoryStore) ListPurchasesByBuyer(buyerID string) ([]domain.PurchaseRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.PurchaseRecord, 0)
	for _, p := range m.purchases {
		if p.BuyerID != buyerID {
			continue
		}
		l := m.listings[p.ListingID]
		res = append(res, domain.PurchaseRecord{
			ID:        p.ID,
			ListingID: p.ListingID,
			Name:      l.Name,
			OwnerID:   l.OwnerID,
			Price:     l.Price,
			CreatedAt: p.CreatedAt,
		})
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.After(res[j].CreatedAt) })
	return res, nil
}

func (m *MemoryStore) joinOwnerLocked(l domain.Listing) domain.ListingWithOwner {
	owner := m.users[l.OwnerID]
	return domain.ListingWithOwner{
		Listing: l,
		Owner: domain.Owner{
			Username:   owner.Username,
			FullName:   owner.FullName,
			ProfilePic: owner.ProfilePic,
		},
	}
}
