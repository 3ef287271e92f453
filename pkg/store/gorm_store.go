package store

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"estately/pkg/domain"
)

// GormStore implements Store using GORM + Postgres.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens the DB and runs auto-migrations.
func NewGormStore(dsn string) (*GormStore, error) {
	gormLog := gormlogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.AutoMigrate(
		&UserModel{},
		&ListingModel{},
		&ReviewModel{},
		&LikeModel{},
		&PurchaseModel{},
		&WishlistItemModel{},
	); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return &GormStore{db: db}, nil
}

// SaveUser registers or updates a user.
func (s *GormStore) SaveUser(u domain.User) error {
	model := userToModel(u)
	return s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"username", "email", "full_name", "password_hash",
			"profile_pic_url", "profile_pic_id", "refresh_token", "updated_at",
		}),
	}).Create(&model).Error
}

// GetUserByID returns a user by ID.
func (s *GormStore) GetUserByID(id string) (domain.User, bool, error) {
	var model UserModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, err
	}
	return userFromModel(model), true, nil
}

// GetUserByLogin looks up a user by username or email.
func (s *GormStore) GetUserByLogin(usernameOrEmail string) (domain.User, bool, error) {
	var model UserModel
	err := s.db.Where("username = ? OR email = ?", usernameOrEmail, usernameOrEmail).First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, err
	}
	return userFromModel(model), true, nil
}

// HasUser checks whether the username or email is already taken.
func (s *GormStore) HasUser(username, email string) (bool, error) {
	var count int64
	err := s.db.Model(&UserModel{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// SetRefreshToken replaces the single persisted refresh token for a user.
// An empty token clears it.
func (s *GormStore) SetRefreshToken(userID, token string) error {
	res := s.db.Model(&UserModel{}).Where("id = ?", userID).Updates(map[string]any{
		"refresh_token": token,
		"updated_at":    time.Now().UTC(),
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetPassword stores a new password hash for a user.
func (s *GormStore) SetPassword(userID, passwordHash string) error {
	res := s.db.Model(&UserModel{}).Where("id = ?", userID).Updates(map[string]any{
		"password_hash": passwordHash,
		"updated_at":    time.Now().UTC(),
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateUserDetails sets full name and/or email and returns the updated user.
func (s *GormStore) UpdateUserDetails(userID, fullName, email string) (domain.User, error) {
	updates := map[string]any{"updated_at": time.Now().UTC()}
	if fullName != "" {
		updates["full_name"] = fullName
	}
	if email != "" {
		updates["email"] = email
	}
	if err := s.db.Model(&UserModel{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
		return domain.User{}, err
	}
	user, ok, err := s.GetUserByID(userID)
	if err != nil {
		return domain.User{}, err
	}
	if !ok {
		return domain.User{}, ErrNotFound
	}
	return user, nil
}

// SetProfilePic swaps the profile picture reference and returns the updated user.
func (s *GormStore) SetProfilePic(userID string, pic domain.Asset) (domain.User, error) {
	err := s.db.Model(&UserModel{}).Where("id = ?", userID).Updates(map[string]any{
		"profile_pic_url": pic.URL,
		"profile_pic_id":  pic.ID,
		"updated_at":      time.Now().UTC(),
	}).Error
	if err != nil {
		return domain.User{}, err
	}
	user, ok, err := s.GetUserByID(userID)
	if err != nil {
		return domain.User{}, err
	}
	if !ok {
		return domain.User{}, ErrNotFound
	}
	return user, nil
}

// DeleteUser removes the user row and its wishlist entries.
func (s *GormStore) DeleteUser(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&WishlistItemModel{}, "user_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&UserModel{}, "id = ?", id).Error
	})
}

// GetProfile returns the public profile joined with listing counters.
func (s *GormStore) GetProfile(username string) (domain.Profile, bool, error) {
	var model UserModel
	if err := s.db.Where("username = ?", username).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.Profile{}, false, nil
		}
		return domain.Profile{}, false, err
	}
	var listingCount, soldCount int64
	if err := s.db.Model(&ListingModel{}).Where("owner_id = ?", model.ID).Count(&listingCount).Error; err != nil {
		return domain.Profile{}, false, err
	}
	err := s.db.Model(&ListingModel{}).
		Where("owner_id = ? AND sold_out", model.ID).
		Count(&soldCount).Error
	if err != nil {
		return domain.Profile{}, false, err
	}
	return domain.Profile{
		Username:     model.Username,
		FullName:     model.FullName,
		Email:        model.Email,
		ProfilePic:   domain.Asset{URL: model.ProfilePicURL, ID: model.ProfilePicID},
		ListingCount: int(listingCount),
		SoldCount:    int(soldCount),
	}, true, nil
}

// AddToWishlist records a wishlist entry; adding twice is a no-op.
func (s *GormStore) AddToWishlist(userID, listingID string) error {
	item := WishlistItemModel{UserID: userID, ListingID: listingID, CreatedAt: time.Now().UTC()}
	return s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&item).Error
}

// ListWishlist returns the user's wishlisted listings with owner identity.
func (s *GormStore) ListWishlist(userID string) ([]domain.ListingWithOwner, error) {
	var models []ListingModel
	err := s.db.
		Joins("JOIN wishlist_item_models w ON w.listing_id = listing_models.id").
		Where("w.user_id = ?", userID).
		Order("w.created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return s.withOwners(models)
}

// SaveListing stores a new listing.
func (s *GormStore) SaveListing(l domain.Listing) error {
	model, err := listingToModel(l)
	if err != nil {
		return err
	}
	return s.db.Create(&model).Error
}

// GetListing returns a listing by ID without touching the view counter.
func (s *GormStore) GetListing(id string) (domain.Listing, bool, error) {
	var model ListingModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.Listing{}, false, nil
		}
		return domain.Listing{}, false, err
	}
	listing, err := listingFromModel(model)
	if err != nil {
		return domain.Listing{}, false, err
	}
	return listing, true, nil
}

// GetListingCountingView increments the view counter and returns the listing
// with the new count.
func (s *GormStore) GetListingCountingView(id string) (domain.Listing, bool, error) {
	res := s.db.Model(&ListingModel{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1"))
	if res.Error != nil {
		return domain.Listing{}, false, res.Error
	}
	if res.RowsAffected == 0 {
		return domain.Listing{}, false, nil
	}
	return s.GetListing(id)
}

// UpdateListing persists mutable listing fields and asset references.
func (s *GormStore) UpdateListing(l domain.Listing) error {
	model, err := listingToModel(l)
	if err != nil {
		return err
	}
	res := s.db.Model(&ListingModel{}).Where("id = ?", l.ID).Updates(map[string]any{
		"name":        model.Name,
		"description": model.Description,
		"video_url":   model.VideoURL,
		"video_id":    model.VideoID,
		"pictures":    model.Pictures,
		"price":       model.Price,
		"sold_out":    model.SoldOut,
		"updated_at":  time.Now().UTC(),
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

var searchSortColumns = map[string]string{
	"createdAt": "created_at",
	"price":     "price",
	"views":     "views",
	"name":      "name",
}

// SearchListings matches the query case-insensitively against name,
// description, and location.
func (s *GormStore) SearchListings(p SearchParams) (domain.Page[domain.Listing], error) {
	column, ok := searchSortColumns[p.SortBy]
	if !ok {
		column = "created_at"
	}
	dir := "DESC"
	if p.SortDir == SortAsc {
		dir = "ASC"
	}
	pattern := "%" + p.Query + "%"
	const match = "name ILIKE ? OR description ILIKE ? OR location ILIKE ?"

	var total int64
	if err := s.db.Model(&ListingModel{}).Where(match, pattern, pattern, pattern).Count(&total).Error; err != nil {
		return domain.Page[domain.Listing]{}, err
	}
	var models []ListingModel
	err := s.db.
		Where(match, pattern, pattern, pattern).
		Order(column + " " + dir).
		Limit(p.Limit).
		Offset((p.Page - 1) * p.Limit).
		Find(&models).Error
	if err != nil {
		return domain.Page[domain.Listing]{}, err
	}
	items := make([]domain.Listing, 0, len(models))
	for _, m := range models {
		listing, err := listingFromModel(m)
		if err != nil {
			return domain.Page[domain.Listing]{}, err
		}
		items = append(items, listing)
	}
	return domain.NewPage(items, total, p.Page, p.Limit), nil
}

// ListListingsByOwner returns the dashboard summaries of a user's listings.
func (s *GormStore) ListListingsByOwner(ownerID string) ([]domain.ListingSummary, error) {
	var models []ListingModel
	if err := s.db.Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.ListingSummary, 0, len(models))
	for _, m := range models {
		res = append(res, domain.ListingSummary{
			ID: m.ID, Name: m.Name, Location: m.Location, Price: m.Price, SoldOut: m.SoldOut,
		})
	}
	return res, nil
}

// DeleteListingCascade removes a listing and every dependent row in one
// transaction: likes on the listing and on its reviews, the reviews
// themselves, purchase records, and all wishlist references.
func (s *GormStore) DeleteListingCascade(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var reviewIDs []string
		if err := tx.Model(&ReviewModel{}).Where("listing_id = ?", id).Pluck("id", &reviewIDs).Error; err != nil {
			return err
		}
		if err := tx.Delete(&LikeModel{}, "listing_id = ?", id).Error; err != nil {
			return err
		}
		if len(reviewIDs) > 0 {
			if err := tx.Delete(&LikeModel{}, "review_id IN ?", reviewIDs).Error; err != nil {
				return err
			}
		}
		if err := tx.Delete(&ReviewModel{}, "listing_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&PurchaseModel{}, "listing_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&WishlistItemModel{}, "listing_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Delete(&ListingModel{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// SaveReview stores a new review.
func (s *GormStore) SaveReview(r domain.Review) error {
	model := reviewToModel(r)
	return s.db.Create(&model).Error
}

// GetReview returns a review by ID.
func (s *GormStore) GetReview(id string) (domain.Review, bool, error) {
	var model ReviewModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.Review{}, false, nil
		}
		return domain.Review{}, false, err
	}
	return reviewFromModel(model), true, nil
}

// UpdateReview sets content and rating and returns the updated review.
func (s *GormStore) UpdateReview(id, content string, rating int) (domain.Review, error) {
	res := s.db.Model(&ReviewModel{}).Where("id = ?", id).Updates(map[string]any{
		"content":    content,
		"rating":     rating,
		"updated_at": time.Now().UTC(),
	})
	if res.Error != nil {
		return domain.Review{}, res.Error
	}
	if res.RowsAffected == 0 {
		return domain.Review{}, ErrNotFound
	}
	review, ok, err := s.GetReview(id)
	if err != nil {
		return domain.Review{}, err
	}
	if !ok {
		return domain.Review{}, ErrNotFound
	}
	return review, nil
}

// DeleteReviewCascade removes a review and its likes in one transaction.
func (s *GormStore) DeleteReviewCascade(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&LikeModel{}, "review_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Delete(&ReviewModel{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

type reviewSummaryRow struct {
	ID            string
	Content       string
	Rating        int
	CreatedAt     time.Time
	Username      string
	ProfilePicURL string
	ProfilePicID  string
	LikeCount     int
	Liked         bool
}

// ListListingReviews joins reviewer identity, like counts, and whether the
// viewer liked each review.
func (s *GormStore) ListListingReviews(listingID, viewerID string, page, limit int) (domain.Page[domain.ReviewSummary], error) {
	var total int64
	if err := s.db.Model(&ReviewModel{}).Where("listing_id = ?", listingID).Count(&total).Error; err != nil {
		return domain.Page[domain.ReviewSummary]{}, err
	}
	var rows []reviewSummaryRow
	err := s.db.Raw(`
		SELECT r.id, r.content, r.rating, r.created_at,
		       u.username, u.profile_pic_url, u.profile_pic_id,
		       (SELECT COUNT(*) FROM like_models l WHERE l.review_id = r.id) AS like_count,
		       EXISTS(
		           SELECT 1 FROM like_models l
		           WHERE l.review_id = r.id AND l.liked_by_id = ?
		       ) AS liked
		FROM review_models r
		JOIN user_models u ON u.id = r.owner_id
		WHERE r.listing_id = ?
		ORDER BY r.created_at DESC
		LIMIT ? OFFSET ?`,
		viewerID, listingID, limit, (page-1)*limit,
	).Scan(&rows).Error
	if err != nil {
		return domain.Page[domain.ReviewSummary]{}, err
	}
	items := make([]domain.ReviewSummary, 0, len(rows))
	for _, row := range rows {
		items = append(items, domain.ReviewSummary{
			ID:        row.ID,
			Content:   row.Content,
			Rating:    row.Rating,
			Owner:     domain.Owner{Username: row.Username, ProfilePic: domain.Asset{URL: row.ProfilePicURL, ID: row.ProfilePicID}},
			LikeCount: row.LikeCount,
			Liked:     row.Liked,
			CreatedAt: row.CreatedAt,
		})
	}
	return domain.NewPage(items, total, page, limit), nil
}

// GetListingLike returns the user's like on a listing, if any.
func (s *GormStore) GetListingLike(userID, listingID string) (domain.Like, bool, error) {
	var model LikeModel
	err := s.db.Where("liked_by_id = ? AND listing_id = ?", userID, listingID).First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.Like{}, false, nil
		}
		return domain.Like{}, false, err
	}
	return likeFromModel(model), true, nil
}

// GetReviewLike returns the user's like on a review, if any.
func (s *GormStore) GetReviewLike(userID, reviewID string) (domain.Like, bool, error) {
	var model LikeModel
	err := s.db.Where("liked_by_id = ? AND review_id = ?", userID, reviewID).First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.Like{}, false, nil
		}
		return domain.Like{}, false, err
	}
	return likeFromModel(model), true, nil
}

// SaveLike stores a new like row.
func (s *GormStore) SaveLike(l domain.Like) error {
	model := likeToModel(l)
	return s.db.Create(&model).Error
}

// DeleteLike removes a like row by ID.
func (s *GormStore) DeleteLike(id string) error {
	return s.db.Delete(&LikeModel{}, "id = ?", id).Error
}

// ListLikedListings returns listings the user liked, with owner identity.
func (s *GormStore) ListLikedListings(userID string) ([]domain.ListingWithOwner, error) {
	var models []ListingModel
	err := s.db.
		Joins("JOIN like_models l ON l.listing_id = listing_models.id").
		Where("l.liked_by_id = ?", userID).
		Order("l.created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return s.withOwners(models)
}

// GetPurchaseByListing returns the purchase record for a listing, if any.
func (s *GormStore) GetPurchaseByListing(listingID string) (domain.Purchase, bool, error) {
	var model PurchaseModel
	if err := s.db.Where("listing_id = ?", listingID).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.Purchase{}, false, nil
		}
		return domain.Purchase{}, false, err
	}
	return purchaseFromModel(model), true, nil
}

// RecordPurchase inserts the purchase and marks the listing sold in one
// transaction. The unique index on listing_id rejects a concurrent duplicate.
func (s *GormStore) RecordPurchase(p domain.Purchase) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		model := PurchaseModel{ID: p.ID, ListingID: p.ListingID, BuyerID: p.BuyerID, CreatedAt: p.CreatedAt}
		if err := tx.Create(&model).Error; err != nil {
			return err
		}
		return tx.Model(&ListingModel{}).Where("id = ?", p.ListingID).Updates(map[string]any{
			"sold_out":   true,
			"updated_at": time.Now().UTC(),
		}).Error
	})
}

// ListPurchasesByBuyer returns purchases joined with the bought listing.
func (s *GormStore) ListPurchasesByBuyer(buyerID string) ([]domain.PurchaseRecord, error) {
	var rows []struct {
		ID        string
		ListingID string
		Name      string
		OwnerID   string
		Price     int64
		CreatedAt time.Time
	}
	err := s.db.Raw(`
		SELECT p.id, p.listing_id, l.name, l.owner_id, l.price, p.created_at
		FROM purchase_models p
		JOIN listing_models l ON l.id = p.listing_id
		WHERE p.buyer_id = ?
		ORDER BY p.created_at DESC`,
		buyerID,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	res := make([]domain.PurchaseRecord, 0, len(rows))
	for _, row := range rows {
		res = append(res, domain.PurchaseRecord(row))
	}
	return res, nil
}

func (s *GormStore) withOwners(models []ListingModel) ([]domain.ListingWithOwner, error) {
	ownerIDs := make([]string, 0, len(models))
	for _, m := range models {
		ownerIDs = append(ownerIDs, m.OwnerID)
	}
	owners := make(map[string]UserModel, len(ownerIDs))
	if len(ownerIDs) > 0 {
		var users []UserModel
		if err := s.db.Where("id IN ?", ownerIDs).Find(&users).Error; err != nil {
			return nil, err
		}
		for _, u := range users {
			owners[u.ID] = u
		}
	}
	res := make([]domain.ListingWithOwner, 0, len(models))
	for _, m := range models {
		listing, err := listingFromModel(m)
		if err != nil {
			return nil, err
		}
		owner := owners[m.OwnerID]
		res = append(res, domain.ListingWithOwner{
			Listing: listing,
			Owner: domain.Owner{
				Username:   owner.Username,
				FullName:   owner.FullName,
				ProfilePic: domain.Asset{URL: owner.ProfilePicURL, ID: owner.ProfilePicID},
			},
		})
	}
	return res, nil
}

func userToModel(u domain.User) UserModel {
	return UserModel{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		FullName:      u.FullName,
		PasswordHash:  u.PasswordHash,
		ProfilePicURL: u.ProfilePic.URL,
		ProfilePicID:  u.ProfilePic.ID,
		RefreshToken:  u.RefreshToken,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

func userFromModel(m UserModel) domain.User {
	return domain.User{
		ID:           m.ID,
		Username:     m.Username,
		Email:        m.Email,
		FullName:     m.FullName,
		PasswordHash: m.PasswordHash,
		ProfilePic:   domain.Asset{URL: m.ProfilePicURL, ID: m.ProfilePicID},
		RefreshToken: m.RefreshToken,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func listingToModel(l domain.Listing) (ListingModel, error) {
	facility, err := json.Marshal(l.Facility)
	if err != nil {
		return ListingModel{}, fmt.Errorf("marshal facility: %w", err)
	}
	pictures, err := json.Marshal(l.Pictures)
	if err != nil {
		return ListingModel{}, fmt.Errorf("marshal pictures: %w", err)
	}
	return ListingModel{
		ID:           l.ID,
		Name:         l.Name,
		Description:  l.Description,
		AddressLine1: l.AddressLine1,
		AddressLine2: l.AddressLine2,
		Location:     l.Location,
		Facility:     facility,
		VideoURL:     l.VideoFile.URL,
		VideoID:      l.VideoFile.ID,
		Pictures:     pictures,
		Views:        l.Views,
		Price:        l.Price,
		SoldOut:      l.SoldOut,
		OwnerID:      l.OwnerID,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}, nil
}

func listingFromModel(m ListingModel) (domain.Listing, error) {
	var facility domain.Facility
	if len(m.Facility) > 0 {
		if err := json.Unmarshal(m.Facility, &facility); err != nil {
			return domain.Listing{}, fmt.Errorf("unmarshal facility: %w", err)
		}
	}
	var pictures []domain.Asset
	if len(m.Pictures) > 0 {
		if err := json.Unmarshal(m.Pictures, &pictures); err != nil {
			return domain.Listing{}, fmt.Errorf("unmarshal pictures: %w", err)
		}
	}
	return domain.Listing{
		ID:           m.ID,
		Name:         m.Name,
		Description:  m.Description,
		AddressLine1: m.AddressLine1,
		AddressLine2: m.AddressLine2,
		Location:     m.Location,
		Facility:     facility,
		VideoFile:    domain.Asset{URL: m.VideoURL, ID: m.VideoID},
		Pictures:     pictures,
		Views:        m.Views,
		Price:        m.Price,
		SoldOut:      m.SoldOut,
		OwnerID:      m.OwnerID,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}, nil
}

func reviewToModel(r domain.Review) ReviewModel {
	return ReviewModel{
		ID:        r.ID,
		Content:   r.Content,
		Rating:    r.Rating,
		ListingID: r.ListingID,
		OwnerID:   r.OwnerID,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func reviewFromModel(m ReviewModel) domain.Review {
	return domain.Review{
		ID:        m.ID,
		Content:   m.Content,
		Rating:    m.Rating,
		ListingID: m.ListingID,
		OwnerID:   m.OwnerID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func likeToModel(l domain.Like) LikeModel {
	model := LikeModel{ID: l.ID, LikedByID: l.LikedByID, CreatedAt: l.CreatedAt}
	if l.ListingID != "" {
		model.ListingID = &l.ListingID
	}
	if l.ReviewID != "" {
		model.ReviewID = &l.ReviewID
	}
	return model
}

func likeFromModel(m LikeModel) domain.Like {
	like := domain.Like{ID: m.ID, LikedByID: m.LikedByID, CreatedAt: m.CreatedAt}
	if m.ListingID != nil {
		like.ListingID = *m.ListingID
	}
	if m.ReviewID != nil {
		like.ReviewID = *m.ReviewID
	}
	return like
}

func purchaseFromModel(m PurchaseModel) domain.Purchase {
	return domain.Purchase{ID: m.ID, ListingID: m.ListingID, BuyerID: m.BuyerID, CreatedAt: m.CreatedAt}
}
