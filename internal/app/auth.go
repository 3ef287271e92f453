package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"estately/internal/util"
	"estately/pkg/auth"
	"estately/pkg/domain"
)

// TokenPair carries a freshly issued access and refresh token.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// RegisterInput is the payload for account creation. ProfilePicPath points at
// a spooled upload on local disk and is required.
type RegisterInput struct {
	Username       string
	Email          string
	Password       string
	FullName       string
	ProfilePicPath string
}

// Register creates a new account and stores the optional profile picture.
func (a *App) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	username := strings.ToLower(strings.TrimSpace(in.Username))
	email := strings.TrimSpace(in.Email)
	fullName := strings.TrimSpace(in.FullName)

	if username == "" || email == "" || in.Password == "" || fullName == "" {
		return domain.User{}, fmt.Errorf("%w: all fields are required", ErrValidation)
	}
	if !strings.Contains(email, "@") {
		return domain.User{}, fmt.Errorf("%w: invalid email address", ErrValidation)
	}
	if len(in.Password) < auth.MinPasswordLength {
		return domain.User{}, fmt.Errorf("%w: password must be at least %d characters", ErrValidation, auth.MinPasswordLength)
	}

	exists, err := a.store.HasUser(username, email)
	if err != nil {
		return domain.User{}, fmt.Errorf("check user: %w", err)
	}
	if exists {
		return domain.User{}, fmt.Errorf("%w: username or email already taken", ErrConflict)
	}
	if in.ProfilePicPath == "" {
		return domain.User{}, fmt.Errorf("%w: profile picture is required", ErrValidation)
	}

	passwordHash, err := auth.HashPassword(in.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	pic, err := a.media.UploadImage(ctx, in.ProfilePicPath)
	if err != nil {
		return domain.User{}, fmt.Errorf("upload profile picture: %w", err)
	}

	user := domain.User{
		ID:           util.NewID(),
		Username:     username,
		Email:        email,
		FullName:     fullName,
		PasswordHash: passwordHash,
		ProfilePic:   pic,
		CreatedAt:    time.Now().UTC(),
	}
	if err := a.store.SaveUser(user); err != nil {
		if pic.ID != "" {
			if derr := a.media.DeleteImage(ctx, pic.ID); derr != nil {
				slog.Warn("orphaned profile picture after failed registration", "asset_id", pic.ID, "error", derr)
			}
		}
		return domain.User{}, fmt.Errorf("save user: %w", err)
	}
	return sanitizeUser(user), nil
}

// Login validates credentials against username or email and issues tokens.
// The refresh token is persisted on the account so it can be matched and
// rotated on refresh.
func (a *App) Login(usernameOrEmail, password string) (domain.User, TokenPair, error) {
	login := strings.TrimSpace(usernameOrEmail)
	if login == "" || password == "" {
		return domain.User{}, TokenPair{}, fmt.Errorf("%w: username and password required", ErrValidation)
	}
	user, ok, err := a.store.GetUserByLogin(login)
	if err != nil {
		return domain.User{}, TokenPair{}, fmt.Errorf("fetch user: %w", err)
	}
	if !ok {
		return domain.User{}, TokenPair{}, fmt.Errorf("%w: user", ErrNotFound)
	}
	if !auth.CheckPassword(password, user.PasswordHash) {
		return domain.User{}, TokenPair{}, ErrInvalidCredentials
	}
	pair, err := a.issueTokens(user)
	if err != nil {
		return domain.User{}, TokenPair{}, err
	}
	return sanitizeUser(user), pair, nil
}

// Refresh validates the presented refresh token against the persisted copy
// and rotates it, returning a new token pair.
func (a *App) Refresh(refreshToken string) (domain.User, TokenPair, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return domain.User{}, TokenPair{}, fmt.Errorf("%w: refresh token required", ErrUnauthorized)
	}
	claims, err := a.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return domain.User{}, TokenPair{}, ErrInvalidToken
	}
	user, ok, err := a.store.GetUserByID(claims.Subject)
	if err != nil {
		return domain.User{}, TokenPair{}, fmt.Errorf("fetch user: %w", err)
	}
	if !ok || user.RefreshToken != refreshToken {
		return domain.User{}, TokenPair{}, ErrInvalidToken
	}
	pair, err := a.issueTokens(user)
	if err != nil {
		return domain.User{}, TokenPair{}, err
	}
	return sanitizeUser(user), pair, nil
}

// Logout clears the persisted refresh token and revokes the access token so
// it cannot be replayed for the rest of its lifetime.
func (a *App) Logout(userID, accessToken string) error {
	if err := a.store.SetRefreshToken(userID, ""); err != nil {
		return fmt.Errorf("clear refresh token: %w", err)
	}
	if claims, err := a.tokens.ParseAccess(accessToken); err == nil && claims.ExpiresAt != nil {
		ttl := time.Until(claims.ExpiresAt.Time)
		if ttl > 0 {
			if err := a.revoker.Revoke(claims.ID, ttl); err != nil {
				slog.Warn("failed to revoke access token", "error", err)
			}
		}
	}
	return nil
}

// UserFromAccessToken resolves a user from a non-revoked access token.
// The user record is reloaded from storage so stale claims never win.
func (a *App) UserFromAccessToken(accessToken string) (domain.User, bool) {
	claims, err := a.tokens.ParseAccess(accessToken)
	if err != nil {
		return domain.User{}, false
	}
	revoked, err := a.revoker.IsRevoked(claims.ID)
	if err != nil || revoked {
		return domain.User{}, false
	}
	user, ok, err := a.store.GetUserByID(claims.Subject)
	if err != nil || !ok {
		return domain.User{}, false
	}
	return user, true
}

// CurrentUser returns the account behind userID without credential fields.
func (a *App) CurrentUser(userID string) (domain.User, error) {
	user, ok, err := a.store.GetUserByID(userID)
	if err != nil {
		return domain.User{}, fmt.Errorf("fetch user: %w", err)
	}
	if !ok {
		return domain.User{}, fmt.Errorf("%w: user", ErrNotFound)
	}
	return sanitizeUser(user), nil
}

// ChangePassword verifies the old password before storing the new hash.
func (a *App) ChangePassword(userID, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return fmt.Errorf("%w: old and new password required", ErrValidation)
	}
	if len(newPassword) < auth.MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrValidation, auth.MinPasswordLength)
	}
	user, ok, err := a.store.GetUserByID(userID)
	if err != nil {
		return fmt.Errorf("fetch user: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: user", ErrNotFound)
	}
	if !auth.CheckPassword(oldPassword, user.PasswordHash) {
		return ErrInvalidCredentials
	}
	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := a.store.SetPassword(userID, hash); err != nil {
		return fmt.Errorf("save password: %w", err)
	}
	return nil
}

// UpdateDetails changes the user's full name and/or email. At least one
// field must be present.
func (a *App) UpdateDetails(userID, fullName, email string) (domain.User, error) {
	fullName = strings.TrimSpace(fullName)
	email = strings.TrimSpace(email)
	if fullName == "" && email == "" {
		return domain.User{}, fmt.Errorf("%w: full name or email required", ErrValidation)
	}
	if email != "" && !strings.Contains(email, "@") {
		return domain.User{}, fmt.Errorf("%w: invalid email address", ErrValidation)
	}
	user, err := a.store.UpdateUserDetails(userID, fullName, email)
	if err != nil {
		return domain.User{}, fmt.Errorf("update details: %w", err)
	}
	return sanitizeUser(user), nil
}

// UpdateProfilePic uploads the replacement picture before removing the old
// one, so a failed upload leaves the current picture intact.
func (a *App) UpdateProfilePic(ctx context.Context, userID, localPath string) (domain.User, error) {
	if localPath == "" {
		return domain.User{}, fmt.Errorf("%w: profile picture required", ErrValidation)
	}
	user, ok, err := a.store.GetUserByID(userID)
	if err != nil {
		return domain.User{}, fmt.Errorf("fetch user: %w", err)
	}
	if !ok {
		return domain.User{}, fmt.Errorf("%w: user", ErrNotFound)
	}
	pic, err := a.media.UploadImage(ctx, localPath)
	if err != nil {
		return domain.User{}, fmt.Errorf("upload profile picture: %w", err)
	}
	old := user.ProfilePic
	updated, err := a.store.SetProfilePic(userID, pic)
	if err != nil {
		if derr := a.media.DeleteImage(ctx, pic.ID); derr != nil {
			slog.Warn("orphaned profile picture after failed update", "asset_id", pic.ID, "error", derr)
		}
		return domain.User{}, fmt.Errorf("save profile picture: %w", err)
	}
	if old.ID != "" {
		if derr := a.media.DeleteImage(ctx, old.ID); derr != nil {
			slog.Warn("failed to delete replaced profile picture", "asset_id", old.ID, "error", derr)
		}
	}
	return sanitizeUser(updated), nil
}

// DeleteAccount removes the user record and their profile picture. Listings
// owned by the account are left in place and keep referencing the owner id.
func (a *App) DeleteAccount(ctx context.Context, userID string) error {
	user, ok, err := a.store.GetUserByID(userID)
	if err != nil {
		return fmt.Errorf("fetch user: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: user", ErrNotFound)
	}
	if err := a.store.DeleteUser(userID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if user.ProfilePic.ID != "" {
		if derr := a.media.DeleteImage(ctx, user.ProfilePic.ID); derr != nil {
			slog.Warn("failed to delete profile picture of removed account", "asset_id", user.ProfilePic.ID, "error", derr)
		}
	}
	return nil
}

// Profile returns the public profile for a username.
func (a *App) Profile(username string) (domain.Profile, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return domain.Profile{}, fmt.Errorf("%w: username required", ErrValidation)
	}
	profile, ok, err := a.store.GetProfile(username)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("fetch profile: %w", err)
	}
	if !ok {
		return domain.Profile{}, fmt.Errorf("%w: user", ErrNotFound)
	}
	return profile, nil
}

func (a *App) issueTokens(user domain.User) (TokenPair, error) {
	access, err := a.tokens.AccessToken(user)
	if err != nil {
		return TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := a.tokens.RefreshToken(user.ID)
	if err != nil {
		return TokenPair{}, fmt.Errorf("sign refresh token: %w", err)
	}
	if err := a.store.SetRefreshToken(user.ID, refresh); err != nil {
		return TokenPair{}, fmt.Errorf("persist refresh token: %w", err)
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func sanitizeUser(user domain.User) domain.User {
	user.PasswordHash = ""
	user.RefreshToken = ""
	return user
}
