package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"estately/internal/app"
	"estately/pkg/domain"
)

const maxMultipartMemory = 32 << 20

// Config wires required dependencies for the HTTP server.
type Config struct {
	App *app.App

	// UploadDir is where multipart uploads are spooled before they are
	// pushed to object storage. Empty means the OS temp dir.
	UploadDir string

	// CookieSecure marks auth cookies Secure. Disable only for local
	// development over plain HTTP.
	CookieSecure bool
}

// Server exposes the HTTP API.
type Server struct {
	app          *app.App
	mux          *http.ServeMux
	uploadDir    string
	cookieSecure bool
}

// New constructs the server with routes configured.
func New(cfg Config) *Server {
	s := &Server{
		app:          cfg.App,
		mux:          http.NewServeMux(),
		uploadDir:    cfg.UploadDir,
		cookieSecure: cfg.CookieSecure,
	}
	s.routes()
	return s
}

// Router returns the configured handler.
func (s *Server) Router() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	s.mux.HandleFunc("/healthz", s.handleHealth)

	// users
	s.mux.HandleFunc("/api/v1/users/register", s.handleRegister)
	s.mux.HandleFunc("/api/v1/users/login", s.handleLogin)
	s.mux.HandleFunc("/api/v1/users/refresh-token", s.handleRefresh)
	s.mux.Handle("/api/v1/users/logout", s.authenticated(s.handleLogout))
	s.mux.Handle("/api/v1/users/current-user", s.authenticated(s.handleCurrentUser))
	s.mux.Handle("/api/v1/users/change-password", s.authenticated(s.handleChangePassword))
	s.mux.Handle("/api/v1/users/update-details", s.authenticated(s.handleUpdateDetails))
	s.mux.Handle("/api/v1/users/profile-pic", s.authenticated(s.handleProfilePic))
	s.mux.Handle("/api/v1/users/delete", s.authenticated(s.handleDeleteAccount))
	s.mux.HandleFunc("/api/v1/users/profile/", s.handleProfile)
	s.mux.Handle("/api/v1/users/wishlist", s.authenticated(s.handleWishlist))

	// listings
	s.mux.HandleFunc("/api/v1/listings", s.handleListings)
	s.mux.HandleFunc("/api/v1/listings/", s.handleListingByID)

	// likes
	s.mux.Handle("/api/v1/likes/listings", s.authenticated(s.handleLikedListings))
	s.mux.Handle("/api/v1/likes/listings/", s.authenticated(s.handleToggleListingLike))
	s.mux.Handle("/api/v1/likes/reviews/", s.authenticated(s.handleToggleReviewLike))

	// reviews
	s.mux.HandleFunc("/api/v1/reviews/listing/", s.handleListingReviews)
	s.mux.Handle("/api/v1/reviews/", s.authenticated(s.handleReviewByID))

	// purchases and dashboard
	s.mux.Handle("/api/v1/purchases/", s.authenticated(s.handlePurchase))
	s.mux.Handle("/api/v1/dashboard/listings", s.authenticated(s.handleMyListings))
	s.mux.Handle("/api/v1/dashboard/purchases", s.authenticated(s.handleMyPurchases))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// auth wrappers
type authHandler func(http.ResponseWriter, *http.Request, domain.User)

func (s *Server) authenticated(next authHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := s.authorize(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next(w, r, user)
	})
}

// authorize resolves the caller from the Authorization header, falling back
// to the accessToken cookie set at login.
func (s *Server) authorize(r *http.Request) (domain.User, bool) {
	token, ok := bearerToken(r)
	if !ok {
		cookie, err := r.Cookie(accessTokenCookie)
		if err != nil || cookie.Value == "" {
			return domain.User{}, false
		}
		token = cookie.Value
	}
	return s.app.UserFromAccessToken(token)
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if token == "" {
		return "", false
	}
	return token, true
}

// auth cookies
const (
	accessTokenCookie  = "accessToken"
	refreshTokenCookie = "refreshToken"
)

func (s *Server) setAuthCookies(w http.ResponseWriter, pair app.TokenPair) {
	http.SetCookie(w, &http.Cookie{
		Name:     accessTokenCookie,
		Value:    pair.AccessToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     refreshTokenCookie,
		Value:    pair.RefreshToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearAuthCookies(w http.ResponseWriter) {
	for _, name := range []string{accessTokenCookie, refreshTokenCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			Secure:   s.cookieSecure,
			SameSite: http.SameSiteLaxMode,
			Expires:  time.Unix(0, 0),
			MaxAge:   -1,
		})
	}
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeAppError maps application errors to HTTP status codes. Unknown errors
// become a generic 500 so internals never leak to clients.
func writeAppError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, app.ErrValidation), errors.Is(err, app.ErrOwnListing):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, app.ErrInvalidCredentials),
		errors.Is(err, app.ErrUnauthorized),
		errors.Is(err, app.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, app.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, app.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, app.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	default:
		slog.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
