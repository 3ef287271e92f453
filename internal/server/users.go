package server

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"strings"

	"estately/internal/app"
	"estately/pkg/domain"
)

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	User         domain.User `json:"user"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type updateDetailsRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	picPath, _, err := s.formFile(r, "profilePic")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid profile picture upload")
		return
	}

	user, err := s.app.Register(r.Context(), app.RegisterInput{
		Username:       r.FormValue("username"),
		Email:          r.FormValue("email"),
		Password:       r.FormValue("password"),
		FullName:       r.FormValue("fullName"),
		ProfilePicPath: picPath,
	})
	if err != nil {
		if picPath != "" {
			os.Remove(picPath)
		}
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req loginRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	login := req.Username
	if login == "" {
		login = req.Email
	}
	user, pair, err := s.app.Login(login, req.Password)
	if err != nil {
		writeAppError(w, err)
		return
	}
	s.setAuthCookies(w, pair)
	writeJSON(w, http.StatusOK, authResponse{User: user, AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

// handleRefresh accepts the refresh token from the cookie or, for non-browser
// clients, from the request body.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	refreshToken := ""
	if cookie, err := r.Cookie(refreshTokenCookie); err == nil {
		refreshToken = cookie.Value
	}
	if refreshToken == "" {
		var req struct {
			RefreshToken string `json:"refreshToken"`
		}
		if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err == nil {
			refreshToken = req.RefreshToken
		}
	}
	user, pair, err := s.app.Refresh(refreshToken)
	if err != nil {
		writeAppError(w, err)
		return
	}
	s.setAuthCookies(w, pair)
	writeJSON(w, http.StatusOK, authResponse{User: user, AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request, user domain.User) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	accessToken, ok := bearerToken(r)
	if !ok {
		if cookie, err := r.Cookie(accessTokenCookie); err == nil {
			accessToken = cookie.Value
		}
	}
	if err := s.app.Logout(user.ID, accessToken); err != nil {
		writeAppError(w, err)
		return
	}
	s.clearAuthCookies(w)
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (s *Server) handleCurrentUser(w http.ResponseWriter, r *http.Request, user domain.User) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	current, err := s.app.CurrentUser(user.ID)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, current)
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request, user domain.User) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req changePasswordRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.app.ChangePassword(user.ID, req.OldPassword, req.NewPassword); err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "password changed"})
}

func (s *Server) handleUpdateDetails(w http.ResponseWriter, r *http.Request, user domain.User) {
	if r.Method != http.MethodPatch {
		methodNotAllowed(w)
		return
	}
	var req updateDetailsRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	updated, err := s.app.UpdateDetails(user.ID, req.FullName, req.Email)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleProfilePic(w http.ResponseWriter, r *http.Request, user domain.User) {
	if r.Method != http.MethodPatch {
		methodNotAllowed(w)
		return
	}
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	picPath, ok, err := s.formFile(r, "profilePic")
	if err != nil || !ok {
		writeError(w, http.StatusBadRequest, "profile picture file required")
		return
	}
	updated, err := s.app.UpdateProfilePic(r.Context(), user.ID, picPath)
	if err != nil {
		os.Remove(picPath)
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request, user domain.User) {
	if r.Method != http.MethodDelete {
		methodNotAllowed(w)
		return
	}
	if err := s.app.DeleteAccount(r.Context(), user.ID); err != nil {
		writeAppError(w, err)
		return
	}
	s.clearAuthCookies(w)
	writeJSON(w, http.StatusOK, map[string]string{"message": "account deleted"})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	username := strings.TrimPrefix(r.URL.Path, "/api/v1/users/profile/")
	if username == "" || strings.Contains(username, "/") {
		writeError(w, http.StatusBadRequest, "username required")
		return
	}
	profile, err := s.app.Profile(username)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleWishlist(w http.ResponseWriter, r *http.Request, user domain.User) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	items, err := s.app.Wishlist(user.ID)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}
