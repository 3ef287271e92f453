package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"estately/pkg/domain"
)

type reviewRequest struct {
	Content string `json:"content"`
	Rating  int    `json:"rating"`
}

func (s *Server) handleLikedListings(w http.ResponseWriter, r *http.Request, user domain.User) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	items, err := s.app.LikedListings(user.ID)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleToggleListingLike(w http.ResponseWriter, r *http.Request, user domain.User) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/v1/likes/listings/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "listing id required")
		return
	}
	liked, err := s.app.ToggleListingLike(user.ID, id)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"liked": liked})
}

func (s *Server) handleToggleReviewLike(w http.ResponseWriter, r *http.Request, user domain.User) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/v1/likes/reviews/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "review id required")
		return
	}
	liked, err := s.app.ToggleReviewLike(user.ID, id)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"liked": liked})
}

// handleListingReviews serves /api/v1/reviews/listing/{id}. Reading reviews
// is public, posting one requires authentication.
func (s *Server) handleListingReviews(w http.ResponseWriter, r *http.Request) {
	listingID := strings.TrimPrefix(r.URL.Path, "/api/v1/reviews/listing/")
	if listingID == "" || strings.Contains(listingID, "/") {
		writeError(w, http.StatusBadRequest, "listing id required")
		return
	}
	switch r.Method {
	case http.MethodGet:
		// The viewer is optional. A valid token marks their own likes.
		viewerID := ""
		if user, ok := s.authorize(r); ok {
			viewerID = user.ID
		}
		q := r.URL.Query()
		page, _ := strconv.Atoi(q.Get("page"))
		limit, _ := strconv.Atoi(q.Get("limit"))
		reviews, err := s.app.ListingReviews(listingID, viewerID, page, limit)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, reviews)
	case http.MethodPost:
		s.authenticated(func(w http.ResponseWriter, r *http.Request, user domain.User) {
			var req reviewRequest
			if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid JSON body")
				return
			}
			review, err := s.app.AddReview(user.ID, listingID, req.Content, req.Rating)
			if err != nil {
				writeAppError(w, err)
				return
			}
			writeJSON(w, http.StatusCreated, review)
		}).ServeHTTP(w, r)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleReviewByID(w http.ResponseWriter, r *http.Request, user domain.User) {
	id := strings.TrimPrefix(r.URL.Path, "/api/v1/reviews/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "review id required")
		return
	}
	switch r.Method {
	case http.MethodPatch:
		var req reviewRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		review, err := s.app.UpdateReview(user.ID, id, req.Content, req.Rating)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, review)
	case http.MethodDelete:
		if err := s.app.DeleteReview(user.ID, id); err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "review deleted"})
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handlePurchase(w http.ResponseWriter, r *http.Request, user domain.User) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	listingID := strings.TrimPrefix(r.URL.Path, "/api/v1/purchases/")
	if listingID == "" || strings.Contains(listingID, "/") {
		writeError(w, http.StatusBadRequest, "listing id required")
		return
	}
	result, err := s.app.Purchase(user.ID, listingID)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleMyListings(w http.ResponseWriter, r *http.Request, user domain.User) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	listings, err := s.app.MyListings(user.ID)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listings)
}

func (s *Server) handleMyPurchases(w http.ResponseWriter, r *http.Request, user domain.User) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	purchases, err := s.app.MyPurchases(user.ID)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, purchases)
}
