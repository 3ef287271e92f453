package server

import (
	"net/http"
	"strconv"
	"strings"

	"estately/internal/app"
	"estately/pkg/domain"
)

func (s *Server) handleListings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleSearch(w, r)
	case http.MethodPost:
		s.authenticated(s.handleCreateListing).ServeHTTP(w, r)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	// Omitted paging params default; supplied ones are validated strictly.
	page := app.SearchPageDefault
	if v := q.Get("page"); v != "" {
		page, _ = strconv.Atoi(v)
	}
	limit := app.SearchLimitDefault
	if v := q.Get("limit"); v != "" {
		limit, _ = strconv.Atoi(v)
	}
	result, err := s.app.Search(app.SearchInput{
		Query:    q.Get("query"),
		Page:     page,
		Limit:    limit,
		SortBy:   q.Get("sortBy"),
		SortType: q.Get("sortType"),
	})
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleCreateListing(w http.ResponseWriter, r *http.Request, user domain.User) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	videoPath, _, err := s.formFile(r, "videoFile")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid video upload")
		return
	}
	picturePaths, err := s.formFiles(r, "pictures")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid picture upload")
		return
	}

	listing, err := s.app.CreateListing(r.Context(), user.ID, app.CreateListingInput{
		Name:         r.FormValue("name"),
		Description:  r.FormValue("description"),
		AddressLine1: r.FormValue("addressLine1"),
		AddressLine2: r.FormValue("addressLine2"),
		Location:     r.FormValue("location"),
		Facility: domain.Facility{
			Bedroom:  formInt(r, "bedroom"),
			Bathroom: formInt(r, "bathroom"),
			Area:     formInt(r, "area"),
			Ambience: r.FormValue("ambience"),
		},
		Price:        formInt64(r, "price"),
		VideoPath:    videoPath,
		PicturePaths: picturePaths,
	})
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, listing)
}

// handleListingByID routes /api/v1/listings/{id} and
// /api/v1/listings/{id}/wishlist.
func (s *Server) handleListingByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/listings/")
	id, sub, _ := strings.Cut(rest, "/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "listing id required")
		return
	}

	if sub == "wishlist" {
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		s.authenticated(func(w http.ResponseWriter, r *http.Request, user domain.User) {
			if err := s.app.AddToWishlist(user.ID, id); err != nil {
				writeAppError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]string{"message": "added to wishlist"})
		}).ServeHTTP(w, r)
		return
	}
	if sub != "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		listing, err := s.app.GetListing(id)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, listing)
	case http.MethodPatch:
		s.authenticated(func(w http.ResponseWriter, r *http.Request, user domain.User) {
			s.handleUpdateListing(w, r, user, id)
		}).ServeHTTP(w, r)
	case http.MethodDelete:
		s.authenticated(func(w http.ResponseWriter, r *http.Request, user domain.User) {
			if err := s.app.DeleteListing(r.Context(), user.ID, id); err != nil {
				writeAppError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]string{"message": "listing deleted"})
		}).ServeHTTP(w, r)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleUpdateListing(w http.ResponseWriter, r *http.Request, user domain.User, id string) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	videoPath, _, err := s.formFile(r, "videoFile")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid video upload")
		return
	}
	picturePaths, err := s.formFiles(r, "pictures")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid picture upload")
		return
	}

	listing, err := s.app.UpdateListing(r.Context(), user.ID, id, app.UpdateListingInput{
		Name:         r.FormValue("name"),
		Description:  r.FormValue("description"),
		Price:        formInt64(r, "price"),
		VideoPath:    videoPath,
		PicturePaths: picturePaths,
	})
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

func formInt(r *http.Request, field string) int {
	n, _ := strconv.Atoi(r.FormValue(field))
	return n
}

func formInt64(r *http.Request, field string) int64 {
	n, _ := strconv.ParseInt(r.FormValue(field), 10, 64)
	return n
}
