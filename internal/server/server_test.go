package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"estately/internal/app"
	"estately/pkg/domain"
	"estately/pkg/storage"
	"estately/pkg/store"
	"estately/pkg/token"
)

func newTestServer(t *testing.T, revoker store.TokenRevoker) *httptest.Server {
	t.Helper()
	tokens, err := token.NewManager("test-access-secret", "test-refresh-secret", time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("new token manager: %v", err)
	}
	if revoker == nil {
		revoker = store.NewMemoryTokenRevoker()
	}
	appCore, err := app.New(app.Config{
		Tokens:  tokens,
		Store:   store.NewMemoryStore(),
		Media:   storage.NewMemoryMediaStore(),
		Revoker: revoker,
	})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	srv := New(Config{App: appCore, UploadDir: t.TempDir()})
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func registerForm(t *testing.T, username string, withPic bool) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	form := multipart.NewWriter(body)
	fields := map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
		"fullName": "Test " + username,
	}
	for k, v := range fields {
		if err := form.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if withPic {
		part, err := form.CreateFormFile("profilePic", "avatar.png")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write([]byte("png-bytes")); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := form.Close(); err != nil {
		t.Fatalf("close form: %v", err)
	}
	return body, form.FormDataContentType()
}

func registerAndLogin(t *testing.T, ts *httptest.Server, username string) (domain.User, app.TokenPair, []*http.Cookie) {
	t.Helper()
	body, contentType := registerForm(t, username, true)
	resp, err := http.Post(ts.URL+"/api/v1/users/register", contentType, body)
	if err != nil {
		t.Fatalf("register request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		payload, _ := io.ReadAll(resp.Body)
		t.Fatalf("register status = %d, body %s", resp.StatusCode, payload)
	}

	loginBody := fmt.Sprintf(`{"username":%q,"password":"password123"}`, username)
	loginResp, err := http.Post(ts.URL+"/api/v1/users/login", "application/json", strings.NewReader(loginBody))
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	defer loginResp.Body.Close()
	if loginResp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(loginResp.Body)
		t.Fatalf("login status = %d, body %s", loginResp.StatusCode, payload)
	}
	var auth struct {
		User         domain.User `json:"user"`
		AccessToken  string      `json:"accessToken"`
		RefreshToken string      `json:"refreshToken"`
	}
	if err := json.NewDecoder(loginResp.Body).Decode(&auth); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	pair := app.TokenPair{AccessToken: auth.AccessToken, RefreshToken: auth.RefreshToken}
	return auth.User, pair, loginResp.Cookies()
}

func doJSON(t *testing.T, method, url, accessToken, body string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	return resp
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, nil)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("healthz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}

func TestRegisterWithProfilePicture(t *testing.T) {
	ts := newTestServer(t, nil)
	body, contentType := registerForm(t, "alice", true)
	resp, err := http.Post(ts.URL+"/api/v1/users/register", contentType, body)
	if err != nil {
		t.Fatalf("register request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		payload, _ := io.ReadAll(resp.Body)
		t.Fatalf("status = %d, body %s", resp.StatusCode, payload)
	}
	var user domain.User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if user.ProfilePic.URL == "" {
		t.Fatal("profile picture expected in response")
	}
}

func TestRegisterWithoutProfilePictureRejected(t *testing.T) {
	ts := newTestServer(t, nil)
	body, contentType := registerForm(t, "alice", false)
	resp, err := http.Post(ts.URL+"/api/v1/users/register", contentType, body)
	if err != nil {
		t.Fatalf("register request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 without a profile picture", resp.StatusCode)
	}
}

func TestLoginSetsAuthCookies(t *testing.T) {
	ts := newTestServer(t, nil)
	_, _, cookies := registerAndLogin(t, ts, "alice")

	var names []string
	for _, c := range cookies {
		names = append(names, c.Name)
		if !c.HttpOnly {
			t.Fatalf("cookie %s must be HttpOnly", c.Name)
		}
	}
	for _, want := range []string{"accessToken", "refreshToken"} {
		found := false
		for _, name := range names {
			if name == want {
				found = true
			}
		}
		if !found {
			t.Fatalf("cookie %s missing, got %v", want, names)
		}
	}
}

func TestCurrentUserViaBearerAndCookie(t *testing.T) {
	ts := newTestServer(t, nil)
	_, pair, cookies := registerAndLogin(t, ts, "alice")

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/v1/users/current-user", pair.AccessToken, "")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("bearer status = %d, want 200", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/v1/users/current-user", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	cookieResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("cookie request: %v", err)
	}
	defer cookieResp.Body.Close()
	if cookieResp.StatusCode != http.StatusOK {
		t.Fatalf("cookie status = %d, want 200", cookieResp.StatusCode)
	}

	anonResp := doJSON(t, http.MethodGet, ts.URL+"/api/v1/users/current-user", "", "")
	defer anonResp.Body.Close()
	if anonResp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("anonymous status = %d, want 401", anonResp.StatusCode)
	}
}

func TestRefreshRotatesCookie(t *testing.T) {
	ts := newTestServer(t, nil)
	_, pair, _ := registerAndLogin(t, ts, "alice")

	body := fmt.Sprintf(`{"refreshToken":%q}`, pair.RefreshToken)
	resp := doJSON(t, http.MethodPost, ts.URL+"/api/v1/users/refresh-token", "", body)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("refresh status = %d, want 200", resp.StatusCode)
	}
	var auth struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&auth); err != nil {
		t.Fatalf("decode refresh response: %v", err)
	}
	if auth.RefreshToken == pair.RefreshToken {
		t.Fatal("refresh token must rotate")
	}

	// The replaced token is rejected.
	replay := doJSON(t, http.MethodPost, ts.URL+"/api/v1/users/refresh-token", "", body)
	defer replay.Body.Close()
	if replay.StatusCode != http.StatusUnauthorized {
		t.Fatalf("replay status = %d, want 401", replay.StatusCode)
	}
}

func TestLogoutRevokesAccessTokenViaRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	ts := newTestServer(t, store.NewRedisTokenRevoker(mr.Addr(), ""))
	_, pair, _ := registerAndLogin(t, ts, "alice")

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/v1/users/logout", pair.AccessToken, "")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("logout status = %d, want 200", resp.StatusCode)
	}

	after := doJSON(t, http.MethodGet, ts.URL+"/api/v1/users/current-user", pair.AccessToken, "")
	defer after.Body.Close()
	if after.StatusCode != http.StatusUnauthorized {
		t.Fatalf("post-logout status = %d, want 401", after.StatusCode)
	}
}

func createListingRequest(t *testing.T, ts *httptest.Server, accessToken, name string) *http.Response {
	t.Helper()
	body := &bytes.Buffer{}
	form := multipart.NewWriter(body)
	fields := map[string]string{
		"name":         name,
		"description":  "a cosy place",
		"addressLine1": "1 Main St",
		"location":     "Springfield",
		"bedroom":      "2",
		"bathroom":     "1",
		"area":         "80",
		"ambience":     "quiet",
		"price":        "250000",
	}
	for k, v := range fields {
		if err := form.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	video, err := form.CreateFormFile("videoFile", "tour.mp4")
	if err != nil {
		t.Fatalf("create video part: %v", err)
	}
	video.Write([]byte("video-bytes"))
	pic, err := form.CreateFormFile("pictures", "front.jpg")
	if err != nil {
		t.Fatalf("create picture part: %v", err)
	}
	pic.Write([]byte("jpg-bytes"))
	if err := form.Close(); err != nil {
		t.Fatalf("close form: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/v1/listings", body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+accessToken)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("create listing: %v", err)
	}
	return resp
}

func TestListingLifecycleOverHTTP(t *testing.T) {
	ts := newTestServer(t, nil)
	_, alicePair, _ := registerAndLogin(t, ts, "alice")
	_, bobPair, _ := registerAndLogin(t, ts, "bob")

	resp := createListingRequest(t, ts, alicePair.AccessToken, "Sunny Flat")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		payload, _ := io.ReadAll(resp.Body)
		t.Fatalf("create status = %d, body %s", resp.StatusCode, payload)
	}
	var listing domain.Listing
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		t.Fatalf("decode listing: %v", err)
	}

	// Public detail fetch counts a view.
	detail := doJSON(t, http.MethodGet, ts.URL+"/api/v1/listings/"+listing.ID, "", "")
	defer detail.Body.Close()
	var fetched domain.Listing
	if err := json.NewDecoder(detail.Body).Decode(&fetched); err != nil {
		t.Fatalf("decode detail: %v", err)
	}
	if fetched.Views != 1 {
		t.Fatalf("views = %d, want 1", fetched.Views)
	}

	// Search finds it, an unmatched query is a 404.
	search := doJSON(t, http.MethodGet, ts.URL+"/api/v1/listings?query=Sunny", "", "")
	defer search.Body.Close()
	if search.StatusCode != http.StatusOK {
		t.Fatalf("search status = %d, want 200", search.StatusCode)
	}
	miss := doJSON(t, http.MethodGet, ts.URL+"/api/v1/listings?query=Castle", "", "")
	defer miss.Body.Close()
	if miss.StatusCode != http.StatusNotFound {
		t.Fatalf("miss status = %d, want 404", miss.StatusCode)
	}

	// Bob cannot delete Alice's listing.
	forbidden := doJSON(t, http.MethodDelete, ts.URL+"/api/v1/listings/"+listing.ID, bobPair.AccessToken, "")
	defer forbidden.Body.Close()
	if forbidden.StatusCode != http.StatusForbidden {
		t.Fatalf("foreign delete status = %d, want 403", forbidden.StatusCode)
	}

	// Bob buys it.
	purchase := doJSON(t, http.MethodPost, ts.URL+"/api/v1/purchases/"+listing.ID, bobPair.AccessToken, "")
	defer purchase.Body.Close()
	if purchase.StatusCode != http.StatusOK {
		t.Fatalf("purchase status = %d, want 200", purchase.StatusCode)
	}

	// Alice deletes her listing.
	deleted := doJSON(t, http.MethodDelete, ts.URL+"/api/v1/listings/"+listing.ID, alicePair.AccessToken, "")
	defer deleted.Body.Close()
	if deleted.StatusCode != http.StatusOK {
		t.Fatalf("delete status = %d, want 200", deleted.StatusCode)
	}
	gone := doJSON(t, http.MethodGet, ts.URL+"/api/v1/listings/"+listing.ID, "", "")
	defer gone.Body.Close()
	if gone.StatusCode != http.StatusNotFound {
		t.Fatalf("gone status = %d, want 404", gone.StatusCode)
	}
}

func TestReviewAndLikeRoutes(t *testing.T) {
	ts := newTestServer(t, nil)
	_, alicePair, _ := registerAndLogin(t, ts, "alice")
	_, bobPair, _ := registerAndLogin(t, ts, "bob")

	resp := createListingRequest(t, ts, alicePair.AccessToken, "Sunny Flat")
	defer resp.Body.Close()
	var listing domain.Listing
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		t.Fatalf("decode listing: %v", err)
	}

	reviewResp := doJSON(t, http.MethodPost, ts.URL+"/api/v1/reviews/listing/"+listing.ID, bobPair.AccessToken, `{"content":"lovely","rating":5}`)
	defer reviewResp.Body.Close()
	if reviewResp.StatusCode != http.StatusCreated {
		payload, _ := io.ReadAll(reviewResp.Body)
		t.Fatalf("review status = %d, body %s", reviewResp.StatusCode, payload)
	}
	var review domain.Review
	if err := json.NewDecoder(reviewResp.Body).Decode(&review); err != nil {
		t.Fatalf("decode review: %v", err)
	}

	likeResp := doJSON(t, http.MethodPost, ts.URL+"/api/v1/likes/reviews/"+review.ID, alicePair.AccessToken, "")
	defer likeResp.Body.Close()
	if likeResp.StatusCode != http.StatusOK {
		t.Fatalf("like status = %d, want 200", likeResp.StatusCode)
	}

	// Anonymous readers see like counts without their own like state.
	listResp := doJSON(t, http.MethodGet, ts.URL+"/api/v1/reviews/listing/"+listing.ID, "", "")
	defer listResp.Body.Close()
	var page domain.Page[domain.ReviewSummary]
	if err := json.NewDecoder(listResp.Body).Decode(&page); err != nil {
		t.Fatalf("decode reviews: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].LikeCount != 1 || page.Items[0].Liked {
		t.Fatalf("reviews = %+v, want one review with one like and Liked=false", page.Items)
	}

	// Listing like toggle.
	toggle := doJSON(t, http.MethodPost, ts.URL+"/api/v1/likes/listings/"+listing.ID, bobPair.AccessToken, "")
	defer toggle.Body.Close()
	var toggled map[string]bool
	if err := json.NewDecoder(toggle.Body).Decode(&toggled); err != nil {
		t.Fatalf("decode toggle: %v", err)
	}
	if !toggled["liked"] {
		t.Fatal("first toggle must like the listing")
	}

	liked := doJSON(t, http.MethodGet, ts.URL+"/api/v1/likes/listings", bobPair.AccessToken, "")
	defer liked.Body.Close()
	var items []domain.ListingWithOwner
	if err := json.NewDecoder(liked.Body).Decode(&items); err != nil {
		t.Fatalf("decode liked listings: %v", err)
	}
	if len(items) != 1 || items[0].ID != listing.ID {
		t.Fatalf("liked listings = %+v, want the toggled listing", items)
	}
}

func TestWishlistRoutes(t *testing.T) {
	ts := newTestServer(t, nil)
	_, alicePair, _ := registerAndLogin(t, ts, "alice")
	_, bobPair, _ := registerAndLogin(t, ts, "bob")

	resp := createListingRequest(t, ts, alicePair.AccessToken, "Sunny Flat")
	defer resp.Body.Close()
	var listing domain.Listing
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		t.Fatalf("decode listing: %v", err)
	}

	add := doJSON(t, http.MethodPost, ts.URL+"/api/v1/listings/"+listing.ID+"/wishlist", bobPair.AccessToken, "")
	defer add.Body.Close()
	if add.StatusCode != http.StatusOK {
		t.Fatalf("wishlist add status = %d, want 200", add.StatusCode)
	}

	list := doJSON(t, http.MethodGet, ts.URL+"/api/v1/users/wishlist", bobPair.AccessToken, "")
	defer list.Body.Close()
	var items []domain.ListingWithOwner
	if err := json.NewDecoder(list.Body).Decode(&items); err != nil {
		t.Fatalf("decode wishlist: %v", err)
	}
	if len(items) != 1 || items[0].Owner.Username != "alice" {
		t.Fatalf("wishlist = %+v, want alice's listing", items)
	}
}
