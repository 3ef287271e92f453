package token

import (
	"errors"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"estately/pkg/domain"
)

const defaultIssuer = "estately"

var defaultLeeway = 30 * time.Second

// ErrInvalidToken is returned for tokens that fail signature, expiry, or
// claim validation.
var ErrInvalidToken = errors.New("invalid token")

// AccessClaims carries the identity embedded in an access token.
type AccessClaims struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	jwt.RegisteredClaims
}

// Manager issues and validates the access/refresh token pair. Both tokens
// are HS256 JWTs; the refresh token carries only the subject ID.
type Manager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	issuer        string
}

// NewManager builds a token manager. Both secrets are required and must
// differ so a refresh token can never pass as an access token.
func NewManager(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) (*Manager, error) {
	if strings.TrimSpace(accessSecret) == "" || strings.TrimSpace(refreshSecret) == "" {
		return nil, errors.New("token secrets are required")
	}
	if accessSecret == refreshSecret {
		return nil, errors.New("access and refresh token secrets must differ")
	}
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &Manager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		issuer:        defaultIssuer,
	}, nil
}

// AccessToken signs a short-lived token carrying the user's identity.
func (m *Manager) AccessToken(u domain.User) (string, error) {
	now := time.Now().UTC()
	claims := AccessClaims{
		Email:    u.Email,
		Username: u.Username,
		FullName: u.FullName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			Issuer:    m.issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.accessSecret)
}

// RefreshToken signs a long-lived token carrying only the subject ID.
func (m *Manager) RefreshToken(userID string) (string, error) {
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		Issuer:    m.issuer,
		ExpiresAt: jwt.NewNumericDate(now.Add(m.refreshTTL)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ID:        uuid.NewString(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.refreshSecret)
}

// ParseAccess verifies an access token and returns its claims.
func (m *Manager) ParseAccess(token string) (AccessClaims, error) {
	claims := AccessClaims{}
	parsed, err := jwt.ParseWithClaims(strings.TrimSpace(token), &claims, func(t *jwt.Token) (any, error) {
		return m.accessSecret, nil
	}, m.parserOptions()...)
	if err != nil || !parsed.Valid {
		return AccessClaims{}, ErrInvalidToken
	}
	if strings.TrimSpace(claims.Subject) == "" || strings.TrimSpace(claims.ID) == "" {
		return AccessClaims{}, ErrInvalidToken
	}
	return claims, nil
}

// ParseRefresh verifies a refresh token and returns its claims.
func (m *Manager) ParseRefresh(token string) (jwt.RegisteredClaims, error) {
	claims := jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(strings.TrimSpace(token), &claims, func(t *jwt.Token) (any, error) {
		return m.refreshSecret, nil
	}, m.parserOptions()...)
	if err != nil || !parsed.Valid {
		return jwt.RegisteredClaims{}, ErrInvalidToken
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return jwt.RegisteredClaims{}, ErrInvalidToken
	}
	return claims, nil
}

func (m *Manager) parserOptions() []jwt.ParserOption {
	return []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(defaultLeeway),
	}
}
