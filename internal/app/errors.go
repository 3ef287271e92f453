package app

import "errors"

var (
	// ErrValidation covers malformed or missing request input. Wrap it with
	// fmt.Errorf("%w: detail") so handlers can map it to 400 while keeping
	// the detail for the response body.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidCredentials is returned when the supplied credentials do not match.
	// The message is shown to end users and should not enable account enumeration.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("already exists")
	ErrInvalidToken = errors.New("invalid token")

	// ErrOwnListing is returned when a user tries to buy a listing they own.
	ErrOwnListing = errors.New("cannot purchase your own listing")
)
