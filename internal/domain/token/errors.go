package token

import "errors"

// Scan token domain errors
var (
	// Redemption errors
	ErrMalformedPayload = errors.New("scan payload is malformed")
	ErrTokenExpired     = errors.New("scan token has expired")
	ErrTokenNotFound    = errors.New("scan token not found")
	ErrTokenInactive    = errors.New("scan token is no longer active")
	ErrEventUnavailable = errors.New("event is not available for scanning")

	// Storage errors
	ErrTokenExists      = errors.New("scan token value already exists")
	ErrStoreUnavailable = errors.New("scan token store unavailable")
)
