package token

import (
	"context"
)

// TokenRepository defines data access methods for scan tokens.
type TokenRepository interface {
	// Create persists a new token. Returns ErrTokenExists when the token
	// value collides with an existing row so the issuer can retry with a
	// fresh value.
	Create(ctx context.Context, t ScanToken) (ScanToken, error)

	// GetByValue retrieves a token by its opaque value.
	GetByValue(ctx context.Context, value string) (ScanToken, error)

	// RecordScan atomically increments the scan count of an active token,
	// deactivating it when deactivate is true (single-use exhaustion).
	// Returns ErrTokenInactive when the token was already deactivated, so
	// concurrent single-use redemptions admit exactly one winner even
	// without the service-level lock.
	RecordScan(ctx context.Context, value string, deactivate bool) (ScanToken, error)

	// Deactivate revokes a token explicitly without recording a scan.
	Deactivate(ctx context.Context, value string) error
}
