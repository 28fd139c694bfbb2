package token

import (
	"context"
)

// TokenService defines business logic for issuing and redeeming scan tokens.
type TokenService interface {
	// Issue creates a token bound to an event with an expiry and reuse
	// policy, and returns it together with its wire payload.
	Issue(ctx context.Context, req IssueTokenRequest) (TokenResponse, error)

	// Redeem validates a submitted payload and, on success, records the
	// scan and toggles the scanning employee's attendance session.
	Redeem(ctx context.Context, payload []byte, scanningEmployeeID string) (RedemptionResponse, error)

	// PayloadFor rebuilds the wire payload of an issued token from the
	// store, for rendering into a QR image.
	PayloadFor(ctx context.Context, value string) (Payload, error)

	// Revoke deactivates a token before its expiry.
	Revoke(ctx context.Context, value string) error
}
