package token

import (
	"encoding/json"
	"time"
)

// Payload is the wire shape encoded into the displayable QR code. The scanning
// device submits it back verbatim. Only the Token field carries authority; the
// expiry and event name are advisory copies for display, the authoritative
// values always come from the token store.
type Payload struct {
	Token     string `json:"token"`
	EventID   string `json:"event_id"`
	ExpiresAt string `json:"expires_at"` // RFC 3339
	EventName string `json:"event_name"`
}

// NewPayload builds the wire payload for an issued token.
func NewPayload(t ScanToken, eventName string) Payload {
	return Payload{
		Token:     t.Token,
		EventID:   t.EventID,
		ExpiresAt: t.ExpiresAt.UTC().Format(time.RFC3339),
		EventName: eventName,
	}
}

// Encode serializes the payload to its JSON wire form.
func (p Payload) Encode() ([]byte, error) {
	return json.Marshal(p)
}

// ParsePayload decodes a submitted payload. A payload is structurally valid
// when it decodes as JSON and carries a non-empty token reference.
func ParsePayload(raw []byte) (Payload, error) {
	var p Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return Payload{}, ErrMalformedPayload
	}
	if p.Token == "" {
		return Payload{}, ErrMalformedPayload
	}
	return p, nil
}

// AdvisoryExpiry returns the expiry stamped into the payload, when present and
// parseable. The second return is false for a missing or unparseable value;
// the redeemer then defers entirely to the store.
func (p Payload) AdvisoryExpiry() (time.Time, bool) {
	if p.ExpiresAt == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, p.ExpiresAt)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
