package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayloadRoundTrip(t *testing.T) {
	issued := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	tok := ScanToken{
		Token:       "event-1.abc.def",
		EventID:     "event-1",
		IssuedAt:    issued,
		ExpiresAt:   issued.Add(time.Hour),
		ReusePolicy: ReusePolicyMultiUse,
		Active:      true,
	}

	p := NewPayload(tok, "All Hands")
	raw, err := p.Encode()
	require.NoError(t, err)

	decoded, err := ParsePayload(raw)
	require.NoError(t, err)
	assert.Equal(t, p, decoded)
	assert.Equal(t, "event-1", decoded.EventID)
	assert.Equal(t, "2026-03-01T10:00:00Z", decoded.ExpiresAt)
}

func TestParsePayloadRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
	}{
		{name: "invalid json", raw: []byte("{{")},
		{name: "empty input", raw: nil},
		{name: "missing token", raw: []byte(`{"event_id":"event-1"}`)},
		{name: "empty token", raw: []byte(`{"token":""}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePayload(tt.raw)
			assert.ErrorIs(t, err, ErrMalformedPayload)
		})
	}
}

func TestAdvisoryExpiry(t *testing.T) {
	p := Payload{Token: "tok", ExpiresAt: "2026-03-01T10:00:00Z"}
	exp, ok := p.AdvisoryExpiry()
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC), exp)

	// Missing or mangled stamps defer to the store.
	_, ok = Payload{Token: "tok"}.AdvisoryExpiry()
	assert.False(t, ok)

	_, ok = Payload{Token: "tok", ExpiresAt: "yesterday"}.AdvisoryExpiry()
	assert.False(t, ok)
}
