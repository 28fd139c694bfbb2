package token

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/event"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/session"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/token"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/presence-backend-go/internal/repository/memory"
	notificationService "github.com/cmlabs-hris/presence-backend-go/internal/service/notification"
	sessionService "github.com/cmlabs-hris/presence-backend-go/internal/service/session"
)

const (
	testEventID    = "event-1"
	testEmployeeID = "employee-1"
)

type tokenTestEnv struct {
	service   *TokenServiceImpl
	tokens    *memory.ScanTokenRepository
	events    *memory.EventRepository
	employees *memory.EmployeeRepository
	sessions  *memory.AttendanceSessionRepository
	stop      func()
}

func newTokenTestEnv(t *testing.T) *tokenTestEnv {
	t.Helper()

	tokens := memory.NewScanTokenRepository()
	events := memory.NewEventRepository(event.Event{
		ID:     testEventID,
		Name:   "All Hands",
		Status: event.StatusActive,
	})
	employees := memory.NewEmployeeRepository(employee.Employee{
		ID:    testEmployeeID,
		Name:  "Test Employee",
		Email: "employee@example.com",
	})
	sessions := memory.NewAttendanceSessionRepository()

	notifications := notificationService.NewNotificationService(
		memory.NewNotificationRepository(), notificationService.Config{},
	)
	t.Cleanup(notifications.Stop)

	sessionSvc := sessionService.NewSessionService(sessions, notifications)
	svc := NewTokenService(tokens, events, employees, sessionSvc)

	return &tokenTestEnv{
		service:   svc,
		tokens:    tokens,
		events:    events,
		employees: employees,
		sessions:  sessions,
	}
}

func issueToken(t *testing.T, env *tokenTestEnv, policy string) token.TokenResponse {
	t.Helper()

	resp, err := env.service.Issue(context.Background(), token.IssueTokenRequest{
		EventID:     testEventID,
		TTLMinutes:  60,
		ReusePolicy: policy,
	})
	require.NoError(t, err)
	return resp
}

func encodePayload(t *testing.T, p token.Payload) []byte {
	t.Helper()

	raw, err := p.Encode()
	require.NoError(t, err)
	return raw
}

func TestIssueValidatesRequest(t *testing.T) {
	env := newTokenTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		req   token.IssueTokenRequest
		field string
	}{
		{
			name:  "zero ttl",
			req:   token.IssueTokenRequest{EventID: testEventID, TTLMinutes: 0, ReusePolicy: "single_use"},
			field: "ttl_minutes",
		},
		{
			name:  "ttl above maximum",
			req:   token.IssueTokenRequest{EventID: testEventID, TTLMinutes: 1441, ReusePolicy: "single_use"},
			field: "ttl_minutes",
		},
		{
			name:  "unknown reuse policy",
			req:   token.IssueTokenRequest{EventID: testEventID, TTLMinutes: 60, ReusePolicy: "forever"},
			field: "reuse_policy",
		},
		{
			name:  "missing event",
			req:   token.IssueTokenRequest{TTLMinutes: 60, ReusePolicy: "single_use"},
			field: "event_id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.service.Issue(ctx, tt.req)
			require.Error(t, err)

			var errs validator.ValidationErrors
			require.ErrorAs(t, err, &errs)
			assert.Contains(t, errs.ToMap(), tt.field)
		})
	}
}

func TestIssueUnknownEvent(t *testing.T) {
	env := newTokenTestEnv(t)

	_, err := env.service.Issue(context.Background(), token.IssueTokenRequest{
		EventID:     "missing-event",
		TTLMinutes:  60,
		ReusePolicy: "single_use",
	})
	assert.ErrorIs(t, err, event.ErrEventNotFound)
}

func TestIssueBindsTokenToEvent(t *testing.T) {
	env := newTokenTestEnv(t)

	resp := issueToken(t, env, "multi_use")

	assert.Equal(t, testEventID, resp.EventID)
	assert.Equal(t, "All Hands", resp.EventName)
	assert.True(t, resp.Active)
	assert.Equal(t, 0, resp.ScanCount)
	assert.Equal(t, resp.Token, resp.Payload.Token)
	assert.Equal(t, testEventID, resp.Payload.EventID)
	assert.Equal(t, resp.ExpiresAt, resp.Payload.ExpiresAt)
}

func TestRedeemChecksInThenOut(t *testing.T) {
	env := newTokenTestEnv(t)
	ctx := context.Background()

	resp := issueToken(t, env, "multi_use")
	raw := encodePayload(t, resp.Payload)

	first, err := env.service.Redeem(ctx, raw, testEmployeeID)
	require.NoError(t, err)
	assert.Equal(t, session.ToggleCheckIn, first.Kind)
	assert.Equal(t, 1, first.ScanCount)
	assert.Equal(t, string(session.StatusActive), first.Session.Status)
	assert.Nil(t, first.Session.CheckOut)

	second, err := env.service.Redeem(ctx, raw, testEmployeeID)
	require.NoError(t, err)
	assert.Equal(t, session.ToggleCheckOut, second.Kind)
	assert.Equal(t, 2, second.ScanCount)
	assert.Equal(t, string(session.StatusCompleted), second.Session.Status)
	require.NotNil(t, second.Session.CheckOut)
	assert.Equal(t, first.Session.ID, second.Session.ID)

	third, err := env.service.Redeem(ctx, raw, testEmployeeID)
	require.NoError(t, err)
	assert.Equal(t, session.ToggleCheckIn, third.Kind)
	assert.NotEqual(t, first.Session.ID, third.Session.ID)
}

func TestRedeemMalformedPayload(t *testing.T) {
	env := newTokenTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name string
		raw  []byte
	}{
		{name: "not json", raw: []byte("not-json{")},
		{name: "empty object", raw: []byte(`{}`)},
		{name: "blank token", raw: []byte(`{"token":"","event_id":"event-1"}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.service.Redeem(ctx, tt.raw, testEmployeeID)
			assert.ErrorIs(t, err, token.ErrMalformedPayload)
		})
	}
}

func TestRedeemUnknownToken(t *testing.T) {
	env := newTokenTestEnv(t)

	raw := encodePayload(t, token.Payload{Token: "never-issued", EventID: testEventID})

	_, err := env.service.Redeem(context.Background(), raw, testEmployeeID)
	assert.ErrorIs(t, err, token.ErrTokenNotFound)
}

func TestRedeemExpiredToken(t *testing.T) {
	env := newTokenTestEnv(t)
	ctx := context.Background()

	expired := token.ScanToken{
		Token:       "expired-token",
		EventID:     testEventID,
		IssuedAt:    time.Now().UTC().Add(-2 * time.Minute),
		ExpiresAt:   time.Now().UTC().Add(-time.Minute),
		ReusePolicy: token.ReusePolicyMultiUse,
		Active:      true,
	}
	env.tokens.Put(expired)

	raw := encodePayload(t, token.NewPayload(expired, "All Hands"))

	_, err := env.service.Redeem(ctx, raw, testEmployeeID)
	assert.ErrorIs(t, err, token.ErrTokenExpired)

	// Expiry wins over inactivity for a token that is both.
	expired.Active = false
	env.tokens.Put(expired)
	_, err = env.service.Redeem(ctx, raw, testEmployeeID)
	assert.ErrorIs(t, err, token.ErrTokenExpired)

	// No session was opened by any of the failed redemptions.
	assert.Empty(t, env.sessions.All())
}

func TestRedeemAdvisoryExpiryWithoutStoreEntry(t *testing.T) {
	env := newTokenTestEnv(t)

	// The payload's stamped expiry is enough to reject the scan; the token
	// was never stored, yet the caller sees expired rather than not found.
	raw := encodePayload(t, token.Payload{
		Token:     "stale-token",
		EventID:   testEventID,
		ExpiresAt: time.Now().UTC().Add(-time.Hour).Format(time.RFC3339),
	})

	_, err := env.service.Redeem(context.Background(), raw, testEmployeeID)
	assert.ErrorIs(t, err, token.ErrTokenExpired)
}

func TestRedeemRevokedToken(t *testing.T) {
	env := newTokenTestEnv(t)
	ctx := context.Background()

	resp := issueToken(t, env, "multi_use")
	require.NoError(t, env.service.Revoke(ctx, resp.Token))

	raw := encodePayload(t, resp.Payload)
	_, err := env.service.Redeem(ctx, raw, testEmployeeID)
	assert.ErrorIs(t, err, token.ErrTokenInactive)
}

func TestRedeemEventNotScannable(t *testing.T) {
	env := newTokenTestEnv(t)
	ctx := context.Background()

	resp := issueToken(t, env, "multi_use")
	raw := encodePayload(t, resp.Payload)

	env.events.Put(event.Event{ID: testEventID, Name: "All Hands", Status: event.StatusArchived})

	_, err := env.service.Redeem(ctx, raw, testEmployeeID)
	assert.ErrorIs(t, err, token.ErrEventUnavailable)

	deletedAt := time.Now().UTC()
	env.events.Put(event.Event{ID: testEventID, Name: "All Hands", Status: event.StatusActive, DeletedAt: &deletedAt})

	_, err = env.service.Redeem(ctx, raw, testEmployeeID)
	assert.ErrorIs(t, err, token.ErrEventUnavailable)
}

func TestRedeemUnknownEmployee(t *testing.T) {
	env := newTokenTestEnv(t)

	resp := issueToken(t, env, "multi_use")
	raw := encodePayload(t, resp.Payload)

	_, err := env.service.Redeem(context.Background(), raw, "ghost")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestRedeemSingleUseConcurrent(t *testing.T) {
	env := newTokenTestEnv(t)
	ctx := context.Background()

	resp := issueToken(t, env, "single_use")
	raw := encodePayload(t, resp.Payload)

	const redeemers = 16
	results := make([]error, redeemers)

	var wg sync.WaitGroup
	for i := 0; i < redeemers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = env.service.Redeem(ctx, raw, testEmployeeID)
		}(i)
	}
	wg.Wait()

	var succeeded, inactive int
	for _, err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, token.ErrTokenInactive):
			inactive++
		default:
			t.Errorf("unexpected redemption error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, redeemers-1, inactive)

	stored, err := env.tokens.GetByValue(ctx, resp.Token)
	require.NoError(t, err)
	assert.False(t, stored.Active)
	assert.Equal(t, 1, stored.ScanCount)

	// Only the winning redemption opened a session.
	assert.Len(t, env.sessions.All(), 1)
}

func TestRedeemMultiUseFanOut(t *testing.T) {
	env := newTokenTestEnv(t)
	ctx := context.Background()

	const scanners = 8
	for i := 0; i < scanners; i++ {
		env.employees.Put(employee.Employee{
			ID:    employeeID(i),
			Name:  "Scanner",
			Email: "scanner@example.com",
		})
	}

	resp := issueToken(t, env, "multi_use")
	raw := encodePayload(t, resp.Payload)

	var wg sync.WaitGroup
	errs := make([]error, scanners)
	for i := 0; i < scanners; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.service.Redeem(ctx, raw, employeeID(i))
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "scanner %d", i)
	}

	stored, err := env.tokens.GetByValue(ctx, resp.Token)
	require.NoError(t, err)
	assert.True(t, stored.Active)
	assert.Equal(t, scanners, stored.ScanCount)
	assert.Len(t, env.sessions.All(), scanners)
}

func TestRevokeUnknownToken(t *testing.T) {
	env := newTokenTestEnv(t)

	err := env.service.Revoke(context.Background(), "never-issued")
	assert.ErrorIs(t, err, token.ErrTokenNotFound)
}

func TestPayloadForRebuildsWirePayload(t *testing.T) {
	env := newTokenTestEnv(t)
	ctx := context.Background()

	resp := issueToken(t, env, "single_use")

	payload, err := env.service.PayloadFor(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.Payload, payload)

	_, err = env.service.PayloadFor(ctx, "never-issued")
	assert.ErrorIs(t, err, token.ErrTokenNotFound)
}

func employeeID(i int) string {
	return string(rune('a'+i)) + "-employee"
}
