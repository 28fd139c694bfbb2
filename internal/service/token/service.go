package token

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/event"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/session"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/token"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/keymutex"
)

// maxGenerateAttempts bounds the collision retry loop. Token values carry a
// uuid's worth of entropy, so a second attempt is already vanishingly rare;
// the unique constraint in the store is what actually guarantees uniqueness.
const maxGenerateAttempts = 5

type TokenServiceImpl struct {
	token.TokenRepository
	event.EventRepository
	employee.EmployeeRepository
	sessions session.SessionService
	locks    *keymutex.KeyMutex
}

func NewTokenService(
	tokenRepository token.TokenRepository,
	eventRepository event.EventRepository,
	employeeRepository employee.EmployeeRepository,
	sessions session.SessionService,
) *TokenServiceImpl {
	return &TokenServiceImpl{
		TokenRepository:    tokenRepository,
		EventRepository:    eventRepository,
		EmployeeRepository: employeeRepository,
		sessions:           sessions,
		locks:              keymutex.New(),
	}
}

func newTokenValue(eventID string, now time.Time) string {
	entropy := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("%s.%x.%s", eventID, now.UnixNano(), entropy)
}

// Issue implements token.TokenService.
func (s *TokenServiceImpl) Issue(ctx context.Context, req token.IssueTokenRequest) (token.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return token.TokenResponse{}, err
	}

	ev, err := s.EventRepository.GetByID(ctx, req.EventID)
	if err != nil {
		if errors.Is(err, event.ErrEventNotFound) {
			return token.TokenResponse{}, event.ErrEventNotFound
		}
		return token.TokenResponse{}, fmt.Errorf("%w: failed to get event: %v", token.ErrStoreUnavailable, err)
	}

	now := time.Now().UTC()
	t := token.ScanToken{
		EventID:     ev.ID,
		IssuedAt:    now,
		ExpiresAt:   now.Add(time.Duration(req.TTLMinutes) * time.Minute),
		ReusePolicy: token.ReusePolicy(req.ReusePolicy),
		Active:      true,
		ScanCount:   0,
	}

	var created token.ScanToken
	for attempt := 0; ; attempt++ {
		t.Token = newTokenValue(ev.ID, now)
		created, err = s.TokenRepository.Create(ctx, t)
		if err == nil {
			break
		}
		if !errors.Is(err, token.ErrTokenExists) || attempt+1 >= maxGenerateAttempts {
			return token.TokenResponse{}, fmt.Errorf("%w: failed to create token: %v", token.ErrStoreUnavailable, err)
		}
	}

	return toTokenResponse(created, ev.Name), nil
}

// Redeem implements token.TokenService. Validation order: payload shape,
// expiry, existence, activity, event availability, employee identity; the
// first failure wins and nothing is mutated on failure. On success the
// session toggle happens before the scan is recorded, so a storage failure in
// between never loses a scan that already flipped a session.
func (s *TokenServiceImpl) Redeem(ctx context.Context, payload []byte, scanningEmployeeID string) (token.RedemptionResponse, error) {
	p, err := token.ParsePayload(payload)
	if err != nil {
		return token.RedemptionResponse{}, err
	}

	now := time.Now().UTC()

	// Advisory expiry from the payload rejects obviously dead codes before
	// touching the store; the authoritative check runs against the stored
	// token below.
	if adv, ok := p.AdvisoryExpiry(); ok && now.After(adv) {
		return token.RedemptionResponse{}, token.ErrTokenExpired
	}

	unlock := s.locks.Lock(p.Token)
	defer unlock()

	t, err := s.TokenRepository.GetByValue(ctx, p.Token)
	if err != nil {
		if errors.Is(err, token.ErrTokenNotFound) {
			return token.RedemptionResponse{}, token.ErrTokenNotFound
		}
		return token.RedemptionResponse{}, fmt.Errorf("%w: failed to get token: %v", token.ErrStoreUnavailable, err)
	}

	if now.After(t.ExpiresAt) {
		return token.RedemptionResponse{}, token.ErrTokenExpired
	}

	if !t.Active {
		return token.RedemptionResponse{}, token.ErrTokenInactive
	}

	ev, err := s.EventRepository.GetByID(ctx, t.EventID)
	if err != nil {
		if errors.Is(err, event.ErrEventNotFound) {
			return token.RedemptionResponse{}, token.ErrEventUnavailable
		}
		return token.RedemptionResponse{}, fmt.Errorf("%w: failed to get event: %v", token.ErrStoreUnavailable, err)
	}
	if !ev.IsScannable() {
		return token.RedemptionResponse{}, token.ErrEventUnavailable
	}

	if _, err := s.EmployeeRepository.GetByID(ctx, scanningEmployeeID); err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return token.RedemptionResponse{}, employee.ErrEmployeeNotFound
		}
		return token.RedemptionResponse{}, fmt.Errorf("%w: failed to get employee: %v", token.ErrStoreUnavailable, err)
	}

	result, err := s.sessions.Toggle(ctx, scanningEmployeeID, t.EventID)
	if err != nil {
		return token.RedemptionResponse{}, err
	}

	deactivate := t.ReusePolicy == token.ReusePolicySingleUse
	updated, err := s.TokenRepository.RecordScan(ctx, t.Token, deactivate)
	if err != nil {
		if errors.Is(err, token.ErrTokenInactive) {
			return token.RedemptionResponse{}, token.ErrTokenInactive
		}
		return token.RedemptionResponse{}, fmt.Errorf("%w: failed to record scan: %v", token.ErrStoreUnavailable, err)
	}

	return token.RedemptionResponse{
		Kind:      result.Kind,
		Session:   session.ToResponse(result.Session),
		ScanCount: updated.ScanCount,
	}, nil
}

// PayloadFor implements token.TokenService.
func (s *TokenServiceImpl) PayloadFor(ctx context.Context, value string) (token.Payload, error) {
	t, err := s.TokenRepository.GetByValue(ctx, value)
	if err != nil {
		if errors.Is(err, token.ErrTokenNotFound) {
			return token.Payload{}, token.ErrTokenNotFound
		}
		return token.Payload{}, fmt.Errorf("%w: failed to get token: %v", token.ErrStoreUnavailable, err)
	}

	eventName := ""
	if ev, err := s.EventRepository.GetByID(ctx, t.EventID); err == nil {
		eventName = ev.Name
	}

	return token.NewPayload(t, eventName), nil
}

// Revoke implements token.TokenService.
func (s *TokenServiceImpl) Revoke(ctx context.Context, value string) error {
	if err := s.TokenRepository.Deactivate(ctx, value); err != nil {
		if errors.Is(err, token.ErrTokenNotFound) {
			return token.ErrTokenNotFound
		}
		return fmt.Errorf("%w: failed to deactivate token: %v", token.ErrStoreUnavailable, err)
	}
	return nil
}

func toTokenResponse(t token.ScanToken, eventName string) token.TokenResponse {
	return token.TokenResponse{
		Token:       t.Token,
		EventID:     t.EventID,
		EventName:   eventName,
		IssuedAt:    t.IssuedAt.UTC().Format(time.RFC3339),
		ExpiresAt:   t.ExpiresAt.UTC().Format(time.RFC3339),
		ReusePolicy: string(t.ReusePolicy),
		Active:      t.Active,
		ScanCount:   t.ScanCount,
		Payload:     token.NewPayload(t, eventName),
	}
}
