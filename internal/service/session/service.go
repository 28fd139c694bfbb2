package session

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/session"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/keymutex"
)

type SessionServiceImpl struct {
	session.SessionRepository
	notifications notification.Service
	locks         *keymutex.KeyMutex
}

func NewSessionService(sessionRepository session.SessionRepository, notifications notification.Service) *SessionServiceImpl {
	return &SessionServiceImpl{
		SessionRepository: sessionRepository,
		notifications:     notifications,
		locks:             keymutex.New(),
	}
}

func pairKey(employeeID, eventID string) string {
	return employeeID + "|" + eventID
}

// Toggle implements session.SessionService. The open-session check and the
// subsequent create-or-complete write run under a per-pair lock, so at most
// one Active session can ever exist for a pair.
func (s *SessionServiceImpl) Toggle(ctx context.Context, employeeID, eventID string) (session.ToggleResult, error) {
	unlock := s.locks.Lock(pairKey(employeeID, eventID))
	defer unlock()

	open, err := s.SessionRepository.GetOpen(ctx, employeeID, eventID)
	if err != nil {
		return session.ToggleResult{}, fmt.Errorf("%w: failed to get open session: %v", session.ErrStoreUnavailable, err)
	}

	now := time.Now().UTC()

	if open == nil {
		created, err := s.SessionRepository.Create(ctx, session.AttendanceSession{
			EmployeeID: employeeID,
			EventID:    eventID,
			CheckIn:    now,
			Status:     session.StatusActive,
		})
		if err != nil {
			return session.ToggleResult{}, fmt.Errorf("%w: failed to create session: %v", session.ErrStoreUnavailable, err)
		}

		s.notifications.Publish(employeeID, notification.TypeSessionCheckIn,
			fmt.Sprintf("Checked in at %s", now.Format("15:04")))

		return session.ToggleResult{Kind: session.ToggleCheckIn, Session: created}, nil
	}

	completed, err := s.SessionRepository.Complete(ctx, open.ID, now)
	if err != nil {
		return session.ToggleResult{}, fmt.Errorf("%w: failed to complete session: %v", session.ErrStoreUnavailable, err)
	}

	s.notifications.Publish(employeeID, notification.TypeSessionCheckOut,
		fmt.Sprintf("Checked out at %s", now.Format("15:04")))

	return session.ToggleResult{Kind: session.ToggleCheckOut, Session: completed}, nil
}

// GetMySessions implements session.SessionService.
func (s *SessionServiceImpl) GetMySessions(ctx context.Context, employeeID string, limit, offset int) (session.ListSessionResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	sessions, total, err := s.SessionRepository.ListByEmployee(ctx, employeeID, limit, offset)
	if err != nil {
		return session.ListSessionResponse{}, fmt.Errorf("%w: failed to list sessions: %v", session.ErrStoreUnavailable, err)
	}

	resp := session.ListSessionResponse{
		Sessions:   make([]session.SessionResponse, 0, len(sessions)),
		TotalItems: total,
	}
	for _, item := range sessions {
		resp.Sessions = append(resp.Sessions, session.ToResponse(item))
	}
	return resp, nil
}
