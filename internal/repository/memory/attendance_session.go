package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/session"
)

type AttendanceSessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]session.AttendanceSession
}

func NewAttendanceSessionRepository() *AttendanceSessionRepository {
	return &AttendanceSessionRepository{
		sessions: make(map[string]session.AttendanceSession),
	}
}

// Create implements session.SessionRepository.
func (r *AttendanceSessionRepository) Create(_ context.Context, s session.AttendanceSession) (session.AttendanceSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	s.ID = uuid.NewString()
	s.CreatedAt = now
	s.UpdatedAt = now
	r.sessions[s.ID] = s

	return s, nil
}

// GetOpen implements session.SessionRepository.
func (r *AttendanceSessionRepository) GetOpen(_ context.Context, employeeID, eventID string) (*session.AttendanceSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.sessions {
		if s.EmployeeID == employeeID && s.EventID == eventID && s.CheckOut == nil {
			found := s
			return &found, nil
		}
	}
	return nil, nil
}

// Complete implements session.SessionRepository.
func (r *AttendanceSessionRepository) Complete(_ context.Context, id string, checkOut time.Time) (session.AttendanceSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok || s.CheckOut != nil {
		return session.AttendanceSession{}, session.ErrSessionNotFound
	}

	out := checkOut
	s.CheckOut = &out
	s.Status = session.StatusCompleted
	s.UpdatedAt = time.Now().UTC()
	r.sessions[id] = s

	return s, nil
}

// ListByEmployee implements session.SessionRepository.
func (r *AttendanceSessionRepository) ListByEmployee(_ context.Context, employeeID string, limit, offset int) ([]session.AttendanceSession, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var all []session.AttendanceSession
	for _, s := range r.sessions {
		if s.EmployeeID == employeeID {
			all = append(all, s)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CheckIn.After(all[j].CheckIn)
	})

	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

// All returns every stored session. Test helper for invariant checks.
func (r *AttendanceSessionRepository) All() []session.AttendanceSession {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]session.AttendanceSession, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	return out
}
