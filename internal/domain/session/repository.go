package session

import (
	"context"
	"time"
)

// SessionRepository defines data access methods for attendance sessions.
type SessionRepository interface {
	// Create creates a new session record.
	Create(ctx context.Context, s AttendanceSession) (AttendanceSession, error)

	// GetOpen retrieves the Active session for the (employee, event) pair.
	// Returns nil without error when no open session exists.
	GetOpen(ctx context.Context, employeeID, eventID string) (*AttendanceSession, error)

	// Complete stamps the check-out on an open session and marks it
	// Completed.
	Complete(ctx context.Context, id string, checkOut time.Time) (AttendanceSession, error)

	// ListByEmployee retrieves an employee's sessions, newest first.
	ListByEmployee(ctx context.Context, employeeID string, limit, offset int) ([]AttendanceSession, int64, error)
}
