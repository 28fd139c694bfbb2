package session

import (
	"time"
)

// SessionStatus tracks whether a session is still open. The value is derived
// from CheckOut but stored explicitly for query convenience; the two must
// agree: Active ⇔ CheckOut == nil.
type SessionStatus string

const (
	StatusActive    SessionStatus = "active"
	StatusCompleted SessionStatus = "completed"
)

// AttendanceSession is one employee's presence interval at one event, between
// a check-in and a check-out. At most one Active session may exist per
// (employee, event) pair at any time.
type AttendanceSession struct {
	ID         string
	EmployeeID string
	EventID    string
	CheckIn    time.Time
	CheckOut   *time.Time
	Status     SessionStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
