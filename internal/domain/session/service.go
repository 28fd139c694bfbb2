package session

import (
	"context"
)

// SessionService is the attendance session state machine. Per (employee,
// event) pair the states move NoSession → Active → Completed → Active → …;
// Toggle advances the machine by one step.
type SessionService interface {
	// Toggle opens a new session when none is active for the pair, or
	// completes the currently open one. The check and the write are one
	// atomic unit scoped to the pair.
	Toggle(ctx context.Context, employeeID, eventID string) (ToggleResult, error)

	// GetMySessions retrieves sessions for the authenticated employee.
	GetMySessions(ctx context.Context, employeeID string, limit, offset int) (ListSessionResponse, error)
}
