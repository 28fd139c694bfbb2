package leave

import (
	"context"
	"time"
)

// LeaveRequestRepository defines data access methods for leave requests.
type LeaveRequestRepository interface {
	// Create creates a new leave request.
	Create(ctx context.Context, req LeaveRequest) (LeaveRequest, error)

	// GetByID retrieves a leave request by ID.
	GetByID(ctx context.Context, id string) (LeaveRequest, error)

	// FindApprovedOverlap returns the first Approved request for the
	// employee whose interval intersects [start, end] inclusively, ordered
	// by start date then ID so the answer is deterministic for a fixed
	// set. Returns nil without error when the range is clear.
	FindApprovedOverlap(ctx context.Context, employeeID string, start, end time.Time) (*LeaveRequest, error)

	// UpdateStatus applies a status transition.
	UpdateStatus(ctx context.Context, update UpdateLeaveStatusRequest) error

	// ListByEmployee retrieves an employee's requests, newest first.
	ListByEmployee(ctx context.Context, employeeID string, limit, offset int) ([]LeaveRequest, int64, error)
}
