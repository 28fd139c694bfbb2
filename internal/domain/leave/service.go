package leave

import (
	"context"
	"time"
)

// LeaveService defines business logic for leave requests. Overlap against
// Approved intervals is checked twice on purpose: once at creation and again
// at approval, because two pending requests can race to approval and both
// pass the creation-time check. Approval is where the invariant is enforced.
type LeaveService interface {
	// CreateRequest creates a pending request after checking the candidate
	// range against Approved intervals only.
	CreateRequest(ctx context.Context, req CreateLeaveRequest) (LeaveRequestResponse, error)

	// Approve re-checks the range against Approved intervals and approves
	// the request. Returns ErrOverlappingLeave when an approved interval
	// now intersects the range.
	Approve(ctx context.Context, requestID, approverID string) (LeaveRequestResponse, error)

	// Reject rejects a pending request with a reason.
	Reject(ctx context.Context, requestID, reason, approverID string) (LeaveRequestResponse, error)

	// Cancel cancels a request; a cancelled approved request frees its
	// interval.
	Cancel(ctx context.Context, requestID, employeeID string) (LeaveRequestResponse, error)

	// CheckOverlap returns the ID of the first Approved interval of the
	// employee intersecting [start, end], or "" when the range is clear.
	CheckOverlap(ctx context.Context, employeeID string, start, end time.Time) (string, error)

	// GetMyRequests retrieves requests for the authenticated employee.
	GetMyRequests(ctx context.Context, employeeID string, limit, offset int) (ListLeaveRequestResponse, error)
}
