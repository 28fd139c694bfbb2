package leave

import (
	"time"
)

type LeaveRequestStatus string

const (
	LeaveRequestStatusPending   LeaveRequestStatus = "pending"
	LeaveRequestStatusApproved  LeaveRequestStatus = "approved"
	LeaveRequestStatusRejected  LeaveRequestStatus = "rejected"
	LeaveRequestStatusCancelled LeaveRequestStatus = "cancelled"
)

// LeaveRequest is a requested absence interval. Dates are inclusive calendar
// days; StartDate ≤ EndDate always. No two Approved requests for the same
// employee may overlap.
type LeaveRequest struct {
	ID              string
	EmployeeID      string
	StartDate       time.Time
	EndDate         time.Time
	Reason          *string
	Status          LeaveRequestStatus
	ApprovedBy      *string
	ApprovedAt      *time.Time
	RejectionReason *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Overlaps reports whether the request's interval intersects [start, end]
// under closed-interval semantics: a leave ending on day X overlaps one
// starting on day X.
func (r LeaveRequest) Overlaps(start, end time.Time) bool {
	return !r.StartDate.After(end) && !start.After(r.EndDate)
}
