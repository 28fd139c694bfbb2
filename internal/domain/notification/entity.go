package notification

import (
	"time"
)

// NotificationType represents the type of notification
type NotificationType string

const (
	TypeSessionCheckIn  NotificationType = "session_check_in"
	TypeSessionCheckOut NotificationType = "session_check_out"
	TypeLeaveRequested  NotificationType = "leave_requested"
	TypeLeaveApproved   NotificationType = "leave_approved"
	TypeLeaveRejected   NotificationType = "leave_rejected"
	TypeLeaveCancelled  NotificationType = "leave_cancelled"
)

// Notification is a delivered human-readable message. Delivery is
// fire-and-forget: a failed insert never affects the triggering operation.
type Notification struct {
	ID          string
	RecipientID string
	Type        NotificationType
	Message     string
	IsRead      bool
	ReadAt      *time.Time
	CreatedAt   time.Time
}
