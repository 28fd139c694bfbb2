package notification

import (
	"context"
)

// Service defines the notification service interface. Publish queues for
// async processing via a background worker and never returns an error to the
// triggering operation.
type Service interface {
	Publish(recipientID string, notifType NotificationType, message string)

	GetNotifications(ctx context.Context, recipientID string, limit, offset int) (NotificationListResponse, error)
	MarkAllAsRead(ctx context.Context, recipientID string) error

	// Lifecycle
	Stop()
}
