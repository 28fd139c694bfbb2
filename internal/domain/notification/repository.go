package notification

import (
	"context"
)

// Repository defines the notification repository interface
type Repository interface {
	Create(ctx context.Context, n *Notification) error
	GetByRecipient(ctx context.Context, recipientID string, limit, offset int) ([]*Notification, int64, error)
	MarkAllAsRead(ctx context.Context, recipientID string) error
}
