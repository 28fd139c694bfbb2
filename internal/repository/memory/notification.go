package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/notification"
)

type NotificationRepository struct {
	mu    sync.RWMutex
	items []*notification.Notification
}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{}
}

// Create implements notification.Repository.
func (r *NotificationRepository) Create(_ context.Context, n *notification.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n.ID = uuid.NewString()
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	stored := *n
	r.items = append(r.items, &stored)

	return nil
}

// GetByRecipient implements notification.Repository.
func (r *NotificationRepository) GetByRecipient(_ context.Context, recipientID string, limit, offset int) ([]*notification.Notification, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var all []*notification.Notification
	for i := len(r.items) - 1; i >= 0; i-- {
		if r.items[i].RecipientID == recipientID {
			all = append(all, r.items[i])
		}
	}

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

// MarkAllAsRead implements notification.Repository.
func (r *NotificationRepository) MarkAllAsRead(_ context.Context, recipientID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	for _, n := range r.items {
		if n.RecipientID == recipientID && !n.IsRead {
			n.IsRead = true
			readAt := now
			n.ReadAt = &readAt
		}
	}
	return nil
}
