package notification

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/notification"
)

// Config holds notification service configuration
type Config struct {
	QueueSize int // default: 1000
	Workers   int // default: 2
}

type service struct {
	repo   notification.Repository
	queue  chan notification.Notification
	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewNotificationService creates a notification service with background
// workers. Publish is fire-and-forget: a full queue or a failed insert is
// logged and dropped, never surfaced to the triggering operation.
func NewNotificationService(repo notification.Repository, cfg Config) notification.Service {
	if cfg.QueueSize == 0 {
		cfg.QueueSize = 1000
	}
	if cfg.Workers == 0 {
		cfg.Workers = 2
	}

	s := &service{
		repo:   repo,
		queue:  make(chan notification.Notification, cfg.QueueSize),
		stopCh: make(chan struct{}),
	}

	for i := 0; i < cfg.Workers; i++ {
		s.wg.Add(1)
		go s.worker()
	}

	return s
}

func (s *service) worker() {
	defer s.wg.Done()

	for {
		select {
		case n := <-s.queue:
			s.deliver(n)
		case <-s.stopCh:
			// Drain what is already queued before exiting.
			for {
				select {
				case n := <-s.queue:
					s.deliver(n)
				default:
					return
				}
			}
		}
	}
}

func (s *service) deliver(n notification.Notification) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.repo.Create(ctx, &n); err != nil {
		slog.Error("failed to deliver notification",
			"recipient_id", n.RecipientID, "type", n.Type, "error", err)
	}
}

// Publish implements notification.Service.
func (s *service) Publish(recipientID string, notifType notification.NotificationType, message string) {
	n := notification.Notification{
		RecipientID: recipientID,
		Type:        notifType,
		Message:     message,
		CreatedAt:   time.Now().UTC(),
	}

	select {
	case s.queue <- n:
	default:
		slog.Warn("notification queue full, dropping",
			"recipient_id", recipientID, "type", notifType)
	}
}

// GetNotifications implements notification.Service.
func (s *service) GetNotifications(ctx context.Context, recipientID string, limit, offset int) (notification.NotificationListResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	items, total, err := s.repo.GetByRecipient(ctx, recipientID, limit, offset)
	if err != nil {
		return notification.NotificationListResponse{}, fmt.Errorf("failed to get notifications: %w", err)
	}

	resp := notification.NotificationListResponse{
		Notifications: make([]notification.NotificationResponse, 0, len(items)),
		TotalItems:    total,
	}
	for _, n := range items {
		resp.Notifications = append(resp.Notifications, notification.NotificationResponse{
			ID:        n.ID,
			Type:      string(n.Type),
			Message:   n.Message,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return resp, nil
}

// MarkAllAsRead implements notification.Service.
func (s *service) MarkAllAsRead(ctx context.Context, recipientID string) error {
	return s.repo.MarkAllAsRead(ctx, recipientID)
}

// Stop signals the workers and waits for queued notifications to drain.
func (s *service) Stop() {
	close(s.stopCh)
	s.wg.Wait()
}
