package notification

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/presence-backend-go/internal/repository/memory"
)

func TestPublishDeliversAsync(t *testing.T) {
	repo := memory.NewNotificationRepository()
	svc := NewNotificationService(repo, Config{})
	t.Cleanup(svc.Stop)
	ctx := context.Background()

	svc.Publish("employee-1", notification.TypeSessionCheckIn, "Checked in at 09:00")
	svc.Publish("employee-1", notification.TypeSessionCheckOut, "Checked out at 17:00")
	svc.Publish("employee-2", notification.TypeLeaveApproved, "Leave approved")

	require.Eventually(t, func() bool {
		resp, err := svc.GetNotifications(ctx, "employee-1", 10, 0)
		return err == nil && resp.TotalItems == 2
	}, 2*time.Second, 10*time.Millisecond)

	resp, err := svc.GetNotifications(ctx, "employee-2", 10, 0)
	require.NoError(t, err)
	require.Len(t, resp.Notifications, 1)
	assert.Equal(t, string(notification.TypeLeaveApproved), resp.Notifications[0].Type)
	assert.Equal(t, "Leave approved", resp.Notifications[0].Message)
	assert.False(t, resp.Notifications[0].IsRead)
}

func TestMarkAllAsRead(t *testing.T) {
	repo := memory.NewNotificationRepository()
	svc := NewNotificationService(repo, Config{})
	t.Cleanup(svc.Stop)
	ctx := context.Background()

	svc.Publish("employee-1", notification.TypeLeaveRequested, "Leave request submitted")
	svc.Publish("employee-1", notification.TypeLeaveRejected, "Leave request rejected")

	require.Eventually(t, func() bool {
		resp, err := svc.GetNotifications(ctx, "employee-1", 10, 0)
		return err == nil && resp.TotalItems == 2
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, svc.MarkAllAsRead(ctx, "employee-1"))

	resp, err := svc.GetNotifications(ctx, "employee-1", 10, 0)
	require.NoError(t, err)
	for _, n := range resp.Notifications {
		assert.True(t, n.IsRead)
	}
}

func TestStopDrainsQueue(t *testing.T) {
	repo := memory.NewNotificationRepository()
	svc := NewNotificationService(repo, Config{QueueSize: 64, Workers: 1})

	for i := 0; i < 10; i++ {
		svc.Publish("employee-1", notification.TypeSessionCheckIn, "Checked in")
	}
	svc.Stop()

	items, total, err := repo.GetByRecipient(context.Background(), "employee-1", 100, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(10), total)
	assert.Len(t, items, 10)
}
