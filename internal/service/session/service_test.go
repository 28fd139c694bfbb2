package session

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/session"
	"github.com/cmlabs-hris/presence-backend-go/internal/repository/memory"
	notificationService "github.com/cmlabs-hris/presence-backend-go/internal/service/notification"
)

func newSessionTestService(t *testing.T) (*SessionServiceImpl, *memory.AttendanceSessionRepository) {
	t.Helper()

	repo := memory.NewAttendanceSessionRepository()
	notifications := notificationService.NewNotificationService(
		memory.NewNotificationRepository(), notificationService.Config{},
	)
	t.Cleanup(notifications.Stop)

	return NewSessionService(repo, notifications), repo
}

func TestToggleOpensThenCloses(t *testing.T) {
	svc, _ := newSessionTestService(t)
	ctx := context.Background()

	first, err := svc.Toggle(ctx, "employee-1", "event-1")
	require.NoError(t, err)
	assert.Equal(t, session.ToggleCheckIn, first.Kind)
	assert.Equal(t, session.StatusActive, first.Session.Status)
	assert.Nil(t, first.Session.CheckOut)
	assert.False(t, first.Session.CheckIn.IsZero())

	second, err := svc.Toggle(ctx, "employee-1", "event-1")
	require.NoError(t, err)
	assert.Equal(t, session.ToggleCheckOut, second.Kind)
	assert.Equal(t, session.StatusCompleted, second.Session.Status)
	require.NotNil(t, second.Session.CheckOut)
	assert.Equal(t, first.Session.ID, second.Session.ID)
	assert.False(t, second.Session.CheckOut.Before(second.Session.CheckIn))

	third, err := svc.Toggle(ctx, "employee-1", "event-1")
	require.NoError(t, err)
	assert.Equal(t, session.ToggleCheckIn, third.Kind)
	assert.NotEqual(t, first.Session.ID, third.Session.ID)
}

func TestTogglePairsAreIndependent(t *testing.T) {
	svc, _ := newSessionTestService(t)
	ctx := context.Background()

	atFirst, err := svc.Toggle(ctx, "employee-1", "event-1")
	require.NoError(t, err)
	assert.Equal(t, session.ToggleCheckIn, atFirst.Kind)

	// Same employee, different event: a fresh check-in, not a check-out.
	atSecond, err := svc.Toggle(ctx, "employee-1", "event-2")
	require.NoError(t, err)
	assert.Equal(t, session.ToggleCheckIn, atSecond.Kind)

	// Different employee, same event.
	other, err := svc.Toggle(ctx, "employee-2", "event-1")
	require.NoError(t, err)
	assert.Equal(t, session.ToggleCheckIn, other.Kind)
}

func TestToggleConcurrentKeepsSingleActiveSession(t *testing.T) {
	svc, repo := newSessionTestService(t)
	ctx := context.Background()

	const toggles = 32

	var wg sync.WaitGroup
	for i := 0; i < toggles; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Toggle(ctx, "employee-1", "event-1")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	var open int
	for _, s := range repo.All() {
		active := s.Status == session.StatusActive
		assert.Equal(t, active, s.CheckOut == nil, "status must agree with check_out for %s", s.ID)
		if s.CheckOut == nil {
			open++
		}
	}
	assert.LessOrEqual(t, open, 1)

	// An even number of toggles nets out to zero open sessions.
	assert.Equal(t, 0, open)
}

func TestGetMySessionsPagination(t *testing.T) {
	svc, _ := newSessionTestService(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := svc.Toggle(ctx, "employee-1", "event-1")
		require.NoError(t, err)
		_, err = svc.Toggle(ctx, "employee-1", "event-1")
		require.NoError(t, err)
	}

	resp, err := svc.GetMySessions(ctx, "employee-1", 2, 0)
	require.NoError(t, err)
	assert.Len(t, resp.Sessions, 2)
	assert.Equal(t, int64(5), resp.TotalItems)

	rest, err := svc.GetMySessions(ctx, "employee-1", 10, 4)
	require.NoError(t, err)
	assert.Len(t, rest.Sessions, 1)

	empty, err := svc.GetMySessions(ctx, "employee-2", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, empty.Sessions)
	assert.Equal(t, int64(0), empty.TotalItems)
}
