package leave

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/presence-backend-go/internal/repository/memory"
	notificationService "github.com/cmlabs-hris/presence-backend-go/internal/service/notification"
)

const (
	testEmployeeID = "employee-1"
	testApproverID = "approver-1"
)

type leaveTestEnv struct {
	service  *LeaveServiceImpl
	requests *memory.LeaveRequestRepository
	audit    *memory.AuditLogRepository
}

func newLeaveTestEnv(t *testing.T) *leaveTestEnv {
	t.Helper()

	requests := memory.NewLeaveRequestRepository()
	employees := memory.NewEmployeeRepository(
		employee.Employee{ID: testEmployeeID, Name: "Test Employee", Email: "employee@example.com"},
		employee.Employee{ID: testApproverID, Name: "Test Approver", Email: "approver@example.com"},
	)
	auditRepo := memory.NewAuditLogRepository()

	notifications := notificationService.NewNotificationService(
		memory.NewNotificationRepository(), notificationService.Config{},
	)
	t.Cleanup(notifications.Stop)

	return &leaveTestEnv{
		service:  NewLeaveService(requests, employees, notifications, auditRepo),
		requests: requests,
		audit:    auditRepo,
	}
}

func createRequest(t *testing.T, env *leaveTestEnv, start, end string) leave.LeaveRequestResponse {
	t.Helper()

	reason := "vacation"
	resp, err := env.service.CreateRequest(context.Background(), leave.CreateLeaveRequest{
		EmployeeID: testEmployeeID,
		StartDate:  start,
		EndDate:    end,
		Reason:     &reason,
	})
	require.NoError(t, err)
	return resp
}

func createApproved(t *testing.T, env *leaveTestEnv, start, end string) leave.LeaveRequestResponse {
	t.Helper()

	created := createRequest(t, env, start, end)
	approved, err := env.service.Approve(context.Background(), created.ID, testApproverID)
	require.NoError(t, err)
	return approved
}

func TestCreateRequestValidation(t *testing.T) {
	env := newLeaveTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		req   leave.CreateLeaveRequest
		field string
	}{
		{
			name:  "missing start date",
			req:   leave.CreateLeaveRequest{EmployeeID: testEmployeeID, EndDate: "2026-03-05"},
			field: "start_date",
		},
		{
			name:  "garbage end date",
			req:   leave.CreateLeaveRequest{EmployeeID: testEmployeeID, StartDate: "2026-03-01", EndDate: "not-a-date"},
			field: "end_date",
		},
		{
			name:  "end before start",
			req:   leave.CreateLeaveRequest{EmployeeID: testEmployeeID, StartDate: "2026-03-05", EndDate: "2026-03-01"},
			field: "end_date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.service.CreateRequest(ctx, tt.req)
			require.Error(t, err)

			var errs validator.ValidationErrors
			require.ErrorAs(t, err, &errs)
			assert.Contains(t, errs.ToMap(), tt.field)
		})
	}
}

func TestCreateRequestUnknownEmployee(t *testing.T) {
	env := newLeaveTestEnv(t)

	_, err := env.service.CreateRequest(context.Background(), leave.CreateLeaveRequest{
		EmployeeID: "ghost",
		StartDate:  "2026-03-01",
		EndDate:    "2026-03-05",
	})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestCreateRequestRejectsApprovedOverlap(t *testing.T) {
	env := newLeaveTestEnv(t)
	ctx := context.Background()

	createApproved(t, env, "2026-03-01", "2026-03-05")

	tests := []struct {
		name       string
		start, end string
	}{
		{name: "contained", start: "2026-03-02", end: "2026-03-04"},
		{name: "straddles end", start: "2026-03-04", end: "2026-03-10"},
		{name: "shared boundary day", start: "2026-03-05", end: "2026-03-08"},
		{name: "covers entirely", start: "2026-02-20", end: "2026-03-20"},
		{name: "single conflicting day", start: "2026-03-01", end: "2026-03-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.service.CreateRequest(ctx, leave.CreateLeaveRequest{
				EmployeeID: testEmployeeID,
				StartDate:  tt.start,
				EndDate:    tt.end,
			})
			assert.ErrorIs(t, err, leave.ErrOverlappingLeave)
		})
	}

	// Adjacent-but-disjoint intervals are fine.
	created := createRequest(t, env, "2026-03-06", "2026-03-08")
	assert.Equal(t, string(leave.LeaveRequestStatusPending), created.Status)
}

func TestCreateRequestAllowsPendingOverlap(t *testing.T) {
	env := newLeaveTestEnv(t)

	first := createRequest(t, env, "2026-03-01", "2026-03-05")
	second := createRequest(t, env, "2026-03-03", "2026-03-08")

	assert.Equal(t, string(leave.LeaveRequestStatusPending), first.Status)
	assert.Equal(t, string(leave.LeaveRequestStatusPending), second.Status)
}

func TestApproveSecondOverlappingRequestFails(t *testing.T) {
	env := newLeaveTestEnv(t)
	ctx := context.Background()

	first := createRequest(t, env, "2026-03-01", "2026-03-05")
	second := createRequest(t, env, "2026-03-03", "2026-03-08")

	approved, err := env.service.Approve(ctx, first.ID, testApproverID)
	require.NoError(t, err)
	assert.Equal(t, string(leave.LeaveRequestStatusApproved), approved.Status)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, testApproverID, *approved.ApprovedBy)

	_, err = env.service.Approve(ctx, second.ID, testApproverID)
	assert.ErrorIs(t, err, leave.ErrOverlappingLeave)

	// The loser stays pending; it was not silently rejected.
	stored, err := env.requests.GetByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, leave.LeaveRequestStatusPending, stored.Status)
}

func TestApproveConcurrentOverlappingRequests(t *testing.T) {
	env := newLeaveTestEnv(t)
	ctx := context.Background()

	first := createRequest(t, env, "2026-03-01", "2026-03-05")
	second := createRequest(t, env, "2026-03-05", "2026-03-09")

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, id := range []string{first.ID, second.ID} {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			_, errs[i] = env.service.Approve(ctx, id, testApproverID)
		}(i, id)
	}
	wg.Wait()

	var succeeded, conflicted int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, leave.ErrOverlappingLeave):
			conflicted++
		default:
			t.Errorf("unexpected approval error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, conflicted)

	var approved int
	for _, req := range env.requests.All() {
		if req.Status == leave.LeaveRequestStatusApproved {
			approved++
		}
	}
	assert.Equal(t, 1, approved)
}

func TestApproveAlreadyProcessed(t *testing.T) {
	env := newLeaveTestEnv(t)
	ctx := context.Background()

	approved := createApproved(t, env, "2026-03-01", "2026-03-05")

	_, err := env.service.Approve(ctx, approved.ID, testApproverID)
	assert.ErrorIs(t, err, leave.ErrLeaveAlreadyProcessed)
}

func TestRejectLeavesIntervalFree(t *testing.T) {
	env := newLeaveTestEnv(t)
	ctx := context.Background()

	created := createRequest(t, env, "2026-03-01", "2026-03-05")

	rejected, err := env.service.Reject(ctx, created.ID, "headcount", testApproverID)
	require.NoError(t, err)
	assert.Equal(t, string(leave.LeaveRequestStatusRejected), rejected.Status)
	require.NotNil(t, rejected.RejectionReason)
	assert.Equal(t, "headcount", *rejected.RejectionReason)

	// A rejected interval does not block later requests.
	again := createRequest(t, env, "2026-03-01", "2026-03-05")
	assert.Equal(t, string(leave.LeaveRequestStatusPending), again.Status)

	_, err = env.service.Approve(ctx, created.ID, testApproverID)
	assert.ErrorIs(t, err, leave.ErrLeaveAlreadyProcessed)
}

func TestCancelFreesApprovedInterval(t *testing.T) {
	env := newLeaveTestEnv(t)
	ctx := context.Background()

	approved := createApproved(t, env, "2026-03-01", "2026-03-05")

	cancelled, err := env.service.Cancel(ctx, approved.ID, testEmployeeID)
	require.NoError(t, err)
	assert.Equal(t, string(leave.LeaveRequestStatusCancelled), cancelled.Status)

	// The interval is free again.
	replacement := createApproved(t, env, "2026-03-01", "2026-03-05")
	assert.Equal(t, string(leave.LeaveRequestStatusApproved), replacement.Status)
}

func TestCancelRequiresOwnership(t *testing.T) {
	env := newLeaveTestEnv(t)
	ctx := context.Background()

	created := createRequest(t, env, "2026-03-01", "2026-03-05")

	_, err := env.service.Cancel(ctx, created.ID, testApproverID)
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)

	// Still pending and still cancellable by the owner.
	cancelled, err := env.service.Cancel(ctx, created.ID, testEmployeeID)
	require.NoError(t, err)
	assert.Equal(t, string(leave.LeaveRequestStatusCancelled), cancelled.Status)

	_, err = env.service.Cancel(ctx, created.ID, testEmployeeID)
	assert.ErrorIs(t, err, leave.ErrLeaveAlreadyProcessed)
}

func TestDecisionsAreAudited(t *testing.T) {
	env := newLeaveTestEnv(t)
	ctx := context.Background()

	approved := createApproved(t, env, "2026-03-01", "2026-03-05")

	rejectedReq := createRequest(t, env, "2026-04-01", "2026-04-02")
	_, err := env.service.Reject(ctx, rejectedReq.ID, "coverage", testApproverID)
	require.NoError(t, err)

	logs := env.audit.Logs()
	require.Len(t, logs, 2)

	assert.Equal(t, "leave_request.approve", logs[0].Action)
	assert.Equal(t, testApproverID, logs[0].ActorID)
	assert.Equal(t, approved.ID, logs[0].Metadata["leave_request_id"])
	assert.Equal(t, "leave_request.reject", logs[1].Action)
}

func TestGetMyRequestsPagination(t *testing.T) {
	env := newLeaveTestEnv(t)
	ctx := context.Background()

	createRequest(t, env, "2026-03-01", "2026-03-02")
	createRequest(t, env, "2026-04-01", "2026-04-02")
	createRequest(t, env, "2026-05-01", "2026-05-02")

	resp, err := env.service.GetMyRequests(ctx, testEmployeeID, 2, 0)
	require.NoError(t, err)
	assert.Len(t, resp.Requests, 2)
	assert.Equal(t, int64(3), resp.TotalItems)

	empty, err := env.service.GetMyRequests(ctx, "someone-else", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, empty.Requests)
}
