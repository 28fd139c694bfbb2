package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/audit"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/keymutex"
)

type LeaveServiceImpl struct {
	leave.LeaveRequestRepository
	employee.EmployeeRepository
	notifications notification.Service
	auditor       audit.Recorder
	locks         *keymutex.KeyMutex
}

func NewLeaveService(
	leaveRequestRepository leave.LeaveRequestRepository,
	employeeRepository employee.EmployeeRepository,
	notifications notification.Service,
	auditor audit.Recorder,
) *LeaveServiceImpl {
	return &LeaveServiceImpl{
		LeaveRequestRepository: leaveRequestRepository,
		EmployeeRepository:     employeeRepository,
		notifications:          notifications,
		auditor:                auditor,
		locks:                  keymutex.New(),
	}
}

// CreateRequest implements leave.LeaveService. The candidate range is checked
// against Approved intervals only; overlapping Pending requests are allowed
// and resolved at approval time.
func (s *LeaveServiceImpl) CreateRequest(ctx context.Context, req leave.CreateLeaveRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	if _, err := s.EmployeeRepository.GetByID(ctx, req.EmployeeID); err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return leave.LeaveRequestResponse{}, employee.ErrEmployeeNotFound
		}
		return leave.LeaveRequestResponse{}, fmt.Errorf("%w: failed to get employee: %v", leave.ErrStoreUnavailable, err)
	}

	startDate, _ := time.Parse("2006-01-02", req.StartDate)
	endDate, _ := time.Parse("2006-01-02", req.EndDate)

	conflictID, err := s.CheckOverlap(ctx, req.EmployeeID, startDate, endDate)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if conflictID != "" {
		return leave.LeaveRequestResponse{}, fmt.Errorf("%w: conflicts with %s", leave.ErrOverlappingLeave, conflictID)
	}

	created, err := s.LeaveRequestRepository.Create(ctx, leave.LeaveRequest{
		EmployeeID: req.EmployeeID,
		StartDate:  startDate,
		EndDate:    endDate,
		Reason:     req.Reason,
		Status:     leave.LeaveRequestStatusPending,
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("%w: failed to create leave request: %v", leave.ErrStoreUnavailable, err)
	}

	s.notifications.Publish(req.EmployeeID, notification.TypeLeaveRequested,
		fmt.Sprintf("Leave request for %s to %s submitted", req.StartDate, req.EndDate))

	return leave.ToResponse(created), nil
}

// CheckOverlap implements leave.LeaveService. Closed-interval semantics: a
// leave ending on day X conflicts with one starting on day X.
func (s *LeaveServiceImpl) CheckOverlap(ctx context.Context, employeeID string, start, end time.Time) (string, error) {
	conflict, err := s.LeaveRequestRepository.FindApprovedOverlap(ctx, employeeID, start, end)
	if err != nil {
		return "", fmt.Errorf("%w: failed to check overlapping leave: %v", leave.ErrStoreUnavailable, err)
	}
	if conflict == nil {
		return "", nil
	}
	return conflict.ID, nil
}

// Approve implements leave.LeaveService. The overlap re-check and the status
// write run under a per-employee lock: two racing approvals for the same
// employee are serialized, so the loser observes the winner's interval and
// fails with ErrOverlappingLeave.
func (s *LeaveServiceImpl) Approve(ctx context.Context, requestID, approverID string) (leave.LeaveRequestResponse, error) {
	request, err := s.getRequest(ctx, requestID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	unlock := s.locks.Lock(request.EmployeeID)
	defer unlock()

	// Re-read inside the lock; the request may have been processed while
	// we waited.
	request, err = s.getRequest(ctx, requestID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	if request.Status != leave.LeaveRequestStatusPending {
		return leave.LeaveRequestResponse{}, leave.ErrLeaveAlreadyProcessed
	}

	conflictID, err := s.CheckOverlap(ctx, request.EmployeeID, request.StartDate, request.EndDate)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if conflictID != "" {
		return leave.LeaveRequestResponse{}, fmt.Errorf("%w: conflicts with %s", leave.ErrOverlappingLeave, conflictID)
	}

	approvedAt := time.Now().UTC()
	request.Status = leave.LeaveRequestStatusApproved
	request.ApprovedBy = &approverID
	request.ApprovedAt = &approvedAt

	if err := s.LeaveRequestRepository.UpdateStatus(ctx, leave.UpdateLeaveStatusRequest{
		ID:         request.ID,
		Status:     leave.LeaveRequestStatusApproved,
		ApprovedBy: &approverID,
		ApprovedAt: &approvedAt,
	}); err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("%w: failed to update leave request: %v", leave.ErrStoreUnavailable, err)
	}

	s.recordAudit(ctx, approverID, "leave_request.approve", request)
	s.notifications.Publish(request.EmployeeID, notification.TypeLeaveApproved,
		fmt.Sprintf("Leave request for %s to %s approved",
			request.StartDate.Format("2006-01-02"), request.EndDate.Format("2006-01-02")))

	return leave.ToResponse(request), nil
}

// Reject implements leave.LeaveService.
func (s *LeaveServiceImpl) Reject(ctx context.Context, requestID, reason, approverID string) (leave.LeaveRequestResponse, error) {
	request, err := s.getRequest(ctx, requestID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	unlock := s.locks.Lock(request.EmployeeID)
	defer unlock()

	request, err = s.getRequest(ctx, requestID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	if request.Status != leave.LeaveRequestStatusPending {
		return leave.LeaveRequestResponse{}, leave.ErrLeaveAlreadyProcessed
	}

	rejectedAt := time.Now().UTC()
	request.Status = leave.LeaveRequestStatusRejected
	request.ApprovedBy = &approverID
	request.ApprovedAt = &rejectedAt
	request.RejectionReason = &reason

	if err := s.LeaveRequestRepository.UpdateStatus(ctx, leave.UpdateLeaveStatusRequest{
		ID:              request.ID,
		Status:          leave.LeaveRequestStatusRejected,
		ApprovedBy:      &approverID,
		ApprovedAt:      &rejectedAt,
		RejectionReason: &reason,
	}); err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("%w: failed to update leave request: %v", leave.ErrStoreUnavailable, err)
	}

	s.recordAudit(ctx, approverID, "leave_request.reject", request)
	s.notifications.Publish(request.EmployeeID, notification.TypeLeaveRejected,
		fmt.Sprintf("Leave request for %s to %s rejected",
			request.StartDate.Format("2006-01-02"), request.EndDate.Format("2006-01-02")))

	return leave.ToResponse(request), nil
}

// Cancel implements leave.LeaveService. Cancelling an approved request frees
// its interval for future overlap checks.
func (s *LeaveServiceImpl) Cancel(ctx context.Context, requestID, employeeID string) (leave.LeaveRequestResponse, error) {
	request, err := s.getRequest(ctx, requestID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	if request.EmployeeID != employeeID {
		return leave.LeaveRequestResponse{}, leave.ErrLeaveRequestNotFound
	}

	unlock := s.locks.Lock(request.EmployeeID)
	defer unlock()

	request, err = s.getRequest(ctx, requestID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	if request.Status != leave.LeaveRequestStatusPending && request.Status != leave.LeaveRequestStatusApproved {
		return leave.LeaveRequestResponse{}, leave.ErrLeaveAlreadyProcessed
	}

	request.Status = leave.LeaveRequestStatusCancelled

	if err := s.LeaveRequestRepository.UpdateStatus(ctx, leave.UpdateLeaveStatusRequest{
		ID:     request.ID,
		Status: leave.LeaveRequestStatusCancelled,
	}); err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("%w: failed to update leave request: %v", leave.ErrStoreUnavailable, err)
	}

	s.recordAudit(ctx, employeeID, "leave_request.cancel", request)
	s.notifications.Publish(request.EmployeeID, notification.TypeLeaveCancelled,
		fmt.Sprintf("Leave request for %s to %s cancelled",
			request.StartDate.Format("2006-01-02"), request.EndDate.Format("2006-01-02")))

	return leave.ToResponse(request), nil
}

// GetMyRequests implements leave.LeaveService.
func (s *LeaveServiceImpl) GetMyRequests(ctx context.Context, employeeID string, limit, offset int) (leave.ListLeaveRequestResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	requests, total, err := s.LeaveRequestRepository.ListByEmployee(ctx, employeeID, limit, offset)
	if err != nil {
		return leave.ListLeaveRequestResponse{}, fmt.Errorf("%w: failed to list leave requests: %v", leave.ErrStoreUnavailable, err)
	}

	resp := leave.ListLeaveRequestResponse{
		Requests:   make([]leave.LeaveRequestResponse, 0, len(requests)),
		TotalItems: total,
	}
	for _, item := range requests {
		resp.Requests = append(resp.Requests, leave.ToResponse(item))
	}
	return resp, nil
}

func (s *LeaveServiceImpl) getRequest(ctx context.Context, requestID string) (leave.LeaveRequest, error) {
	request, err := s.LeaveRequestRepository.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, leave.ErrLeaveRequestNotFound) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("%w: failed to get leave request: %v", leave.ErrStoreUnavailable, err)
	}
	return request, nil
}

// recordAudit logs the administrative action. Audit failures never roll back
// the status change that already committed.
func (s *LeaveServiceImpl) recordAudit(ctx context.Context, actorID, action string, request leave.LeaveRequest) {
	err := s.auditor.Record(ctx, actorID, action, map[string]interface{}{
		"leave_request_id": request.ID,
		"employee_id":      request.EmployeeID,
		"start_date":       request.StartDate.Format("2006-01-02"),
		"end_date":         request.EndDate.Format("2006-01-02"),
	})
	if err != nil {
		slog.Error("failed to record audit log", "action", action, "leave_request_id", request.ID, "error", err)
	}
}
