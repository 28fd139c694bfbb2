package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/leave"
)

type LeaveRequestRepository struct {
	mu       sync.RWMutex
	requests map[string]leave.LeaveRequest
}

func NewLeaveRequestRepository() *LeaveRequestRepository {
	return &LeaveRequestRepository{
		requests: make(map[string]leave.LeaveRequest),
	}
}

// Create implements leave.LeaveRequestRepository.
func (r *LeaveRequestRepository) Create(_ context.Context, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	req.ID = uuid.NewString()
	req.CreatedAt = now
	req.UpdatedAt = now
	r.requests[req.ID] = req

	return req, nil
}

// GetByID implements leave.LeaveRequestRepository.
func (r *LeaveRequestRepository) GetByID(_ context.Context, id string) (leave.LeaveRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	req, ok := r.requests[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return req, nil
}

// FindApprovedOverlap implements leave.LeaveRequestRepository. Candidates are
// ordered by start date then ID so the reported conflict is deterministic for
// a fixed set, matching the postgresql implementation.
func (r *LeaveRequestRepository) FindApprovedOverlap(_ context.Context, employeeID string, start, end time.Time) (*leave.LeaveRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var candidates []leave.LeaveRequest
	for _, req := range r.requests {
		if req.EmployeeID == employeeID && req.Status == leave.LeaveRequestStatusApproved && req.Overlaps(start, end) {
			candidates = append(candidates, req)
		}
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	sort.Slice(candidates, func(i, j int) bool {
		if !candidates[i].StartDate.Equal(candidates[j].StartDate) {
			return candidates[i].StartDate.Before(candidates[j].StartDate)
		}
		return candidates[i].ID < candidates[j].ID
	})

	found := candidates[0]
	return &found, nil
}

// UpdateStatus implements leave.LeaveRequestRepository.
func (r *LeaveRequestRepository) UpdateStatus(_ context.Context, update leave.UpdateLeaveStatusRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	req, ok := r.requests[update.ID]
	if !ok {
		return leave.ErrLeaveRequestNotFound
	}

	req.Status = update.Status
	if update.ApprovedBy != nil {
		req.ApprovedBy = update.ApprovedBy
	}
	if update.ApprovedAt != nil {
		req.ApprovedAt = update.ApprovedAt
	}
	if update.RejectionReason != nil {
		req.RejectionReason = update.RejectionReason
	}
	req.UpdatedAt = time.Now().UTC()
	r.requests[update.ID] = req

	return nil
}

// ListByEmployee implements leave.LeaveRequestRepository.
func (r *LeaveRequestRepository) ListByEmployee(_ context.Context, employeeID string, limit, offset int) ([]leave.LeaveRequest, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var all []leave.LeaveRequest
	for _, req := range r.requests {
		if req.EmployeeID == employeeID {
			all = append(all, req)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

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

// All returns every stored request. Test helper for invariant checks.
func (r *LeaveRequestRepository) All() []leave.LeaveRequest {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]leave.LeaveRequest, 0, len(r.requests))
	for _, req := range r.requests {
		out = append(out, req)
	}
	return out
}
