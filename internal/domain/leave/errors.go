package leave

import "errors"

var (
	ErrLeaveRequestNotFound  = errors.New("leave request not found")
	ErrOverlappingLeave      = errors.New("leave request overlaps an approved leave")
	ErrLeaveAlreadyProcessed = errors.New("leave request already processed")
	ErrStoreUnavailable      = errors.New("leave request store unavailable")
)
