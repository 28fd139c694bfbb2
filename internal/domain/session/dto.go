package session

import (
	"time"
)

// ========================================
// ATTENDANCE SESSION DTOs
// ========================================

// ToggleKind tells the caller whether a redemption opened or closed a session.
type ToggleKind string

const (
	ToggleCheckIn  ToggleKind = "check_in"
	ToggleCheckOut ToggleKind = "check_out"
)

type ToggleResult struct {
	Kind    ToggleKind
	Session AttendanceSession
}

type SessionResponse struct {
	ID         string  `json:"id"`
	EmployeeID string  `json:"employee_id"`
	EventID    string  `json:"event_id"`
	CheckIn    string  `json:"check_in"`
	CheckOut   *string `json:"check_out,omitempty"`
	Status     string  `json:"status"`
}

type ListSessionResponse struct {
	Sessions   []SessionResponse `json:"sessions"`
	TotalItems int64             `json:"total_items"`
}

// ToResponse converts a session entity to its API shape.
func ToResponse(s AttendanceSession) SessionResponse {
	resp := SessionResponse{
		ID:         s.ID,
		EmployeeID: s.EmployeeID,
		EventID:    s.EventID,
		CheckIn:    s.CheckIn.UTC().Format(time.RFC3339),
		Status:     string(s.Status),
	}
	if s.CheckOut != nil {
		out := s.CheckOut.UTC().Format(time.RFC3339)
		resp.CheckOut = &out
	}
	return resp
}
