package response

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/event"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/session"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/token"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses. The mapping lets a
// scanning client distinguish "try again" (503) from "this code is dead"
// (409/410) from "wrong code" (404).
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Token domain errors
	case errors.Is(err, token.ErrMalformedPayload):
		BadRequest(w, "Scan payload is malformed", nil)
	case errors.Is(err, token.ErrTokenExpired):
		Gone(w, "Scan token has expired")
	case errors.Is(err, token.ErrTokenInactive):
		Gone(w, "Scan token is no longer active")
	case errors.Is(err, token.ErrTokenNotFound):
		NotFound(w, "Scan token not found")
	case errors.Is(err, token.ErrEventUnavailable):
		Conflict(w, "Event is not available for scanning")

	// Session domain errors
	case errors.Is(err, session.ErrSessionNotFound):
		NotFound(w, "Attendance session not found")

	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrOverlappingLeave):
		Conflict(w, "Leave request overlaps an approved leave")
	case errors.Is(err, leave.ErrLeaveAlreadyProcessed):
		Conflict(w, "Leave request already processed")

	// Lookup collaborators
	case errors.Is(err, event.ErrEventNotFound):
		NotFound(w, "Event not found")
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Storage failures are retryable
	case errors.Is(err, token.ErrStoreUnavailable),
		errors.Is(err, session.ErrStoreUnavailable),
		errors.Is(err, leave.ErrStoreUnavailable),
		errors.Is(err, event.ErrStoreUnavailable),
		errors.Is(err, employee.ErrStoreUnavailable):
		ServiceUnavailable(w, "Storage temporarily unavailable, retry later")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
