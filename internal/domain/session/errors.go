package session

import "errors"

// Attendance session domain errors
var (
	ErrSessionNotFound  = errors.New("attendance session not found")
	ErrStoreUnavailable = errors.New("attendance session store unavailable")
)
