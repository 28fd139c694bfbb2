package event

import "errors"

var (
	ErrEventNotFound    = errors.New("event not found")
	ErrStoreUnavailable = errors.New("event store unavailable")
)
