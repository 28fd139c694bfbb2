package employee

import "errors"

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrStoreUnavailable = errors.New("employee store unavailable")
)
