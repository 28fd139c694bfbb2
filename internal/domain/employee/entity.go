package employee

import (
	"time"
)

// Employee is a lookup collaborator: redemption only needs to know the
// scanning identity resolves to a known, non-deleted employee.
type Employee struct {
	ID        string
	Name      string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}
