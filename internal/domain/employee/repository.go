package employee

import (
	"context"
)

// EmployeeRepository defines lookup access for employees.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
}
