package employee

import (
	"context"

	"github.com/shopspring/decimal"
)

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	// GetByIDs returns the employees that exist among ids, in no particular
	// order. Unknown ids are silently absent from the result.
	GetByIDs(ctx context.Context, ids []string) ([]Employee, error)
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	// UpdateMonthlySalary writes the new salary only if the stored version
	// still equals expectedVersion, and returns the row with its bumped version.
	UpdateMonthlySalary(ctx context.Context, id string, salary decimal.Decimal, expectedVersion int) (Employee, error)
}
