package employee

import (
	"fmt"

	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/apperror"
)

var (
	ErrEmployeeNotFound        = fmt.Errorf("employee not found: %w", apperror.ErrNotFound)
	ErrEmployeeCodeExists      = fmt.Errorf("employee code already exists: %w", apperror.ErrConflict)
	ErrEmployeeVersionConflict = fmt.Errorf("employee was modified concurrently: %w", apperror.ErrConflict)
	ErrNegativeSalary          = fmt.Errorf("monthly salary must not be negative: %w", apperror.ErrValidation)
)
