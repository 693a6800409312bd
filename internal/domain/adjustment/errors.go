package adjustment

import (
	"fmt"

	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/apperror"
)

var (
	ErrSalaryAdjustmentNotFound  = fmt.Errorf("salary adjustment not found: %w", apperror.ErrNotFound)
	ErrAdjustmentAlreadyDecided  = fmt.Errorf("salary adjustment has already been decided: %w", apperror.ErrInvalidState)
	ErrAdjustmentVersionConflict = fmt.Errorf("salary adjustment was modified concurrently: %w", apperror.ErrConflict)
	ErrInvalidAdjustmentType     = fmt.Errorf("adjustment type must be one of increase, decrease, bonus, deduction, adjustment: %w", apperror.ErrValidation)
	ErrInvalidAdjustmentAmount   = fmt.Errorf("adjustment amount must be a positive number: %w", apperror.ErrValidation)
	ErrInvalidDecision           = fmt.Errorf("decision must be approve or reject: %w", apperror.ErrValidation)
)
