package payroll

import (
	"errors"
	"fmt"

	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/apperror"
)

var (
	ErrPayrollItemNotFound        = fmt.Errorf("payroll item not found: %w", apperror.ErrNotFound)
	ErrPayrollRunNotFound         = fmt.Errorf("payroll run not found: %w", apperror.ErrNotFound)
	ErrEmptyEmployeeSet           = fmt.Errorf("no employees given for payroll run: %w", apperror.ErrNotFound)
	ErrNoMatchingEmployees        = fmt.Errorf("no matching employee records for payroll run: %w", apperror.ErrNotFound)
	ErrInvalidAmount              = fmt.Errorf("basic pay must be a positive amount: %w", apperror.ErrValidation)
	ErrInvalidPeriod              = fmt.Errorf("pay period end must not be before its start: %w", apperror.ErrValidation)
	ErrInvalidPeriodKey           = fmt.Errorf("period key must look like YYYY-MM-DD_YYYY-MM-DD: %w", apperror.ErrValidation)
	ErrItemNotEditable            = fmt.Errorf("only pending payroll items can be recalculated: %w", apperror.ErrInvalidState)
	ErrRunNotEditable             = fmt.Errorf("payroll run is no longer editable: %w", apperror.ErrInvalidState)
	ErrInvalidStatusTransition    = fmt.Errorf("payroll item status transition not allowed: %w", apperror.ErrInvalidState)
	ErrCannotDeletePaidItem       = fmt.Errorf("cannot delete paid payroll item: %w", apperror.ErrInvalidState)
	ErrNoItemsToTransition        = fmt.Errorf("payroll run has no items in the required status: %w", apperror.ErrInvalidState)
	ErrPayrollItemVersionConflict = fmt.Errorf("payroll item was modified concurrently: %w", apperror.ErrConflict)
	ErrPayrollItemAlreadyExists   = fmt.Errorf("payroll item already exists for this employee and period: %w", apperror.ErrConflict)

	ErrUnknownItemStatus = errors.New("unknown payroll item status")
	ErrItemInvariant     = errors.New("payroll item amounts are inconsistent")
)
