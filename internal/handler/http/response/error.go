package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/adjustment"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// A failed coupled write is reported as such even when its cause is a
	// domain error below; only a lost version race stays retryable.
	var consistencyErr *apperror.ConsistencyError
	if errors.As(err, &consistencyErr) {
		if errors.Is(err, apperror.ErrConflict) {
			Conflict(w, "VERSION_CONFLICT", "Employee was modified concurrently, reload and retry")
			return
		}
		slog.Error("coupled write failed", "entity", consistencyErr.Entity, "id", consistencyErr.ID, "error", consistencyErr.Err)
		InternalServerError(w, "CONSISTENCY_ERROR", "Employee record could not be updated, nothing was saved")
		return
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Payroll domain errors
	case errors.Is(err, payroll.ErrPayrollItemNotFound):
		NotFound(w, "Payroll item not found")
	case errors.Is(err, payroll.ErrPayrollRunNotFound):
		NotFound(w, "Payroll run not found")
	case errors.Is(err, payroll.ErrEmptyEmployeeSet):
		NotFound(w, "No employees selected")
	case errors.Is(err, payroll.ErrNoMatchingEmployees):
		NotFound(w, "None of the selected employees exist")
	case errors.Is(err, payroll.ErrInvalidPeriodKey):
		BadRequest(w, "Invalid period key, expected YYYY-MM-DD_YYYY-MM-DD", nil)
	case errors.Is(err, payroll.ErrInvalidAmount):
		ValidationError(w, map[string]string{"basic_pay": "must be greater than 0"})
	case errors.Is(err, payroll.ErrItemNotEditable):
		Conflict(w, "ITEM_NOT_EDITABLE", "Only pending payroll items can be edited")
	case errors.Is(err, payroll.ErrRunNotEditable):
		Conflict(w, "RUN_NOT_EDITABLE", "Payroll run no longer accepts edits")
	case errors.Is(err, payroll.ErrPayrollItemAlreadyExists):
		Conflict(w, "ITEM_ALREADY_EXISTS", "Employee already has a payroll item for this period")
	case errors.Is(err, payroll.ErrCannotDeletePaidItem):
		Conflict(w, "ITEM_ALREADY_PAID", "Paid payroll items cannot be deleted")

	// Salary adjustment domain errors
	case errors.Is(err, adjustment.ErrSalaryAdjustmentNotFound):
		NotFound(w, "Salary adjustment not found")
	case errors.Is(err, adjustment.ErrAdjustmentAlreadyDecided):
		Conflict(w, "ADJUSTMENT_ALREADY_DECIDED", "Salary adjustment already decided")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Categories
	case errors.Is(err, apperror.ErrValidation):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, apperror.ErrNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, apperror.ErrInvalidState):
		Conflict(w, "INVALID_STATE", err.Error())
	case errors.Is(err, apperror.ErrConflict):
		Conflict(w, "VERSION_CONFLICT", "Resource was modified concurrently, reload and retry")
	case errors.Is(err, apperror.ErrPersistence):
		slog.Error("persistence failure", "error", err)
		InternalServerError(w, "PERSISTENCE_ERROR", "Storage is unavailable")

	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "INTERNAL_SERVER_ERROR", "An unexpected error occurred")
	}
}
