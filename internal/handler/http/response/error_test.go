package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/adjustment"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation errors", validator.ValidationErrors{{Field: "amount", Message: "must be greater than 0"}}, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"invalid amount", payroll.ErrInvalidAmount, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"bad period key", payroll.ErrInvalidPeriodKey, http.StatusBadRequest, "BAD_REQUEST"},
		{"item not found", fmt.Errorf("failed to get item: %w", payroll.ErrPayrollItemNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"no employees", payroll.ErrEmptyEmployeeSet, http.StatusNotFound, "NOT_FOUND"},
		{"item not editable", payroll.ErrItemNotEditable, http.StatusConflict, "ITEM_NOT_EDITABLE"},
		{"already decided", adjustment.ErrAdjustmentAlreadyDecided, http.StatusConflict, "ADJUSTMENT_ALREADY_DECIDED"},
		{"version conflict", payroll.ErrPayrollItemVersionConflict, http.StatusConflict, "VERSION_CONFLICT"},
		{"duplicate item", payroll.ErrPayrollItemAlreadyExists, http.StatusConflict, "ITEM_ALREADY_EXISTS"},
		{"bad transition", payroll.ErrInvalidStatusTransition, http.StatusConflict, "INVALID_STATE"},
		{"consistency", apperror.NewConsistencyError("employee", "e1", errors.New("disk full")), http.StatusInternalServerError, "CONSISTENCY_ERROR"},
		{"consistency from missing employee", apperror.NewConsistencyError("employee", "e1", employee.ErrEmployeeNotFound), http.StatusInternalServerError, "CONSISTENCY_ERROR"},
		{"consistency from version race", apperror.NewConsistencyError("employee", "e1", employee.ErrEmployeeVersionConflict), http.StatusConflict, "VERSION_CONFLICT"},
		{"persistence", fmt.Errorf("failed to list: %w: %w", apperror.ErrPersistence, errors.New("conn refused")), http.StatusInternalServerError, "PERSISTENCE_ERROR"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.wantCode, body.Error.Code)
		})
	}
}

func TestHandleError_ValidationDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, validator.ValidationErrors{{Field: "period_start", Message: "is required"}})

	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, map[string]string{"period_start": "is required"}, body.Error.Details)
}
