package adjustment

import (
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type SubmitSalaryAdjustmentRequest struct {
	EmployeeID    string          `json:"employee_id" validate:"required"`
	Type          string          `json:"type" validate:"required,oneof=increase decrease bonus deduction adjustment"`
	Amount        decimal.Decimal `json:"amount"`
	Reason        string          `json:"reason" validate:"required"`
	EffectiveDate string          `json:"effective_date" validate:"required,datetime=2006-01-02"`
	// RequestedBy is filled from the caller's token, never from the body.
	RequestedBy *string `json:"-"`
}

func (r *SubmitSalaryAdjustmentRequest) Validate() error {
	errs := validator.Struct(r)
	if !validator.IsPositive(r.Amount) {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "must be greater than 0"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type DecideSalaryAdjustmentRequest struct {
	ID       string `json:"-"`
	Decision string `json:"decision" validate:"required,oneof=approve reject"`
	// DecidedBy is the approver's user id taken from the token.
	DecidedBy string `json:"-"`
	Version   *int   `json:"version,omitempty"`
}

func (r *DecideSalaryAdjustmentRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "is required"})
	}
	errs = append(errs, validator.Struct(r)...)
	if validator.IsEmpty(r.DecidedBy) {
		errs = append(errs, validator.ValidationError{Field: "decided_by", Message: "is required"})
	}
	if r.Version != nil && *r.Version < 1 {
		errs = append(errs, validator.ValidationError{Field: "version", Message: "must be at least 1"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SalaryAdjustmentFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Status     *string `json:"status,omitempty"`
}

func (f *SalaryAdjustmentFilter) Validate() error {
	if f.Status != nil {
		switch AdjustmentStatus(*f.Status) {
		case AdjustmentStatusPending, AdjustmentStatusApproved, AdjustmentStatusRejected:
		default:
			return validator.ValidationErrors{{Field: "status", Message: "must be one of: pending, approved, rejected"}}
		}
	}
	return nil
}

type SalaryAdjustmentResponse struct {
	ID            string           `json:"id"`
	EmployeeID    string           `json:"employee_id"`
	EmployeeName  *string          `json:"employee_name,omitempty"`
	Type          AdjustmentType   `json:"type"`
	Amount        decimal.Decimal  `json:"amount"`
	Reason        string           `json:"reason"`
	EffectiveDate string           `json:"effective_date"`
	Status        AdjustmentStatus `json:"status"`
	RequestedBy   *string          `json:"requested_by,omitempty"`
	ApprovedBy    *string          `json:"approved_by,omitempty"`
	ApprovedAt    *string          `json:"approved_at,omitempty"`
	Version       int              `json:"version"`
	CreatedAt     string           `json:"created_at"`
	UpdatedAt     string           `json:"updated_at"`
}

func NewSalaryAdjustmentResponse(a SalaryAdjustment) SalaryAdjustmentResponse {
	resp := SalaryAdjustmentResponse{
		ID:            a.ID,
		EmployeeID:    a.EmployeeID,
		EmployeeName:  a.EmployeeName,
		Type:          a.Type,
		Amount:        a.Amount,
		Reason:        a.Reason,
		EffectiveDate: a.EffectiveDate.Format("2006-01-02"),
		Status:        a.Status,
		RequestedBy:   a.RequestedBy,
		ApprovedBy:    a.ApprovedBy,
		Version:       a.Version,
		CreatedAt:     a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     a.UpdatedAt.Format(time.RFC3339),
	}
	if a.ApprovedAt != nil {
		approvedAt := a.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &approvedAt
	}
	return resp
}

type DecideSalaryAdjustmentResponse struct {
	Adjustment     SalaryAdjustmentResponse `json:"adjustment"`
	EmployeeChange *employee.SalaryChange   `json:"employee_change,omitempty"`
}
