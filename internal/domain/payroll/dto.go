package payroll

import (
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== RUN DTOs ==========

type BuildPayrollRunRequest struct {
	PeriodStart string   `json:"period_start" validate:"required,datetime=2006-01-02"`
	PeriodEnd   string   `json:"period_end" validate:"required,datetime=2006-01-02"`
	PayDate     string   `json:"pay_date" validate:"required,datetime=2006-01-02"`
	EmployeeIDs []string `json:"employee_ids"`
}

func (r *BuildPayrollRunRequest) Validate() error {
	if errs := validator.Struct(r); len(errs) > 0 {
		return errs
	}

	var errs validator.ValidationErrors
	start, _ := validator.IsValidDate(r.PeriodStart)
	end, _ := validator.IsValidDate(r.PeriodEnd)
	payDate, _ := validator.IsValidDate(r.PayDate)

	if end.Before(start) {
		errs = append(errs, validator.ValidationError{Field: "period_end", Message: "must not be before period_start"})
	}
	if payDate.Before(start) {
		errs = append(errs, validator.ValidationError{Field: "pay_date", Message: "must not be before period_start"})
	}
	for _, id := range r.EmployeeIDs {
		if validator.IsEmpty(id) {
			errs = append(errs, validator.ValidationError{Field: "employee_ids", Message: "must not contain empty ids"})
			break
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Period returns the parsed period and pay date. Call Validate first.
func (r *BuildPayrollRunRequest) Period() (Period, time.Time, error) {
	start, _ := validator.IsValidDate(r.PeriodStart)
	end, _ := validator.IsValidDate(r.PeriodEnd)
	payDate, _ := validator.IsValidDate(r.PayDate)
	period, err := NewPeriod(start, end)
	return period, payDate, err
}

type SkippedEmployee struct {
	EmployeeID string `json:"employee_id"`
	Reason     string `json:"reason"`
}

type BuildPayrollRunResponse struct {
	PeriodKey string                `json:"period_key"`
	Items     []PayrollItemResponse `json:"items"`
	Skipped   []SkippedEmployee     `json:"skipped"`
}

type RunTotalsResponse struct {
	GrossPay        decimal.Decimal `json:"gross_pay"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	NetPay          decimal.Decimal `json:"net_pay"`
	SSS             decimal.Decimal `json:"sss"`
	PhilHealth      decimal.Decimal `json:"philhealth"`
	PagIbig         decimal.Decimal `json:"pagibig"`
	WithholdingTax  decimal.Decimal `json:"withholding_tax"`
	OtherDeductions decimal.Decimal `json:"other_deductions"`
}

type PayrollRunResponse struct {
	PeriodKey      string                `json:"period_key"`
	PayPeriodStart string                `json:"pay_period_start"`
	PayPeriodEnd   string                `json:"pay_period_end"`
	PayDate        string                `json:"pay_date"`
	Status         RunStatus             `json:"status"`
	EmployeeCount  int                   `json:"employee_count"`
	Totals         RunTotalsResponse     `json:"totals"`
	Items          []PayrollItemResponse `json:"items,omitempty"`
}

func NewPayrollRunResponse(run PayrollRun, withItems bool) PayrollRunResponse {
	resp := PayrollRunResponse{
		PeriodKey:      run.Period.Key(),
		PayPeriodStart: run.Period.Start.Format(dateLayout),
		PayPeriodEnd:   run.Period.End.Format(dateLayout),
		PayDate:        run.PayDate.Format(dateLayout),
		Status:         run.Status,
		EmployeeCount:  run.Totals.EmployeeCount,
		Totals: RunTotalsResponse{
			GrossPay:        run.Totals.GrossPay,
			TotalDeductions: run.Totals.TotalDeductions,
			NetPay:          run.Totals.NetPay,
			SSS:             run.Totals.SSS,
			PhilHealth:      run.Totals.PhilHealth,
			PagIbig:         run.Totals.PagIbig,
			WithholdingTax:  run.Totals.WithholdingTax,
			OtherDeductions: run.Totals.OtherDeductions,
		},
	}
	if withItems {
		resp.Items = make([]PayrollItemResponse, 0, len(run.Items))
		for _, item := range run.Items {
			resp.Items = append(resp.Items, NewPayrollItemResponse(item))
		}
	}
	return resp
}

// ========== ITEM DTOs ==========

type PayrollItemResponse struct {
	ID                     string          `json:"id"`
	EmployeeID             string          `json:"employee_id"`
	EmployeeName           *string         `json:"employee_name,omitempty"`
	PeriodKey              string          `json:"period_key"`
	PayPeriodStart         string          `json:"pay_period_start"`
	PayPeriodEnd           string          `json:"pay_period_end"`
	PayDate                string          `json:"pay_date"`
	BasicPay               decimal.Decimal `json:"basic_pay"`
	OvertimePay            decimal.Decimal `json:"overtime_pay"`
	Allowances             decimal.Decimal `json:"allowances"`
	GrossPay               decimal.Decimal `json:"gross_pay"`
	SSSContribution        decimal.Decimal `json:"sss_contribution"`
	PhilHealthContribution decimal.Decimal `json:"philhealth_contribution"`
	PagIbigContribution    decimal.Decimal `json:"pagibig_contribution"`
	WithholdingTax         decimal.Decimal `json:"withholding_tax"`
	OtherDeductions        decimal.Decimal `json:"other_deductions"`
	TotalDeductions        decimal.Decimal `json:"total_deductions"`
	NetPay                 decimal.Decimal `json:"net_pay"`
	Status                 ItemStatus      `json:"status"`
	Version                int             `json:"version"`
	CreatedAt              string          `json:"created_at"`
	UpdatedAt              string          `json:"updated_at"`
}

func NewPayrollItemResponse(item PayrollItem) PayrollItemResponse {
	return PayrollItemResponse{
		ID:                     item.ID,
		EmployeeID:             item.EmployeeID,
		EmployeeName:           item.EmployeeName,
		PeriodKey:              item.Period().Key(),
		PayPeriodStart:         item.PayPeriodStart.Format(dateLayout),
		PayPeriodEnd:           item.PayPeriodEnd.Format(dateLayout),
		PayDate:                item.PayDate.Format(dateLayout),
		BasicPay:               item.BasicPay,
		OvertimePay:            item.OvertimePay,
		Allowances:             item.Allowances,
		GrossPay:               item.GrossPay,
		SSSContribution:        item.SSSContribution,
		PhilHealthContribution: item.PhilHealthContribution,
		PagIbigContribution:    item.PagIbigContribution,
		WithholdingTax:         item.WithholdingTax,
		OtherDeductions:        item.OtherDeductions,
		TotalDeductions:        item.TotalDeductions,
		NetPay:                 item.NetPay,
		Status:                 item.Status,
		Version:                item.Version,
		CreatedAt:              item.CreatedAt.Format(time.RFC3339),
		UpdatedAt:              item.UpdatedAt.Format(time.RFC3339),
	}
}

type RecalculateItemRequest struct {
	ItemID         string          `json:"-"`
	BasicPay       decimal.Decimal `json:"basic_pay"`
	SyncToEmployee bool            `json:"sync_to_employee"`
	// Version, when set, must equal the item's current version.
	Version *int `json:"version,omitempty"`
}

func (r *RecalculateItemRequest) Validate() error {
	if validator.IsEmpty(r.ItemID) {
		return validator.ValidationErrors{{Field: "id", Message: "is required"}}
	}
	if !validator.IsPositive(r.BasicPay) {
		return ErrInvalidAmount
	}
	if r.Version != nil && *r.Version < 1 {
		return validator.ValidationErrors{{Field: "version", Message: "must be at least 1"}}
	}
	return nil
}

type RecalculateItemResponse struct {
	Item           PayrollItemResponse    `json:"item"`
	EmployeeChange *employee.SalaryChange `json:"employee_change,omitempty"`
}

type UpdateItemStatusRequest struct {
	ItemID  string `json:"-"`
	Status  string `json:"status" validate:"required,oneof=pending processed paid"`
	Version *int   `json:"version,omitempty"`
}

func (r *UpdateItemStatusRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.ItemID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "is required"})
	}
	errs = append(errs, validator.Struct(r)...)
	if r.Version != nil && *r.Version < 1 {
		errs = append(errs, validator.ValidationError{Field: "version", Message: "must be at least 1"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ItemFilter struct {
	Period *Period
	Status *ItemStatus
}
