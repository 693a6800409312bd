package payroll

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
)

const (
	skipReasonNotFound = "employee not found"
	skipReasonInactive = "employee is not active"
	skipReasonExists   = "payroll item already exists for this period"
)

// BuildPayrollRun creates one pending item per requested employee for the
// period. Employees that are unknown, inactive or already paid for the
// period are skipped and reported. A build with no eligible employee
// fails with ErrNoMatchingEmployees. Everything is written in one
// transaction.
func (s *PayrollServiceImpl) BuildPayrollRun(ctx context.Context, req payroll.BuildPayrollRunRequest) (payroll.BuildPayrollRunResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.BuildPayrollRunResponse{}, err
	}
	ids := uniqueIDs(req.EmployeeIDs)
	if len(ids) == 0 {
		return payroll.BuildPayrollRunResponse{}, payroll.ErrEmptyEmployeeSet
	}
	period, payDate, err := req.Period()
	if err != nil {
		return payroll.BuildPayrollRunResponse{}, err
	}

	resp := payroll.BuildPayrollRunResponse{
		PeriodKey: period.Key(),
		Items:     []payroll.PayrollItemResponse{},
		Skipped:   []payroll.SkippedEmployee{},
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		employees, err := s.employeeRepo.GetByIDs(ctx, ids)
		if err != nil {
			return fmt.Errorf("failed to get employees: %w", err)
		}
		if len(employees) == 0 {
			return payroll.ErrNoMatchingEmployees
		}
		byID := make(map[string]employee.Employee, len(employees))
		for _, emp := range employees {
			byID[emp.ID] = emp
		}

		existing, err := s.payrollRepo.ExistingEmployeeIDs(ctx, period, ids)
		if err != nil {
			return fmt.Errorf("failed to check existing payroll items: %w", err)
		}

		var items []payroll.PayrollItem
		alreadyBuilt := 0
		for _, id := range ids {
			emp, ok := byID[id]
			switch {
			case !ok:
				resp.Skipped = append(resp.Skipped, skip(period, id, skipReasonNotFound))
				continue
			case existing[id]:
				resp.Skipped = append(resp.Skipped, skip(period, id, skipReasonExists))
				alreadyBuilt++
				continue
			case !emp.IsActive():
				resp.Skipped = append(resp.Skipped, skip(period, id, skipReasonInactive))
				continue
			}

			item, err := s.newRunItem(emp, period, payDate)
			if err != nil {
				return err
			}
			items = append(items, item)
		}

		if len(items) == 0 {
			// Re-running a build for employees that already have items is a
			// no-op; requesting only unknown or inactive employees is not.
			if alreadyBuilt > 0 {
				return nil
			}
			return payroll.ErrNoMatchingEmployees
		}
		created, err := s.payrollRepo.CreateItems(ctx, items)
		if err != nil {
			return fmt.Errorf("failed to create payroll items: %w", err)
		}
		for _, item := range created {
			resp.Items = append(resp.Items, payroll.NewPayrollItemResponse(item))
		}
		return nil
	})
	if err != nil {
		return payroll.BuildPayrollRunResponse{}, err
	}

	slog.Info("Payroll run built",
		"period", period.Key(), "created", len(resp.Items), "skipped", len(resp.Skipped))
	return resp, nil
}

func (s *PayrollServiceImpl) newRunItem(emp employee.Employee, period payroll.Period, payDate time.Time) (payroll.PayrollItem, error) {
	b, err := s.calculator.ForRun(emp.MonthlySalary)
	if err != nil {
		return payroll.PayrollItem{}, fmt.Errorf("failed to compute deductions for employee %s: %w", emp.ID, err)
	}
	id, err := newID()
	if err != nil {
		return payroll.PayrollItem{}, err
	}

	item := payroll.PayrollItem{
		ID:                     id,
		EmployeeID:             emp.ID,
		PayPeriodStart:         period.Start,
		PayPeriodEnd:           period.End,
		PayDate:                payDate,
		BasicPay:               b.BasicPay,
		SSSContribution:        b.Contributions.SSS,
		PhilHealthContribution: b.Contributions.PhilHealth,
		PagIbigContribution:    b.Contributions.PagIbig,
		WithholdingTax:         b.WithholdingTax,
		Status:                 payroll.ItemStatusPending,
	}
	item.Settle()
	return item, nil
}

func skip(period payroll.Period, employeeID, reason string) payroll.SkippedEmployee {
	slog.Warn("Skipping employee in payroll run", "period", period.Key(), "employee_id", employeeID, "reason", reason)
	return payroll.SkippedEmployee{EmployeeID: employeeID, Reason: reason}
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
