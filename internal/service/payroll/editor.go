package payroll

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/apperror"
	"github.com/shopspring/decimal"
)

// RecalculateItem replaces an item's basic pay and re-derives its
// contributions, tax and totals. With SyncToEmployee the implied monthly
// salary (twice the basic pay) is written to the employee in the same
// transaction.
func (s *PayrollServiceImpl) RecalculateItem(ctx context.Context, req payroll.RecalculateItemRequest) (payroll.RecalculateItemResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.RecalculateItemResponse{}, err
	}
	basicPay := req.BasicPay.Round(2)
	if !basicPay.IsPositive() {
		return payroll.RecalculateItemResponse{}, payroll.ErrInvalidAmount
	}

	var resp payroll.RecalculateItemResponse
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		item, err := s.payrollRepo.GetItemByID(ctx, req.ItemID)
		if err != nil {
			return err
		}
		if req.Version != nil && *req.Version != item.Version {
			return payroll.ErrPayrollItemVersionConflict
		}
		if err := s.checkEditable(ctx, item); err != nil {
			return err
		}

		b, err := s.calculator.ForEdit(basicPay, item.OvertimePay, item.Allowances)
		if err != nil {
			return err
		}
		item.BasicPay = b.BasicPay
		item.SSSContribution = b.Contributions.SSS
		item.PhilHealthContribution = b.Contributions.PhilHealth
		item.PagIbigContribution = b.Contributions.PagIbig
		item.WithholdingTax = b.WithholdingTax
		item.Settle()
		if err := item.CheckInvariants(); err != nil {
			return err
		}

		updated, err := s.payrollRepo.UpdateItem(ctx, item)
		if err != nil {
			return fmt.Errorf("failed to update payroll item: %w", err)
		}
		resp.Item = payroll.NewPayrollItemResponse(updated)

		if !req.SyncToEmployee {
			return nil
		}
		change, err := s.syncEmployeeSalary(ctx, updated.EmployeeID, b.MonthlySalary)
		if err != nil {
			slog.Error("Employee salary sync failed, rolling back item recalculation",
				"item_id", updated.ID, "employee_id", updated.EmployeeID, "error", err)
			return apperror.NewConsistencyError("employee", updated.EmployeeID, err)
		}
		resp.EmployeeChange = &change
		return nil
	})
	if err != nil {
		return payroll.RecalculateItemResponse{}, err
	}
	return resp, nil
}

func (s *PayrollServiceImpl) checkEditable(ctx context.Context, item payroll.PayrollItem) error {
	if item.Status != payroll.ItemStatusPending {
		return payroll.ErrItemNotEditable
	}

	run, err := s.loadRun(ctx, item.Period())
	if err != nil {
		return err
	}
	editable, err := run.Status.AllowsItemEdits()
	if err != nil {
		return err
	}
	if !editable {
		return fmt.Errorf("%w: run is %s", payroll.ErrRunNotEditable, run.Status)
	}
	return nil
}

func (s *PayrollServiceImpl) syncEmployeeSalary(ctx context.Context, employeeID string, salary decimal.Decimal) (employee.SalaryChange, error) {
	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return employee.SalaryChange{}, err
	}
	saved, err := s.employeeRepo.UpdateMonthlySalary(ctx, emp.ID, salary, emp.Version)
	if err != nil {
		return employee.SalaryChange{}, err
	}
	return employee.NewSalaryChange(emp.ID, emp.MonthlySalary, saved.MonthlySalary), nil
}
