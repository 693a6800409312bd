package memory

import (
	"context"
	"sort"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
)

type payrollRepository struct {
	s *Store
}

func (r *payrollRepository) CreateItems(ctx context.Context, items []payroll.PayrollItem) ([]payroll.PayrollItem, error) {
	created := make([]payroll.PayrollItem, 0, len(items))
	err := r.s.locked(ctx, func() error {
		for i, item := range items {
			if _, ok := r.s.items[item.ID]; ok {
				return errDuplicate("payroll item", item.ID)
			}
			for _, existing := range r.s.items {
				if existing.EmployeeID == item.EmployeeID && existing.Period().Equal(item.Period()) {
					return payroll.ErrPayrollItemAlreadyExists
				}
			}
			for _, other := range items[:i] {
				if other.EmployeeID == item.EmployeeID {
					return payroll.ErrPayrollItemAlreadyExists
				}
			}
		}
		now := r.s.now()
		for _, item := range items {
			item.Version = 1
			item.CreatedAt = now
			item.UpdatedAt = now
			item.EmployeeName = nil
			r.s.items[item.ID] = item

			item.EmployeeName = r.s.employeeName(item.EmployeeID)
			created = append(created, item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *payrollRepository) GetItemByID(ctx context.Context, id string) (payroll.PayrollItem, error) {
	var out payroll.PayrollItem
	err := r.s.locked(ctx, func() error {
		item, ok := r.s.items[id]
		if !ok {
			return payroll.ErrPayrollItemNotFound
		}
		item.EmployeeName = r.s.employeeName(item.EmployeeID)
		out = item
		return nil
	})
	return out, err
}

func (r *payrollRepository) ListItems(ctx context.Context, filter payroll.ItemFilter) ([]payroll.PayrollItem, error) {
	var out []payroll.PayrollItem
	err := r.s.locked(ctx, func() error {
		for _, item := range r.s.items {
			if filter.Period != nil && !item.Period().Equal(*filter.Period) {
				continue
			}
			if filter.Status != nil && item.Status != *filter.Status {
				continue
			}
			item.EmployeeName = r.s.employeeName(item.EmployeeID)
			out = append(out, item)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].PayPeriodStart.Equal(out[j].PayPeriodStart) {
			return out[i].PayPeriodStart.After(out[j].PayPeriodStart)
		}
		return out[i].ID < out[j].ID
	})
	return out, err
}

func (r *payrollRepository) ExistingEmployeeIDs(ctx context.Context, period payroll.Period, employeeIDs []string) (map[string]bool, error) {
	wanted := make(map[string]bool, len(employeeIDs))
	for _, id := range employeeIDs {
		wanted[id] = true
	}
	existing := make(map[string]bool)
	err := r.s.locked(ctx, func() error {
		for _, item := range r.s.items {
			if wanted[item.EmployeeID] && item.Period().Equal(period) {
				existing[item.EmployeeID] = true
			}
		}
		return nil
	})
	return existing, err
}

func (r *payrollRepository) UpdateItem(ctx context.Context, item payroll.PayrollItem) (payroll.PayrollItem, error) {
	var out payroll.PayrollItem
	err := r.s.locked(ctx, func() error {
		stored, ok := r.s.items[item.ID]
		if !ok {
			return payroll.ErrPayrollItemNotFound
		}
		if stored.Version != item.Version {
			return payroll.ErrPayrollItemVersionConflict
		}

		stored.BasicPay = item.BasicPay
		stored.OvertimePay = item.OvertimePay
		stored.Allowances = item.Allowances
		stored.GrossPay = item.GrossPay
		stored.SSSContribution = item.SSSContribution
		stored.PhilHealthContribution = item.PhilHealthContribution
		stored.PagIbigContribution = item.PagIbigContribution
		stored.WithholdingTax = item.WithholdingTax
		stored.OtherDeductions = item.OtherDeductions
		stored.TotalDeductions = item.TotalDeductions
		stored.NetPay = item.NetPay
		stored.Status = item.Status
		stored.Version++
		stored.UpdatedAt = r.s.now()
		r.s.items[item.ID] = stored

		stored.EmployeeName = r.s.employeeName(stored.EmployeeID)
		out = stored
		return nil
	})
	return out, err
}

func (r *payrollRepository) DeleteItem(ctx context.Context, id string) error {
	return r.s.locked(ctx, func() error {
		if _, ok := r.s.items[id]; !ok {
			return payroll.ErrPayrollItemNotFound
		}
		delete(r.s.items, id)
		return nil
	})
}

func (r *payrollRepository) DeleteItemsByPeriod(ctx context.Context, period payroll.Period) (int64, error) {
	var deleted int64
	err := r.s.locked(ctx, func() error {
		for id, item := range r.s.items {
			if item.Period().Equal(period) {
				delete(r.s.items, id)
				deleted++
			}
		}
		return nil
	})
	return deleted, err
}
