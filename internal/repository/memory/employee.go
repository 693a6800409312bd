package memory

import (
	"context"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/shopspring/decimal"
)

type employeeRepository struct {
	s *Store
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	var out employee.Employee
	err := r.s.locked(ctx, func() error {
		e, ok := r.s.employees[id]
		if !ok {
			return employee.ErrEmployeeNotFound
		}
		out = e
		return nil
	})
	return out, err
}

func (r *employeeRepository) GetByIDs(ctx context.Context, ids []string) ([]employee.Employee, error) {
	var out []employee.Employee
	err := r.s.locked(ctx, func() error {
		seen := make(map[string]bool, len(ids))
		for _, id := range ids {
			if seen[id] {
				continue
			}
			seen[id] = true
			if e, ok := r.s.employees[id]; ok {
				out = append(out, e)
			}
		}
		return nil
	})
	return out, err
}

func (r *employeeRepository) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	err := r.s.locked(ctx, func() error {
		if _, ok := r.s.employees[newEmployee.ID]; ok {
			return errDuplicate("employee", newEmployee.ID)
		}
		for _, e := range r.s.employees {
			if e.EmployeeCode == newEmployee.EmployeeCode {
				return employee.ErrEmployeeCodeExists
			}
		}
		now := r.s.now()
		newEmployee.Version = 1
		newEmployee.CreatedAt = now
		newEmployee.UpdatedAt = now
		r.s.employees[newEmployee.ID] = newEmployee
		return nil
	})
	if err != nil {
		return employee.Employee{}, err
	}
	return newEmployee, nil
}

func (r *employeeRepository) UpdateMonthlySalary(ctx context.Context, id string, salary decimal.Decimal, expectedVersion int) (employee.Employee, error) {
	if salary.IsNegative() {
		return employee.Employee{}, employee.ErrNegativeSalary
	}
	var out employee.Employee
	err := r.s.locked(ctx, func() error {
		e, ok := r.s.employees[id]
		if !ok {
			return employee.ErrEmployeeNotFound
		}
		if e.Version != expectedVersion {
			return employee.ErrEmployeeVersionConflict
		}
		e.MonthlySalary = salary
		e.Version++
		e.UpdatedAt = r.s.now()
		r.s.employees[id] = e
		out = e
		return nil
	})
	return out, err
}
