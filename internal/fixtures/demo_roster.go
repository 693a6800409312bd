package fixtures

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/shopspring/decimal"
)

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

// DemoRoster returns a small fixed set of employees for local runs. IDs are
// stable so tokens and requests can be scripted against them.
func DemoRoster() []employee.Employee {
	return []employee.Employee{
		{
			ID:            "0192a6d0-0000-7000-8000-000000000001",
			EmployeeCode:  "EMP-0001",
			FullName:      "Andres Bonifacio",
			MonthlySalary: decimal.RequireFromString("30000"),
			PayFrequency:  employee.PayFrequencySemiMonthly,
			Status:        employee.EmploymentStatusActive,
			HireDate:      datePtr(2021, time.March, 1),
		},
		{
			ID:            "0192a6d0-0000-7000-8000-000000000002",
			EmployeeCode:  "EMP-0002",
			FullName:      "Gabriela Silang",
			MonthlySalary: decimal.RequireFromString("50000"),
			PayFrequency:  employee.PayFrequencySemiMonthly,
			Status:        employee.EmploymentStatusActive,
			HireDate:      datePtr(2019, time.July, 15),
		},
		{
			ID:            "0192a6d0-0000-7000-8000-000000000003",
			EmployeeCode:  "EMP-0003",
			FullName:      "Emilio Jacinto",
			MonthlySalary: decimal.RequireFromString("8000"),
			PayFrequency:  employee.PayFrequencySemiMonthly,
			Status:        employee.EmploymentStatusActive,
			HireDate:      datePtr(2024, time.January, 8),
		},
		{
			ID:            "0192a6d0-0000-7000-8000-000000000004",
			EmployeeCode:  "EMP-0004",
			FullName:      "Melchora Aquino",
			MonthlySalary: decimal.RequireFromString("42000"),
			PayFrequency:  employee.PayFrequencyMonthly,
			Status:        employee.EmploymentStatusResigned,
			HireDate:      datePtr(2015, time.May, 4),
		},
	}
}

// SeedDemoRoster inserts DemoRoster through repo. Employees already present
// are left untouched, so seeding is safe to repeat.
func SeedDemoRoster(ctx context.Context, repo employee.EmployeeRepository) (int, error) {
	created := 0
	for _, emp := range DemoRoster() {
		if _, err := repo.GetByID(ctx, emp.ID); err == nil {
			continue
		} else if !errors.Is(err, employee.ErrEmployeeNotFound) {
			return created, fmt.Errorf("failed to check employee %s: %w", emp.EmployeeCode, err)
		}

		if _, err := repo.Create(ctx, emp); err != nil {
			if errors.Is(err, employee.ErrEmployeeCodeExists) {
				slog.Warn("Demo employee code taken, skipping", "employee_code", emp.EmployeeCode)
				continue
			}
			return created, fmt.Errorf("failed to seed employee %s: %w", emp.EmployeeCode, err)
		}
		created++
	}

	slog.Info("Demo roster seeded", "created", created)
	return created, nil
}
