package postgresql

import (
	"context"
	"errors"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `id, employee_code, full_name, monthly_salary, daily_rate, pay_frequency,
	status, hire_date, version, created_at, updated_at`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var emp employee.Employee
	err := row.Scan(
		&emp.ID, &emp.EmployeeCode, &emp.FullName, &emp.MonthlySalary, &emp.DailyRate, &emp.PayFrequency,
		&emp.Status, &emp.HireDate, &emp.Version, &emp.CreatedAt, &emp.UpdatedAt,
	)
	return emp, err
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	if !isUUID(id) {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`

	emp, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, persistenceError("get employee", err)
	}
	return emp, nil
}

// GetByIDs implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByIDs(ctx context.Context, ids []string) ([]employee.Employee, error) {
	ids = uuidsOnly(ids)
	if len(ids) == 0 {
		return nil, nil
	}
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = ANY($1::uuid[])`

	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return nil, persistenceError("list employees", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, persistenceError("scan employee", err)
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, persistenceError("list employees", err)
	}
	return employees, nil
}

// Create implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	if newEmployee.MonthlySalary.IsNegative() {
		return employee.Employee{}, employee.ErrNegativeSalary
	}
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO employees (
			id, employee_code, full_name, monthly_salary, daily_rate, pay_frequency, status, hire_date
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + employeeColumns

	created, err := scanEmployee(q.QueryRow(ctx, query,
		newEmployee.ID, newEmployee.EmployeeCode, newEmployee.FullName, newEmployee.MonthlySalary,
		newEmployee.DailyRate, newEmployee.PayFrequency, newEmployee.Status, newEmployee.HireDate,
	))
	if err != nil {
		if isUniqueViolation(err, "") {
			return employee.Employee{}, employee.ErrEmployeeCodeExists
		}
		return employee.Employee{}, persistenceError("create employee", err)
	}
	return created, nil
}

// UpdateMonthlySalary implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) UpdateMonthlySalary(ctx context.Context, id string, salary decimal.Decimal, expectedVersion int) (employee.Employee, error) {
	if salary.IsNegative() {
		return employee.Employee{}, employee.ErrNegativeSalary
	}
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employees
		SET monthly_salary = $1, version = version + 1, updated_at = NOW()
		WHERE id = $2 AND version = $3
		RETURNING ` + employeeColumns

	updated, err := scanEmployee(q.QueryRow(ctx, query, salary.Round(2), id, expectedVersion))
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return employee.Employee{}, persistenceError("update employee salary", err)
	}

	// No row matched: either the employee is gone or its version moved on.
	if _, getErr := r.GetByID(ctx, id); getErr != nil {
		return employee.Employee{}, getErr
	}
	return employee.Employee{}, employee.ErrEmployeeVersionConflict
}
