package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type payrollRepositoryImpl struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepositoryImpl{db: db}
}

const payrollItemColumns = `pi.id, pi.employee_id, pi.pay_period_start, pi.pay_period_end, pi.pay_date,
	pi.basic_pay, pi.overtime_pay, pi.allowances, pi.gross_pay,
	pi.sss_contribution, pi.philhealth_contribution, pi.pagibig_contribution, pi.withholding_tax,
	pi.other_deductions, pi.total_deductions, pi.net_pay,
	pi.status, pi.version, pi.created_at, pi.updated_at,
	e.full_name`

const payrollItemUniqueKey = "payroll_items_employee_period_key"

func scanPayrollItem(row pgx.Row) (payroll.PayrollItem, error) {
	var item payroll.PayrollItem
	var employeeName *string
	err := row.Scan(
		&item.ID, &item.EmployeeID, &item.PayPeriodStart, &item.PayPeriodEnd, &item.PayDate,
		&item.BasicPay, &item.OvertimePay, &item.Allowances, &item.GrossPay,
		&item.SSSContribution, &item.PhilHealthContribution, &item.PagIbigContribution, &item.WithholdingTax,
		&item.OtherDeductions, &item.TotalDeductions, &item.NetPay,
		&item.Status, &item.Version, &item.CreatedAt, &item.UpdatedAt,
		&employeeName,
	)
	item.EmployeeName = employeeName
	return item, err
}

// CreateItems implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) CreateItems(ctx context.Context, items []payroll.PayrollItem) ([]payroll.PayrollItem, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH inserted AS (
			INSERT INTO payroll_items (
				id, employee_id, pay_period_start, pay_period_end, pay_date,
				basic_pay, overtime_pay, allowances, gross_pay,
				sss_contribution, philhealth_contribution, pagibig_contribution, withholding_tax,
				other_deductions, total_deductions, net_pay, status
			) VALUES (
				$1, $2, $3, $4, $5,
				$6, $7, $8, $9,
				$10, $11, $12, $13,
				$14, $15, $16, $17
			)
			RETURNING *
		)
		SELECT ` + payrollItemColumns + `
		FROM inserted pi
		LEFT JOIN employees e ON e.id = pi.employee_id
	`

	created := make([]payroll.PayrollItem, 0, len(items))
	for _, item := range items {
		stored, err := scanPayrollItem(q.QueryRow(ctx, query,
			item.ID, item.EmployeeID, item.PayPeriodStart, item.PayPeriodEnd, item.PayDate,
			item.BasicPay, item.OvertimePay, item.Allowances, item.GrossPay,
			item.SSSContribution, item.PhilHealthContribution, item.PagIbigContribution, item.WithholdingTax,
			item.OtherDeductions, item.TotalDeductions, item.NetPay, item.Status,
		))
		if err != nil {
			if isUniqueViolation(err, payrollItemUniqueKey) {
				return nil, fmt.Errorf("employee %s, period %s: %w", item.EmployeeID, item.Period().Key(), payroll.ErrPayrollItemAlreadyExists)
			}
			return nil, persistenceError("create payroll item", err)
		}
		created = append(created, stored)
	}
	return created, nil
}

// GetItemByID implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) GetItemByID(ctx context.Context, id string) (payroll.PayrollItem, error) {
	if !isUUID(id) {
		return payroll.PayrollItem{}, payroll.ErrPayrollItemNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payrollItemColumns + `
		FROM payroll_items pi
		LEFT JOIN employees e ON e.id = pi.employee_id
		WHERE pi.id = $1
	`

	item, err := scanPayrollItem(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollItem{}, payroll.ErrPayrollItemNotFound
		}
		return payroll.PayrollItem{}, persistenceError("get payroll item", err)
	}
	return item, nil
}

// ListItems implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) ListItems(ctx context.Context, filter payroll.ItemFilter) ([]payroll.PayrollItem, error) {
	q := GetQuerier(ctx, r.db)

	whereClause := "WHERE 1=1"
	args := []interface{}{}
	argIndex := 1

	if filter.Period != nil {
		whereClause += fmt.Sprintf(" AND pi.pay_period_start = $%d AND pi.pay_period_end = $%d", argIndex, argIndex+1)
		args = append(args, filter.Period.Start, filter.Period.End)
		argIndex += 2
	}

	if filter.Status != nil {
		whereClause += fmt.Sprintf(" AND pi.status = $%d", argIndex)
		args = append(args, *filter.Status)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM payroll_items pi
		LEFT JOIN employees e ON e.id = pi.employee_id
		%s
		ORDER BY pi.pay_period_start DESC, pi.id
	`, payrollItemColumns, whereClause)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, persistenceError("list payroll items", err)
	}
	defer rows.Close()

	var items []payroll.PayrollItem
	for rows.Next() {
		item, err := scanPayrollItem(rows)
		if err != nil {
			return nil, persistenceError("scan payroll item", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, persistenceError("list payroll items", err)
	}
	return items, nil
}

// ExistingEmployeeIDs implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) ExistingEmployeeIDs(ctx context.Context, period payroll.Period, employeeIDs []string) (map[string]bool, error) {
	existing := make(map[string]bool)
	employeeIDs = uuidsOnly(employeeIDs)
	if len(employeeIDs) == 0 {
		return existing, nil
	}
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT employee_id
		FROM payroll_items
		WHERE pay_period_start = $1 AND pay_period_end = $2 AND employee_id = ANY($3::uuid[])
	`

	rows, err := q.Query(ctx, query, period.Start, period.End, employeeIDs)
	if err != nil {
		return nil, persistenceError("check existing payroll items", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, persistenceError("scan employee id", err)
		}
		existing[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, persistenceError("check existing payroll items", err)
	}
	return existing, nil
}

// UpdateItem implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) UpdateItem(ctx context.Context, item payroll.PayrollItem) (payroll.PayrollItem, error) {
	if !isUUID(item.ID) {
		return payroll.PayrollItem{}, payroll.ErrPayrollItemNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `
		WITH updated AS (
			UPDATE payroll_items
			SET basic_pay = $1, overtime_pay = $2, allowances = $3, gross_pay = $4,
				sss_contribution = $5, philhealth_contribution = $6, pagibig_contribution = $7,
				withholding_tax = $8, other_deductions = $9, total_deductions = $10, net_pay = $11,
				status = $12, version = version + 1, updated_at = NOW()
			WHERE id = $13 AND version = $14
			RETURNING *
		)
		SELECT ` + payrollItemColumns + `
		FROM updated pi
		LEFT JOIN employees e ON e.id = pi.employee_id
	`

	updated, err := scanPayrollItem(q.QueryRow(ctx, query,
		item.BasicPay, item.OvertimePay, item.Allowances, item.GrossPay,
		item.SSSContribution, item.PhilHealthContribution, item.PagIbigContribution,
		item.WithholdingTax, item.OtherDeductions, item.TotalDeductions, item.NetPay,
		item.Status, item.ID, item.Version,
	))
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return payroll.PayrollItem{}, persistenceError("update payroll item", err)
	}

	if _, getErr := r.GetItemByID(ctx, item.ID); getErr != nil {
		return payroll.PayrollItem{}, getErr
	}
	return payroll.PayrollItem{}, payroll.ErrPayrollItemVersionConflict
}

// DeleteItem implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) DeleteItem(ctx context.Context, id string) error {
	if !isUUID(id) {
		return payroll.ErrPayrollItemNotFound
	}
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM payroll_items WHERE id = $1`, id)
	if err != nil {
		return persistenceError("delete payroll item", err)
	}
	if commandTag.RowsAffected() != 1 {
		return payroll.ErrPayrollItemNotFound
	}
	return nil
}

// DeleteItemsByPeriod implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) DeleteItemsByPeriod(ctx context.Context, period payroll.Period) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		DELETE FROM payroll_items
		WHERE pay_period_start = $1 AND pay_period_end = $2
	`

	commandTag, err := q.Exec(ctx, query, period.Start, period.End)
	if err != nil {
		return 0, persistenceError("delete payroll run", err)
	}
	return commandTag.RowsAffected(), nil
}
