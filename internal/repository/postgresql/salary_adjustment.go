package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/adjustment"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type salaryAdjustmentRepositoryImpl struct {
	db *database.DB
}

func NewSalaryAdjustmentRepository(db *database.DB) adjustment.SalaryAdjustmentRepository {
	return &salaryAdjustmentRepositoryImpl{db: db}
}

const salaryAdjustmentColumns = `sa.id, sa.employee_id, sa.adjustment_type, sa.amount, sa.reason, sa.effective_date,
	sa.status, sa.requested_by, sa.approved_by, sa.approved_at, sa.version, sa.created_at, sa.updated_at,
	e.full_name`

func scanSalaryAdjustment(row pgx.Row) (adjustment.SalaryAdjustment, error) {
	var adj adjustment.SalaryAdjustment
	err := row.Scan(
		&adj.ID, &adj.EmployeeID, &adj.Type, &adj.Amount, &adj.Reason, &adj.EffectiveDate,
		&adj.Status, &adj.RequestedBy, &adj.ApprovedBy, &adj.ApprovedAt, &adj.Version, &adj.CreatedAt, &adj.UpdatedAt,
		&adj.EmployeeName,
	)
	return adj, err
}

// Create implements adjustment.SalaryAdjustmentRepository.
func (r *salaryAdjustmentRepositoryImpl) Create(ctx context.Context, adj adjustment.SalaryAdjustment) (adjustment.SalaryAdjustment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH inserted AS (
			INSERT INTO salary_adjustments (
				id, employee_id, adjustment_type, amount, reason, effective_date, status, requested_by
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING *
		)
		SELECT ` + salaryAdjustmentColumns + `
		FROM inserted sa
		LEFT JOIN employees e ON e.id = sa.employee_id
	`

	created, err := scanSalaryAdjustment(q.QueryRow(ctx, query,
		adj.ID, adj.EmployeeID, adj.Type, adj.Amount.Round(2), adj.Reason, adj.EffectiveDate, adj.Status, adj.RequestedBy,
	))
	if err != nil {
		if isUniqueViolation(err, "") {
			return adjustment.SalaryAdjustment{}, fmt.Errorf("salary adjustment %s already exists: %w", adj.ID, apperror.ErrConflict)
		}
		return adjustment.SalaryAdjustment{}, persistenceError("create salary adjustment", err)
	}
	return created, nil
}

// GetByID implements adjustment.SalaryAdjustmentRepository.
func (r *salaryAdjustmentRepositoryImpl) GetByID(ctx context.Context, id string) (adjustment.SalaryAdjustment, error) {
	if !isUUID(id) {
		return adjustment.SalaryAdjustment{}, adjustment.ErrSalaryAdjustmentNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + salaryAdjustmentColumns + `
		FROM salary_adjustments sa
		LEFT JOIN employees e ON e.id = sa.employee_id
		WHERE sa.id = $1
	`

	adj, err := scanSalaryAdjustment(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return adjustment.SalaryAdjustment{}, adjustment.ErrSalaryAdjustmentNotFound
		}
		return adjustment.SalaryAdjustment{}, persistenceError("get salary adjustment", err)
	}
	return adj, nil
}

// List implements adjustment.SalaryAdjustmentRepository.
func (r *salaryAdjustmentRepositoryImpl) List(ctx context.Context, filter adjustment.SalaryAdjustmentFilter) ([]adjustment.SalaryAdjustment, error) {
	q := GetQuerier(ctx, r.db)

	whereClause := "WHERE 1=1"
	args := []interface{}{}
	argIndex := 1

	if filter.EmployeeID != nil {
		if !isUUID(*filter.EmployeeID) {
			return nil, nil
		}
		whereClause += fmt.Sprintf(" AND sa.employee_id = $%d", argIndex)
		args = append(args, *filter.EmployeeID)
		argIndex++
	}

	if filter.Status != nil {
		whereClause += fmt.Sprintf(" AND sa.status = $%d", argIndex)
		args = append(args, *filter.Status)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM salary_adjustments sa
		LEFT JOIN employees e ON e.id = sa.employee_id
		%s
		ORDER BY sa.created_at DESC, sa.id DESC
	`, salaryAdjustmentColumns, whereClause)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, persistenceError("list salary adjustments", err)
	}
	defer rows.Close()

	var adjustments []adjustment.SalaryAdjustment
	for rows.Next() {
		adj, err := scanSalaryAdjustment(rows)
		if err != nil {
			return nil, persistenceError("scan salary adjustment", err)
		}
		adjustments = append(adjustments, adj)
	}
	if err := rows.Err(); err != nil {
		return nil, persistenceError("list salary adjustments", err)
	}
	return adjustments, nil
}

// UpdateDecision implements adjustment.SalaryAdjustmentRepository.
func (r *salaryAdjustmentRepositoryImpl) UpdateDecision(ctx context.Context, adj adjustment.SalaryAdjustment) (adjustment.SalaryAdjustment, error) {
	if !isUUID(adj.ID) {
		return adjustment.SalaryAdjustment{}, adjustment.ErrSalaryAdjustmentNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `
		WITH updated AS (
			UPDATE salary_adjustments
			SET status = $1, approved_by = $2, approved_at = $3, version = version + 1, updated_at = NOW()
			WHERE id = $4 AND version = $5
			RETURNING *
		)
		SELECT ` + salaryAdjustmentColumns + `
		FROM updated sa
		LEFT JOIN employees e ON e.id = sa.employee_id
	`

	updated, err := scanSalaryAdjustment(q.QueryRow(ctx, query,
		adj.Status, adj.ApprovedBy, adj.ApprovedAt, adj.ID, adj.Version,
	))
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return adjustment.SalaryAdjustment{}, persistenceError("update salary adjustment", err)
	}

	if _, getErr := r.GetByID(ctx, adj.ID); getErr != nil {
		return adjustment.SalaryAdjustment{}, getErr
	}
	return adjustment.SalaryAdjustment{}, adjustment.ErrAdjustmentVersionConflict
}
