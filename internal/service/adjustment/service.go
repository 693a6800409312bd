package adjustment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/adjustment"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
	"github.com/google/uuid"
)

type SalaryAdjustmentServiceImpl struct {
	tx             database.Transactor
	adjustmentRepo adjustment.SalaryAdjustmentRepository
	employeeRepo   employee.EmployeeRepository
	now            func() time.Time
}

func NewSalaryAdjustmentService(
	tx database.Transactor,
	adjustmentRepo adjustment.SalaryAdjustmentRepository,
	employeeRepo employee.EmployeeRepository,
) adjustment.SalaryAdjustmentService {
	return &SalaryAdjustmentServiceImpl{
		tx:             tx,
		adjustmentRepo: adjustmentRepo,
		employeeRepo:   employeeRepo,
		now:            time.Now,
	}
}

func (s *SalaryAdjustmentServiceImpl) Submit(ctx context.Context, req adjustment.SubmitSalaryAdjustmentRequest) (adjustment.SalaryAdjustmentResponse, error) {
	// Amounts are stored in cents; a sub-cent amount rounds to zero and fails validation.
	req.Amount = req.Amount.Round(2)
	if err := req.Validate(); err != nil {
		return adjustment.SalaryAdjustmentResponse{}, err
	}
	adjType, err := adjustment.ParseAdjustmentType(req.Type)
	if err != nil {
		return adjustment.SalaryAdjustmentResponse{}, err
	}
	effectiveDate, _ := validator.IsValidDate(req.EffectiveDate)

	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
		return adjustment.SalaryAdjustmentResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return adjustment.SalaryAdjustmentResponse{}, fmt.Errorf("failed to generate id: %w", err)
	}

	created, err := s.adjustmentRepo.Create(ctx, adjustment.SalaryAdjustment{
		ID:            id.String(),
		EmployeeID:    req.EmployeeID,
		Type:          adjType,
		Amount:        req.Amount,
		Reason:        req.Reason,
		EffectiveDate: effectiveDate,
		Status:        adjustment.AdjustmentStatusPending,
		RequestedBy:   req.RequestedBy,
	})
	if err != nil {
		return adjustment.SalaryAdjustmentResponse{}, fmt.Errorf("failed to create salary adjustment: %w", err)
	}

	slog.Info("Salary adjustment submitted",
		"adjustment_id", created.ID, "employee_id", created.EmployeeID, "type", created.Type, "amount", created.Amount.String())
	return adjustment.NewSalaryAdjustmentResponse(created), nil
}

// Decide approves or rejects a pending adjustment. Approval writes the
// employee's new monthly salary in the same transaction; if that write
// fails nothing is committed and a ConsistencyError is returned.
func (s *SalaryAdjustmentServiceImpl) Decide(ctx context.Context, req adjustment.DecideSalaryAdjustmentRequest) (adjustment.DecideSalaryAdjustmentResponse, error) {
	if err := req.Validate(); err != nil {
		return adjustment.DecideSalaryAdjustmentResponse{}, err
	}
	next, err := adjustment.Decision(req.Decision).ResultingStatus()
	if err != nil {
		return adjustment.DecideSalaryAdjustmentResponse{}, err
	}

	var resp adjustment.DecideSalaryAdjustmentResponse
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		adj, err := s.adjustmentRepo.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}
		if req.Version != nil && *req.Version != adj.Version {
			return adjustment.ErrAdjustmentVersionConflict
		}
		terminal, err := adj.Status.IsTerminal()
		if err != nil {
			return err
		}
		if terminal {
			return adjustment.ErrAdjustmentAlreadyDecided
		}

		adj.Status = next
		if next == adjustment.AdjustmentStatusApproved {
			decidedAt := s.now()
			decidedBy := req.DecidedBy
			adj.ApprovedBy = &decidedBy
			adj.ApprovedAt = &decidedAt
		}

		updated, err := s.adjustmentRepo.UpdateDecision(ctx, adj)
		if err != nil {
			return fmt.Errorf("failed to update salary adjustment: %w", err)
		}
		resp.Adjustment = adjustment.NewSalaryAdjustmentResponse(updated)

		if next != adjustment.AdjustmentStatusApproved {
			return nil
		}
		change, err := s.applyToEmployee(ctx, updated)
		if err != nil {
			slog.Error("Employee salary write failed, rolling back adjustment decision",
				"adjustment_id", updated.ID, "employee_id", updated.EmployeeID, "error", err)
			return apperror.NewConsistencyError("employee", updated.EmployeeID, err)
		}
		resp.EmployeeChange = &change
		return nil
	})
	if err != nil {
		return adjustment.DecideSalaryAdjustmentResponse{}, err
	}

	slog.Info("Salary adjustment decided",
		"adjustment_id", req.ID, "status", next, "decided_by", req.DecidedBy)
	return resp, nil
}

func (s *SalaryAdjustmentServiceImpl) applyToEmployee(ctx context.Context, adj adjustment.SalaryAdjustment) (employee.SalaryChange, error) {
	emp, err := s.employeeRepo.GetByID(ctx, adj.EmployeeID)
	if err != nil {
		return employee.SalaryChange{}, err
	}
	newSalary, err := adj.Type.ApplyTo(emp.MonthlySalary, adj.Amount)
	if err != nil {
		return employee.SalaryChange{}, err
	}
	saved, err := s.employeeRepo.UpdateMonthlySalary(ctx, emp.ID, newSalary, emp.Version)
	if err != nil {
		return employee.SalaryChange{}, err
	}
	return employee.NewSalaryChange(emp.ID, emp.MonthlySalary, saved.MonthlySalary), nil
}

func (s *SalaryAdjustmentServiceImpl) Get(ctx context.Context, id string) (adjustment.SalaryAdjustmentResponse, error) {
	adj, err := s.adjustmentRepo.GetByID(ctx, id)
	if err != nil {
		return adjustment.SalaryAdjustmentResponse{}, err
	}
	return adjustment.NewSalaryAdjustmentResponse(adj), nil
}

func (s *SalaryAdjustmentServiceImpl) List(ctx context.Context, filter adjustment.SalaryAdjustmentFilter) ([]adjustment.SalaryAdjustmentResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	adjustments, err := s.adjustmentRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list salary adjustments: %w", err)
	}

	responses := make([]adjustment.SalaryAdjustmentResponse, 0, len(adjustments))
	for _, adj := range adjustments {
		responses = append(responses, adjustment.NewSalaryAdjustmentResponse(adj))
	}
	return responses, nil
}
