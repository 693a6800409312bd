package payroll

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-backend-go/internal/service/deduction"
	"github.com/google/uuid"
)

type PayrollServiceImpl struct {
	tx           database.Transactor
	payrollRepo  payroll.PayrollRepository
	employeeRepo employee.EmployeeRepository
	calculator   *deduction.Calculator
}

func NewPayrollService(
	tx database.Transactor,
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	calculator *deduction.Calculator,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		tx:           tx,
		payrollRepo:  payrollRepo,
		employeeRepo: employeeRepo,
		calculator:   calculator,
	}
}

func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate id: %w", err)
	}
	return id.String(), nil
}

// ========== RUNS ==========

func (s *PayrollServiceImpl) loadRun(ctx context.Context, period payroll.Period) (payroll.PayrollRun, error) {
	items, err := s.payrollRepo.ListItems(ctx, payroll.ItemFilter{Period: &period})
	if err != nil {
		return payroll.PayrollRun{}, fmt.Errorf("failed to list payroll items: %w", err)
	}
	return payroll.AggregateRun(period, items)
}

func (s *PayrollServiceImpl) DeriveRunView(ctx context.Context, periodKey string) (payroll.PayrollRunResponse, error) {
	period, err := payroll.ParsePeriodKey(periodKey)
	if err != nil {
		return payroll.PayrollRunResponse{}, err
	}

	run, err := s.loadRun(ctx, period)
	if err != nil {
		return payroll.PayrollRunResponse{}, err
	}
	return payroll.NewPayrollRunResponse(run, true), nil
}

func (s *PayrollServiceImpl) ListRuns(ctx context.Context) ([]payroll.PayrollRunResponse, error) {
	items, err := s.payrollRepo.ListItems(ctx, payroll.ItemFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll items: %w", err)
	}

	periods, groups := payroll.GroupByPeriod(items)
	runs := make([]payroll.PayrollRunResponse, 0, len(periods))
	for _, period := range periods {
		run, err := payroll.AggregateRun(period, groups[period.Key()])
		if err != nil {
			return nil, fmt.Errorf("failed to aggregate run %s: %w", period.Key(), err)
		}
		runs = append(runs, payroll.NewPayrollRunResponse(run, false))
	}
	return runs, nil
}

// ProcessRun moves every pending item of the run to processed.
func (s *PayrollServiceImpl) ProcessRun(ctx context.Context, periodKey string) (payroll.PayrollRunResponse, error) {
	return s.transitionRun(ctx, periodKey, payroll.ItemStatusPending, payroll.ItemStatusProcessed)
}

// PayRun moves every processed item of the run to paid.
func (s *PayrollServiceImpl) PayRun(ctx context.Context, periodKey string) (payroll.PayrollRunResponse, error) {
	return s.transitionRun(ctx, periodKey, payroll.ItemStatusProcessed, payroll.ItemStatusPaid)
}

func (s *PayrollServiceImpl) transitionRun(ctx context.Context, periodKey string, from, to payroll.ItemStatus) (payroll.PayrollRunResponse, error) {
	period, err := payroll.ParsePeriodKey(periodKey)
	if err != nil {
		return payroll.PayrollRunResponse{}, err
	}

	var run payroll.PayrollRun
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		current, err := s.loadRun(ctx, period)
		if err != nil {
			return err
		}

		moved := 0
		for _, item := range current.Items {
			if item.Status != from {
				continue
			}
			item.Status = to
			if _, err := s.payrollRepo.UpdateItem(ctx, item); err != nil {
				return fmt.Errorf("failed to update payroll item %s: %w", item.ID, err)
			}
			moved++
		}
		if moved == 0 {
			return payroll.ErrNoItemsToTransition
		}

		run, err = s.loadRun(ctx, period)
		if err != nil {
			return err
		}
		slog.Info("Payroll run items transitioned",
			"period", period.Key(), "from", from, "to", to, "count", moved, "run_status", run.Status)
		return nil
	})
	if err != nil {
		return payroll.PayrollRunResponse{}, err
	}
	return payroll.NewPayrollRunResponse(run, true), nil
}

func (s *PayrollServiceImpl) DeletePayrollRun(ctx context.Context, periodKey string) error {
	period, err := payroll.ParsePeriodKey(periodKey)
	if err != nil {
		return err
	}

	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		run, err := s.loadRun(ctx, period)
		if err != nil {
			return err
		}
		for _, item := range run.Items {
			if item.Status == payroll.ItemStatusPaid {
				return payroll.ErrCannotDeletePaidItem
			}
		}

		deleted, err := s.payrollRepo.DeleteItemsByPeriod(ctx, period)
		if err != nil {
			return fmt.Errorf("failed to delete payroll run: %w", err)
		}
		slog.Info("Payroll run deleted", "period", period.Key(), "items", deleted)
		return nil
	})
}

// ========== ITEMS ==========

func (s *PayrollServiceImpl) GetPayrollItem(ctx context.Context, id string) (payroll.PayrollItemResponse, error) {
	item, err := s.payrollRepo.GetItemByID(ctx, id)
	if err != nil {
		return payroll.PayrollItemResponse{}, err
	}
	return payroll.NewPayrollItemResponse(item), nil
}

func (s *PayrollServiceImpl) UpdateItemStatus(ctx context.Context, req payroll.UpdateItemStatusRequest) (payroll.PayrollItemResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollItemResponse{}, err
	}
	next, err := payroll.ParseItemStatus(req.Status)
	if err != nil {
		return payroll.PayrollItemResponse{}, err
	}

	var updated payroll.PayrollItem
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		item, err := s.payrollRepo.GetItemByID(ctx, req.ItemID)
		if err != nil {
			return err
		}
		if req.Version != nil && *req.Version != item.Version {
			return payroll.ErrPayrollItemVersionConflict
		}

		ok, err := item.Status.CanTransitionTo(next)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s to %s", payroll.ErrInvalidStatusTransition, item.Status, next)
		}

		item.Status = next
		updated, err = s.payrollRepo.UpdateItem(ctx, item)
		return err
	})
	if err != nil {
		return payroll.PayrollItemResponse{}, err
	}
	return payroll.NewPayrollItemResponse(updated), nil
}

func (s *PayrollServiceImpl) DeletePayrollItem(ctx context.Context, id string) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		item, err := s.payrollRepo.GetItemByID(ctx, id)
		if err != nil {
			return err
		}
		if item.Status == payroll.ItemStatusPaid {
			return payroll.ErrCannotDeletePaidItem
		}
		return s.payrollRepo.DeleteItem(ctx, id)
	})
}
