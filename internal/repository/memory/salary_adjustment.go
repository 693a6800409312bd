package memory

import (
	"context"
	"sort"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/adjustment"
)

type adjustmentRepository struct {
	s *Store
}

func (r *adjustmentRepository) Create(ctx context.Context, adj adjustment.SalaryAdjustment) (adjustment.SalaryAdjustment, error) {
	err := r.s.locked(ctx, func() error {
		if _, ok := r.s.adjustments[adj.ID]; ok {
			return errDuplicate("salary adjustment", adj.ID)
		}
		now := r.s.now()
		adj.Version = 1
		adj.CreatedAt = now
		adj.UpdatedAt = now
		adj.EmployeeName = nil
		r.s.adjustments[adj.ID] = adj
		adj.EmployeeName = r.s.employeeName(adj.EmployeeID)
		return nil
	})
	if err != nil {
		return adjustment.SalaryAdjustment{}, err
	}
	return adj, nil
}

func (r *adjustmentRepository) GetByID(ctx context.Context, id string) (adjustment.SalaryAdjustment, error) {
	var out adjustment.SalaryAdjustment
	err := r.s.locked(ctx, func() error {
		adj, ok := r.s.adjustments[id]
		if !ok {
			return adjustment.ErrSalaryAdjustmentNotFound
		}
		adj.EmployeeName = r.s.employeeName(adj.EmployeeID)
		out = adj
		return nil
	})
	return out, err
}

func (r *adjustmentRepository) List(ctx context.Context, filter adjustment.SalaryAdjustmentFilter) ([]adjustment.SalaryAdjustment, error) {
	var out []adjustment.SalaryAdjustment
	err := r.s.locked(ctx, func() error {
		for _, adj := range r.s.adjustments {
			if filter.EmployeeID != nil && adj.EmployeeID != *filter.EmployeeID {
				continue
			}
			if filter.Status != nil && string(adj.Status) != *filter.Status {
				continue
			}
			adj.EmployeeName = r.s.employeeName(adj.EmployeeID)
			out = append(out, adj)
		}
		return nil
	})
	// newest first
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, err
}

func (r *adjustmentRepository) UpdateDecision(ctx context.Context, adj adjustment.SalaryAdjustment) (adjustment.SalaryAdjustment, error) {
	var out adjustment.SalaryAdjustment
	err := r.s.locked(ctx, func() error {
		stored, ok := r.s.adjustments[adj.ID]
		if !ok {
			return adjustment.ErrSalaryAdjustmentNotFound
		}
		if stored.Version != adj.Version {
			return adjustment.ErrAdjustmentVersionConflict
		}
		stored.Status = adj.Status
		stored.ApprovedBy = adj.ApprovedBy
		stored.ApprovedAt = adj.ApprovedAt
		stored.Version++
		stored.UpdatedAt = r.s.now()
		r.s.adjustments[adj.ID] = stored

		stored.EmployeeName = r.s.employeeName(stored.EmployeeID)
		out = stored
		return nil
	})
	return out, err
}
