package adjustment

import "context"

type SalaryAdjustmentRepository interface {
	Create(ctx context.Context, adj SalaryAdjustment) (SalaryAdjustment, error)
	GetByID(ctx context.Context, id string) (SalaryAdjustment, error)
	List(ctx context.Context, filter SalaryAdjustmentFilter) ([]SalaryAdjustment, error)
	// UpdateDecision stores status, approver and decision time if the stored
	// version equals adj.Version, and returns the row with its new version.
	UpdateDecision(ctx context.Context, adj SalaryAdjustment) (SalaryAdjustment, error)
}
