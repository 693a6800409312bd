package adjustment

import "context"

type SalaryAdjustmentService interface {
	Submit(ctx context.Context, req SubmitSalaryAdjustmentRequest) (SalaryAdjustmentResponse, error)
	Decide(ctx context.Context, req DecideSalaryAdjustmentRequest) (DecideSalaryAdjustmentResponse, error)
	Get(ctx context.Context, id string) (SalaryAdjustmentResponse, error)
	List(ctx context.Context, filter SalaryAdjustmentFilter) ([]SalaryAdjustmentResponse, error)
}
