package payroll

import "context"

type PayrollService interface {
	BuildPayrollRun(ctx context.Context, req BuildPayrollRunRequest) (BuildPayrollRunResponse, error)
	DeriveRunView(ctx context.Context, periodKey string) (PayrollRunResponse, error)
	ListRuns(ctx context.Context) ([]PayrollRunResponse, error)
	ProcessRun(ctx context.Context, periodKey string) (PayrollRunResponse, error)
	PayRun(ctx context.Context, periodKey string) (PayrollRunResponse, error)
	DeletePayrollRun(ctx context.Context, periodKey string) error

	GetPayrollItem(ctx context.Context, id string) (PayrollItemResponse, error)
	RecalculateItem(ctx context.Context, req RecalculateItemRequest) (RecalculateItemResponse, error)
	UpdateItemStatus(ctx context.Context, req UpdateItemStatusRequest) (PayrollItemResponse, error)
	DeletePayrollItem(ctx context.Context, id string) error
}
