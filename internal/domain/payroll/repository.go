package payroll

import "context"

// PayrollRepository defines data access methods for payroll items. Runs
// are never stored; they are aggregated from ListItems.
type PayrollRepository interface {
	// CreateItems inserts items as version 1 and returns the stored rows.
	CreateItems(ctx context.Context, items []PayrollItem) ([]PayrollItem, error)
	GetItemByID(ctx context.Context, id string) (PayrollItem, error)
	ListItems(ctx context.Context, filter ItemFilter) ([]PayrollItem, error)
	// ExistingEmployeeIDs returns which of employeeIDs already have an item
	// for period.
	ExistingEmployeeIDs(ctx context.Context, period Period, employeeIDs []string) (map[string]bool, error)
	// UpdateItem persists amounts and status of item if the stored version
	// equals item.Version, and returns the stored row with its new version.
	UpdateItem(ctx context.Context, item PayrollItem) (PayrollItem, error)
	DeleteItem(ctx context.Context, id string) error
	DeleteItemsByPeriod(ctx context.Context, period Period) (int64, error)
}
