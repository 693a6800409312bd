package fixtures

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/payroll-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemoRoster_UniqueIDsAndCodes(t *testing.T) {
	ids := map[string]bool{}
	codes := map[string]bool{}
	for _, emp := range DemoRoster() {
		assert.False(t, ids[emp.ID], emp.ID)
		assert.False(t, codes[emp.EmployeeCode], emp.EmployeeCode)
		assert.False(t, emp.MonthlySalary.IsNegative())
		ids[emp.ID] = true
		codes[emp.EmployeeCode] = true
	}
}

func TestSeedDemoRoster_Idempotent(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	created, err := SeedDemoRoster(ctx, store.Employees())
	require.NoError(t, err)
	assert.Equal(t, len(DemoRoster()), created)

	created, err = SeedDemoRoster(ctx, store.Employees())
	require.NoError(t, err)
	assert.Zero(t, created)

	emp, err := store.Employees().GetByID(ctx, DemoRoster()[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 1, emp.Version)
}
