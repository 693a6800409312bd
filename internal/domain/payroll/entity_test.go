package payroll

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeriodKeyRoundTrip(t *testing.T) {
	period, err := NewPeriod(date(2025, 3, 16), date(2025, 3, 31))
	require.NoError(t, err)
	assert.Equal(t, "2025-03-16_2025-03-31", period.Key())

	parsed, err := ParsePeriodKey(period.Key())
	require.NoError(t, err)
	assert.True(t, parsed.Equal(period))
}

func TestParsePeriodKey_Invalid(t *testing.T) {
	for _, key := range []string{"", "2025-03-16", "2025-03-16_", "x_2025-03-31", "2025-03-31_2025-03-16"} {
		_, err := ParsePeriodKey(key)
		assert.Error(t, err, key)
	}
}

func TestItemStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to ItemStatus
		want     bool
	}{
		{ItemStatusPending, ItemStatusProcessed, true},
		{ItemStatusPending, ItemStatusPaid, false},
		{ItemStatusProcessed, ItemStatusPaid, true},
		{ItemStatusProcessed, ItemStatusPending, true},
		{ItemStatusPaid, ItemStatusPending, false},
		{ItemStatusPaid, ItemStatusProcessed, false},
	}
	for _, tt := range tests {
		got, err := tt.from.CanTransitionTo(tt.to)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%s -> %s", tt.from, tt.to)
	}

	_, err := ItemStatusPending.CanTransitionTo("void")
	assert.ErrorIs(t, err, ErrUnknownItemStatus)
}

func TestRunStatusAllowsItemEdits(t *testing.T) {
	for status, want := range map[RunStatus]bool{
		RunStatusDraft:      true,
		RunStatusProcessing: true,
		RunStatusApproved:   false,
		RunStatusFinalized:  false,
	} {
		got, err := status.AllowsItemEdits()
		require.NoError(t, err)
		assert.Equal(t, want, got, status)
	}

	_, err := RunStatus("archived").AllowsItemEdits()
	assert.Error(t, err)
}

func TestSettleAndInvariants(t *testing.T) {
	item := PayrollItem{
		BasicPay:               decimal.RequireFromString("18000"),
		OvertimePay:            decimal.RequireFromString("500"),
		Allowances:             decimal.RequireFromString("250.50"),
		SSSContribution:        decimal.RequireFromString("675"),
		PhilHealthContribution: decimal.RequireFromString("450"),
		PagIbigContribution:    decimal.RequireFromString("50"),
		WithholdingTax:         decimal.RequireFromString("969.30"),
		OtherDeductions:        decimal.RequireFromString("100"),
	}
	item.Settle()

	assert.True(t, item.GrossPay.Equal(decimal.RequireFromString("18750.50")))
	assert.True(t, item.TotalDeductions.Equal(decimal.RequireFromString("2244.30")))
	assert.True(t, item.NetPay.Equal(decimal.RequireFromString("16506.20")))
	require.NoError(t, item.CheckInvariants())

	item.NetPay = item.NetPay.Add(decimal.NewFromInt(1))
	assert.ErrorIs(t, item.CheckInvariants(), ErrItemInvariant)
}
