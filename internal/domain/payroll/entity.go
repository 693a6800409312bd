package payroll

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// ItemStatus is the lifecycle status of a single payroll item.
type ItemStatus string

const (
	ItemStatusPending   ItemStatus = "pending"
	ItemStatusProcessed ItemStatus = "processed"
	ItemStatusPaid      ItemStatus = "paid"
)

func ParseItemStatus(s string) (ItemStatus, error) {
	switch ItemStatus(s) {
	case ItemStatusPending, ItemStatusProcessed, ItemStatusPaid:
		return ItemStatus(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownItemStatus, s)
	}
}

// CanTransitionTo reports whether an item may move from s to next.
// Paid is terminal; a processed item may be sent back to pending.
func (s ItemStatus) CanTransitionTo(next ItemStatus) (bool, error) {
	if _, err := ParseItemStatus(string(next)); err != nil {
		return false, err
	}
	switch s {
	case ItemStatusPending:
		return next == ItemStatusProcessed, nil
	case ItemStatusProcessed:
		return next == ItemStatusPaid || next == ItemStatusPending, nil
	case ItemStatusPaid:
		return false, nil
	default:
		return false, fmt.Errorf("%w: %q", ErrUnknownItemStatus, s)
	}
}

// RunStatus is derived from the statuses of a run's items and never stored.
type RunStatus string

const (
	RunStatusDraft      RunStatus = "draft"
	RunStatusProcessing RunStatus = "processing"
	RunStatusApproved   RunStatus = "approved"
	RunStatusFinalized  RunStatus = "finalized"
)

// AllowsItemEdits reports whether items of a run in status s may have their
// amounts recalculated.
func (s RunStatus) AllowsItemEdits() (bool, error) {
	switch s {
	case RunStatusDraft, RunStatusProcessing:
		return true, nil
	case RunStatusApproved, RunStatusFinalized:
		return false, nil
	default:
		return false, fmt.Errorf("unknown run status %q", s)
	}
}

// Period is the pay period shared by every item of one run.
type Period struct {
	Start time.Time
	End   time.Time
}

func NewPeriod(start, end time.Time) (Period, error) {
	start = truncateDay(start)
	end = truncateDay(end)
	if end.Before(start) {
		return Period{}, ErrInvalidPeriod
	}
	return Period{Start: start, End: end}, nil
}

// Key returns the period in its wire form, "YYYY-MM-DD_YYYY-MM-DD".
func (p Period) Key() string {
	return p.Start.Format(dateLayout) + "_" + p.End.Format(dateLayout)
}

func (p Period) Equal(other Period) bool {
	return p.Start.Equal(other.Start) && p.End.Equal(other.End)
}

// ParsePeriodKey is the inverse of Period.Key.
func ParsePeriodKey(key string) (Period, error) {
	startStr, endStr, ok := strings.Cut(key, "_")
	if !ok {
		return Period{}, ErrInvalidPeriodKey
	}
	start, err := time.Parse(dateLayout, startStr)
	if err != nil {
		return Period{}, ErrInvalidPeriodKey
	}
	end, err := time.Parse(dateLayout, endStr)
	if err != nil {
		return Period{}, ErrInvalidPeriodKey
	}
	return NewPeriod(start, end)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// PayrollItem is one employee's computed pay for one period.
type PayrollItem struct {
	ID                     string
	EmployeeID             string
	PayPeriodStart         time.Time
	PayPeriodEnd           time.Time
	PayDate                time.Time
	BasicPay               decimal.Decimal
	OvertimePay            decimal.Decimal
	Allowances             decimal.Decimal
	GrossPay               decimal.Decimal
	SSSContribution        decimal.Decimal
	PhilHealthContribution decimal.Decimal
	PagIbigContribution    decimal.Decimal
	WithholdingTax         decimal.Decimal
	OtherDeductions        decimal.Decimal
	TotalDeductions        decimal.Decimal
	NetPay                 decimal.Decimal
	Status                 ItemStatus
	Version                int
	CreatedAt              time.Time
	UpdatedAt              time.Time

	// Joined fields
	EmployeeName *string
}

func (i PayrollItem) Period() Period {
	return Period{Start: truncateDay(i.PayPeriodStart), End: truncateDay(i.PayPeriodEnd)}
}

// StatutoryShares is the sum of the three contribution components.
func (i PayrollItem) StatutoryShares() decimal.Decimal {
	return i.SSSContribution.Add(i.PhilHealthContribution).Add(i.PagIbigContribution)
}

// Settle recomputes gross, total deductions and net pay from the
// component amounts.
func (i *PayrollItem) Settle() {
	i.GrossPay = i.BasicPay.Add(i.OvertimePay).Add(i.Allowances)
	i.TotalDeductions = i.StatutoryShares().Add(i.WithholdingTax).Add(i.OtherDeductions)
	i.NetPay = i.GrossPay.Sub(i.TotalDeductions)
}

// CheckInvariants returns an error if the derived amounts disagree with the
// components.
func (i PayrollItem) CheckInvariants() error {
	gross := i.BasicPay.Add(i.OvertimePay).Add(i.Allowances)
	if !i.GrossPay.Equal(gross) {
		return fmt.Errorf("%w: gross pay %s != %s", ErrItemInvariant, i.GrossPay, gross)
	}
	total := i.StatutoryShares().Add(i.WithholdingTax).Add(i.OtherDeductions)
	if !i.TotalDeductions.Equal(total) {
		return fmt.Errorf("%w: total deductions %s != %s", ErrItemInvariant, i.TotalDeductions, total)
	}
	net := i.GrossPay.Sub(i.TotalDeductions)
	if !i.NetPay.Equal(net) {
		return fmt.Errorf("%w: net pay %s != %s", ErrItemInvariant, i.NetPay, net)
	}
	return nil
}
