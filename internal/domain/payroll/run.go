package payroll

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// DeriveRunStatus maps the multiset of item statuses to a run status:
//
//	all paid                    -> finalized
//	all processed or paid       -> approved
//	some processed              -> processing
//	anything else               -> draft
//
// An empty set is a draft.
func DeriveRunStatus(statuses []ItemStatus) (RunStatus, error) {
	var pending, processed, paid int
	for _, s := range statuses {
		switch s {
		case ItemStatusPending:
			pending++
		case ItemStatusProcessed:
			processed++
		case ItemStatusPaid:
			paid++
		default:
			return "", fmt.Errorf("%w: %q", ErrUnknownItemStatus, s)
		}
	}

	n := len(statuses)
	switch {
	case n == 0:
		return RunStatusDraft, nil
	case paid == n:
		return RunStatusFinalized, nil
	case pending == 0:
		return RunStatusApproved, nil
	case processed > 0:
		return RunStatusProcessing, nil
	default:
		return RunStatusDraft, nil
	}
}

type RunTotals struct {
	EmployeeCount   int
	GrossPay        decimal.Decimal
	TotalDeductions decimal.Decimal
	NetPay          decimal.Decimal
	SSS             decimal.Decimal
	PhilHealth      decimal.Decimal
	PagIbig         decimal.Decimal
	WithholdingTax  decimal.Decimal
	OtherDeductions decimal.Decimal
}

func (t *RunTotals) add(item PayrollItem) {
	t.EmployeeCount++
	t.GrossPay = t.GrossPay.Add(item.GrossPay)
	t.TotalDeductions = t.TotalDeductions.Add(item.TotalDeductions)
	t.NetPay = t.NetPay.Add(item.NetPay)
	t.SSS = t.SSS.Add(item.SSSContribution)
	t.PhilHealth = t.PhilHealth.Add(item.PhilHealthContribution)
	t.PagIbig = t.PagIbig.Add(item.PagIbigContribution)
	t.WithholdingTax = t.WithholdingTax.Add(item.WithholdingTax)
	t.OtherDeductions = t.OtherDeductions.Add(item.OtherDeductions)
}

// PayrollRun is a read-only projection over the items of one period.
type PayrollRun struct {
	Period  Period
	PayDate time.Time
	Status  RunStatus
	Totals  RunTotals
	Items   []PayrollItem
}

// AggregateRun builds the run view for period from its items. Items of
// other periods are ignored. The run's pay date is the latest pay date
// among its items.
func AggregateRun(period Period, items []PayrollItem) (PayrollRun, error) {
	run := PayrollRun{Period: period, Items: make([]PayrollItem, 0, len(items))}
	statuses := make([]ItemStatus, 0, len(items))

	for _, item := range items {
		if !item.Period().Equal(period) {
			continue
		}
		run.Items = append(run.Items, item)
		statuses = append(statuses, item.Status)
		run.Totals.add(item)
		if item.PayDate.After(run.PayDate) {
			run.PayDate = item.PayDate
		}
	}
	if len(run.Items) == 0 {
		return PayrollRun{}, ErrPayrollRunNotFound
	}

	status, err := DeriveRunStatus(statuses)
	if err != nil {
		return PayrollRun{}, err
	}
	run.Status = status

	sort.SliceStable(run.Items, func(a, b int) bool {
		return itemSortKey(run.Items[a]) < itemSortKey(run.Items[b])
	})
	return run, nil
}

func itemSortKey(item PayrollItem) string {
	if item.EmployeeName != nil {
		return *item.EmployeeName + "\x00" + item.EmployeeID
	}
	return item.EmployeeID
}

// GroupByPeriod splits items into one slice per period, newest period first.
func GroupByPeriod(items []PayrollItem) ([]Period, map[string][]PayrollItem) {
	groups := make(map[string][]PayrollItem)
	var periods []Period
	for _, item := range items {
		key := item.Period().Key()
		if _, ok := groups[key]; !ok {
			periods = append(periods, item.Period())
		}
		groups[key] = append(groups[key], item)
	}
	sort.Slice(periods, func(a, b int) bool {
		if !periods[a].Start.Equal(periods[b].Start) {
			return periods[a].Start.After(periods[b].Start)
		}
		return periods[a].End.After(periods[b].End)
	})
	return periods, groups
}
