package payroll

import (
	"context"
	"errors"
	"testing"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/payroll-backend-go/internal/repository/memory"
	"github.com/cmlabs-hris/payroll-backend-go/internal/service/deduction"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const periodKey = "2025-01-01_2025-01-15"

type failingEmployeeRepo struct {
	employee.EmployeeRepository
	err error
}

func (r failingEmployeeRepo) UpdateMonthlySalary(context.Context, string, decimal.Decimal, int) (employee.Employee, error) {
	return employee.Employee{}, r.err
}

type PayrollServiceSuite struct {
	suite.Suite
	ctx   context.Context
	store *memory.Store
	svc   payroll.PayrollService
}

func TestPayrollServiceSuite(t *testing.T) {
	suite.Run(t, new(PayrollServiceSuite))
}

func (s *PayrollServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.NewStore()
	s.svc = NewPayrollService(s.store, s.store.Payroll(), s.store.Employees(), deduction.NewDefaultCalculator())

	s.putEmployee("emp-a", "Ana Reyes", "30000", employee.EmploymentStatusActive)
	s.putEmployee("emp-b", "Ben Cruz", "50000", employee.EmploymentStatusActive)
	s.putEmployee("emp-c", "Carla Lim", "40000", employee.EmploymentStatusResigned)
}

func (s *PayrollServiceSuite) putEmployee(id, name, salary string, status employee.EmploymentStatus) {
	s.store.PutEmployee(employee.Employee{
		ID:            id,
		EmployeeCode:  "CODE-" + id,
		FullName:      name,
		MonthlySalary: decimal.RequireFromString(salary),
		PayFrequency:  employee.PayFrequencySemiMonthly,
		Status:        status,
	})
}

func (s *PayrollServiceSuite) buildRequest(ids ...string) payroll.BuildPayrollRunRequest {
	return payroll.BuildPayrollRunRequest{
		PeriodStart: "2025-01-01",
		PeriodEnd:   "2025-01-15",
		PayDate:     "2025-01-20",
		EmployeeIDs: ids,
	}
}

func (s *PayrollServiceSuite) build(ids ...string) payroll.BuildPayrollRunResponse {
	resp, err := s.svc.BuildPayrollRun(s.ctx, s.buildRequest(ids...))
	s.Require().NoError(err)
	return resp
}

func (s *PayrollServiceSuite) itemFor(resp payroll.BuildPayrollRunResponse, employeeID string) payroll.PayrollItemResponse {
	for _, item := range resp.Items {
		if item.EmployeeID == employeeID {
			return item
		}
	}
	s.FailNow("no item for employee " + employeeID)
	return payroll.PayrollItemResponse{}
}

func (s *PayrollServiceSuite) assertAmount(want string, got decimal.Decimal, field string) {
	s.True(got.Equal(decimal.RequireFromString(want)), "%s: want %s, got %s", field, want, got)
}

func (s *PayrollServiceSuite) assertInvariants(item payroll.PayrollItemResponse) {
	gross := item.BasicPay.Add(item.OvertimePay).Add(item.Allowances)
	total := item.SSSContribution.Add(item.PhilHealthContribution).Add(item.PagIbigContribution).
		Add(item.WithholdingTax).Add(item.OtherDeductions)
	s.True(item.GrossPay.Equal(gross), "gross")
	s.True(item.TotalDeductions.Equal(total), "total deductions")
	s.True(item.NetPay.Equal(item.GrossPay.Sub(item.TotalDeductions)), "net")
}

func (s *PayrollServiceSuite) TestBuildPayrollRun() {
	resp := s.build("emp-a", "emp-b", "emp-c", "emp-unknown", "emp-a")

	s.Equal(periodKey, resp.PeriodKey)
	s.Require().Len(resp.Items, 2)
	s.Require().Len(resp.Skipped, 2)
	s.Equal(payroll.SkippedEmployee{EmployeeID: "emp-c", Reason: skipReasonInactive}, resp.Skipped[0])
	s.Equal(payroll.SkippedEmployee{EmployeeID: "emp-unknown", Reason: skipReasonNotFound}, resp.Skipped[1])

	a := s.itemFor(resp, "emp-a")
	s.assertAmount("15000", a.BasicPay, "basic")
	s.assertAmount("675", a.SSSContribution, "sss")
	s.assertAmount("375", a.PhilHealthContribution, "philhealth")
	s.assertAmount("50", a.PagIbigContribution, "pagibig")
	s.assertAmount("0", a.WithholdingTax, "tax")
	s.assertAmount("1100", a.TotalDeductions, "total")
	s.assertAmount("13900", a.NetPay, "net")
	s.Equal(payroll.ItemStatusPending, a.Status)
	s.Equal(1, a.Version)
	s.Equal("2025-01-20", a.PayDate)
	s.assertInvariants(a)

	b := s.itemFor(resp, "emp-b")
	s.assertAmount("25000", b.BasicPay, "basic")
	s.assertAmount("625", b.PhilHealthContribution, "philhealth")
	s.assertAmount("422.55", b.WithholdingTax, "tax")
	s.assertAmount("1772.55", b.TotalDeductions, "total")
	s.assertAmount("23227.45", b.NetPay, "net")
	s.assertInvariants(b)

	emp, err := s.store.Employees().GetByID(s.ctx, "emp-a")
	s.Require().NoError(err)
	s.Equal(1, emp.Version, "building a run never touches employees")
}

func (s *PayrollServiceSuite) TestBuildPayrollRun_SkipsExistingItems() {
	s.build("emp-a")
	resp := s.build("emp-a", "emp-b")

	s.Require().Len(resp.Items, 1)
	s.Equal("emp-b", resp.Items[0].EmployeeID)
	s.Equal([]payroll.SkippedEmployee{{EmployeeID: "emp-a", Reason: skipReasonExists}}, resp.Skipped)
}

func (s *PayrollServiceSuite) TestBuildPayrollRun_EmptyEmployeeSet() {
	_, err := s.svc.BuildPayrollRun(s.ctx, s.buildRequest())
	s.ErrorIs(err, payroll.ErrEmptyEmployeeSet)
	s.True(apperror.IsNotFound(err))
}

func (s *PayrollServiceSuite) TestBuildPayrollRun_NoMatchingEmployees() {
	_, err := s.svc.BuildPayrollRun(s.ctx, s.buildRequest("ghost-1", "ghost-2"))
	s.ErrorIs(err, payroll.ErrNoMatchingEmployees)

	runs, err := s.svc.ListRuns(s.ctx)
	s.Require().NoError(err)
	s.Empty(runs)
}

func (s *PayrollServiceSuite) TestBuildPayrollRun_NoEligibleEmployees() {
	_, err := s.svc.BuildPayrollRun(s.ctx, s.buildRequest("emp-c", "ghost-1"))
	s.ErrorIs(err, payroll.ErrNoMatchingEmployees)
	s.True(apperror.IsNotFound(err))

	runs, err := s.svc.ListRuns(s.ctx)
	s.Require().NoError(err)
	s.Empty(runs)
}

func (s *PayrollServiceSuite) TestBuildPayrollRun_RepeatedBuildIsNoOp() {
	s.build("emp-a")
	resp := s.build("emp-a", "emp-c")

	s.Empty(resp.Items)
	s.Equal([]payroll.SkippedEmployee{
		{EmployeeID: "emp-a", Reason: skipReasonExists},
		{EmployeeID: "emp-c", Reason: skipReasonInactive},
	}, resp.Skipped)
}

func (s *PayrollServiceSuite) TestBuildPayrollRun_InvalidRequest() {
	req := s.buildRequest("emp-a")
	req.PeriodEnd = "2024-12-31"
	req.PayDate = "20-01-2025"

	_, err := s.svc.BuildPayrollRun(s.ctx, req)
	var verrs validator.ValidationErrors
	s.Require().True(errors.As(err, &verrs))
	s.Contains(verrs.ToMap(), "pay_date")
}

func (s *PayrollServiceSuite) TestDeriveRunView() {
	s.build("emp-a", "emp-b")

	run, err := s.svc.DeriveRunView(s.ctx, periodKey)
	s.Require().NoError(err)

	s.Equal(payroll.RunStatusDraft, run.Status)
	s.Equal(2, run.EmployeeCount)
	s.Equal("2025-01-20", run.PayDate)
	s.assertAmount("40000", run.Totals.GrossPay, "gross")
	s.assertAmount("2872.55", run.Totals.TotalDeductions, "deductions")
	s.assertAmount("37127.45", run.Totals.NetPay, "net")
	s.assertAmount("1350", run.Totals.SSS, "sss")
	s.assertAmount("1000", run.Totals.PhilHealth, "philhealth")
	s.assertAmount("100", run.Totals.PagIbig, "pagibig")
	s.assertAmount("422.55", run.Totals.WithholdingTax, "tax")
	s.Require().Len(run.Items, 2)
	s.Equal("emp-a", run.Items[0].EmployeeID)

	_, err = s.svc.DeriveRunView(s.ctx, "2030-01-01_2030-01-15")
	s.ErrorIs(err, payroll.ErrPayrollRunNotFound)

	_, err = s.svc.DeriveRunView(s.ctx, "not-a-key")
	s.ErrorIs(err, payroll.ErrInvalidPeriodKey)
}

func (s *PayrollServiceSuite) TestListRuns_NewestFirst() {
	s.build("emp-a")
	req := s.buildRequest("emp-a")
	req.PeriodStart, req.PeriodEnd, req.PayDate = "2025-01-16", "2025-01-31", "2025-02-05"
	_, err := s.svc.BuildPayrollRun(s.ctx, req)
	s.Require().NoError(err)

	runs, err := s.svc.ListRuns(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(runs, 2)
	s.Equal("2025-01-16_2025-01-31", runs[0].PeriodKey)
	s.Equal(periodKey, runs[1].PeriodKey)
	s.Empty(runs[0].Items)
}

func (s *PayrollServiceSuite) TestRecalculateItem_SyncToEmployee() {
	item := s.itemFor(s.build("emp-a"), "emp-a")

	resp, err := s.svc.RecalculateItem(s.ctx, payroll.RecalculateItemRequest{
		ItemID:         item.ID,
		BasicPay:       decimal.NewFromInt(18000),
		SyncToEmployee: true,
	})
	s.Require().NoError(err)

	got := resp.Item
	s.assertAmount("18000", got.BasicPay, "basic")
	s.assertAmount("18000", got.GrossPay, "gross")
	s.assertAmount("675", got.SSSContribution, "sss")
	s.assertAmount("450", got.PhilHealthContribution, "philhealth")
	s.assertAmount("50", got.PagIbigContribution, "pagibig")
	s.assertAmount("969.30", got.WithholdingTax, "tax")
	s.assertAmount("2144.30", got.TotalDeductions, "total")
	s.assertAmount("15855.70", got.NetPay, "net")
	s.Equal(2, got.Version)
	s.assertInvariants(got)

	s.Require().NotNil(resp.EmployeeChange)
	s.assertAmount("30000", resp.EmployeeChange.PreviousSalary, "previous")
	s.assertAmount("36000", resp.EmployeeChange.NewSalary, "new")
	s.assertAmount("6000", resp.EmployeeChange.Delta, "delta")

	emp, err := s.store.Employees().GetByID(s.ctx, "emp-a")
	s.Require().NoError(err)
	s.assertAmount("36000", emp.MonthlySalary, "employee salary")
	s.Equal(2, emp.Version)
}

func (s *PayrollServiceSuite) TestRecalculateItem_WithoutSync() {
	item := s.itemFor(s.build("emp-a"), "emp-a")

	resp, err := s.svc.RecalculateItem(s.ctx, payroll.RecalculateItemRequest{
		ItemID:   item.ID,
		BasicPay: decimal.NewFromInt(18000),
	})
	s.Require().NoError(err)
	s.Nil(resp.EmployeeChange)

	emp, err := s.store.Employees().GetByID(s.ctx, "emp-a")
	s.Require().NoError(err)
	s.assertAmount("30000", emp.MonthlySalary, "employee salary")
}

func (s *PayrollServiceSuite) TestRecalculateItem_Idempotent() {
	item := s.itemFor(s.build("emp-b"), "emp-b")
	req := payroll.RecalculateItemRequest{ItemID: item.ID, BasicPay: decimal.RequireFromString("27345.67")}

	first, err := s.svc.RecalculateItem(s.ctx, req)
	s.Require().NoError(err)
	second, err := s.svc.RecalculateItem(s.ctx, req)
	s.Require().NoError(err)

	a, b := first.Item, second.Item
	s.True(a.GrossPay.Equal(b.GrossPay))
	s.True(a.SSSContribution.Equal(b.SSSContribution))
	s.True(a.PhilHealthContribution.Equal(b.PhilHealthContribution))
	s.True(a.PagIbigContribution.Equal(b.PagIbigContribution))
	s.True(a.WithholdingTax.Equal(b.WithholdingTax))
	s.True(a.TotalDeductions.Equal(b.TotalDeductions))
	s.True(a.NetPay.Equal(b.NetPay))
	s.Equal(a.Version+1, b.Version)
}

func (s *PayrollServiceSuite) TestRecalculateItem_InvalidAmount() {
	item := s.itemFor(s.build("emp-a"), "emp-a")

	for _, amount := range []string{"0", "-15000", "0.001"} {
		_, err := s.svc.RecalculateItem(s.ctx, payroll.RecalculateItemRequest{
			ItemID:   item.ID,
			BasicPay: decimal.RequireFromString(amount),
		})
		s.ErrorIs(err, payroll.ErrInvalidAmount, amount)
		s.ErrorIs(err, apperror.ErrValidation, amount)
	}

	unchanged, err := s.svc.GetPayrollItem(s.ctx, item.ID)
	s.Require().NoError(err)
	s.Equal(1, unchanged.Version)
	s.assertAmount("15000", unchanged.BasicPay, "basic")
}

func (s *PayrollServiceSuite) TestRecalculateItem_NotEditable() {
	item := s.itemFor(s.build("emp-a"), "emp-a")
	_, err := s.svc.ProcessRun(s.ctx, periodKey)
	s.Require().NoError(err)

	_, err = s.svc.RecalculateItem(s.ctx, payroll.RecalculateItemRequest{
		ItemID:   item.ID,
		BasicPay: decimal.NewFromInt(18000),
	})
	s.ErrorIs(err, payroll.ErrItemNotEditable)
	s.ErrorIs(err, apperror.ErrInvalidState)
}

func (s *PayrollServiceSuite) TestRecalculateItem_VersionConflict() {
	item := s.itemFor(s.build("emp-a"), "emp-a")
	stale := 7

	_, err := s.svc.RecalculateItem(s.ctx, payroll.RecalculateItemRequest{
		ItemID:   item.ID,
		BasicPay: decimal.NewFromInt(18000),
		Version:  &stale,
	})
	s.ErrorIs(err, payroll.ErrPayrollItemVersionConflict)
	s.ErrorIs(err, apperror.ErrConflict)
}

func (s *PayrollServiceSuite) TestRecalculateItem_NotFound() {
	_, err := s.svc.RecalculateItem(s.ctx, payroll.RecalculateItemRequest{
		ItemID:   "missing",
		BasicPay: decimal.NewFromInt(18000),
	})
	s.ErrorIs(err, payroll.ErrPayrollItemNotFound)
}

func (s *PayrollServiceSuite) TestRecalculateItem_EmployeeWriteFailureRollsBack() {
	item := s.itemFor(s.build("emp-a"), "emp-a")

	writeErr := errors.New("disk full")
	svc := NewPayrollService(s.store, s.store.Payroll(),
		failingEmployeeRepo{EmployeeRepository: s.store.Employees(), err: writeErr},
		deduction.NewDefaultCalculator())

	_, err := svc.RecalculateItem(s.ctx, payroll.RecalculateItemRequest{
		ItemID:         item.ID,
		BasicPay:       decimal.NewFromInt(18000),
		SyncToEmployee: true,
	})
	s.Require().Error(err)
	s.ErrorIs(err, apperror.ErrConsistency)
	s.ErrorIs(err, writeErr)

	var cerr *apperror.ConsistencyError
	s.Require().True(errors.As(err, &cerr))
	s.Equal("employee", cerr.Entity)
	s.Equal("emp-a", cerr.ID)

	stored, err := s.svc.GetPayrollItem(s.ctx, item.ID)
	s.Require().NoError(err)
	s.Equal(1, stored.Version)
	s.assertAmount("15000", stored.BasicPay, "basic pay is rolled back")
}

func (s *PayrollServiceSuite) TestRunLifecycle() {
	s.build("emp-a", "emp-b")

	run, err := s.svc.ProcessRun(s.ctx, periodKey)
	s.Require().NoError(err)
	s.Equal(payroll.RunStatusApproved, run.Status)

	_, err = s.svc.ProcessRun(s.ctx, periodKey)
	s.ErrorIs(err, payroll.ErrNoItemsToTransition)

	run, err = s.svc.PayRun(s.ctx, periodKey)
	s.Require().NoError(err)
	s.Equal(payroll.RunStatusFinalized, run.Status)
	for _, item := range run.Items {
		s.Equal(payroll.ItemStatusPaid, item.Status)
	}

	err = s.svc.DeletePayrollRun(s.ctx, periodKey)
	s.ErrorIs(err, payroll.ErrCannotDeletePaidItem)
}

func (s *PayrollServiceSuite) TestUpdateItemStatus() {
	resp := s.build("emp-a", "emp-b")
	a := s.itemFor(resp, "emp-a")

	_, err := s.svc.UpdateItemStatus(s.ctx, payroll.UpdateItemStatusRequest{ItemID: a.ID, Status: "paid"})
	s.ErrorIs(err, payroll.ErrInvalidStatusTransition)

	updated, err := s.svc.UpdateItemStatus(s.ctx, payroll.UpdateItemStatusRequest{ItemID: a.ID, Status: "processed", Version: &a.Version})
	s.Require().NoError(err)
	s.Equal(payroll.ItemStatusProcessed, updated.Status)
	s.Equal(2, updated.Version)

	run, err := s.svc.DeriveRunView(s.ctx, periodKey)
	s.Require().NoError(err)
	s.Equal(payroll.RunStatusProcessing, run.Status)

	_, err = s.svc.UpdateItemStatus(s.ctx, payroll.UpdateItemStatusRequest{ItemID: a.ID, Status: "pending", Version: &a.Version})
	s.ErrorIs(err, payroll.ErrPayrollItemVersionConflict)

	_, err = s.svc.UpdateItemStatus(s.ctx, payroll.UpdateItemStatusRequest{ItemID: a.ID, Status: "void"})
	var verrs validator.ValidationErrors
	s.True(errors.As(err, &verrs))
}

func (s *PayrollServiceSuite) TestDeletePayrollItemAndRun() {
	resp := s.build("emp-a", "emp-b")
	a := s.itemFor(resp, "emp-a")

	s.Require().NoError(s.svc.DeletePayrollItem(s.ctx, a.ID))
	_, err := s.svc.GetPayrollItem(s.ctx, a.ID)
	s.ErrorIs(err, payroll.ErrPayrollItemNotFound)

	s.Require().NoError(s.svc.DeletePayrollRun(s.ctx, periodKey))
	_, err = s.svc.DeriveRunView(s.ctx, periodKey)
	s.ErrorIs(err, payroll.ErrPayrollRunNotFound)

	err = s.svc.DeletePayrollRun(s.ctx, periodKey)
	s.ErrorIs(err, payroll.ErrPayrollRunNotFound)
}

func TestUniqueIDs(t *testing.T) {
	require.Equal(t, []string{"a", "b", "c"}, uniqueIDs([]string{"a", "b", "a", "c", "b"}))
	assert.Empty(t, uniqueIDs(nil))
}
