package deduction

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertAmount(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, got.Equal(d(want)), append([]interface{}{"want %s, got %s", want, got.String()}, msgAndArgs...)...)
}

func TestMonthlyContributions(t *testing.T) {
	calc := NewDefaultCalculator()

	tests := []struct {
		salary                   string
		sss, philHealth, pagIbig string
	}{
		{"0", "180", "0", "0"},
		{"3000", "180", "75", "60"},
		{"4000", "180", "100", "80"},
		{"10000", "450", "250", "100"},
		{"30000", "1350", "750", "100"},
		{"50000", "1350", "1250", "100"},
		{"100000", "1350", "2500", "100"},
		{"10000000", "1350", "2500", "100"},
	}

	for _, tt := range tests {
		t.Run(tt.salary, func(t *testing.T) {
			got, err := calc.MonthlyContributions(d(tt.salary))
			require.NoError(t, err)
			assertAmount(t, tt.sss, got.SSS, "sss")
			assertAmount(t, tt.philHealth, got.PhilHealth, "philhealth")
			assertAmount(t, tt.pagIbig, got.PagIbig, "pagibig")
		})
	}
}

func TestMonthlyContributions_MonotonicUpToCaps(t *testing.T) {
	calc := NewDefaultCalculator()

	prev, err := calc.MonthlyContributions(decimal.Zero)
	require.NoError(t, err)
	for salary := int64(250); salary <= 10_000_000; salary = salary*11/10 + 1 {
		cur, err := calc.MonthlyContributions(decimal.NewFromInt(salary))
		require.NoError(t, err)

		assert.False(t, cur.SSS.LessThan(prev.SSS), "sss decreased at %d", salary)
		assert.False(t, cur.PhilHealth.LessThan(prev.PhilHealth), "philhealth decreased at %d", salary)
		assert.False(t, cur.PagIbig.LessThan(prev.PagIbig), "pagibig decreased at %d", salary)

		assert.False(t, cur.SSS.GreaterThan(d("1350")))
		assert.False(t, cur.SSS.LessThan(d("180")))
		assert.False(t, cur.PhilHealth.GreaterThan(d("2500")))
		assert.False(t, cur.PagIbig.GreaterThan(d("100")))
		prev = cur
	}
}

func TestMonthlyContributions_NegativeSalary(t *testing.T) {
	_, err := NewDefaultCalculator().MonthlyContributions(d("-1"))
	assert.ErrorIs(t, err, ErrNegativeSalary)
}

func TestSemiMonthlyContributions(t *testing.T) {
	got, err := NewDefaultCalculator().SemiMonthlyContributions(d("50000"))
	require.NoError(t, err)
	assertAmount(t, "675", got.SSS)
	assertAmount(t, "625", got.PhilHealth)
	assertAmount(t, "50", got.PagIbig)
	assertAmount(t, "1350", got.Total())
}

func TestWithholdingTax_Brackets(t *testing.T) {
	calc := NewDefaultCalculator()

	tests := []struct {
		taxable string
		want    string
	}{
		{"-500", "0"},
		{"0", "0"},
		{"13900", "0"},
		{"20833", "0"},
		{"20834", "0.15"},
		{"23650", "422.55"},
		{"33332", "1874.85"},
		{"33333", "1875.20"},
		{"33650", "1938.60"},
		{"66666", "8541.80"},
		{"66667", "8542.05"},
		{"166666", "33541.80"},
		{"166667", "33542.10"},
		{"666666", "183541.80"},
		{"666667", "183542.15"},
		{"1000000", "300208.70"},
	}

	for _, tt := range tests {
		t.Run(tt.taxable, func(t *testing.T) {
			assertAmount(t, tt.want, calc.WithholdingTax(d(tt.taxable)))
		})
	}
}

func TestForRun_ScenarioA(t *testing.T) {
	b, err := NewDefaultCalculator().ForRun(d("30000"))
	require.NoError(t, err)

	assertAmount(t, "15000", b.BasicPay)
	assertAmount(t, "675", b.Contributions.SSS)
	assertAmount(t, "375", b.Contributions.PhilHealth)
	assertAmount(t, "50", b.Contributions.PagIbig)
	assertAmount(t, "13900", b.TaxableIncome)
	assertAmount(t, "0", b.WithholdingTax)
	assertAmount(t, "1100", b.StatutoryDeductions)
	assertAmount(t, "13900", b.GrossPay.Sub(b.StatutoryDeductions))
}

func TestForRun_ScenarioB(t *testing.T) {
	b, err := NewDefaultCalculator().ForRun(d("50000"))
	require.NoError(t, err)

	assertAmount(t, "25000", b.BasicPay)
	assertAmount(t, "675", b.Contributions.SSS)
	assertAmount(t, "625", b.Contributions.PhilHealth)
	assertAmount(t, "50", b.Contributions.PagIbig)
	assertAmount(t, "23650", b.TaxableIncome)
	assertAmount(t, "422.55", b.WithholdingTax)
	assertAmount(t, "1772.55", b.StatutoryDeductions)
	assertAmount(t, "23227.45", b.GrossPay.Sub(b.StatutoryDeductions))
}

func TestForEdit_ScenarioE(t *testing.T) {
	b, err := NewDefaultCalculator().ForEdit(d("18000"), decimal.Zero, decimal.Zero)
	require.NoError(t, err)

	assertAmount(t, "36000", b.MonthlySalary)
	assertAmount(t, "18000", b.GrossPay)
	assertAmount(t, "675", b.Contributions.SSS)
	assertAmount(t, "450", b.Contributions.PhilHealth)
	assertAmount(t, "50", b.Contributions.PagIbig)
	assertAmount(t, "16825", b.TaxableIncome)
	assertAmount(t, "969.30", b.WithholdingTax)
	assertAmount(t, "2144.30", b.StatutoryDeductions)
}

func TestForEdit_IncludesOvertimeAndAllowances(t *testing.T) {
	b, err := NewDefaultCalculator().ForEdit(d("15000"), d("2000"), d("1000"))
	require.NoError(t, err)

	// shares follow basic pay only: 30000 implied
	assertAmount(t, "1100", b.Contributions.Total())
	assertAmount(t, "18000", b.GrossPay)
	assertAmount(t, "16900", b.TaxableIncome)
	// 33800 doubled: 1875 + 468 * 0.20 = 1968.60, halved
	assertAmount(t, "984.30", b.WithholdingTax)
}

func TestForEdit_RejectsNonPositive(t *testing.T) {
	calc := NewDefaultCalculator()
	for _, basic := range []string{"0", "-100"} {
		_, err := calc.ForEdit(d(basic), decimal.Zero, decimal.Zero)
		assert.ErrorIs(t, err, ErrNonPositiveBasicPay, basic)
	}
}

func TestCalculatorIsDeterministic(t *testing.T) {
	calc := NewDefaultCalculator()
	a, err := calc.ForEdit(d("18123.45"), d("10"), d("20"))
	require.NoError(t, err)
	b, err := calc.ForEdit(d("18123.45"), d("10"), d("20"))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
