// Package deduction computes Philippine statutory contributions (SSS,
// PhilHealth, Pag-IBIG) and withholding tax for semi-monthly payroll.
//
// Two tax conventions coexist:
//
//   - ForRun taxes the semi-monthly taxable income directly against the
//     bracket table.
//   - ForEdit doubles the semi-monthly taxable income, applies the table,
//     and halves the result.
package deduction

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const amountPlaces = 2

var two = decimal.NewFromInt(2)

// Contributions holds one amount per statutory scheme.
type Contributions struct {
	SSS        decimal.Decimal
	PhilHealth decimal.Decimal
	PagIbig    decimal.Decimal
}

func (c Contributions) Total() decimal.Decimal {
	return c.SSS.Add(c.PhilHealth).Add(c.PagIbig)
}

func (c Contributions) half() Contributions {
	return Contributions{
		SSS:        round(c.SSS.Div(two)),
		PhilHealth: round(c.PhilHealth.Div(two)),
		PagIbig:    round(c.PagIbig.Div(two)),
	}
}

// Breakdown is the semi-monthly result of one calculation.
type Breakdown struct {
	BasicPay            decimal.Decimal
	GrossPay            decimal.Decimal
	MonthlySalary       decimal.Decimal
	Contributions       Contributions
	TaxableIncome       decimal.Decimal
	WithholdingTax      decimal.Decimal
	StatutoryDeductions decimal.Decimal
}

type Calculator struct {
	table Table
}

func NewCalculator(table Table) *Calculator {
	return &Calculator{table: table}
}

func NewDefaultCalculator() *Calculator {
	return NewCalculator(DefaultTable())
}

// MonthlyContributions applies the three schemes to a monthly salary.
func (c *Calculator) MonthlyContributions(monthlySalary decimal.Decimal) (Contributions, error) {
	if monthlySalary.IsNegative() {
		return Contributions{}, fmt.Errorf("%w: %s", ErrNegativeSalary, monthlySalary)
	}
	return Contributions{
		SSS:        round(c.table.SSS.Monthly(monthlySalary)),
		PhilHealth: round(c.table.PhilHealth.Monthly(monthlySalary)),
		PagIbig:    round(c.table.PagIbig.Monthly(monthlySalary)),
	}, nil
}

// SemiMonthlyContributions is MonthlyContributions with every amount halved.
func (c *Calculator) SemiMonthlyContributions(monthlySalary decimal.Decimal) (Contributions, error) {
	monthly, err := c.MonthlyContributions(monthlySalary)
	if err != nil {
		return Contributions{}, err
	}
	return monthly.half(), nil
}

// WithholdingTax applies the bracket table to taxable income. Zero or
// negative income pays no tax.
func (c *Calculator) WithholdingTax(taxable decimal.Decimal) decimal.Decimal {
	if !taxable.IsPositive() {
		return decimal.Zero
	}
	var bracket *Bracket
	for i := range c.table.Brackets {
		if taxable.GreaterThan(c.table.Brackets[i].Over) {
			bracket = &c.table.Brackets[i]
		}
	}
	if bracket == nil {
		return decimal.Zero
	}
	return round(bracket.Base.Add(taxable.Sub(bracket.Over).Mul(bracket.Rate)))
}

// ForRun computes a fresh semi-monthly item from the employee's monthly
// salary: basic pay is half the salary and tax is taken directly from the
// semi-monthly taxable income.
func (c *Calculator) ForRun(monthlySalary decimal.Decimal) (Breakdown, error) {
	shares, err := c.SemiMonthlyContributions(monthlySalary)
	if err != nil {
		return Breakdown{}, err
	}
	basic := round(monthlySalary.Div(two))
	taxable := basic.Sub(shares.Total())
	tax := c.WithholdingTax(taxable)

	return Breakdown{
		BasicPay:            basic,
		GrossPay:            basic,
		MonthlySalary:       monthlySalary,
		Contributions:       shares,
		TaxableIncome:       taxable,
		WithholdingTax:      tax,
		StatutoryDeductions: shares.Total().Add(tax),
	}, nil
}

// ForEdit recomputes an item whose basic pay was changed by hand. The
// implied monthly salary is twice the basic pay; tax is computed on the
// doubled taxable income and halved.
func (c *Calculator) ForEdit(basicPay, overtimePay, allowances decimal.Decimal) (Breakdown, error) {
	if !basicPay.IsPositive() {
		return Breakdown{}, fmt.Errorf("%w: %s", ErrNonPositiveBasicPay, basicPay)
	}
	implied := basicPay.Mul(two)
	shares, err := c.SemiMonthlyContributions(implied)
	if err != nil {
		return Breakdown{}, err
	}
	gross := basicPay.Add(overtimePay).Add(allowances)
	taxable := gross.Sub(shares.Total())
	tax := round(c.WithholdingTax(taxable.Mul(two)).Div(two))

	return Breakdown{
		BasicPay:            basicPay,
		GrossPay:            gross,
		MonthlySalary:       implied,
		Contributions:       shares,
		TaxableIncome:       taxable,
		WithholdingTax:      tax,
		StatutoryDeductions: shares.Total().Add(tax),
	}, nil
}

func round(d decimal.Decimal) decimal.Decimal {
	return d.Round(amountPlaces)
}
