package employee

import "github.com/shopspring/decimal"

// SalaryChange reports a committed change of an employee's monthly salary.
type SalaryChange struct {
	EmployeeID     string          `json:"employee_id"`
	PreviousSalary decimal.Decimal `json:"previous_salary"`
	NewSalary      decimal.Decimal `json:"new_salary"`
	Delta          decimal.Decimal `json:"delta"`
}

func NewSalaryChange(id string, previous, next decimal.Decimal) SalaryChange {
	return SalaryChange{
		EmployeeID:     id,
		PreviousSalary: previous,
		NewSalary:      next,
		Delta:          next.Sub(previous),
	}
}
