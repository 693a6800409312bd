package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID            string
	EmployeeCode  string
	FullName      string
	MonthlySalary decimal.Decimal
	DailyRate     *decimal.Decimal
	PayFrequency  PayFrequency
	Status        EmploymentStatus
	HireDate      *time.Time
	Version       int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type PayFrequency string

const (
	PayFrequencySemiMonthly PayFrequency = "semi_monthly"
	PayFrequencyMonthly     PayFrequency = "monthly"
)

type EmploymentStatus string

const (
	EmploymentStatusActive     EmploymentStatus = "active"
	EmploymentStatusInactive   EmploymentStatus = "inactive"
	EmploymentStatusResigned   EmploymentStatus = "resigned"
	EmploymentStatusTerminated EmploymentStatus = "terminated"
)

func (e Employee) IsActive() bool {
	return e.Status == EmploymentStatusActive
}
