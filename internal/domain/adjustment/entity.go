package adjustment

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type AdjustmentType string

const (
	AdjustmentTypeIncrease   AdjustmentType = "increase"
	AdjustmentTypeDecrease   AdjustmentType = "decrease"
	AdjustmentTypeBonus      AdjustmentType = "bonus"
	AdjustmentTypeDeduction  AdjustmentType = "deduction"
	AdjustmentTypeAdjustment AdjustmentType = "adjustment"
)

func ParseAdjustmentType(s string) (AdjustmentType, error) {
	switch t := AdjustmentType(s); t {
	case AdjustmentTypeIncrease, AdjustmentTypeDecrease, AdjustmentTypeBonus,
		AdjustmentTypeDeduction, AdjustmentTypeAdjustment:
		return t, nil
	default:
		return "", ErrInvalidAdjustmentType
	}
}

// ApplyTo returns the monthly salary that results from applying an
// adjustment of this type and amount to current. Reductions never take
// the salary below zero.
func (t AdjustmentType) ApplyTo(current, amount decimal.Decimal) (decimal.Decimal, error) {
	switch t {
	case AdjustmentTypeIncrease, AdjustmentTypeBonus, AdjustmentTypeAdjustment:
		return current.Add(amount), nil
	case AdjustmentTypeDecrease, AdjustmentTypeDeduction:
		return decimal.Max(decimal.Zero, current.Sub(amount)), nil
	default:
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAdjustmentType, t)
	}
}

type AdjustmentStatus string

const (
	AdjustmentStatusPending  AdjustmentStatus = "pending"
	AdjustmentStatusApproved AdjustmentStatus = "approved"
	AdjustmentStatusRejected AdjustmentStatus = "rejected"
)

func (s AdjustmentStatus) IsTerminal() (bool, error) {
	switch s {
	case AdjustmentStatusPending:
		return false, nil
	case AdjustmentStatusApproved, AdjustmentStatusRejected:
		return true, nil
	default:
		return false, fmt.Errorf("unknown salary adjustment status %q", s)
	}
}

type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

func (d Decision) ResultingStatus() (AdjustmentStatus, error) {
	switch d {
	case DecisionApprove:
		return AdjustmentStatusApproved, nil
	case DecisionReject:
		return AdjustmentStatusRejected, nil
	default:
		return "", ErrInvalidDecision
	}
}

type SalaryAdjustment struct {
	ID            string
	EmployeeID    string
	Type          AdjustmentType
	Amount        decimal.Decimal
	Reason        string
	EffectiveDate time.Time
	Status        AdjustmentStatus
	RequestedBy   *string
	ApprovedBy    *string
	ApprovedAt    *time.Time
	Version       int
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Joined fields
	EmployeeName *string
}
