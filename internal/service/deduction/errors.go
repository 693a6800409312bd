package deduction

import (
	"fmt"

	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/apperror"
)

var (
	ErrNegativeSalary      = fmt.Errorf("monthly salary must not be negative: %w", apperror.ErrValidation)
	ErrNonPositiveBasicPay = fmt.Errorf("basic pay must be positive: %w", apperror.ErrValidation)
)
