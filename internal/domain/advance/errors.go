package advance

import "errors"

var (
	ErrInvalidAmount = errors.New("amount must be positive")
	ErrOverRepayment = errors.New("repayment exceeds outstanding balance")
	ErrNotFound      = errors.New("advance not found")
	ErrHasRepayments = errors.New("advance already has repayments")
)
