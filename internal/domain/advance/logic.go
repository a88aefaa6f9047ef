package advance

import (
	"time"

	"github.com/shopspring/decimal"
)

// DeriveStatus maps the running repayment total onto the advance status.
// Decimal arithmetic keeps the comparison exact, so full repayment is plain
// totalRepaid >= principal.
func DeriveStatus(principal, totalRepaid decimal.Decimal) Status {
	switch {
	case totalRepaid.Sign() <= 0:
		return StatusUnpaid
	case totalRepaid.GreaterThanOrEqual(principal):
		return StatusRepaid
	default:
		return StatusPartiallyRepaid
	}
}

// ValidateRepayment checks an amount against the advance's outstanding
// balance. An amount above the balance rejects the whole operation; nothing
// is clamped, so the caller can prompt for a corrected figure.
func ValidateRepayment(a Advance, amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if amount.GreaterThan(a.Outstanding()) {
		return ErrOverRepayment
	}
	return nil
}

// LegacyRepayment converts the historical amount_repaid scalar into a
// synthetic repayment entry. Records predating the repayments table carry
// their repaid total as a single column; that scalar is read once, turned
// into this entry, and dropped on the next write.
func LegacyRepayment(advanceID string, amount decimal.Decimal, paidOn, recordedAt time.Time) Repayment {
	return Repayment{
		ID:         "legacy-" + advanceID,
		Amount:     amount,
		PaidOn:     paidOn,
		RecordedAt: recordedAt,
	}
}
