package billing

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount = errors.New("amount must be positive")
	ErrOverPayment   = errors.New("payment exceeds invoice balance")
	ErrNotFound      = errors.New("invoice not found")
)

type Status string

const (
	StatusUnpaid        Status = "unpaid"
	StatusPartiallyPaid Status = "partially_paid"
	StatusPaid          Status = "paid"
)

type Payment struct {
	ID         string          `json:"id"`
	Amount     decimal.Decimal `json:"amount"`
	PaidOn     time.Time       `json:"paidOn"`
	Method     string          `json:"method,omitempty"`
	RecordedAt time.Time       `json:"recordedAt"`
}

type Invoice struct {
	ID        string          `json:"id"`
	ClientID  string          `json:"clientId"`
	Number    string          `json:"number"`
	IssuedOn  time.Time       `json:"issuedOn"`
	DueOn     *time.Time      `json:"dueOn,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
	Label     string          `json:"label,omitempty"`
	Payments  []Payment       `json:"payments"`
	CreatedAt time.Time       `json:"createdAt"`
}

// TotalPaid and Balance are derived on every read, mirroring the advance
// ledger: the stored rows are the only source of truth.
func (i Invoice) TotalPaid() decimal.Decimal {
	total := decimal.Zero
	for _, p := range i.Payments {
		total = total.Add(p.Amount)
	}
	return total
}

func (i Invoice) Balance() decimal.Decimal {
	return i.Amount.Sub(i.TotalPaid())
}

func (i Invoice) Status() Status {
	return DeriveStatus(i.Amount, i.TotalPaid())
}

func DeriveStatus(amount, totalPaid decimal.Decimal) Status {
	switch {
	case totalPaid.Sign() <= 0:
		return StatusUnpaid
	case totalPaid.GreaterThanOrEqual(amount):
		return StatusPaid
	default:
		return StatusPartiallyPaid
	}
}

// ValidatePayment rejects non-positive amounts and payments exceeding the
// open balance, leaving the invoice untouched.
func ValidatePayment(i Invoice, amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if amount.GreaterThan(i.Balance()) {
		return ErrOverPayment
	}
	return nil
}

type View struct {
	Invoice
	TotalPaid decimal.Decimal `json:"totalPaid"`
	Balance   decimal.Decimal `json:"balance"`
	Status    Status          `json:"status"`
}

func (i Invoice) View() View {
	total := i.TotalPaid()
	return View{
		Invoice:   i,
		TotalPaid: total,
		Balance:   i.Amount.Sub(total),
		Status:    DeriveStatus(i.Amount, total),
	}
}
