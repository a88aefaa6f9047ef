package advance

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusUnpaid          Status = "unpaid"
	StatusPartiallyRepaid Status = "partially_repaid"
	StatusRepaid          Status = "repaid"
)

type Repayment struct {
	ID         string          `json:"id"`
	Amount     decimal.Decimal `json:"amount"`
	PaidOn     time.Time       `json:"paidOn"`
	RecordedAt time.Time       `json:"recordedAt"`
}

type Advance struct {
	ID                    string          `json:"id"`
	EmployeeID            string          `json:"employeeId"`
	Principal             decimal.Decimal `json:"principal"`
	DateRequested         time.Time       `json:"dateRequested"`
	ExpectedRepaymentDate *time.Time      `json:"expectedRepaymentDate,omitempty"`
	Reason                string          `json:"reason,omitempty"`
	Repayments            []Repayment     `json:"repayments"`
	CreatedAt             time.Time       `json:"createdAt"`

	// legacyPending is set when the repayments slice holds a synthetic entry
	// converted from the historical amount_repaid scalar that has not been
	// written back as a real repayment row yet.
	legacyPending bool
}

// TotalRepaid sums the repayments in entry order. It is derived on every
// read and never trusted from a stored column.
func (a Advance) TotalRepaid() decimal.Decimal {
	total := decimal.Zero
	for _, r := range a.Repayments {
		total = total.Add(r.Amount)
	}
	return total
}

// Outstanding returns principal minus total repaid. Repayments are rejected
// before they could exceed the principal, so the result is never negative.
func (a Advance) Outstanding() decimal.Decimal {
	return a.Principal.Sub(a.TotalRepaid())
}

func (a Advance) Status() Status {
	return DeriveStatus(a.Principal, a.TotalRepaid())
}

// View is the wire representation: the advance plus its derived figures.
type View struct {
	Advance
	TotalRepaid decimal.Decimal `json:"totalRepaid"`
	Outstanding decimal.Decimal `json:"outstanding"`
	Status      Status          `json:"status"`
}

func (a Advance) View() View {
	total := a.TotalRepaid()
	return View{
		Advance:     a,
		TotalRepaid: total,
		Outstanding: a.Principal.Sub(total),
		Status:      DeriveStatus(a.Principal, total),
	}
}
