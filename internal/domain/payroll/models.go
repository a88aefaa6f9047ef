package payroll

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound      = errors.New("payslip not found")
	ErrInvalidAmount = errors.New("amount must not be negative")
)

// Payslip is an issued document: its figures are snapshotted at creation,
// unlike the ledgers whose totals are derived on every read.
type Payslip struct {
	ID               string          `json:"id"`
	EmployeeID       string          `json:"employeeId"`
	Month            time.Time       `json:"month"`
	BaseSalary       decimal.Decimal `json:"baseSalary"`
	Bonus            decimal.Decimal `json:"bonus"`
	AdvanceDeduction decimal.Decimal `json:"advanceDeduction"`
	OtherDeductions  decimal.Decimal `json:"otherDeductions"`
	Gross            decimal.Decimal `json:"gross"`
	Deductions       decimal.Decimal `json:"deductions"`
	Net              decimal.Decimal `json:"net"`
	CreatedAt        time.Time       `json:"createdAt"`
}
