package reports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/komla9992-max/gestion-sub000/internal/domain/billing"
	"github.com/komla9992-max/gestion-sub000/internal/platform/db"
	"github.com/komla9992-max/gestion-sub000/internal/timeutil"
)

// Dashboard is the front-page summary. Every figure is computed on
// read; nothing here is stored.
type Dashboard struct {
	EmployeeCount       int             `json:"employeeCount"`
	ClientCount         int             `json:"clientCount"`
	ActiveContracts     int             `json:"activeContracts"`
	UnpaidInvoiceTotal  decimal.Decimal `json:"unpaidInvoiceTotal"`
	OutstandingAdvances decimal.Decimal `json:"outstandingAdvances"`
	OnLeaveToday        int             `json:"onLeaveToday"`
	PendingLeaves       int             `json:"pendingLeaves"`
	CashBalance         decimal.Decimal `json:"cashBalance"`
	BankBalance         decimal.Decimal `json:"bankBalance"`
}

type Service struct {
	db      db.Querier
	billing *billing.Store
}

func NewService(q db.Querier, billingStore *billing.Store) *Service {
	return &Service{db: q, billing: billingStore}
}

func (s *Service) Dashboard(ctx context.Context, today time.Time) (Dashboard, error) {
	var d Dashboard
	today = timeutil.DateOnly(today)

	counts := []struct {
		query string
		args  []any
		dest  *int
	}{
		{"SELECT COUNT(*) FROM employees", nil, &d.EmployeeCount},
		{"SELECT COUNT(*) FROM clients", nil, &d.ClientCount},
		{"SELECT COUNT(*) FROM contracts WHERE end_date IS NULL OR end_date >= $1", []any{today}, &d.ActiveContracts},
		{"SELECT COUNT(*) FROM leave_requests WHERE status IN ('approved','in_progress') AND start_date <= $1 AND end_date >= $1", []any{today}, &d.OnLeaveToday},
		{"SELECT COUNT(*) FROM leave_requests WHERE status = 'requested'", nil, &d.PendingLeaves},
	}
	for _, c := range counts {
		if err := s.db.QueryRow(ctx, c.query, c.args...).Scan(c.dest); err != nil {
			return Dashboard{}, err
		}
	}

	unpaid, err := s.billing.OutstandingTotal(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	d.UnpaidInvoiceTotal = unpaid

	// Outstanding principal minus everything repaid, legacy scalar
	// included for rows whose repayments were never materialized.
	err = s.db.QueryRow(ctx, `
    SELECT COALESCE(SUM(a.principal), 0)
         - COALESCE(SUM(COALESCE(a.amount_repaid, 0)), 0)
         - COALESCE((SELECT SUM(r.amount) FROM advance_repayments r), 0)
    FROM advances a
  `).Scan(&d.OutstandingAdvances)
	if err != nil {
		return Dashboard{}, err
	}
	if d.OutstandingAdvances.Sign() < 0 {
		d.OutstandingAdvances = decimal.Zero
	}

	balances := []struct {
		account string
		dest    *decimal.Decimal
	}{
		{"cash", &d.CashBalance},
		{"bank", &d.BankBalance},
	}
	for _, b := range balances {
		err := s.db.QueryRow(ctx, `
      SELECT COALESCE(SUM(CASE WHEN direction = 'in' THEN amount ELSE -amount END), 0)
      FROM treasury_operations
      WHERE account = $1
    `, b.account).Scan(b.dest)
		if err != nil {
			return Dashboard{}, err
		}
	}

	return d, nil
}
