package reports

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/komla9992-max/gestion-sub000/internal/domain/billing"
)

func TestDashboard(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	today := time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC)
	count := func(n int) *pgxmock.Rows {
		return pgxmock.NewRows([]string{"count"}).AddRow(n)
	}
	sum := func(d decimal.Decimal) *pgxmock.Rows {
		return pgxmock.NewRows([]string{"sum"}).AddRow(d)
	}

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM employees`).WillReturnRows(count(12))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM clients`).WillReturnRows(count(4))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM contracts`).WithArgs(today).WillReturnRows(count(3))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM leave_requests WHERE status IN`).WithArgs(today).WillReturnRows(count(2))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM leave_requests WHERE status = 'requested'`).WillReturnRows(count(5))
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(i\.amount`).WillReturnRows(sum(decimal.NewFromInt(250000)))
	// The advance aggregate sums the stored principal column.
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(a\.principal\), 0\)`).WillReturnRows(sum(decimal.NewFromInt(60000)))
	mock.ExpectQuery(`FROM treasury_operations`).WithArgs("cash").WillReturnRows(sum(decimal.NewFromInt(80000)))
	mock.ExpectQuery(`FROM treasury_operations`).WithArgs("bank").WillReturnRows(sum(decimal.NewFromInt(-15000)))

	svc := NewService(mock, billing.NewStore(mock))
	d, err := svc.Dashboard(context.Background(), today)
	require.NoError(t, err)

	assert.Equal(t, 12, d.EmployeeCount)
	assert.Equal(t, 4, d.ClientCount)
	assert.Equal(t, 3, d.ActiveContracts)
	assert.Equal(t, 2, d.OnLeaveToday)
	assert.Equal(t, 5, d.PendingLeaves)
	assert.True(t, d.UnpaidInvoiceTotal.Equal(decimal.NewFromInt(250000)))
	assert.True(t, d.OutstandingAdvances.Equal(decimal.NewFromInt(60000)))
	assert.True(t, d.CashBalance.Equal(decimal.NewFromInt(80000)))
	assert.True(t, d.BankBalance.Equal(decimal.NewFromInt(-15000)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDashboardOutstandingNeverNegative(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	today := time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM employees`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM clients`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM contracts`).WithArgs(today).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM leave_requests WHERE status IN`).WithArgs(today).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM leave_requests WHERE status = 'requested'`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(i\.amount`).
		WillReturnRows(pgxmock.NewRows([]string{"sum"}).AddRow(decimal.Zero))
	// Over-repaid legacy data can drive the raw difference below zero.
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(a\.principal\), 0\)`).
		WillReturnRows(pgxmock.NewRows([]string{"sum"}).AddRow(decimal.NewFromInt(-500)))
	for _, account := range []string{"cash", "bank"} {
		mock.ExpectQuery(`FROM treasury_operations`).WithArgs(account).
			WillReturnRows(pgxmock.NewRows([]string{"sum"}).AddRow(decimal.Zero))
	}

	svc := NewService(mock, billing.NewStore(mock))
	d, err := svc.Dashboard(context.Background(), today)
	require.NoError(t, err)
	assert.True(t, d.OutstandingAdvances.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}
