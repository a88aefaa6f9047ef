package advance

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pashagolub/pgxmock/v3"
)

func TestCreateRejectsNonPositivePrincipal(t *testing.T) {
	svc := NewService(NewStore(nil))

	for _, principal := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-100)} {
		_, err := svc.Create(context.Background(), CreateInput{
			EmployeeID:    "emp-1",
			Principal:     principal,
			DateRequested: time.Now(),
		})
		assert.ErrorIs(t, err, ErrInvalidAmount)
	}
}

func TestStoreDeleteNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM advances").
		WithArgs("missing").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	store := NewStore(mock)
	assert.ErrorIs(t, store.Delete(context.Background(), "missing"), ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreSumRepaidInRange(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	from := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC)

	// Materialized repayment rows and un-materialized legacy scalars are
	// summed together, so legacy advances deduct from payroll too.
	mock.ExpectQuery(`SUM\(r\.amount\)[\s\S]+SUM\(a\.amount_repaid\)[\s\S]+NOT EXISTS`).
		WithArgs("emp-1", from, to).
		WillReturnRows(pgxmock.NewRows([]string{"sum"}).AddRow(decimal.NewFromInt(15000)))

	store := NewStore(mock)
	total, err := store.SumRepaidInRange(context.Background(), "emp-1", from, to)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(15000)))
	assert.NoError(t, mock.ExpectationsWereMet())
}
