package advance

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amount(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func TestDeriveStatus(t *testing.T) {
	principal := amount(100000)

	assert.Equal(t, StatusUnpaid, DeriveStatus(principal, decimal.Zero))
	assert.Equal(t, StatusPartiallyRepaid, DeriveStatus(principal, amount(40000)))
	assert.Equal(t, StatusRepaid, DeriveStatus(principal, amount(100000)))
	assert.Equal(t, StatusRepaid, DeriveStatus(principal, amount(100001)))
}

func TestDeriveStatusFractionalAmounts(t *testing.T) {
	principal := decimal.RequireFromString("150.50")

	assert.Equal(t, StatusPartiallyRepaid, DeriveStatus(principal, decimal.RequireFromString("150.49")))
	assert.Equal(t, StatusRepaid, DeriveStatus(principal, decimal.RequireFromString("150.50")))
}

func TestValidateRepayment(t *testing.T) {
	adv := Advance{Principal: amount(100000)}

	assert.ErrorIs(t, ValidateRepayment(adv, decimal.Zero), ErrInvalidAmount)
	assert.ErrorIs(t, ValidateRepayment(adv, amount(-5)), ErrInvalidAmount)
	assert.ErrorIs(t, ValidateRepayment(adv, amount(100001)), ErrOverRepayment)
	assert.NoError(t, ValidateRepayment(adv, amount(100000)))
}

// Mirrors the office workflow: a 100 000 advance, a 40 000 repayment, a
// rejected 70 000 attempt, then the closing 60 000.
func TestRepaymentLifecycle(t *testing.T) {
	adv := Advance{ID: "adv-1", EmployeeID: "emp-1", Principal: amount(100000)}
	require.Equal(t, StatusUnpaid, adv.Status())
	require.True(t, adv.Outstanding().Equal(amount(100000)))

	require.NoError(t, ValidateRepayment(adv, amount(40000)))
	adv.Repayments = append(adv.Repayments, Repayment{ID: "r1", Amount: amount(40000)})
	assert.True(t, adv.TotalRepaid().Equal(amount(40000)))
	assert.Equal(t, StatusPartiallyRepaid, adv.Status())
	assert.True(t, adv.Outstanding().Equal(amount(60000)))

	// 70 000 exceeds the 60 000 outstanding: rejected outright, nothing recorded.
	assert.ErrorIs(t, ValidateRepayment(adv, amount(70000)), ErrOverRepayment)
	assert.Len(t, adv.Repayments, 1)
	assert.True(t, adv.TotalRepaid().Equal(amount(40000)))

	require.NoError(t, ValidateRepayment(adv, amount(60000)))
	adv.Repayments = append(adv.Repayments, Repayment{ID: "r2", Amount: amount(60000)})
	assert.Equal(t, StatusRepaid, adv.Status())
	assert.True(t, adv.Outstanding().IsZero())
}

func TestLegacyRepayment(t *testing.T) {
	paidOn := time.Date(2023, time.May, 2, 0, 0, 0, 0, time.UTC)
	recordedAt := time.Date(2023, time.May, 2, 9, 30, 0, 0, time.UTC)

	rep := LegacyRepayment("adv-9", amount(25000), paidOn, recordedAt)
	assert.Equal(t, "legacy-adv-9", rep.ID)
	assert.True(t, rep.Amount.Equal(amount(25000)))

	adv := Advance{Principal: amount(50000), Repayments: []Repayment{rep}}
	assert.Equal(t, StatusPartiallyRepaid, adv.Status())
	assert.True(t, adv.Outstanding().Equal(amount(25000)))
}

func TestViewCarriesDerivedFigures(t *testing.T) {
	adv := Advance{
		Principal:  amount(80000),
		Repayments: []Repayment{{ID: "r1", Amount: amount(30000)}},
	}
	view := adv.View()
	assert.True(t, view.TotalRepaid.Equal(amount(30000)))
	assert.True(t, view.Outstanding.Equal(amount(50000)))
	assert.Equal(t, StatusPartiallyRepaid, view.Status)
}
