package billing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func amount(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func TestDeriveStatus(t *testing.T) {
	total := amount(250000)

	assert.Equal(t, StatusUnpaid, DeriveStatus(total, decimal.Zero))
	assert.Equal(t, StatusPartiallyPaid, DeriveStatus(total, amount(100000)))
	assert.Equal(t, StatusPaid, DeriveStatus(total, amount(250000)))
}

func TestValidatePayment(t *testing.T) {
	inv := Invoice{Amount: amount(250000), Payments: []Payment{{Amount: amount(100000)}}}

	assert.ErrorIs(t, ValidatePayment(inv, decimal.Zero), ErrInvalidAmount)
	assert.ErrorIs(t, ValidatePayment(inv, amount(150001)), ErrOverPayment)
	assert.NoError(t, ValidatePayment(inv, amount(150000)))
}

func TestInvoiceBalance(t *testing.T) {
	inv := Invoice{Amount: amount(250000), Payments: []Payment{
		{Amount: amount(100000)},
		{Amount: amount(50000)},
	}}

	assert.True(t, inv.TotalPaid().Equal(amount(150000)))
	assert.True(t, inv.Balance().Equal(amount(100000)))
	assert.Equal(t, StatusPartiallyPaid, inv.Status())
}

func TestRenderPDF(t *testing.T) {
	svc := NewService(NewStore(nil))
	inv := Invoice{Number: "F-2024-007", Amount: amount(250000)}

	data, err := svc.RenderPDF(inv, "SOTRACOM SARL")
	assert.NoError(t, err)
	assert.NotEmpty(t, data)
	assert.Equal(t, "%PDF", string(data[:4]))
}
