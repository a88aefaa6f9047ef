package payroll

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestComputePayslip(t *testing.T) {
	gross, deductions, net := ComputePayslip(
		decimal.NewFromInt(150000), // base
		decimal.NewFromInt(20000),  // bonus
		decimal.NewFromInt(30000),  // advance repayments this month
		decimal.NewFromInt(5000),   // other withholdings
	)

	assert.True(t, gross.Equal(decimal.NewFromInt(170000)))
	assert.True(t, deductions.Equal(decimal.NewFromInt(35000)))
	assert.True(t, net.Equal(decimal.NewFromInt(135000)))
}

func TestComputePayslipNoDeductions(t *testing.T) {
	gross, deductions, net := ComputePayslip(decimal.NewFromInt(100000), decimal.Zero, decimal.Zero, decimal.Zero)

	assert.True(t, gross.Equal(decimal.NewFromInt(100000)))
	assert.True(t, deductions.IsZero())
	assert.True(t, net.Equal(gross))
}

func TestComputePayslipDeductionsExceedGross(t *testing.T) {
	_, _, net := ComputePayslip(decimal.NewFromInt(50000), decimal.Zero, decimal.NewFromInt(60000), decimal.Zero)
	// Net can go negative; the caller decides whether to allow issuing it.
	assert.True(t, net.Equal(decimal.NewFromInt(-10000)))
}
