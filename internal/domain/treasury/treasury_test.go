package treasury

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRunningBalance(t *testing.T) {
	ops := []Operation{
		{Direction: DirectionIn, Amount: decimal.NewFromInt(500000)},
		{Direction: DirectionOut, Amount: decimal.NewFromInt(120000)},
		{Direction: DirectionOut, Amount: decimal.NewFromInt(80000)},
		{Direction: DirectionIn, Amount: decimal.NewFromInt(30000)},
	}
	assert.True(t, RunningBalance(ops).Equal(decimal.NewFromInt(330000)))
}

func TestRunningBalanceEmpty(t *testing.T) {
	assert.True(t, RunningBalance(nil).IsZero())
}

func TestRunningBalanceCanGoNegative(t *testing.T) {
	ops := []Operation{
		{Direction: DirectionOut, Amount: decimal.NewFromInt(1000)},
	}
	assert.True(t, RunningBalance(ops).Equal(decimal.NewFromInt(-1000)))
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(NewStore(nil))
	ctx := context.Background()
	now := time.Now()

	_, err := svc.Create(ctx, CreateInput{Account: "vault", Direction: DirectionIn, Amount: decimal.NewFromInt(10), OccurredOn: now})
	assert.ErrorIs(t, err, ErrBadAccount)

	_, err = svc.Create(ctx, CreateInput{Account: AccountCash, Direction: "sideways", Amount: decimal.NewFromInt(10), OccurredOn: now})
	assert.ErrorIs(t, err, ErrBadDirection)

	_, err = svc.Create(ctx, CreateInput{Account: AccountBank, Direction: DirectionIn, Amount: decimal.Zero, OccurredOn: now})
	assert.ErrorIs(t, err, ErrInvalidAmount)
}
