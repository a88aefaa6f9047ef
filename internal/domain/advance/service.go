package advance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

type CreateInput struct {
	EmployeeID            string
	Principal             decimal.Decimal
	DateRequested         time.Time
	ExpectedRepaymentDate *time.Time
	Reason                string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Advance, error) {
	if in.Principal.Sign() <= 0 {
		return Advance{}, ErrInvalidAmount
	}
	id, err := s.store.Insert(ctx, Advance{
		EmployeeID:            in.EmployeeID,
		Principal:             in.Principal,
		DateRequested:         in.DateRequested,
		ExpectedRepaymentDate: in.ExpectedRepaymentDate,
		Reason:                in.Reason,
	})
	if err != nil {
		return Advance{}, err
	}
	return s.store.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id string) (Advance, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, employeeID string) ([]Advance, error) {
	return s.store.List(ctx, employeeID)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// RecordRepayment appends a repayment after validating it against the
// outstanding balance. The advance is untouched when validation fails.
func (s *Service) RecordRepayment(ctx context.Context, id string, amount decimal.Decimal, paidOn time.Time) (Advance, error) {
	adv, err := s.store.Get(ctx, id)
	if err != nil {
		return Advance{}, err
	}
	if err := ValidateRepayment(adv, amount); err != nil {
		return Advance{}, err
	}

	rep := Repayment{
		ID:         uuid.NewString(),
		Amount:     amount,
		PaidOn:     paidOn,
		RecordedAt: time.Now().UTC(),
	}
	if err := s.store.AppendRepayment(ctx, adv, rep); err != nil {
		return Advance{}, err
	}
	return s.store.Get(ctx, id)
}

// Outstanding returns the not-yet-repaid part of the advance.
func (s *Service) Outstanding(ctx context.Context, id string) (decimal.Decimal, error) {
	adv, err := s.store.Get(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}
	return adv.Outstanding(), nil
}

type TermsInput struct {
	Principal             *decimal.Decimal
	DateRequested         *time.Time
	ExpectedRepaymentDate *time.Time
	Reason                *string
}

// EditTerms changes principal, dates or reason. Only advances without
// recorded repayments can be edited, and the principal can never shrink
// below what has already been repaid.
func (s *Service) EditTerms(ctx context.Context, id string, in TermsInput) (Advance, error) {
	adv, err := s.store.Get(ctx, id)
	if err != nil {
		return Advance{}, err
	}
	if len(adv.Repayments) > 0 {
		return Advance{}, ErrHasRepayments
	}

	if in.Principal != nil {
		if in.Principal.Sign() <= 0 {
			return Advance{}, ErrInvalidAmount
		}
		if in.Principal.LessThan(adv.TotalRepaid()) {
			return Advance{}, ErrInvalidAmount
		}
		adv.Principal = *in.Principal
	}
	if in.DateRequested != nil {
		adv.DateRequested = *in.DateRequested
	}
	if in.ExpectedRepaymentDate != nil {
		adv.ExpectedRepaymentDate = in.ExpectedRepaymentDate
	}
	if in.Reason != nil {
		adv.Reason = *in.Reason
	}

	if err := s.store.UpdateTerms(ctx, adv); err != nil {
		return Advance{}, err
	}
	return s.store.Get(ctx, id)
}

// RepaidInMonth totals an employee's repayments within the month containing
// the given date.
func (s *Service) RepaidInMonth(ctx context.Context, employeeID string, month time.Time) (decimal.Decimal, error) {
	from := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)
	return s.store.SumRepaidInRange(ctx, employeeID, from, to)
}
