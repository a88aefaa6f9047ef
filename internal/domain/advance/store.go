package advance

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/komla9992-max/gestion-sub000/internal/platform/db"
)

type Store struct {
	DB db.Querier
}

func NewStore(q db.Querier) *Store {
	return &Store{DB: q}
}

const advanceColumns = `id, employee_id, principal, date_requested, expected_repayment_date,
       COALESCE(reason, ''), COALESCE(amount_repaid, 0), created_at`

func (s *Store) scanAdvance(ctx context.Context, row pgx.Row) (Advance, error) {
	var adv Advance
	var legacy decimal.Decimal
	err := row.Scan(&adv.ID, &adv.EmployeeID, &adv.Principal, &adv.DateRequested,
		&adv.ExpectedRepaymentDate, &adv.Reason, &legacy, &adv.CreatedAt)
	if err != nil {
		return Advance{}, err
	}

	adv.Repayments, err = s.loadRepayments(ctx, adv.ID)
	if err != nil {
		return Advance{}, err
	}

	// One-time conversion of the historical repaid scalar: surfaced as a
	// synthetic entry until the next write materializes it.
	if len(adv.Repayments) == 0 && legacy.Sign() > 0 {
		adv.Repayments = []Repayment{LegacyRepayment(adv.ID, legacy, adv.DateRequested, adv.CreatedAt)}
		adv.legacyPending = true
	}
	return adv, nil
}

func (s *Store) loadRepayments(ctx context.Context, advanceID string) ([]Repayment, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, amount, paid_on, recorded_at
    FROM advance_repayments
    WHERE advance_id = $1
    ORDER BY recorded_at ASC, id ASC
  `, advanceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var repayments []Repayment
	for rows.Next() {
		var r Repayment
		if err := rows.Scan(&r.ID, &r.Amount, &r.PaidOn, &r.RecordedAt); err != nil {
			return nil, err
		}
		repayments = append(repayments, r)
	}
	return repayments, rows.Err()
}

func (s *Store) Insert(ctx context.Context, adv Advance) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO advances (employee_id, principal, date_requested, expected_repayment_date, reason)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING id
  `, adv.EmployeeID, adv.Principal, adv.DateRequested, adv.ExpectedRepaymentDate, adv.Reason).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) Get(ctx context.Context, id string) (Advance, error) {
	adv, err := s.scanAdvance(ctx, s.DB.QueryRow(ctx,
		"SELECT "+advanceColumns+" FROM advances WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Advance{}, ErrNotFound
	}
	return adv, err
}

func (s *Store) List(ctx context.Context, employeeID string) ([]Advance, error) {
	query := "SELECT " + advanceColumns + " FROM advances"
	args := []any{}
	if employeeID != "" {
		query += " WHERE employee_id = $1"
		args = append(args, employeeID)
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	type advRow struct {
		adv    Advance
		legacy decimal.Decimal
	}
	var heads []advRow
	for rows.Next() {
		var h advRow
		if err := rows.Scan(&h.adv.ID, &h.adv.EmployeeID, &h.adv.Principal, &h.adv.DateRequested,
			&h.adv.ExpectedRepaymentDate, &h.adv.Reason, &h.legacy, &h.adv.CreatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		heads = append(heads, h)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	advances := make([]Advance, 0, len(heads))
	for _, h := range heads {
		adv := h.adv
		adv.Repayments, err = s.loadRepayments(ctx, adv.ID)
		if err != nil {
			return nil, err
		}
		if len(adv.Repayments) == 0 && h.legacy.Sign() > 0 {
			adv.Repayments = []Repayment{LegacyRepayment(adv.ID, h.legacy, adv.DateRequested, adv.CreatedAt)}
			adv.legacyPending = true
		}
		advances = append(advances, adv)
	}
	return advances, nil
}

// AppendRepayment writes a repayment entry. When the advance still carries a
// pending legacy conversion, the synthetic entry is materialized and the
// scalar cleared in the same transaction, so the scalar never coexists with
// repayment rows.
func (s *Store) AppendRepayment(ctx context.Context, adv Advance, rep Repayment) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if adv.legacyPending {
		for _, r := range adv.Repayments {
			if _, err := tx.Exec(ctx, `
        INSERT INTO advance_repayments (id, advance_id, amount, paid_on, recorded_at)
        VALUES ($1,$2,$3,$4,$5)
      `, r.ID, adv.ID, r.Amount, r.PaidOn, r.RecordedAt); err != nil {
				return err
			}
		}
		if _, err := tx.Exec(ctx, "UPDATE advances SET amount_repaid = NULL WHERE id = $1", adv.ID); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(ctx, `
    INSERT INTO advance_repayments (id, advance_id, amount, paid_on, recorded_at)
    VALUES ($1,$2,$3,$4,$5)
  `, rep.ID, adv.ID, rep.Amount, rep.PaidOn, rep.RecordedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (s *Store) UpdateTerms(ctx context.Context, adv Advance) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE advances
    SET principal = $2, date_requested = $3, expected_repayment_date = $4, reason = $5
    WHERE id = $1
  `, adv.ID, adv.Principal, adv.DateRequested, adv.ExpectedRepaymentDate, adv.Reason)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM advances WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SumRepaidInRange totals an employee's repayments dated within [from, to],
// used by payroll to deduct the month's advance repayments. Legacy repaid
// scalars that were never materialized count too, dated like their synthetic
// entry on date_requested.
func (s *Store) SumRepaidInRange(ctx context.Context, employeeID string, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := s.DB.QueryRow(ctx, `
    SELECT COALESCE((
        SELECT SUM(r.amount)
        FROM advance_repayments r
        JOIN advances a ON a.id = r.advance_id
        WHERE a.employee_id = $1 AND r.paid_on BETWEEN $2 AND $3
      ), 0)
      + COALESCE((
        SELECT SUM(a.amount_repaid)
        FROM advances a
        WHERE a.employee_id = $1
          AND a.amount_repaid > 0
          AND a.date_requested BETWEEN $2 AND $3
          AND NOT EXISTS (SELECT 1 FROM advance_repayments r WHERE r.advance_id = a.id)
      ), 0)
  `, employeeID, from, to).Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}
