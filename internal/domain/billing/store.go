package billing

import (
	"context"
	"errors"

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

const invoiceColumns = `id, client_id, number, issued_on, due_on, amount, COALESCE(label, ''), created_at`

func (s *Store) scanInvoice(ctx context.Context, row pgx.Row) (Invoice, error) {
	var inv Invoice
	err := row.Scan(&inv.ID, &inv.ClientID, &inv.Number, &inv.IssuedOn, &inv.DueOn,
		&inv.Amount, &inv.Label, &inv.CreatedAt)
	if err != nil {
		return Invoice{}, err
	}
	inv.Payments, err = s.loadPayments(ctx, inv.ID)
	return inv, err
}

func (s *Store) loadPayments(ctx context.Context, invoiceID string) ([]Payment, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, amount, paid_on, COALESCE(method, ''), recorded_at
    FROM invoice_payments
    WHERE invoice_id = $1
    ORDER BY recorded_at ASC, id ASC
  `, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []Payment
	for rows.Next() {
		var p Payment
		if err := rows.Scan(&p.ID, &p.Amount, &p.PaidOn, &p.Method, &p.RecordedAt); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (s *Store) Insert(ctx context.Context, inv Invoice) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO invoices (client_id, number, issued_on, due_on, amount, label)
    VALUES ($1,$2,$3,$4,$5,$6)
    RETURNING id
  `, inv.ClientID, inv.Number, inv.IssuedOn, inv.DueOn, inv.Amount, inv.Label).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) Get(ctx context.Context, id string) (Invoice, error) {
	inv, err := s.scanInvoice(ctx, s.DB.QueryRow(ctx,
		"SELECT "+invoiceColumns+" FROM invoices WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Invoice{}, ErrNotFound
	}
	return inv, err
}

func (s *Store) List(ctx context.Context, clientID string) ([]Invoice, error) {
	query := "SELECT " + invoiceColumns + " FROM invoices"
	args := []any{}
	if clientID != "" {
		query += " WHERE client_id = $1"
		args = append(args, clientID)
	}
	query += " ORDER BY issued_on DESC"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	var heads []Invoice
	for rows.Next() {
		var inv Invoice
		if err := rows.Scan(&inv.ID, &inv.ClientID, &inv.Number, &inv.IssuedOn, &inv.DueOn,
			&inv.Amount, &inv.Label, &inv.CreatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		heads = append(heads, inv)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range heads {
		heads[i].Payments, err = s.loadPayments(ctx, heads[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return heads, nil
}

func (s *Store) AppendPayment(ctx context.Context, invoiceID string, p Payment) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO invoice_payments (id, invoice_id, amount, paid_on, method, recorded_at)
    VALUES ($1,$2,$3,$4,$5,$6)
  `, p.ID, invoiceID, p.Amount, p.PaidOn, p.Method, p.RecordedAt)
	return err
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM invoices WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// OutstandingTotal sums the open balance of every invoice, for the
// dashboard.
func (s *Store) OutstandingTotal(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := s.DB.QueryRow(ctx, `
    SELECT COALESCE(SUM(i.amount - COALESCE(p.paid, 0)), 0)
    FROM invoices i
    LEFT JOIN (
      SELECT invoice_id, SUM(amount) AS paid
      FROM invoice_payments
      GROUP BY invoice_id
    ) p ON p.invoice_id = i.id
  `).Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}
