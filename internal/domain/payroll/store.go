package payroll

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/komla9992-max/gestion-sub000/internal/platform/db"
)

type Store struct {
	DB db.Querier
}

func NewStore(q db.Querier) *Store {
	return &Store{DB: q}
}

const payslipColumns = `id, employee_id, month, base_salary, bonus, advance_deduction,
       other_deductions, gross, deductions, net, created_at`

func scanPayslip(row pgx.Row) (Payslip, error) {
	var p Payslip
	err := row.Scan(&p.ID, &p.EmployeeID, &p.Month, &p.BaseSalary, &p.Bonus,
		&p.AdvanceDeduction, &p.OtherDeductions, &p.Gross, &p.Deductions, &p.Net, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Payslip{}, ErrNotFound
	}
	return p, err
}

func (s *Store) Insert(ctx context.Context, p Payslip) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO payslips (employee_id, month, base_salary, bonus, advance_deduction, other_deductions, gross, deductions, net)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
    RETURNING id
  `, p.EmployeeID, p.Month, p.BaseSalary, p.Bonus, p.AdvanceDeduction, p.OtherDeductions, p.Gross, p.Deductions, p.Net).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) Get(ctx context.Context, id string) (Payslip, error) {
	return scanPayslip(s.DB.QueryRow(ctx, "SELECT "+payslipColumns+" FROM payslips WHERE id = $1", id))
}

func (s *Store) List(ctx context.Context, employeeID string) ([]Payslip, error) {
	query := "SELECT " + payslipColumns + " FROM payslips"
	args := []any{}
	if employeeID != "" {
		query += " WHERE employee_id = $1"
		args = append(args, employeeID)
	}
	query += " ORDER BY month DESC, created_at DESC"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slips []Payslip
	for rows.Next() {
		p, err := scanPayslip(rows)
		if err != nil {
			return nil, err
		}
		slips = append(slips, p)
	}
	return slips, rows.Err()
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM payslips WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
