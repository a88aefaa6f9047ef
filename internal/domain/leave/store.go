package leave

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/komla9992-max/gestion-sub000/internal/platform/db"
)

type Store struct {
	DB db.Querier
}

func NewStore(q db.Querier) *Store {
	return &Store{DB: q}
}

const recordColumns = `id, employee_id, start_date, end_date, category, status,
       COALESCE(reason, ''), COALESCE(comment, ''), duration_days,
       COALESCE(decided_by, ''), decided_at, created_at`

func scanRecord(row pgx.Row) (Record, error) {
	var rec Record
	err := row.Scan(&rec.ID, &rec.EmployeeID, &rec.StartDate, &rec.EndDate, &rec.Category,
		&rec.Status, &rec.Reason, &rec.Comment, &rec.DurationDays,
		&rec.DecidedBy, &rec.DecidedAt, &rec.CreatedAt)
	return rec, err
}

func collectRecords(rows pgx.Rows) ([]Record, error) {
	defer rows.Close()
	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *Store) Insert(ctx context.Context, rec Record) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO leave_requests (employee_id, start_date, end_date, category, status, reason, duration_days)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    RETURNING id
  `, rec.EmployeeID, rec.StartDate, rec.EndDate, rec.Category, rec.Status, rec.Reason, rec.DurationDays).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) Get(ctx context.Context, id string) (Record, error) {
	rec, err := scanRecord(s.DB.QueryRow(ctx,
		"SELECT "+recordColumns+" FROM leave_requests WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	return rec, err
}

// List returns records newest first, optionally restricted to one employee.
func (s *Store) List(ctx context.Context, employeeID string) ([]Record, error) {
	query := "SELECT " + recordColumns + " FROM leave_requests"
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
	return collectRecords(rows)
}

// ListByEmployee returns every record for one employee, for read-side
// balance computation.
func (s *Store) ListByEmployee(ctx context.Context, employeeID string) ([]Record, error) {
	rows, err := s.DB.Query(ctx,
		"SELECT "+recordColumns+" FROM leave_requests WHERE employee_id = $1", employeeID)
	if err != nil {
		return nil, err
	}
	return collectRecords(rows)
}

// ListSweepCandidates returns dated records in a status the recompute pass
// can still move forward.
func (s *Store) ListSweepCandidates(ctx context.Context) ([]Record, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+recordColumns+`
    FROM leave_requests
    WHERE status IN ($1, $2) AND start_date IS NOT NULL AND end_date IS NOT NULL
  `, StatusApproved, StatusInProgress)
	if err != nil {
		return nil, err
	}
	return collectRecords(rows)
}

// Upcoming returns requested or approved records starting within
// [today, today+withinDays], soonest first.
func (s *Store) Upcoming(ctx context.Context, today time.Time, withinDays int) ([]Record, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+recordColumns+`
    FROM leave_requests
    WHERE status IN ($1, $2) AND start_date BETWEEN $3 AND $4
    ORDER BY start_date ASC
  `, StatusApproved, StatusRequested, today, today.AddDate(0, 0, withinDays))
	if err != nil {
		return nil, err
	}
	return collectRecords(rows)
}

func (s *Store) UpdateDetails(ctx context.Context, rec Record) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE leave_requests
    SET start_date = $2, end_date = $3, category = $4, reason = $5, comment = $6, duration_days = $7
    WHERE id = $1
  `, rec.ID, rec.StartDate, rec.EndDate, rec.Category, rec.Reason, rec.Comment, rec.DurationDays)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) UpdateStatus(ctx context.Context, id string, status Status) error {
	tag, err := s.DB.Exec(ctx, "UPDATE leave_requests SET status = $2 WHERE id = $1", id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) UpdateDecision(ctx context.Context, id string, status Status, decidedBy string, decidedAt time.Time) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE leave_requests
    SET status = $2, decided_by = $3, decided_at = $4
    WHERE id = $1
  `, id, status, decidedBy, decidedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM leave_requests WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
