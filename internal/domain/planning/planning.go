package planning

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/komla9992-max/gestion-sub000/internal/platform/db"
	"github.com/komla9992-max/gestion-sub000/internal/timeutil"
)

var (
	ErrInvalidRange = errors.New("end date before start date")
	ErrNotFound     = errors.New("assignment not found")
)

// Assignment posts an employee to a client site for a date range and a
// daily shift window. The shift may wrap past midnight ("22:00"-"06:00").
type Assignment struct {
	ID         string     `json:"id"`
	EmployeeID string     `json:"employeeId"`
	ClientID   string     `json:"clientId"`
	StartDate  time.Time  `json:"startDate"`
	EndDate    *time.Time `json:"endDate,omitempty"`
	ShiftStart string     `json:"shiftStart,omitempty"`
	ShiftEnd   string     `json:"shiftEnd,omitempty"`
	Note       string     `json:"note,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

type Input struct {
	EmployeeID string
	ClientID   string
	StartDate  time.Time
	EndDate    *time.Time
	ShiftStart string
	ShiftEnd   string
	Note       string
}

func validate(in Input) error {
	if in.EndDate != nil && timeutil.DateOnly(*in.EndDate).Before(timeutil.DateOnly(in.StartDate)) {
		return ErrInvalidRange
	}
	for _, clock := range []string{in.ShiftStart, in.ShiftEnd} {
		if clock == "" {
			continue
		}
		if _, err := timeutil.ParseClock(clock); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) Create(ctx context.Context, in Input) (Assignment, error) {
	if err := validate(in); err != nil {
		return Assignment{}, err
	}
	id, err := s.store.Insert(ctx, Assignment{
		EmployeeID: in.EmployeeID,
		ClientID:   in.ClientID,
		StartDate:  timeutil.DateOnly(in.StartDate),
		EndDate:    in.EndDate,
		ShiftStart: in.ShiftStart,
		ShiftEnd:   in.ShiftEnd,
		Note:       in.Note,
	})
	if err != nil {
		return Assignment{}, err
	}
	return s.store.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id string, in Input) (Assignment, error) {
	if err := validate(in); err != nil {
		return Assignment{}, err
	}
	a, err := s.store.Get(ctx, id)
	if err != nil {
		return Assignment{}, err
	}
	a.EmployeeID = in.EmployeeID
	a.ClientID = in.ClientID
	a.StartDate = timeutil.DateOnly(in.StartDate)
	a.EndDate = in.EndDate
	a.ShiftStart = in.ShiftStart
	a.ShiftEnd = in.ShiftEnd
	a.Note = in.Note
	if err := s.store.Update(ctx, a); err != nil {
		return Assignment{}, err
	}
	return s.store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, employeeID, clientID string) ([]Assignment, error) {
	return s.store.List(ctx, employeeID, clientID)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

type Store struct {
	DB db.Querier
}

func NewStore(q db.Querier) *Store {
	return &Store{DB: q}
}

const assignmentColumns = `id, employee_id, client_id, start_date, end_date,
       COALESCE(shift_start, ''), COALESCE(shift_end, ''), COALESCE(note, ''), created_at`

func scanAssignment(row pgx.Row) (Assignment, error) {
	var a Assignment
	err := row.Scan(&a.ID, &a.EmployeeID, &a.ClientID, &a.StartDate, &a.EndDate,
		&a.ShiftStart, &a.ShiftEnd, &a.Note, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Assignment{}, ErrNotFound
	}
	return a, err
}

func (s *Store) Insert(ctx context.Context, a Assignment) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO planning_assignments (employee_id, client_id, start_date, end_date, shift_start, shift_end, note)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    RETURNING id
  `, a.EmployeeID, a.ClientID, a.StartDate, a.EndDate, a.ShiftStart, a.ShiftEnd, a.Note).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) Get(ctx context.Context, id string) (Assignment, error) {
	return scanAssignment(s.DB.QueryRow(ctx,
		"SELECT "+assignmentColumns+" FROM planning_assignments WHERE id = $1", id))
}

func (s *Store) List(ctx context.Context, employeeID, clientID string) ([]Assignment, error) {
	query := "SELECT " + assignmentColumns + " FROM planning_assignments WHERE 1=1"
	args := []any{}
	if employeeID != "" {
		args = append(args, employeeID)
		query += " AND employee_id = $1"
	}
	if clientID != "" {
		args = append(args, clientID)
		if len(args) == 1 {
			query += " AND client_id = $1"
		} else {
			query += " AND client_id = $2"
		}
	}
	query += " ORDER BY start_date DESC"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

func (s *Store) Update(ctx context.Context, a Assignment) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE planning_assignments
    SET employee_id = $2, client_id = $3, start_date = $4, end_date = $5,
        shift_start = $6, shift_end = $7, note = $8
    WHERE id = $1
  `, a.ID, a.EmployeeID, a.ClientID, a.StartDate, a.EndDate, a.ShiftStart, a.ShiftEnd, a.Note)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM planning_assignments WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
