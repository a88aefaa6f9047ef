package attendance

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/komla9992-max/gestion-sub000/internal/platform/db"
	"github.com/komla9992-max/gestion-sub000/internal/timeutil"
)

var ErrNotFound = errors.New("attendance record not found")

// UnavailableLabel renders when a record is missing its clock-in or
// clock-out time.
const UnavailableLabel = "—"

type Record struct {
	ID         string    `json:"id"`
	EmployeeID string    `json:"employeeId"`
	Day        time.Time `json:"day"`
	TimeIn     string    `json:"timeIn,omitempty"`
	TimeOut    string    `json:"timeOut,omitempty"`
	Note       string    `json:"note,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// WorkedLabel derives the day's worked duration from the clock pair.
// "22:00" to "06:00" is a night shift of 8h00; an incomplete pair yields
// the unavailable label rather than an error.
func (r Record) WorkedLabel() (string, error) {
	d, ok, err := timeutil.ClockDuration(r.TimeIn, r.TimeOut)
	if err != nil {
		return "", err
	}
	if !ok {
		return UnavailableLabel, nil
	}
	return timeutil.FormatDuration(d), nil
}

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

type Input struct {
	EmployeeID string
	Day        time.Time
	TimeIn     string
	TimeOut    string
	Note       string
}

func (s *Service) Create(ctx context.Context, in Input) (Record, error) {
	if err := validateClocks(in.TimeIn, in.TimeOut); err != nil {
		return Record{}, err
	}
	id, err := s.store.Insert(ctx, Record{
		EmployeeID: in.EmployeeID,
		Day:        timeutil.DateOnly(in.Day),
		TimeIn:     in.TimeIn,
		TimeOut:    in.TimeOut,
		Note:       in.Note,
	})
	if err != nil {
		return Record{}, err
	}
	return s.store.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id string, in Input) (Record, error) {
	if err := validateClocks(in.TimeIn, in.TimeOut); err != nil {
		return Record{}, err
	}
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return Record{}, err
	}
	rec.TimeIn = in.TimeIn
	rec.TimeOut = in.TimeOut
	rec.Note = in.Note
	if err := s.store.Update(ctx, rec); err != nil {
		return Record{}, err
	}
	return s.store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, employeeID string, from, to *time.Time) ([]Record, error) {
	return s.store.List(ctx, employeeID, from, to)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// Empty clock fields are allowed; only malformed non-empty values fail.
func validateClocks(values ...string) error {
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, err := timeutil.ParseClock(v); err != nil {
			return err
		}
	}
	return nil
}

type Store struct {
	DB db.Querier
}

func NewStore(q db.Querier) *Store {
	return &Store{DB: q}
}

const recordColumns = "id, employee_id, day, COALESCE(time_in, ''), COALESCE(time_out, ''), COALESCE(note, ''), created_at"

func scanRecord(row pgx.Row) (Record, error) {
	var r Record
	err := row.Scan(&r.ID, &r.EmployeeID, &r.Day, &r.TimeIn, &r.TimeOut, &r.Note, &r.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	return r, err
}

func (s *Store) Insert(ctx context.Context, r Record) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO attendance_records (employee_id, day, time_in, time_out, note)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING id
  `, r.EmployeeID, r.Day, r.TimeIn, r.TimeOut, r.Note).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) Get(ctx context.Context, id string) (Record, error) {
	return scanRecord(s.DB.QueryRow(ctx, "SELECT "+recordColumns+" FROM attendance_records WHERE id = $1", id))
}

func (s *Store) List(ctx context.Context, employeeID string, from, to *time.Time) ([]Record, error) {
	query := "SELECT " + recordColumns + " FROM attendance_records WHERE 1=1"
	args := []any{}
	if employeeID != "" {
		args = append(args, employeeID)
		query += " AND employee_id = $1"
	}
	if from != nil {
		args = append(args, *from)
		query += " AND day >= $" + strconv.Itoa(len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += " AND day <= $" + strconv.Itoa(len(args))
	}
	query += " ORDER BY day DESC, created_at DESC"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *Store) Update(ctx context.Context, r Record) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE attendance_records
    SET time_in = $2, time_out = $3, note = $4
    WHERE id = $1
  `, r.ID, r.TimeIn, r.TimeOut, r.Note)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM attendance_records WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
