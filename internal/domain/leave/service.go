package leave

import (
	"context"
	"time"

	"github.com/komla9992-max/gestion-sub000/internal/domain/auth"
	"github.com/komla9992-max/gestion-sub000/internal/timeutil"
)

const DefaultUpcomingWindowDays = 30

type Service struct {
	store     *Store
	allowance int
}

func NewService(store *Store, allowanceDays int) *Service {
	return &Service{store: store, allowance: allowanceDays}
}

type CreateInput struct {
	EmployeeID string
	StartDate  *time.Time
	EndDate    *time.Time
	Category   string
	Reason     string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Record, error) {
	duration := 0
	if in.StartDate != nil && in.EndDate != nil {
		if timeutil.DateOnly(*in.EndDate).Before(timeutil.DateOnly(*in.StartDate)) {
			return Record{}, ErrInvalidRange
		}
		duration = timeutil.InclusiveDays(*in.StartDate, *in.EndDate)
	}

	id, err := s.store.Insert(ctx, Record{
		EmployeeID:   in.EmployeeID,
		StartDate:    in.StartDate,
		EndDate:      in.EndDate,
		Category:     in.Category,
		Status:       StatusRequested,
		Reason:       in.Reason,
		DurationDays: duration,
	})
	if err != nil {
		return Record{}, err
	}
	return s.store.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id string) (Record, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, employeeID string) ([]Record, error) {
	return s.store.List(ctx, employeeID)
}

type UpdateInput struct {
	StartDate *time.Time
	EndDate   *time.Time
	Category  *string
	Reason    *string
	Comment   *string
}

// Update edits a request's details. Dates and category can only change while
// the request is still awaiting a decision; reason and comment can always be
// edited. Status is never writable here.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Record, error) {
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return Record{}, err
	}

	if in.StartDate != nil || in.EndDate != nil || in.Category != nil {
		if rec.Status != StatusRequested {
			return Record{}, ErrInvalidState
		}
	}
	if in.StartDate != nil {
		rec.StartDate = in.StartDate
	}
	if in.EndDate != nil {
		rec.EndDate = in.EndDate
	}
	if in.Category != nil {
		rec.Category = *in.Category
	}
	if in.Reason != nil {
		rec.Reason = *in.Reason
	}
	if in.Comment != nil {
		rec.Comment = *in.Comment
	}

	if rec.StartDate != nil && rec.EndDate != nil {
		if timeutil.DateOnly(*rec.EndDate).Before(timeutil.DateOnly(*rec.StartDate)) {
			return Record{}, ErrInvalidRange
		}
		rec.DurationDays = timeutil.InclusiveDays(*rec.StartDate, *rec.EndDate)
	}

	if err := s.store.UpdateDetails(ctx, rec); err != nil {
		return Record{}, err
	}
	return s.store.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// SetDecision approves or rejects a pending request. Only admin and manager
// roles may decide. Approving while today already falls inside the leave
// window moves the record straight to in_progress.
func (s *Service) SetDecision(ctx context.Context, id string, decision Status, actorRole, actorID string, today time.Time) (Record, error) {
	if actorRole != auth.RoleAdmin && actorRole != auth.RoleManager {
		return Record{}, ErrForbidden
	}
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return Record{}, err
	}

	status, err := Decide(rec.Status, rec.StartDate, rec.EndDate, decision, today)
	if err != nil {
		return Record{}, err
	}

	if err := s.store.UpdateDecision(ctx, id, status, actorID, time.Now().UTC()); err != nil {
		return Record{}, err
	}
	return s.store.Get(ctx, id)
}

// RecomputeAll applies the date-driven status transitions to every record
// that can still move and reports how many changed. Running it repeatedly
// with the same today is a no-op after the first pass.
func (s *Service) RecomputeAll(ctx context.Context, today time.Time) (int, error) {
	records, err := s.store.ListSweepCandidates(ctx)
	if err != nil {
		return 0, err
	}

	changed := 0
	for _, rec := range records {
		next := Next(rec.Status, rec.StartDate, rec.EndDate, today)
		if next == rec.Status {
			continue
		}
		if err := s.store.UpdateStatus(ctx, rec.ID, next); err != nil {
			return changed, err
		}
		changed++
	}
	return changed, nil
}

// Balance recomputes the annual leave account for one employee.
func (s *Service) Balance(ctx context.Context, employeeID string, year int) (Balance, error) {
	records, err := s.store.ListByEmployee(ctx, employeeID)
	if err != nil {
		return Balance{}, err
	}
	used := UsedDays(records, year)
	return Balance{
		EmployeeID: employeeID,
		Year:       year,
		Allowance:  s.allowance,
		Used:       used,
		Remaining:  RemainingDays(records, year, s.allowance),
	}, nil
}

func (s *Service) Upcoming(ctx context.Context, today time.Time, withinDays int) ([]Record, error) {
	if withinDays <= 0 {
		withinDays = DefaultUpcomingWindowDays
	}
	return s.store.Upcoming(ctx, timeutil.DateOnly(today), withinDays)
}
