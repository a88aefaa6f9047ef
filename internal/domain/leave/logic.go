package leave

import (
	"time"

	"github.com/komla9992-max/gestion-sub000/internal/timeutil"
)

// Next returns the status a record should hold on the given day.
//
// approved moves to in_progress while today is inside [start, end] and to
// completed once today is past end; in_progress moves to completed past end.
// requested waits for an explicit decision, rejected and completed never
// change, and a record missing either date is left alone. The function is
// idempotent: Next(Next(s)) with the same today yields the same status, and
// no status ever moves backward.
func Next(status Status, start, end *time.Time, today time.Time) Status {
	if start == nil || end == nil {
		return status
	}
	day := timeutil.DateOnly(today)
	first := timeutil.DateOnly(*start)
	last := timeutil.DateOnly(*end)

	switch status {
	case StatusApproved:
		if day.After(last) {
			return StatusCompleted
		}
		if !day.Before(first) {
			return StatusInProgress
		}
	case StatusInProgress:
		if day.After(last) {
			return StatusCompleted
		}
	}
	return status
}

// Decide resolves an explicit approval or rejection of a pending request
// and returns the status the record should take. Approving a request whose
// window already contains today lands directly on in_progress rather than
// approved; rejection is final.
func Decide(current Status, start, end *time.Time, decision Status, today time.Time) (Status, error) {
	if decision != StatusApproved && decision != StatusRejected {
		return current, ErrInvalidState
	}
	if current != StatusRequested {
		return current, ErrInvalidState
	}
	if decision == StatusRejected {
		return StatusRejected, nil
	}
	return Next(StatusApproved, start, end, today), nil
}

// countsAgainstBalance reports whether a record consumes leave days:
// requested and rejected records do not.
func countsAgainstBalance(status Status) bool {
	switch status {
	case StatusApproved, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

func intersectsYear(start, end time.Time, year int) bool {
	yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	yearEnd := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	return !timeutil.DateOnly(start).After(yearEnd) && !timeutil.DateOnly(end).Before(yearStart)
}

// UsedDays sums the duration of every balance-consuming record whose date
// range intersects the given year.
func UsedDays(records []Record, year int) int {
	used := 0
	for _, rec := range records {
		if !countsAgainstBalance(rec.Status) {
			continue
		}
		if rec.StartDate == nil || rec.EndDate == nil {
			continue
		}
		if !intersectsYear(*rec.StartDate, *rec.EndDate, year) {
			continue
		}
		used += timeutil.InclusiveDays(*rec.StartDate, *rec.EndDate)
	}
	return used
}

// RemainingDays returns the unconsumed part of the annual allowance,
// clamped at zero when usage exceeds it.
func RemainingDays(records []Record, year, allowance int) int {
	remaining := allowance - UsedDays(records, year)
	if remaining < 0 {
		return 0
	}
	return remaining
}
