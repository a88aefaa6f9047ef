package leave

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/komla9992-max/gestion-sub000/internal/domain/auth"
)

func TestCreateRejectsInvalidRange(t *testing.T) {
	svc := NewService(NewStore(nil), 30)

	_, err := svc.Create(context.Background(), CreateInput{
		EmployeeID: "emp-1",
		StartDate:  dayPtr(2024, time.June, 14),
		EndDate:    dayPtr(2024, time.June, 10),
		Category:   CategoryAnnual,
	})
	assert.ErrorIs(t, err, ErrInvalidRange)
}

// A request may be filed before its dates are settled; it persists with
// nil dates, a zero duration, and waits in requested.
func TestCreateWithoutDates(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	var noDate *time.Time
	created := time.Date(2026, time.August, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery("INSERT INTO leave_requests").
		WithArgs("emp-1", noDate, noDate, CategoryAnnual, StatusRequested, "a preciser", 0).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("leave-1"))
	mock.ExpectQuery("SELECT .+ FROM leave_requests WHERE id").
		WithArgs("leave-1").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "employee_id", "start_date", "end_date", "category", "status",
			"reason", "comment", "duration_days", "decided_by", "decided_at", "created_at",
		}).AddRow("leave-1", "emp-1", noDate, noDate, CategoryAnnual, StatusRequested,
			"a preciser", "", 0, "", noDate, created))

	svc := NewService(NewStore(mock), 30)
	rec, err := svc.Create(context.Background(), CreateInput{
		EmployeeID: "emp-1",
		Category:   CategoryAnnual,
		Reason:     "a preciser",
	})
	require.NoError(t, err)
	assert.Nil(t, rec.StartDate)
	assert.Nil(t, rec.EndDate)
	assert.Equal(t, 0, rec.DurationDays)
	assert.Equal(t, StatusRequested, rec.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetDecisionRequiresElevatedRole(t *testing.T) {
	svc := NewService(NewStore(nil), 30)

	_, err := svc.SetDecision(context.Background(), "id", StatusApproved, auth.RoleAgent, "user-1", time.Now())
	assert.ErrorIs(t, err, ErrForbidden)
}
