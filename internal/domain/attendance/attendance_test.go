package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/komla9992-max/gestion-sub000/internal/timeutil"
)

func TestWorkedLabel(t *testing.T) {
	rec := Record{TimeIn: "08:00", TimeOut: "17:00"}
	label, err := rec.WorkedLabel()
	require.NoError(t, err)
	assert.Equal(t, "9h00", label)
}

func TestWorkedLabelNightShift(t *testing.T) {
	rec := Record{TimeIn: "22:00", TimeOut: "06:00"}
	label, err := rec.WorkedLabel()
	require.NoError(t, err)
	assert.Equal(t, "8h00", label)
}

func TestWorkedLabelIncompletePair(t *testing.T) {
	for _, rec := range []Record{
		{TimeIn: "08:00"},
		{TimeOut: "17:00"},
		{},
	} {
		label, err := rec.WorkedLabel()
		require.NoError(t, err)
		assert.Equal(t, UnavailableLabel, label)
	}
}

func TestWorkedLabelMalformed(t *testing.T) {
	rec := Record{TimeIn: "8am", TimeOut: "17:00"}
	_, err := rec.WorkedLabel()
	assert.ErrorIs(t, err, timeutil.ErrBadClock)
}

func TestCreateRejectsMalformedClock(t *testing.T) {
	svc := NewService(NewStore(nil))
	_, err := svc.Create(context.Background(), Input{
		EmployeeID: "emp-1",
		Day:        time.Now(),
		TimeIn:     "25:99",
	})
	assert.ErrorIs(t, err, timeutil.ErrBadClock)
}
