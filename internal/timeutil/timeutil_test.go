package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestInclusiveDaysSameDay(t *testing.T) {
	d := date(2024, time.June, 10)
	assert.Equal(t, 1, InclusiveDays(d, d))
}

func TestInclusiveDays(t *testing.T) {
	tests := []struct {
		name string
		a, b time.Time
		want int
	}{
		{"five days", date(2024, time.June, 10), date(2024, time.June, 14), 5},
		{"across month", date(2024, time.January, 30), date(2024, time.February, 2), 4},
		{"leap february", date(2024, time.February, 28), date(2024, time.March, 1), 3},
		{"across year", date(2023, time.December, 30), date(2024, time.January, 2), 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InclusiveDays(tt.a, tt.b))
		})
	}
}

func TestInclusiveDaysSymmetric(t *testing.T) {
	a := date(2024, time.March, 3)
	b := date(2024, time.March, 20)
	assert.Equal(t, InclusiveDays(a, b), InclusiveDays(b, a))
}

func TestInclusiveDaysIgnoresTimeOfDay(t *testing.T) {
	a := time.Date(2024, time.June, 10, 23, 50, 0, 0, time.UTC)
	b := time.Date(2024, time.June, 11, 0, 5, 0, 0, time.UTC)
	assert.Equal(t, 2, InclusiveDays(a, b))
}

func TestClockDuration(t *testing.T) {
	d, ok, err := ClockDuration("08:00", "17:00")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 9*time.Hour, d)
	assert.Equal(t, "9h00", FormatDuration(d))
}

func TestClockDurationMidnightWrap(t *testing.T) {
	d, ok, err := ClockDuration("22:00", "06:00")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 8*time.Hour, d)
}

func TestClockDurationMinutes(t *testing.T) {
	d, ok, err := ClockDuration("08:15", "16:45")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "8h30", FormatDuration(d))
}

func TestClockDurationMissingInput(t *testing.T) {
	_, ok, err := ClockDuration("", "17:00")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = ClockDuration("08:00", "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClockDurationMalformed(t *testing.T) {
	for _, bad := range []string{"8am", "25:00", "08:61", "0800", "aa:bb"} {
		_, _, err := ClockDuration(bad, "17:00")
		assert.ErrorIs(t, err, ErrBadClock, bad)
	}
}
