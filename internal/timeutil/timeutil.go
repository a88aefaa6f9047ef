package timeutil

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrBadClock = errors.New("invalid clock time")

// DateOnly truncates t to midnight UTC. All day-level comparisons in the
// application go through this so that timestamps with a time-of-day component
// compare at calendar-day granularity.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// InclusiveDays returns the number of calendar days spanned by [a, b],
// counting both endpoints: InclusiveDays(d, d) == 1. The result does not
// depend on argument order.
func InclusiveDays(a, b time.Time) int {
	da, db := DateOnly(a), DateOnly(b)
	diff := db.Sub(da)
	if diff < 0 {
		diff = -diff
	}
	return int(diff.Hours()/24) + 1
}

// ParseClock parses a "HH:MM" string into minutes since midnight.
func ParseClock(value string) (int, error) {
	parts := strings.Split(value, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrBadClock, value)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("%w: %q", ErrBadClock, value)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("%w: %q", ErrBadClock, value)
	}
	return hour*60 + minute, nil
}

// ClockDuration computes the elapsed duration between two "HH:MM" clock
// times. When out is earlier than in the interval is assumed to have crossed
// midnight and 24h is added before taking the difference.
//
// Either input being empty yields ok == false with a nil error: missing
// clock-in/out pairs are a normal state, not a failure. A malformed
// non-empty input is an error.
func ClockDuration(in, out string) (d time.Duration, ok bool, err error) {
	if strings.TrimSpace(in) == "" || strings.TrimSpace(out) == "" {
		return 0, false, nil
	}
	start, err := ParseClock(in)
	if err != nil {
		return 0, false, err
	}
	end, err := ParseClock(out)
	if err != nil {
		return 0, false, err
	}
	minutes := end - start
	if minutes < 0 {
		minutes += 24 * 60
	}
	return time.Duration(minutes) * time.Minute, true, nil
}

// FormatDuration renders a duration as whole hours plus remainder minutes,
// e.g. "9h00".
func FormatDuration(d time.Duration) string {
	minutes := int(d.Minutes())
	return fmt.Sprintf("%dh%02d", minutes/60, minutes%60)
}
