package leave

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dayPtr(y int, m time.Month, d int) *time.Time {
	t := day(y, m, d)
	return &t
}

func TestNextApprovedEntersWindow(t *testing.T) {
	start, end := dayPtr(2024, time.June, 10), dayPtr(2024, time.June, 14)

	assert.Equal(t, StatusApproved, Next(StatusApproved, start, end, day(2024, time.June, 9)))
	assert.Equal(t, StatusInProgress, Next(StatusApproved, start, end, day(2024, time.June, 10)))
	assert.Equal(t, StatusInProgress, Next(StatusApproved, start, end, day(2024, time.June, 12)))
	assert.Equal(t, StatusInProgress, Next(StatusApproved, start, end, day(2024, time.June, 14)))
}

func TestNextCompletesPastEnd(t *testing.T) {
	start, end := dayPtr(2024, time.June, 10), dayPtr(2024, time.June, 14)

	assert.Equal(t, StatusCompleted, Next(StatusApproved, start, end, day(2024, time.June, 15)))
	assert.Equal(t, StatusCompleted, Next(StatusInProgress, start, end, day(2024, time.June, 15)))
}

func TestNextIdempotent(t *testing.T) {
	start, end := dayPtr(2024, time.June, 10), dayPtr(2024, time.June, 14)
	today := day(2024, time.June, 12)

	once := Next(StatusApproved, start, end, today)
	assert.Equal(t, StatusInProgress, once)
	assert.Equal(t, once, Next(once, start, end, today))

	past := day(2024, time.July, 1)
	done := Next(StatusInProgress, start, end, past)
	assert.Equal(t, StatusCompleted, done)
	assert.Equal(t, done, Next(done, start, end, past))
}

func TestNextNeverMovesBackward(t *testing.T) {
	start, end := dayPtr(2024, time.June, 10), dayPtr(2024, time.June, 14)

	// Completed stays completed even when today is back inside the window.
	assert.Equal(t, StatusCompleted, Next(StatusCompleted, start, end, day(2024, time.June, 12)))
}

func TestNextRejectedAndRequestedUntouched(t *testing.T) {
	start, end := dayPtr(2024, time.June, 10), dayPtr(2024, time.June, 14)

	for _, today := range []time.Time{day(2024, time.June, 1), day(2024, time.June, 12), day(2024, time.July, 1)} {
		assert.Equal(t, StatusRejected, Next(StatusRejected, start, end, today))
		assert.Equal(t, StatusRequested, Next(StatusRequested, start, end, today))
	}
}

func TestNextMissingDates(t *testing.T) {
	today := day(2024, time.June, 12)

	assert.Equal(t, StatusApproved, Next(StatusApproved, nil, dayPtr(2024, time.June, 14), today))
	assert.Equal(t, StatusApproved, Next(StatusApproved, dayPtr(2024, time.June, 10), nil, today))
	assert.Equal(t, StatusInProgress, Next(StatusInProgress, nil, nil, today))
}

func TestDecide(t *testing.T) {
	start, end := dayPtr(2024, time.June, 10), dayPtr(2024, time.June, 14)

	status, err := Decide(StatusRequested, start, end, StatusApproved, day(2024, time.June, 1))
	assert.NoError(t, err)
	assert.Equal(t, StatusApproved, status)

	status, err = Decide(StatusRequested, start, end, StatusRejected, day(2024, time.June, 12))
	assert.NoError(t, err)
	assert.Equal(t, StatusRejected, status)
}

func TestDecideInsideWindowGoesStraightToInProgress(t *testing.T) {
	start, end := dayPtr(2024, time.June, 10), dayPtr(2024, time.June, 14)

	status, err := Decide(StatusRequested, start, end, StatusApproved, day(2024, time.June, 12))
	assert.NoError(t, err)
	assert.Equal(t, StatusInProgress, status)
}

func TestDecideOnlyFromRequested(t *testing.T) {
	start, end := dayPtr(2024, time.June, 10), dayPtr(2024, time.June, 14)

	for _, current := range []Status{StatusApproved, StatusRejected, StatusInProgress, StatusCompleted} {
		_, err := Decide(current, start, end, StatusApproved, day(2024, time.June, 1))
		assert.ErrorIs(t, err, ErrInvalidState, string(current))
	}
}

func TestDecideRejectsBogusDecision(t *testing.T) {
	_, err := Decide(StatusRequested, nil, nil, StatusCompleted, day(2024, time.June, 1))
	assert.ErrorIs(t, err, ErrInvalidState)
}

// Full lifecycle: request a June 10-14 leave, approve it on June 12 (already
// inside the window), then sweep on June 15.
func TestLeaveLifecycle(t *testing.T) {
	start, end := dayPtr(2024, time.June, 10), dayPtr(2024, time.June, 14)

	status, err := Decide(StatusRequested, start, end, StatusApproved, day(2024, time.June, 12))
	assert.NoError(t, err)
	assert.Equal(t, StatusInProgress, status)

	status = Next(status, start, end, day(2024, time.June, 15))
	assert.Equal(t, StatusCompleted, status)

	// Repeat sweeps change nothing.
	assert.Equal(t, status, Next(status, start, end, day(2024, time.June, 15)))
	assert.Equal(t, status, Next(status, start, end, day(2024, time.June, 16)))
}

func TestUsedDays(t *testing.T) {
	records := []Record{
		{Status: StatusCompleted, StartDate: dayPtr(2024, time.February, 5), EndDate: dayPtr(2024, time.February, 9)},   // 5
		{Status: StatusCompleted, StartDate: dayPtr(2024, time.August, 1), EndDate: dayPtr(2024, time.August, 10)},      // 10
		{Status: StatusRejected, StartDate: dayPtr(2024, time.March, 1), EndDate: dayPtr(2024, time.March, 20)},         // excluded
		{Status: StatusRequested, StartDate: dayPtr(2024, time.April, 1), EndDate: dayPtr(2024, time.April, 5)},         // excluded
		{Status: StatusApproved, StartDate: dayPtr(2023, time.November, 1), EndDate: dayPtr(2023, time.November, 3)},    // other year
		{Status: StatusApproved, StartDate: nil, EndDate: nil},                                                          // dateless
	}

	assert.Equal(t, 15, UsedDays(records, 2024))
	assert.Equal(t, 3, UsedDays(records, 2023))
}

func TestUsedDaysYearOverlap(t *testing.T) {
	records := []Record{
		{Status: StatusCompleted, StartDate: dayPtr(2023, time.December, 28), EndDate: dayPtr(2024, time.January, 2)},
	}
	// The range touches both years, so it counts in both.
	assert.Equal(t, 6, UsedDays(records, 2023))
	assert.Equal(t, 6, UsedDays(records, 2024))
}

func TestRemainingDays(t *testing.T) {
	records := []Record{
		{Status: StatusCompleted, StartDate: dayPtr(2024, time.February, 5), EndDate: dayPtr(2024, time.February, 9)},
		{Status: StatusInProgress, StartDate: dayPtr(2024, time.August, 1), EndDate: dayPtr(2024, time.August, 10)},
	}
	assert.Equal(t, 15, RemainingDays(records, 2024, 30))
}

func TestRemainingDaysNeverNegative(t *testing.T) {
	records := []Record{
		{Status: StatusCompleted, StartDate: dayPtr(2024, time.January, 1), EndDate: dayPtr(2024, time.March, 1)},
	}
	assert.Equal(t, 0, RemainingDays(records, 2024, 30))
}
