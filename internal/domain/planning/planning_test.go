package planning

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestValidateRejectsReversedRange(t *testing.T) {
	end := date(2024, 3, 1)
	err := validate(Input{
		EmployeeID: "e1",
		ClientID:   "c1",
		StartDate:  date(2024, 3, 10),
		EndDate:    &end,
	})
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestValidateOpenEndedRange(t *testing.T) {
	err := validate(Input{
		EmployeeID: "e1",
		ClientID:   "c1",
		StartDate:  date(2024, 3, 10),
	})
	assert.NoError(t, err)
}

func TestValidateShiftClocks(t *testing.T) {
	err := validate(Input{
		EmployeeID: "e1",
		ClientID:   "c1",
		StartDate:  date(2024, 3, 1),
		ShiftStart: "22:00",
		ShiftEnd:   "06:00",
	})
	assert.NoError(t, err, "overnight shifts are valid")

	err = validate(Input{
		EmployeeID: "e1",
		ClientID:   "c1",
		StartDate:  date(2024, 3, 1),
		ShiftStart: "25:99",
	})
	assert.Error(t, err)
}

func TestValidateEmptyShiftAllowed(t *testing.T) {
	err := validate(Input{
		EmployeeID: "e1",
		ClientID:   "c1",
		StartDate:  date(2024, 3, 1),
	})
	assert.NoError(t, err)
}
