package leave

import "errors"

var (
	ErrInvalidRange = errors.New("end date before start date")
	ErrNotFound     = errors.New("leave request not found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidState = errors.New("invalid state for decision")
)
