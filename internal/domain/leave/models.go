package leave

import "time"

type Status string

const (
	StatusRequested  Status = "requested"
	StatusApproved   Status = "approved"
	StatusRejected   Status = "rejected"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Known leave categories. The column is free text: records carrying an
// unrecognized category are stored and returned unchanged.
const (
	CategoryAnnual      = "annual"
	CategorySick        = "sick"
	CategoryMaternity   = "maternity"
	CategoryPaternity   = "paternity"
	CategoryExceptional = "exceptional"
	CategoryUnpaid      = "unpaid"
	CategoryTraining    = "training"
)

type Record struct {
	ID         string     `json:"id"`
	EmployeeID string     `json:"employeeId"`
	StartDate  *time.Time `json:"startDate,omitempty"`
	EndDate    *time.Time `json:"endDate,omitempty"`
	Category   string     `json:"category"`
	Status     Status     `json:"status"`
	Reason     string     `json:"reason,omitempty"`
	Comment    string     `json:"comment,omitempty"`
	// DurationDays is the inclusive day count of [StartDate, EndDate],
	// derived at creation and kept in step with date edits.
	DurationDays int        `json:"durationDays"`
	DecidedBy    string     `json:"decidedBy,omitempty"`
	DecidedAt    *time.Time `json:"decidedAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// Balance is the read-side leave account for one employee and year. It is
// recomputed on every read, never stored.
type Balance struct {
	EmployeeID string `json:"employeeId"`
	Year       int    `json:"year"`
	Allowance  int    `json:"allowance"`
	Used       int    `json:"used"`
	Remaining  int    `json:"remaining"`
}
