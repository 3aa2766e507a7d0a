package payroll

import "fmt"

// Status is the workflow state of a payroll record. Transitions are checked
// against a closed table so an unknown state or edge fails loudly instead of
// silently passing through.
type Status string

const (
	StatusDraft     Status = "Draft"
	StatusGenerated Status = "Generated"
	StatusApproved  Status = "Approved"
	StatusPaid      Status = "Paid"
	StatusRejected  Status = "Rejected"
	StatusCancelled Status = "Cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusGenerated, StatusApproved, StatusPaid, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// Terminal states admit no further transitions.
func (s Status) Terminal() bool {
	return s == StatusPaid || s == StatusRejected || s == StatusCancelled
}

// CanTransition reports whether the workflow permits moving from s to next.
// Draft → Generated → Approved → Paid, with Generated/Approved → Rejected and
// any non-terminal state → Cancelled.
func (s Status) CanTransition(next Status) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	if next == StatusCancelled {
		return !s.Terminal()
	}
	switch s {
	case StatusDraft:
		return next == StatusGenerated
	case StatusGenerated:
		return next == StatusApproved || next == StatusRejected
	case StatusApproved:
		return next == StatusPaid || next == StatusRejected
	}
	return false
}

func (s Status) Transition(next Status) error {
	if !s.CanTransition(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s, next)
	}
	return nil
}
