package assignment

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Status is the lifecycle state of one job within a run.
type Status int

const (
	// Unknown catches uninitialised values.
	Unknown Status = iota

	// Pending jobs have not been evaluated yet.
	Pending

	// Assigned jobs got a carrier. Terminal.
	Assigned

	// Unassigned jobs had no eligible carrier. Terminal.
	Unassigned
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "Unknown",
		Pending:    "Pending",
		Assigned:   "Assigned",
		Unassigned: "Unassigned",
	}
}

// String implements fmt.Stringer. Out-of-range values print as "Unknown".
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// Validate accepts Pending, Assigned and Unassigned.
func (s Status) Validate() error {
	if s != Pending && s != Assigned && s != Unassigned {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// IsTerminal reports whether the job has left Pending.
func (s Status) IsTerminal() bool {
	return s == Assigned || s == Unassigned
}

// Assign moves Pending to Assigned. Any other source state is rejected:
// a job is evaluated once and never re-opened.
func (s Status) Assign() (Status, error) {
	if s != Pending {
		return Unknown, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to assign", s),
		)
	}
	return Assigned, nil
}

// Reject moves Pending to Unassigned.
func (s Status) Reject() (Status, error) {
	if s != Pending {
		return Unknown, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to reject", s),
		)
	}
	return Unassigned, nil
}
