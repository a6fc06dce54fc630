package assignment

import (
	"strconv"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// Result is the terminal outcome of one job: either an assignment of a
// carrier or an explicit "unassignable" record with a reason.
// Results are immutable once built.
type Result struct {
	status           Status
	jobID            kernel.JobID
	carrierID        kernel.CarrierID
	predictedMinutes float64
	hoursBefore      float64
	reason           string
}

// NewAssigned records that jobID goes to carrierID.
// hoursBefore is the carrier's worked hours as read from the input, before this run.
func NewAssigned(
	jobID kernel.JobID,
	carrierID kernel.CarrierID,
	predictedMinutes float64,
	hoursBefore float64,
) (Result, error) {
	if err := carrierID.Validate(); err != nil {
		return Result{}, err
	}

	status, err := Pending.Assign()
	if err != nil {
		return Result{}, err
	}

	return Result{
		status:           status,
		jobID:            jobID,
		carrierID:        carrierID,
		predictedMinutes: predictedMinutes,
		hoursBefore:      hoursBefore,
	}, nil
}

// NewUnassigned records that jobID could not be served.
func NewUnassigned(jobID kernel.JobID, reason string) (Result, error) {
	if strings.TrimSpace(reason) == "" {
		return Result{}, errs.NewValueIsRequiredError("reason")
	}

	status, err := Pending.Reject()
	if err != nil {
		return Result{}, err
	}

	return Result{
		status: status,
		jobID:  jobID,
		reason: reason,
	}, nil
}

func (r Result) Status() Status {
	return r.status
}

func (r Result) IsAssigned() bool {
	return r.status == Assigned
}

func (r Result) JobID() kernel.JobID {
	return r.jobID
}

// CarrierID returns the assigned carrier; ok is false for unassigned jobs.
func (r Result) CarrierID() (id kernel.CarrierID, ok bool) {
	return r.carrierID, r.status == Assigned
}

func (r Result) PredictedMinutes() float64 {
	return r.predictedMinutes
}

func (r Result) HoursBefore() float64 {
	return r.hoursBefore
}

// Reason is empty for assigned jobs.
func (r Result) Reason() string {
	return r.reason
}

// NoEligibleCarriersReason is the reason recorded when every remaining
// candidate of a job would exceed maxHours.
//
// Example:
//
//	assignment.NoEligibleCarriersReason(9)   // "No eligible carriers under 9.0-hour limit"
//	assignment.NoEligibleCarriersReason(8.5) // "No eligible carriers under 8.5-hour limit"
func NoEligibleCarriersReason(maxHours float64) string {
	return "No eligible carriers under " + FormatHours(maxHours) + "-hour limit"
}

// FormatHours renders hours the way they are written in the hour-cap
// configuration: shortest exact decimal, always with a fractional part.
func FormatHours(h float64) string {
	s := strconv.FormatFloat(h, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
