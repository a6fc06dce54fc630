package candidate

import (
	"errors"
	"fmt"
	"math"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var (
	// ErrInvalidInput marks a candidate set that cannot be assigned: a missing
	// field, a non-numeric value or a record built without NewRecord. The whole
	// run fails and no partial results are returned.
	ErrInvalidInput = errors.New("invalid candidate input")

	ErrRecordIsNotConstructed = errors.New("Record must be created via NewRecord constructor")
)

// Record ties one carrier to one job. Several records share a job (one per
// candidate carrier) and a carrier may appear under several jobs.
//
// Example:
//
//	rec, err := candidate.NewRecord("C1", 0, 42.5, 1.2)
//	if err != nil {
//	    return fmt.Errorf("bad prediction row: %w", err)
//	}
type Record struct {
	carrierID        kernel.CarrierID
	jobID            kernel.JobID
	predictedMinutes float64
	hoursWorked      float64

	guard guard.ConstructorGuard
}

// NewRecord validates every field and returns all violations joined together.
//
// Rules:
//   - carrierID must be non-empty
//   - predictedMinutes and hoursWorked must be finite and non-negative
func NewRecord(
	carrierID kernel.CarrierID,
	jobID kernel.JobID,
	predictedMinutes float64,
	hoursWorked float64,
) (Record, error) {
	r := Record{
		jobID: jobID,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		r.setCarrierID(carrierID),
		r.setPredictedMinutes(predictedMinutes),
		r.setHoursWorked(hoursWorked),
	); err != nil {
		return Record{}, err
	}

	return r, nil
}

// Validate reports whether the record was built through NewRecord.
func (r Record) Validate() error {
	return r.guard.Validate(ErrRecordIsNotConstructed)
}

func (r Record) CarrierID() kernel.CarrierID {
	return r.carrierID
}

func (r Record) JobID() kernel.JobID {
	return r.jobID
}

// PredictedMinutes is the model's p90 handling time for this carrier on this job.
func (r Record) PredictedMinutes() float64 {
	return r.predictedMinutes
}

// HoursWorked is what the carrier had already worked before the run started.
func (r Record) HoursWorked() float64 {
	return r.hoursWorked
}

// FitsUnder reports whether taking this job keeps the carrier within maxHours:
// hoursWorked + predictedMinutes/60 <= maxHours.
func (r Record) FitsUnder(maxHours float64) bool {
	return r.hoursWorked+r.predictedMinutes/60.0 <= maxHours
}

func (r *Record) setCarrierID(id kernel.CarrierID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	r.carrierID = id
	return nil
}

func (r *Record) setPredictedMinutes(minutes float64) error {
	if err := nonNegativeFinite("predicted_time_minutes", minutes); err != nil {
		return err
	}
	r.predictedMinutes = minutes
	return nil
}

func (r *Record) setHoursWorked(hours float64) error {
	if err := nonNegativeFinite("carrier_hours_worked", hours); err != nil {
		return err
	}
	r.hoursWorked = hours
	return nil
}

func nonNegativeFinite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return errs.NewValueIsInvalidErrorWithCause(name, fmt.Errorf("%v is not a finite number", v))
	}
	if v < 0 {
		return errs.NewValueIsInvalidErrorWithCause(name, fmt.Errorf("%v is negative", v))
	}
	return nil
}
