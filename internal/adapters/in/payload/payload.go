// Package payload holds the JSON shapes shared by the HTTP and Lambda adapters.
package payload

import (
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/candidate"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// Record is one candidate row of a direct assignment request.
type Record struct {
	CarrierID          string   `json:"carrier_id"`
	JobID              *int64   `json:"job_id"`
	PredictedMinutes   *float64 `json:"predicted_time_minutes"`
	CarrierHoursWorked *float64 `json:"carrier_hours_worked"`
}

// Assignment is one result. CarrierID is null for unassigned jobs; the
// assigned-only and unassigned-only fields are omitted on the other variant.
type Assignment struct {
	JobID              int64    `json:"job_id"`
	CarrierID          *string  `json:"carrier_id"`
	PredictedMinutes   *float64 `json:"predicted_time_minutes,omitempty"`
	CarrierHoursBefore *float64 `json:"carrier_hours_before,omitempty"`
	Reason             string   `json:"reason,omitempty"`
}

// Error is the body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Stage   string `json:"stage,omitempty"`
}

// ToRecords converts request rows to domain records. Every bad row is
// reported, each error wrapping candidate.ErrInvalidInput.
func ToRecords(rows []Record) ([]candidate.Record, error) {
	records := make([]candidate.Record, 0, len(rows))
	var problems []error

	for i, row := range rows {
		r, err := row.toRecord()
		if err != nil {
			problems = append(problems, fmt.Errorf("%w: record %d: %w", candidate.ErrInvalidInput, i, err))
			continue
		}
		records = append(records, r)
	}

	if len(problems) > 0 {
		return nil, errors.Join(problems...)
	}
	return records, nil
}

func (r Record) toRecord() (candidate.Record, error) {
	var missing []error
	if r.JobID == nil {
		missing = append(missing, errs.NewValueIsRequiredError("job_id"))
	}
	if r.PredictedMinutes == nil {
		missing = append(missing, errs.NewValueIsRequiredError("predicted_time_minutes"))
	}
	if r.CarrierHoursWorked == nil {
		missing = append(missing, errs.NewValueIsRequiredError("carrier_hours_worked"))
	}
	if len(missing) > 0 {
		return candidate.Record{}, errors.Join(missing...)
	}

	return candidate.NewRecord(kernel.CarrierID(r.CarrierID), kernel.JobID(*r.JobID), *r.PredictedMinutes, *r.CarrierHoursWorked)
}

// FromResults renders results in order.
func FromResults(results []assignment.Result) []Assignment {
	out := make([]Assignment, 0, len(results))
	for _, res := range results {
		out = append(out, FromResult(res))
	}
	return out
}

func FromResult(res assignment.Result) Assignment {
	a := Assignment{JobID: res.JobID().Int64()}

	id, ok := res.CarrierID()
	if !ok {
		a.Reason = res.Reason()
		return a
	}

	carrierID := id.String()
	minutes := res.PredictedMinutes()
	hours := res.HoursBefore()
	a.CarrierID = &carrierID
	a.PredictedMinutes = &minutes
	a.CarrierHoursBefore = &hours
	return a
}
