package services

import (
	"fmt"
	"math"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/candidate"
	"dispatch/internal/core/domain/model/carrier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// DefaultMaxHours is the daily working-hour cap applied when the caller does not set one.
const DefaultMaxHours = 9.0

// JobObserver is notified after each job leaves Pending, with the number of
// carriers still free at that point.
type JobObserver func(result assignment.Result, poolRemaining int)

// AssignmentEngine matches jobs to carriers greedily: jobs are taken in the
// order their id first appears in the input, and each gets the fastest
// carrier that is still free and stays within the hour cap.
//
// Business rules:
//   - a carrier takes at most one job per run
//   - a carrier is eligible only if hours_worked + minutes/60 <= maxHours,
//     using the hours from the input, not hours accumulated during the run
//   - among eligible carriers the smallest predicted time wins; on an exact
//     tie the candidate that comes first in the input wins
//   - a job with no eligible carrier is Unassigned and leaves the pool untouched
//   - every distinct job yields exactly one result, in processing order
//
// Earlier jobs get first pick of fast carriers. There is no lookahead and no
// backtracking, so the result is not a global optimum.
//
// Example usage:
//
//	engine := services.NewAssignmentEngine()
//	results, err := engine.Assign(records, services.DefaultMaxHours)
//	if errors.Is(err, candidate.ErrInvalidInput) {
//	    // reject the batch, nothing was assigned
//	}
type AssignmentEngine struct {
	observer JobObserver
}

// NewAssignmentEngine creates an engine. observers, if any, are called in order
// after each job is evaluated.
func NewAssignmentEngine(observers ...JobObserver) AssignmentEngine {
	e := AssignmentEngine{}
	if len(observers) > 0 {
		e.observer = func(r assignment.Result, remaining int) {
			for _, o := range observers {
				o(r, remaining)
			}
		}
	}
	return e
}

// Assign runs one batch.
//
// Returns:
//   - one result per distinct job id, in order of first appearance
//   - an empty (non-nil) slice for empty input
//   - candidate.ErrInvalidInput if any record was not built via candidate.NewRecord
//   - errs.ErrValueIsInvalid if maxHours is not a positive finite number
//
// On error no results are returned.
func (e AssignmentEngine) Assign(records []candidate.Record, maxHours float64) ([]assignment.Result, error) {
	if math.IsNaN(maxHours) || math.IsInf(maxHours, 0) || maxHours <= 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("max_hours", fmt.Errorf("%v is not a positive number", maxHours))
	}

	for i, r := range records {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("%w: record %d: %w", candidate.ErrInvalidInput, i, err)
		}
	}

	order, byJob, carriers := partition(records)
	pool := carrier.NewPool(carriers)
	results := make([]assignment.Result, 0, len(order))

	for _, jobID := range order {
		result, err := e.assignJob(jobID, byJob[jobID], pool, maxHours)
		if err != nil {
			return nil, err
		}

		results = append(results, result)
		if e.observer != nil {
			e.observer(result, pool.Len())
		}
	}

	return results, nil
}

// assignJob evaluates one Pending job and removes the chosen carrier from the pool.
func (e AssignmentEngine) assignJob(
	jobID kernel.JobID,
	candidates []candidate.Record,
	pool *carrier.Pool,
	maxHours float64,
) (assignment.Result, error) {
	best, found := e.findBestCandidate(candidates, pool, maxHours)
	if !found {
		return assignment.NewUnassigned(jobID, assignment.NoEligibleCarriersReason(maxHours))
	}

	result, err := assignment.NewAssigned(jobID, best.CarrierID(), best.PredictedMinutes(), best.HoursWorked())
	if err != nil {
		return assignment.Result{}, err
	}

	if err = pool.Remove(best.CarrierID()); err != nil {
		return assignment.Result{}, err
	}

	return result, nil
}

// findBestCandidate scans candidates in input order and keeps the first one
// with the strictly smallest predicted time among those still free and
// within the hour cap.
func (e AssignmentEngine) findBestCandidate(
	candidates []candidate.Record,
	pool *carrier.Pool,
	maxHours float64,
) (candidate.Record, bool) {
	var (
		best  candidate.Record
		found bool
	)

	for _, c := range candidates {
		if !pool.Contains(c.CarrierID()) {
			continue
		}

		if !c.FitsUnder(maxHours) {
			continue
		}

		if !found || c.PredictedMinutes() < best.PredictedMinutes() {
			best = c
			found = true
		}
	}

	return best, found
}

// partition groups records by job id, keeping input order both for the jobs
// and for the candidates within a job, and collects every carrier id.
func partition(records []candidate.Record) ([]kernel.JobID, map[kernel.JobID][]candidate.Record, []kernel.CarrierID) {
	order := make([]kernel.JobID, 0)
	byJob := make(map[kernel.JobID][]candidate.Record)
	carriers := make([]kernel.CarrierID, 0, len(records))

	for _, r := range records {
		if _, seen := byJob[r.JobID()]; !seen {
			order = append(order, r.JobID())
		}
		byJob[r.JobID()] = append(byJob[r.JobID()], r)
		carriers = append(carriers, r.CarrierID())
	}

	return order, byJob, carriers
}
