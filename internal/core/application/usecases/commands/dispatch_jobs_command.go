package commands

import (
	"errors"
	"fmt"
	"slices"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrDispatchJobsCommandIsNotConstructed = errors.New(
	"DispatchJobsCommand must be created via NewDispatchJobsCommand constructor",
)

// JobRequest is a job to dispatch: its id and where the carrier has to go.
type JobRequest struct {
	JobID       kernel.JobID
	Destination kernel.GeoPoint
}

// DispatchJobsCommand predicts travel times from every roster carrier to every
// job destination and assigns the jobs. Jobs are processed in the given order.
//
// Example:
//
//	dest, _ := kernel.NewGeoPoint(38.99, -76.95)
//	cmd, err := NewDispatchJobsCommand([]JobRequest{{JobID: 0, Destination: dest}}, 17, 2, 9.0)
type DispatchJobsCommand struct { //nolint:recvcheck //using for validation
	jobs          []JobRequest
	departureHour int
	weekday       int
	maxHours      float64

	guard guard.ConstructorGuard
}

// NewDispatchJobsCommand validates the batch. weekday is 0 for Monday through 6 for Sunday.
func NewDispatchJobsCommand(jobs []JobRequest, departureHour, weekday int, maxHours float64) (DispatchJobsCommand, error) {
	command := DispatchJobsCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setJobs(jobs),
		command.setDepartureHour(departureHour),
		command.setWeekday(weekday),
		command.setMaxHours(maxHours),
	); err != nil {
		return DispatchJobsCommand{}, err
	}

	return command, nil
}

func (c DispatchJobsCommand) Validate() error {
	return c.guard.Validate(ErrDispatchJobsCommandIsNotConstructed)
}

func (c DispatchJobsCommand) Jobs() []JobRequest {
	return slices.Clone(c.jobs)
}

func (c DispatchJobsCommand) DepartureHour() int {
	return c.departureHour
}

func (c DispatchJobsCommand) Weekday() int {
	return c.weekday
}

func (c DispatchJobsCommand) MaxHours() float64 {
	return c.maxHours
}

func (c *DispatchJobsCommand) setJobs(jobs []JobRequest) error {
	seen := make(map[kernel.JobID]struct{}, len(jobs))
	for i, job := range jobs {
		if _, dup := seen[job.JobID]; dup {
			return errs.NewValueIsInvalidErrorWithCause("jobs", fmt.Errorf("job %d appears twice", job.JobID))
		}
		seen[job.JobID] = struct{}{}

		if err := job.Destination.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause("jobs", fmt.Errorf("job %d at index %d: %w", job.JobID, i, err))
		}
	}

	c.jobs = slices.Clone(jobs)
	return nil
}

func (c *DispatchJobsCommand) setDepartureHour(hour int) error {
	if hour < 0 || hour > 23 {
		return errs.NewValueIsOutOfRangeError("departure_hour", hour, 0, 23)
	}

	c.departureHour = hour
	return nil
}

func (c *DispatchJobsCommand) setWeekday(weekday int) error {
	if weekday < 0 || weekday > 6 {
		return errs.NewValueIsOutOfRangeError("weekday", weekday, 0, 6)
	}

	c.weekday = weekday
	return nil
}

func (c *DispatchJobsCommand) setMaxHours(maxHours float64) error {
	if err := validateMaxHours(maxHours); err != nil {
		return err
	}

	c.maxHours = maxHours
	return nil
}
