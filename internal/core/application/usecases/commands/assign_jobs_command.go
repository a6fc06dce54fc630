package commands

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"dispatch/internal/core/domain/model/candidate"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrAssignJobsCommandIsNotConstructed = errors.New(
	"AssignJobsCommand must be created via NewAssignJobsCommand constructor",
)

// AssignJobsCommand runs the assignment engine over candidates supplied
// directly by the caller.
//
// Example:
//
//	r1, _ := candidate.NewRecord("C1", 0, 10, 1.2)
//	r2, _ := candidate.NewRecord("C2", 0, 20, 0)
//	cmd, err := NewAssignJobsCommand([]candidate.Record{r1, r2}, 9.0)
//	if err != nil {
//	    return err
//	}
//	results, err := handler.Handle(ctx, cmd)
type AssignJobsCommand struct { //nolint:recvcheck //using for validation
	records  []candidate.Record
	maxHours float64

	guard guard.ConstructorGuard
}

// NewAssignJobsCommand copies records so later changes by the caller do not
// affect the run.
func NewAssignJobsCommand(records []candidate.Record, maxHours float64) (AssignJobsCommand, error) {
	command := AssignJobsCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setRecords(records),
		command.setMaxHours(maxHours),
	); err != nil {
		return AssignJobsCommand{}, err
	}

	return command, nil
}

func (c AssignJobsCommand) Validate() error {
	return c.guard.Validate(ErrAssignJobsCommandIsNotConstructed)
}

func (c AssignJobsCommand) Records() []candidate.Record {
	return slices.Clone(c.records)
}

func (c AssignJobsCommand) MaxHours() float64 {
	return c.maxHours
}

func (c *AssignJobsCommand) setRecords(records []candidate.Record) error {
	for i, r := range records {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("%w: record %d: %w", candidate.ErrInvalidInput, i, err)
		}
	}

	c.records = slices.Clone(records)
	return nil
}

func (c *AssignJobsCommand) setMaxHours(maxHours float64) error {
	if err := validateMaxHours(maxHours); err != nil {
		return err
	}

	c.maxHours = maxHours
	return nil
}

func validateMaxHours(maxHours float64) error {
	if math.IsNaN(maxHours) || math.IsInf(maxHours, 0) || maxHours <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("max_hours", fmt.Errorf("%v is not a positive number of hours", maxHours))
	}
	return nil
}
