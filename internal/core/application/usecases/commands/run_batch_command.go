package commands

import (
	"errors"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// Triggers of a batch run, reported in logs and metrics.
const (
	TriggerCron   = "cron"
	TriggerHTTP   = "http"
	TriggerLambda = "lambda"
	TriggerCLI    = "cli"
)

var ErrRunBatchCommandIsNotConstructed = errors.New(
	"RunBatchCommand must be created via NewRunBatchCommand constructor",
)

// RunBatchCommand processes the newest prediction file: assign, write the
// optimized file, drop the input.
//
// Example:
//
//	cmd, err := NewRunBatchCommand(TriggerCron, services.DefaultMaxHours)
//	if err != nil {
//	    return err
//	}
//	report, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, ErrNoPredictions):
//	    // nothing to do
//	case errors.Is(err, ErrBatchFailed):
//	    // storage problem, see BatchError.Stage
//	}
type RunBatchCommand struct { //nolint:recvcheck //using for validation
	runID    kernel.RunID
	trigger  string
	maxHours float64

	guard guard.ConstructorGuard
}

// NewRunBatchCommand generates a fresh run id.
func NewRunBatchCommand(trigger string, maxHours float64) (RunBatchCommand, error) {
	command := RunBatchCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setRunID(kernel.NewRunID()),
		command.setTrigger(trigger),
		command.setMaxHours(maxHours),
	); err != nil {
		return RunBatchCommand{}, err
	}

	return command, nil
}

func (c RunBatchCommand) Validate() error {
	return c.guard.Validate(ErrRunBatchCommandIsNotConstructed)
}

func (c RunBatchCommand) RunID() kernel.RunID {
	return c.runID
}

func (c RunBatchCommand) Trigger() string {
	return c.trigger
}

func (c RunBatchCommand) MaxHours() float64 {
	return c.maxHours
}

func (c *RunBatchCommand) setRunID(id kernel.RunID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.runID = id
	return nil
}

func (c *RunBatchCommand) setTrigger(trigger string) error {
	trigger = strings.TrimSpace(trigger)
	if trigger == "" {
		return errs.NewValueIsRequiredError("trigger")
	}

	c.trigger = trigger
	return nil
}

func (c *RunBatchCommand) setMaxHours(maxHours float64) error {
	if err := validateMaxHours(maxHours); err != nil {
		return err
	}

	c.maxHours = maxHours
	return nil
}
