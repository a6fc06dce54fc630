package commands

import (
	"errors"

	"dispatch/internal/pkg/guard"
)

// ResetCarrierHoursCommand starts a new working day for the whole roster.
//
// Example:
//
//	cmd := NewResetCarrierHoursCommand()
//	reset, err := handler.Handle(ctx, cmd)
type ResetCarrierHoursCommand struct {
	guard guard.ConstructorGuard
}

var (
	ErrResetCarrierHoursCommandIsNotConstructed = errors.New(
		"ResetCarrierHoursCommand must be created via NewResetCarrierHoursCommand constructor",
	)
)

func NewResetCarrierHoursCommand() ResetCarrierHoursCommand {
	return ResetCarrierHoursCommand{
		guard: guard.NewConstructorGuard(),
	}
}

func (c *ResetCarrierHoursCommand) Validate() error {
	return c.guard.Validate(ErrResetCarrierHoursCommandIsNotConstructed)
}
