package commands

import (
	"context"
)

// ResetCarrierHoursCommandHandler sets hours worked back to zero for every
// carrier in a single transaction. Carriers already at zero are not written.
type ResetCarrierHoursCommandHandler struct {
	uowFactory CarrierUoWFactory
}

func NewResetCarrierHoursCommandHandler(uowFactory CarrierUoWFactory) ResetCarrierHoursCommandHandler {
	return ResetCarrierHoursCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle returns how many carriers were reset.
func (h *ResetCarrierHoursCommandHandler) Handle(ctx context.Context, cmd ResetCarrierHoursCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.CarrierRepository()

	carriers, err := repo.GetAll(ctx)
	if err != nil {
		return 0, err
	}

	reset := 0
	for _, c := range carriers {
		if c.HoursWorked() == 0 {
			continue
		}
		c.StartShift()
		if err = repo.Update(ctx, c); err != nil {
			return 0, err
		}
		reset++
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	return reset, nil
}
