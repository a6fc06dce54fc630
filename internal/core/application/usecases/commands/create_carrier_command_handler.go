package commands

import (
	"context"

	"dispatch/internal/core/domain/model/carrier"
)

// CreateCarrierCommandHandler adds a carrier to the roster in its own transaction.
type CreateCarrierCommandHandler struct {
	uowFactory CarrierUoWFactory
}

func NewCreateCarrierCommandHandler(uowFactory CarrierUoWFactory) CreateCarrierCommandHandler {
	return CreateCarrierCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle rolls back on any error so no partial carrier is stored.
func (h *CreateCarrierCommandHandler) Handle(ctx context.Context, cmd CreateCarrierCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	carrierEntity, err := carrier.NewCarrier(cmd.CarrierID(), cmd.Name(), cmd.Location(), cmd.HoursWorked())
	if err != nil {
		return err
	}

	if err = uow.CarrierRepository().Add(ctx, carrierEntity); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
