package commands

import (
	"errors"
	"math"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var (
	ErrCreateCarrierCommandIsNotConstructed = errors.New(
		"CreateCarrierCommand must be created via NewCreateCarrierCommand constructor",
	)
	ErrNameIsRequired = errors.New("name is required")
)

// CreateCarrierCommand registers a carrier in the roster.
//
// Example:
//
//	location, _ := kernel.NewGeoPoint(39.0082, -76.9597)
//	cmd, err := NewCreateCarrierCommand("C1", "North depot van", location, 1.2)
//	if err != nil {
//	    return fmt.Errorf("invalid carrier data: %w", err)
//	}
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to create carrier: %w", err)
//	}
type CreateCarrierCommand struct { //nolint:recvcheck //using for validation
	carrierID   kernel.CarrierID
	name        string
	location    kernel.GeoPoint
	hoursWorked float64

	guard guard.ConstructorGuard
}

func NewCreateCarrierCommand(
	id string,
	name string,
	location kernel.GeoPoint,
	hoursWorked float64,
) (CreateCarrierCommand, error) {
	command := CreateCarrierCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setCarrierID(id),
		command.setName(name),
		command.setLocation(location),
		command.setHoursWorked(hoursWorked),
	); err != nil {
		return CreateCarrierCommand{}, err
	}

	return command, nil
}

func (c CreateCarrierCommand) Validate() error {
	return c.guard.Validate(ErrCreateCarrierCommandIsNotConstructed)
}

func (c CreateCarrierCommand) CarrierID() kernel.CarrierID {
	return c.carrierID
}

func (c CreateCarrierCommand) Name() string {
	return c.name
}

func (c CreateCarrierCommand) Location() kernel.GeoPoint {
	return c.location
}

func (c CreateCarrierCommand) HoursWorked() float64 {
	return c.hoursWorked
}

func (c *CreateCarrierCommand) setCarrierID(raw string) error {
	id, err := kernel.NewCarrierID(raw)
	if err != nil {
		return err
	}

	c.carrierID = id
	return nil
}

func (c *CreateCarrierCommand) setName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameIsRequired
	}

	c.name = name
	return nil
}

func (c *CreateCarrierCommand) setLocation(location kernel.GeoPoint) error {
	if err := location.Validate(); err != nil {
		return err
	}

	c.location = location
	return nil
}

func (c *CreateCarrierCommand) setHoursWorked(hours float64) error {
	if math.IsNaN(hours) || math.IsInf(hours, 0) || hours < 0 {
		return errs.NewValueIsInvalidError("hours_worked")
	}

	c.hoursWorked = hours
	return nil
}
