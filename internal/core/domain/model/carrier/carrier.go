package carrier

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var (
	// ErrNameIsRequired is returned when a carrier has a blank name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrCarrierIsNotConstructed is returned when using an improperly initialized Carrier.
	ErrCarrierIsNotConstructed = errors.New("Carrier must be created via NewCarrier constructor")
)

// Carrier is a vehicle or driver in the roster. The roster supplies the
// carrier's current position (the origin of travel-time predictions) and the
// hours already worked today (the input of the hour cap).
//
// Business rules:
//   - id and name are required
//   - location must be a valid GeoPoint
//   - hoursWorked is finite and non-negative
//
// Example:
//
//	loc, _ := kernel.NewGeoPoint(39.0082, -76.9597)
//	c, err := carrier.NewCarrier("C1", "North depot van", loc, 1.2)
//	if err != nil {
//	    return err
//	}
type Carrier struct {
	id          kernel.CarrierID
	name        string
	location    kernel.GeoPoint
	hoursWorked float64
	guard       guard.ConstructorGuard
}

// NewCarrier validates all fields and reports every violation at once.
func NewCarrier(id kernel.CarrierID, name string, location kernel.GeoPoint, hoursWorked float64) (*Carrier, error) {
	c := &Carrier{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		c.setID(id),
		c.setName(name),
		c.setLocation(location),
		c.setHoursWorked(hoursWorked),
	); err != nil {
		return nil, err
	}

	return c, nil
}

// Validate reports whether the carrier was built through NewCarrier.
func (c *Carrier) Validate() error {
	if c == nil {
		return ErrCarrierIsNotConstructed
	}
	return c.guard.Validate(ErrCarrierIsNotConstructed)
}

// IsEqual compares carriers by id.
func (c *Carrier) IsEqual(other *Carrier) bool {
	return other != nil && c.id == other.id
}

func (c *Carrier) ID() kernel.CarrierID {
	return c.id
}

func (c *Carrier) Name() string {
	return c.name
}

func (c *Carrier) Location() kernel.GeoPoint {
	return c.location
}

func (c *Carrier) HoursWorked() float64 {
	return c.hoursWorked
}

// RemainingHours is how much the carrier may still work under maxHours, never negative.
func (c *Carrier) RemainingHours(maxHours float64) float64 {
	return math.Max(0, maxHours-c.hoursWorked)
}

// StartShift clears the hours worked at the start of a working day.
func (c *Carrier) StartShift() {
	c.hoursWorked = 0
}

func (c *Carrier) setID(id kernel.CarrierID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.id = id
	return nil
}

func (c *Carrier) setName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameIsRequired
	}
	c.name = name
	return nil
}

func (c *Carrier) setLocation(location kernel.GeoPoint) error {
	if err := location.Validate(); err != nil {
		return err
	}
	c.location = location
	return nil
}

func (c *Carrier) setHoursWorked(hours float64) error {
	if math.IsNaN(hours) || math.IsInf(hours, 0) || hours < 0 {
		return errs.NewValueIsInvalidErrorWithCause("hours_worked", fmt.Errorf("%v is not a non-negative number", hours))
	}
	c.hoursWorked = hours
	return nil
}
