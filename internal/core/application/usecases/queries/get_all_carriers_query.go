// Package queries contains read operations over the carrier roster.
// Queries bypass the aggregates and read straight from the database.
package queries

import (
	"errors"
	"fmt"
	"math"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var (
	ErrGetAllCarriersQueryIsNotConstructed = errors.New(
		"GetAllCarriersQuery must be created via NewGetAllCarriersQuery constructor",
	)
)

// GetAllCarriersQuery lists the roster together with the hours each carrier
// may still work under maxHours.
//
// Example:
//
//	query, err := NewGetAllCarriersQuery(9.0)
//	if err != nil {
//	    return err
//	}
//	carriers, err := NewGetAllCarriersQueryHandler(db).Handle(ctx, query)
type GetAllCarriersQuery struct { //nolint:recvcheck //using for validation
	maxHours float64
	guard    guard.ConstructorGuard
}

func NewGetAllCarriersQuery(maxHours float64) (GetAllCarriersQuery, error) {
	q := GetAllCarriersQuery{guard: guard.NewConstructorGuard()}
	if err := q.setMaxHours(maxHours); err != nil {
		return GetAllCarriersQuery{}, err
	}
	return q, nil
}

func (q GetAllCarriersQuery) Validate() error {
	return q.guard.Validate(ErrGetAllCarriersQueryIsNotConstructed)
}

func (q GetAllCarriersQuery) MaxHours() float64 {
	return q.maxHours
}

func (q *GetAllCarriersQuery) setMaxHours(maxHours float64) error {
	if math.IsNaN(maxHours) || math.IsInf(maxHours, 0) || maxHours <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("max_hours", fmt.Errorf("%v is not a positive number of hours", maxHours))
	}
	q.maxHours = maxHours
	return nil
}

// GetAllCarriersQueryResponse is the read model of one roster carrier.
type GetAllCarriersQueryResponse struct {
	ID             kernel.CarrierID
	Name           string
	Location       kernel.GeoPoint
	HoursWorked    float64
	RemainingHours float64
}
