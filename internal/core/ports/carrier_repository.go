// Package ports defines the contracts between the dispatch core and its
// infrastructure: the carrier roster, object storage, the travel-time
// predictor, the batch lease and run metrics.
package ports

import (
	"context"

	"dispatch/internal/core/domain/model/carrier"
	"dispatch/internal/core/domain/model/kernel"
)

// CarrierRepository defines the persistence contract for roster carriers.
type CarrierRepository interface {
	// Add persists a new carrier. The id must not exist yet.
	Add(ctx context.Context, carrier *carrier.Carrier) error

	// Update persists changes (position, hours worked) of an existing carrier.
	Update(ctx context.Context, carrier *carrier.Carrier) error

	// Get retrieves a carrier by id.
	// Returns errs.ErrObjectNotFound if the carrier does not exist.
	Get(ctx context.Context, id kernel.CarrierID) (*carrier.Carrier, error)

	// GetAll returns the whole roster ordered by id.
	GetAll(ctx context.Context) ([]*carrier.Carrier, error)
}

// CarrierRoster resolves the hours already worked by each known carrier.
// Batch runs use it when a prediction file carries no hours column.
type CarrierRoster interface {
	HoursWorked(ctx context.Context) (map[kernel.CarrierID]float64, error)
}
