package ports

import (
	"context"

	"dispatch/internal/core/domain/model/trip"
)

// TravelTimePredictor estimates the p90 travel time of a trip in minutes.
type TravelTimePredictor interface {
	PredictMinutes(ctx context.Context, features trip.Features) (float64, error)
}
