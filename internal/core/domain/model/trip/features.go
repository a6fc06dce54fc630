// Package trip derives the travel-time regression features of a carrier
// driving from its current position to a job destination.
package trip

import (
	"errors"
	"fmt"
	"math"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// peakHours are the departure hours treated as rush hour.
var peakHours = map[int]struct{}{7: {}, 8: {}, 9: {}, 16: {}, 17: {}, 18: {}}

// Features is the feature vector of one (origin, destination, departure) trip.
// Weekday follows the Monday=0 .. Sunday=6 convention of the training data.
type Features struct {
	DistanceKm    float64
	DistanceLog   float64
	LatDiff       float64
	LngDiff       float64
	BearingDeg    float64
	HourSin       float64
	HourCos       float64
	Weekday       int
	IsPeak        bool
	IsWeekend     bool
	DepartureHour int
}

// NewFeatures computes the feature vector for a trip.
//
// Example:
//
//	origin, _ := kernel.NewGeoPoint(39.0082, -76.9597)
//	dest, _ := kernel.NewGeoPoint(38.99, -76.95)
//	f, err := trip.NewFeatures(origin, dest, 17, 2)
func NewFeatures(origin, dest kernel.GeoPoint, departureHour, weekday int) (Features, error) {
	if err := errors.Join(
		validateRange("departure_hour", departureHour, 0, 23),
		validateRange("weekday", weekday, 0, 6),
	); err != nil {
		return Features{}, err
	}

	distance, err := origin.DistanceKm(dest)
	if err != nil {
		return Features{}, err
	}

	bearing, err := origin.BearingDeg(dest)
	if err != nil {
		return Features{}, err
	}

	_, peak := peakHours[departureHour]
	angle := 2 * math.Pi * float64(departureHour) / 24

	return Features{
		DistanceKm:    distance,
		DistanceLog:   math.Log1p(distance),
		LatDiff:       math.Abs(origin.Lat() - dest.Lat()),
		LngDiff:       math.Abs(origin.Lng() - dest.Lng()),
		BearingDeg:    bearing,
		HourSin:       math.Sin(angle),
		HourCos:       math.Cos(angle),
		Weekday:       weekday,
		IsPeak:        peak,
		IsWeekend:     weekday == 5 || weekday == 6,
		DepartureHour: departureHour,
	}, nil
}

func validateRange(name string, v, lo, hi int) error {
	if v < lo || v > hi {
		return errs.NewValueIsOutOfRangeErrorWithCause(name, v, lo, hi, fmt.Errorf("%s must be within [%d, %d]", name, lo, hi))
	}
	return nil
}
