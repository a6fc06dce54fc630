// Package traveltime estimates p90 carrier travel times from trip features
// with a speed profile: road distance over an hour and day dependent speed,
// plus a fixed handling overhead, scaled to the 90th percentile.
package traveltime

import (
	"context"
	"errors"
	"math"

	"dispatch/internal/core/domain/model/trip"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

var _ ports.TravelTimePredictor = (*Estimator)(nil)

// Bounds of observed trip durations; estimates are clamped into this window.
const (
	MinMinutes = 20.0 / 60.0
	MaxMinutes = 120.0
)

// Profile holds the speed model parameters.
type Profile struct {
	OffPeakKmh      float64
	PeakKmh         float64
	WeekendKmh      float64
	NightKmh        float64
	DetourFactor    float64
	OverheadMinutes float64
	P90Factor       float64
}

func DefaultProfile() Profile {
	return Profile{
		OffPeakKmh:      30,
		PeakKmh:         18,
		WeekendKmh:      35,
		NightKmh:        40,
		DetourFactor:    1.3,
		OverheadMinutes: 2,
		P90Factor:       1.25,
	}
}

func (p Profile) Validate() error {
	var err error
	for name, v := range map[string]float64{
		"off_peak_kmh":  p.OffPeakKmh,
		"peak_kmh":      p.PeakKmh,
		"weekend_kmh":   p.WeekendKmh,
		"night_kmh":     p.NightKmh,
		"detour_factor": p.DetourFactor,
		"p90_factor":    p.P90Factor,
	} {
		if !(v > 0) || math.IsInf(v, 0) {
			err = errors.Join(err, errs.NewValueIsInvalidError(name))
		}
	}
	if p.OverheadMinutes < 0 || math.IsNaN(p.OverheadMinutes) {
		err = errors.Join(err, errs.NewValueIsInvalidError("overhead_minutes"))
	}
	return err
}

type Estimator struct {
	profile Profile
}

func NewEstimator(profile Profile) (*Estimator, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	return &Estimator{profile: profile}, nil
}

func (e *Estimator) PredictMinutes(ctx context.Context, f trip.Features) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if math.IsNaN(f.DistanceKm) || f.DistanceKm < 0 {
		return 0, errs.NewValueIsInvalidError("distance_km")
	}

	road := f.DistanceKm * e.profile.DetourFactor
	driving := road / e.speedKmh(f) * 60
	minutes := (driving + e.profile.OverheadMinutes) * e.profile.P90Factor

	return math.Min(MaxMinutes, math.Max(MinMinutes, minutes)), nil
}

func (e *Estimator) speedKmh(f trip.Features) float64 {
	switch {
	case f.DepartureHour >= 22 || f.DepartureHour < 6:
		return e.profile.NightKmh
	case f.IsWeekend:
		return e.profile.WeekendKmh
	case f.IsPeak:
		return e.profile.PeakKmh
	default:
		return e.profile.OffPeakKmh
	}
}
