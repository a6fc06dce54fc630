package traveltime_test

import (
	"context"
	"testing"

	"dispatch/internal/adapters/out/traveltime"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/trip"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func features(t *testing.T, destLat, destLng float64, hour, weekday int) trip.Features {
	t.Helper()
	origin, err := kernel.NewGeoPoint(39.0082, -76.9597)
	require.NoError(t, err)
	dest, err := kernel.NewGeoPoint(destLat, destLng)
	require.NoError(t, err)
	f, err := trip.NewFeatures(origin, dest, hour, weekday)
	require.NoError(t, err)
	return f
}

func newEstimator(t *testing.T) *traveltime.Estimator {
	t.Helper()
	e, err := traveltime.NewEstimator(traveltime.DefaultProfile())
	require.NoError(t, err)
	return e
}

func TestEstimator_PredictMinutes(t *testing.T) {
	ctx := context.Background()
	e := newEstimator(t)

	t.Run("off peak trip follows the profile", func(t *testing.T) {
		f := features(t, 38.99, -76.95, 12, 2)

		got, err := e.PredictMinutes(ctx, f)

		require.NoError(t, err)
		want := (f.DistanceKm*1.3/30*60 + 2) * 1.25
		assert.InDelta(t, want, got, 1e-9)
	})

	t.Run("peak is slower than off peak", func(t *testing.T) {
		peak, err := e.PredictMinutes(ctx, features(t, 38.99, -76.95, 17, 2))
		require.NoError(t, err)
		offPeak, err := e.PredictMinutes(ctx, features(t, 38.99, -76.95, 12, 2))
		require.NoError(t, err)

		assert.Greater(t, peak, offPeak)
	})

	t.Run("weekend is faster than weekday peak", func(t *testing.T) {
		weekend, err := e.PredictMinutes(ctx, features(t, 38.99, -76.95, 17, 6))
		require.NoError(t, err)
		weekday, err := e.PredictMinutes(ctx, features(t, 38.99, -76.95, 17, 2))
		require.NoError(t, err)

		assert.Less(t, weekend, weekday)
	})

	t.Run("same place costs only the overhead", func(t *testing.T) {
		got, err := e.PredictMinutes(ctx, features(t, 39.0082, -76.9597, 12, 2))

		require.NoError(t, err)
		assert.InDelta(t, 2.5, got, 1e-9)
	})

	t.Run("long trips are clamped", func(t *testing.T) {
		got, err := e.PredictMinutes(ctx, features(t, 40.7128, -74.0060, 12, 2))

		require.NoError(t, err)
		assert.InDelta(t, traveltime.MaxMinutes, got, 1e-9)
	})

	t.Run("canceled context", func(t *testing.T) {
		canceled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := e.PredictMinutes(canceled, features(t, 38.99, -76.95, 12, 2))

		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestNewEstimator_InvalidProfile(t *testing.T) {
	p := traveltime.DefaultProfile()
	p.PeakKmh = 0
	p.OverheadMinutes = -1

	_, err := traveltime.NewEstimator(p)

	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	assert.Contains(t, err.Error(), "peak_kmh")
	assert.Contains(t, err.Error(), "overhead_minutes")
}
