package assignment_test

import (
	"testing"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAssigned(t *testing.T) {
	r, err := assignment.NewAssigned(7, "C2", 33.5, 2.1)

	require.NoError(t, err)
	assert.Equal(t, assignment.Assigned, r.Status())
	assert.True(t, r.IsAssigned())
	assert.Equal(t, int64(7), r.JobID().Int64())
	id, ok := r.CarrierID()
	assert.True(t, ok)
	assert.Equal(t, "C2", id.String())
	assert.InDelta(t, 33.5, r.PredictedMinutes(), 1e-12)
	assert.InDelta(t, 2.1, r.HoursBefore(), 1e-12)
	assert.Empty(t, r.Reason())

	_, err = assignment.NewAssigned(7, "", 1, 0)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestNewUnassigned(t *testing.T) {
	r, err := assignment.NewUnassigned(3, assignment.NoEligibleCarriersReason(9))

	require.NoError(t, err)
	assert.Equal(t, assignment.Unassigned, r.Status())
	assert.False(t, r.IsAssigned())
	_, ok := r.CarrierID()
	assert.False(t, ok)
	assert.Equal(t, "No eligible carriers under 9.0-hour limit", r.Reason())

	_, err = assignment.NewUnassigned(3, " ")
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestFormatHours(t *testing.T) {
	tests := map[float64]string{
		9:     "9.0",
		8.5:   "8.5",
		10:    "10.0",
		7.25:  "7.25",
		0.125: "0.125",
	}
	for in, want := range tests {
		assert.Equal(t, want, assignment.FormatHours(in))
	}
}
