package commands_test

import (
	"testing"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func point(t *testing.T, lat, lng float64) kernel.GeoPoint {
	t.Helper()
	p, err := kernel.NewGeoPoint(lat, lng)
	require.NoError(t, err)
	return p
}

func TestNewDispatchJobsCommand_Valid(t *testing.T) {
	jobs := []commands.JobRequest{
		{JobID: 3, Destination: point(t, 38.99, -76.95)},
		{JobID: 1, Destination: point(t, 39.01, -76.93)},
	}

	cmd, err := commands.NewDispatchJobsCommand(jobs, 17, 2, 9)

	require.NoError(t, err)
	require.NoError(t, cmd.Validate())
	assert.Equal(t, jobs, cmd.Jobs())
	assert.Equal(t, 17, cmd.DepartureHour())
	assert.Equal(t, 2, cmd.Weekday())
}

func TestNewDispatchJobsCommand_Invalid(t *testing.T) {
	dest := point(t, 38.99, -76.95)

	tests := []struct {
		name    string
		jobs    []commands.JobRequest
		hour    int
		weekday int
		max     float64
		wantErr error
	}{
		{
			name:    "duplicate job",
			jobs:    []commands.JobRequest{{JobID: 1, Destination: dest}, {JobID: 1, Destination: dest}},
			max:     9,
			wantErr: errs.ErrValueIsInvalid,
		},
		{
			name:    "missing destination",
			jobs:    []commands.JobRequest{{JobID: 1}},
			max:     9,
			wantErr: errs.ErrValueIsInvalid,
		},
		{name: "hour out of range", hour: 24, max: 9, wantErr: errs.ErrValueIsOutOfRange},
		{name: "weekday out of range", weekday: 7, max: 9, wantErr: errs.ErrValueIsOutOfRange},
		{name: "zero cap", max: 0, wantErr: errs.ErrValueIsInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := commands.NewDispatchJobsCommand(tt.jobs, tt.hour, tt.weekday, tt.max)

			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}
