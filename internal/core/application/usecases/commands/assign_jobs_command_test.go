package commands_test

import (
	"math"
	"testing"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/candidate"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRecord(t *testing.T, carrierID string, jobID int64, minutes, hours float64) candidate.Record {
	t.Helper()
	r, err := candidate.NewRecord(kernel.CarrierID(carrierID), kernel.JobID(jobID), minutes, hours)
	require.NoError(t, err)
	return r
}

func TestNewAssignJobsCommand_CopiesRecords(t *testing.T) {
	records := []candidate.Record{newRecord(t, "C1", 0, 10, 0)}

	cmd, err := commands.NewAssignJobsCommand(records, 9)
	require.NoError(t, err)

	records[0] = newRecord(t, "C9", 9, 99, 0)

	assert.Equal(t, kernel.CarrierID("C1"), cmd.Records()[0].CarrierID())
	assert.InDelta(t, 9.0, cmd.MaxHours(), 1e-12)
	require.NoError(t, cmd.Validate())
}

func TestNewAssignJobsCommand_Invalid(t *testing.T) {
	t.Run("zero value record", func(t *testing.T) {
		_, err := commands.NewAssignJobsCommand([]candidate.Record{{}}, 9)

		require.ErrorIs(t, err, candidate.ErrInvalidInput)
		assert.Contains(t, err.Error(), "record 0")
	})

	for _, maxHours := range []float64{0, -2, math.NaN(), math.Inf(1)} {
		_, err := commands.NewAssignJobsCommand(nil, maxHours)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid, "max hours %v", maxHours)
	}

	var zero commands.AssignJobsCommand
	require.ErrorIs(t, zero.Validate(), commands.ErrAssignJobsCommandIsNotConstructed)
}
