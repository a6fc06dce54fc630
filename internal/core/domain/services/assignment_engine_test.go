package services_test

import (
	"fmt"
	"math"
	"math/rand/v2"
	"testing"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/candidate"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(t *testing.T, carrierID string, jobID int64, minutes, hours float64) candidate.Record {
	t.Helper()
	r, err := candidate.NewRecord(kernel.CarrierID(carrierID), kernel.JobID(jobID), minutes, hours)
	require.NoError(t, err)
	return r
}

func assignedCarrier(t *testing.T, r assignment.Result) string {
	t.Helper()
	id, ok := r.CarrierID()
	require.True(t, ok, "job %d should be assigned", r.JobID())
	return id.String()
}

func TestAssignmentEngine_Scenarios(t *testing.T) {
	engine := services.NewAssignmentEngine()

	t.Run("two jobs get their distinct fastest carriers", func(t *testing.T) {
		records := []candidate.Record{
			rec(t, "C1", 0, 10, 1),
			rec(t, "C2", 0, 20, 1),
			rec(t, "C1", 1, 30, 1),
			rec(t, "C2", 1, 15, 1),
		}

		results, err := engine.Assign(records, services.DefaultMaxHours)

		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "C1", assignedCarrier(t, results[0]))
		assert.Equal(t, "C2", assignedCarrier(t, results[1]))
		assert.InDelta(t, 10, results[0].PredictedMinutes(), 1e-12)
		assert.InDelta(t, 15, results[1].PredictedMinutes(), 1e-12)
	})

	t.Run("faster carrier over the cap loses to slower eligible one", func(t *testing.T) {
		records := []candidate.Record{
			rec(t, "X", 0, 40, 8.5),
			rec(t, "Y", 0, 50, 0),
		}

		results, err := engine.Assign(records, services.DefaultMaxHours)

		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "Y", assignedCarrier(t, results[0]))
		assert.InDelta(t, 50, results[0].PredictedMinutes(), 1e-12)
		assert.InDelta(t, 0, results[0].HoursBefore(), 1e-12)
	})

	t.Run("all carriers over the cap", func(t *testing.T) {
		records := []candidate.Record{
			rec(t, "C4", 0, 30, 8.9),
			rec(t, "C5", 0, 5, 10),
		}

		results, err := engine.Assign(records, 9.0)

		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, assignment.Unassigned, results[0].Status())
		assert.Equal(t, "No eligible carriers under 9.0-hour limit", results[0].Reason())
	})

	t.Run("second job loses the only eligible carrier to the first", func(t *testing.T) {
		records := []candidate.Record{
			rec(t, "C1", 0, 20, 1),
			rec(t, "C2", 0, 20, 9),
			rec(t, "C1", 1, 10, 1),
			rec(t, "C2", 1, 10, 9),
		}

		results, err := engine.Assign(records, 9.0)

		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, kernel.JobID(0), results[0].JobID())
		assert.Equal(t, "C1", assignedCarrier(t, results[0]))
		assert.Equal(t, kernel.JobID(1), results[1].JobID())
		assert.Equal(t, assignment.Unassigned, results[1].Status())
		assert.Equal(t, "No eligible carriers under 9.0-hour limit", results[1].Reason())
	})

	t.Run("empty input yields an empty result", func(t *testing.T) {
		results, err := engine.Assign(nil, 9.0)

		require.NoError(t, err)
		assert.NotNil(t, results)
		assert.Empty(t, results)
	})
}

func TestAssignmentEngine_Ordering(t *testing.T) {
	engine := services.NewAssignmentEngine()

	t.Run("jobs run in order of first appearance, not by id", func(t *testing.T) {
		records := []candidate.Record{
			rec(t, "C1", 5, 10, 0),
			rec(t, "C1", 1, 5, 0),
			rec(t, "C2", 1, 50, 0),
		}

		results, err := engine.Assign(records, 9.0)

		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, kernel.JobID(5), results[0].JobID())
		assert.Equal(t, "C1", assignedCarrier(t, results[0]))
		assert.Equal(t, kernel.JobID(1), results[1].JobID())
		assert.Equal(t, "C2", assignedCarrier(t, results[1]))
	})

	t.Run("interleaved candidates of one job are grouped", func(t *testing.T) {
		records := []candidate.Record{
			rec(t, "C1", 0, 30, 0),
			rec(t, "C1", 1, 30, 0),
			rec(t, "C2", 0, 10, 0),
			rec(t, "C2", 1, 40, 0),
		}

		results, err := engine.Assign(records, 9.0)

		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "C2", assignedCarrier(t, results[0]))
		assert.Equal(t, "C1", assignedCarrier(t, results[1]))
	})

	t.Run("ties go to the first candidate in input order", func(t *testing.T) {
		records := []candidate.Record{
			rec(t, "C3", 0, 12, 0),
			rec(t, "C1", 0, 12, 0),
			rec(t, "C2", 0, 12, 0),
		}

		results, err := engine.Assign(records, 9.0)

		require.NoError(t, err)
		assert.Equal(t, "C3", assignedCarrier(t, results[0]))
	})

	t.Run("hours are not accumulated within a run", func(t *testing.T) {
		// C1 would be over the cap if job 0's minutes counted against job 1,
		// but C1 can only take one job anyway; C2 is checked against its own input hours.
		records := []candidate.Record{
			rec(t, "C1", 0, 60, 8),
			rec(t, "C2", 1, 60, 8),
		}

		results, err := engine.Assign(records, 9.0)

		require.NoError(t, err)
		assert.Equal(t, "C1", assignedCarrier(t, results[0]))
		assert.Equal(t, "C2", assignedCarrier(t, results[1]))
		assert.InDelta(t, 8, results[1].HoursBefore(), 1e-12)
	})

	t.Run("custom cap is reflected in the reason", func(t *testing.T) {
		results, err := engine.Assign([]candidate.Record{rec(t, "C1", 0, 60, 8)}, 8.5)

		require.NoError(t, err)
		assert.Equal(t, "No eligible carriers under 8.5-hour limit", results[0].Reason())
	})
}

func TestAssignmentEngine_Errors(t *testing.T) {
	engine := services.NewAssignmentEngine()

	t.Run("unconstructed record fails the whole run", func(t *testing.T) {
		records := []candidate.Record{rec(t, "C1", 0, 10, 0), {}}

		results, err := engine.Assign(records, 9.0)

		require.ErrorIs(t, err, candidate.ErrInvalidInput)
		require.ErrorIs(t, err, candidate.ErrRecordIsNotConstructed)
		assert.Contains(t, err.Error(), "record 1")
		assert.Nil(t, results)
	})

	for _, maxHours := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		t.Run(fmt.Sprintf("max hours %v is rejected", maxHours), func(t *testing.T) {
			results, err := engine.Assign([]candidate.Record{rec(t, "C1", 0, 10, 0)}, maxHours)

			require.ErrorIs(t, err, errs.ErrValueIsInvalid)
			assert.Nil(t, results)
		})
	}
}

func TestAssignmentEngine_Properties(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 7))

	for round := range 50 {
		t.Run(fmt.Sprintf("round %d", round), func(t *testing.T) {
			records, jobs := randomBatch(t, rng)

			var poolSizes []int
			engine := services.NewAssignmentEngine(func(_ assignment.Result, remaining int) {
				poolSizes = append(poolSizes, remaining)
			})

			results, err := engine.Assign(records, services.DefaultMaxHours)
			require.NoError(t, err)

			// coverage: one result per distinct job, no duplicates
			require.Len(t, results, jobs)
			seenJobs := make(map[kernel.JobID]bool)
			seenCarriers := make(map[kernel.CarrierID]bool)
			for _, r := range results {
				assert.False(t, seenJobs[r.JobID()], "job %d reported twice", r.JobID())
				seenJobs[r.JobID()] = true

				if id, ok := r.CarrierID(); ok {
					assert.False(t, seenCarriers[id], "carrier %s assigned twice", id)
					seenCarriers[id] = true
					assert.LessOrEqual(t, r.HoursBefore()+r.PredictedMinutes()/60, services.DefaultMaxHours)
				} else {
					assert.Equal(t, "No eligible carriers under 9.0-hour limit", r.Reason())
				}
			}

			// pool only shrinks
			for i := 1; i < len(poolSizes); i++ {
				assert.LessOrEqual(t, poolSizes[i], poolSizes[i-1])
			}

			// same input, same output
			again, err := engine.Assign(records, services.DefaultMaxHours)
			require.NoError(t, err)
			assert.Equal(t, results, again)
		})
	}
}

func randomBatch(t *testing.T, rng *rand.Rand) ([]candidate.Record, int) {
	t.Helper()

	carriers := 1 + rng.IntN(6)
	jobs := 1 + rng.IntN(8)
	records := make([]candidate.Record, 0, carriers*jobs)

	for j := range jobs {
		for c := range carriers {
			if rng.IntN(4) == 0 && c > 0 {
				continue
			}
			minutes := float64(rng.IntN(180))
			hours := float64(rng.IntN(100)) / 10
			records = append(records, rec(t, fmt.Sprintf("C%d", c), int64(j), minutes, hours))
		}
	}

	return records, jobs
}
