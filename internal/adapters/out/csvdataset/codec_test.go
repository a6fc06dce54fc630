package csvdataset_test

import (
	"strings"
	"testing"

	"dispatch/internal/adapters/out/csvdataset"
	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/candidate"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodec_Decode(t *testing.T) {
	codec := csvdataset.NewCodec()

	t.Run("explicit columns", func(t *testing.T) {
		in := "carrier_id,job_id,predicted_time_minutes,carrier_hours_worked\n" +
			"C1,0,10,1.5\n" +
			"C2,0,20.25,0\n"

		records, err := codec.Decode(strings.NewReader(in), ports.DecodeOptions{})

		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, kernel.CarrierID("C1"), records[0].CarrierID())
		assert.Equal(t, kernel.JobID(0), records[0].JobID())
		assert.InDelta(t, 10, records[0].PredictedMinutes(), 1e-12)
		assert.InDelta(t, 1.5, records[0].HoursWorked(), 1e-12)
		assert.InDelta(t, 20.25, records[1].PredictedMinutes(), 1e-12)
	})

	t.Run("header is case and space insensitive and column order is free", func(t *testing.T) {
		in := " Job_ID , Carrier_ID,P90_Time_Min,carrier_hours_worked\n" +
			"7, C9 ,33,2\n"

		records, err := codec.Decode(strings.NewReader(in), ports.DecodeOptions{})

		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, kernel.CarrierID("C9"), records[0].CarrierID())
		assert.Equal(t, kernel.JobID(7), records[0].JobID())
		assert.InDelta(t, 33, records[0].PredictedMinutes(), 1e-12)
	})

	t.Run("leading byte order mark is stripped from the header", func(t *testing.T) {
		in := "\uFEFFcarrier_id,job_id,predicted_time_minutes,carrier_hours_worked\n" +
			"C1,4,12,0.5\n"

		records, err := codec.Decode(strings.NewReader(in), ports.DecodeOptions{})

		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, kernel.CarrierID("C1"), records[0].CarrierID())
		assert.Equal(t, kernel.JobID(4), records[0].JobID())
	})

	t.Run("seconds are converted to minutes", func(t *testing.T) {
		in := "carrier_id,job_id,predicted_time_sec,carrier_hours_worked\nC1,0,90,0\n"

		records, err := codec.Decode(strings.NewReader(in), ports.DecodeOptions{})

		require.NoError(t, err)
		assert.InDelta(t, 1.5, records[0].PredictedMinutes(), 1e-12)
	})

	t.Run("minutes column wins over seconds", func(t *testing.T) {
		in := "carrier_id,job_id,predicted_time_sec,predicted_time_minutes,carrier_hours_worked\nC1,0,600,4,0\n"

		records, err := codec.Decode(strings.NewReader(in), ports.DecodeOptions{})

		require.NoError(t, err)
		assert.InDelta(t, 4, records[0].PredictedMinutes(), 1e-12)
	})

	t.Run("job ids derived from position when enabled", func(t *testing.T) {
		in := "carrier_id,predicted_time_sec\n" +
			"C1,60\nC2,120\nC3,180\n" +
			"C1,60\nC2,120\nC3,180\n"

		records, err := codec.Decode(strings.NewReader(in), ports.DecodeOptions{
			DeriveJobIDs: true,
			Hours:        map[kernel.CarrierID]float64{"C2": 3},
		})

		require.NoError(t, err)
		require.Len(t, records, 6)
		for i, r := range records {
			assert.Equal(t, kernel.JobID(i/3), r.JobID(), "row %d", i)
		}
		assert.InDelta(t, 0, records[0].HoursWorked(), 1e-12)
		assert.InDelta(t, 3, records[1].HoursWorked(), 1e-12)
	})

	t.Run("integral float job ids are accepted", func(t *testing.T) {
		in := "carrier_id,job_id,predicted_time_minutes,carrier_hours_worked\nC1,3.0,1,0\n"

		records, err := codec.Decode(strings.NewReader(in), ports.DecodeOptions{})

		require.NoError(t, err)
		assert.Equal(t, kernel.JobID(3), records[0].JobID())
	})

	t.Run("empty stream decodes to nothing", func(t *testing.T) {
		records, err := codec.Decode(strings.NewReader(""), ports.DecodeOptions{})

		require.NoError(t, err)
		assert.NotNil(t, records)
		assert.Empty(t, records)
	})

	t.Run("header only decodes to nothing", func(t *testing.T) {
		in := "carrier_id,job_id,predicted_time_minutes,carrier_hours_worked\n"

		records, err := codec.Decode(strings.NewReader(in), ports.DecodeOptions{})

		require.NoError(t, err)
		assert.Empty(t, records)
	})
}

func TestCodec_DecodeErrors(t *testing.T) {
	codec := csvdataset.NewCodec()

	tests := []struct {
		name    string
		in      string
		opts    ports.DecodeOptions
		wantErr error
		line    string
	}{
		{
			name:    "missing job id column without derivation",
			in:      "carrier_id,predicted_time_minutes,carrier_hours_worked\nC1,1,0\n",
			wantErr: errs.ErrValueIsRequired,
			line:    "line 1",
		},
		{
			name:    "missing time column",
			in:      "carrier_id,job_id,carrier_hours_worked\nC1,0,0\n",
			wantErr: errs.ErrValueIsRequired,
			line:    "line 1",
		},
		{
			name:    "missing hours column without roster",
			in:      "carrier_id,job_id,predicted_time_minutes\nC1,0,1\n",
			wantErr: errs.ErrValueIsRequired,
			line:    "line 1",
		},
		{
			name:    "non numeric time",
			in:      "carrier_id,job_id,predicted_time_minutes,carrier_hours_worked\nC1,0,1,0\nC2,0,abc,0\n",
			wantErr: errs.ErrValueIsInvalid,
			line:    "line 3",
		},
		{
			name:    "negative hours",
			in:      "carrier_id,job_id,predicted_time_minutes,carrier_hours_worked\nC1,0,1,-2\n",
			wantErr: errs.ErrValueIsInvalid,
			line:    "line 2",
		},
		{
			name:    "blank carrier",
			in:      "carrier_id,job_id,predicted_time_minutes,carrier_hours_worked\n  ,0,1,0\n",
			wantErr: errs.ErrValueIsRequired,
			line:    "line 2",
		},
		{
			name:    "fractional job id",
			in:      "carrier_id,job_id,predicted_time_minutes,carrier_hours_worked\nC1,1.5,1,0\n",
			wantErr: errs.ErrValueIsInvalid,
			line:    "line 2",
		},
		{
			name:    "job id beyond int64",
			in:      "carrier_id,job_id,predicted_time_minutes,carrier_hours_worked\nC1,1e300,1,0\n",
			wantErr: errs.ErrValueIsOutOfRange,
			line:    "line 2",
		},
		{
			name: "ragged row",
			in:   "carrier_id,job_id,predicted_time_minutes,carrier_hours_worked\nC1,0,1\n",
			line: "line 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := codec.Decode(strings.NewReader(tt.in), tt.opts)

			require.ErrorIs(t, err, candidate.ErrInvalidInput)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Contains(t, err.Error(), tt.line)
			assert.Nil(t, records)
		})
	}
}

func TestCodec_Encode(t *testing.T) {
	codec := csvdataset.NewCodec()

	assigned, err := assignment.NewAssigned(0, "C1", 12.5, 1.25)
	require.NoError(t, err)
	unassigned, err := assignment.NewUnassigned(1, assignment.NoEligibleCarriersReason(9))
	require.NoError(t, err)

	out, err := codec.Encode([]assignment.Result{assigned, unassigned})

	require.NoError(t, err)
	assert.Equal(t,
		"job_id,carrier_id,predicted_time_minutes,carrier_hours_before,reason\n"+
			"0,C1,12.5,1.25,\n"+
			"1,,,,No eligible carriers under 9.0-hour limit\n",
		string(out))
	assert.Equal(t, ".csv", codec.Extension())
}

func TestCodec_EncodeEmpty(t *testing.T) {
	out, err := csvdataset.NewCodec().Encode(nil)

	require.NoError(t, err)
	assert.Equal(t, "job_id,carrier_id,predicted_time_minutes,carrier_hours_before,reason\n", string(out))
}
