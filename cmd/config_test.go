package cmd_test

import (
	"testing"
	"time"

	"dispatch/cmd"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, key := range []string{"MAX_HOURS", "BATCH_DELETE_INPUT", "BATCH_DERIVE_JOB_IDS", "BATCH_LOCK_TTL", "S3_PREDICTIONS_PREFIX", "DB_HOST"} {
		t.Setenv(key, "")
	}

	cfg, err := cmd.LoadConfig()

	require.NoError(t, err)
	assert.InDelta(t, 9.0, cfg.MaxHours, 1e-12)
	assert.True(t, cfg.BatchDeleteInput)
	assert.True(t, cfg.BatchDeriveJobIDs)
	assert.Equal(t, 2*time.Minute, cfg.BatchLockTTL)
	assert.Equal(t, "predictions/", cfg.S3PredictionsPrefix)
	assert.False(t, cfg.HasDatabase())
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("MAX_HOURS", "8.5")
	t.Setenv("BATCH_DELETE_INPUT", "false")
	t.Setenv("BATCH_LOCK_TTL", "30s")
	t.Setenv("DB_HOST", "db")

	cfg, err := cmd.LoadConfig()

	require.NoError(t, err)
	assert.InDelta(t, 8.5, cfg.MaxHours, 1e-12)
	assert.False(t, cfg.BatchDeleteInput)
	assert.Equal(t, 30*time.Second, cfg.BatchLockTTL)
	assert.True(t, cfg.HasDatabase())
}

func TestLoadConfig_Invalid(t *testing.T) {
	for key, value := range map[string]string{
		"MAX_HOURS":          "nine",
		"BATCH_DELETE_INPUT": "maybe",
		"BATCH_LOCK_TTL":     "2 minutes",
	} {
		t.Run(key, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv(key, value)

			_, err := cmd.LoadConfig()

			require.ErrorIs(t, err, errs.ErrValueIsInvalid)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestLoadConfig_MaxHoursMustBePositive(t *testing.T) {
	for _, value := range []string{"0", "-1", "NaN", "+Inf"} {
		t.Run(value, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv("MAX_HOURS", value)

			_, err := cmd.LoadConfig()

			require.ErrorIs(t, err, errs.ErrValueIsInvalid)
			assert.Contains(t, err.Error(), "MAX_HOURS")
		})
	}
}
