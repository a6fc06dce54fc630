package cmd

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/errs"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	S3Bucket            string
	S3PredictionsPrefix string
	S3OptimizedPrefix   string
	LocalDataDir        string

	MaxHours           float64
	BatchSchedule      string
	ShiftResetSchedule string
	BatchDeleteInput   bool
	BatchDeriveJobIDs  bool
	BatchLockTTL       time.Duration

	RedisAddr string
	JWTSecret string
	LogLevel  string
}

// HasDatabase reports whether a Postgres roster is configured.
func (c Config) HasDatabase() bool {
	return c.DBHost != ""
}

// LoadConfig reads .env when present, then the environment. Unset values
// fall back to defaults; malformed numbers, booleans and durations are errors.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, err
	}

	cfg := Config{
		HTTPPort:            getEnv("HTTP_PORT", "8080"),
		DBHost:              os.Getenv("DB_HOST"),
		DBPort:              getEnv("DB_PORT", "5432"),
		DBUser:              os.Getenv("DB_USER"),
		DBPassword:          os.Getenv("DB_PASSWORD"),
		DBName:              os.Getenv("DB_NAME"),
		DBSslMode:           getEnv("DB_SSLMODE", "disable"),
		S3Bucket:            os.Getenv("S3_BUCKET"),
		S3PredictionsPrefix: getEnv("S3_PREDICTIONS_PREFIX", "predictions/"),
		S3OptimizedPrefix:   getEnv("S3_OPTIMIZED_PREFIX", "optimized/"),
		LocalDataDir:        getEnv("LOCAL_DATA_DIR", "data"),
		BatchSchedule:       os.Getenv("BATCH_SCHEDULE"),
		ShiftResetSchedule:  os.Getenv("SHIFT_RESET_SCHEDULE"),
		RedisAddr:           os.Getenv("REDIS_ADDR"),
		JWTSecret:           os.Getenv("JWT_SECRET"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.MaxHours, err = getFloat("MAX_HOURS", services.DefaultMaxHours); err != nil {
		return Config{}, err
	}
	if !(cfg.MaxHours > 0) || math.IsInf(cfg.MaxHours, 0) {
		return Config{}, errs.NewValueIsInvalidErrorWithCause("MAX_HOURS",
			fmt.Errorf("%v is not a positive number of hours", cfg.MaxHours))
	}
	if cfg.BatchDeleteInput, err = getBool("BATCH_DELETE_INPUT", true); err != nil {
		return Config{}, err
	}
	if cfg.BatchDeriveJobIDs, err = getBool("BATCH_DERIVE_JOB_IDS", true); err != nil {
		return Config{}, err
	}
	if cfg.BatchLockTTL, err = getDuration("BATCH_LOCK_TTL", 2*time.Minute); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getFloat(key string, fallback float64) (float64, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errs.NewValueIsInvalidErrorWithCause(key, err)
	}
	return v, nil
}

func getBool(key string, fallback bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, errs.NewValueIsInvalidErrorWithCause(key, err)
	}
	return v, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, errs.NewValueIsInvalidErrorWithCause(key, err)
	}
	return v, nil
}
