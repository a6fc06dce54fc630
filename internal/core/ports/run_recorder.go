package ports

import (
	"time"

	"dispatch/internal/core/domain/model/assignment"
)

// RunRecorder receives the outcome of every assignment run. err is the run
// error, nil on success.
type RunRecorder interface {
	RecordRun(trigger string, results []assignment.Result, elapsed time.Duration, err error)
}
