package commands

import (
	"errors"
	"fmt"
)

var (
	// ErrBatchFailed marks every batch failure caused by storage or roster access.
	ErrBatchFailed = errors.New("batch failed")

	// ErrNoPredictions means there was no prediction file to process.
	ErrNoPredictions = errors.New("no prediction file to process")

	// ErrBatchInProgress means another run holds the batch lease.
	ErrBatchInProgress = errors.New("another batch run is in progress")
)

// BatchStage names the step of a batch run that failed.
type BatchStage string

const (
	StageLock   BatchStage = "lock"
	StageLocate BatchStage = "locate"
	StageRoster BatchStage = "roster"
	StageRead   BatchStage = "read"
	StageDecode BatchStage = "decode"
	StageWrite  BatchStage = "write"
)

// BatchError is a batch failure at a given stage. It matches both
// ErrBatchFailed and its cause with errors.Is.
type BatchError struct {
	Stage BatchStage
	Key   string
	Cause error
}

func NewBatchError(stage BatchStage, key string, cause error) *BatchError {
	return &BatchError{Stage: stage, Key: key, Cause: cause}
}

func (e *BatchError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s: %s %s: %v", ErrBatchFailed, e.Stage, e.Key, e.Cause)
	}
	return fmt.Sprintf("%s: %s: %v", ErrBatchFailed, e.Stage, e.Cause)
}

func (e *BatchError) Unwrap() []error {
	return []error{ErrBatchFailed, e.Cause}
}
