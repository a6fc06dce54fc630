package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

const (
	batchLockName       = "batch"
	defaultBatchLockTTL = 2 * time.Minute
	outputTimeLayout    = "2006-01-02T15-04-05.000000"
)

// BatchOptions tune a batch handler.
type BatchOptions struct {
	// DeleteInput removes the prediction file after the output is written.
	DeleteInput bool
	// DeriveJobIDs numbers jobs by position when the file has no job_id column.
	DeriveJobIDs bool
	// LockTTL bounds how long a crashed run can block the next one.
	LockTTL time.Duration
}

// RunBatchDependencies are the collaborators of a batch run. Roster, Recorder
// and Logger are optional.
type RunBatchDependencies struct {
	Source   ports.PredictionSource
	Sink     ports.ResultSink
	Codec    ports.DatasetCodec
	Lock     ports.BatchLock
	Roster   ports.CarrierRoster
	Engine   services.AssignmentEngine
	Recorder ports.RunRecorder
	Logger   *slog.Logger
	Options  BatchOptions
	Now      func() time.Time
}

// BatchReport describes a completed batch run.
type BatchReport struct {
	RunID        kernel.RunID
	InputKey     string
	OutputKey    string
	DeletedInput bool
	Results      []assignment.Result
}

// RunBatchCommandHandler runs the batch pipeline:
// lease, locate, roster, read, decode, assign, write, delete input.
//
// Storage and roster failures come back as *BatchError. A malformed file is a
// BatchError at StageDecode that also matches candidate.ErrInvalidInput.
// Nothing is written unless the whole file decoded.
type RunBatchCommandHandler struct {
	deps RunBatchDependencies
}

func NewRunBatchCommandHandler(deps RunBatchDependencies) (*RunBatchCommandHandler, error) {
	var missing []error
	if deps.Source == nil {
		missing = append(missing, errs.NewValueIsRequiredError("source"))
	}
	if deps.Sink == nil {
		missing = append(missing, errs.NewValueIsRequiredError("sink"))
	}
	if deps.Codec == nil {
		missing = append(missing, errs.NewValueIsRequiredError("codec"))
	}
	if deps.Lock == nil {
		missing = append(missing, errs.NewValueIsRequiredError("lock"))
	}
	if len(missing) > 0 {
		return nil, errors.Join(missing...)
	}

	if deps.Recorder == nil {
		deps.Recorder = nopRecorder{}
	}
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}
	if deps.Options.LockTTL <= 0 {
		deps.Options.LockTTL = defaultBatchLockTTL
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	deps.Logger = deps.Logger.With("component", "run_batch")

	return &RunBatchCommandHandler{deps: deps}, nil
}

func (h *RunBatchCommandHandler) Handle(ctx context.Context, cmd RunBatchCommand) (report BatchReport, err error) {
	if err = cmd.Validate(); err != nil {
		return BatchReport{}, err
	}

	logger := h.deps.Logger.With("run_id", cmd.RunID().String(), "trigger", cmd.Trigger())
	started := h.deps.Now()
	defer func() {
		if errors.Is(err, ErrNoPredictions) || errors.Is(err, ErrBatchInProgress) {
			return
		}
		h.deps.Recorder.RecordRun(cmd.Trigger(), report.Results, h.deps.Now().Sub(started), err)
	}()

	lease, ok, err := h.deps.Lock.TryAcquire(ctx, batchLockName, h.deps.Options.LockTTL)
	if err != nil {
		return BatchReport{}, NewBatchError(StageLock, "", err)
	}
	if !ok {
		logger.InfoContext(ctx, "Batch skipped, lease held elsewhere")
		return BatchReport{}, ErrBatchInProgress
	}
	defer func() {
		if releaseErr := lease.Release(context.WithoutCancel(ctx)); releaseErr != nil {
			logger.WarnContext(ctx, "Failed to release batch lease", "error", releaseErr)
		}
	}()

	ref, err := h.deps.Source.Latest(ctx)
	if errors.Is(err, errs.ErrObjectNotFound) {
		logger.InfoContext(ctx, "No prediction file found")
		return BatchReport{}, ErrNoPredictions
	}
	if err != nil {
		return BatchReport{}, NewBatchError(StageLocate, "", err)
	}
	logger = logger.With("input_key", ref.Key)

	hours, err := h.rosterHours(ctx)
	if err != nil {
		return BatchReport{}, NewBatchError(StageRoster, "", err)
	}

	body, err := h.deps.Source.Open(ctx, ref.Key)
	if err != nil {
		return BatchReport{}, NewBatchError(StageRead, ref.Key, err)
	}
	records, err := h.deps.Codec.Decode(body, ports.DecodeOptions{
		DeriveJobIDs: h.deps.Options.DeriveJobIDs,
		Hours:        hours,
	})
	if closeErr := body.Close(); closeErr != nil {
		logger.WarnContext(ctx, "Failed to close prediction file", "key", ref.Key, "error", closeErr)
	}
	if err != nil {
		return BatchReport{}, NewBatchError(StageDecode, ref.Key, err)
	}

	results, err := h.deps.Engine.Assign(records, cmd.MaxHours())
	if err != nil {
		return BatchReport{}, err
	}

	encoded, err := h.deps.Codec.Encode(results)
	if err != nil {
		return BatchReport{}, NewBatchError(StageWrite, "", err)
	}

	name := fmt.Sprintf("optimized_%s%s", started.UTC().Format(outputTimeLayout), h.deps.Codec.Extension())
	outputKey, err := h.deps.Sink.Write(ctx, name, encoded)
	if err != nil {
		return BatchReport{}, NewBatchError(StageWrite, name, err)
	}

	report = BatchReport{
		RunID:     cmd.RunID(),
		InputKey:  ref.Key,
		OutputKey: outputKey,
		Results:   results,
	}

	if h.deps.Options.DeleteInput {
		if delErr := h.deps.Source.Delete(ctx, ref.Key); delErr != nil {
			logger.WarnContext(ctx, "Failed to delete consumed prediction file", "error", delErr)
		} else {
			report.DeletedInput = true
		}
	}

	logger.InfoContext(ctx, "Batch completed",
		"output_key", outputKey,
		"jobs", len(results),
		"assigned", countAssigned(results),
		"deleted_input", report.DeletedInput,
	)

	return report, nil
}

// rosterHours returns an empty map without a roster so that a file lacking the
// hours column is read with 0 hours for everyone.
func (h *RunBatchCommandHandler) rosterHours(ctx context.Context) (map[kernel.CarrierID]float64, error) {
	if h.deps.Roster == nil {
		return map[kernel.CarrierID]float64{}, nil
	}
	hours, err := h.deps.Roster.HoursWorked(ctx)
	if err != nil {
		return nil, err
	}
	if hours == nil {
		hours = map[kernel.CarrierID]float64{}
	}
	return hours, nil
}

func countAssigned(results []assignment.Result) int {
	n := 0
	for _, r := range results {
		if r.IsAssigned() {
			n++
		}
	}
	return n
}
