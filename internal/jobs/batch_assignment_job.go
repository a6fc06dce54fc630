package jobs

import (
	"context"
	"errors"
	"log/slog"

	"dispatch/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// BatchRunner runs one batch. *commands.RunBatchCommandHandler implements it.
type BatchRunner interface {
	Handle(ctx context.Context, cmd commands.RunBatchCommand) (commands.BatchReport, error)
}

// BatchAssignmentJob processes the latest prediction file on a cron schedule.
type BatchAssignmentJob struct {
	runner   BatchRunner
	schedule string
	maxHours float64
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewBatchAssignmentJob creates the job. schedule is a six-field cron
// expression (with seconds).
func NewBatchAssignmentJob(runner BatchRunner, schedule string, maxHours float64, logger *slog.Logger) *BatchAssignmentJob {
	return &BatchAssignmentJob{
		runner:   runner,
		schedule: schedule,
		maxHours: maxHours,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "batch_assignment_job"),
	}
}

func (j *BatchAssignmentJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Batch assignment job started", "schedule", j.schedule)
	return nil
}

// Run executes a single batch. An empty inbox and a lease held by another
// replica are normal and not logged as errors.
func (j *BatchAssignmentJob) Run(ctx context.Context) {
	cmd, err := commands.NewRunBatchCommand(commands.TriggerCron, j.maxHours)
	if err != nil {
		j.logger.ErrorContext(ctx, "Invalid batch command", "error", err)
		return
	}

	report, err := j.runner.Handle(ctx, cmd)
	switch {
	case errors.Is(err, commands.ErrNoPredictions), errors.Is(err, commands.ErrBatchInProgress):
		return
	case err != nil:
		j.logger.ErrorContext(ctx, "Batch assignment job failed", "run_id", cmd.RunID().String(), "error", err)
	default:
		j.logger.DebugContext(ctx, "Batch assignment job finished",
			"run_id", report.RunID.String(), "output_key", report.OutputKey)
	}
}

func (j *BatchAssignmentJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Batch assignment job stopped")
}
