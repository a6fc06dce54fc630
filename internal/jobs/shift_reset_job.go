package jobs

import (
	"context"
	"log/slog"

	"dispatch/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// ShiftResetter clears the roster's hours. *commands.ResetCarrierHoursCommandHandler implements it.
type ShiftResetter interface {
	Handle(ctx context.Context, cmd commands.ResetCarrierHoursCommand) (int, error)
}

// ShiftResetJob starts a new working day for every carrier.
type ShiftResetJob struct {
	handler  ShiftResetter
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewShiftResetJob(handler ShiftResetter, schedule string, logger *slog.Logger) *ShiftResetJob {
	return &ShiftResetJob{
		handler:  handler,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "shift_reset_job"),
	}
}

func (j *ShiftResetJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Shift reset job started", "schedule", j.schedule)
	return nil
}

func (j *ShiftResetJob) Run(ctx context.Context) {
	reset, err := j.handler.Handle(ctx, commands.NewResetCarrierHoursCommand())
	if err != nil {
		j.logger.ErrorContext(ctx, "Shift reset job failed", "error", err)
		return
	}
	j.logger.InfoContext(ctx, "Carrier hours reset", "carriers", reset)
}

func (j *ShiftResetJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Shift reset job stopped")
}
