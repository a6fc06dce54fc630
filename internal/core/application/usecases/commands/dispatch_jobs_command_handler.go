package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/candidate"
	"dispatch/internal/core/domain/model/trip"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
)

const TriggerDispatch = "dispatch"

var ErrNoCarriersInRoster = errors.New("no carriers in roster")

// DispatchJobsCommandHandler builds the candidate set from the roster and the
// travel-time predictor, then runs the assignment engine over it.
type DispatchJobsCommandHandler struct {
	uowFactory CarrierUoWFactory
	predictor  ports.TravelTimePredictor
	engine     services.AssignmentEngine
	recorder   ports.RunRecorder
}

func NewDispatchJobsCommandHandler(
	uowFactory CarrierUoWFactory,
	predictor ports.TravelTimePredictor,
	engine services.AssignmentEngine,
	recorder ports.RunRecorder,
) DispatchJobsCommandHandler {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return DispatchJobsCommandHandler{
		uowFactory: uowFactory,
		predictor:  predictor,
		engine:     engine,
		recorder:   recorder,
	}
}

// Handle returns ErrNoCarriersInRoster when there are jobs but no carriers,
// because the engine can only report on jobs that have candidates.
func (h DispatchJobsCommandHandler) Handle(ctx context.Context, cmd DispatchJobsCommand) ([]assignment.Result, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	jobs := cmd.Jobs()
	if len(jobs) == 0 {
		return []assignment.Result{}, nil
	}

	uow := h.uowFactory.Create()
	carriers, err := uow.CarrierRepository().GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(carriers) == 0 {
		return nil, ErrNoCarriersInRoster
	}

	records := make([]candidate.Record, 0, len(jobs)*len(carriers))
	for _, job := range jobs {
		for _, c := range carriers {
			features, featErr := trip.NewFeatures(c.Location(), job.Destination, cmd.DepartureHour(), cmd.Weekday())
			if featErr != nil {
				return nil, featErr
			}

			minutes, predErr := h.predictor.PredictMinutes(ctx, features)
			if predErr != nil {
				return nil, fmt.Errorf("predict carrier %s job %d: %w", c.ID(), job.JobID, predErr)
			}

			record, recErr := candidate.NewRecord(c.ID(), job.JobID, minutes, c.HoursWorked())
			if recErr != nil {
				return nil, recErr
			}
			records = append(records, record)
		}
	}

	started := time.Now()
	results, err := h.engine.Assign(records, cmd.MaxHours())
	h.recorder.RecordRun(TriggerDispatch, results, time.Since(started), err)

	return results, err
}
