package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
)

const TriggerDirect = "direct"

// AssignJobsCommandHandler runs one assignment over caller-supplied records.
// Nothing is persisted; results go back to the caller.
type AssignJobsCommandHandler struct {
	engine   services.AssignmentEngine
	recorder ports.RunRecorder
}

// NewAssignJobsCommandHandler creates the handler. A nil recorder disables run metrics.
func NewAssignJobsCommandHandler(engine services.AssignmentEngine, recorder ports.RunRecorder) AssignJobsCommandHandler {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return AssignJobsCommandHandler{
		engine:   engine,
		recorder: recorder,
	}
}

// Handle returns one result per distinct job, in order of first appearance.
func (h AssignJobsCommandHandler) Handle(ctx context.Context, cmd AssignJobsCommand) ([]assignment.Result, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	started := time.Now()
	results, err := h.engine.Assign(cmd.Records(), cmd.MaxHours())
	h.recorder.RecordRun(TriggerDirect, results, time.Since(started), err)

	return results, err
}
