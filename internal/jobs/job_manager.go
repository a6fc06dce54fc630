package jobs

import (
	"fmt"
)

type job interface {
	Start() error
	Stop()
}

// JobManager coordinates the scheduled jobs of the service.
// Nil jobs are skipped so that a disabled schedule needs no special casing.
type JobManager struct {
	batchJob *BatchAssignmentJob
	shiftJob *ShiftResetJob
	started  []job
}

func NewJobManager(batchJob *BatchAssignmentJob, shiftJob *ShiftResetJob) *JobManager {
	return &JobManager{
		batchJob: batchJob,
		shiftJob: shiftJob,
	}
}

// StartAll starts every configured job. If one fails, the ones already
// running are stopped.
func (jm *JobManager) StartAll() error {
	if jm.batchJob != nil {
		if err := jm.batchJob.Start(); err != nil {
			return fmt.Errorf("failed to start batch assignment job: %w", err)
		}
		jm.started = append(jm.started, jm.batchJob)
	}

	if jm.shiftJob != nil {
		if err := jm.shiftJob.Start(); err != nil {
			jm.StopAll()
			return fmt.Errorf("failed to start shift reset job: %w", err)
		}
		jm.started = append(jm.started, jm.shiftJob)
	}

	return nil
}

// StopAll stops running jobs and waits for in-flight runs to finish.
func (jm *JobManager) StopAll() {
	for _, j := range jm.started {
		j.Stop()
	}
	jm.started = nil
}
