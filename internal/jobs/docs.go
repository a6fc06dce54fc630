// Package jobs provides scheduled background tasks for the dispatch service.
//
// Jobs use github.com/robfig/cron/v3 with six-field (seconds) expressions.
//
// # Available Jobs
//
// 1. BatchAssignmentJob - processes the latest prediction file (BATCH_SCHEDULE)
// 2. ShiftResetJob - clears the hours worked by every carrier (SHIFT_RESET_SCHEDULE)
//
// # Usage
//
//	jobManager := jobs.NewJobManager(
//		jobs.NewBatchAssignmentJob(batchHandler, "0 */5 * * * *", 9.0, logger),
//		jobs.NewShiftResetJob(resetHandler, "0 0 0 * * *", logger),
//	)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// The batch job ignores an empty inbox and a lease held by another replica.
// Every other failure is logged; the next tick tries again.
package jobs
