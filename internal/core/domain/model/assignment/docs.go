// Package assignment models the outcome of an assignment run.
//
// Every job in a batch ends in exactly one Result. A job starts Pending and
// leaves that state once, on its first evaluation:
//
//	Pending ──┬──> Assigned    (fastest eligible carrier found)
//	          └──> Unassigned  (no carrier left under the hour cap)
//
// Unassigned is a valid outcome, not an error: it carries a human readable
// reason and the run carries on with the next job.
package assignment
