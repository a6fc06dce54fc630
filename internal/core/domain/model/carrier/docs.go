// Package carrier provides the carrier aggregate kept in the roster and the
// run-scoped Pool of carriers still free to take a job.
package carrier
