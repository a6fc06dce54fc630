// Package services provides the domain services of the dispatch system.
//
// The package includes:
//   - AssignmentEngine: greedy one-job-per-carrier matching under a daily hour cap
//
// Services are pure: they perform no I/O and hold no state between calls.
package services
