// Package candidate holds the input side of an assignment run: one Record per
// (carrier, job) pair with the predicted handling time and the hours the
// carrier has already worked today.
package candidate
