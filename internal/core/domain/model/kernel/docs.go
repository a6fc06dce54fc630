// Package kernel provides the value objects shared across the dispatch domain.
//
// The package includes:
//   - CarrierID and JobID: identifiers of the two sides of an assignment
//   - RunID: a UUID naming one assignment batch
//   - GeoPoint: a validated latitude/longitude pair with great-circle helpers
//
// All types are immutable and their zero values fail Validate.
package kernel
