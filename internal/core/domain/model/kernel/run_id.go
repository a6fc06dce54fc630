package kernel

import (
	"fmt"

	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
)

// ErrRunIDIsNotConstructed is returned when validating a zero-value RunID.
var ErrRunIDIsNotConstructed = errs.NewValueIsRequiredError("RunID must be created via NewRunID or RunIDFromString")

// RunID identifies one assignment batch. It shows up in output object keys,
// log lines and API responses so a batch can be traced end to end.
type RunID struct {
	id uuid.UUID
}

// NewRunID generates a random (version 4) run identifier.
func NewRunID() RunID {
	return RunID{id: uuid.New()}
}

// RunIDFromString parses a run identifier in any format accepted by uuid.Parse.
//
// Example:
//
//	id, err := kernel.RunIDFromString("550e8400-e29b-41d4-a716-446655440000")
//	if err != nil {
//	    return fmt.Errorf("invalid run id: %w", err)
//	}
func RunIDFromString(s string) (RunID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return RunID{}, fmt.Errorf("invalid UUID format: %w", err)
	}
	runID := RunID{id: id}
	if err = runID.Validate(); err != nil {
		return RunID{}, err
	}
	return runID, nil
}

func (r RunID) String() string {
	return r.id.String()
}

// IsEqual reports whether both ids hold the same value.
func (r RunID) IsEqual(other RunID) bool {
	return r.id == other.id
}

// Validate rejects the zero value and the nil UUID.
func (r RunID) Validate() error {
	if r.id == uuid.Nil {
		return ErrRunIDIsNotConstructed
	}
	return nil
}
