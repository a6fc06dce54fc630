package kernel

import (
	"strings"

	"dispatch/internal/pkg/errs"
)

// CarrierID identifies a carrier (vehicle or driver). Carrier ids come from
// upstream prediction files and the roster, so they are free-form strings
// such as "C1".
type CarrierID string

// NewCarrierID trims surrounding whitespace and rejects empty ids.
func NewCarrierID(raw string) (CarrierID, error) {
	id := CarrierID(strings.TrimSpace(raw))
	if err := id.Validate(); err != nil {
		return "", err
	}
	return id, nil
}

// Validate rejects the empty id.
func (c CarrierID) Validate() error {
	if c == "" {
		return errs.NewValueIsRequiredError("carrier_id")
	}
	return nil
}

func (c CarrierID) String() string {
	return string(c)
}

// JobID identifies a job. Every distinct JobID in a batch yields exactly one
// assignment result.
type JobID int64

func (j JobID) Int64() int64 {
	return int64(j)
}
