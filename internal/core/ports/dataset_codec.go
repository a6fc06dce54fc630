package ports

import (
	"io"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/candidate"
	"dispatch/internal/core/domain/model/kernel"
)

// DecodeOptions tune how a candidate dataset is read.
type DecodeOptions struct {
	// DeriveJobIDs assigns job_id = row / distinct carriers when the dataset
	// has no job_id column. It assumes fixed-size contiguous carrier groups.
	DeriveJobIDs bool

	// Hours supplies carrier_hours_worked when the column is absent.
	// Carriers missing from the map get 0. Nil means the column is required.
	Hours map[kernel.CarrierID]float64
}

// DatasetCodec converts between serialized datasets and domain values.
type DatasetCodec interface {
	// Decode returns every record of the dataset or an error wrapping
	// candidate.ErrInvalidInput. It never returns partial data.
	Decode(r io.Reader, opts DecodeOptions) ([]candidate.Record, error)

	// Encode serializes results in order.
	Encode(results []assignment.Result) ([]byte, error)

	// Extension is the file extension (with dot) of encoded output.
	Extension() string
}
