// Package csvdataset reads candidate datasets and writes assignment results as CSV,
// the format exchanged with the prediction step through object storage.
package csvdataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/candidate"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

const (
	colCarrierID   = "carrier_id"
	colJobID       = "job_id"
	colHoursWorked = "carrier_hours_worked"
)

// timeColumn is an accepted spelling of the predicted time column and the
// factor converting it to minutes.
type timeColumn struct {
	name      string
	toMinutes float64
}

// timeColumns are tried in order; the first present wins.
var timeColumns = []timeColumn{
	{name: "predicted_time_minutes", toMinutes: 1},
	{name: "p90_time_min", toMinutes: 1},
	{name: "predicted_time_min", toMinutes: 1},
	{name: "predicted_time_sec", toMinutes: 1.0 / 60.0},
}

// ResultHeader is the column layout of encoded results.
var ResultHeader = []string{"job_id", "carrier_id", "predicted_time_minutes", "carrier_hours_before", "reason"}

// Codec implements ports.DatasetCodec for comma separated files with a header row.
type Codec struct{}

func NewCodec() Codec {
	return Codec{}
}

func (Codec) Extension() string {
	return ".csv"
}

type layout struct {
	carrier int
	job     int
	hours   int
	time    int
	factor  float64
}

type row struct {
	line    int
	carrier string
	job     string
	time    string
	hours   string
}

// Decode reads the whole dataset before building any record so that a bad
// row anywhere rejects the batch. An empty stream decodes to no records.
func (c Codec) Decode(r io.Reader, opts ports.DecodeOptions) ([]candidate.Record, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []candidate.Record{}, nil
	}
	if err != nil {
		return nil, invalid(0, err)
	}

	cols, err := resolveLayout(header, opts)
	if err != nil {
		return nil, invalid(1, err)
	}

	rows, err := readRows(reader, cols)
	if err != nil {
		return nil, err
	}

	perJob := distinctCarriers(rows)
	records := make([]candidate.Record, 0, len(rows))

	for i, rw := range rows {
		rec, recErr := buildRecord(i, rw, cols, perJob, opts)
		if recErr != nil {
			return nil, invalid(rw.line, recErr)
		}
		records = append(records, rec)
	}

	return records, nil
}

// Encode writes ResultHeader and one line per result. Unassigned jobs leave the
// carrier and time columns empty and fill reason.
func (c Codec) Encode(results []assignment.Result) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(ResultHeader); err != nil {
		return nil, err
	}

	for _, res := range results {
		line := []string{strconv.FormatInt(res.JobID().Int64(), 10), "", "", "", res.Reason()}
		if id, ok := res.CarrierID(); ok {
			line[1] = id.String()
			line[2] = formatFloat(res.PredictedMinutes())
			line[3] = formatFloat(res.HoursBefore())
		}
		if err := w.Write(line); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func resolveLayout(header []string, opts ports.DecodeOptions) (layout, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\uFEFF")))
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	cols := layout{carrier: -1, job: -1, hours: -1, time: -1}
	var missing []error

	if i, ok := index[colCarrierID]; ok {
		cols.carrier = i
	} else {
		missing = append(missing, errs.NewValueIsRequiredError(colCarrierID))
	}

	if i, ok := index[colJobID]; ok {
		cols.job = i
	} else if !opts.DeriveJobIDs {
		missing = append(missing, errs.NewValueIsRequiredError(colJobID))
	}

	for _, tc := range timeColumns {
		if i, ok := index[tc.name]; ok {
			cols.time = i
			cols.factor = tc.toMinutes
			break
		}
	}
	if cols.time < 0 {
		missing = append(missing, errs.NewValueIsRequiredError(timeColumns[0].name))
	}

	if i, ok := index[colHoursWorked]; ok {
		cols.hours = i
	} else if opts.Hours == nil {
		missing = append(missing, errs.NewValueIsRequiredError(colHoursWorked))
	}

	if len(missing) > 0 {
		return layout{}, errors.Join(missing...)
	}
	return cols, nil
}

func readRows(reader *csv.Reader, cols layout) ([]row, error) {
	var rows []row
	line := 1

	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		line++
		if err != nil {
			return nil, invalid(line, err)
		}

		rw := row{
			line:    line,
			carrier: fields[cols.carrier],
			time:    fields[cols.time],
		}
		if cols.job >= 0 {
			rw.job = fields[cols.job]
		}
		if cols.hours >= 0 {
			rw.hours = fields[cols.hours]
		}
		rows = append(rows, rw)
	}
}

func buildRecord(index int, rw row, cols layout, perJob int, opts ports.DecodeOptions) (candidate.Record, error) {
	carrierID, err := kernel.NewCarrierID(rw.carrier)
	if err != nil {
		return candidate.Record{}, err
	}

	var jobID kernel.JobID
	if cols.job >= 0 {
		jobID, err = parseJobID(rw.job)
		if err != nil {
			return candidate.Record{}, err
		}
	} else {
		jobID = kernel.JobID(index / perJob)
	}

	raw, err := parseNumber(timeColumns[0].name, rw.time)
	if err != nil {
		return candidate.Record{}, err
	}
	minutes := raw * cols.factor

	var hours float64
	if cols.hours >= 0 {
		hours, err = parseNumber(colHoursWorked, rw.hours)
		if err != nil {
			return candidate.Record{}, err
		}
	} else {
		hours = opts.Hours[carrierID]
	}

	return candidate.NewRecord(carrierID, jobID, minutes, hours)
}

// parseJobID accepts integers and integral floats ("3.0"), as spreadsheet
// exports often write ids as floats.
func parseJobID(s string) (kernel.JobID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errs.NewValueIsRequiredError(colJobID)
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return kernel.JobID(n), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, errs.NewValueIsInvalidErrorWithCause(colJobID, fmt.Errorf("%q is not an integer", s))
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, errs.NewValueIsOutOfRangeError(colJobID, s, int64(math.MinInt64), int64(math.MaxInt64))
	}
	return kernel.JobID(int64(f)), nil
}

func parseNumber(name, s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errs.NewValueIsRequiredError(name)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errs.NewValueIsInvalidErrorWithCause(name, fmt.Errorf("%q is not a number", s))
	}
	return f, nil
}

func distinctCarriers(rows []row) int {
	seen := make(map[string]struct{}, len(rows))
	for _, rw := range rows {
		seen[strings.TrimSpace(rw.carrier)] = struct{}{}
	}
	return max(1, len(seen))
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func invalid(line int, err error) error {
	return fmt.Errorf("%w: line %d: %w", candidate.ErrInvalidInput, line, err)
}
