package sheet

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
)

// TimeLayout is the timestamp format of every time cell
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// ErrMalformedRow matches every *MalformedRowError
var ErrMalformedRow = errors.New("malformed row")

// MalformedRowError is returned when a row can not be decoded into an entity
type MalformedRowError struct {
	Collection Collection
	Column     int
	Reason     string
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("malformed %s row: column %d %s", e.Collection, e.Column, e.Reason)
}

// Is makes errors.Is(err, ErrMalformedRow) hold
func (e *MalformedRowError) Is(target error) bool {
	return target == ErrMalformedRow
}

// Decoder reads typed cells from a row and remembers the first failure
type Decoder struct {
	collection Collection
	row        Row
	err        error
}

// NewDecoder builds a Decoder for a single row
func NewDecoder(collection Collection, row Row) *Decoder {
	return &Decoder{collection: collection, row: row}
}

// Required returns the cell at column or records a failure if the row is too short to hold it
func (d *Decoder) Required(column int) string {
	if d.err != nil {
		return ""
	}
	if column >= len(d.row) {
		d.err = &MalformedRowError{Collection: d.collection, Column: column, Reason: "is missing"}
		return ""
	}
	return d.row[column]
}

// Optional returns the cell at column, absent cells decode to an empty string
func (d *Decoder) Optional(column int) string {
	return d.row.Cell(column)
}

// Time parses a required timestamp cell
func (d *Decoder) Time(column int) time.Time {
	raw := d.Required(column)
	if d.err != nil {
		return time.Time{}
	}
	parsed, err := ParseTime(raw)
	if err != nil {
		d.err = &MalformedRowError{Collection: d.collection, Column: column, Reason: "is not a timestamp"}
		return time.Time{}
	}
	return parsed
}

// NullableTime parses an optional timestamp cell, an absent or empty cell decodes to nil
func (d *Decoder) NullableTime(column int) *time.Time {
	raw := d.Optional(column)
	if raw == "" || d.err != nil {
		return nil
	}
	parsed, err := ParseTime(raw)
	if err != nil {
		d.err = &MalformedRowError{Collection: d.collection, Column: column, Reason: "is not a timestamp"}
		return nil
	}
	return &parsed
}

// Err returns the first failure
func (d *Decoder) Err() error {
	return d.err
}

// FormatTime formats a timestamp for a cell
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// FormatNullableTime formats an optional timestamp, nil encodes to an empty cell
func FormatNullableTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return FormatTime(*t)
}

// ParseTime parses a cell timestamp. Cells written by other clients may carry nanoseconds.
func ParseTime(raw string) (time.Time, error) {
	parsed, err := time.Parse(TimeLayout, raw)
	if err == nil {
		return parsed, nil
	}
	return time.Parse(time.RFC3339Nano, raw)
}
