package sheet

import (
	"context"

	"github.com/pkg/errors"
)

// Collection names a flat row range in the backing store
type Collection string

const (
	// Tasks holds task rows
	Tasks Collection = "Tasks"
	// Users holds user rows
	Users Collection = "Users"
	// Remarks holds remark rows
	Remarks Collection = "Remarks"
	// WorkLogs holds work log rows
	WorkLogs Collection = "WorkLogs"
	// Reporting holds reporting edge rows
	Reporting Collection = "Reporting"
)

// Width returns the fixed column count of a collection
func (c Collection) Width() int {
	switch c {
	case Tasks:
		return 7
	case Users:
		return 5
	case Remarks, WorkLogs:
		return 4
	case Reporting:
		return 3
	}
	return 0
}

// HeaderRows is the number of header rows in front of the data of every collection
const HeaderRows = 1

// Row is a positional tuple of raw cells
type Row []string

// ID returns the identifier cell or an empty string for tombstones
func (r Row) ID() string {
	if len(r) == 0 {
		return ""
	}
	return r[0]
}

// IsTombstone reports whether the row was cleared
func (r Row) IsTombstone() bool {
	return r.ID() == ""
}

// Cell returns the cell at index or an empty string when the row is shorter
func (r Row) Cell(index int) string {
	if index < 0 || index >= len(r) {
		return ""
	}
	return r[index]
}

// ErrStoreUnavailable is returned when the backing store could not be reached
var ErrStoreUnavailable = errors.New("store unavailable")

// ErrNotFound is returned when an identifier is absent in a collection
var ErrNotFound = errors.New("not found")

// Store is the row store every backend has to implement.
// Positions are 1-based and include the header row, so the first data row is at position 2.
type Store interface {
	// ReadRange returns all data rows of a collection, header excluded, tombstones included
	ReadRange(ctx context.Context, collection Collection) ([]Row, error)
	// Append adds a row to the logical end of a collection
	Append(ctx context.Context, collection Collection, row Row) error
	// UpdateCell writes a single cell
	UpdateCell(ctx context.Context, collection Collection, position int, column int, value string) error
	// ClearRow blanks all cells of a row while keeping its position
	ClearRow(ctx context.Context, collection Collection, position int) error
}

// unavailable marks err as a transport failure of the store
func unavailable(err error, format string, args ...interface{}) error {
	return errors.Wrapf(&unavailableError{cause: err}, format, args...)
}

type unavailableError struct {
	cause error
}

func (e *unavailableError) Error() string {
	return ErrStoreUnavailable.Error() + ": " + e.cause.Error()
}

func (e *unavailableError) Is(target error) bool {
	return target == ErrStoreUnavailable
}

func (e *unavailableError) Unwrap() error {
	return e.cause
}
