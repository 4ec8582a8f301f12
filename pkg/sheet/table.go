package sheet

import (
	"context"

	"github.com/pkg/errors"
)

// Table addresses rows of one collection by their identifier instead of their position
type Table struct {
	Store      Store
	Collection Collection
}

// NewTable builds a Table for collection on top of store
func NewTable(store Store, collection Collection) *Table {
	return &Table{Store: store, Collection: collection}
}

// Rows reads all rows of the collection, tombstones included so positions stay intact
func (t *Table) Rows(ctx context.Context) ([]Row, error) {
	return t.Store.ReadRange(ctx, t.Collection)
}

// Live reads all rows of the collection that were not cleared
func (t *Table) Live(ctx context.Context) ([]Row, error) {
	rows, err := t.Rows(ctx)
	if err != nil {
		return nil, err
	}

	return Live(rows), nil
}

// Get returns the row with the given id
func (t *Table) Get(ctx context.Context, id string) (Row, error) {
	row, _, err := t.Find(ctx, id)
	return row, err
}

// Find reads the collection once and returns the row with the given id along with its position.
// The position is only meant to be handed back to UpdateAt.
func (t *Table) Find(ctx context.Context, id string) (Row, int, error) {
	rows, err := t.Rows(ctx)
	if err != nil {
		return nil, 0, err
	}

	position, err := Locate(id, rows)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "%s", t.Collection)
	}

	return rows[position-firstDataPosition], position, nil
}

// FindFunc is Find for the first row matching the predicate
func (t *Table) FindFunc(ctx context.Context, match func(row Row) bool) (Row, int, error) {
	rows, err := t.Rows(ctx)
	if err != nil {
		return nil, 0, err
	}

	position, err := LocateFunc(rows, match)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "%s", t.Collection)
	}

	return rows[position-firstDataPosition], position, nil
}

// Append adds a row after checking it matches the collection width
func (t *Table) Append(ctx context.Context, row Row) error {
	if len(row) != t.Collection.Width() {
		return &MalformedRowError{Collection: t.Collection, Column: len(row), Reason: "exceeds or misses the collection width"}
	}

	return t.Store.Append(ctx, t.Collection, row)
}

// UpdateField writes a single column of the row with the given id
func (t *Table) UpdateField(ctx context.Context, id string, column int, value string) error {
	rows, err := t.Rows(ctx)
	if err != nil {
		return err
	}

	position, err := Locate(id, rows)
	if err != nil {
		return errors.Wrapf(err, "%s", t.Collection)
	}

	return t.UpdateAt(ctx, position, column, value)
}

// UpdateAt writes a single column at a position returned by Find or FindFunc
func (t *Table) UpdateAt(ctx context.Context, position int, column int, value string) error {
	if column < 0 || column >= t.Collection.Width() {
		return &MalformedRowError{Collection: t.Collection, Column: column, Reason: "is out of range"}
	}

	return t.Store.UpdateCell(ctx, t.Collection, position, column, value)
}

// Clear blanks the row with the given id, leaving a tombstone
func (t *Table) Clear(ctx context.Context, id string) error {
	rows, err := t.Rows(ctx)
	if err != nil {
		return err
	}

	position, err := Locate(id, rows)
	if err != nil {
		return errors.Wrapf(err, "%s", t.Collection)
	}

	return t.Store.ClearRow(ctx, t.Collection, position)
}

// Live filters tombstones out of rows
func Live(rows []Row) []Row {
	live := make([]Row, 0, len(rows))
	for _, row := range rows {
		if row.IsTombstone() {
			continue
		}
		live = append(live, row)
	}
	return live
}
