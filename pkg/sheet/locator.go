package sheet

import "github.com/pkg/errors"

// firstDataPosition is the store position of rows[0]
const firstDataPosition = HeaderRows + 1

// Locate finds the store position of the first row whose identifier equals id
func Locate(id string, rows []Row) (int, error) {
	if id == "" {
		return 0, errors.Wrap(ErrNotFound, "empty id")
	}

	position, err := LocateFunc(rows, func(row Row) bool {
		return row.ID() == id
	})
	if err != nil {
		return 0, errors.Wrapf(err, "id %s", id)
	}

	return position, nil
}

// LocateFunc finds the store position of the first row matching the predicate
func LocateFunc(rows []Row, match func(row Row) bool) (int, error) {
	for index, row := range rows {
		if match(row) {
			return index + firstDataPosition, nil
		}
	}

	return 0, ErrNotFound
}
