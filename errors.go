package tablemaker

import "errors"

var (
	// ErrColumnNotFound is returned by grid operations
	// for a column id that is not part of the grid.
	ErrColumnNotFound = errors.New("column not found")

	// ErrRowNotFound is returned by grid operations
	// for a row id that is not part of the grid.
	ErrRowNotFound = errors.New("row not found")

	// ErrIndexOutOfRange is returned when moving
	// a column or row to an invalid index.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrGridDestroyed is returned by operations
	// on a RowsGrid after Destroy was called.
	ErrGridDestroyed = errors.New("grid destroyed")
)
