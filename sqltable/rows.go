package sqltable

import "database/sql"

var _ Rows = &sql.Rows{}

// Rows abstracts the methods of *sql.Rows
// used to read a query result.
type Rows interface {
	// Columns returns the names of the result columns.
	Columns() ([]string, error)
	// Scan copies the values of the current row into dest.
	Scan(dest ...any) error
	// Close closes the Rows, it is idempotent.
	Close() error
	// Next prepares the next row for Scan.
	Next() bool
	// Err returns the error encountered during iteration.
	Err() error
}
