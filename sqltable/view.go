package sqltable

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"time"

	"github.com/domonda/go-tablemaker"
)

// ScanRowsAsDocument reads a query result as table document
// with the result column names as headings.
// Values are stored as strings, NULL as empty string.
func ScanRowsAsDocument(ctx context.Context, rows Rows, opts ...tablemaker.Option) (*tablemaker.Document, error) {
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	stored := tablemaker.Stored{
		Columns: make([]tablemaker.StoredColumn, len(columns)),
		Rows:    [][]any{},
	}
	for i, name := range columns {
		stored.Columns[i] = tablemaker.StoredColumn{
			Heading:   name,
			FieldType: tablemaker.FieldTypeSingleLine,
			Align:     tablemaker.AlignLeft,
		}
	}

	for rows.Next() {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		scannedValues := make([]any, len(columns))
		valueScanners := make([]any, len(columns))
		for i := range valueScanners {
			valueScanners[i] = valueScanner{&scannedValues[i]}
		}
		if err = rows.Scan(valueScanners...); err != nil {
			return nil, err
		}
		for i, val := range scannedValues {
			scannedValues[i] = cellString(val)
		}
		stored.Rows = append(stored.Rows, scannedValues)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return tablemaker.FromStorage(stored, opts...), nil
}

// Query runs a query and returns its result as table document.
func (s *Store) Query(ctx context.Context, query string, args ...any) (*tablemaker.Document, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return ScanRowsAsDocument(ctx, rows, tablemaker.WithLogger(s.logger))
}

func cellString(val any) string {
	switch x := val.(type) {
	case nil:
		return ""
	case []byte:
		return string(x)
	case time.Time:
		return x.Format(time.RFC3339)
	}
	return fmt.Sprint(val)
}

var _ sql.Scanner = new(valueScanner)

type valueScanner struct {
	dest *any
}

// Scan implements the database/sql.Scanner interface.
func (s valueScanner) Scan(src any) error {
	if b, ok := src.([]byte); ok {
		// Copy bytes because they won't be valid after this method call
		src = slices.Clone(b)
	}
	*s.dest = src
	return nil
}
