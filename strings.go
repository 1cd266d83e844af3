package tablemaker

import (
	"context"
	"errors"
	"unicode/utf8"
)

// Strings returns the cells of doc formatted as strings
// with an optional first row of column headings.
//
// The cells are formatted by formatters and if they
// don't support a cell by the string of its CellValue.
// A nil formatter is valid.
func Strings(ctx context.Context, doc *Document, addHeaderRow bool, richText RichText, formatters CellFormatter) (rows [][]string, err error) {
	if addHeaderRow {
		rows = append(rows, doc.Headings())
	}
	for row := range doc.Rows {
		rowStrs := make([]string, len(doc.Columns))
		for col := range doc.Columns {
			rowStrs[col], err = cellString(ctx, doc.NewCell(row, col, richText), formatters)
			if err != nil {
				return nil, err
			}
		}
		rows = append(rows, rowStrs)
	}
	return rows, nil
}

func cellString(ctx context.Context, cell *Cell, formatter CellFormatter) (string, error) {
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	if formatter != nil {
		str, _, err := formatter.FormatCell(ctx, cell)
		if err == nil {
			return str, nil
		}
		if !errors.Is(err, errors.ErrUnsupported) {
			return "", err
		}
	}

	// In case of errors.ErrUnsupported
	// use the cell value
	return cell.Value.String(), nil
}

// StringColumnWidths returns the column widths of the passed
// table as count of UTF-8 runes.
// A negative numCols uses the maximum row length.
func StringColumnWidths(rows [][]string, numCols int) []int {
	if numCols < 0 {
		for _, row := range rows {
			if rowCols := len(row); rowCols > numCols {
				numCols = rowCols
			}
		}
		if numCols <= 0 {
			return nil
		}
	}
	colWidths := make([]int, numCols)
	for row := range rows {
		for col := 0; col < numCols && col < len(rows[row]); col++ {
			numRunes := utf8.RuneCountInString(rows[row][col])
			if numRunes > colWidths[col] {
				colWidths[col] = numRunes
			}
		}
	}
	return colWidths
}
