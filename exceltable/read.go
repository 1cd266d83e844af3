// Package exceltable reads Excel sheets (.xlsx, .xlsm, .xltm, .xltx)
// into table documents and writes documents as Excel workbooks.
//
// The first row of a sheet holds the column headings,
// empty rows and empty edge columns are removed.
package exceltable

import (
	"bytes"
	"errors"
	"io"
	"strings"

	"github.com/ungerik/go-fs"
	"github.com/xuri/excelize/v2"
	"go.uber.org/multierr"

	"github.com/domonda/go-tablemaker"
	"github.com/domonda/go-tablemaker/csvtable"
)

// Sheet is a named sheet read as table document.
type Sheet struct {
	Name     string
	Document *tablemaker.Document
}

// ReadFirstSheet reads the first sheet of the Excel data from reader.
//
// If rawCellStrings is true, cell values are returned without
// applying the number format of the cell.
// Returns ErrEmptySheet if the sheet has no data.
func ReadFirstSheet(reader io.Reader, rawCellStrings bool, opts ...tablemaker.Option) (sheet *Sheet, err error) {
	f, e := excelize.OpenReader(reader)
	if e != nil {
		return nil, e
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()
	name := f.GetSheetName(0)
	if name == "" {
		return nil, ErrSheetNotExist{SheetName: "<FirstSheet>"}
	}
	return readSheet(f, name, rawCellStrings, opts)
}

// ReadSheet reads the sheet with name of the Excel data from reader.
func ReadSheet(reader io.Reader, name string, rawCellStrings bool, opts ...tablemaker.Option) (sheet *Sheet, err error) {
	f, e := excelize.OpenReader(reader)
	if e != nil {
		return nil, e
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()
	if idx, _ := f.GetSheetIndex(name); idx < 0 {
		return nil, ErrSheetNotExist{SheetName: name}
	}
	return readSheet(f, name, rawCellStrings, opts)
}

// Read reads all non empty sheets of the Excel data from reader.
func Read(reader io.Reader, rawCellStrings bool, opts ...tablemaker.Option) (sheets []*Sheet, err error) {
	f, e := excelize.OpenReader(reader)
	if e != nil {
		return nil, e
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()
	for _, name := range f.GetSheetList() {
		sheet, err := readSheet(f, name, rawCellStrings, opts)
		if err != nil {
			if errors.Is(err, ErrEmptySheet) {
				continue
			}
			return nil, err
		}
		sheets = append(sheets, sheet)
	}
	return sheets, nil
}

// ReadFile reads all non empty sheets of an Excel file.
func ReadFile(file fs.FileReader, rawCellStrings bool, opts ...tablemaker.Option) ([]*Sheet, error) {
	data, err := file.ReadAll()
	if err != nil {
		return nil, err
	}
	return Read(bytes.NewReader(data), rawCellStrings, opts...)
}

func readSheet(f *excelize.File, name string, rawCellStrings bool, opts []tablemaker.Option) (*Sheet, error) {
	rows, err := f.GetRows(name, excelize.Options{RawCellValue: rawCellStrings})
	if err != nil {
		return nil, err
	}
	rows = removeEmptyColumns(csvtable.RemoveEmptyRows(rows))
	if len(rows) == 0 {
		return nil, ErrEmptySheet
	}
	return &Sheet{
		Name:     name,
		Document: csvtable.FromRows(rows, opts...),
	}, nil
}

// removeEmptyColumns removes columns from the left and right edge
// that are empty in all rows.
func removeEmptyColumns(rows [][]string) [][]string {
	numCols := 0
	for _, row := range rows {
		numCols = max(numCols, len(row))
	}
	isEmpty := func(col int) bool {
		for _, row := range rows {
			if col < len(row) && strings.TrimSpace(row[col]) != "" {
				return false
			}
		}
		return true
	}
	left := 0
	for left < numCols && isEmpty(left) {
		left++
	}
	right := numCols
	for right > left && isEmpty(right-1) {
		right--
	}
	if left == right {
		return nil
	}
	for i, row := range rows {
		row = row[min(left, len(row)):min(right, len(row))]
		rows[i] = row
	}
	return rows
}
