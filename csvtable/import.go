package csvtable

import (
	"github.com/domonda/go-tablemaker"
)

// Import parses CSV data with detected format
// and returns it as table document.
// The first row holds the column headings.
func Import(data []byte, config *FormatDetectionConfig, opts ...tablemaker.Option) (*tablemaker.Document, *Format, error) {
	rows, format, err := ParseDetectFormat(data, config)
	if err != nil {
		return nil, nil, err
	}
	return FromRows(rows, opts...), format, nil
}

// ImportWithFormat parses CSV data with format
// and returns it as table document.
// The first row holds the column headings.
func ImportWithFormat(data []byte, format *Format, opts ...tablemaker.Option) (*tablemaker.Document, error) {
	rows, err := ParseWithFormat(data, format)
	if err != nil {
		return nil, err
	}
	return FromRows(rows, opts...), nil
}

// FromRows converts rows of strings to a table document
// with all columns of type singleline.
// The first row holds the column headings,
// empty rows are removed.
// The number of columns is the length of the longest row.
func FromRows(rows [][]string, opts ...tablemaker.Option) *tablemaker.Document {
	rows = RemoveEmptyRows(rows)
	if len(rows) == 0 {
		return tablemaker.NewDocument()
	}

	numCols := 0
	for _, row := range rows {
		numCols = max(numCols, len(row))
	}
	stored := tablemaker.Stored{
		Columns: make([]tablemaker.StoredColumn, numCols),
		Rows:    make([][]any, 0, len(rows)-1),
	}
	for col := range stored.Columns {
		stored.Columns[col] = tablemaker.StoredColumn{
			FieldType: tablemaker.FieldTypeSingleLine,
			Align:     tablemaker.AlignLeft,
		}
		if col < len(rows[0]) {
			stored.Columns[col].Heading = rows[0][col]
		}
	}
	for _, row := range rows[1:] {
		cells := make([]any, numCols)
		for col := range cells {
			if col < len(row) {
				cells[col] = row[col]
			} else {
				cells[col] = ""
			}
		}
		stored.Rows = append(stored.Rows, cells)
	}
	return tablemaker.FromStorage(stored, opts...)
}
