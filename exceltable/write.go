package exceltable

import (
	"context"
	"io"

	"github.com/xuri/excelize/v2"
	"go.uber.org/multierr"

	"github.com/domonda/go-tablemaker"
)

// DefaultSheetName is the name of the sheet
// written by Write if no name is passed.
const DefaultSheetName = "Sheet1"

// Write writes doc as a single sheet Excel workbook to dest.
// The first row holds the column headings, checkbox cells
// are written as booleans and all other cells as strings.
func Write(ctx context.Context, dest io.Writer, doc *tablemaker.Document, sheetName string, richText tablemaker.RichText) (err error) {
	if sheetName == "" {
		sheetName = DefaultSheetName
	}
	f := excelize.NewFile()
	defer func() {
		err = multierr.Append(err, f.Close())
	}()
	if sheetName != DefaultSheetName {
		if err := f.SetSheetName(DefaultSheetName, sheetName); err != nil {
			return err
		}
	}

	headings := make([]any, doc.NumColumns())
	for col, heading := range doc.Headings() {
		headings[col] = heading
	}
	if err := f.SetSheetRow(sheetName, "A1", &headings); err != nil {
		return err
	}
	for row := range doc.Rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		values := make([]any, doc.NumColumns())
		for col := range values {
			value := doc.CellValue(row, col, richText)
			if value.Kind == tablemaker.KindToggle {
				values[col] = value.On
			} else {
				values[col] = value.String()
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, row+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return err
		}
	}
	_, err = f.WriteTo(dest)
	return err
}
