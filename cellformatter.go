package tablemaker

import (
	"context"
	"errors"
	"fmt"
)

// Cell is one cell of a Document as seen by a CellFormatter.
type Cell struct {
	Document *Document
	Column   *Column
	Row      int
	Col      int
	// Raw is the looked up raw value, nil if the row has none
	Raw any
	// Value is Raw typed by the effective type of Column
	Value CellValue
}

// NewCell returns the cell at row and col of doc
// or nil if the position is out of range.
func (doc *Document) NewCell(row, col int, richText RichText) *Cell {
	if row < 0 || row >= len(doc.Rows) || col < 0 || col >= len(doc.Columns) {
		return nil
	}
	raw, _ := doc.Cell(row, col)
	return &Cell{
		Document: doc,
		Column:   &doc.Columns[col],
		Row:      row,
		Col:      col,
		Raw:      raw,
		Value:    CellValueOf(doc.Columns[col].EffectiveType(richTextAvailable(richText)), raw, richText),
	}
}

// CellFormatter is an interface for formatting cells as strings.
type CellFormatter interface {
	// FormatCell formats a cell as string
	// or returns a wrapped errors.ErrUnsupported error if
	// it doesn't support formatting the value of the cell.
	// The raw result indicates if the returned string
	// is in the raw format of the table format and can be
	// used as is or if it has to be sanitized in some way.
	FormatCell(ctx context.Context, cell *Cell) (str string, raw bool, err error)
}

// CellFormatterFunc implements CellFormatter for a function.
type CellFormatterFunc func(ctx context.Context, cell *Cell) (str string, raw bool, err error)

func (f CellFormatterFunc) FormatCell(ctx context.Context, cell *Cell) (str string, raw bool, err error) {
	return f(ctx, cell)
}

// PrintfCellFormatter implements CellFormatter by calling
// fmt.Sprintf with this type's string value as format
// and the cell value's string as argument.
type PrintfCellFormatter string

func (format PrintfCellFormatter) FormatCell(ctx context.Context, cell *Cell) (str string, raw bool, err error) {
	return fmt.Sprintf(string(format), cell.Value.String()), false, nil
}

// RawCellString implements CellFormatter by returning
// the underlying string as raw value.
type RawCellString string

func (rawStr RawCellString) FormatCell(ctx context.Context, cell *Cell) (str string, raw bool, err error) {
	return string(rawStr), true, nil
}

// ToggleCellFormatter formats Toggle cells
// with the On or Off string.
type ToggleCellFormatter struct {
	On  string
	Off string
}

func (f ToggleCellFormatter) FormatCell(ctx context.Context, cell *Cell) (str string, raw bool, err error) {
	if cell.Value.Kind != KindToggle {
		return "", false, fmt.Errorf("ToggleCellFormatter for %s cell: %w", cell.Value.Kind, errors.ErrUnsupported)
	}
	if cell.Value.On {
		return f.On, false, nil
	}
	return f.Off, false, nil
}

// TypeCellFormatters maps the effective column type to a CellFormatter.
// It returns errors.ErrUnsupported for types without formatter.
// A nil TypeCellFormatters is valid and supports no type.
type TypeCellFormatters map[FieldType]CellFormatter

func (f TypeCellFormatters) FormatCell(ctx context.Context, cell *Cell) (str string, raw bool, err error) {
	var t FieldType
	switch cell.Value.Kind {
	case KindToggle:
		t = FieldTypeCheckbox
	case KindRichText:
		t = FieldTypeHTML
	default:
		t = FieldTypeSingleLine
	}
	formatter, ok := f[t]
	if !ok {
		return "", false, fmt.Errorf("no formatter for %s cell: %w", t, errors.ErrUnsupported)
	}
	return formatter.FormatCell(ctx, cell)
}

// With returns a copy of f with formatter registered for t.
// A nil formatter removes the registration.
func (f TypeCellFormatters) With(t FieldType, formatter CellFormatter) TypeCellFormatters {
	mod := make(TypeCellFormatters, len(f)+1)
	for key, val := range f {
		mod[key] = val
	}
	if formatter != nil {
		mod[t] = formatter
	} else {
		delete(mod, t)
	}
	return mod
}
