// Package htmltable renders the read-only HTML preview of a table field.
//
// The preview is a computed projection of a tablemaker.Document
// that is never stored: header cells carry the align and width
// attributes of the columns, body cells render each row's values
// in column order with the column's alignment.
//
// Cell values are HTML-escaped unless a formatter returns raw HTML.
// Rich-text cells are written as the markup of the normalized
// rich-text document.
//
// Example usage:
//
//	doc := tablemaker.FromStorage(storedJSON)
//	err := htmltable.NewWriter().
//	    WithTableClass("data").
//	    WithRichText(richText).
//	    Write(ctx, os.Stdout, doc)
package htmltable

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"io"
	"strings"

	"github.com/domonda/go-tablemaker"
)

// Writer writes a tablemaker.Document as HTML table.
//
// Writer is immutable after creation - all With* methods return
// a new Writer instance with the modified configuration.
type Writer struct {
	tableClass       string
	richText         tablemaker.RichText
	columnFormatters map[int]tablemaker.CellFormatter
	typeFormatters   tablemaker.TypeCellFormatters
	nilValue         template.HTML
	headerRow        bool
	headerTemplate   *template.Template
	rowTemplate      *template.Template
	footerTemplate   *template.Template
}

// NewWriter creates a new HTML table writer
// with a header row and without rich-text capability.
func NewWriter() *Writer {
	return &Writer{
		tableClass:       "",
		richText:         tablemaker.NoRichText,
		columnFormatters: make(map[int]tablemaker.CellFormatter),
		typeFormatters:   nil, // OK to use nil tablemaker.TypeCellFormatters
		nilValue:         "",
		headerRow:        true,
		headerTemplate:   HeaderTemplate,
		rowTemplate:      RowTemplate,
		footerTemplate:   FooterTemplate,
	}
}

// Write writes doc as HTML table to dest.
// The optional caption strings are joined with spaces.
//
// The cells are formatted by the following cascade:
//  1. Column-specific formatters (if configured for the column)
//  2. Type formatters for the effective column type
//  3. Rich-text markup or the escaped string of the cell value
func (w *Writer) Write(ctx context.Context, dest io.Writer, doc *tablemaker.Document, caption ...string) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	numCols := doc.NumColumns()
	templData := &RowTemplateContext{
		TemplateContext: TemplateContext{
			TableClass: w.tableClass,
			Caption:    strings.Join(caption, " "),
			HeaderRow:  w.headerRow,
			Columns:    make([]HeaderCell, numCols),
		},
		Cells: make([]RowCell, numCols),
	}
	for i, col := range doc.Columns {
		templData.Columns[i] = HeaderCell{
			Heading: col.Heading,
			Align:   string(col.Align.OrDefault()),
			Width:   col.Width,
		}
		templData.Cells[i].Align = string(col.Align.OrDefault())
	}

	err := w.headerTemplate.Execute(dest, templData.TemplateContext)
	if err != nil {
		return err
	}

	for row, numRows := 0, doc.NumRows(); row < numRows; row++ {
		for col := 0; col < numCols; col++ {
			templData.Cells[col].HTML, err = w.cellHTML(ctx, doc.NewCell(row, col, w.richText))
			if err != nil {
				return err
			}
		}
		templData.RowID = string(doc.Rows[row].ID)

		err = w.rowTemplate.Execute(dest, templData)
		if err != nil {
			return err
		}
		templData.RowIndex++
	}

	return w.footerTemplate.Execute(dest, templData.TemplateContext)
}

func (w *Writer) cellHTML(ctx context.Context, cell *tablemaker.Cell) (template.HTML, error) {
	if colFormatter, ok := w.columnFormatters[cell.Col]; ok {
		str, isRaw, err := colFormatter.FormatCell(ctx, cell)
		if err == nil {
			return htmlString(str, isRaw), nil
		}
		if !errors.Is(err, errors.ErrUnsupported) {
			return "", err
		}
	}

	str, isRaw, err := w.typeFormatters.FormatCell(ctx, cell)
	if err == nil {
		return htmlString(str, isRaw), nil
	}
	if !errors.Is(err, errors.ErrUnsupported) {
		return "", err
	}

	// In case of errors.ErrUnsupported
	// use fallback method of formatting
	switch {
	case cell.Raw == nil:
		return w.nilValue, nil
	case cell.Value.Kind == tablemaker.KindRichText:
		return htmlString(cell.Value.String(), true), nil
	}
	return htmlString(cell.Value.String(), false), nil
}

func htmlString(str string, isRaw bool) template.HTML {
	if !isRaw {
		str = template.HTMLEscapeString(str)
	}
	return template.HTML(str) //#nosec G203
}

// Preview returns the HTML table of doc
// using a default Writer with richText.
func Preview(doc *tablemaker.Document, richText tablemaker.RichText) template.HTML {
	var buf bytes.Buffer
	err := NewWriter().WithRichText(richText).Write(context.Background(), &buf, doc)
	if err != nil {
		return ""
	}
	return template.HTML(buf.String()) //#nosec G203
}

func (w *Writer) clone() *Writer {
	c := new(Writer)
	*c = *w
	return c
}

// WithHeaderRow returns a new writer with or without the thead header row.
func (w *Writer) WithHeaderRow(headerRow bool) *Writer {
	mod := w.clone()
	mod.headerRow = headerRow
	return mod
}

// WithTableClass returns a new writer with the specified CSS class for the table element.
// The class will be rendered as: <table class='tableClass'>
func (w *Writer) WithTableClass(tableClass string) *Writer {
	mod := w.clone()
	mod.tableClass = tableClass
	return mod
}

// WithRichText returns a new writer using richText
// to render the cells of rich-text columns.
// A nil richText is the same as tablemaker.NoRichText.
func (w *Writer) WithRichText(richText tablemaker.RichText) *Writer {
	if richText == nil {
		richText = tablemaker.NoRichText
	}
	mod := w.clone()
	mod.richText = richText
	return mod
}

// WithColumnFormatter returns a new writer with the formatter registered for the specified column.
// Column formatters take precedence over type formatters in the formatting cascade.
// If nil is passed as formatter, any previously registered formatter for this column is removed.
func (w *Writer) WithColumnFormatter(columnIndex int, formatter tablemaker.CellFormatter) *Writer {
	mod := w.clone()
	mod.columnFormatters = make(map[int]tablemaker.CellFormatter)
	for key, val := range w.columnFormatters {
		mod.columnFormatters[key] = val
	}
	if formatter != nil {
		mod.columnFormatters[columnIndex] = formatter
	} else {
		delete(mod.columnFormatters, columnIndex)
	}
	return mod
}

// WithColumnFormatterFunc returns a new writer with the formatter function registered for the specified column.
func (w *Writer) WithColumnFormatterFunc(columnIndex int, formatterFunc tablemaker.CellFormatterFunc) *Writer {
	return w.WithColumnFormatter(columnIndex, formatterFunc)
}

// WithRawColumn returns a new writer that writes the cell strings
// of the specified column as raw HTML.
//
// Warning: Only use this for trusted content to avoid XSS vulnerabilities.
func (w *Writer) WithRawColumn(columnIndex int) *Writer {
	return w.WithColumnFormatterFunc(columnIndex, func(ctx context.Context, cell *tablemaker.Cell) (string, bool, error) {
		return cell.Value.String(), true, nil
	})
}

// WithTypeFormatter returns a new writer with a formatter registered
// for cells of columns with the effective type t.
func (w *Writer) WithTypeFormatter(t tablemaker.FieldType, formatter tablemaker.CellFormatter) *Writer {
	mod := w.clone()
	mod.typeFormatters = w.typeFormatters.With(t, formatter)
	return mod
}

// WithNilValue returns a new writer with the specified HTML
// to use for cells without value.
func (w *Writer) WithNilValue(nilValue template.HTML) *Writer {
	mod := w.clone()
	mod.nilValue = nilValue
	return mod
}

// WithTemplate returns a new writer with custom templates for rendering the HTML table.
// The templates receive TemplateContext and RowTemplateContext respectively.
func (w *Writer) WithTemplate(tableTemplate, rowTemplate, footerTemplate *template.Template) *Writer {
	mod := w.clone()
	mod.headerTemplate = tableTemplate
	mod.rowTemplate = rowTemplate
	mod.footerTemplate = footerTemplate
	return mod
}

// TableClass returns the CSS class configured for the table element.
func (w *Writer) TableClass() string {
	return w.tableClass
}

// NilValue returns the HTML configured to be rendered for cells without value.
func (w *Writer) NilValue() template.HTML {
	return w.nilValue
}
