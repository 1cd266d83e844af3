package csvtable

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/domonda/go-tablemaker"
)

// Encoder is an interface to encode byte strings.
type Encoder interface {
	Bytes([]byte) ([]byte, error)
}

// EncoderFunc implements the Encoder interface for a function.
type EncoderFunc func([]byte) ([]byte, error)

func (f EncoderFunc) Bytes(data []byte) ([]byte, error) {
	return f(data)
}

// PassthroughEncoder returns an Encoder that returns the passed data unchanged.
func PassthroughEncoder() Encoder {
	return EncoderFunc(func(data []byte) ([]byte, error) {
		return data, nil
	})
}

type Padding int

const (
	NoPadding Padding = iota
	AlignLeft
	AlignRight
	AlignCenter
	// AlignColumn pads every column
	// according to the column's align setting.
	AlignColumn
)

// Writer writes a tablemaker.Document as CSV.
// All With* methods return a modified copy.
type Writer struct {
	richText         tablemaker.RichText
	columnFormatters map[int]tablemaker.CellFormatter
	typeFormatters   tablemaker.TypeCellFormatters
	padding          Padding
	headerRow        bool
	quoteAllFields   bool
	quoteEmptyFields bool
	escapeQuotes     string
	nilValue         string
	delimiter        rune
	newLine          string
	encoder          Encoder
}

func NewWriter() *Writer {
	return &Writer{
		richText:         tablemaker.NoRichText,
		columnFormatters: make(map[int]tablemaker.CellFormatter),
		typeFormatters:   nil, // OK to use nil tablemaker.TypeCellFormatters
		padding:          NoPadding,
		headerRow:        true,
		quoteAllFields:   false,
		quoteEmptyFields: false,
		escapeQuotes:     `""`,
		nilValue:         "",
		delimiter:        ';',
		newLine:          "\r\n",
		encoder:          nil,
	}
}

// NewWriterWithFormat returns a Writer using the
// separator and newline of format.
func NewWriterWithFormat(format *Format) (*Writer, error) {
	if err := format.Validate(); err != nil {
		return nil, err
	}
	w := NewWriter()
	w.delimiter = rune(format.Separator[0])
	w.newLine = format.Newline
	return w, nil
}

func (w *Writer) clone() *Writer {
	c := new(Writer)
	*c = *w
	return c
}

// Write writes doc to dest formatted as CSV.
func (w *Writer) Write(ctx context.Context, dest io.Writer, doc *tablemaker.Document) error {
	rows, err := w.Strings(ctx, doc)
	if err != nil {
		return err
	}

	var colWidths []int
	if w.padding != NoPadding {
		colWidths = tablemaker.StringColumnWidths(rows, doc.NumColumns())
	}

	rowBuf := bytes.NewBuffer(make([]byte, 0, 1024))
	for _, rowStrs := range rows {
		for col, str := range rowStrs {
			if col > 0 {
				rowBuf.WriteRune(w.delimiter)
			}
			if colWidths == nil {
				rowBuf.WriteString(str)
				continue
			}
			padLeft, padRight := w.pad(colWidths[col]-utf8.RuneCountInString(str), doc.Columns[col].Align)
			rowBuf.WriteString(strings.Repeat(" ", padLeft))
			rowBuf.WriteString(str)
			rowBuf.WriteString(strings.Repeat(" ", padRight))
		}
		rowBuf.WriteString(w.newLine)

		if w.encoder != nil {
			// Read, encode, and write back the buffered row
			encoded, err := w.encoder.Bytes(rowBuf.Bytes())
			if err != nil {
				return err
			}
			rowBuf.Reset()
			rowBuf.Write(encoded)
		}

		_, err = dest.Write(rowBuf.Bytes())
		if err != nil {
			return err
		}
		rowBuf.Reset()
	}
	return nil
}

func (w *Writer) pad(padTotal int, align tablemaker.Align) (padLeft, padRight int) {
	padding := w.padding
	if padding == AlignColumn {
		switch align.OrDefault() {
		case tablemaker.AlignRight:
			padding = AlignRight
		case tablemaker.AlignCenter:
			padding = AlignCenter
		default:
			padding = AlignLeft
		}
	}
	switch padding {
	case AlignLeft:
		return 0, padTotal
	case AlignRight:
		return padTotal, 0
	case AlignCenter:
		return padTotal / 2, (padTotal + 1) / 2
	}
	return 0, 0
}

// Strings returns the escaped CSV fields of doc
// including the header row if enabled.
func (w *Writer) Strings(ctx context.Context, doc *tablemaker.Document) ([][]string, error) {
	rows := make([][]string, 0, doc.NumRows()+1)
	if w.headerRow {
		headings := doc.Headings()
		for i := range headings {
			headings[i] = w.escapeString(headings[i], false)
		}
		rows = append(rows, headings)
	}
	for row := range doc.Rows {
		rowStrs := make([]string, doc.NumColumns())
		for col := range doc.Columns {
			var err error
			rowStrs[col], err = w.cellString(ctx, doc.NewCell(row, col, w.richText))
			if err != nil {
				return nil, err
			}
		}
		rows = append(rows, rowStrs)
	}
	return rows, nil
}

func (w *Writer) cellString(ctx context.Context, cell *tablemaker.Cell) (string, error) {
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	if colFormatter, ok := w.columnFormatters[cell.Col]; ok {
		str, isRaw, err := colFormatter.FormatCell(ctx, cell)
		if err == nil {
			return w.escapeString(str, isRaw), nil
		}
		if !errors.Is(err, errors.ErrUnsupported) {
			return "", err
		}
		// Continue after errors.ErrUnsupported
	}

	str, isRaw, err := w.typeFormatters.FormatCell(ctx, cell)
	if err == nil {
		return w.escapeString(str, isRaw), nil
	}
	if !errors.Is(err, errors.ErrUnsupported) {
		return "", err
	}

	if cell.Raw == nil {
		return w.escapeString(w.nilValue, false), nil
	}
	return w.escapeString(cell.Value.String(), false), nil
}

func (w *Writer) escapeString(str string, isRaw bool) string {
	if isRaw {
		return str
	}
	// Just in case remove all \r,
	// \n alone is valid within quotes
	str = strings.ReplaceAll(str, "\r", "")
	switch {
	case w.quoteAllFields || strings.ContainsRune(str, w.delimiter) || strings.ContainsRune(str, '\n') || strings.ContainsRune(str, '"'):
		return `"` + strings.ReplaceAll(str, `"`, w.escapeQuotes) + `"`
	case w.quoteEmptyFields && str == "":
		return `""`
	}
	return str
}

// Export writes doc as CSV with a header row using format.
// A nil format uses semicolon separated UTF-8 with \r\n line endings.
func Export(ctx context.Context, dest io.Writer, doc *tablemaker.Document, format *Format, richText tablemaker.RichText) error {
	if format == nil {
		format = NewFormat(";")
	}
	w, err := NewWriterWithFormat(format)
	if err != nil {
		return err
	}
	if format.Encoding != "UTF-8" {
		return errors.New("csvtable.Export supports only UTF-8 encoding, use Writer.WithEncoder for other encodings")
	}
	return w.WithRichText(richText).Write(ctx, dest, doc)
}

func (w *Writer) WithHeaderRow(headerRow bool) *Writer {
	mod := w.clone()
	mod.headerRow = headerRow
	return mod
}

// WithRichText returns a new writer that types the
// cells of html columns using richText.
func (w *Writer) WithRichText(richText tablemaker.RichText) *Writer {
	if richText == nil {
		richText = tablemaker.NoRichText
	}
	mod := w.clone()
	mod.richText = richText
	return mod
}

// WithColumnFormatter returns a new writer with the passed formatter registered for columnIndex.
// If nil is passed as formatter, then a previous registered column formatter is removed.
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

// WithColumnFormatterFunc returns a new writer with the passed formatterFunc registered for columnIndex.
// If nil is passed as formatterFunc, then a previous registered column formatter is removed.
func (w *Writer) WithColumnFormatterFunc(columnIndex int, formatterFunc tablemaker.CellFormatterFunc) *Writer {
	if formatterFunc == nil {
		return w.WithColumnFormatter(columnIndex, nil)
	}
	return w.WithColumnFormatter(columnIndex, formatterFunc)
}

func (w *Writer) WithTypeFormatter(t tablemaker.FieldType, fmt tablemaker.CellFormatter) *Writer {
	mod := w.clone()
	mod.typeFormatters = w.typeFormatters.With(t, fmt)
	return mod
}

func (w *Writer) WithPadding(padding Padding) *Writer {
	mod := w.clone()
	mod.padding = padding
	return mod
}

func (w *Writer) WithQuoteAllFields(quoteAllFields bool) *Writer {
	mod := w.clone()
	mod.quoteAllFields = quoteAllFields
	return mod
}

func (w *Writer) WithQuoteEmptyFields(quoteEmptyFields bool) *Writer {
	mod := w.clone()
	mod.quoteEmptyFields = quoteEmptyFields
	return mod
}

func (w *Writer) WithNilValue(nilValue string) *Writer {
	mod := w.clone()
	mod.nilValue = nilValue
	return mod
}

func (w *Writer) WithEscapeQuotes(escapeQuotes string) *Writer {
	mod := w.clone()
	mod.escapeQuotes = escapeQuotes
	return mod
}

func (w *Writer) WithDelimiter(delimiter rune) *Writer {
	mod := w.clone()
	mod.delimiter = delimiter
	return mod
}

func (w *Writer) WithNewLine(newLine string) *Writer {
	mod := w.clone()
	mod.newLine = newLine
	return mod
}

func (w *Writer) WithEncoder(encoder Encoder) *Writer {
	mod := w.clone()
	mod.encoder = encoder
	return mod
}

func (w *Writer) HeaderRow() bool        { return w.headerRow }
func (w *Writer) QuoteAllFields() bool   { return w.quoteAllFields }
func (w *Writer) QuoteEmptyFields() bool { return w.quoteEmptyFields }
func (w *Writer) Delimiter() rune        { return w.delimiter }
func (w *Writer) EscapeQuotes() string   { return w.escapeQuotes }
func (w *Writer) NilValue() string       { return w.nilValue }
func (w *Writer) NewLine() string        { return w.newLine }
func (w *Writer) Encoder() Encoder       { return w.encoder }
