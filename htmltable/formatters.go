package htmltable

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"strings"

	"github.com/domonda/go-tablemaker"
)

var (
	HTMLPreCellFormatter tablemaker.CellFormatterFunc = func(ctx context.Context, cell *tablemaker.Cell) (str string, raw bool, err error) {
		value := template.HTMLEscapeString(cell.Value.String())
		return "<pre>" + value + "</pre>", true, nil
	}

	HTMLCodeCellFormatter tablemaker.CellFormatterFunc = func(ctx context.Context, cell *tablemaker.Cell) (str string, raw bool, err error) {
		value := template.HTMLEscapeString(cell.Value.String())
		return "<code>" + value + "</code>", true, nil
	}

	// ValueAsHTMLAnchorCellFormatter escapes the cell value for HTML
	// and returns an HTML anchor element with the
	// value as id and inner text.
	ValueAsHTMLAnchorCellFormatter tablemaker.CellFormatterFunc = func(ctx context.Context, cell *tablemaker.Cell) (str string, raw bool, err error) {
		value := template.HTMLEscapeString(cell.Value.String())
		return fmt.Sprintf("<a id='%[1]s'>%[1]s</a>", value), true, nil
	}

	// CheckmarkCellFormatter renders lightswitch cells as check mark.
	CheckmarkCellFormatter = tablemaker.ToggleCellFormatter{On: "&#10003;", Off: ""}

	_ tablemaker.CellFormatter = JSONCellFormatter("")
	_ tablemaker.CellFormatter = HTMLSpanClassCellFormatter("")
)

// JSONCellFormatter formats cells holding JSON text
// as indented JSON within a pre element.
// The string value is used as indent,
// an empty string formats compact JSON.
// Empty cells are formatted as empty string.
type JSONCellFormatter string

func (indent JSONCellFormatter) FormatCell(ctx context.Context, cell *tablemaker.Cell) (str string, raw bool, err error) {
	src := strings.TrimSpace(cell.Value.String())
	if src == "" {
		return "", false, nil
	}
	buf := bytes.NewBufferString("<pre>")
	if indent == "" {
		err = json.Compact(buf, []byte(src))
	} else {
		err = json.Indent(buf, []byte(src), "", string(indent))
	}
	if err != nil {
		return "", false, err
	}
	buf.WriteString("</pre>")
	return buf.String(), true, nil
}

// HTMLSpanClassCellFormatter formats the cell value within an HTML span element
// with the class of the underlying string value.
type HTMLSpanClassCellFormatter string

func (class HTMLSpanClassCellFormatter) FormatCell(ctx context.Context, cell *tablemaker.Cell) (str string, raw bool, err error) {
	text := template.HTMLEscapeString(cell.Value.String())
	return fmt.Sprintf("<span class='%s'>%s</span>", class, text), true, nil
}
