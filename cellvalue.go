package tablemaker

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// CellKind tags the variant held by a CellValue.
type CellKind int

const (
	// KindPlainText holds a string.
	KindPlainText CellKind = iota
	// KindToggle holds a bool.
	KindToggle
	// KindRichText holds a RichTextDocument.
	KindRichText
)

func (k CellKind) String() string {
	switch k {
	case KindPlainText:
		return "PlainText"
	case KindToggle:
		return "Toggle"
	case KindRichText:
		return "RichText"
	default:
		return fmt.Sprintf("CellKind(%d)", int(k))
	}
}

// CellValue is the typed view of one raw cell value.
//
// Rows store raw values only, the kind is derived
// from the effective type of the owning column at read time
// by the CellValueOf function.
type CellValue struct {
	Kind CellKind
	Text string
	On   bool
	Doc  RichTextDocument
}

// CellValueOf returns the typed CellValue of raw for a column
// with the effective type t.
//
// For FieldTypeHTML the raw value is parsed with richText.Normalize.
// If richText is nil, unavailable or fails to parse the value,
// the cell degrades to PlainText.
func CellValueOf(t FieldType, raw any, richText RichText) CellValue {
	switch t {
	case FieldTypeCheckbox:
		return CellValue{Kind: KindToggle, On: IsToggleOn(raw), Text: RawString(raw)}

	case FieldTypeHTML:
		if richText != nil && richText.Available() {
			doc, err := richText.Normalize(raw)
			if err == nil && doc != nil {
				return CellValue{Kind: KindRichText, Doc: doc, Text: doc.Markup()}
			}
		}
	}
	return CellValue{Kind: KindPlainText, Text: RawString(raw)}
}

// String returns the cell as text.
// A Toggle is "1" if on or else an empty string.
func (v CellValue) String() string {
	switch v.Kind {
	case KindToggle:
		if v.On {
			return "1"
		}
		return ""
	case KindRichText:
		if v.Doc != nil {
			return v.Doc.Markup()
		}
	}
	return v.Text
}

// IsEmpty returns true if the cell holds no content.
func (v CellValue) IsEmpty() bool {
	if v.Kind == KindToggle {
		return !v.On
	}
	return strings.TrimSpace(v.String()) == ""
}

// RawString formats a raw cell value as string.
// nil is formatted as empty string.
func RawString(raw any) string {
	switch x := raw.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		if x {
			return "1"
		}
		return ""
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(raw)
	}
}

// IsToggleOn interprets a raw cell value as lightswitch state.
func IsToggleOn(raw any) bool {
	switch x := raw.(type) {
	case bool:
		return x
	case float64:
		return x != 0
	case int:
		return x != 0
	case json.Number:
		f, err := x.Float64()
		return err == nil && f != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "1", "true", "on", "yes":
			return true
		}
	}
	return false
}
