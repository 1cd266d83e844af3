package tablemaker

import (
	"fmt"
	"strings"
)

// FieldType is the type tag of a column as persisted in the
// "fieldType" key of a stored column.
type FieldType string

const (
	// FieldTypeSingleLine is a plain text cell.
	FieldTypeSingleLine FieldType = "singleline"
	// FieldTypeCheckbox is a boolean toggle cell.
	FieldTypeCheckbox FieldType = "checkbox"
	// FieldTypeHTML is a rich-text cell edited through the RichText capability.
	FieldTypeHTML FieldType = "html"
)

// Valid returns true if t is one of the known field types.
func (t FieldType) Valid() bool {
	switch t {
	case FieldTypeSingleLine, FieldTypeCheckbox, FieldTypeHTML:
		return true
	}
	return false
}

// Effective returns the type the rows grid uses for cells of a column
// tagged with t. An empty or unknown tag is plain text and
// FieldTypeHTML degrades to plain text if richTextAvailable is false.
func (t FieldType) Effective(richTextAvailable bool) FieldType {
	switch t {
	case FieldTypeCheckbox:
		return FieldTypeCheckbox
	case FieldTypeHTML:
		if richTextAvailable {
			return FieldTypeHTML
		}
	}
	return FieldTypeSingleLine
}

func (t FieldType) String() string {
	if t == "" {
		return string(FieldTypeSingleLine)
	}
	return string(t)
}

// Align is the horizontal alignment of a column.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// ParseAlign parses str case insensitive.
// An empty string is AlignLeft.
func ParseAlign(str string) (Align, error) {
	switch a := Align(strings.ToLower(strings.TrimSpace(str))); a {
	case "":
		return AlignLeft, nil
	case AlignLeft, AlignCenter, AlignRight:
		return a, nil
	}
	return AlignLeft, fmt.Errorf("invalid column alignment %q", str)
}

// Valid returns true if a is one of the known alignments.
func (a Align) Valid() bool {
	return a == AlignLeft || a == AlignCenter || a == AlignRight
}

// OrDefault returns a if valid or else AlignLeft.
func (a Align) OrDefault() Align {
	if a.Valid() {
		return a
	}
	return AlignLeft
}
