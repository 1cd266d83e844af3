package tablemaker

import (
	"encoding"
	"errors"
	"fmt"
	"go/token"
	"html/template"
	"reflect"
	"strings"
	"time"
	"unicode"
)

// StructFieldNaming defines how struct fields
// are mapped to columns by FromStructs.
//
// nil is a valid value for *StructFieldNaming
// and is equal to the zero value
// which will use all exported struct fields
// with their field name as column heading.
type StructFieldNaming struct {
	// Tag is the struct field tag to be used as column heading.
	// If Tag is empty, then every struct field will be treated as untagged.
	//
	// Options following the heading after a comma
	// set the column alignment ("left", "center", "right")
	// or width ("width=30%").
	Tag string
	// Ignore is the heading of struct fields that get no column.
	Ignore string
	// Untagged will be called with the struct field name to
	// return a heading in case the struct field has no tag named Tag.
	// If Untagged is nil, then the struct field name will be used.
	Untagged func(fieldName string) (heading string)
}

// DefaultStructFieldNaming uses the "col" tag
// and spaced PascalCase field names for untagged fields.
var DefaultStructFieldNaming = StructFieldNaming{
	Tag:      "col",
	Ignore:   "-",
	Untagged: SpacePascalCase,
}

// String implements the fmt.Stringer interface for StructFieldNaming.
func (n *StructFieldNaming) String() string {
	if n == nil {
		return `StructFieldNaming{Tag: "", Ignore: ""}`
	}
	return fmt.Sprintf("StructFieldNaming{Tag: %#v, Ignore: %#v}", n.Tag, n.Ignore)
}

func (n *StructFieldNaming) tag(structField reflect.StructField) (heading string, options []string, ok bool) {
	if n == nil || n.Tag == "" {
		return "", nil, false
	}
	tag, ok := structField.Tag.Lookup(n.Tag)
	if !ok {
		return "", nil, false
	}
	heading, opts, _ := strings.Cut(tag, ",")
	if opts != "" {
		options = strings.Split(opts, ",")
	}
	return heading, options, heading != ""
}

// StructFieldHeading returns the column heading for a struct field.
func (n *StructFieldNaming) StructFieldHeading(structField reflect.StructField) string {
	if heading, _, ok := n.tag(structField); ok {
		return heading
	}
	if n == nil || n.Untagged == nil {
		return structField.Name
	}
	return n.Untagged(structField.Name)
}

// IsIgnored returns true if the heading of structField
// equals a non empty Ignore.
func (n *StructFieldNaming) IsIgnored(structField reflect.StructField) bool {
	return n != nil && n.Ignore != "" && n.StructFieldHeading(structField) == n.Ignore
}

// StructColumns returns a column for every exported,
// not ignored field of structType with positional column ids.
// Booleans become checkbox columns, template.HTML html columns
// and numbers are aligned right unless the tag options say otherwise.
func (n *StructFieldNaming) StructColumns(structType reflect.Type) []Column {
	fields := StructFieldTypes(structType)
	columns := make([]Column, 0, len(fields))
	for _, field := range fields {
		if n.IsIgnored(field) {
			continue
		}
		col := NewColumn(PositionalColumnID(len(columns)))
		col.Heading = n.StructFieldHeading(field)
		col.FieldType, col.Align = structFieldType(field.Type)
		_, options, _ := n.tag(field)
		for _, option := range options {
			if width, ok := strings.CutPrefix(option, "width="); ok {
				col.Width = width
			} else if align := Align(option); align.Valid() {
				col.Align = align
			}
		}
		columns = append(columns, col)
	}
	return columns
}

var htmlType = reflect.TypeFor[template.HTML]()

func structFieldType(t reflect.Type) (FieldType, Align) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == htmlType {
		return FieldTypeHTML, AlignLeft
	}
	switch t.Kind() {
	case reflect.Bool:
		return FieldTypeCheckbox, AlignCenter
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return FieldTypeSingleLine, AlignRight
	}
	return FieldTypeSingleLine, AlignLeft
}

// FromStructs returns a Document with a column per struct field
// and a row per element of rows which must be a slice or array
// of structs or struct pointers. See StructFieldNaming.StructColumns.
// A nil naming uses DefaultStructFieldNaming.
//
// Booleans are kept as raw cell values, nil pointers
// become empty strings, time.Time values are formatted as RFC 3339
// and all other values use encoding.TextMarshaler,
// fmt.Stringer or the fmt package default format.
func FromStructs(rows any, naming *StructFieldNaming) (*Document, error) {
	if naming == nil {
		naming = &DefaultStructFieldNaming
	}
	v := reflect.ValueOf(rows)
	for v.Kind() == reflect.Pointer && !v.IsNil() {
		v = v.Elem()
	}
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return nil, fmt.Errorf("expected slice or array of structs, got %T", rows)
	}
	structType := v.Type().Elem()
	for structType.Kind() == reflect.Pointer {
		structType = structType.Elem()
	}
	if structType.Kind() != reflect.Struct {
		return nil, fmt.Errorf("expected slice or array of structs, got %T", rows)
	}

	doc := &Document{Columns: naming.StructColumns(structType)}
	fieldTypes := StructFieldTypes(structType)
	for i := 0; i < v.Len(); i++ {
		structValue := v.Index(i)
		for structValue.Kind() == reflect.Pointer {
			if structValue.IsNil() {
				return nil, errors.New("nil struct pointer in rows")
			}
			structValue = structValue.Elem()
		}
		row := NewRow(doc.NewRowID())
		col := 0
		for j, fieldValue := range StructFieldValues(structValue) {
			if naming.IsIgnored(fieldTypes[j]) {
				continue
			}
			row.Set(doc.Columns[col].ID, structCellValue(fieldValue))
			col++
		}
		doc.Rows = append(doc.Rows, row)
	}
	return doc, nil
}

func structCellValue(v reflect.Value) any {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if ValueIsNil(v) {
			return ""
		}
		v = v.Elem()
	}
	if ValueIsNil(v) {
		return ""
	}
	switch x := v.Interface().(type) {
	case bool:
		return x
	case time.Time:
		return x.Format(time.RFC3339)
	case template.HTML:
		return string(x)
	case encoding.TextMarshaler:
		text, err := x.MarshalText()
		if err == nil {
			return string(text)
		}
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v.Interface())
}

// StructFieldTypes returns the exported fields of a struct type
// including the inlined fields of any anonymously embedded structs.
func StructFieldTypes(structType reflect.Type) (fields []reflect.StructField) {
	if structType.Kind() == reflect.Pointer {
		structType = structType.Elem()
	}
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		switch {
		case field.Anonymous:
			fields = append(fields, StructFieldTypes(field.Type)...)
		case token.IsExported(field.Name):
			fields = append(fields, field)
		}
	}
	return fields
}

// StructFieldValues returns the reflect.Value of exported struct fields
// including the inlined fields of any anonymously embedded structs.
func StructFieldValues(structValue reflect.Value) (values []reflect.Value) {
	if structValue.Kind() == reflect.Pointer {
		structValue = structValue.Elem()
	}
	structType := structValue.Type()
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		switch {
		case field.Anonymous:
			values = append(values, StructFieldValues(structValue.Field(i))...)
		case token.IsExported(field.Name):
			values = append(values, structValue.Field(i))
		}
	}
	return values
}

// SpacePascalCase inserts spaces before upper case
// characters within PascalCase like names.
// It also replaces underscore '_' characters with spaces.
// Usable for StructFieldNaming.Untagged
func SpacePascalCase(name string) string {
	var b strings.Builder
	b.Grow(len(name) + 4)
	lastWasUpper := true
	lastWasSpace := true
	for _, r := range name {
		if r == '_' {
			if !lastWasSpace {
				b.WriteByte(' ')
			}
			lastWasUpper = false
			lastWasSpace = true
			continue
		}
		isUpper := unicode.IsUpper(r)
		if isUpper && !lastWasUpper && !lastWasSpace {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
		lastWasUpper = isUpper
		lastWasSpace = unicode.IsSpace(r)
	}
	return strings.TrimSpace(b.String())
}

// ValueIsNil return true if passed reflect.Value
// is not valid, nil (of a type that can be nil),
// or is of type struct{}
func ValueIsNil(val reflect.Value) bool {
	if !val.IsValid() {
		return true
	}
	switch val.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map,
		reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return val.IsNil()
	case reflect.Struct:
		if t := val.Type(); t.NumField() == 0 && t.NumMethod() == 0 {
			// Treat a value of type struct{} like nil
			return true
		}
	}
	return false
}
