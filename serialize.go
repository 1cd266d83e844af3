package tablemaker

import (
	"encoding/json"

	"github.com/elliotchance/orderedmap"
	"go.uber.org/zap"
)

// StoredColumn is a column of the storage representation.
type StoredColumn struct {
	Heading   string    `json:"heading"`
	FieldType FieldType `json:"fieldType,omitempty"`
	Align     Align     `json:"align"`
	Width     string    `json:"width"`
}

// Stored is the storage representation of a Document.
//
// Rows are positional and aligned to the order of Columns,
// column identity is not stored.
type Stored struct {
	Columns []StoredColumn `json:"columns"`
	Rows    [][]any        `json:"rows"`
}

// FromStorage returns the Document of a stored field value.
//
// The value can be JSON as string, []byte or json.RawMessage,
// a Stored value or any structured value that marshals
// to the stored JSON shape. Columns, rows and the cells of a row
// can be arrays or objects. Object keys are used as identities,
// positional entries get the ids "col<N>" and "row<N>".
//
// A nil or empty value returns an empty Document.
// A malformed value is logged as warning and
// also returns an empty Document.
// A missing "rows" key results in no rows.
func FromStorage(value any, opts ...Option) *Document {
	o := newOptions(opts)

	root, err := orderedValue(value)
	if err != nil {
		o.logger.Warn("Malformed stored table value", zap.Error(err))
		return new(Document)
	}
	if root == nil {
		return new(Document)
	}
	object, ok := root.(*orderedmap.OrderedMap)
	if !ok {
		o.logger.Warn("Stored table value is not an object", zap.Any("value", root))
		return new(Document)
	}

	doc := new(Document)
	if columns, ok := object.Get("columns"); ok && columns != nil {
		doc.Columns = columnsFromStorage(columns, o.logger)
	}
	if rows, ok := object.Get("rows"); ok && rows != nil {
		doc.Rows = rowsFromStorage(rows, doc.Columns, o.logger)
	}
	o.logger.Debug("Loaded table value",
		zap.Int("columns", len(doc.Columns)),
		zap.Int("rows", len(doc.Rows)),
	)
	return doc
}

func columnsFromStorage(value any, logger *zap.Logger) []Column {
	entries, keyed, ok := orderedEntries(value)
	if !ok {
		logger.Warn("Stored table columns are not a list", zap.Any("columns", value))
		return nil
	}
	columns := make([]Column, 0, len(entries))
	for i, entry := range entries {
		id := PositionalColumnID(i)
		if keyed {
			id = ColumnID(entry.key)
		}
		if ColumnIndex(columns, id) >= 0 {
			logger.Warn("Duplicate stored column id", zap.String("column", string(id)))
			continue
		}
		column := NewColumn(id)
		column.FieldType = ""
		if attrs, ok := entry.value.(*orderedmap.OrderedMap); ok {
			if v, ok := attrs.Get("heading"); ok {
				column.Heading = RawString(v)
			}
			if v, ok := attrs.Get("fieldType"); ok {
				column.FieldType = FieldType(RawString(v))
			}
			if v, ok := attrs.Get("width"); ok {
				column.Width = RawString(v)
			}
			if v, ok := attrs.Get("align"); ok {
				align, err := ParseAlign(RawString(v))
				if err != nil {
					logger.Debug("Invalid stored column alignment", zap.String("column", string(id)), zap.Error(err))
				}
				column.Align = align
			}
		} else {
			logger.Warn("Stored table column is not an object", zap.String("column", string(id)))
		}
		columns = append(columns, column)
	}
	return columns
}

func rowsFromStorage(value any, columns []Column, logger *zap.Logger) []Row {
	entries, keyed, ok := orderedEntries(value)
	if !ok {
		logger.Warn("Stored table rows are not a list", zap.Any("rows", value))
		return nil
	}
	rows := make([]Row, 0, len(entries))
	for i, entry := range entries {
		id := PositionalRowID(i)
		if keyed {
			id = RowID(entry.key)
		}
		row := NewRow(id)
		cells, cellsKeyed, ok := orderedEntries(entry.value)
		if !ok {
			logger.Warn("Stored table row is not a list", zap.String("row", string(id)))
			rows = append(rows, row)
			continue
		}
		for j, cell := range cells {
			var colID ColumnID
			switch {
			case cellsKeyed:
				colID = ColumnID(cell.key)
			case j < len(columns):
				colID = columns[j].ID
			default:
				// Values beyond the current columns are kept
				// under their positional id
				colID = PositionalColumnID(j)
				if row.has(colID) || ColumnIndex(columns, colID) >= 0 {
					logger.Debug("Dropping stored cell without column", zap.String("row", string(id)), zap.Int("index", j))
					continue
				}
			}
			row.Set(colID, cellFromStorage(cell.value))
		}
		rows = append(rows, row)
	}
	return rows
}

// cellFromStorage returns scalars as they are
// and nested values as compact JSON string.
func cellFromStorage(value any) any {
	switch value.(type) {
	case *orderedmap.OrderedMap, []any:
		data, err := MarshalOrderedJSON(value)
		if err != nil {
			return ""
		}
		return string(data)
	}
	return value
}

// ToStorage returns the storage representation of a Document.
//
// Rows are written as positional arrays of the values of the
// current columns, looked up by column id with positional fallback.
// Missing values are written as empty strings.
// Values of deleted columns are not written,
// so orphaned cell data is lost at this point.
//
// Cells of columns with the effective type FieldTypeHTML are parsed
// and re-serialized by richText if it is available.
// If that fails the raw value is written and a warning is logged.
func ToStorage(doc *Document, richText RichText, opts ...Option) Stored {
	o := newOptions(opts)
	available := richTextAvailable(richText)

	stored := Stored{
		Columns: make([]StoredColumn, len(doc.Columns)),
		Rows:    make([][]any, len(doc.Rows)),
	}
	for i, col := range doc.Columns {
		stored.Columns[i] = StoredColumn{
			Heading:   col.Heading,
			FieldType: col.FieldType,
			Align:     col.Align.OrDefault(),
			Width:     col.Width,
		}
	}

	known := doc.KnownColumnIDs()
	for r := range doc.Rows {
		row := &doc.Rows[r]
		values := make([]any, len(doc.Columns))
		for c := range doc.Columns {
			value, _, ok := lookupCell(doc.Columns[c].ID, c, row, known, nil)
			if !ok || value == nil {
				values[c] = ""
				continue
			}
			if available && doc.Columns[c].EffectiveType(true) == FieldTypeHTML {
				value = serializeRichTextCell(richText, value, o.logger.With(
					zap.String("row", string(row.ID)),
					zap.String("column", string(doc.Columns[c].ID)),
				))
			}
			values[c] = value
		}
		stored.Rows[r] = values
	}
	return stored
}

func serializeRichTextCell(richText RichText, raw any, logger *zap.Logger) any {
	doc, err := richText.Normalize(raw)
	if err != nil {
		logger.Warn("Can't parse rich-text cell", zap.Error(err))
		return raw
	}
	value, err := richText.Serialize(doc)
	if err != nil {
		logger.Warn("Can't serialize rich-text cell", zap.Error(err))
		return raw
	}
	return value
}

// MarshalStorage returns the JSON of ToStorage.
func MarshalStorage(doc *Document, richText RichText, opts ...Option) ([]byte, error) {
	return json.Marshal(ToStorage(doc, richText, opts...))
}

// Normalize returns the storage representation of a stored
// or submitted value, see FromStorage and ToStorage.
func Normalize(value any, richText RichText, opts ...Option) Stored {
	return ToStorage(FromStorage(value, opts...), richText, opts...)
}

// Blob returns the flat representation of the editing state
// that is submitted with the host form:
//
//	{"columns":{"col0":{"heading":"","fieldType":"singleline","width":"","align":"left"}},"rows":{"row0":{"col0":""}}}
//
// Rows hold only the values of the current columns in column order.
func Blob(doc *Document) ([]byte, error) {
	columns := orderedmap.NewOrderedMap()
	for _, col := range doc.Columns {
		attrs := orderedmap.NewOrderedMap()
		attrs.Set("heading", col.Heading)
		attrs.Set("fieldType", col.FieldType.String())
		attrs.Set("width", col.Width)
		attrs.Set("align", string(col.Align.OrDefault()))
		columns.Set(string(col.ID), attrs)
	}

	known := doc.KnownColumnIDs()
	rows := orderedmap.NewOrderedMap()
	for r := range doc.Rows {
		row := &doc.Rows[r]
		cells := orderedmap.NewOrderedMap()
		for c := range doc.Columns {
			value, _, ok := lookupCell(doc.Columns[c].ID, c, row, known, nil)
			if !ok || value == nil {
				value = ""
			}
			cells.Set(string(doc.Columns[c].ID), value)
		}
		rows.Set(string(row.ID), cells)
	}

	blob := orderedmap.NewOrderedMap()
	blob.Set("columns", columns)
	blob.Set("rows", rows)
	return MarshalOrderedJSON(blob)
}

// ParseBlob returns the Document of a blob written by Blob.
// Malformed blobs return an empty Document.
func ParseBlob(blob []byte, opts ...Option) *Document {
	return FromStorage(blob, opts...)
}
