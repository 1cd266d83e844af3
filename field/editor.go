package field

import (
	"context"
	"encoding/json"

	"github.com/elliotchance/orderedmap"

	"github.com/domonda/go-tablemaker"
)

// Editor is an edit session of a field value.
type Editor struct {
	*tablemaker.Controller

	Name             string
	ColumnsInputName string
	RowsInputName    string
	ColumnsInputID   string
	RowsInputID      string
	Labels           Labels
	ColumnSettings   []ColumnSetting
}

// NewEditor starts an edit session for value.
// A value without columns starts with one empty singleline
// column, a value without rows with one empty row.
// The opts are applied after the field's options.
func (f *Field) NewEditor(ctx context.Context, value any, opts ...tablemaker.Option) *Editor {
	doc := f.document(value).Clone()
	if len(doc.Columns) == 0 {
		doc.Columns = []tablemaker.Column{tablemaker.NewColumn(doc.NewColumnID())}
	}
	if len(doc.Rows) == 0 {
		doc.Rows = []tablemaker.Row{tablemaker.NewRow(doc.NewRowID())}
	}
	return &Editor{
		Controller:       tablemaker.NewController(ctx, doc, f.options(opts...)...),
		Name:             f.Handle,
		ColumnsInputName: f.Handle + "[columns]",
		RowsInputName:    f.Handle + "[rows]",
		ColumnsInputID:   f.Handle + "-columns",
		RowsInputID:      f.Handle + "-rows",
		Labels:           f.Settings.Labels(),
		ColumnSettings:   f.ColumnSettings(),
	}
}

// Bootstrap returns the JSON object an editing surface
// is initialized with: input ids and names, the columns
// and rows keyed by their ids, the column settings
// and the rich-text editor config.
func (e *Editor) Bootstrap() ([]byte, error) {
	doc := e.Document()
	schema := e.Schema()

	columns := orderedmap.NewOrderedMap()
	for _, col := range schema {
		attrs := orderedmap.NewOrderedMap()
		attrs.Set("heading", col.Heading)
		attrs.Set("fieldType", string(col.FieldType))
		attrs.Set("align", string(col.Align))
		attrs.Set("width", col.Width)
		attrs.Set("type", string(col.Type))
		columns.Set(string(col.ID), attrs)
	}

	rows := orderedmap.NewOrderedMap()
	for r, row := range doc.Rows {
		cells := orderedmap.NewOrderedMap()
		for c, col := range doc.Columns {
			if value, ok := doc.Cell(r, c); ok {
				cells.Set(string(col.ID), value)
			}
		}
		rows.Set(string(row.ID), cells)
	}

	settings := orderedmap.NewOrderedMap()
	for _, s := range e.ColumnSettings {
		settings.Set(s.Key, s)
	}

	// Empty array like an unconfigured editor surface expects
	var editorConfig any = []any{}
	if config := e.EditorConfig(); config != nil {
		editorConfig = map[string]any(config)
	}

	bootstrap := orderedmap.NewOrderedMap()
	bootstrap.Set("id", e.Name)
	bootstrap.Set("columnsId", e.ColumnsInputID)
	bootstrap.Set("rowsId", e.RowsInputID)
	bootstrap.Set("columnsName", e.ColumnsInputName)
	bootstrap.Set("rowsName", e.RowsInputName)
	bootstrap.Set("columns", columns)
	bootstrap.Set("rows", rows)
	bootstrap.Set("columnSettings", settings)
	bootstrap.Set("editorConfig", editorConfig)
	bootstrap.Set("labels", e.Labels)
	return tablemaker.MarshalOrderedJSON(bootstrap)
}

// Value returns the normalized current value of the session.
func (e *Editor) Value(f *Field) *Value {
	return f.Normalize(e)
}

// MarshalJSON returns the flat blob of the session.
func (e *Editor) MarshalJSON() ([]byte, error) {
	return json.RawMessage(e.Blob()), nil
}
