package field

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domonda/go-tablemaker"
	"github.com/domonda/go-tablemaker/richtext"
)

func TestField_NewEditor_EmptyState(t *testing.T) {
	f := &Field{Handle: "prices"}
	e := f.NewEditor(context.Background(), nil, tablemaker.WithDebounce(0))
	defer e.Close()

	assert.Equal(t, "prices[columns]", e.ColumnsInputName)
	assert.Equal(t, "prices-rows", e.RowsInputID)

	stored := e.Stored()
	require.Len(t, stored.Columns, 1)
	assert.Equal(t, tablemaker.StoredColumn{Heading: "", FieldType: tablemaker.FieldTypeSingleLine, Align: tablemaker.AlignLeft, Width: ""}, stored.Columns[0])
	assert.Equal(t, [][]any{{""}}, stored.Rows)

	bootstrap, err := e.Bootstrap()
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": "prices",
		"columnsId": "prices-columns",
		"rowsId": "prices-rows",
		"columnsName": "prices[columns]",
		"rowsName": "prices[rows]",
		"columns": {"col0": {"heading": "", "fieldType": "singleline", "align": "left", "width": "", "type": "singleline"}},
		"rows": {"row0": {"col0": ""}},
		"columnSettings": {
			"heading": {"heading": "Heading", "type": "singleline"},
			"fieldType": {"heading": "Field type", "class": "thin", "type": "select", "options": [
				{"value": "singleline", "label": "Text"},
				{"value": "checkbox", "label": "Lightswitch"}
			]},
			"width": {"heading": "Width", "class": "code", "type": "singleline", "width": 50},
			"align": {"heading": "Alignment", "class": "thin", "type": "select", "options": [
				{"value": "left", "label": "Left"},
				{"value": "center", "label": "Center"},
				{"value": "right", "label": "Right"}
			]}
		},
		"editorConfig": [],
		"labels": {
			"columnsLabel": "Table Columns",
			"columnsInstructions": "Define the columns your table should have.",
			"columnsAddRowLabel": "Add a column",
			"rowsLabel": "Table Content",
			"rowsInstructions": "Input the content of your table.",
			"rowsAddRowLabel": "Add a row"
		}
	}`, string(bootstrap))
}

func TestField_NewEditor_Session(t *testing.T) {
	f := &Field{Handle: "prices"}
	e := f.NewEditor(context.Background(), storedPrices, tablemaker.WithDebounce(0))
	defer e.Close()

	col, err := e.AddColumn()
	require.NoError(t, err)
	assert.Equal(t, tablemaker.ColumnID("col2"), col.ID)
	require.NoError(t, e.SetColumnHeading(col.ID, "Size"))
	require.NoError(t, e.MoveColumn("col1", 0))

	row, err := e.AddRow()
	require.NoError(t, err)
	require.NoError(t, e.SetCell(row.ID, "col0", "Juice"))

	v := e.Value(f)
	assert.Equal(t, []string{"Price", "Item", "Size"}, v.Document.Headings())
	assert.Equal(t, [][]any{
		{"3.50", "Coffee", ""},
		{"2.00", "Tea", ""},
		{"", "Juice", ""},
	}, v.Rows)

	blob, err := e.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, e.Blob(), []byte(blob))
}

func TestField_NewEditor_PendingEdits(t *testing.T) {
	ctx := context.Background()
	f := &Field{Handle: "prices", Store: &memStore{}}
	e := f.NewEditor(ctx, nil, tablemaker.WithDebounce(time.Hour))
	defer e.Close()

	require.NoError(t, e.SetCell("row0", "col0", "typed"))
	require.NoError(t, f.Save(ctx, "entry-1", e.Controller))

	v, err := f.Load(ctx, "entry-1")
	require.NoError(t, err)
	assert.Equal(t, [][]any{{"typed"}}, v.Rows)

	require.NoError(t, e.SetCell("row0", "col0", "retyped"))
	assert.Equal(t, [][]any{{"retyped"}}, e.Value(f).Rows)

	data, err := f.Serialize(e)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"retyped"`)
}

func TestField_NewEditor_RichText(t *testing.T) {
	rt := richtext.New(richtext.WithLanguage("de"))
	f := &Field{Handle: "notes", RichText: rt}
	e := f.NewEditor(context.Background(), `{
		"columns": [{"heading": "Note", "fieldType": "html", "align": "left", "width": ""}],
		"rows": [["*hi*"]]
	}`, tablemaker.WithDebounce(0))
	defer e.Close()

	assert.Equal(t, []string{"textarea-row0-0"}, rt.Open())
	assert.Equal(t, "de", e.EditorConfig()["redactorLang"])

	bootstrap, err := e.Bootstrap()
	require.NoError(t, err)
	assert.Contains(t, string(bootstrap), `"type":"html"`)
	assert.Contains(t, string(bootstrap), `"redactorLang":"de"`)
}
