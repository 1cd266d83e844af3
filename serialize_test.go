package tablemaker

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func marshalStorage(t *testing.T, doc *Document, richText RichText) string {
	t.Helper()
	data, err := MarshalStorage(doc, richText)
	require.NoError(t, err)
	return string(data)
}

func TestFromStorage(t *testing.T) {
	doc := FromStorage(`{
		"columns": [
			{"heading": "Name", "align": "left", "width": "50%"},
			{"heading": "Active", "fieldType": "checkbox", "align": "CENTER", "width": ""}
		],
		"rows": [["Alice", "1"], ["Bob", ""]]
	}`)

	require.Equal(t, 2, doc.NumColumns())
	assert.Equal(t, Column{ID: "col0", Heading: "Name", Align: AlignLeft, Width: "50%"}, doc.Columns[0])
	assert.Equal(t, Column{ID: "col1", Heading: "Active", FieldType: FieldTypeCheckbox, Align: AlignCenter}, doc.Columns[1])

	require.Equal(t, 2, doc.NumRows())
	assert.Equal(t, RowID("row0"), doc.Rows[0].ID)
	assert.Equal(t, map[ColumnID]any{"col0": "Alice", "col1": "1"}, doc.Rows[0].Map())
	assert.Equal(t, map[ColumnID]any{"col0": "Bob", "col1": ""}, doc.Rows[1].Map())

	assert.Equal(t, KindToggle, doc.CellValue(0, 1, nil).Kind)
	assert.True(t, doc.CellValue(0, 1, nil).On)
	assert.False(t, doc.CellValue(1, 1, nil).On)
}

func TestFromStorageKeyed(t *testing.T) {
	doc := FromStorage([]byte(`{
		"columns": {
			"col3": {"heading": "B", "fieldType": "singleline", "width": "", "align": "right"},
			"col0": {"heading": "A", "fieldType": "singleline", "width": "", "align": "left"}
		},
		"rows": {
			"row7": {"col0": "a", "col3": "b"},
			"row2": {"col3": "d", "col0": "c"}
		}
	}`))

	assert.Equal(t, []ColumnID{"col3", "col0"}, []ColumnID{doc.Columns[0].ID, doc.Columns[1].ID})
	assert.Equal(t, RowID("row7"), doc.Rows[0].ID)
	assert.Equal(t, RowID("row2"), doc.Rows[1].ID)
	assert.JSONEq(t,
		`{"columns":[{"heading":"B","fieldType":"singleline","align":"right","width":""},{"heading":"A","fieldType":"singleline","align":"left","width":""}],"rows":[["b","a"],["d","c"]]}`,
		marshalStorage(t, doc, NoRichText),
	)
	assert.Equal(t, ColumnID("col4"), doc.NewColumnID())
	assert.Equal(t, RowID("row8"), doc.NewRowID())
}

func TestFromStorageStructured(t *testing.T) {
	stored := Stored{
		Columns: []StoredColumn{{Heading: "A", Align: AlignLeft}},
		Rows:    [][]any{{"x"}},
	}
	assert.JSONEq(t, `{"columns":[{"heading":"A","align":"left","width":""}],"rows":[["x"]]}`, marshalStorage(t, FromStorage(stored), nil))
	assert.JSONEq(t, `{"columns":[{"heading":"A","align":"left","width":""}],"rows":[["x"]]}`, marshalStorage(t, FromStorage(&stored), nil))

	value := map[string]any{
		"columns": map[string]any{
			"col10": map[string]any{"heading": "ten"},
			"col2":  map[string]any{"heading": "two"},
		},
		"rows": []any{
			map[string]any{"col10": "10", "col2": "2"},
		},
	}
	doc := FromStorage(value)
	assert.Equal(t, []string{"two", "ten"}, doc.Headings())
	assert.JSONEq(t, `{"columns":[{"heading":"two","align":"left","width":""},{"heading":"ten","align":"left","width":""}],"rows":[["2","10"]]}`, marshalStorage(t, doc, nil))
}

func TestFromStorageDegradesGracefully(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		wantWarn bool
	}{
		{name: "nil", value: nil},
		{name: "empty string", value: ""},
		{name: "whitespace", value: " \n"},
		{name: "malformed JSON", value: `{"columns": [`, wantWarn: true},
		{name: "trailing data", value: `{"columns": []} {}`, wantWarn: true},
		{name: "not an object", value: `[1, 2]`, wantWarn: true},
		{name: "JSON null", value: `null`},
		{name: "columns not a list", value: `{"columns": 5}`, wantWarn: true},
		{name: "missing columns and rows", value: `{}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.WarnLevel)
			doc := FromStorage(tt.value, WithLogger(zap.New(core)))

			assert.Equal(t, 0, doc.NumColumns())
			assert.Equal(t, 0, doc.NumRows())
			assert.Equal(t, tt.wantWarn, logs.Len() > 0, "warning logged")
			assert.JSONEq(t, `{"columns":[],"rows":[]}`, marshalStorage(t, doc, nil))
		})
	}
}

func TestFromStorageMissingRows(t *testing.T) {
	doc := FromStorage(`{"columns":[{"heading":"A","align":"left","width":""}]}`)
	assert.Equal(t, 1, doc.NumColumns())
	assert.Equal(t, 0, doc.NumRows())
	assert.JSONEq(t, `{"columns":[{"heading":"A","align":"left","width":""}],"rows":[]}`, marshalStorage(t, doc, nil))
}

func TestFromStorageInvalidAlign(t *testing.T) {
	doc := FromStorage(`{"columns":[{"heading":"A","align":"justify","width":""}],"rows":[]}`)
	assert.Equal(t, AlignLeft, doc.Columns[0].Align)
}

func TestFromStorageCellValues(t *testing.T) {
	doc := FromStorage(`{"columns":[{"heading":"n"},{"heading":"b"},{"heading":"o"},{"heading":"z"}],"rows":[[1.5, true, {"b":1,"a":2}, null]]}`)
	assert.Equal(t, json.Number("1.5"), doc.Rows[0].Map()["col0"])
	assert.Equal(t, true, doc.Rows[0].Map()["col1"])
	assert.Equal(t, `{"b":1,"a":2}`, doc.Rows[0].Map()["col2"])
	assert.JSONEq(t,
		`{"columns":[{"heading":"n","align":"left","width":""},{"heading":"b","align":"left","width":""},{"heading":"o","align":"left","width":""},{"heading":"z","align":"left","width":""}],"rows":[[1.5,true,"{\"b\":1,\"a\":2}",""]]}`,
		marshalStorage(t, doc, nil),
	)
}

func TestStorageRoundTrip(t *testing.T) {
	values := []string{
		`{"columns":[],"rows":[]}`,
		`{"columns":[{"heading":"A","align":"left","width":""}],"rows":[["1"],["2"]]}`,
		`{"columns":[{"heading":"A","align":"right","width":"10"}],"rows":[["1","extra"],[]]}`,
		`{"columns":{"col1":{"heading":"B"},"col0":{"heading":"A"}},"rows":{"row0":{"col0":"a","col1":"b","col9":"orphan"}}}`,
		`{"columns":[{"heading":"H","fieldType":"html","align":"center","width":""}],"rows":[["  <p>x</p> "]]}`,
		`{"columns":[{"heading":"N","fieldType":"checkbox"}],"rows":[[1],[true],[null]]}`,
		`{"columns":[{"heading":"A"}],"rows":[{"foo":"positional"}]}`,
		`{"columns":[{"heading":"A"}]}`,
	}
	richTexts := map[string]RichText{
		"without rich-text": NoRichText,
		"with rich-text":    &fakeRichText{available: true},
	}
	for name, richText := range richTexts {
		t.Run(name, func(t *testing.T) {
			for _, value := range values {
				first := marshalStorage(t, FromStorage(value), richText)
				second := marshalStorage(t, FromStorage(first), richText)
				assert.JSONEq(t, first, second, "value: %s", value)
			}
		})
	}
}

func TestToStorageEmptyState(t *testing.T) {
	assert.Equal(t,
		`{"columns":[{"heading":"","fieldType":"singleline","align":"left","width":""}],"rows":[[""]]}`,
		marshalStorage(t, NewDocument(), NoRichText),
	)
}

func TestToStorageDropsOrphans(t *testing.T) {
	doc := &Document{
		Columns: testColumns("A", "C"),
		Rows:    []Row{testRow("row0", "A", "1", "B", "2", "C", "3")},
	}
	doc.Retire("B")

	stored := ToStorage(doc, NoRichText)
	require.Len(t, stored.Rows, 1)
	assert.Equal(t, []any{"1", "3"}, stored.Rows[0])
	assert.NotContains(t, stored.Rows[0], "2")

	value, ok := doc.Rows[0].Get("B")
	assert.True(t, ok, "orphan kept in memory")
	assert.Equal(t, "2", value)
	assert.Equal(t, []ColumnID{"B"}, doc.Orphans(0))
}

func TestToStorageReorder(t *testing.T) {
	doc := &Document{
		Columns: testColumns("B", "A"),
		Rows:    []Row{testRow("row0", "A", "1", "B", "2")},
	}
	assert.Equal(t, [][]any{{"2", "1"}}, ToStorage(doc, NoRichText).Rows)
}

func TestToStorageRichText(t *testing.T) {
	const value = `{"columns":[{"heading":"T","align":"left","width":""},{"heading":"H","fieldType":"html","align":"left","width":""}],"rows":[["  a  ","  <b>b</b>  "]]}`

	t.Run("unavailable degrades to plain text", func(t *testing.T) {
		doc := FromStorage(value)
		assert.Equal(t, FieldTypeHTML, doc.Columns[1].FieldType)
		assert.Equal(t, FieldTypeSingleLine, doc.Schema(NoRichText)[1].Type)
		assert.Equal(t, KindPlainText, doc.CellValue(0, 1, NoRichText).Kind)

		stored := ToStorage(doc, NoRichText)
		assert.Equal(t, FieldTypeHTML, stored.Columns[1].FieldType)
		assert.Equal(t, []any{"  a  ", "  <b>b</b>  "}, stored.Rows[0])
	})

	t.Run("available serializes rich-text cells only", func(t *testing.T) {
		richText := &fakeRichText{available: true}
		doc := FromStorage(value)
		assert.Equal(t, FieldTypeHTML, doc.Schema(richText)[1].Type)
		cell := doc.CellValue(0, 1, richText)
		assert.Equal(t, KindRichText, cell.Kind)
		assert.Equal(t, "<b>b</b>", cell.String())

		stored := ToStorage(doc, richText)
		assert.Equal(t, []any{"  a  ", "<b>b</b>"}, stored.Rows[0])
	})

	t.Run("serialize error passes raw value", func(t *testing.T) {
		core, logs := observer.New(zapcore.WarnLevel)
		richText := &fakeRichText{available: true, serializeErr: errors.New("boom")}

		stored := ToStorage(FromStorage(value), richText, WithLogger(zap.New(core)))
		assert.Equal(t, []any{"  a  ", "  <b>b</b>  "}, stored.Rows[0])
		assert.Equal(t, 1, logs.Len())
	})
}

func TestBlob(t *testing.T) {
	blob, err := Blob(NewDocument())
	require.NoError(t, err)
	assert.Equal(t, `{"columns":{"col0":{"heading":"","fieldType":"singleline","width":"","align":"left"}},"rows":{"row0":{"col0":""}}}`, string(blob))

	doc := &Document{
		Columns: testColumns("col1", "col0"),
		Rows:    []Row{testRow("row3", "col0", "a", "col1", "b", "col5", "orphan")},
	}
	doc.Retire("col5")
	blob, err = Blob(doc)
	require.NoError(t, err)
	assert.Equal(t, `{"columns":{"col1":{"heading":"COL1","fieldType":"singleline","width":"","align":"left"},"col0":{"heading":"COL0","fieldType":"singleline","width":"","align":"left"}},"rows":{"row3":{"col1":"b","col0":"a"}}}`, string(blob))

	parsed := ParseBlob(blob)
	assert.Equal(t, []ColumnID{"col1", "col0"}, []ColumnID{parsed.Columns[0].ID, parsed.Columns[1].ID})
	assert.Equal(t, [][]any{{"b", "a"}}, ToStorage(parsed, nil).Rows)
}

func TestNormalize(t *testing.T) {
	stored := Normalize(`{"columns":[{"heading":"A"}],"rows":[["x","y"]]}`, NoRichText)
	assert.Equal(t, [][]any{{"x"}}, stored.Rows)
}
