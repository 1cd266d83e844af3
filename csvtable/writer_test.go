package csvtable

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/elliotchance/orderedmap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domonda/go-tablemaker"
)

func newTestDoc(headings []string, rows ...[]any) *tablemaker.Document {
	doc := &tablemaker.Document{}
	for i, heading := range headings {
		col := tablemaker.NewColumn(tablemaker.PositionalColumnID(i))
		col.Heading = heading
		doc.Columns = append(doc.Columns, col)
	}
	for r, values := range rows {
		row := tablemaker.NewRow(tablemaker.PositionalRowID(r))
		for i, val := range values {
			if val != nil {
				row.Set(tablemaker.PositionalColumnID(i), val)
			}
		}
		doc.Rows = append(doc.Rows, row)
	}
	return doc
}

func TestWriter_Write(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name     string
		writer   *Writer
		doc      *tablemaker.Document
		wantDest string
	}{
		{
			name:     "empty document",
			writer:   NewWriter().WithHeaderRow(false),
			doc:      &tablemaker.Document{},
			wantDest: ``,
		},
		{
			name:   "simple",
			writer: NewWriter(),
			doc: newTestDoc(
				[]string{"A", "B", "C"},
				[]any{"1", "Hello", nil},
				[]any{"2", "world!", "0"},
			),
			wantDest: "" +
				`A;B;C` + "\r\n" +
				`1;Hello;` + "\r\n" +
				`2;world!;0` + "\r\n",
		},
		{
			name:   "simple no header",
			writer: NewWriter().WithHeaderRow(false),
			doc: newTestDoc(
				[]string{"A", "B", "C"},
				[]any{"1", "Hello", nil},
			),
			wantDest: "" +
				`1;Hello;` + "\r\n",
		},
		{
			name: "simple padded align left",
			writer: NewWriter().
				WithDelimiter('|').
				WithPadding(AlignLeft),
			doc: newTestDoc(
				[]string{"A", "B", "Blah"},
				[]any{"1", "Hello", nil},
				[]any{"123", "world!", "0"},
			),
			wantDest: "" +
				`A  |B     |Blah` + "\r\n" +
				`1  |Hello |    ` + "\r\n" +
				`123|world!|0   ` + "\r\n",
		},
		{
			name: "simple padded align center",
			writer: NewWriter().
				WithDelimiter('|').
				WithPadding(AlignCenter),
			doc: newTestDoc(
				[]string{"A", "B", "Blah"},
				[]any{"1", "Hello", nil},
				[]any{"123", "world!", "0"},
			),
			wantDest: "" +
				` A |  B   |Blah` + "\r\n" +
				` 1 |Hello |    ` + "\r\n" +
				`123|world!| 0  ` + "\r\n",
		},
		{
			name: "quoting",
			writer: NewWriter().
				WithHeaderRow(false).
				WithQuoteEmptyFields(true).
				WithNewLine("\n"),
			doc: newTestDoc(
				[]string{"A", "B", "C"},
				[]any{"a;b", "say \"hi\"", ""},
				[]any{"multi\r\nline", "x", nil},
			),
			wantDest: "" +
				`"a;b";"say ""hi""";""` + "\n" +
				"\"multi\nline\";x;\"\"" + "\n",
		},
		{
			name: "nil value",
			writer: NewWriter().
				WithHeaderRow(false).
				WithNilValue("-"),
			doc: newTestDoc(
				[]string{"A", "B"},
				[]any{"", nil},
			),
			wantDest: `;-` + "\r\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dest := bytes.NewBuffer(nil)
			err := tt.writer.Write(ctx, dest, tt.doc)
			require.NoError(t, err)
			assert.Equal(t, tt.wantDest, dest.String())
		})
	}
}

func TestWriter_AlignColumnPadding(t *testing.T) {
	doc := newTestDoc(
		[]string{"Name", "Sum"},
		[]any{"A", "1"},
		[]any{"Longer", "100"},
	)
	doc.Columns[1].Align = tablemaker.AlignRight

	dest := bytes.NewBuffer(nil)
	err := NewWriter().
		WithDelimiter('|').
		WithNewLine("\n").
		WithPadding(AlignColumn).
		Write(context.Background(), dest, doc)
	require.NoError(t, err)
	assert.Equal(t, ""+
		"Name  |Sum\n"+
		"A     |  1\n"+
		"Longer|100\n",
		dest.String(),
	)
}

func TestWriter_Formatters(t *testing.T) {
	doc := newTestDoc(
		[]string{"Done", "Task"},
		[]any{"1", "Write"},
		[]any{"0", "Test"},
	)
	doc.Columns[0].FieldType = tablemaker.FieldTypeCheckbox

	dest := bytes.NewBuffer(nil)
	err := NewWriter().
		WithHeaderRow(false).
		WithNewLine("\n").
		WithTypeFormatter(tablemaker.FieldTypeCheckbox, tablemaker.ToggleCellFormatter{On: "x", Off: " "}).
		WithColumnFormatter(1, tablemaker.PrintfCellFormatter("[%s]")).
		Write(context.Background(), dest, doc)
	require.NoError(t, err)
	assert.Equal(t, "x;[Write]\n ;[Test]\n", dest.String())
}

func TestWriter_Encoder(t *testing.T) {
	doc := newTestDoc([]string{"a"}, []any{"b"})
	upper := EncoderFunc(func(data []byte) ([]byte, error) {
		return bytes.ToUpper(data), nil
	})

	dest := bytes.NewBuffer(nil)
	err := NewWriter().WithEncoder(upper).Write(context.Background(), dest, doc)
	require.NoError(t, err)
	assert.Equal(t, "A\r\nB\r\n", dest.String())
}

func TestWriter_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	doc := newTestDoc([]string{"a"}, []any{"b"})
	err := NewWriter().Write(ctx, bytes.NewBuffer(nil), doc)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExport(t *testing.T) {
	doc := tablemaker.FromStorage(`{
		"columns": [
			{"heading": "Item", "fieldType": "singleline", "align": "left", "width": ""},
			{"heading": "Price", "fieldType": "singleline", "align": "right", "width": ""}
		],
		"rows": [["Coffee", "3,50"], ["Tea", "2"]]
	}`)

	var dest strings.Builder
	err := Export(context.Background(), &dest, doc, NewFormat(","), nil)
	require.NoError(t, err)
	assert.Equal(t, "Item,Price\r\nCoffee,\"3,50\"\r\nTea,2\r\n", dest.String())

	err = Export(context.Background(), &dest, doc, &Format{Encoding: "UTF-8", Separator: ",,", Newline: "\n"}, nil)
	assert.Error(t, err)
}

func TestExport_OrderedRowKeys(t *testing.T) {
	// Cells are written in column order, not in row key order
	cells := orderedmap.NewOrderedMap()
	cells.Set("col1", "second")
	cells.Set("col0", "first")
	doc := tablemaker.FromStorage(map[string]any{
		"columns": []any{
			map[string]any{"heading": "A"},
			map[string]any{"heading": "B"},
		},
		"rows": []any{cells},
	})

	var dest strings.Builder
	err := Export(context.Background(), &dest, doc, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "A;B\r\nfirst;second\r\n", dest.String())
}
