package csvtable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domonda/go-tablemaker"
)

func TestParseDetectFormat(t *testing.T) {
	tests := []struct {
		name       string
		data       string
		wantRows   [][]string
		wantFormat *Format
	}{
		{
			name:       "comma CRLF",
			data:       "a,b\r\n1,2\r\n",
			wantRows:   [][]string{{"a", "b"}, {"1", "2"}},
			wantFormat: &Format{Encoding: "UTF-8", Separator: ",", Newline: "\r\n"},
		},
		{
			name:       "semicolon LF",
			data:       "a;b;c\n1;\"x;y\";3\n",
			wantRows:   [][]string{{"a", "b", "c"}, {"1", "x;y", "3"}},
			wantFormat: &Format{Encoding: "UTF-8", Separator: ";", Newline: "\n"},
		},
		{
			name:       "tab",
			data:       "a\tb\n1\t2\n",
			wantRows:   [][]string{{"a", "b"}, {"1", "2"}},
			wantFormat: &Format{Encoding: "UTF-8", Separator: "\t", Newline: "\n"},
		},
		{
			name:       "sep header",
			data:       "sep=|\na|b,c\n",
			wantRows:   [][]string{{"a", "b,c"}},
			wantFormat: &Format{Encoding: "UTF-8", Separator: "|", Newline: "\n"},
		},
		{
			name:       "quoted multiline field",
			data:       "a,b\r\n\"multi\r\nline\",2\r\n",
			wantRows:   [][]string{{"a", "b"}, {"multi\nline", "2"}},
			wantFormat: &Format{Encoding: "UTF-8", Separator: ",", Newline: "\r\n"},
		},
		{
			name:       "variable field count",
			data:       "a,b,c\n1\n",
			wantRows:   [][]string{{"a", "b", "c"}, {"1"}},
			wantFormat: &Format{Encoding: "UTF-8", Separator: ",", Newline: "\n"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, format, err := ParseDetectFormat([]byte(tt.data), nil)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRows, rows)
			assert.Equal(t, tt.wantFormat.Separator, format.Separator, "Separator")
			assert.Equal(t, tt.wantFormat.Newline, format.Newline, "Newline")
		})
	}
}

func TestParseWithFormat(t *testing.T) {
	rows, err := ParseWithFormat([]byte("\xEF\xBB\xBFa;b\r\n1;2\r\n"), NewFormat(";"))
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "b"}, {"1", "2"}}, rows)

	_, err = ParseWithFormat([]byte("sep=,\na,b\n"), NewFormat(";"))
	assert.Error(t, err, "conflicting sep header")

	_, err = ParseWithFormat([]byte("a,b\n"), &Format{Encoding: "UTF-8", Separator: ",", Newline: "x"})
	assert.Error(t, err, "invalid format")
}

func TestFormat_Validate(t *testing.T) {
	var nilFormat *Format
	assert.Error(t, nilFormat.Validate())
	assert.NoError(t, NewFormat(",").Validate())
	assert.Error(t, (&Format{Separator: ",", Newline: "\n"}).Validate())
	assert.Error(t, (&Format{Encoding: "UTF-8", Newline: "\n"}).Validate())
	assert.Error(t, (&Format{Encoding: "UTF-8", Separator: ";;", Newline: "\n"}).Validate())
}

func TestRemoveEmptyRows(t *testing.T) {
	rows := [][]string{{"a"}, {"", " "}, {}, {"", "b"}}
	assert.Equal(t, [][]string{{"a"}, {"", "b"}}, RemoveEmptyRows(rows))
}

func TestEscapeQuotes(t *testing.T) {
	assert.Equal(t, `say ""hi""`, EscapeQuotes(`say "hi"`))
}

func TestImport(t *testing.T) {
	doc, format, err := Import([]byte("Name;Amount\nCoffee;3\nTea\n\n"), nil)
	require.NoError(t, err)
	assert.Equal(t, ";", format.Separator)
	assert.Equal(t, []string{"Name", "Amount"}, doc.Headings())
	require.Equal(t, 2, doc.NumRows())
	for _, col := range doc.Columns {
		assert.Equal(t, tablemaker.FieldTypeSingleLine, col.FieldType)
		assert.Equal(t, tablemaker.AlignLeft, col.Align)
	}
	cell, ok := doc.Cell(0, 0)
	assert.True(t, ok)
	assert.Equal(t, "Coffee", cell)
	cell, _ = doc.Cell(1, 1)
	assert.Equal(t, "", cell, "short rows are padded")
}

func TestImportWithFormat(t *testing.T) {
	doc, err := ImportWithFormat([]byte("A,B\r\n1,2\r\n"), NewFormat(","))
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, doc.Headings())
	assert.Equal(t, 1, doc.NumRows())

	doc, err = ImportWithFormat([]byte(""), NewFormat(","))
	require.NoError(t, err)
	assert.Equal(t, tablemaker.NewDocument().Headings(), doc.Headings(), "empty CSV gives a new document")
}
