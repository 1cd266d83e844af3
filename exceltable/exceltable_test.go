package exceltable

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/domonda/go-tablemaker"
)

func workbook(t *testing.T, sheets map[string][][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	first := true
	for name, rows := range sheets {
		if first {
			require.NoError(t, f.SetSheetName("Sheet1", name))
			first = false
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(name, cell, &row))
		}
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func storedRows(doc *tablemaker.Document) [][]any {
	return tablemaker.ToStorage(doc, nil).Rows
}

func TestReadFirstSheet(t *testing.T) {
	data := workbook(t, map[string][][]any{
		"Prices": {
			{"", "Item", "Price", ""},
			{"", "Coffee", "3.50"},
			{},
			{"", "Tea", "2.00"},
		},
	})
	sheet, err := ReadFirstSheet(data, false)
	require.NoError(t, err)
	assert.Equal(t, "Prices", sheet.Name)
	assert.Equal(t, []string{"Item", "Price"}, sheet.Document.Headings())
	assert.Equal(t, [][]any{{"Coffee", "3.50"}, {"Tea", "2.00"}}, storedRows(sheet.Document))
}

func TestRead(t *testing.T) {
	data := workbook(t, map[string][][]any{
		"Items": {{"Item"}, {"Coffee"}},
		"Empty": {{"", " "}},
	})
	sheets, err := Read(bytes.NewReader(data.Bytes()), true)
	require.NoError(t, err)
	require.Len(t, sheets, 1, "empty sheets are skipped")
	assert.Equal(t, "Items", sheets[0].Name)

	_, err = ReadSheet(bytes.NewReader(data.Bytes()), "Empty", true)
	assert.ErrorIs(t, err, ErrEmptySheet)

	_, err = ReadSheet(bytes.NewReader(data.Bytes()), "Missing", true)
	assert.ErrorAs(t, err, new(ErrSheetNotExist))

	_, err = Read(bytes.NewReader([]byte("not a workbook")), true)
	assert.Error(t, err)
}

func TestWriteRead(t *testing.T) {
	doc := tablemaker.FromStorage(`{
		"columns": [
			{"heading": "Item", "fieldType": "singleline"},
			{"heading": "In stock", "fieldType": "checkbox"}
		],
		"rows": [["Coffee", true], ["Tea", ""]]
	}`)
	var buf bytes.Buffer
	require.NoError(t, Write(context.Background(), &buf, doc, "Stock", nil))

	sheet, err := ReadFirstSheet(&buf, false)
	require.NoError(t, err)
	assert.Equal(t, "Stock", sheet.Name)
	assert.Equal(t, []string{"Item", "In stock"}, sheet.Document.Headings())
	assert.Equal(t, [][]any{{"Coffee", "TRUE"}, {"Tea", "FALSE"}}, storedRows(sheet.Document))
}

func TestRemoveEmptyColumns(t *testing.T) {
	tests := []struct {
		name string
		rows [][]string
		want [][]string
	}{
		{name: "nil", rows: nil, want: nil},
		{name: "all empty", rows: [][]string{{"", " "}}, want: nil},
		{name: "edges", rows: [][]string{{"", "a", "", "b", ""}, {"", "c"}}, want: [][]string{{"a", "", "b"}, {"c"}}},
		{name: "unchanged", rows: [][]string{{"a", "b"}}, want: [][]string{{"a", "b"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, removeEmptyColumns(tt.rows))
		})
	}
}
