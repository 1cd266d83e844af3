package htmltable

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/domonda/go-tablemaker"
)

func singleCell(value any) *tablemaker.Cell {
	doc := tablemaker.FromStorage(map[string]any{
		"columns": []any{map[string]any{"heading": "Value"}},
		"rows":    []any{[]any{value}},
	})
	return doc.NewCell(0, 0, nil)
}

func TestJSONCellFormatter_FormatCell(t *testing.T) {
	tests := []struct {
		name    string
		fmt     JSONCellFormatter
		cell    *tablemaker.Cell
		wantStr string
		wantRaw bool
		wantErr bool
	}{
		{name: "empty nil", fmt: ``, cell: singleCell(nil), wantStr: ``, wantRaw: false, wantErr: false},
		{name: "empty string", fmt: ``, cell: singleCell(""), wantStr: ``, wantRaw: false, wantErr: false},
		{name: "compact string JSON", fmt: ``, cell: singleCell(`{"1": 1}`), wantStr: `<pre>{"1":1}</pre>`, wantRaw: true, wantErr: false},
		{name: "indented JSON", fmt: `  `, cell: singleCell(`[1]`), wantStr: "<pre>[\n  1\n]</pre>", wantRaw: true, wantErr: false},
		{name: "invalid JSON", fmt: ``, cell: singleCell(`{`), wantStr: ``, wantRaw: false, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			str, raw, err := tt.fmt.FormatCell(context.Background(), tt.cell)
			require.Equal(t, tt.wantErr, err != nil, "err result: %v", err)
			require.Equal(t, tt.wantStr, str, "str result")
			require.Equal(t, tt.wantRaw, raw, "raw result")
		})
	}
}

func TestHTMLCellFormatters(t *testing.T) {
	ctx := context.Background()
	cell := singleCell("a<b")

	str, raw, err := HTMLPreCellFormatter.FormatCell(ctx, cell)
	require.NoError(t, err)
	require.True(t, raw)
	require.Equal(t, "<pre>a&lt;b</pre>", str)

	str, _, err = HTMLCodeCellFormatter.FormatCell(ctx, cell)
	require.NoError(t, err)
	require.Equal(t, "<code>a&lt;b</code>", str)

	str, _, err = ValueAsHTMLAnchorCellFormatter.FormatCell(ctx, cell)
	require.NoError(t, err)
	require.Equal(t, "<a id='a&lt;b'>a&lt;b</a>", str)

	str, _, err = HTMLSpanClassCellFormatter("note").FormatCell(ctx, cell)
	require.NoError(t, err)
	require.Equal(t, "<span class='note'>a&lt;b</span>", str)
}
