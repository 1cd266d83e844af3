package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domonda/go-tablemaker"
)

func TestParseScript(t *testing.T) {
	cmds, err := parseScript([]byte(`
# comment
add-column
heading new "Unit price"
set row0  col0 "a \"quoted\" value"
flush
`))
	require.NoError(t, err)
	require.Len(t, cmds, 4)
	assert.Equal(t, scriptCommand{Line: 3, Name: "add-column", Args: []string{}}, cmds[0])
	assert.Equal(t, []string{"new", "Unit price"}, cmds[1].Args)
	assert.Equal(t, []string{"row0", "col0", `a "quoted" value`}, cmds[2].Args)
	assert.Equal(t, 6, cmds[3].Line)
}

func TestParseScriptErrors(t *testing.T) {
	tests := []struct {
		name   string
		script string
	}{
		{name: "unknown command", script: "add-table"},
		{name: "missing argument", script: "heading col0"},
		{name: "too many arguments", script: "add-row row1"},
		{name: "unterminated quote", script: `heading col0 "Unit`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseScript([]byte(tt.script))
			assert.Error(t, err)
		})
	}
}

func TestRunScript(t *testing.T) {
	doc := tablemaker.FromStorage(`{"columns":[{"heading":"Item"}],"rows":[["Tea"]]}`)
	c := tablemaker.NewController(context.Background(), doc, tablemaker.WithDebounce(0))
	defer c.Close()

	cmds, err := parseScript([]byte(`
add-column
heading new Price
align new right
set row0 new 2.00
add-row
set new col0 Coffee
move-row new 0
`))
	require.NoError(t, err)
	require.NoError(t, runScript(c, cmds))

	stored := c.Stored()
	require.Len(t, stored.Columns, 2)
	assert.Equal(t, "Price", stored.Columns[1].Heading)
	assert.Equal(t, tablemaker.AlignRight, stored.Columns[1].Align)
	assert.Equal(t, [][]any{{"Coffee", ""}, {"Tea", "2.00"}}, stored.Rows)

	cmds, err = parseScript([]byte("delete-column col9"))
	require.NoError(t, err)
	err = runScript(c, cmds)
	assert.ErrorIs(t, err, tablemaker.ErrColumnNotFound)
	assert.Contains(t, err.Error(), "line 1: delete-column")
}
