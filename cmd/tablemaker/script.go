package main

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/domonda/go-tablemaker"
)

// scriptCommand is one line of an edit script.
type scriptCommand struct {
	Line int
	Name string
	Args []string
}

func (c scriptCommand) String() string {
	return fmt.Sprintf("line %d: %s", c.Line, c.Name)
}

// scriptArity maps the edit script commands
// to their number of arguments.
var scriptArity = map[string]int{
	"add-column":    0,
	"delete-column": 1,
	"move-column":   2,
	"heading":       2,
	"type":          2,
	"width":         2,
	"align":         2,
	"attr":          3,
	"add-row":       0,
	"delete-row":    1,
	"move-row":      2,
	"set":           3,
	"flush":         0,
}

// parseScript parses an edit script with one command per line.
// Empty lines and lines starting with # are ignored.
// Arguments are separated by spaces, Go quoted strings
// can be used for arguments with spaces.
func parseScript(data []byte) (cmds []scriptCommand, err error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" || text[0] == '#' {
			continue
		}
		fields, err := splitScriptLine(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		cmd := scriptCommand{Line: line, Name: fields[0], Args: fields[1:]}
		arity, ok := scriptArity[cmd.Name]
		if !ok {
			return nil, fmt.Errorf("%s: unknown command", cmd)
		}
		if len(cmd.Args) != arity {
			return nil, fmt.Errorf("%s: expected %d arguments, got %d", cmd, arity, len(cmd.Args))
		}
		cmds = append(cmds, cmd)
	}
	return cmds, scanner.Err()
}

func splitScriptLine(text string) (fields []string, err error) {
	for text != "" {
		if text[0] != '"' {
			field, rest, _ := strings.Cut(text, " ")
			fields = append(fields, field)
			text = strings.TrimLeft(rest, " \t")
			continue
		}
		quoted, err := strconv.QuotedPrefix(text)
		if err != nil {
			return nil, fmt.Errorf("invalid quoted argument: %s", text)
		}
		field, err := strconv.Unquote(quoted)
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
		text = strings.TrimLeft(text[len(quoted):], " \t")
	}
	return fields, nil
}

// runScript applies cmds to the edit session c.
// The column id "new" refers to the last added column,
// the row id "new" to the last added row.
func runScript(c *tablemaker.Controller, cmds []scriptCommand) error {
	var (
		lastCol tablemaker.ColumnID
		lastRow tablemaker.RowID
	)
	colID := func(arg string) tablemaker.ColumnID {
		if arg == "new" {
			return lastCol
		}
		return tablemaker.ColumnID(arg)
	}
	rowID := func(arg string) tablemaker.RowID {
		if arg == "new" {
			return lastRow
		}
		return tablemaker.RowID(arg)
	}

	for _, cmd := range cmds {
		var err error
		switch cmd.Name {
		case "add-column":
			var col tablemaker.Column
			col, err = c.AddColumn()
			lastCol = col.ID
		case "delete-column":
			err = c.DeleteColumn(colID(cmd.Args[0]))
		case "move-column":
			var index int
			index, err = strconv.Atoi(cmd.Args[1])
			if err == nil {
				err = c.MoveColumn(colID(cmd.Args[0]), index)
			}
		case "heading":
			err = c.SetColumnHeading(colID(cmd.Args[0]), cmd.Args[1])
		case "type":
			err = c.SetColumnFieldType(colID(cmd.Args[0]), tablemaker.FieldType(cmd.Args[1]))
		case "width":
			err = c.SetColumnWidth(colID(cmd.Args[0]), cmd.Args[1])
		case "align":
			var align tablemaker.Align
			align, err = tablemaker.ParseAlign(cmd.Args[1])
			if err == nil {
				err = c.SetColumnAlign(colID(cmd.Args[0]), align)
			}
		case "attr":
			err = c.SetColumnAttribute(colID(cmd.Args[0]), cmd.Args[1], cmd.Args[2])
		case "add-row":
			var row tablemaker.Row
			row, err = c.AddRow()
			lastRow = row.ID
		case "delete-row":
			err = c.DeleteRow(rowID(cmd.Args[0]))
		case "move-row":
			var index int
			index, err = strconv.Atoi(cmd.Args[1])
			if err == nil {
				err = c.MoveRow(rowID(cmd.Args[0]), index)
			}
		case "set":
			err = c.SetCell(rowID(cmd.Args[0]), colID(cmd.Args[1]), cmd.Args[2])
		case "flush":
			c.Flush()
		}
		if err != nil {
			return fmt.Errorf("%s: %w", cmd, err)
		}
	}
	c.Flush()
	return nil
}
