package tablemaker

import (
	"strconv"
	"strings"
)

const (
	columnIDPrefix = "col"
	rowIDPrefix    = "row"
)

// ColumnID is the identity of a column within a Document.
type ColumnID string

// Column is the definition of one table column.
type Column struct {
	ID        ColumnID
	Heading   string
	FieldType FieldType
	Width     string
	Align     Align
}

// NewColumn returns a blank plain text column
// aligned left with the passed id.
func NewColumn(id ColumnID) Column {
	return Column{
		ID:        id,
		FieldType: FieldTypeSingleLine,
		Align:     AlignLeft,
	}
}

// EffectiveType returns the cell type used for the column,
// see FieldType.Effective.
func (c *Column) EffectiveType(richTextAvailable bool) FieldType {
	return c.FieldType.Effective(richTextAvailable)
}

// SchemaColumn is a Column together with the effective
// cell type the rows grid uses for its cells.
type SchemaColumn struct {
	Column
	Type FieldType
}

// Schema recomputes the effective type of every column
// for the rows grid.
func Schema(columns []Column, richText RichText) []SchemaColumn {
	available := richTextAvailable(richText)
	schema := make([]SchemaColumn, len(columns))
	for i := range columns {
		schema[i] = SchemaColumn{
			Column: columns[i],
			Type:   columns[i].EffectiveType(available),
		}
	}
	return schema
}

// ColumnIndex returns the index of the column with id
// or -1 if there is none.
func ColumnIndex(columns []Column, id ColumnID) int {
	for i := range columns {
		if columns[i].ID == id {
			return i
		}
	}
	return -1
}

// idSequence hands out identities of the form prefix+N
// that are greater than every identity observed so far.
type idSequence struct {
	prefix string
	next   int
}

func (s *idSequence) observe(id string) {
	if n, ok := parseSeqID(s.prefix, id); ok && n >= s.next {
		s.next = n + 1
	}
}

func (s *idSequence) allocate() string {
	id := s.prefix + strconv.Itoa(s.next)
	s.next++
	return id
}

func parseSeqID(prefix, id string) (int, bool) {
	numStr, ok := strings.CutPrefix(id, prefix)
	if !ok || numStr == "" {
		return 0, false
	}
	n, err := strconv.Atoi(numStr)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// PositionalColumnID returns the id used for the cell value
// at index in a positional stored row.
func PositionalColumnID(index int) ColumnID {
	return ColumnID(columnIDPrefix + strconv.Itoa(index))
}

// PositionalRowID returns the id used for the row at index
// of positional stored rows.
func PositionalRowID(index int) RowID {
	return RowID(rowIDPrefix + strconv.Itoa(index))
}
