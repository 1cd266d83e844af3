package tablemaker

import (
	"fmt"
	"slices"
)

// ColumnIDSet is a set of column identities.
type ColumnIDSet map[ColumnID]struct{}

// Contains returns true if id is in the set.
// Calling Contains on a nil set is valid.
func (s ColumnIDSet) Contains(id ColumnID) bool {
	_, ok := s[id]
	return ok
}

// Add adds id to the set.
func (s ColumnIDSet) Add(id ColumnID) {
	s[id] = struct{}{}
}

// Clone returns a copy of the set.
func (s ColumnIDSet) Clone() ColumnIDSet {
	clone := make(ColumnIDSet, len(s))
	for id := range s {
		clone[id] = struct{}{}
	}
	return clone
}

// Document is the value of a table field:
// an ordered sequence of column definitions
// and an ordered sequence of rows.
//
// Rows may hold values for ids that are not in Columns.
// Such orphaned values are kept in memory,
// ignored by the rows grid and dropped by ToStorage.
//
// The zero value is an empty document without columns and rows.
type Document struct {
	Columns []Column
	Rows    []Row

	// retired holds the ids of deleted columns
	retired ColumnIDSet
	colSeq  idSequence
	rowSeq  idSequence
}

// NewDocument returns the document of a field
// that has no stored value yet:
// one blank column and one empty row.
func NewDocument() *Document {
	doc := new(Document)
	col := NewColumn(doc.NewColumnID())
	row := NewRow(doc.NewRowID())
	row.Set(col.ID, "")
	doc.Columns = []Column{col}
	doc.Rows = []Row{row}
	return doc
}

// NumColumns returns the number of live columns.
func (doc *Document) NumColumns() int { return len(doc.Columns) }

// NumRows returns the number of rows.
func (doc *Document) NumRows() int { return len(doc.Rows) }

// Headings returns the headings of all columns.
func (doc *Document) Headings() []string {
	headings := make([]string, len(doc.Columns))
	for i := range doc.Columns {
		headings[i] = doc.Columns[i].Heading
	}
	return headings
}

// ColumnIndex returns the index of the column with id or -1.
func (doc *Document) ColumnIndex(id ColumnID) int {
	return ColumnIndex(doc.Columns, id)
}

// RowIndex returns the index of the row with id or -1.
func (doc *Document) RowIndex(id RowID) int {
	for i := range doc.Rows {
		if doc.Rows[i].ID == id {
			return i
		}
	}
	return -1
}

// Schema returns the columns with their effective cell types.
func (doc *Document) Schema(richText RichText) []SchemaColumn {
	return Schema(doc.Columns, richText)
}

// Retire marks id as the identity of a deleted column.
// Values stored under a retired id are orphans
// and never picked up by positional fallback.
func (doc *Document) Retire(id ColumnID) {
	if doc.retired == nil {
		doc.retired = make(ColumnIDSet)
	}
	doc.retired.Add(id)
	doc.colSeq.prefix = columnIDPrefix
	doc.colSeq.observe(string(id))
}

// Retired returns a copy of the set of deleted column ids.
func (doc *Document) Retired() ColumnIDSet {
	return doc.retired.Clone()
}

// KnownColumnIDs returns the ids of all live and retired columns.
func (doc *Document) KnownColumnIDs() ColumnIDSet {
	known := doc.retired.Clone()
	for i := range doc.Columns {
		known.Add(doc.Columns[i].ID)
	}
	return known
}

// NewColumnID returns a column id that was never used
// by any column or cell of the document.
func (doc *Document) NewColumnID() ColumnID {
	doc.colSeq.prefix = columnIDPrefix
	for i := range doc.Columns {
		doc.colSeq.observe(string(doc.Columns[i].ID))
	}
	for id := range doc.retired {
		doc.colSeq.observe(string(id))
	}
	for i := range doc.Rows {
		doc.Rows[i].Each(func(id ColumnID, _ any) bool {
			doc.colSeq.observe(string(id))
			return true
		})
	}
	return ColumnID(doc.colSeq.allocate())
}

// NewRowID returns a row id that was never used
// by any row of the document.
func (doc *Document) NewRowID() RowID {
	doc.rowSeq.prefix = rowIDPrefix
	for i := range doc.Rows {
		doc.rowSeq.observe(string(doc.Rows[i].ID))
	}
	return RowID(doc.rowSeq.allocate())
}

// Cell returns the raw value of the cell at row and col
// using the same identity then position lookup as Reconcile.
// A cell without value is returned as nil, false.
func (doc *Document) Cell(row, col int) (any, bool) {
	if row < 0 || row >= len(doc.Rows) || col < 0 || col >= len(doc.Columns) {
		return nil, false
	}
	value, _, ok := lookupCell(doc.Columns[col].ID, col, &doc.Rows[row], doc.KnownColumnIDs(), nil)
	return value, ok
}

// CellValue returns the typed value of the cell at row and col.
func (doc *Document) CellValue(row, col int, richText RichText) CellValue {
	raw, _ := doc.Cell(row, col)
	if col < 0 || col >= len(doc.Columns) {
		return CellValue{}
	}
	return CellValueOf(doc.Columns[col].EffectiveType(richTextAvailable(richText)), raw, richText)
}

// Orphans returns the column ids of values in the row at index
// that belong to no live column.
func (doc *Document) Orphans(row int) []ColumnID {
	if row < 0 || row >= len(doc.Rows) {
		return nil
	}
	var orphans []ColumnID
	doc.Rows[row].Each(func(id ColumnID, _ any) bool {
		if doc.ColumnIndex(id) < 0 {
			orphans = append(orphans, id)
		}
		return true
	})
	return orphans
}

// Clone returns a deep copy of the document.
func (doc *Document) Clone() *Document {
	return &Document{
		Columns: slices.Clone(doc.Columns),
		Rows:    cloneRows(doc.Rows),
		retired: doc.retired.Clone(),
		colSeq:  doc.colSeq,
		rowSeq:  doc.rowSeq,
	}
}

func (doc *Document) String() string {
	return fmt.Sprintf("Document{%d columns, %d rows}", len(doc.Columns), len(doc.Rows))
}
