package tablemaker

import (
	"github.com/elliotchance/orderedmap"
)

// RowID is the identity of a row within a Document.
type RowID string

// Row is an ordered mapping from column identity to raw cell value.
//
// A Row is not required to hold a value for every current column
// and may hold values of columns that no longer exist (orphaned cells).
// The zero value is an empty row without id.
type Row struct {
	ID RowID

	cells *orderedmap.OrderedMap
}

// NewRow returns an empty row with the passed id.
func NewRow(id RowID) Row {
	return Row{ID: id, cells: orderedmap.NewOrderedMap()}
}

// Get returns the raw value for the column id.
func (r *Row) Get(id ColumnID) (any, bool) {
	if r.cells == nil {
		return nil, false
	}
	return r.cells.Get(id)
}

// Set sets the raw value for the column id.
// A new id is appended at the end of the row,
// an existing one keeps its position.
func (r *Row) Set(id ColumnID, value any) {
	if r.cells == nil {
		r.cells = orderedmap.NewOrderedMap()
	}
	r.cells.Set(id, value)
}

// Delete removes the value for the column id.
func (r *Row) Delete(id ColumnID) bool {
	if r.cells == nil {
		return false
	}
	return r.cells.Delete(id)
}

// Len returns the number of cell values in the row.
func (r *Row) Len() int {
	if r.cells == nil {
		return 0
	}
	return r.cells.Len()
}

// Keys returns the column ids of the row's values in order.
func (r *Row) Keys() []ColumnID {
	if r.Len() == 0 {
		return nil
	}
	keys := make([]ColumnID, 0, r.cells.Len())
	for el := r.cells.Front(); el != nil; el = el.Next() {
		keys = append(keys, el.Key.(ColumnID))
	}
	return keys
}

// At returns the column id and raw value at position index
// of the row's ordered values.
func (r *Row) At(index int) (ColumnID, any, bool) {
	if r.cells == nil || index < 0 || index >= r.cells.Len() {
		return "", nil, false
	}
	i := 0
	for el := r.cells.Front(); el != nil; el = el.Next() {
		if i == index {
			return el.Key.(ColumnID), el.Value, true
		}
		i++
	}
	return "", nil, false
}

// Each calls f for every value of the row in order
// until f returns false.
func (r *Row) Each(f func(id ColumnID, value any) bool) {
	if r.cells == nil {
		return
	}
	for el := r.cells.Front(); el != nil; el = el.Next() {
		if !f(el.Key.(ColumnID), el.Value) {
			return
		}
	}
}

// Clone returns a copy of the row
// that does not share its cell mapping with r.
func (r *Row) Clone() Row {
	clone := NewRow(r.ID)
	r.Each(func(id ColumnID, value any) bool {
		clone.cells.Set(id, value)
		return true
	})
	return clone
}

// Map returns the values of the row as map.
func (r *Row) Map() map[ColumnID]any {
	m := make(map[ColumnID]any, r.Len())
	r.Each(func(id ColumnID, value any) bool {
		m[id] = value
		return true
	})
	return m
}

func cloneRows(rows []Row) []Row {
	if rows == nil {
		return nil
	}
	clones := make([]Row, len(rows))
	for i := range rows {
		clones[i] = rows[i].Clone()
	}
	return clones
}
