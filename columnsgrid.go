package tablemaker

import (
	"fmt"
	"slices"
)

// Column attribute names as used in submitted forms.
const (
	AttrHeading   = "heading"
	AttrFieldType = "fieldType"
	AttrWidth     = "width"
	AttrAlign     = "align"
)

// ColumnsGrid is the editor of the column definitions.
//
// It works on its own copy of the columns and never touches row data.
// Every mutation notifies the registered change handlers
// synchronously in registration order before returning.
type ColumnsGrid struct {
	columns  []Column
	newID    func() ColumnID
	handlers []func(ColumnChange)
}

// NewColumnsGrid returns a grid editing a copy of columns.
// newID is called to allocate the id of added columns.
func NewColumnsGrid(columns []Column, newID func() ColumnID) *ColumnsGrid {
	return &ColumnsGrid{
		columns: slices.Clone(columns),
		newID:   newID,
	}
}

// OnChange registers a change handler.
func (g *ColumnsGrid) OnChange(handler func(ColumnChange)) {
	g.handlers = append(g.handlers, handler)
}

func (g *ColumnsGrid) emit(change ColumnChange) {
	for _, handler := range g.handlers {
		handler(change)
	}
}

// Columns returns a copy of the current columns.
func (g *ColumnsGrid) Columns() []Column {
	return slices.Clone(g.columns)
}

// Len returns the number of columns.
func (g *ColumnsGrid) Len() int {
	return len(g.columns)
}

// Column returns the column with id.
func (g *ColumnsGrid) Column(id ColumnID) (Column, error) {
	i := ColumnIndex(g.columns, id)
	if i < 0 {
		return Column{}, fmt.Errorf("%w: %s", ErrColumnNotFound, id)
	}
	return g.columns[i], nil
}

// Add appends a blank column and returns it.
func (g *ColumnsGrid) Add() Column {
	col := NewColumn(g.newID())
	g.columns = append(g.columns, col)
	g.emit(ColumnChange{Kind: ColumnAdded, ColumnID: col.ID})
	return col
}

// Delete removes the column with id.
func (g *ColumnsGrid) Delete(id ColumnID) error {
	i := ColumnIndex(g.columns, id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrColumnNotFound, id)
	}
	g.columns = slices.Delete(g.columns, i, i+1)
	g.emit(ColumnChange{Kind: ColumnDeleted, ColumnID: id})
	return nil
}

// Move moves the column with id to index.
func (g *ColumnsGrid) Move(id ColumnID, index int) error {
	i := ColumnIndex(g.columns, id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrColumnNotFound, id)
	}
	if index < 0 || index >= len(g.columns) {
		return fmt.Errorf("%w: column index %d not in [0..%d)", ErrIndexOutOfRange, index, len(g.columns))
	}
	if i == index {
		return nil
	}
	moveElem(g.columns, i, index)
	g.emit(ColumnChange{Kind: ColumnMoved, ColumnID: id})
	return nil
}

// SetHeading sets the heading of the column with id.
func (g *ColumnsGrid) SetHeading(id ColumnID, heading string) error {
	return g.edit(id, AttrHeading, func(col *Column) error {
		col.Heading = heading
		return nil
	})
}

// SetFieldType sets the type tag of the column with id.
func (g *ColumnsGrid) SetFieldType(id ColumnID, fieldType FieldType) error {
	if !fieldType.Valid() {
		return fmt.Errorf("invalid column field type %q", fieldType)
	}
	return g.edit(id, AttrFieldType, func(col *Column) error {
		col.FieldType = fieldType
		return nil
	})
}

// SetWidth sets the width hint of the column with id.
func (g *ColumnsGrid) SetWidth(id ColumnID, width string) error {
	return g.edit(id, AttrWidth, func(col *Column) error {
		col.Width = width
		return nil
	})
}

// SetAlign sets the alignment of the column with id.
func (g *ColumnsGrid) SetAlign(id ColumnID, align Align) error {
	if !align.Valid() {
		return fmt.Errorf("invalid column alignment %q", align)
	}
	return g.edit(id, AttrAlign, func(col *Column) error {
		col.Align = align
		return nil
	})
}

// SetAttribute sets a column attribute by its form name:
// "heading", "fieldType", "width" or "align".
func (g *ColumnsGrid) SetAttribute(id ColumnID, name, value string) error {
	switch name {
	case AttrHeading:
		return g.SetHeading(id, value)
	case AttrFieldType:
		return g.SetFieldType(id, FieldType(value))
	case AttrWidth:
		return g.SetWidth(id, value)
	case AttrAlign:
		align, err := ParseAlign(value)
		if err != nil {
			return err
		}
		return g.SetAlign(id, align)
	}
	return fmt.Errorf("unknown column attribute %q", name)
}

func (g *ColumnsGrid) edit(id ColumnID, attr string, f func(*Column) error) error {
	i := ColumnIndex(g.columns, id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrColumnNotFound, id)
	}
	if err := f(&g.columns[i]); err != nil {
		return err
	}
	g.emit(ColumnChange{Kind: ColumnEdited, ColumnID: id, Attribute: attr})
	return nil
}
