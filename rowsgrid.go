package tablemaker

import (
	"fmt"
	"slices"

	"go.uber.org/multierr"
)

// RowsGrid is the editor of the rows of a table.
//
// It is built from a schema of columns that is fixed for the lifetime
// of the grid. Column changes are applied by destroying the grid and
// creating a new one from the reconciled rows.
//
// Cells of FieldTypeHTML columns are edited by rich-text editors
// created with InitRichText. Every mutation notifies the registered
// change handlers synchronously in registration order before returning.
type RowsGrid struct {
	schema   []SchemaColumn
	rows     []Row
	newID    func() RowID
	handlers []func(RowChange)

	richText  RichText
	config    RichTextConfig
	editors   map[string]EditorHandle
	destroyed bool
}

// NewRowsGrid returns a grid editing copies of rows with the passed schema.
// newID is called to allocate the id of added rows.
func NewRowsGrid(schema []SchemaColumn, rows []Row, newID func() RowID) *RowsGrid {
	return &RowsGrid{
		schema:  slices.Clone(schema),
		rows:    cloneRows(rows),
		newID:   newID,
		editors: make(map[string]EditorHandle),
	}
}

// OnChange registers a change handler.
func (g *RowsGrid) OnChange(handler func(RowChange)) {
	g.handlers = append(g.handlers, handler)
}

func (g *RowsGrid) emit(change RowChange) {
	for _, handler := range g.handlers {
		handler(change)
	}
}

// Schema returns a copy of the grid's columns.
func (g *RowsGrid) Schema() []SchemaColumn {
	return slices.Clone(g.schema)
}

// Rows returns copies of the current rows
// including values of columns not in the schema.
func (g *RowsGrid) Rows() []Row {
	return cloneRows(g.rows)
}

// Len returns the number of rows.
func (g *RowsGrid) Len() int {
	return len(g.rows)
}

func (g *RowsGrid) rowIndex(id RowID) int {
	for i := range g.rows {
		if g.rows[i].ID == id {
			return i
		}
	}
	return -1
}

func (g *RowsGrid) schemaIndex(id ColumnID) int {
	for i := range g.schema {
		if g.schema[i].ID == id {
			return i
		}
	}
	return -1
}

// Cell returns the typed value of a cell.
// A cell without value is an empty value of the column's type.
func (g *RowsGrid) Cell(rowID RowID, colID ColumnID) (CellValue, error) {
	r := g.rowIndex(rowID)
	if r < 0 {
		return CellValue{}, fmt.Errorf("%w: %s", ErrRowNotFound, rowID)
	}
	c := g.schemaIndex(colID)
	if c < 0 {
		return CellValue{}, fmt.Errorf("%w: %s", ErrColumnNotFound, colID)
	}
	raw, _ := g.rows[r].Get(colID)
	return CellValueOf(g.schema[c].Type, raw, g.richText), nil
}

// Add appends a row with an empty value for every column
// and returns a copy of it.
// If rich-text editing is initialized, editors are created
// for the new row's rich-text cells.
func (g *RowsGrid) Add() (Row, error) {
	if g.destroyed {
		return Row{}, ErrGridDestroyed
	}
	row := NewRow(g.newID())
	for i := range g.schema {
		row.Set(g.schema[i].ID, "")
	}
	g.rows = append(g.rows, row)
	var err error
	if g.richText != nil {
		err = g.renderEditors(&g.rows[len(g.rows)-1])
	}
	g.emit(RowChange{Kind: RowAdded, RowID: row.ID})
	return row.Clone(), err
}

// Delete removes the row with id and closes its rich-text editors.
func (g *RowsGrid) Delete(id RowID) error {
	if g.destroyed {
		return ErrGridDestroyed
	}
	i := g.rowIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrRowNotFound, id)
	}
	err := g.closeEditors(id)
	g.rows = slices.Delete(g.rows, i, i+1)
	g.emit(RowChange{Kind: RowDeleted, RowID: id})
	return err
}

// Move moves the row with id to index.
func (g *RowsGrid) Move(id RowID, index int) error {
	if g.destroyed {
		return ErrGridDestroyed
	}
	i := g.rowIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrRowNotFound, id)
	}
	if index < 0 || index >= len(g.rows) {
		return fmt.Errorf("%w: row index %d not in [0..%d)", ErrIndexOutOfRange, index, len(g.rows))
	}
	if i == index {
		return nil
	}
	moveElem(g.rows, i, index)
	g.emit(RowChange{Kind: RowMoved, RowID: id})
	return nil
}

// SetCell sets the raw value of the cell of row rowID and column colID.
// The column must be part of the grid's schema.
func (g *RowsGrid) SetCell(rowID RowID, colID ColumnID, value any) error {
	if g.destroyed {
		return ErrGridDestroyed
	}
	r := g.rowIndex(rowID)
	if r < 0 {
		return fmt.Errorf("%w: %s", ErrRowNotFound, rowID)
	}
	if g.schemaIndex(colID) < 0 {
		return fmt.Errorf("%w: %s", ErrColumnNotFound, colID)
	}
	g.rows[r].Set(colID, value)
	g.emit(RowChange{Kind: CellEdited, RowID: rowID, ColumnID: colID})
	return nil
}

// InitRichText creates a rich-text editor for every cell
// of every FieldTypeHTML column using a copy of config
// with "id" set to the cell's CellEditorID.
//
// Editors that can't be created are skipped,
// their errors are returned combined.
func (g *RowsGrid) InitRichText(richText RichText, config RichTextConfig) error {
	if g.destroyed {
		return ErrGridDestroyed
	}
	if !richTextAvailable(richText) {
		return nil
	}
	g.richText = richText
	g.config = config
	var err error
	for r := range g.rows {
		err = multierr.Append(err, g.renderEditors(&g.rows[r]))
	}
	return err
}

func (g *RowsGrid) renderEditors(row *Row) (err error) {
	for i := range g.schema {
		if g.schema[i].Type != FieldTypeHTML {
			continue
		}
		cellID := CellEditorID(row.ID, i)
		config := g.config.Clone()
		if config == nil {
			config = make(RichTextConfig)
		}
		config["id"] = cellID
		value, _ := row.Get(g.schema[i].ID)
		editor, e := g.richText.RenderEditor(cellID, value, config)
		if e != nil {
			err = multierr.Append(err, fmt.Errorf("rich-text editor %s: %w", cellID, e))
			continue
		}
		g.editors[cellID] = editor
	}
	return err
}

func (g *RowsGrid) closeEditors(rowID RowID) (err error) {
	for i := range g.schema {
		cellID := CellEditorID(rowID, i)
		if editor, ok := g.editors[cellID]; ok {
			err = multierr.Append(err, editor.Close())
			delete(g.editors, cellID)
		}
	}
	return err
}

// Editors returns the sorted cell ids of all live rich-text editors.
func (g *RowsGrid) Editors() []string {
	ids := make([]string, 0, len(g.editors))
	for id := range g.editors {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Destroy closes all rich-text editors and unregisters
// all change handlers. The grid can't be mutated afterwards.
func (g *RowsGrid) Destroy() (err error) {
	if g.destroyed {
		return nil
	}
	for id, editor := range g.editors {
		err = multierr.Append(err, editor.Close())
		delete(g.editors, id)
	}
	g.handlers = nil
	g.destroyed = true
	return err
}
