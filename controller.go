package tablemaker

import (
	"context"
	"errors"
	"slices"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	columnsSource = "columns"
	rowsSource    = "rows"
)

// Controller owns the Document of one edit session and
// orchestrates a ColumnsGrid and a RowsGrid editing it.
//
// Adding, deleting or moving a column reconciles immediately:
// the RowsGrid is destroyed and rebuilt from the new columns with
// the previous row data re-attached by Reconcile.
// In-place column edits reconcile after the debounce quiet period.
// Row changes only recompute the flat blob, cell edits also debounced.
//
// All methods are safe for concurrent use,
// mutations are applied one at a time.
type Controller struct {
	mu sync.Mutex

	doc     *Document
	columns *ColumnsGrid
	rows    *RowsGrid

	richText     RichText
	editorConfig RichTextConfig
	debounce     bool
	debouncer    *Debouncer
	logger       *zap.Logger

	blob         []byte
	blobHandlers []func([]byte)
	rebuilds     int
	closed       bool
}

// NewController starts an edit session for doc.
// The Controller takes ownership of doc, use Document
// to get a snapshot of the current state.
// A nil doc starts with NewDocument.
//
// The rich-text editor configuration is requested from
// the capability once per session with ctx.
func NewController(ctx context.Context, doc *Document, opts ...Option) *Controller {
	o := newOptions(opts)
	if doc == nil {
		doc = NewDocument()
	}
	c := &Controller{
		doc:       doc,
		richText:  o.richText,
		debounce:  o.debounce > 0,
		debouncer: NewDebouncer(o.scheduler, o.debounce),
		logger:    o.logger,
	}
	if richTextAvailable(c.richText) {
		config, err := c.richText.Configure(ctx)
		if err != nil {
			c.logger.Warn("Can't configure rich-text editor", zap.Error(err))
		}
		c.editorConfig = config
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.columns = NewColumnsGrid(doc.Columns, doc.NewColumnID)
	c.columns.OnChange(c.onColumnsChange)
	c.reconcileLocked()
	return c
}

func (c *Controller) onColumnsChange(change ColumnChange) {
	c.logger.Debug("Column change", zap.Stringer("kind", change.Kind), zap.String("column", string(change.ColumnID)))

	if change.Kind == ColumnEdited {
		c.deferLocked(columnsSource, c.reconcileLocked)
		return
	}
	if change.Kind == ColumnDeleted {
		c.doc.Retire(change.ColumnID)
	}
	// A structural rebuild includes pending in-place edits
	c.debouncer.Cancel(columnsSource)
	c.reconcileLocked()
}

func (c *Controller) onRowsChange(change RowChange) {
	c.logger.Debug("Row change", zap.Stringer("kind", change.Kind), zap.String("row", string(change.RowID)))

	if change.Kind == CellEdited {
		c.deferLocked(rowsSource, c.updateBlobLocked)
		return
	}
	c.updateBlobLocked()
}

// deferLocked runs f debounced for source
// or immediately if debouncing is disabled.
// Must be called with c.mu locked.
func (c *Controller) deferLocked(source string, f func()) {
	if !c.debounce {
		f()
		return
	}
	c.debouncer.Call(source, func() {
		c.mu.Lock()
		defer c.mu.Unlock()

		if !c.closed {
			f()
		}
	})
}

// reconcileLocked rebuilds the rows grid from the current columns.
// Must be called with c.mu locked.
func (c *Controller) reconcileLocked() {
	var (
		columns = c.columns.Columns()
		schema  = Schema(columns, c.richText)
		prior   = c.doc.Rows
	)
	if c.rows != nil {
		prior = c.rows.Rows()
		if err := c.rows.Destroy(); err != nil {
			c.logger.Warn("Closing rich-text editors failed", zap.Errors("errors", multierr.Errors(err)))
		}
	}
	rows := Reconcile(columns, prior, c.doc.retired)

	c.rows = NewRowsGrid(schema, rows, c.doc.NewRowID)
	c.rows.OnChange(c.onRowsChange)
	if err := c.rows.InitRichText(c.richText, c.editorConfig); err != nil {
		c.logger.Warn("Initializing rich-text editors failed", zap.Errors("errors", multierr.Errors(err)))
	}
	c.rebuilds++

	c.logger.Debug("Rebuilt rows grid",
		zap.Int("columns", len(columns)),
		zap.Int("rows", len(rows)),
		zap.Int("editors", len(c.rows.Editors())),
	)
	c.updateBlobLocked()
}

// updateBlobLocked takes the current data of both grids
// into the document and recomputes the blob.
// Must be called with c.mu locked.
func (c *Controller) updateBlobLocked() {
	c.doc.Columns = c.columns.Columns()
	c.doc.Rows = c.rows.Rows()

	blob, err := Blob(c.doc)
	if err != nil {
		c.logger.Warn("Can't encode table blob", zap.Error(err))
		return
	}
	c.blob = blob
	for _, handler := range c.blobHandlers {
		handler(slices.Clone(blob))
	}
}

// OnBlobChange registers a handler called with
// every recomputed blob.
func (c *Controller) OnBlobChange(handler func(blob []byte)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.blobHandlers = append(c.blobHandlers, handler)
}

// Blob returns the last computed flat blob, see the Blob function.
func (c *Controller) Blob() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()

	return slices.Clone(c.blob)
}

// Document returns a snapshot of the document
// as of the last blob computation.
func (c *Controller) Document() *Document {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.doc.Clone()
}

// EditorConfig returns a copy of the rich-text editor
// configuration of the session, nil if rich text is unavailable.
func (c *Controller) EditorConfig() RichTextConfig {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.editorConfig.Clone()
}

// Stored returns the storage representation
// of the current document.
func (c *Controller) Stored() Stored {
	c.mu.Lock()
	defer c.mu.Unlock()

	return ToStorage(c.doc, c.richText, WithLogger(c.logger))
}

// Columns returns the current columns of the columns grid.
func (c *Controller) Columns() []Column {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.columns.Columns()
}

// Schema returns the schema of the current rows grid.
func (c *Controller) Schema() []SchemaColumn {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.rows.Schema()
}

// Rows returns the current rows of the rows grid.
func (c *Controller) Rows() []Row {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.rows.Rows()
}

// Cell returns the typed value of a cell of the rows grid.
func (c *Controller) Cell(rowID RowID, colID ColumnID) (CellValue, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.rows.Cell(rowID, colID)
}

// Editors returns the cell ids of the live rich-text editors.
func (c *Controller) Editors() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.rows.Editors()
}

// Rebuilds returns how often the rows grid was built.
func (c *Controller) Rebuilds() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.rebuilds
}

// Pending returns the number of debounced changes
// waiting to be applied.
func (c *Controller) Pending() int {
	return c.debouncer.Pending()
}

// AddColumn appends a blank column.
func (c *Controller) AddColumn() (Column, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return Column{}, ErrGridDestroyed
	}
	return c.columns.Add(), nil
}

// DeleteColumn deletes a column.
// Row values of the column stay in memory as orphans.
func (c *Controller) DeleteColumn(id ColumnID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrGridDestroyed
	}
	return c.columns.Delete(id)
}

// MoveColumn moves a column to index.
func (c *Controller) MoveColumn(id ColumnID, index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrGridDestroyed
	}
	return c.columns.Move(id, index)
}

// SetColumnHeading sets the heading of a column.
func (c *Controller) SetColumnHeading(id ColumnID, heading string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrGridDestroyed
	}
	return c.columns.SetHeading(id, heading)
}

// SetColumnFieldType sets the type tag of a column.
func (c *Controller) SetColumnFieldType(id ColumnID, fieldType FieldType) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrGridDestroyed
	}
	return c.columns.SetFieldType(id, fieldType)
}

// SetColumnWidth sets the width hint of a column.
func (c *Controller) SetColumnWidth(id ColumnID, width string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrGridDestroyed
	}
	return c.columns.SetWidth(id, width)
}

// SetColumnAlign sets the alignment of a column.
func (c *Controller) SetColumnAlign(id ColumnID, align Align) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrGridDestroyed
	}
	return c.columns.SetAlign(id, align)
}

// SetColumnAttribute sets a column attribute by its form name.
func (c *Controller) SetColumnAttribute(id ColumnID, name, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrGridDestroyed
	}
	return c.columns.SetAttribute(id, name, value)
}

// AddRow appends a row with empty cells.
func (c *Controller) AddRow() (Row, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	row, err := c.rows.Add()
	if errors.Is(err, ErrGridDestroyed) {
		return Row{}, err
	}
	if err != nil {
		c.logger.Warn("Initializing rich-text editors failed", zap.String("row", string(row.ID)), zap.Error(err))
	}
	return row, nil
}

// DeleteRow deletes a row.
func (c *Controller) DeleteRow(id RowID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.rows.Delete(id)
	if err != nil && !errors.Is(err, ErrRowNotFound) && !errors.Is(err, ErrGridDestroyed) {
		c.logger.Warn("Closing rich-text editors failed", zap.String("row", string(id)), zap.Error(err))
		return nil
	}
	return err
}

// MoveRow moves a row to index.
func (c *Controller) MoveRow(id RowID, index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.rows.Move(id, index)
}

// SetCell sets the raw value of a cell.
func (c *Controller) SetCell(rowID RowID, colID ColumnID, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.rows.SetCell(rowID, colID, value)
}

// Flush applies all debounced changes immediately.
func (c *Controller) Flush() {
	c.debouncer.Flush()
}

// Close drops pending debounced changes and
// closes all rich-text editors.
func (c *Controller) Close() error {
	c.debouncer.Stop()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	return c.rows.Destroy()
}
