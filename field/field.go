// Package field adapts a table document to a content field:
// normalizing stored values with their HTML preview,
// serializing for storage, loading and saving through a Store,
// and bootstrapping edit sessions with the editor settings.
package field

import (
	"context"
	"errors"
	"html/template"
	"io/fs"

	"go.uber.org/zap"

	"github.com/domonda/go-tablemaker"
	"github.com/domonda/go-tablemaker/formpost"
	"github.com/domonda/go-tablemaker/htmltable"
)

// Store persists serialized field values
// per element and field handle.
// Load returns an error wrapping fs.ErrNotExist
// if no value was saved.
type Store interface {
	Load(ctx context.Context, element, handle string) ([]byte, error)
	Save(ctx context.Context, element, handle string, value []byte) error
}

// Field is a table field with its settings.
// RichText, Store and Logger are optional.
type Field struct {
	Handle   string
	Settings Settings
	RichText tablemaker.RichText
	Store    Store
	Logger   *zap.Logger
	// Options are passed on to every Controller.
	Options []tablemaker.Option
}

// Value is the normalized value of a field.
type Value struct {
	Columns []tablemaker.StoredColumn `json:"columns"`
	Rows    [][]any                   `json:"rows"`
	// Table is the computed HTML preview, it is never stored.
	Table template.HTML `json:"table"`

	Document *tablemaker.Document `json:"-"`
}

func (f *Field) richText() tablemaker.RichText {
	if f.RichText == nil {
		return tablemaker.NoRichText
	}
	return f.RichText
}

func (f *Field) logger() *zap.Logger {
	if f.Logger == nil {
		return zap.NewNop()
	}
	return f.Logger.With(zap.String("field", f.Handle))
}

func (f *Field) options(opts ...tablemaker.Option) []tablemaker.Option {
	all := []tablemaker.Option{
		tablemaker.WithLogger(f.logger()),
		tablemaker.WithRichText(f.richText()),
	}
	all = append(all, f.Options...)
	return append(all, opts...)
}

// Normalize returns the Value of a stored, submitted
// or already normalized value.
// Malformed values result in an empty Value.
func (f *Field) Normalize(value any) *Value {
	if v, ok := value.(*Value); ok && v != nil {
		return v
	}
	doc := f.document(value)
	stored := tablemaker.ToStorage(doc, f.richText(), f.options()...)
	return &Value{
		Columns:  stored.Columns,
		Rows:     stored.Rows,
		Table:    htmltable.Preview(doc, f.richText()),
		Document: doc,
	}
}

func (f *Field) document(value any) *tablemaker.Document {
	switch x := value.(type) {
	case *tablemaker.Document:
		if x == nil {
			return new(tablemaker.Document)
		}
		return x
	case *tablemaker.Controller:
		x.Flush()
		return x.Document()
	case *Editor:
		x.Flush()
		return x.Document()
	case *Value:
		if x == nil {
			return new(tablemaker.Document)
		}
		if x.Document != nil {
			return x.Document
		}
		return tablemaker.FromStorage(tablemaker.Stored{Columns: x.Columns, Rows: x.Rows}, f.options()...)
	}
	return tablemaker.FromStorage(value, f.options()...)
}

// Serialize returns the storage JSON of value.
// Column identity is not stored, rows are positional.
func (f *Field) Serialize(value any) ([]byte, error) {
	return tablemaker.MarshalStorage(f.document(value), f.richText(), f.options()...)
}

// Decode returns the Value submitted as URL encoded form data.
func (f *Field) Decode(query string) (*Value, error) {
	doc, err := formpost.DecodeQuery(query, f.Handle, f.options()...)
	if err != nil {
		return nil, err
	}
	return f.Normalize(doc), nil
}

// Load returns the stored Value of element.
// A missing value results in an empty Value.
func (f *Field) Load(ctx context.Context, element string) (*Value, error) {
	if f.Store == nil {
		return nil, errors.New("field has no store")
	}
	data, err := f.Store.Load(ctx, element, f.Handle)
	if errors.Is(err, fs.ErrNotExist) {
		return f.Normalize(nil), nil
	}
	if err != nil {
		return nil, err
	}
	return f.Normalize(data), nil
}

// Save serializes value and saves it for element.
func (f *Field) Save(ctx context.Context, element string, value any) error {
	if f.Store == nil {
		return errors.New("field has no store")
	}
	data, err := f.Serialize(value)
	if err != nil {
		return err
	}
	f.logger().Debug("Saving field value", zap.String("element", element), zap.Int("bytes", len(data)))
	return f.Store.Save(ctx, element, f.Handle, data)
}
