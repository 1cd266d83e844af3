package tablemaker

import (
	"context"
	"errors"
	"fmt"
)

// ErrRichTextUnavailable is returned by the NoRichText capability.
var ErrRichTextUnavailable = errors.New("rich-text capability not available")

// RichTextConfig is the opaque configuration blob
// a RichText capability hands to its editors.
type RichTextConfig map[string]any

// Clone returns a shallow copy of the config.
func (c RichTextConfig) Clone() RichTextConfig {
	if c == nil {
		return nil
	}
	clone := make(RichTextConfig, len(c))
	for k, v := range c {
		clone[k] = v
	}
	return clone
}

// RichTextDocument is a parsed rich-text cell value.
// Its internals are owned by the RichText implementation.
type RichTextDocument interface {
	// Markup returns the document as HTML markup
	// suitable for the editing surface and the preview.
	Markup() string
}

// EditorHandle is one live rich-text editing surface of a cell.
type EditorHandle interface {
	// CellID returns the unique cell identity the editor was created for.
	CellID() string
	// Close releases the editor.
	Close() error
}

// RichText is the optional pluggable rich-text cell editor.
//
// It is injected into the Controller and the Serializer,
// never looked up globally. Use NoRichText if no
// implementation is installed.
type RichText interface {
	// Available returns if rich-text editing can be used.
	// If false, all FieldTypeHTML columns behave as plain text.
	Available() bool

	// Configure returns the editor configuration for an edit session.
	Configure(ctx context.Context) (RichTextConfig, error)

	// RenderEditor creates the editing surface of one cell.
	RenderEditor(cellID string, value any, config RichTextConfig) (EditorHandle, error)

	// Normalize parses a raw stored or submitted cell value.
	Normalize(raw any) (RichTextDocument, error)

	// Serialize returns the canonical storage encoding of a document.
	Serialize(doc RichTextDocument) (any, error)
}

// NoRichText is the RichText capability used when
// no rich-text editor is installed.
var NoRichText RichText = noRichText{}

type noRichText struct{}

func (noRichText) Available() bool { return false }

func (noRichText) Configure(context.Context) (RichTextConfig, error) {
	return RichTextConfig{}, nil
}

func (noRichText) RenderEditor(string, any, RichTextConfig) (EditorHandle, error) {
	return nil, ErrRichTextUnavailable
}

func (noRichText) Normalize(any) (RichTextDocument, error) {
	return nil, ErrRichTextUnavailable
}

func (noRichText) Serialize(RichTextDocument) (any, error) {
	return nil, ErrRichTextUnavailable
}

// CellEditorID returns the identity of the rich-text editor
// of the cell at column index colIndex in the row rowID.
func CellEditorID(rowID RowID, colIndex int) string {
	return fmt.Sprintf("textarea-%s-%d", rowID, colIndex)
}

func richTextAvailable(rt RichText) bool {
	return rt != nil && rt.Available()
}
