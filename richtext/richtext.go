// Package richtext implements the tablemaker.RichText capability
// with markdown input, sanitized HTML documents and reference tags.
//
// Cell values are normalized to sanitized HTML.
// Values without any tag or entity are read as markdown.
// Reference tags like {entry:12@1:url||https://example.com/page}
// are expanded to their URL with the reference as fragment
// and folded back into tags when serialized for storage.
package richtext

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/ungerik/go-fs"
	"github.com/yuin/goldmark"
	"go.uber.org/zap"

	"github.com/domonda/go-tablemaker"
)

// DefaultConfigFilename is the editor config file name
// looked up in the config directory.
const DefaultConfigFilename = "Project.json"

var _ tablemaker.RichText = new(Editor)

// Editor is the rich-text capability.
type Editor struct {
	enabled    bool
	configFile fs.FileReader
	language   string
	siteID     int
	markdown   goldmark.Markdown
	policy     *bluemonday.Policy
	logger     *zap.Logger

	mu      sync.Mutex
	editors map[string]*Surface
}

// Option configures an Editor.
type Option func(*Editor)

// WithConfigFile sets the JSON file with the editor toolbar config.
// A nil or non existing file results in a config of false.
func WithConfigFile(file fs.FileReader) Option {
	return func(e *Editor) { e.configFile = file }
}

// WithLanguage sets the editor UI language, default "en".
func WithLanguage(lang string) Option {
	return func(e *Editor) { e.language = lang }
}

// WithSiteID sets the site id references are resolved for.
func WithSiteID(id int) Option {
	return func(e *Editor) { e.siteID = id }
}

// WithPolicy replaces the sanitizing policy.
func WithPolicy(policy *bluemonday.Policy) Option {
	return func(e *Editor) { e.policy = policy }
}

// WithLogger sets the logger for editor lifecycle events.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Editor) { e.logger = logger }
}

// Disabled makes the capability unavailable,
// as if no rich-text editor was installed.
func Disabled() Option {
	return func(e *Editor) { e.enabled = false }
}

// New returns an available rich-text capability.
func New(opts ...Option) *Editor {
	e := &Editor{
		enabled:  true,
		language: "en",
		siteID:   1,
		markdown: goldmark.New(),
		policy:   DefaultPolicy(),
		logger:   zap.NewNop(),
		editors:  make(map[string]*Surface),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// DefaultPolicy returns the user generated content policy
// without forcing rel="nofollow" on links.
func DefaultPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.RequireNoFollowOnLinks(false)
	return p
}

func (e *Editor) Available() bool {
	return e != nil && e.enabled
}

// Configure returns the editor config of an edit session.
// The "id" is set per cell by the caller.
func (e *Editor) Configure(ctx context.Context) (tablemaker.RichTextConfig, error) {
	if !e.Available() {
		return nil, tablemaker.ErrRichTextUnavailable
	}
	editorConfig, err := e.readConfigFile()
	if err != nil {
		return nil, err
	}
	return tablemaker.RichTextConfig{
		"id":               nil,
		"linkOptions":      []any{},
		"volumes":          []any{},
		"transforms":       []any{},
		"elementSiteId":    e.siteID,
		"redactorConfig":   editorConfig,
		"redactorLang":     e.language,
		"showAllUploaders": false,
	}, nil
}

func (e *Editor) readConfigFile() (any, error) {
	if e.configFile == nil || !e.configFile.Exists() {
		return false, nil
	}
	data, err := e.configFile.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading rich-text config: %w", err)
	}
	var config any
	err = json.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("rich-text config %s: %w", e.configFile.Name(), err)
	}
	return config, nil
}

// RenderEditor opens the editing surface of a cell.
// Rendering a cell id again replaces its previous surface.
func (e *Editor) RenderEditor(cellID string, value any, config tablemaker.RichTextConfig) (tablemaker.EditorHandle, error) {
	if !e.Available() {
		return nil, tablemaker.ErrRichTextUnavailable
	}
	doc, err := e.Normalize(value)
	if err != nil {
		return nil, err
	}
	s := &Surface{
		editor: e,
		id:     cellID,
		doc:    doc.(*Document),
		config: config.Clone(),
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if prev, ok := e.editors[cellID]; ok {
		prev.closed = true
	}
	e.editors[cellID] = s
	e.logger.Debug("Rendered rich-text editor", zap.String("cell", cellID))
	return s, nil
}

// Open returns the ids of all open editing surfaces.
func (e *Editor) Open() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	ids := make([]string, 0, len(e.editors))
	for id := range e.editors {
		ids = append(ids, id)
	}
	return ids
}

// Normalize parses a raw cell value into a sanitized Document.
// Accepted are strings, []byte, *Document and nil.
func (e *Editor) Normalize(raw any) (tablemaker.RichTextDocument, error) {
	var src string
	switch x := raw.(type) {
	case nil:
	case string:
		src = x
	case []byte:
		src = string(x)
	case *Document:
		return x, nil
	case tablemaker.RichTextDocument:
		src = x.Markup()
	default:
		return nil, fmt.Errorf("rich-text value of type %T", raw)
	}

	src = ExpandRefTags(src)
	if !isMarkup(src) && strings.TrimSpace(src) != "" {
		var buf bytes.Buffer
		err := e.markdown.Convert([]byte(src), &buf)
		if err != nil {
			return nil, fmt.Errorf("rich-text markdown: %w", err)
		}
		src = buf.String()
	}
	html := strings.TrimSpace(e.policy.Sanitize(src))
	return &Document{html: html}, nil
}

// isMarkup reports if src is read as HTML instead of markdown.
// Sanitized output escapes a bare '<' to an entity,
// so entities count as markup to keep normalizing stable.
func isMarkup(src string) bool {
	return strings.ContainsRune(src, '<') || htmlEntityRegexp.MatchString(src)
}

var htmlEntityRegexp = regexp.MustCompile(`&(#[0-9]+|#[xX][0-9a-fA-F]+|[a-zA-Z][a-zA-Z0-9]*);`)

// Serialize returns the storage string of doc
// with reference URLs folded back into tags.
func (e *Editor) Serialize(doc tablemaker.RichTextDocument) (any, error) {
	if doc == nil {
		return "", nil
	}
	return FoldRefTags(doc.Markup()), nil
}

// Document is a sanitized HTML rich-text document.
type Document struct {
	html string
}

func (d *Document) Markup() string {
	if d == nil {
		return ""
	}
	return d.html
}

func (d *Document) String() string {
	return d.Markup()
}

// Surface is an open editing surface of one cell.
type Surface struct {
	editor *Editor
	id     string
	doc    *Document
	config tablemaker.RichTextConfig
	closed bool
}

func (s *Surface) CellID() string { return s.id }

// Document returns the document the surface was opened with.
func (s *Surface) Document() *Document { return s.doc }

// Config returns the per cell config.
func (s *Surface) Config() tablemaker.RichTextConfig { return s.config }

func (s *Surface) Close() error {
	e := s.editor
	e.mu.Lock()
	defer e.mu.Unlock()

	if s.closed {
		return fmt.Errorf("rich-text editor %s already closed", s.id)
	}
	s.closed = true
	if e.editors[s.id] == s {
		delete(e.editors, s.id)
	}
	e.logger.Debug("Closed rich-text editor", zap.String("cell", s.id))
	return nil
}
