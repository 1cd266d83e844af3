package tablemaker

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

// manualScheduler runs scheduled functions only when Fire is called.
type manualScheduler struct {
	mu     sync.Mutex
	timers []*manualTimer
}

type manualTimer struct {
	f       func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := &manualTimer{f: f}
	s.timers = append(s.timers, t)
	return t
}

// Fire runs all active timers and returns how many ran.
func (s *manualScheduler) Fire() int {
	s.mu.Lock()
	timers := s.timers
	s.timers = nil
	s.mu.Unlock()

	n := 0
	for _, t := range timers {
		if t.stopped || t.fired {
			continue
		}
		t.fired = true
		t.f()
		n++
	}
	return n
}

type fakeDoc string

func (d fakeDoc) Markup() string { return string(d) }

type fakeEditor struct {
	id string
	rt *fakeRichText
}

func (e *fakeEditor) CellID() string { return e.id }

func (e *fakeEditor) Close() error {
	e.rt.closed = append(e.rt.closed, e.id)
	return nil
}

// fakeRichText trims whitespace as its canonical storage encoding.
type fakeRichText struct {
	available    bool
	failRender   map[string]bool
	serializeErr error

	rendered []string
	configs  []RichTextConfig
	closed   []string
}

func (rt *fakeRichText) Available() bool { return rt.available }

func (rt *fakeRichText) Configure(context.Context) (RichTextConfig, error) {
	return RichTextConfig{"lang": "en"}, nil
}

func (rt *fakeRichText) RenderEditor(cellID string, value any, config RichTextConfig) (EditorHandle, error) {
	if rt.failRender[cellID] {
		return nil, errors.New("render failed")
	}
	rt.rendered = append(rt.rendered, cellID)
	rt.configs = append(rt.configs, config)
	return &fakeEditor{id: cellID, rt: rt}, nil
}

func (rt *fakeRichText) Normalize(raw any) (RichTextDocument, error) {
	return fakeDoc(strings.TrimSpace(RawString(raw))), nil
}

func (rt *fakeRichText) Serialize(doc RichTextDocument) (any, error) {
	if rt.serializeErr != nil {
		return nil, rt.serializeErr
	}
	return doc.Markup(), nil
}

func testRow(id RowID, keyValues ...any) Row {
	row := NewRow(id)
	for i := 0; i+1 < len(keyValues); i += 2 {
		row.Set(ColumnID(keyValues[i].(string)), keyValues[i+1])
	}
	return row
}

func testColumns(ids ...string) []Column {
	columns := make([]Column, len(ids))
	for i, id := range ids {
		columns[i] = NewColumn(ColumnID(id))
		columns[i].Heading = strings.ToUpper(id)
	}
	return columns
}
