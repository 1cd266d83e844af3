// Package sqltable persists table field values in SQLite
// and reads SQL query results as table documents.
//
// Every save of a field value adds a revision identified
// by a ULID, Load returns the latest revision.
package sqltable

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned if no value was saved.
// It wraps fs.ErrNotExist.
var ErrNotFound = fmt.Errorf("table value %w", fs.ErrNotExist)

const schema = `
CREATE TABLE IF NOT EXISTS table_values (
	element  TEXT NOT NULL,
	handle   TEXT NOT NULL,
	revision TEXT NOT NULL,
	saved_at INTEGER NOT NULL,
	value    TEXT NOT NULL,
	PRIMARY KEY (element, handle, revision)
);
CREATE INDEX IF NOT EXISTS table_values_latest ON table_values (element, handle, revision DESC);
`

// Revision is one saved version of a field value.
type Revision struct {
	ID      ulid.ULID
	SavedAt time.Time
	Value   []byte
}

// Store is a SQLite backed value store.
type Store struct {
	db     *sql.DB
	logger *zap.Logger

	mu      sync.Mutex
	entropy io.Reader
	now     func() time.Time
}

// Open opens or creates the SQLite database at path.
// Use ":memory:" for a temporary database.
func Open(ctx context.Context, path string, logger *zap.Logger) (s *Store, err error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err != nil {
			err = multierr.Append(err, db.Close())
		}
	}()

	// SQLite benefits from a single writer connection,
	// also required to keep a :memory: database
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{"PRAGMA journal_mode = WAL", "PRAGMA busy_timeout = 5000"} {
		if _, err = db.ExecContext(ctx, pragma); err != nil {
			return nil, fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	if _, err = db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	logger.Debug("Opened table value store", zap.String("path", path))
	return &Store{
		db:      db,
		logger:  logger,
		entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0), //#nosec G404
		now:     time.Now,
	}, nil
}

// DB returns the underlying database.
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) newRevisionID() (ulid.ULID, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	id, err := ulid.New(ulid.Timestamp(now), s.entropy)
	return id, now, err
}

// Save adds value as new revision.
func (s *Store) Save(ctx context.Context, element, handle string, value []byte) error {
	id, now, err := s.newRevisionID()
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO table_values (element, handle, revision, saved_at, value) VALUES (?, ?, ?, ?, ?)`,
		element, handle, id.String(), now.UnixMilli(), string(value),
	)
	if err != nil {
		return fmt.Errorf("failed to save %s/%s: %w", element, handle, err)
	}
	s.logger.Debug("Saved table value",
		zap.String("element", element),
		zap.String("handle", handle),
		zap.Stringer("revision", id),
	)
	return nil
}

// Load returns the latest revision of a value
// or an error wrapping ErrNotFound.
func (s *Store) Load(ctx context.Context, element, handle string) ([]byte, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM table_values WHERE element = ? AND handle = ? ORDER BY revision DESC LIMIT 1`,
		element, handle,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, element, handle)
	}
	if err != nil {
		return nil, err
	}
	return []byte(value), nil
}

// LoadRevision returns a specific revision of a value.
func (s *Store) LoadRevision(ctx context.Context, element, handle string, id ulid.ULID) ([]byte, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM table_values WHERE element = ? AND handle = ? AND revision = ?`,
		element, handle, id.String(),
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s/%s revision %s", ErrNotFound, element, handle, id)
	}
	if err != nil {
		return nil, err
	}
	return []byte(value), nil
}

// History returns all revisions of a value, newest first.
func (s *Store) History(ctx context.Context, element, handle string) (revisions []Revision, err error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT revision, saved_at, value FROM table_values WHERE element = ? AND handle = ? ORDER BY revision DESC`,
		element, handle,
	)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = multierr.Append(err, rows.Close())
	}()

	for rows.Next() {
		var (
			id      string
			savedAt int64
			value   string
		)
		if err := rows.Scan(&id, &savedAt, &value); err != nil {
			return nil, err
		}
		rev := Revision{SavedAt: time.UnixMilli(savedAt), Value: []byte(value)}
		rev.ID, err = ulid.ParseStrict(id)
		if err != nil {
			return nil, fmt.Errorf("invalid revision %q: %w", id, err)
		}
		revisions = append(revisions, rev)
	}
	return revisions, rows.Err()
}

// Delete removes all revisions of a value.
// Deleting a missing value returns an error wrapping ErrNotFound.
func (s *Store) Delete(ctx context.Context, element, handle string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM table_values WHERE element = ? AND handle = ?`,
		element, handle,
	)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s/%s", ErrNotFound, element, handle)
	}
	s.logger.Debug("Deleted table value", zap.String("element", element), zap.String("handle", handle), zap.Int64("revisions", n))
	return nil
}

// Elements returns the elements with a value for handle.
func (s *Store) Elements(ctx context.Context, handle string) (elements []string, err error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT element FROM table_values WHERE handle = ? ORDER BY element`,
		handle,
	)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = multierr.Append(err, rows.Close())
	}()

	for rows.Next() {
		var element string
		if err := rows.Scan(&element); err != nil {
			return nil, err
		}
		elements = append(elements, element)
	}
	return elements, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}
