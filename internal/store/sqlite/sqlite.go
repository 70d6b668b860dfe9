// Package sqlite implements store.Store on an embedded SQLite database via
// the pure-Go modernc.org/sqlite driver.
package sqlite

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/mapmemories/mapmemories/internal/store"
)

// sqliteStore holds the process-wide database handle. The connection is
// opened lazily on first use and reused afterwards; a failed open or schema
// setup is sticky and reported to every subsequent operation rather than
// retried.
type sqliteStore struct {
	mu    sync.Mutex
	path  string
	db    *sql.DB
	ready bool
	err   error
	log   zerolog.Logger
}

// New returns a store backed by the database file at path. The file is not
// touched until the first operation.
func New(path string, log zerolog.Logger) store.Store {
	return &sqliteStore{path: path, log: log}
}

// NewWithDB wires the store to an existing connection. Tests use this to get
// a fresh handle per run instead of the process-level file.
func NewWithDB(db *sql.DB, log zerolog.Logger) store.Store {
	return &sqliteStore{db: db, log: log}
}

func (s *sqliteStore) Memories() store.Memories { return &memories{s: s} }
func (s *sqliteStore) Media() store.Media       { return &media{s: s} }

// handle returns the open connection with the schema ensured.
func (s *sqliteStore) handle() (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}
	if s.db == nil {
		db, err := Open(s.path)
		if err != nil {
			s.err = fmt.Errorf("open database: %w", err)
			s.log.Error().Err(err).Str("path", s.path).Msg("failed to open database")
			return nil, s.err
		}
		s.db = db
	}
	if !s.ready {
		if err := EnsureSchema(s.db); err != nil {
			s.err = fmt.Errorf("ensure schema: %w", err)
			s.log.Error().Err(err).Msg("failed to initialize schema")
			return nil, s.err
		}
		s.ready = true
	}
	return s.db, nil
}
