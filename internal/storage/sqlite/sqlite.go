// Package sqlite implements the work store on a single SQLite file.
//
// The store is single-process, single-writer: one connection, owned by
// the Store, with every public operation routed through a serial gate
// so that none of the store's own code runs concurrently with itself.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	// Import SQLite driver (wazero build, no cgo)
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// Store is the SQLite-backed work store. The zero value is not usable;
// construct with New and call Open before use.
type Store struct {
	path       string
	legacyPath string

	gate serialGate

	// db is nil whenever the store is closed. With MaxOpenConns(1) the
	// pool degenerates to the single connection the store owns; raw
	// BEGIN/COMMIT statements therefore always land on that connection.
	db *sql.DB

	lastRecovery RecoveryResult
}

// New creates a store handle for the database file at path. The legacy
// path names the previous deployment's store file checked by startup
// recovery; empty disables recovery. No file is touched until Open.
func New(path, legacyPath string) *Store {
	return &Store{path: path, legacyPath: legacyPath}
}

// Open establishes the connection, brings the schema to the latest
// version, and runs legacy recovery. It is idempotent: opening an
// already-open store is a no-op.
func (s *Store) Open(ctx context.Context) error {
	if err := s.gate.acquire(); err != nil {
		return err
	}
	defer s.gate.release()
	return s.open(ctx)
}

func (s *Store) open(ctx context.Context) error {
	if s.db != nil {
		return nil
	}
	if err := s.connect(ctx); err != nil {
		return err
	}
	if err := s.migrate(ctx); err != nil {
		_ = s.db.Close()
		s.db = nil
		return err
	}
	result, err := s.recoverLegacy(ctx)
	if err != nil {
		if s.db != nil {
			_ = s.db.Close()
			s.db = nil
		}
		return err
	}
	s.lastRecovery = result
	return nil
}

// connect opens the underlying connection with foreign-key enforcement
// enabled, creating the storage directory if needed.
func (s *Store) connect(ctx context.Context) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("%w: create directory %s: %v", ErrOpenFailed, dir, err)
	}

	db, err := sql.Open("sqlite3", dsn(s.path))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrOpenFailed, err)
	}

	// SQLite supports one writer; a second pooled connection would only
	// produce SQLITE_BUSY and break raw transaction control.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("%w: %v", ErrOpenFailed, err)
	}

	s.db = db
	return nil
}

func dsn(path string) string {
	return "file:" + path +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=foreign_keys(ON)" +
		"&_pragma=busy_timeout(10000)" +
		"&_time_format=sqlite"
}

// Close releases the connection. Idempotent; safe to call when not open.
func (s *Store) Close() error {
	if err := s.gate.acquire(); err != nil {
		return err
	}
	defer s.gate.release()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// IsOpen reports whether a connection is currently live. Routed through
// the serial gate so it cannot race an in-flight Open or Close.
func (s *Store) IsOpen() bool {
	if err := s.gate.acquire(); err != nil {
		return false
	}
	defer s.gate.release()
	return s.db != nil
}

// LastRecovery reports which branch legacy recovery took on the most
// recent Open.
func (s *Store) LastRecovery() RecoveryResult {
	if err := s.gate.acquire(); err != nil {
		return RecoveryNotRun
	}
	defer s.gate.release()
	return s.lastRecovery
}

// Path returns the database file path the store was created with.
func (s *Store) Path() string {
	return s.path
}

// SchemaVersion reads the persisted schema version.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	if err := s.gate.acquire(); err != nil {
		return 0, err
	}
	defer s.gate.release()
	if s.db == nil {
		return 0, ErrNotOpen
	}
	return s.schemaVersion(ctx)
}
