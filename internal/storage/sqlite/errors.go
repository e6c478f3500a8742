package sqlite

import "errors"

// Error categories surfaced by the store. Callers match them with
// errors.Is; the wrapped text carries the engine diagnostic.
var (
	// ErrNotOpen is returned by any operation invoked while no
	// connection is live.
	ErrNotOpen = errors.New("store is not open")

	// ErrOpenFailed is returned when the database file or its directory
	// cannot be opened.
	ErrOpenFailed = errors.New("failed to open store")

	// ErrPrepareFailed is returned when a statement fails to compile.
	ErrPrepareFailed = errors.New("failed to prepare statement")

	// ErrExecuteFailed is returned when a statement fails to execute.
	ErrExecuteFailed = errors.New("failed to execute statement")

	// ErrMigrationFailed is returned when a schema migration's DDL
	// fails. The persisted schema version stays at its pre-step value.
	ErrMigrationFailed = errors.New("schema migration failed")

	// ErrReentrant is returned when a goroutine that already holds the
	// store's serial gate calls back into the public surface. Blocking
	// would deadlock, so the call fails fast instead.
	ErrReentrant = errors.New("reentrant store call")
)
