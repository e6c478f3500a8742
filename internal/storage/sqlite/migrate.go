package sqlite

import (
	"context"
	"fmt"
)

// latestSchemaVersion is the version migrate brings a store to.
const latestSchemaVersion = 2

// migration is a one-time, forward-only schema change. Version N+1's
// DDL assumes version N's schema is already in place; migrations never
// run out of order and are never reversed.
type migration struct {
	version int
	name    string
	ddl     string
}

var migrations = []migration{
	{1, "core tables", schemaV1},
	{2, "conversation turns", schemaV2},
}

// migrate applies every pending migration in order, persisting the new
// schema version after each step. The version lives in the engine's own
// metadata slot (PRAGMA user_version), not a table row, and starts at 0
// on a fresh file. Callers must hold the serial gate.
func (s *Store) migrate(ctx context.Context) error {
	current, err := s.schemaVersion(ctx)
	if err != nil {
		return fmt.Errorf("%w: read schema version: %v", ErrMigrationFailed, err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if _, err := s.db.ExecContext(ctx, m.ddl); err != nil {
			return fmt.Errorf("%w: migration %d (%s): %v", ErrMigrationFailed, m.version, m.name, err)
		}
		if err := s.setSchemaVersion(ctx, m.version); err != nil {
			return fmt.Errorf("%w: persist version %d: %v", ErrMigrationFailed, m.version, err)
		}
	}

	return nil
}

func (s *Store) schemaVersion(ctx context.Context) (int, error) {
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, err
	}
	return version, nil
}

func (s *Store) setSchemaVersion(ctx context.Context, version int) error {
	// PRAGMA arguments cannot be bound; version is an int under our
	// control, not caller input.
	_, err := s.db.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", version))
	return err
}
