package sqlite

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// RecoveryResult reports which branch legacy recovery took during Open.
// It is an explicit, observable startup step rather than a hidden side
// effect so callers and tests can assert what happened.
type RecoveryResult int

const (
	// RecoveryNotRun means the store has never completed an Open.
	RecoveryNotRun RecoveryResult = iota

	// RecoverySkippedNoLegacy means no legacy store file exists.
	RecoverySkippedNoLegacy

	// RecoverySkippedHasData means the current store already holds at
	// least one task, so its data was left untouched.
	RecoverySkippedHasData

	// RecoveryRestored means the current store was empty and was
	// replaced by a copy of the legacy store file.
	RecoveryRestored
)

func (r RecoveryResult) String() string {
	switch r {
	case RecoverySkippedNoLegacy:
		return "skipped (no legacy store)"
	case RecoverySkippedHasData:
		return "skipped (store has data)"
	case RecoveryRestored:
		return "restored from legacy store"
	default:
		return "not run"
	}
}

// recoverLegacy repairs a deployment whose store file was created but
// never populated, a known failure mode of earlier releases that left
// user data stranded in the previous store file.
//
// The copy is destructive and one-directional, so it only runs when the
// current store holds zero tasks; a store with even one task row is
// real data and is never overwritten. Runs after migrations, once per
// Open. Callers must hold the serial gate.
func (s *Store) recoverLegacy(ctx context.Context) (RecoveryResult, error) {
	if s.legacyPath == "" {
		return RecoverySkippedNoLegacy, nil
	}
	if _, err := os.Stat(s.legacyPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return RecoverySkippedNoLegacy, nil
		}
		return RecoveryNotRun, fmt.Errorf("%w: stat legacy store: %v", ErrOpenFailed, err)
	}

	count, err := s.countTasks(ctx)
	if err != nil {
		return RecoveryNotRun, err
	}
	if count > 0 {
		return RecoverySkippedHasData, nil
	}

	// Empty store alongside a legacy file: swap the files and reopen.
	if err := s.db.Close(); err != nil {
		return RecoveryNotRun, fmt.Errorf("%w: close before recovery: %v", ErrOpenFailed, err)
	}
	s.db = nil

	for _, p := range []string{s.path, s.path + "-wal", s.path + "-shm"} {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return RecoveryNotRun, fmt.Errorf("%w: remove %s: %v", ErrOpenFailed, p, err)
		}
	}
	if err := copyFile(s.legacyPath, s.path); err != nil {
		return RecoveryNotRun, fmt.Errorf("%w: copy legacy store: %v", ErrOpenFailed, err)
	}

	if err := s.connect(ctx); err != nil {
		return RecoveryNotRun, err
	}
	if err := s.migrate(ctx); err != nil {
		return RecoveryNotRun, err
	}
	return RecoveryRestored, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Sync(); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
