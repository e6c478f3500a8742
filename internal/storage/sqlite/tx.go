package sqlite

import (
	"context"
	"database/sql"
)

// Tx exposes the executor surface inside an InTransaction unit of work.
// It runs on the same connection and under the same serial-gate hold as
// the enclosing InTransaction call, so its methods do not re-enter the
// gate. Calling the Store's public methods from inside the work closure
// instead returns ErrReentrant.
type Tx struct {
	s *Store
}

// Exec runs a statement with no result rows inside the transaction.
func (t *Tx) Exec(ctx context.Context, query string, args ...any) error {
	return t.s.exec(ctx, query, args...)
}

// Prepare compiles query and hands the statement to fn; the statement
// is closed on every exit path.
func (t *Tx) Prepare(ctx context.Context, query string, fn func(*sql.Stmt) error) error {
	return t.s.prepare(ctx, query, fn)
}

// Query runs query and hands the result rows to fn.
func (t *Tx) Query(ctx context.Context, query string, fn func(*sql.Rows) error, args ...any) error {
	return t.s.query(ctx, query, fn, args...)
}

// ExecuteUpdate runs an insert, update, or delete inside the
// transaction.
func (t *Tx) ExecuteUpdate(ctx context.Context, query string, args ...any) (bool, error) {
	return t.s.executeUpdate(ctx, query, args...)
}

// BeginTransaction starts a transaction on the store's connection.
// BEGIN IMMEDIATE takes the write lock up front so the transaction
// cannot fail with a busy error at commit time.
func (s *Store) BeginTransaction(ctx context.Context) error {
	if err := s.gate.acquire(); err != nil {
		return err
	}
	defer s.gate.release()
	return s.begin(ctx)
}

// CommitTransaction commits the open transaction.
func (s *Store) CommitTransaction(ctx context.Context) error {
	if err := s.gate.acquire(); err != nil {
		return err
	}
	defer s.gate.release()
	return s.commit(ctx)
}

// RollbackTransaction rolls back the open transaction.
func (s *Store) RollbackTransaction(ctx context.Context) error {
	if err := s.gate.acquire(); err != nil {
		return err
	}
	defer s.gate.release()
	return s.rollback(ctx)
}

// InTransaction runs work atomically: begin, work, commit on success.
// On failure the transaction is rolled back and work's error is
// returned; a rollback failure is suppressed so the causal error
// propagates. The serial gate is held for the whole unit, so work must
// go through the provided Tx and never back into the public surface.
func (s *Store) InTransaction(ctx context.Context, work func(tx *Tx) error) error {
	if err := s.gate.acquire(); err != nil {
		return err
	}
	defer s.gate.release()
	return s.inTransaction(ctx, func() error {
		return work(&Tx{s: s})
	})
}

// inTransaction is the ungated form used by the typed operations.
func (s *Store) inTransaction(ctx context.Context, work func() error) error {
	if s.db == nil {
		return ErrNotOpen
	}
	if err := s.begin(ctx); err != nil {
		return err
	}
	if err := work(); err != nil {
		// Rollback even if ctx is already canceled; the work error is
		// what the caller needs to see.
		_ = s.rollback(context.Background())
		return err
	}
	return s.commit(ctx)
}

func (s *Store) begin(ctx context.Context) error {
	return s.exec(ctx, "BEGIN IMMEDIATE")
}

func (s *Store) commit(ctx context.Context) error {
	return s.exec(ctx, "COMMIT")
}

func (s *Store) rollback(ctx context.Context) error {
	return s.exec(ctx, "ROLLBACK")
}
