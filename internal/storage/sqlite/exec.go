package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// timeFormat is the fixed textual format timestamps are serialized to.
// UTC, no zone suffix, so values sort lexicographically in SQL.
// Fractional seconds are trimmed on format and optional on parse, which
// also covers rows written by SQLite's own CURRENT_TIMESTAMP default.
const (
	timeFormat       = "2006-01-02 15:04:05.999999999"
	timeFormatSecond = "2006-01-02 15:04:05"
)

// Exec runs a statement that produces no result rows.
func (s *Store) Exec(ctx context.Context, query string, args ...any) error {
	if err := s.gate.acquire(); err != nil {
		return err
	}
	defer s.gate.release()
	return s.exec(ctx, query, args...)
}

// Prepare compiles query and hands the prepared (unbound, unstepped)
// statement to fn, which may bind and step it directly. The statement
// is closed on every exit path; it never outlives the call.
func (s *Store) Prepare(ctx context.Context, query string, fn func(*sql.Stmt) error) error {
	if err := s.gate.acquire(); err != nil {
		return err
	}
	defer s.gate.release()
	return s.prepare(ctx, query, fn)
}

// Query runs query with args bound and hands the result rows to fn.
// Rows are closed on every exit path.
func (s *Store) Query(ctx context.Context, query string, fn func(*sql.Rows) error, args ...any) error {
	if err := s.gate.acquire(); err != nil {
		return err
	}
	defer s.gate.release()
	return s.query(ctx, query, fn, args...)
}

// ExecuteUpdate runs an insert, update, or delete. It reports whether
// the write completed without producing rows.
func (s *Store) ExecuteUpdate(ctx context.Context, query string, args ...any) (bool, error) {
	if err := s.gate.acquire(); err != nil {
		return false, err
	}
	defer s.gate.release()
	return s.executeUpdate(ctx, query, args...)
}

// Ungated executors. Callers must hold the serial gate.

func (s *Store) exec(ctx context.Context, query string, args ...any) error {
	if s.db == nil {
		return ErrNotOpen
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: %v", ErrExecuteFailed, err)
	}
	return nil
}

func (s *Store) prepare(ctx context.Context, query string, fn func(*sql.Stmt) error) error {
	if s.db == nil {
		return ErrNotOpen
	}
	stmt, err := s.db.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPrepareFailed, err)
	}
	defer stmt.Close()
	return fn(stmt)
}

func (s *Store) query(ctx context.Context, query string, fn func(*sql.Rows) error, args ...any) error {
	if s.db == nil {
		return ErrNotOpen
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrExecuteFailed, err)
	}
	defer rows.Close()
	if err := fn(rows); err != nil {
		return err
	}
	return rows.Err()
}

func (s *Store) executeUpdate(ctx context.Context, query string, args ...any) (bool, error) {
	if s.db == nil {
		return false, ErrNotOpen
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return false, fmt.Errorf("%w: %v", ErrExecuteFailed, err)
	}
	return true, nil
}

// execAffected is executeUpdate plus the number of rows changed, used
// by typed updates that must distinguish "updated" from "not found".
func (s *Store) execAffected(ctx context.Context, query string, args ...any) (int64, error) {
	if s.db == nil {
		return 0, ErrNotOpen
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrExecuteFailed, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrExecuteFailed, err)
	}
	return n, nil
}

// Binder and reader helpers.

// bindText converts an optional string to a statement parameter,
// binding SQL NULL for absent values.
func bindText(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}

// readText converts a nullable text column back to an optional string.
func readText(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

// bindTime serializes a timestamp to the fixed textual format.
func bindTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

// bindNullTime is bindTime for optional timestamps.
func bindNullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return bindTime(*t)
}

// readTime parses a timestamp column written by bindTime (or by the
// engine's CURRENT_TIMESTAMP default).
func readTime(v string) (time.Time, error) {
	t, err := time.ParseInLocation(timeFormat, v, time.UTC)
	if err == nil {
		return t, nil
	}
	t, err = time.ParseInLocation(timeFormatSecond, v, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", v, err)
	}
	return t, nil
}

// bindBool stores booleans as 0/1 integers.
func bindBool(b bool) int {
	if b {
		return 1
	}
	return 0
}
