package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/arclight/workstore/internal/types"
)

// AddDependency inserts a typed edge between two issues. Both endpoints
// must exist; the foreign-key constraints reject dangling references.
func (s *Store) AddDependency(ctx context.Context, dep *types.Dependency) error {
	if err := s.gate.acquire(); err != nil {
		return err
	}
	defer s.gate.release()

	if dep.ID == "" {
		dep.ID = types.NewID()
	}
	if dep.Type == "" {
		dep.Type = types.DepBlocks
	}
	if err := dep.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	dep.CreatedAt = time.Now()

	return s.exec(ctx, `
		INSERT INTO dependencies (id, from_issue_id, to_issue_id, type, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, dep.ID, dep.FromIssueID, dep.ToIssueID, string(dep.Type), bindTime(dep.CreatedAt))
}

// RemoveDependency deletes a dependency edge by ID.
func (s *Store) RemoveDependency(ctx context.Context, id string) error {
	if err := s.gate.acquire(); err != nil {
		return err
	}
	defer s.gate.release()
	return s.exec(ctx, `DELETE FROM dependencies WHERE id = ?`, id)
}

// GetDependencies returns every edge touching the issue, as either
// source or target, oldest first.
func (s *Store) GetDependencies(ctx context.Context, issueID string) ([]*types.Dependency, error) {
	if err := s.gate.acquire(); err != nil {
		return nil, err
	}
	defer s.gate.release()

	var deps []*types.Dependency
	err := s.query(ctx, `
		SELECT id, from_issue_id, to_issue_id, type, created_at
		FROM dependencies
		WHERE from_issue_id = ? OR to_issue_id = ?
		ORDER BY created_at ASC, id ASC
	`, func(rows *sql.Rows) error {
		for rows.Next() {
			var d types.Dependency
			var created string
			if err := rows.Scan(&d.ID, &d.FromIssueID, &d.ToIssueID, &d.Type, &created); err != nil {
				return fmt.Errorf("scan dependency: %w", err)
			}
			var err error
			if d.CreatedAt, err = readTime(created); err != nil {
				return err
			}
			deps = append(deps, &d)
		}
		return nil
	}, issueID, issueID)
	return deps, err
}
