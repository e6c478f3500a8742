package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/arclight/workstore/internal/types"
)

const artifactColumns = "id, task_id, filename, content, content_type, is_final_result, created_at"

// SaveArtifact stores a file generated while working on a task.
func (s *Store) SaveArtifact(ctx context.Context, artifact *types.Artifact) error {
	if err := s.gate.acquire(); err != nil {
		return err
	}
	defer s.gate.release()

	if artifact.ID == "" {
		artifact.ID = types.NewID()
	}
	if artifact.ContentType == "" {
		artifact.ContentType = "text/plain"
	}
	if err := artifact.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	artifact.CreatedAt = time.Now()

	return s.exec(ctx, `
		INSERT INTO artifacts (`+artifactColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		artifact.ID, artifact.TaskID, artifact.Filename, artifact.Content,
		artifact.ContentType, bindBool(artifact.IsFinalResult), bindTime(artifact.CreatedAt),
	)
}

// GetArtifacts returns a task's artifacts, oldest first.
func (s *Store) GetArtifacts(ctx context.Context, taskID string) ([]*types.Artifact, error) {
	if err := s.gate.acquire(); err != nil {
		return nil, err
	}
	defer s.gate.release()

	var artifacts []*types.Artifact
	err := s.query(ctx, `
		SELECT `+artifactColumns+`
		FROM artifacts
		WHERE task_id = ?
		ORDER BY created_at ASC, id ASC
	`, func(rows *sql.Rows) error {
		for rows.Next() {
			a, err := scanArtifact(rows)
			if err != nil {
				return err
			}
			artifacts = append(artifacts, a)
		}
		return nil
	}, taskID)
	return artifacts, err
}

// GetFinalResult returns the task's most recent final-result artifact,
// or nil when none has been saved.
func (s *Store) GetFinalResult(ctx context.Context, taskID string) (*types.Artifact, error) {
	if err := s.gate.acquire(); err != nil {
		return nil, err
	}
	defer s.gate.release()

	var artifact *types.Artifact
	err := s.query(ctx, `
		SELECT `+artifactColumns+`
		FROM artifacts
		WHERE task_id = ? AND is_final_result = 1
		ORDER BY created_at DESC
		LIMIT 1
	`, func(rows *sql.Rows) error {
		if !rows.Next() {
			return rows.Err()
		}
		a, err := scanArtifact(rows)
		if err != nil {
			return err
		}
		artifact = a
		return nil
	}, taskID)
	return artifact, err
}

func scanArtifact(rows *sql.Rows) (*types.Artifact, error) {
	var a types.Artifact
	var isFinal int
	var created string
	err := rows.Scan(&a.ID, &a.TaskID, &a.Filename, &a.Content, &a.ContentType, &isFinal, &created)
	if err != nil {
		return nil, fmt.Errorf("scan artifact: %w", err)
	}
	a.IsFinalResult = isFinal != 0
	if a.CreatedAt, err = readTime(created); err != nil {
		return nil, err
	}
	return &a, nil
}
