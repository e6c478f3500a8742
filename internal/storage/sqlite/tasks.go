package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/arclight/workstore/internal/types"
)

const taskColumns = "id, title, query, persona_id, status, created_at, updated_at"

// CreateTask inserts a new task. An empty ID is assigned; an empty
// status defaults to active.
func (s *Store) CreateTask(ctx context.Context, task *types.Task) error {
	if err := s.gate.acquire(); err != nil {
		return err
	}
	defer s.gate.release()

	if task.ID == "" {
		task.ID = types.NewID()
	}
	if task.Status == "" {
		task.Status = types.TaskActive
	}
	if err := task.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	task.CreatedAt = now
	task.UpdatedAt = now

	return s.exec(ctx, `
		INSERT INTO tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		task.ID, task.Title, task.Query, bindText(task.PersonaID),
		string(task.Status), bindTime(task.CreatedAt), bindTime(task.UpdatedAt),
	)
}

// GetTask retrieves a task by ID. Returns nil when no task matches.
func (s *Store) GetTask(ctx context.Context, id string) (*types.Task, error) {
	if err := s.gate.acquire(); err != nil {
		return nil, err
	}
	defer s.gate.release()
	return s.getTask(ctx, id)
}

func (s *Store) getTask(ctx context.Context, id string) (*types.Task, error) {
	var task *types.Task
	err := s.query(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, func(rows *sql.Rows) error {
		if !rows.Next() {
			return rows.Err()
		}
		t, err := scanTask(rows)
		if err != nil {
			return err
		}
		task = t
		return nil
	}, id)
	return task, err
}

// ListTasks returns tasks matching the filter, newest first.
func (s *Store) ListTasks(ctx context.Context, filter types.TaskFilter) ([]*types.Task, error) {
	if err := s.gate.acquire(); err != nil {
		return nil, err
	}
	defer s.gate.release()

	where := []string{}
	args := []any{}
	if filter.Status != nil {
		where = append(where, "status = ?")
		args = append(args, string(*filter.Status))
	}
	if filter.PersonaID != nil {
		where = append(where, "persona_id = ?")
		args = append(args, *filter.PersonaID)
	}

	query := `SELECT ` + taskColumns + ` FROM tasks`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	var tasks []*types.Task
	err := s.query(ctx, query, func(rows *sql.Rows) error {
		for rows.Next() {
			t, err := scanTask(rows)
			if err != nil {
				return err
			}
			tasks = append(tasks, t)
		}
		return nil
	}, args...)
	return tasks, err
}

// UpdateTaskStatus transitions a task to the given status.
func (s *Store) UpdateTaskStatus(ctx context.Context, id string, status types.TaskStatus) error {
	if err := s.gate.acquire(); err != nil {
		return err
	}
	defer s.gate.release()

	if !status.IsValid() {
		return fmt.Errorf("invalid task status: %s", status)
	}
	n, err := s.execAffected(ctx, `
		UPDATE tasks SET status = ?, updated_at = ? WHERE id = ?
	`, string(status), bindTime(time.Now()), id)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("task %s not found", id)
	}
	return nil
}

// DeleteTask removes a task; its issues, artifacts, and everything
// hanging off the issues go with it via cascade.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	if err := s.gate.acquire(); err != nil {
		return err
	}
	defer s.gate.release()
	return s.exec(ctx, `DELETE FROM tasks WHERE id = ?`, id)
}

// CountTasks returns the number of task rows.
func (s *Store) CountTasks(ctx context.Context) (int, error) {
	if err := s.gate.acquire(); err != nil {
		return 0, err
	}
	defer s.gate.release()
	return s.countTasks(ctx)
}

func (s *Store) countTasks(ctx context.Context) (int, error) {
	var count int
	err := s.query(ctx, `SELECT COUNT(*) FROM tasks`, func(rows *sql.Rows) error {
		if !rows.Next() {
			return rows.Err()
		}
		return rows.Scan(&count)
	})
	return count, err
}

func scanTask(rows *sql.Rows) (*types.Task, error) {
	var t types.Task
	var persona sql.NullString
	var created, updated string
	if err := rows.Scan(&t.ID, &t.Title, &t.Query, &persona, &t.Status, &created, &updated); err != nil {
		return nil, fmt.Errorf("scan task: %w", err)
	}
	t.PersonaID = readText(persona)
	var err error
	if t.CreatedAt, err = readTime(created); err != nil {
		return nil, err
	}
	if t.UpdatedAt, err = readTime(updated); err != nil {
		return nil, err
	}
	return &t, nil
}
