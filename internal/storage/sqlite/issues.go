package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/arclight/workstore/internal/types"
)

const issueColumns = "id, task_id, title, description, context, status, priority, issue_type, result, created_at, updated_at"

// CreateIssue inserts a new issue and records a "created" event in the
// same transaction, so the audit trail can never miss a creation.
func (s *Store) CreateIssue(ctx context.Context, issue *types.Issue) error {
	if err := s.gate.acquire(); err != nil {
		return err
	}
	defer s.gate.release()

	if issue.ID == "" {
		issue.ID = types.NewID()
	}
	if issue.Status == "" {
		issue.Status = types.StatusOpen
	}
	if issue.IssueType == "" {
		issue.IssueType = types.TypeTask
	}
	if err := issue.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	issue.CreatedAt = now
	issue.UpdatedAt = now

	return s.inTransaction(ctx, func() error {
		err := s.exec(ctx, `
			INSERT INTO issues (`+issueColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			issue.ID, issue.TaskID, issue.Title, issue.Description, issue.Context,
			string(issue.Status), issue.Priority, string(issue.IssueType),
			bindText(issue.Result), bindTime(issue.CreatedAt), bindTime(issue.UpdatedAt),
		)
		if err != nil {
			return err
		}

		payload, _ := json.Marshal(issue)
		return s.appendEvent(ctx, issue.ID, types.EventCreated, string(payload), now)
	})
}

// GetIssue retrieves an issue by ID. Returns nil when no issue matches.
func (s *Store) GetIssue(ctx context.Context, id string) (*types.Issue, error) {
	if err := s.gate.acquire(); err != nil {
		return nil, err
	}
	defer s.gate.release()
	return s.getIssue(ctx, id)
}

func (s *Store) getIssue(ctx context.Context, id string) (*types.Issue, error) {
	var issue *types.Issue
	err := s.query(ctx, `SELECT `+issueColumns+` FROM issues WHERE id = ?`, func(rows *sql.Rows) error {
		if !rows.Next() {
			return rows.Err()
		}
		i, err := scanIssue(rows)
		if err != nil {
			return err
		}
		issue = i
		return nil
	}, id)
	return issue, err
}

// ListIssues returns issues matching the filter, highest priority
// first, then newest.
func (s *Store) ListIssues(ctx context.Context, filter types.IssueFilter) ([]*types.Issue, error) {
	if err := s.gate.acquire(); err != nil {
		return nil, err
	}
	defer s.gate.release()

	where := []string{}
	args := []any{}
	if filter.TaskID != nil {
		where = append(where, "task_id = ?")
		args = append(args, *filter.TaskID)
	}
	if filter.Status != nil {
		where = append(where, "status = ?")
		args = append(args, string(*filter.Status))
	}
	if filter.Priority != nil {
		where = append(where, "priority = ?")
		args = append(args, *filter.Priority)
	}

	query := `SELECT ` + issueColumns + ` FROM issues`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY priority ASC, created_at DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	var issues []*types.Issue
	err := s.query(ctx, query, func(rows *sql.Rows) error {
		for rows.Next() {
			i, err := scanIssue(rows)
			if err != nil {
				return err
			}
			issues = append(issues, i)
		}
		return nil
	}, args...)
	return issues, err
}

// UpdateIssueStatus transitions an issue and records a status_changed
// event in the same transaction.
func (s *Store) UpdateIssueStatus(ctx context.Context, id string, status types.IssueStatus) error {
	if err := s.gate.acquire(); err != nil {
		return err
	}
	defer s.gate.release()

	if !status.IsValid() {
		return fmt.Errorf("invalid status: %s", status)
	}
	old, err := s.getIssue(ctx, id)
	if err != nil {
		return err
	}
	if old == nil {
		return fmt.Errorf("issue %s not found", id)
	}

	now := time.Now()
	return s.inTransaction(ctx, func() error {
		err := s.exec(ctx, `
			UPDATE issues SET status = ?, updated_at = ? WHERE id = ?
		`, string(status), bindTime(now), id)
		if err != nil {
			return err
		}

		payload, _ := json.Marshal(map[string]string{
			"from": string(old.Status),
			"to":   string(status),
		})
		return s.appendEvent(ctx, id, types.EventStatusChanged, string(payload), now)
	})
}

// SetIssueResult stores the issue's result text and records a
// result_set event.
func (s *Store) SetIssueResult(ctx context.Context, id, result string) error {
	if err := s.gate.acquire(); err != nil {
		return err
	}
	defer s.gate.release()

	now := time.Now()
	return s.inTransaction(ctx, func() error {
		n, err := s.execAffected(ctx, `
			UPDATE issues SET result = ?, updated_at = ? WHERE id = ?
		`, result, bindTime(now), id)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("issue %s not found", id)
		}
		return s.appendEvent(ctx, id, types.EventResultSet, result, now)
	})
}

// DeleteIssue removes an issue; dependencies on either end, events, and
// conversation turns cascade away with it.
func (s *Store) DeleteIssue(ctx context.Context, id string) error {
	if err := s.gate.acquire(); err != nil {
		return err
	}
	defer s.gate.release()
	return s.exec(ctx, `DELETE FROM issues WHERE id = ?`, id)
}

func scanIssue(rows *sql.Rows) (*types.Issue, error) {
	var i types.Issue
	var result sql.NullString
	var created, updated string
	err := rows.Scan(
		&i.ID, &i.TaskID, &i.Title, &i.Description, &i.Context,
		&i.Status, &i.Priority, &i.IssueType, &result, &created, &updated,
	)
	if err != nil {
		return nil, fmt.Errorf("scan issue: %w", err)
	}
	i.Result = readText(result)
	if i.CreatedAt, err = readTime(created); err != nil {
		return nil, err
	}
	if i.UpdatedAt, err = readTime(updated); err != nil {
		return nil, err
	}
	return &i, nil
}
