package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/arclight/workstore/internal/types"
)

// AppendEvent adds an entry to an issue's audit trail. Events are
// append-only; there is deliberately no update or delete operation.
func (s *Store) AppendEvent(ctx context.Context, event *types.Event) error {
	if err := s.gate.acquire(); err != nil {
		return err
	}
	defer s.gate.release()

	if event.IssueID == "" {
		return fmt.Errorf("issue_id is required")
	}
	if event.EventType == "" {
		return fmt.Errorf("event_type is required")
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	return s.query(ctx, `
		INSERT INTO events (issue_id, event_type, payload, created_at)
		VALUES (?, ?, ?, ?)
		RETURNING id
	`, func(rows *sql.Rows) error {
		if !rows.Next() {
			return rows.Err()
		}
		return rows.Scan(&event.ID)
	}, event.IssueID, string(event.EventType), bindText(event.Payload), bindTime(event.CreatedAt))
}

// appendEvent is the ungated form used inside typed-operation
// transactions.
func (s *Store) appendEvent(ctx context.Context, issueID string, eventType types.EventType, payload string, at time.Time) error {
	return s.exec(ctx, `
		INSERT INTO events (issue_id, event_type, payload, created_at)
		VALUES (?, ?, ?, ?)
	`, issueID, string(eventType), payload, bindTime(at))
}

// GetEvents returns an issue's events in creation order. A limit of 0
// returns everything.
func (s *Store) GetEvents(ctx context.Context, issueID string, limit int) ([]*types.Event, error) {
	if err := s.gate.acquire(); err != nil {
		return nil, err
	}
	defer s.gate.release()

	query := `
		SELECT id, issue_id, event_type, payload, created_at
		FROM events
		WHERE issue_id = ?
		ORDER BY created_at ASC, id ASC
	`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	var events []*types.Event
	err := s.query(ctx, query, func(rows *sql.Rows) error {
		for rows.Next() {
			var e types.Event
			var payload sql.NullString
			var created string
			if err := rows.Scan(&e.ID, &e.IssueID, &e.EventType, &payload, &created); err != nil {
				return fmt.Errorf("scan event: %w", err)
			}
			e.Payload = readText(payload)
			var err error
			if e.CreatedAt, err = readTime(created); err != nil {
				return err
			}
			events = append(events, &e)
		}
		return nil
	}, issueID)
	return events, err
}
