package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/arclight/workstore/internal/types"
)

const turnColumns = "id, issue_id, turn_order, role, content, thinking, tool_calls, tool_results, tool_call_id, created_at"

// AddTurn appends a conversation turn to an issue. TurnOrder is the
// caller's total order within the issue; the store does not renumber.
func (s *Store) AddTurn(ctx context.Context, turn *types.ConversationTurn) error {
	if err := s.gate.acquire(); err != nil {
		return err
	}
	defer s.gate.release()

	if turn.ID == "" {
		turn.ID = types.NewID()
	}
	if err := turn.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	turn.CreatedAt = time.Now()

	return s.exec(ctx, `
		INSERT INTO conversation_turns (`+turnColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		turn.ID, turn.IssueID, turn.TurnOrder, string(turn.Role), turn.Content,
		bindText(turn.Thinking), bindText(turn.ToolCalls), bindText(turn.ToolResults),
		bindText(turn.ToolCallID), bindTime(turn.CreatedAt),
	)
}

// GetConversation returns an issue's turns ordered by turn_order.
func (s *Store) GetConversation(ctx context.Context, issueID string) ([]*types.ConversationTurn, error) {
	if err := s.gate.acquire(); err != nil {
		return nil, err
	}
	defer s.gate.release()

	var turns []*types.ConversationTurn
	err := s.query(ctx, `
		SELECT `+turnColumns+`
		FROM conversation_turns
		WHERE issue_id = ?
		ORDER BY turn_order ASC
	`, func(rows *sql.Rows) error {
		for rows.Next() {
			var c types.ConversationTurn
			var thinking, toolCalls, toolResults, toolCallID sql.NullString
			var created string
			err := rows.Scan(
				&c.ID, &c.IssueID, &c.TurnOrder, &c.Role, &c.Content,
				&thinking, &toolCalls, &toolResults, &toolCallID, &created,
			)
			if err != nil {
				return fmt.Errorf("scan conversation turn: %w", err)
			}
			c.Thinking = readText(thinking)
			c.ToolCalls = readText(toolCalls)
			c.ToolResults = readText(toolResults)
			c.ToolCallID = readText(toolCallID)
			if c.CreatedAt, err = readTime(created); err != nil {
				return err
			}
			turns = append(turns, &c)
		}
		return nil
	}, issueID)
	return turns, err
}
