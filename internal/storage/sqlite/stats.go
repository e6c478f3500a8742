package sqlite

import (
	"context"
	"database/sql"

	"github.com/arclight/workstore/internal/types"
)

// Statistics returns row counts for every table in the store.
func (s *Store) Statistics(ctx context.Context) (*types.Statistics, error) {
	if err := s.gate.acquire(); err != nil {
		return nil, err
	}
	defer s.gate.release()

	stats := &types.Statistics{}
	for _, c := range []struct {
		table string
		dst   *int
	}{
		{"tasks", &stats.Tasks},
		{"issues", &stats.Issues},
		{"dependencies", &stats.Dependencies},
		{"events", &stats.Events},
		{"artifacts", &stats.Artifacts},
		{"conversation_turns", &stats.ConversationTurns},
	} {
		err := s.query(ctx, "SELECT COUNT(*) FROM "+c.table, func(rows *sql.Rows) error {
			if !rows.Next() {
				return rows.Err()
			}
			return rows.Scan(c.dst)
		})
		if err != nil {
			return nil, err
		}
	}
	return stats, nil
}
