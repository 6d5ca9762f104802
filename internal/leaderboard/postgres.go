package leaderboard

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS leaderboard_entries (
	position    INTEGER PRIMARY KEY,
	player_name TEXT        NOT NULL,
	score       INTEGER     NOT NULL,
	recorded_at TIMESTAMPTZ NOT NULL
)`

// PostgresStore keeps one row per ranked entry; position preserves the
// board's order, ties included.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create leaderboard schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context) ([]Entry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT player_name, score, recorded_at FROM leaderboard_entries ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	entries, err := pgx.CollectRows(rows, pgx.RowToStructByPos[Entry])
	if err != nil {
		return nil, fmt.Errorf("failed to scan leaderboard: %w", err)
	}
	return entries, nil
}

// Save replaces the table contents in one transaction.
func (s *PostgresStore) Save(ctx context.Context, entries []Entry) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM leaderboard_entries`); err != nil {
			return fmt.Errorf("failed to clear leaderboard: %w", err)
		}
		_, err := tx.CopyFrom(ctx,
			pgx.Identifier{"leaderboard_entries"},
			[]string{"position", "player_name", "score", "recorded_at"},
			pgx.CopyFromSlice(len(entries), func(i int) ([]any, error) {
				e := entries[i]
				return []any{i + 1, e.PlayerName, e.Score, e.Timestamp}, nil
			}),
		)
		if err != nil {
			return fmt.Errorf("failed to copy leaderboard: %w", err)
		}
		return nil
	})
}
