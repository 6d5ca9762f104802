package config

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/scythe504/snake-arena/internal/database"
	"github.com/scythe504/snake-arena/internal/leaderboard"
)

// OpenStore builds the leaderboard store for the configured backend. The
// returned close function releases any underlying handle.
func (c Config) OpenStore(ctx context.Context, log *slog.Logger) (leaderboard.Store, func(), error) {
	noop := func() {}

	switch c.LeaderboardBackend {
	case BackendMemory:
		return leaderboard.NewMemoryStore(), noop, nil

	case BackendBadger:
		db, err := leaderboard.OpenBadger(c.BadgerPath)
		if err != nil {
			return nil, noop, err
		}
		return leaderboard.NewBadgerStore(db), func() {
			log.Info("Closing BadgerDB...")
			_ = db.Close()
		}, nil

	case BackendPostgres:
		pool, err := database.New(ctx, c.DatabaseURL)
		if err != nil {
			return nil, noop, err
		}
		store := leaderboard.NewPostgresStore(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, noop, err
		}
		return store, pool.Close, nil

	case BackendFile:
		return leaderboard.NewFileStore(c.LeaderboardFile), noop, nil
	}
	return nil, noop, fmt.Errorf("unknown LEADERBOARD_BACKEND %q", c.LeaderboardBackend)
}
