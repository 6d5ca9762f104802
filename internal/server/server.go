package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/scythe504/snake-arena/internal/config"
	"github.com/scythe504/snake-arena/internal/game"
	"github.com/scythe504/snake-arena/internal/leaderboard"
)

type Server struct {
	coordinator *game.Coordinator
	board       *leaderboard.Board
	log         *slog.Logger

	topN      int
	staticDir string
}

func New(cfg config.Config, coordinator *game.Coordinator, board *leaderboard.Board, log *slog.Logger) *Server {
	topN := cfg.LeaderboardTop
	if topN <= 0 {
		topN = leaderboard.DefaultTop
	}
	return &Server{
		coordinator: coordinator,
		board:       board,
		log:         log,
		topN:        topN,
		staticDir:   cfg.StaticDir,
	}
}

// NewServer wires the routes into an http.Server listening on cfg.Port.
func NewServer(cfg config.Config, coordinator *game.Coordinator, board *leaderboard.Board, log *slog.Logger) *http.Server {
	s := New(cfg, coordinator, board, log)

	return &http.Server{
		Addr:              cfg.Addr(),
		Handler:           s.RegisterRoutes(),
		IdleTimeout:       time.Minute,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          slog.NewLogLogger(log.Handler(), slog.LevelError),
	}
}
