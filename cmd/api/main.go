package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/scythe504/snake-arena/internal/config"
	"github.com/scythe504/snake-arena/internal/game"
	"github.com/scythe504/snake-arena/internal/leaderboard"
	"github.com/scythe504/snake-arena/internal/server"
)

const shutdownTimeout = 5 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Configuration & Logger
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := cfg.Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Leaderboard storage
	store, closeStore, err := cfg.OpenStore(ctx, log)
	if err != nil {
		return fmt.Errorf("leaderboard store: %w", err)
	}
	defer closeStore()

	board, err := leaderboard.NewBoard(ctx, store, log,
		leaderboard.WithLimit(cfg.LeaderboardLimit),
		leaderboard.WithPersistTimeout(cfg.PersistTimeout))
	if err != nil {
		return err
	}

	// 3. Rooms and HTTP
	coordinator := game.NewCoordinator(log, cfg.SendBuffer)
	srv := server.NewServer(cfg, coordinator, board, log)

	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting server", "address", srv.Addr, "backend", cfg.LeaderboardBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
	}()

	// 4. Wait for Stop or Error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("Server stopped cleanly")
	return nil
}
