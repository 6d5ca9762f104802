// Command snakebot is a headless player. It joins a room, waits for the
// start signal, plays locally and relays every step to the room, then submits
// its best score.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/scythe504/snake-arena/internal"
	"github.com/scythe504/snake-arena/internal/client"
	"github.com/scythe504/snake-arena/internal/config"
	"github.com/scythe504/snake-arena/internal/grid"
	"github.com/scythe504/snake-arena/internal/utils"
)

type options struct {
	server string
	room   string
	name   string
	width  int
	height int
	seed   uint64
	level  string
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var opts options
	flag.StringVar(&opts.server, "server", "http://localhost:3000", "coordination server base url")
	flag.StringVar(&opts.room, "room", "", "room to join; defaults to a joinable room or a new one")
	flag.StringVar(&opts.name, "name", "snakebot", "name used on the leaderboard")
	flag.IntVar(&opts.width, "width", grid.DefaultWidth, "grid width in cells")
	flag.IntVar(&opts.height, "height", grid.DefaultHeight, "grid height in cells")
	flag.Uint64Var(&opts.seed, "seed", uint64(time.Now().UnixNano()), "food placement seed")
	flag.StringVar(&opts.level, "log-level", "INFO", "DEBUG, INFO, WARN or ERROR")
	flag.Parse()

	log := config.NewLogger(opts.level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	api := client.NewAPI(opts.server, nil)
	roomID, err := pickRoom(ctx, api, opts.room)
	if err != nil {
		return err
	}

	session, err := client.Dial(ctx, wsURL(opts.server), log)
	if err != nil {
		return err
	}
	defer session.Close()
	log = log.With("player", session.ID(), "room", roomID)

	// 1. Lobby
	if err := session.JoinRoom(roomID); err != nil {
		return err
	}
	if _, err := session.Await(ctx, internal.EventRoomJoined); err != nil {
		return fmt.Errorf("join: %w", err)
	}
	if err := session.Ready(roomID); err != nil {
		return err
	}
	log.Info("Waiting for other players")
	if _, err := session.Await(ctx, internal.EventGameStart); err != nil {
		return fmt.Errorf("waiting for start: %w", err)
	}
	log.Info("Game started")

	// 2. Play
	go watchRoom(session, log)

	engine := grid.NewEngine(opts.width, opts.height, newRand(opts.seed))

	var runner *grid.Runner
	runner = grid.NewRunner(engine, func(tick grid.Tick) {
		if err := session.Move(roomID, tick.State.Direction, tick.State.Cells); err != nil {
			log.Warn("Move not sent", "error", err)
		}
		switch {
		case tick.Outcome.Eliminated:
			if err := session.GameOver(roomID, tick.State.Score); err != nil {
				log.Warn("Game over not sent", "error", err)
			}
			log.Info("Eliminated", "score", tick.State.Score, "length", len(tick.State.Cells))
			return
		case tick.Outcome.SpeedChanged:
			log.Info("Speed up", "level", tick.State.SpeedLevel, "interval", grid.Interval(tick.State.SpeedLevel))
		}
		runner.Steer(pilot(tick.State))
	})
	runner.Steer(pilot(engine.State()))
	runner.Start()
	defer runner.Stop()

	select {
	case <-runner.Done():
	case <-session.Done():
		runner.Stop()
		log.Warn("Connection lost", "error", session.Err())
	case <-ctx.Done():
		runner.Stop()
		log.Info("Interrupted")
	}

	// 3. Score
	submitCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	best := runner.BestScore()
	rank, err := api.SubmitScore(submitCtx, opts.name, best)
	if err != nil {
		return fmt.Errorf("submit score: %w", err)
	}
	if rank == 0 {
		log.Info("Score submitted, not ranked", "score", best)
	} else {
		log.Info("Score submitted", "score", best, "rank", rank)
	}
	return nil
}

func pickRoom(ctx context.Context, api *client.API, room string) (string, error) {
	if room != "" {
		return room, nil
	}
	roomID, err := api.JoinableRoom(ctx)
	if errors.Is(err, client.ErrNoJoinableRoom) {
		return utils.GenerateID(), nil
	}
	return roomID, err
}

// watchRoom logs what the other players do until the session ends.
func watchRoom(session *client.Session, log *slog.Logger) {
	for msg := range session.Events() {
		switch msg.Type {
		case internal.EventPlayerEliminated:
			var data internal.PlayerEliminatedData
			if err := json.Unmarshal(msg.Data, &data); err == nil {
				log.Info("Opponent eliminated", "opponent", data.PlayerID, "score", data.Score)
			}
		case internal.EventRoomUpdate:
			var data internal.RoomUpdateData
			if err := json.Unmarshal(msg.Data, &data); err == nil {
				log.Debug("Room update", "players", len(data.Players), "state", data.GameState)
			}
		}
	}
}

func wsURL(server string) string {
	u := strings.TrimRight(server, "/")
	switch {
	case strings.HasPrefix(u, "https://"):
		u = "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		u = "ws://" + strings.TrimPrefix(u, "http://")
	}
	return u + "/ws"
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
