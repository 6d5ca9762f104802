package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/scythe504/snake-arena/internal"
	"github.com/scythe504/snake-arena/internal/config"
	"github.com/scythe504/snake-arena/internal/game"
	"github.com/scythe504/snake-arena/internal/leaderboard"
	"github.com/scythe504/snake-arena/internal/server"
	"github.com/stretchr/testify/require"
)

func startServer(t *testing.T) *httptest.Server {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	board, err := leaderboard.NewBoard(context.Background(), leaderboard.NewMemoryStore(), log)
	require.NoError(t, err)
	s := server.New(config.Config{}, game.NewCoordinator(log, 0), board, log)
	ts := httptest.NewServer(s.RegisterRoutes())
	t.Cleanup(ts.Close)
	return ts
}

func dialSession(t *testing.T, ts *httptest.Server) *Session {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	s, err := Dial(ctx, url, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSession_Two_Players_Play(t *testing.T) {
	req := require.New(t)
	ts := startServer(t)
	api := NewAPI(ts.URL, ts.Client())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	alice := dialSession(t, ts)
	bob := dialSession(t, ts)
	req.NotEqual(alice.ID(), bob.ID())

	// Given no room yet
	_, err := api.JoinableRoom(ctx)
	req.ErrorIs(err, ErrNoJoinableRoom)

	// When alice opens R1 it becomes joinable
	req.NoError(alice.JoinRoom("R1"))
	_, err = alice.Await(ctx, internal.EventRoomJoined)
	req.NoError(err)
	roomID, err := api.JoinableRoom(ctx)
	req.NoError(err)
	req.Equal("R1", roomID)

	// When bob joins and both ready
	req.NoError(bob.JoinRoom(roomID))
	_, err = bob.Await(ctx, internal.EventRoomJoined)
	req.NoError(err)
	req.NoError(alice.Ready(roomID))
	req.NoError(bob.Ready(roomID))

	// Then both start
	_, err = alice.Await(ctx, internal.EventGameStart)
	req.NoError(err)
	_, err = bob.Await(ctx, internal.EventGameStart)
	req.NoError(err)

	// And the room is no longer joinable
	_, err = api.JoinableRoom(ctx)
	req.ErrorIs(err, ErrNoJoinableRoom)

	// When bob moves, alice sees it
	req.NoError(bob.Move(roomID, map[string]int{"x": 1, "y": 0}, []map[string]int{{"x": 5, "y": 5}}))
	msg, err := alice.Await(ctx, internal.EventPlayerMoved)
	req.NoError(err)
	var moved internal.PlayerMovedData
	req.NoError(json.Unmarshal(msg.Data, &moved))
	req.Equal(bob.ID(), moved.PlayerID)

	// When bob is out, alice is told bob's score
	req.NoError(bob.GameOver(roomID, 60))
	msg, err = alice.Await(ctx, internal.EventPlayerEliminated)
	req.NoError(err)
	req.JSONEq(`{"playerId":"`+bob.ID()+`","score":60}`, string(msg.Data))
}

func TestSession_Close_Ends_Events(t *testing.T) {
	req := require.New(t)
	ts := startServer(t)
	s := dialSession(t, ts)

	req.NoError(s.Close())

	select {
	case <-s.Done():
	case <-time.After(2 * time.Second):
		req.Fail("session did not end")
	}
	_, err := s.Await(context.Background(), internal.EventRoomUpdate)
	req.ErrorIs(err, ErrClosed)
	req.ErrorIs(s.JoinRoom("R1"), ErrClosed)
}

func TestAPI_Submit_And_List(t *testing.T) {
	req := require.New(t)
	ts := startServer(t)
	api := NewAPI(ts.URL+"/", nil)
	ctx := context.Background()

	rank, err := api.SubmitScore(ctx, "Alice", 100)
	req.NoError(err)
	req.Equal(1, rank)
	rank, err = api.SubmitScore(ctx, "Bob", 200)
	req.NoError(err)
	req.Equal(1, rank)

	entries, err := api.Leaderboard(ctx)
	req.NoError(err)
	req.Equal([]string{"Bob", "Alice"}, []string{entries[0].PlayerName, entries[1].PlayerName})

	// A blank name is rejected with the server's message
	_, err = api.SubmitScore(ctx, " ", 10)
	var apiErr *APIError
	req.True(errors.As(err, &apiErr))
	req.Equal(400, apiErr.StatusCode)
	req.NotEmpty(apiErr.Msg)
}
