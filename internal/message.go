package internal

import "encoding/json"

type Message[T any] struct {
	Type string `json:"type"`
	Data T      `json:"data"`
}

// Inbound event types.
const (
	EventJoinRoom    = "join-room"
	EventPlayerReady = "player-ready"
	EventGameMove    = "game-move"
	EventGameOver    = "game-over"
)

// Outbound event types.
const (
	EventWelcome          = "welcome"
	EventRoomJoined       = "room-joined"
	EventRoomUpdate       = "room-update"
	EventGameStart        = "game-start"
	EventPlayerMoved      = "player-moved"
	EventPlayerEliminated = "player-eliminated"
)

type WelcomeData struct {
	PlayerID string `json:"playerId"`
}

type RoomUpdateData struct {
	RoomID    string           `json:"roomId"`
	Players   []PlayerSnapshot `json:"players"`
	GameState RoomState        `json:"gameState"`
}

// GameMoveData is relayed verbatim, direction and position are never interpreted.
type GameMoveData struct {
	RoomID    string          `json:"roomId"`
	Direction json.RawMessage `json:"direction"`
	Position  json.RawMessage `json:"position"`
}

type GameOverData struct {
	RoomID string `json:"roomId"`
	Score  int    `json:"score"`
}

type PlayerMovedData struct {
	PlayerID  string          `json:"playerId"`
	Direction json.RawMessage `json:"direction"`
	Position  json.RawMessage `json:"position"`
}

type PlayerEliminatedData struct {
	PlayerID string `json:"playerId"`
	Score    int    `json:"score"`
}
