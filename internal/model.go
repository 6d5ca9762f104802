package internal

import (
	"sync"
)

const (
	MinPlayersToStart = 2
)

type RoomState string

const (
	StateWaiting RoomState = "waiting"
	StatePlaying RoomState = "playing"
)

// Peer is the outbound half of one player connection.
// Send must not block; a full queue drops the message.
type Peer interface {
	ID() string
	Send(msg Message[any]) bool
}

type Room struct {
	Id      string
	State   RoomState
	Players map[string]*PlayerSession

	// Concurrency control
	Mu sync.Mutex `json:"-"`
}

type Response struct {
	StatusCode    int   `json:"status_code"`
	RespStartTime int64 `json:"resp_time_start_ms"`
	RespEndTime   int64 `json:"resp_time_end_ms"`
	NetRespTime   int64 `json:"net_resp_time_ms"`
	Data          any   `json:"data"`
}

func NewRoom(id string) *Room {
	return &Room{
		Id:      id,
		State:   StateWaiting,
		Players: make(map[string]*PlayerSession),
	}
}
