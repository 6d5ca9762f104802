package game

import (
	"log/slog"

	"github.com/scythe504/snake-arena/internal"
)

// =============================================================================
// SESSION STATE MACHINE
// =============================================================================

// Coordinator applies player intents to the registry and notifies rooms.
// All mutations of one room happen under that room's lock; different rooms
// never contend.
type Coordinator struct {
	registry   *Registry
	hub        *Hub
	log        *slog.Logger
	sendBuffer int
}

const defaultSendBuffer = 64

func NewCoordinator(log *slog.Logger, sendBuffer int) *Coordinator {
	if sendBuffer <= 0 {
		sendBuffer = defaultSendBuffer
	}
	return &Coordinator{
		registry:   NewRegistry(log),
		hub:        NewHub(log),
		log:        log,
		sendBuffer: sendBuffer,
	}
}

func (c *Coordinator) Registry() *Registry {
	return c.registry
}

// JoinRoom adds conn to the room, acknowledges to the joiner and sends the
// membership snapshot to every member, the joiner included.
func (c *Coordinator) JoinRoom(roomID string, conn internal.Peer) internal.RoomUpdateData {
	var view internal.RoomUpdateData
	c.registry.Join(roomID, conn, func(room *internal.Room) {
		view = room.Snapshot()
		c.hub.SendTo(conn, internal.Message[any]{Type: internal.EventRoomJoined, Data: roomID})
		c.hub.BroadcastToRoom(room, roomUpdate(view))
	})
	return view
}

// HandlePlayerReady marks the player ready and starts the room when every
// member is ready and there are at least two. It reports whether this call
// performed the Waiting -> Playing transition.
func (c *Coordinator) HandlePlayerReady(roomID, playerID string) bool {
	room, ok := c.registry.Get(roomID)
	if !ok {
		c.log.Debug("Ready for unknown room ignored", "room", roomID, "player", playerID)
		return false
	}

	// --- Critical section ---
	room.Mu.Lock()
	defer room.Mu.Unlock()

	player, ok := room.Players[playerID]
	if !ok {
		c.log.Debug("Ready from non-member ignored", "room", roomID, "player", playerID)
		return false
	}
	player.Ready = true

	started := room.CanStartGame()
	if started {
		room.State = internal.StatePlaying
		c.log.Info("All players ready, game started", "room", roomID, "players", room.GetPlayerCount())
		c.hub.BroadcastToRoom(room, internal.Message[any]{
			Type: internal.EventGameStart,
			Data: map[string]any{"roomId": roomID},
		})
	}

	c.log.Debug("Player ready", "room", roomID, "player", playerID, "state", room.State)
	c.hub.BroadcastToRoom(room, roomUpdate(room.Snapshot()))
	return started
}

// Disconnect removes the player everywhere; remaining members get a snapshot.
func (c *Coordinator) Disconnect(playerID string) {
	c.registry.Leave(playerID, func(room *internal.Room) {
		c.hub.BroadcastToRoom(room, roomUpdate(room.Snapshot()))
	})
}

func roomUpdate(view internal.RoomUpdateData) internal.Message[any] {
	return internal.Message[any]{Type: internal.EventRoomUpdate, Data: view}
}
