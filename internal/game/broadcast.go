package game

import (
	"log/slog"

	"github.com/scythe504/snake-arena/internal"
)

// =============================================================================
// BROADCASTING & MESSAGING
// =============================================================================

// Hub fans events out to room members. Delivery is fire-and-forget: each peer
// queues without blocking and a full queue drops the event for that peer.
//
// Callers hold room.Mu, so every member sees one room's events in the order
// they were produced.
type Hub struct {
	log *slog.Logger
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{log: log}
}

func (h *Hub) BroadcastToRoom(room *internal.Room, msg internal.Message[any]) {
	h.deliver(room, msg, "")
}

func (h *Hub) BroadcastToRoomExcept(room *internal.Room, msg internal.Message[any], exclude string) {
	h.deliver(room, msg, exclude)
}

func (h *Hub) SendTo(peer internal.Peer, msg internal.Message[any]) bool {
	if peer.Send(msg) {
		return true
	}
	h.log.Warn("Dropped message, peer queue full or closed", "player", peer.ID(), "type", msg.Type)
	return false
}

func (h *Hub) deliver(room *internal.Room, msg internal.Message[any], exclude string) {
	peers := room.Peers(exclude)
	sent := 0
	for _, peer := range peers {
		if h.SendTo(peer, msg) {
			sent++
		}
	}
	h.log.Debug("Broadcast", "room", room.Id, "type", msg.Type, "sent", sent, "peers", len(peers), "excluded", exclude)
}
