package game

import (
	"github.com/scythe504/snake-arena/internal"
)

// =============================================================================
// GAME RELAY
// =============================================================================

// Moves and eliminations are computed by each participant's own engine. The
// server forwards them as reported, without checking them against the grid
// rules.

// HandleGameMove forwards a move to every other member of the room.
func (c *Coordinator) HandleGameMove(playerID string, move internal.GameMoveData) bool {
	room, ok := c.registry.Get(move.RoomID)
	if !ok {
		c.log.Debug("Move for unknown room ignored", "room", move.RoomID, "player", playerID)
		return false
	}

	room.Mu.Lock()
	defer room.Mu.Unlock()

	if !room.HasPlayer(playerID) {
		c.log.Debug("Move from non-member ignored", "room", move.RoomID, "player", playerID)
		return false
	}

	c.hub.BroadcastToRoomExcept(room, internal.Message[any]{
		Type: internal.EventPlayerMoved,
		Data: internal.PlayerMovedData{
			PlayerID:  playerID,
			Direction: move.Direction,
			Position:  move.Position,
		},
	}, playerID)
	return true
}

// HandleGameOver stores the final score and tells the other members. The
// player stays in the room and the room state is unchanged.
func (c *Coordinator) HandleGameOver(playerID string, over internal.GameOverData) bool {
	room, ok := c.registry.Get(over.RoomID)
	if !ok {
		c.log.Debug("Game over for unknown room ignored", "room", over.RoomID, "player", playerID)
		return false
	}

	room.Mu.Lock()
	defer room.Mu.Unlock()

	player, ok := room.Players[playerID]
	if !ok {
		c.log.Debug("Game over from non-member ignored", "room", over.RoomID, "player", playerID)
		return false
	}
	player.Score = over.Score

	c.log.Info("Player eliminated", "room", over.RoomID, "player", playerID, "score", over.Score)
	c.hub.BroadcastToRoomExcept(room, internal.Message[any]{
		Type: internal.EventPlayerEliminated,
		Data: internal.PlayerEliminatedData{
			PlayerID: playerID,
			Score:    over.Score,
		},
	}, playerID)
	return true
}
