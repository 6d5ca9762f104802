package internal

import (
	"cmp"
	"slices"

	"github.com/samber/lo"
)

// Methods (Room Struct)
// Callers hold r.Mu.

func (r *Room) GetPlayerCount() int {
	return len(r.Players)
}

func (r *Room) HasPlayer(playerID string) bool {
	_, ok := r.Players[playerID]
	return ok
}

func (r *Room) AreAllPlayersReady() bool {
	for _, player := range r.Players {
		if !player.Ready {
			return false
		}
	}

	return true
}

func (r *Room) CanStartGame() bool {
	return r.State == StateWaiting &&
		r.GetPlayerCount() >= MinPlayersToStart &&
		r.AreAllPlayersReady()
}

// Snapshot lists members ordered by id so every recipient sees the same order.
func (r *Room) Snapshot() RoomUpdateData {
	players := lo.MapToSlice(r.Players, func(_ string, p *PlayerSession) PlayerSnapshot {
		return CreatePlayerSnapshot(p)
	})
	slices.SortFunc(players, func(a, b PlayerSnapshot) int {
		return cmp.Compare(a.ID, b.ID)
	})

	return RoomUpdateData{
		RoomID:    r.Id,
		Players:   players,
		GameState: r.State,
	}
}

// Peers returns the connections of every member except exclude.
func (r *Room) Peers(exclude string) []Peer {
	peers := make([]Peer, 0, len(r.Players))
	for id, player := range r.Players {
		if id == exclude || player.Conn == nil {
			continue
		}
		peers = append(peers, player.Conn)
	}
	return peers
}
