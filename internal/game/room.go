package game

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/scythe504/snake-arena/internal"
)

// =============================================================================
// ROOM MANAGEMENT
// =============================================================================

// Registry owns every active room and the player -> rooms index.
//
// Lock order is registry before room. Membership changes (join, leave) hold the
// registry write lock for their whole duration so an emptied room can never be
// handed to a concurrent joiner after it was removed.
type Registry struct {
	mu      sync.RWMutex
	rooms   map[string]*internal.Room
	members map[string]map[string]struct{} // playerID -> roomIDs
	log     *slog.Logger
}

func NewRegistry(log *slog.Logger) *Registry {
	return &Registry{
		rooms:   make(map[string]*internal.Room),
		members: make(map[string]map[string]struct{}),
		log:     log,
	}
}

// Get returns the live room with that id.
func (r *Registry) Get(roomID string) (*internal.Room, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.rooms[roomID]
	return room, ok
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

// RoomsOf lists the rooms a player currently belongs to.
func (r *Registry) RoomsOf(playerID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.members[playerID]))
	for id := range r.members[playerID] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// GetJoinableRoom returns the id of a room still waiting for players, or "".
func (r *Registry) GetJoinableRoom() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.rooms))
	for id := range r.rooms {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		room := r.rooms[id]
		room.Mu.Lock()
		waiting := room.State == internal.StateWaiting
		room.Mu.Unlock()
		if waiting {
			r.log.Debug("Found joinable room", "room", id)
			return id
		}
	}

	r.log.Debug("No joinable room found")
	return ""
}

// Join inserts a fresh session for conn, creating the room when absent. A
// session already present under the same id is replaced. fn runs with the
// room locked, after the insert.
func (r *Registry) Join(roomID string, conn internal.Peer, fn func(room *internal.Room)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room := r.getOrCreateRoomLocked(roomID)

	room.Mu.Lock()
	defer room.Mu.Unlock()

	room.Players[conn.ID()] = internal.NewPlayerSession(conn)
	if r.members[conn.ID()] == nil {
		r.members[conn.ID()] = make(map[string]struct{})
	}
	r.members[conn.ID()][roomID] = struct{}{}

	r.log.Info("Player joined room", "room", roomID, "player", conn.ID(), "players", room.GetPlayerCount())

	if fn != nil {
		fn(room)
	}
}

// Leave removes the player from every room holding it. Rooms left empty are
// deleted; for the others fn runs with the room locked, after the removal.
func (r *Registry) Leave(playerID string, fn func(room *internal.Room)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for roomID := range r.members[playerID] {
		room, ok := r.rooms[roomID]
		if !ok {
			continue
		}

		room.Mu.Lock()
		delete(room.Players, playerID)
		remaining := room.GetPlayerCount()

		r.log.Info("Player left room", "room", roomID, "player", playerID, "players", remaining)

		if remaining == 0 {
			delete(r.rooms, roomID)
			r.log.Info("Room is empty, removed", "room", roomID)
		} else if fn != nil {
			fn(room)
		}
		room.Mu.Unlock()
	}
	delete(r.members, playerID)
}

func (r *Registry) getOrCreateRoomLocked(roomID string) *internal.Room {
	if room, exists := r.rooms[roomID]; exists {
		return room
	}

	room := internal.NewRoom(roomID)
	r.rooms[roomID] = room
	r.log.Info("Created new room", "room", roomID, "state", room.State)
	return room
}
