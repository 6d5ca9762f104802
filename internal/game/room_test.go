package game

import (
	"fmt"
	"sync"
	"testing"

	"github.com/scythe504/snake-arena/internal"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Join_Creates_Waiting_Room(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry(discardLogger())

	// Given no room exists
	req.Zero(registry.Len())

	// When a player joins R1
	registry.Join("R1", newFakePeer("alice"), nil)

	// Then R1 exists in Waiting with one fresh session
	room, ok := registry.Get("R1")
	req.True(ok)
	req.Equal(internal.StateWaiting, room.State)
	req.Len(room.Players, 1)
	req.False(room.Players["alice"].Ready)
	req.Zero(room.Players["alice"].Score)
	req.Equal([]string{"R1"}, registry.RoomsOf("alice"))
}

func TestRegistry_Rejoin_Overwrites_Session(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry(discardLogger())
	alice := newFakePeer("alice")

	registry.Join("R1", alice, nil)
	room, _ := registry.Get("R1")
	room.Players["alice"].Ready = true
	room.Players["alice"].Score = 120

	// When the same id joins again
	registry.Join("R1", alice, nil)

	// Then the session is fresh and not duplicated
	req.Len(room.Players, 1)
	req.False(room.Players["alice"].Ready)
	req.Zero(room.Players["alice"].Score)
}

func TestRegistry_Leave_Last_Member_Deletes_Room(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry(discardLogger())
	registry.Join("R1", newFakePeer("alice"), nil)
	registry.Join("R1", newFakePeer("bob"), nil)

	notified := 0
	registry.Leave("alice", func(room *internal.Room) { notified++ })
	req.Equal(1, notified)
	req.Equal(1, registry.Len())

	registry.Leave("bob", func(room *internal.Room) { notified++ })
	req.Equal(1, notified)
	req.Zero(registry.Len())
	_, ok := registry.Get("R1")
	req.False(ok)
	req.Empty(registry.RoomsOf("bob"))
}

func TestRegistry_Leave_Removes_Stale_Membership_Everywhere(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry(discardLogger())
	alice := newFakePeer("alice")
	registry.Join("R1", alice, nil)
	registry.Join("R2", alice, nil)
	registry.Join("R2", newFakePeer("bob"), nil)
	req.Equal([]string{"R1", "R2"}, registry.RoomsOf("alice"))

	registry.Leave("alice", nil)

	_, ok := registry.Get("R1")
	req.False(ok)
	room, ok := registry.Get("R2")
	req.True(ok)
	req.False(room.HasPlayer("alice"))
	req.True(room.HasPlayer("bob"))
}

func TestRegistry_Leave_Unknown_Player_Is_Noop(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry(discardLogger())
	registry.Join("R1", newFakePeer("alice"), nil)

	registry.Leave("ghost", nil)

	req.Equal(1, registry.Len())
}

func TestRegistry_GetJoinableRoom(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry(discardLogger())
	req.Empty(registry.GetJoinableRoom())

	registry.Join("A", newFakePeer("alice"), nil)
	registry.Join("B", newFakePeer("bob"), nil)
	room, _ := registry.Get("A")
	room.State = internal.StatePlaying

	req.Equal("B", registry.GetJoinableRoom())
}

func TestRegistry_Concurrent_Join_Leave_Leaves_No_Empty_Room(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry(discardLogger())

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("p%d", i)
			roomID := fmt.Sprintf("R%d", i%5)
			registry.Join(roomID, newFakePeer(id), nil)
			registry.Leave(id, nil)
		}(i)
	}
	wg.Wait()

	req.Zero(registry.Len())
}
