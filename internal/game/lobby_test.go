package game

import (
	"testing"

	"github.com/scythe504/snake-arena/internal"
	"github.com/stretchr/testify/require"
)

func TestCoordinator_JoinRoom_Acks_And_Broadcasts_Snapshot(t *testing.T) {
	req := require.New(t)
	coordinator := NewCoordinator(discardLogger(), 0)
	alice, bob := newFakePeer("alice"), newFakePeer("bob")

	coordinator.JoinRoom("R1", alice)
	view := coordinator.JoinRoom("R1", bob)

	// Then the joiner gets the ack then the snapshot
	req.Equal([]string{internal.EventRoomJoined, internal.EventRoomUpdate}, bob.types())
	ack, _ := bob.last(internal.EventRoomJoined)
	req.Equal("R1", ack.Data)

	// And earlier members receive the snapshot too
	req.Equal([]string{internal.EventRoomJoined, internal.EventRoomUpdate, internal.EventRoomUpdate}, alice.types())
	update, _ := alice.last(internal.EventRoomUpdate)
	snapshot := update.Data.(internal.RoomUpdateData)
	req.Equal(view, snapshot)
	req.Equal(internal.StateWaiting, snapshot.GameState)
	req.Equal([]internal.PlayerSnapshot{{ID: "alice"}, {ID: "bob"}}, snapshot.Players)
}

func TestCoordinator_Two_Players_Ready_Start_Once(t *testing.T) {
	req := require.New(t)
	coordinator := NewCoordinator(discardLogger(), 0)
	alice, bob, carol := newFakePeer("alice"), newFakePeer("bob"), newFakePeer("carol")

	// Given two players in R1
	coordinator.JoinRoom("R1", alice)
	coordinator.JoinRoom("R1", bob)

	// When both are ready
	req.False(coordinator.HandlePlayerReady("R1", "alice"))
	req.True(coordinator.HandlePlayerReady("R1", "bob"))

	// Then exactly one start signal went out, before the snapshot
	req.Equal(1, alice.count(internal.EventGameStart))
	req.Equal(1, bob.count(internal.EventGameStart))
	types := bob.types()
	req.Equal(internal.EventGameStart, types[len(types)-2])
	req.Equal(internal.EventRoomUpdate, types[len(types)-1])

	room, _ := coordinator.Registry().Get("R1")
	req.Equal(internal.StatePlaying, room.State)

	// When a late third player joins and readies
	coordinator.JoinRoom("R1", carol)
	req.False(coordinator.HandlePlayerReady("R1", "carol"))

	// Then no second start signal is emitted
	req.Equal(1, alice.count(internal.EventGameStart))
	req.Zero(carol.count(internal.EventGameStart))
	req.Equal(internal.StatePlaying, room.State)
}

func TestCoordinator_Single_Ready_Player_Does_Not_Start(t *testing.T) {
	req := require.New(t)
	coordinator := NewCoordinator(discardLogger(), 0)
	alice := newFakePeer("alice")

	coordinator.JoinRoom("solo", alice)
	req.False(coordinator.HandlePlayerReady("solo", "alice"))

	req.Zero(alice.count(internal.EventGameStart))
	update, _ := alice.last(internal.EventRoomUpdate)
	snapshot := update.Data.(internal.RoomUpdateData)
	req.Equal(internal.StateWaiting, snapshot.GameState)
	req.True(snapshot.Players[0].Ready)
}

func TestCoordinator_Not_Ready_Newcomer_Blocks_Start(t *testing.T) {
	req := require.New(t)
	coordinator := NewCoordinator(discardLogger(), 0)
	alice, bob, carol := newFakePeer("alice"), newFakePeer("bob"), newFakePeer("carol")

	// Given a ready player alone in the room
	coordinator.JoinRoom("R1", alice)
	coordinator.HandlePlayerReady("R1", "alice")

	// And two newcomers, neither ready
	coordinator.JoinRoom("R1", bob)
	coordinator.JoinRoom("R1", carol)

	// When only one newcomer readies
	req.False(coordinator.HandlePlayerReady("R1", "bob"))

	// Then the room keeps waiting for the last one
	room, _ := coordinator.Registry().Get("R1")
	req.Equal(internal.StateWaiting, room.State)
	req.Zero(alice.count(internal.EventGameStart))

	// When the last one readies
	req.True(coordinator.HandlePlayerReady("R1", "carol"))
	req.Equal(internal.StatePlaying, room.State)
}

func TestCoordinator_Ready_Twice_Does_Not_Restart(t *testing.T) {
	req := require.New(t)
	coordinator := NewCoordinator(discardLogger(), 0)
	alice, bob := newFakePeer("alice"), newFakePeer("bob")
	coordinator.JoinRoom("R1", alice)
	coordinator.JoinRoom("R1", bob)
	coordinator.HandlePlayerReady("R1", "alice")
	coordinator.HandlePlayerReady("R1", "bob")

	req.False(coordinator.HandlePlayerReady("R1", "alice"))

	req.Equal(1, alice.count(internal.EventGameStart))
}

func TestCoordinator_Ready_Unknown_Room_Or_Member_Is_Ignored(t *testing.T) {
	req := require.New(t)
	coordinator := NewCoordinator(discardLogger(), 0)
	alice := newFakePeer("alice")
	coordinator.JoinRoom("R1", alice)
	alice.reset()

	req.False(coordinator.HandlePlayerReady("nope", "alice"))
	req.False(coordinator.HandlePlayerReady("R1", "mallory"))

	req.Empty(alice.types())
	req.Equal(1, coordinator.Registry().Len())
}

func TestCoordinator_Disconnect_Notifies_Or_Tears_Down(t *testing.T) {
	req := require.New(t)
	coordinator := NewCoordinator(discardLogger(), 0)
	alice, bob := newFakePeer("alice"), newFakePeer("bob")
	coordinator.JoinRoom("R1", alice)
	coordinator.JoinRoom("R1", bob)
	alice.reset()

	// When bob disconnects
	coordinator.Disconnect("bob")

	// Then alice receives a snapshot without bob
	req.Equal([]string{internal.EventRoomUpdate}, alice.types())
	update, _ := alice.last(internal.EventRoomUpdate)
	req.Equal([]internal.PlayerSnapshot{{ID: "alice"}}, update.Data.(internal.RoomUpdateData).Players)

	// When alice disconnects too, the room disappears
	coordinator.Disconnect("alice")
	req.Zero(coordinator.Registry().Len())
}

func TestCoordinator_Disconnect_Then_Rejoin_Starts_Fresh_Room(t *testing.T) {
	req := require.New(t)
	coordinator := NewCoordinator(discardLogger(), 0)
	alice, bob := newFakePeer("alice"), newFakePeer("bob")
	coordinator.JoinRoom("R1", alice)
	coordinator.JoinRoom("R1", bob)
	coordinator.HandlePlayerReady("R1", "alice")
	coordinator.HandlePlayerReady("R1", "bob")
	coordinator.Disconnect("alice")
	coordinator.Disconnect("bob")

	view := coordinator.JoinRoom("R1", newFakePeer("carol"))

	req.Equal(internal.StateWaiting, view.GameState)
}

func TestHub_Drops_For_Full_Peer_Only(t *testing.T) {
	req := require.New(t)
	coordinator := NewCoordinator(discardLogger(), 0)
	alice, bob := newFakePeer("alice"), newFakePeer("bob")
	coordinator.JoinRoom("R1", alice)
	coordinator.JoinRoom("R1", bob)
	alice.reset()
	bob.reset()
	bob.full = true

	coordinator.HandlePlayerReady("R1", "alice")

	req.Equal([]string{internal.EventRoomUpdate}, alice.types())
	req.Empty(bob.types())
}
