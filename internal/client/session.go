package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/scythe504/snake-arena/internal"
)

const (
	writeWait    = 10 * time.Second
	eventsBuffer = 64
)

var ErrClosed = errors.New("session closed")

// Session is one player's websocket connection to the coordination server.
// Inbound frames are delivered on Events in arrival order.
type Session struct {
	conn *websocket.Conn
	id   string
	log  *slog.Logger

	writeMu   sync.Mutex
	events    chan internal.Message[json.RawMessage]
	done      chan struct{}
	closing   chan struct{}
	closeOnce sync.Once
	err       error
}

// Dial connects to url (ws:// or wss://) and waits for the welcome frame that
// carries the player id.
func Dial(ctx context.Context, url string, log *slog.Logger) (*Session, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", url, err)
	}

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetReadDeadline(deadline)
	}
	var welcome internal.Message[internal.WelcomeData]
	if err := conn.ReadJSON(&welcome); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to read welcome: %w", err)
	}
	if welcome.Type != internal.EventWelcome || welcome.Data.PlayerID == "" {
		_ = conn.Close()
		return nil, fmt.Errorf("unexpected first frame %q", welcome.Type)
	}
	_ = conn.SetReadDeadline(time.Time{})

	s := &Session{
		conn:    conn,
		id:      welcome.Data.PlayerID,
		log:     log.With("player", welcome.Data.PlayerID),
		events:  make(chan internal.Message[json.RawMessage], eventsBuffer),
		done:    make(chan struct{}),
		closing: make(chan struct{}),
	}
	go s.readLoop()
	return s, nil
}

func (s *Session) ID() string { return s.id }

// Events is closed when the connection ends.
func (s *Session) Events() <-chan internal.Message[json.RawMessage] {
	return s.events
}

func (s *Session) Done() <-chan struct{} { return s.done }

// Err reports why the session ended; nil while it is open.
func (s *Session) Err() error {
	select {
	case <-s.done:
		return s.err
	default:
		return nil
	}
}

func (s *Session) JoinRoom(roomID string) error {
	return s.send(internal.EventJoinRoom, roomID)
}

func (s *Session) Ready(roomID string) error {
	return s.send(internal.EventPlayerReady, roomID)
}

func (s *Session) Move(roomID string, direction, position any) error {
	dir, err := json.Marshal(direction)
	if err != nil {
		return err
	}
	pos, err := json.Marshal(position)
	if err != nil {
		return err
	}
	return s.send(internal.EventGameMove, internal.GameMoveData{
		RoomID:    roomID,
		Direction: dir,
		Position:  pos,
	})
}

func (s *Session) GameOver(roomID string, score int) error {
	return s.send(internal.EventGameOver, internal.GameOverData{RoomID: roomID, Score: score})
}

// Await returns the next event of msgType, skipping others.
func (s *Session) Await(ctx context.Context, msgType string) (internal.Message[json.RawMessage], error) {
	for {
		select {
		case <-ctx.Done():
			return internal.Message[json.RawMessage]{}, ctx.Err()
		case msg, ok := <-s.events:
			if !ok {
				return internal.Message[json.RawMessage]{}, ErrClosed
			}
			if msg.Type == msgType {
				return msg, nil
			}
		}
	}
}

func (s *Session) Close() error {
	s.closeOnce.Do(func() { close(s.closing) })
	s.writeMu.Lock()
	_ = s.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
	s.writeMu.Unlock()
	return s.conn.Close()
}

func (s *Session) send(msgType string, data any) error {
	select {
	case <-s.done:
		return ErrClosed
	default:
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteJSON(internal.Message[any]{Type: msgType, Data: data}); err != nil {
		return fmt.Errorf("failed to send %s: %w", msgType, err)
	}
	return nil
}

func (s *Session) readLoop() {
	defer func() {
		close(s.events)
		close(s.done)
	}()

	for {
		var msg internal.Message[json.RawMessage]
		if err := s.conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.err = err
			}
			return
		}
		s.log.Debug("Received event", "type", msg.Type)
		select {
		case s.events <- msg:
		case <-s.closing:
			return
		}
	}
}
