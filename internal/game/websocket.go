package game

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/scythe504/snake-arena/internal"
	"github.com/scythe504/snake-arena/internal/utils"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

var (
	Upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}

	errEmptyRoomID = errors.New("empty room id")
)

// =============================================================================
// WEBSOCKET CONNECTION HANDLING
// =============================================================================

// connection is one player's socket. Reads happen on the handler goroutine,
// writes on writePump; Send only queues.
type connection struct {
	id     string
	ws     *websocket.Conn
	send   chan internal.Message[any]
	closed chan struct{}
	once   sync.Once
	log    *slog.Logger
}

func (c *connection) ID() string { return c.id }

func (c *connection) Send(msg internal.Message[any]) bool {
	select {
	case <-c.closed:
		return false
	default:
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

func (c *connection) close() {
	c.once.Do(func() { close(c.closed) })
}

// HandleWebSocket upgrades the request and serves one player until the socket
// closes. The socket closing is the player's disconnect.
func (c *Coordinator) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := Upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.log.Warn("Upgrade failed", "error", err)
		return
	}

	id := utils.GenerateID()
	conn := &connection{
		id:     id,
		ws:     ws,
		send:   make(chan internal.Message[any], c.sendBuffer),
		closed: make(chan struct{}),
		log:    c.log.With("player", id),
	}
	conn.log.Info("Player connected", "remote", r.RemoteAddr)

	conn.Send(internal.Message[any]{
		Type: internal.EventWelcome,
		Data: internal.WelcomeData{PlayerID: conn.id},
	})

	go conn.writePump()
	c.handleMessages(conn)
}

// handleMessages reads frames until the socket fails, then disconnects the
// player from every room.
func (c *Coordinator) handleMessages(conn *connection) {
	defer func() {
		c.Disconnect(conn.id)
		conn.close()
		conn.log.Info("Player disconnected")
	}()

	conn.ws.SetReadLimit(maxMessageSize)
	_ = conn.ws.SetReadDeadline(time.Now().Add(pongWait))
	conn.ws.SetPongHandler(func(string) error {
		return conn.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, rawMessage, err := conn.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				conn.log.Warn("Read error", "error", err)
			}
			return
		}

		var baseMsg internal.Message[json.RawMessage]
		if err := json.Unmarshal(rawMessage, &baseMsg); err != nil {
			conn.log.Debug("Failed to parse base message", "error", err)
			continue
		}
		conn.log.Debug("Received message", "type", baseMsg.Type)

		if err := c.dispatch(conn, baseMsg); err != nil {
			conn.log.Debug("Dropped message", "type", baseMsg.Type, "error", err)
		}
	}
}

func (c *Coordinator) dispatch(conn *connection, msg internal.Message[json.RawMessage]) error {
	switch msg.Type {
	case internal.EventJoinRoom:
		roomID, err := parseRoomID(msg.Data)
		if err != nil {
			return err
		}
		c.JoinRoom(roomID, conn)
	case internal.EventPlayerReady:
		roomID, err := parseRoomID(msg.Data)
		if err != nil {
			return err
		}
		c.HandlePlayerReady(roomID, conn.id)
	case internal.EventGameMove:
		var move internal.GameMoveData
		if err := json.Unmarshal(msg.Data, &move); err != nil {
			return err
		}
		c.HandleGameMove(conn.id, move)
	case internal.EventGameOver:
		var over internal.GameOverData
		if err := json.Unmarshal(msg.Data, &over); err != nil {
			return err
		}
		c.HandleGameOver(conn.id, over)
	default:
		conn.log.Debug("Unknown message type", "type", msg.Type)
	}
	return nil
}

// parseRoomID accepts either a bare JSON string or {"roomId": "..."}.
func parseRoomID(data json.RawMessage) (string, error) {
	var roomID string
	if err := json.Unmarshal(data, &roomID); err != nil {
		var wrapped struct {
			RoomID string `json:"roomId"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return "", err
		}
		roomID = wrapped.RoomID
	}
	roomID = strings.TrimSpace(roomID)
	if roomID == "" {
		return "", errEmptyRoomID
	}
	return roomID, nil
}

func (c *connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteJSON(msg); err != nil {
				c.log.Warn("Write failed", "type", msg.Type, "error", err)
				c.close()
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.close()
				return
			}
		case <-c.closed:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.ws.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
