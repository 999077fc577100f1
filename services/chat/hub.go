// Package chatsvc fans live-class chat messages out to everyone watching the
// same video.
package chatsvc

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/zeroonecreation/classify/core"
)

const (
	// sendBufSize is the per-client outgoing buffer; a client that cannot
	// drain it is dropped.
	sendBufSize = 64

	// historySize is how many recent messages a room replays on join.
	historySize = 50

	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 4 << 10
)

// Message is a single chat message broadcast to a room.
type Message struct {
	Sender string    `json:"sender"`
	Body   string    `json:"body"`
	SentAt time.Time `json:"sentAt"` // UTC
}

type (
	Hub struct {
		mu     sync.Mutex
		rooms  map[string]*room
		logger core.Logger
	}

	room struct {
		clients map[*Client]bool
		history []Message
	}

	Client struct {
		hub    *Hub
		roomID string
		sender string
		conn   *websocket.Conn
		send   chan Message
	}
)

func NewHub(logger core.Logger) *Hub {
	return &Hub{
		rooms:  make(map[string]*room),
		logger: logger,
	}
}

// Join registers a websocket connection with the given room, replays recent
// history to it and starts its pumps. It returns once the client is
// registered; the pumps own the connection from then on.
func (h *Hub) Join(roomID, sender string, conn *websocket.Conn) *Client {
	client := &Client{
		hub:    h,
		roomID: roomID,
		sender: sender,
		conn:   conn,
		send:   make(chan Message, sendBufSize),
	}

	h.mu.Lock()
	rm, ok := h.rooms[roomID]
	if !ok {
		rm = &room{clients: make(map[*Client]bool)}
		h.rooms[roomID] = rm
	}
	rm.clients[client] = true
	// replay fits in the fresh send buffer: historySize < sendBufSize
	for _, msg := range rm.history {
		client.send <- msg
	}
	h.mu.Unlock()

	go client.writePump()
	go client.readPump()
	return client
}

// Broadcast appends the message to the room's history and queues it on every
// member. Slow members lose the message rather than block the room.
func (h *Hub) Broadcast(roomID string, msg Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	rm, ok := h.rooms[roomID]
	if !ok {
		return
	}
	rm.history = append(rm.history, msg)
	if len(rm.history) > historySize {
		rm.history = rm.history[len(rm.history)-historySize:]
	}
	for client := range rm.clients {
		select {
		case client.send <- msg:
		default: // slow consumer
		}
	}
}

// RoomSize reports how many clients are connected to the room.
func (h *Hub) RoomSize(roomID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	if rm, ok := h.rooms[roomID]; ok {
		return len(rm.clients)
	}
	return 0
}

// CloseRoom disconnects every member, e.g. when a live class ends.
func (h *Hub) CloseRoom(roomID string) {
	h.mu.Lock()
	rm, ok := h.rooms[roomID]
	if ok {
		delete(h.rooms, roomID)
	}
	h.mu.Unlock()

	if !ok {
		return
	}
	for client := range rm.clients {
		close(client.send)
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	rm, ok := h.rooms[client.roomID]
	if !ok {
		return
	}
	if _, ok = rm.clients[client]; !ok {
		return
	}
	delete(rm.clients, client)
	close(client.send)
	if len(rm.clients) == 0 {
		delete(h.rooms, client.roomID)
	}
}

// readPump relays inbound messages to the room until the connection dies.
func (c *Client) readPump() {
	defer func() {
		c.hub.remove(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var in struct {
			Body string `json:"body"`
		}
		if err := c.conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Warn("chat read error", err)
			}
			return
		}
		if in.Body == "" {
			continue
		}
		c.hub.Broadcast(c.roomID, Message{
			Sender: c.sender,
			Body:   in.Body,
			SentAt: time.Now().UTC(),
		})
	}
}

// writePump drains the send channel onto the connection and keeps it alive
// with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
