package ws

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Client represents a connected WebSocket client
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	playerID string
	send     chan []byte
}

// Hub maintains the set of active clients keyed by player ID. Room
// membership lives in the scheduler, not here; the hub only tracks
// which player is reachable over which connection.
type Hub struct {
	clients    map[string]*Client // playerID -> Client
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run processes register/unregister bookkeeping for the hub. A register
// for a player ID that already has a connection replaces the old one.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if old, exists := h.clients[client.playerID]; exists {
				log.Printf("[WS] player %s reconnecting, closing old connection", client.playerID)
				old.conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "replaced by new connection"),
					time.Now().Add(5*time.Second))
				old.conn.Close()
				close(old.send)
			}
			h.clients[client.playerID] = client
			h.mu.Unlock()
			log.Printf("[WS] player %s connected", client.playerID)

		case client := <-h.unregister:
			h.mu.Lock()
			if cur, ok := h.clients[client.playerID]; ok && cur == client {
				delete(h.clients, client.playerID)
				close(client.send)
				log.Printf("[WS] player %s disconnected", client.playerID)
			}
			h.mu.Unlock()
		}
	}
}

// SendToPlayer sends a message to a specific player. It never blocks:
// a client that cannot drain its buffer loses the message.
func (h *Hub) SendToPlayer(playerID string, message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if client, exists := h.clients[playerID]; exists {
		select {
		case client.send <- data:
			// sent
		default:
			log.Printf("[WS] SendToPlayer dropped message for player %s (buffer full)", playerID)
		}
	}
}

// writePump writes messages to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				// Channel closed, connection is being replaced or cleaned up.
				// Best-effort close frame; the conn may already be gone.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("WebSocket write error for player %s: %v", c.playerID, err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("WebSocket ping error for player %s: %v", c.playerID, err)
				return
			}
		}
	}
}

// sendError sends an error message to the client without blocking
func (c *Client) sendError(msg string) {
	data, _ := json.Marshal(map[string]string{
		"type": "error",
		"msg":  msg,
	})
	select {
	case c.send <- data:
	default:
	}
}
