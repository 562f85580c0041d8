package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/playeight/backend/internal/game"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origin is enforced by middleware.WebSocketCORSCheck before
		// the upgrade reaches this handler.
		return true
	},
}

const (
	maxMessageSize = 65536
	pongWait       = 60 * time.Second
	maxNameLen     = 24
	maxChatLen     = 256
)

// ServeWS upgrades an HTTP request to a WebSocket session. Each
// connection gets a fresh player ID; the identity lives as long as
// the socket does.
func ServeWS(hub *Hub, sched *game.Scheduler) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("[WS] upgrade failed: %v", err)
			return
		}

		client := &Client{
			hub:      hub,
			conn:     conn,
			playerID: game.NewPlayerID(),
			send:     make(chan []byte, 256),
		}

		hub.register <- client
		go client.writePump()
		go client.readPump(sched)
	}
}

// readPump reads messages from the WebSocket connection and turns
// them into scheduler intents. On exit the player is treated as
// having left whatever room they were in.
func (c *Client) readPump(sched *game.Scheduler) {
	defer func() {
		c.hub.unregister <- c
		sched.Submit(game.LeaveIntent{PlayerID: c.playerID})
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				log.Printf("[WS] read error for player %s: %v", c.playerID, err)
			}
			break
		}
		c.handleMessage(sched, message)
	}
}

// inbound is the single flat shape for every client message. Fields
// irrelevant to a given type are simply left at their zero value.
type inbound struct {
	Type  string  `json:"type"`
	Name  string  `json:"name"`
	Code  string  `json:"code"`
	Angle float64 `json:"angle"`
	Power float64 `json:"power"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Msg   string  `json:"msg"`
}

// handleMessage parses one client message and submits the matching
// intent. Malformed JSON is dropped without a reply; an unknown type
// gets an error so client bugs surface during development.
func (c *Client) handleMessage(sched *game.Scheduler, raw []byte) {
	var msg inbound
	if err := json.Unmarshal(raw, &msg); err != nil {
		log.Printf("[WS] dropping malformed message from player %s: %v", c.playerID, err)
		return
	}

	switch msg.Type {
	case "create":
		sched.Submit(game.CreateIntent{
			PlayerID: c.playerID,
			Name:     sanitizeName(msg.Name),
		})
	case "join":
		sched.Submit(game.JoinIntent{
			PlayerID: c.playerID,
			Name:     sanitizeName(msg.Name),
			Code:     msg.Code,
		})
	case "shoot":
		sched.Submit(game.ShootIntent{
			PlayerID: c.playerID,
			Angle:    msg.Angle,
			Power:    msg.Power,
		})
	case "place_cue":
		sched.Submit(game.PlaceCueIntent{
			PlayerID: c.playerID,
			X:        msg.X,
			Y:        msg.Y,
		})
	case "chat":
		text := sanitizeChat(msg.Msg)
		if text == "" {
			return
		}
		sched.Submit(game.ChatIntent{PlayerID: c.playerID, Msg: text})
	case "request_state":
		sched.Submit(game.StateRequestIntent{PlayerID: c.playerID})
	default:
		c.sendError("unknown message type")
	}
}

// sanitizeName trims and caps a display name, falling back to a
// generic one so rooms never show blank seats.
func sanitizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "player"
	}
	if runes := []rune(name); len(runes) > maxNameLen {
		name = string(runes[:maxNameLen])
	}
	return name
}

// sanitizeChat trims and caps a chat line. An empty result means the
// message should not be relayed at all.
func sanitizeChat(msg string) string {
	msg = strings.TrimSpace(msg)
	if runes := []rune(msg); len(runes) > maxChatLen {
		msg = string(runes[:maxChatLen])
	}
	return msg
}
