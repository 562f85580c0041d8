package game

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	directoryKey      = "rooms:directory"
	directoryTTL      = 2 * time.Minute
	roomEventsChannel = "room_events"
)

// Announcer mirrors the room directory into Redis and publishes room
// lifecycle events for the external server browser. Like the recorder
// it is best-effort and runs on its own goroutine; a nil *Announcer is
// valid and announces nothing.
type Announcer struct {
	rdb *redis.Client
	ops chan announceOp
}

type announceOp struct {
	directory []RoomSummary // non-nil for a directory refresh
	event     *RoomEvent    // non-nil for a pub/sub event
}

// RoomEvent is one message on the room_events channel.
type RoomEvent struct {
	Event  string    `json:"event"` // room_created, room_closed, game_over
	Code   string    `json:"code"`
	Host   string    `json:"host,omitempty"`
	Winner string    `json:"winner,omitempty"`
	Reason string    `json:"reason,omitempty"`
	At     time.Time `json:"at"`
}

// NewAnnouncer returns nil when rdb is nil.
func NewAnnouncer(rdb *redis.Client) *Announcer {
	if rdb == nil {
		return nil
	}
	return &Announcer{
		rdb: rdb,
		ops: make(chan announceOp, 256),
	}
}

func (a *Announcer) Start() {
	if a == nil {
		return
	}
	go a.loop()
}

func (a *Announcer) Stop() {
	if a == nil {
		return
	}
	close(a.ops)
}

// Directory refreshes the mirrored room listing.
func (a *Announcer) Directory(rooms []RoomSummary) {
	if rooms == nil {
		rooms = []RoomSummary{}
	}
	a.enqueue(announceOp{directory: rooms})
}

// RoomCreated publishes a new open room.
func (a *Announcer) RoomCreated(code, host string) {
	a.enqueue(announceOp{event: &RoomEvent{Event: "room_created", Code: code, Host: host, At: time.Now()}})
}

// RoomClosed publishes a room leaving the registry.
func (a *Announcer) RoomClosed(code, reason string) {
	a.enqueue(announceOp{event: &RoomEvent{Event: "room_closed", Code: code, Reason: reason, At: time.Now()}})
}

// GameOver publishes a finished game.
func (a *Announcer) GameOver(code, winner, reason string) {
	a.enqueue(announceOp{event: &RoomEvent{Event: "game_over", Code: code, Winner: winner, Reason: reason, At: time.Now()}})
}

func (a *Announcer) enqueue(op announceOp) {
	if a == nil {
		return
	}
	select {
	case a.ops <- op:
	default:
		log.Printf("[REDIS] announcer queue full, dropping update")
	}
}

func (a *Announcer) loop() {
	ctx := context.Background()
	for op := range a.ops {
		if op.directory != nil {
			data, err := json.Marshal(op.directory)
			if err != nil {
				log.Printf("[REDIS] failed to marshal directory: %v", err)
				continue
			}
			if err := a.rdb.SetEx(ctx, directoryKey, data, directoryTTL).Err(); err != nil {
				log.Printf("[REDIS] failed to mirror directory: %v", err)
			}
			continue
		}
		if op.event != nil {
			data, err := json.Marshal(op.event)
			if err != nil {
				log.Printf("[REDIS] failed to marshal room event: %v", err)
				continue
			}
			if err := a.rdb.Publish(ctx, roomEventsChannel, data).Err(); err != nil {
				log.Printf("[REDIS] failed to publish %s for room %s: %v", op.event.Event, op.event.Code, err)
			}
		}
	}
}
