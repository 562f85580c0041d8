package game

import "time"

// Intent is a request handed to the scheduler goroutine. The variant
// set is closed: the scheduler switch handles every type below and
// nothing else can implement the interface.
type Intent interface{ isIntent() }

// CreateIntent opens a new room with the sender as creator.
type CreateIntent struct {
	PlayerID string
	Name     string
}

// JoinIntent seats the sender in an existing room by code.
type JoinIntent struct {
	PlayerID string
	Name     string
	Code     string
}

// ShootIntent strikes the cue ball.
type ShootIntent struct {
	PlayerID string
	Angle    float64
	Power    float64
}

// PlaceCueIntent places the cue ball during ball-in-hand.
type PlaceCueIntent struct {
	PlayerID string
	X        float64
	Y        float64
}

// ChatIntent relays a chat line to the sender's room.
type ChatIntent struct {
	PlayerID string
	Msg      string
}

// StateRequestIntent asks for an immediate state snapshot.
type StateRequestIntent struct {
	PlayerID string
}

// LeaveIntent reports a disconnect or an explicit exit.
type LeaveIntent struct {
	PlayerID string
}

// DirectoryQuery asks for the open room listing. The reply channel
// must have capacity 1; the scheduler never blocks on it.
type DirectoryQuery struct {
	Reply chan []RoomSummary
}

// CloseRoomQuery force-closes a room (admin surface). The reply
// reports whether the room existed.
type CloseRoomQuery struct {
	Code  string
	Reply chan bool
}

func (CreateIntent) isIntent()       {}
func (JoinIntent) isIntent()         {}
func (ShootIntent) isIntent()        {}
func (PlaceCueIntent) isIntent()     {}
func (ChatIntent) isIntent()         {}
func (StateRequestIntent) isIntent() {}
func (LeaveIntent) isIntent()        {}
func (DirectoryQuery) isIntent()     {}
func (CloseRoomQuery) isIntent()     {}

// RoomSummary is one row of the room directory.
type RoomSummary struct {
	Code        string    `json:"code"`
	PlayerCount int       `json:"playerCount"`
	HostName    string    `json:"hostName"`
	Phase       Phase     `json:"phase"`
	CreatedAt   time.Time `json:"createdAt"`
}
