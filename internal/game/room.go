package game

import (
	"log"
	"time"
)

// Seat is one of the up to two players in a room, in join order.
// Seat 0 is always the creator and breaks first.
type Seat struct {
	PlayerID string
	Name     string
	Group    BallGroup
}

// ShotLog summarizes a resolved shot for the match recorder.
type ShotLog struct {
	PlayerID string
	Angle    float64
	Power    float64
	Captures []int
	Scratch  bool
}

// Room is one table: two seats, the ball set, the rule state and the
// capture history. Rooms are only ever touched from the scheduler
// goroutine, so there is no lock here.
type Room struct {
	Code      string
	CreatorID string
	Seats     []*Seat
	Phase     Phase
	TurnIndex int
	Pocketed  []int
	Winner    string
	WinReason string
	LastEvent string
	Started   bool
	CreatedAt time.Time

	// EmptySince is set by the scheduler when the last seat leaves and
	// cleared on join; zero means occupied.
	EmptySince time.Time

	engine      *Engine
	shot        shotRecord
	lastShotLog *ShotLog
}

// shotRecord is the in-flight shot bookkeeping cleared on acceptance.
type shotRecord struct {
	seat     int
	angle    float64
	power    float64
	captures []int
}

// NewRoom racks a fresh table with the creator in seat 0. The game
// does not start until a second player joins.
func NewRoom(code, playerID, name string) *Room {
	r := &Room{
		Code:      code,
		CreatorID: playerID,
		Seats:     []*Seat{{PlayerID: playerID, Name: name, Group: GroupAny}},
		Phase:     PhaseAwaitingShot,
		Pocketed:  []int{},
		CreatedAt: time.Now(),
		engine:    NewEngine(NewStandardTable()),
	}
	log.Printf("[ROOM %s] created by %s (%s)", code, name, playerID)
	return r
}

// Join seats a second player and starts the game. The creator breaks.
// ok reports whether a seat was actually taken.
func (r *Room) Join(playerID, name string) (evs []Event, ok bool) {
	if len(r.Seats) >= 2 {
		return []Event{to(playerID, newError("room is full"))}, false
	}
	if r.Phase == PhaseGameOver {
		return []Event{to(playerID, newError("game already finished"))}, false
	}
	r.Seats = append(r.Seats, &Seat{PlayerID: playerID, Name: name, Group: GroupAny})
	r.Started = true
	r.LastEvent = "player_joined"
	log.Printf("[ROOM %s] %s (%s) joined, game on", r.Code, name, playerID)
	return []Event{
		to(playerID, newJoined(r.Code, playerID)),
		broadcast(r.Snapshot()),
	}, true
}

// RemovePlayer vacates a seat. A mid-game departure forfeits the game
// to the remaining player. The returned closed flag is true when the
// creator left, which tears the whole room down.
func (r *Room) RemovePlayer(playerID string) (evs []Event, closed bool) {
	idx := r.seatIndex(playerID)
	if idx == -1 {
		return nil, false
	}

	if r.Started && r.Phase != PhaseGameOver {
		other := r.Seats[1-idx]
		r.Phase = PhaseGameOver
		r.Winner = other.PlayerID
		r.WinReason = "forfeit"
		r.LastEvent = "game_over"
		evs = append(evs, broadcast(newGameOver(r.Winner, r.WinReason)))
		log.Printf("[ROOM %s] %s left mid-game, %s wins by forfeit", r.Code, playerID, other.PlayerID)
	}

	r.Seats = append(r.Seats[:idx], r.Seats[idx+1:]...)
	if r.TurnIndex >= len(r.Seats) {
		r.TurnIndex = 0
	}
	r.LastEvent = "player_left"

	if playerID == r.CreatorID {
		for _, s := range r.Seats {
			evs = append(evs, to(s.PlayerID, newError("room closed")))
		}
		return evs, true
	}

	if len(r.Seats) > 0 {
		evs = append(evs, broadcast(r.Snapshot()))
	}
	return evs, false
}

// Tick advances the room by one physics tick. Pocket capture and shot
// resolution only run while a shot is in flight; the physics itself
// runs every tick so placement overlaps separate promptly.
func (r *Room) Tick(dt float64) []Event {
	r.engine.Step(dt)
	if r.Phase != PhaseShotInFlight {
		return nil
	}

	for _, n := range r.engine.DetectPockets() {
		r.shot.captures = append(r.shot.captures, n)
		if n != 0 {
			// The cue ball comes back on placement, so only object
			// balls enter the permanent capture history.
			r.Pocketed = append(r.Pocketed, n)
		}
	}

	if r.engine.AtRest() {
		return r.resolveShot()
	}
	return nil
}

// Snapshot builds the state message clients render from.
func (r *Room) Snapshot() StatePayload {
	balls := make([]BallSnapshot, 0, NumBalls)
	for _, b := range r.engine.Balls {
		if !b.Active {
			continue
		}
		balls = append(balls, BallSnapshot{Number: b.Number, X: b.Position.X, Y: b.Position.Y})
	}

	players := make([]PlayerInfo, 0, len(r.Seats))
	for _, s := range r.Seats {
		players = append(players, PlayerInfo{ID: s.PlayerID, Name: s.Name, Group: s.Group})
	}

	pocketed := make([]int, len(r.Pocketed))
	copy(pocketed, r.Pocketed)

	turn := ""
	if r.Phase != PhaseGameOver && r.TurnIndex < len(r.Seats) {
		turn = r.Seats[r.TurnIndex].PlayerID
	}

	return StatePayload{
		Type:       "state",
		Balls:      balls,
		Pocketed:   pocketed,
		Players:    players,
		Turn:       turn,
		BallInHand: r.Phase == PhaseBallInHand,
		LastEvent:  r.LastEvent,
	}
}

// TakeShotLog hands the last resolved shot to the caller exactly once.
func (r *Room) TakeShotLog() *ShotLog {
	l := r.lastShotLog
	r.lastShotLog = nil
	return l
}

// HostName returns the creator's display name for the room directory.
func (r *Room) HostName() string {
	for _, s := range r.Seats {
		if s.PlayerID == r.CreatorID {
			return s.Name
		}
	}
	return ""
}

// WinnerName resolves the winner's display name for match history;
// empty while the game is still running.
func (r *Room) WinnerName() string {
	for _, s := range r.Seats {
		if s.PlayerID == r.Winner {
			return s.Name
		}
	}
	return ""
}

func (r *Room) seatIndex(playerID string) int {
	for i, s := range r.Seats {
		if s.PlayerID == playerID {
			return i
		}
	}
	return -1
}

func (r *Room) seatByPlayer(playerID string) *Seat {
	if i := r.seatIndex(playerID); i >= 0 {
		return r.Seats[i]
	}
	return nil
}
