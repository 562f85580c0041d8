package game

import (
	"context"
	"log"
	"sort"
	"strings"
	"time"
)

// Sender delivers outbound payloads to connected players. The ws hub
// implements it; tests substitute a recorder.
type Sender interface {
	SendToPlayer(playerID string, payload interface{})
}

// SchedulerConfig tunes the simulation loop.
type SchedulerConfig struct {
	TickRate      int           // physics ticks per second
	BroadcastRate int           // snapshots per second
	IdleGrace     time.Duration // how long an empty room survives
}

func (c SchedulerConfig) withDefaults() SchedulerConfig {
	if c.TickRate <= 0 {
		c.TickRate = DefaultTickRate
	}
	if c.BroadcastRate <= 0 {
		c.BroadcastRate = DefaultBroadcastRate
	}
	if c.BroadcastRate > c.TickRate {
		c.BroadcastRate = c.TickRate
	}
	if c.IdleGrace <= 0 {
		c.IdleGrace = 60 * time.Second
	}
	return c
}

// Scheduler owns every room and is the only writer to any of them.
// One goroutine runs Run; everything else talks to it through Submit.
// Ticks for all rooms run sequentially between intent handling, so no
// two mutations of the same room ever interleave.
type Scheduler struct {
	sender    Sender
	recorder  *Recorder
	announcer *Announcer

	cfg            SchedulerConfig
	tickInterval   time.Duration
	dt             float64
	broadcastEvery uint64

	rooms      map[string]*Room
	playerRoom map[string]*Room
	intents    chan Intent

	tickCount uint64
	acc       time.Duration
}

// NewScheduler wires the loop. recorder and announcer may be nil when
// the database or Redis is not configured.
func NewScheduler(sender Sender, cfg SchedulerConfig, recorder *Recorder, announcer *Announcer) *Scheduler {
	cfg = cfg.withDefaults()
	return &Scheduler{
		sender:         sender,
		recorder:       recorder,
		announcer:      announcer,
		cfg:            cfg,
		tickInterval:   time.Second / time.Duration(cfg.TickRate),
		dt:             1.0 / float64(cfg.TickRate),
		broadcastEvery: uint64(cfg.TickRate / cfg.BroadcastRate),
		rooms:          make(map[string]*Room),
		playerRoom:     make(map[string]*Room),
		intents:        make(chan Intent, 256),
	}
}

// Submit queues an intent for the scheduler goroutine. Intents from
// one connection are applied in submission order.
func (s *Scheduler) Submit(in Intent) {
	s.intents <- in
}

// Run drives the loop until the context is cancelled. The ticker and
// the intent queue are the only two suspension points; everything a
// case does runs to completion before the next select.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()
	last := time.Now()

	log.Printf("[SCHED] running: %d Hz physics, %d Hz snapshots, idle grace %s",
		s.cfg.TickRate, s.cfg.BroadcastRate, s.cfg.IdleGrace)

	for {
		select {
		case <-ctx.Done():
			log.Printf("[SCHED] stopping, %d rooms active", len(s.rooms))
			return
		case in := <-s.intents:
			s.dispatch(in)
		case now := <-ticker.C:
			s.advance(now.Sub(last), now)
			last = now
		}
	}
}

// advance converts elapsed wall time into whole ticks. The accumulator
// is clamped so a stalled process never replays an arbitrarily long
// backlog in one pass.
func (s *Scheduler) advance(elapsed time.Duration, now time.Time) {
	s.acc += elapsed
	if max := time.Duration(MaxCatchUpTicks) * s.tickInterval; s.acc > max {
		s.acc = max
	}
	for s.acc >= s.tickInterval {
		s.acc -= s.tickInterval
		s.tick(now)
	}
}

// tick advances every room one physics step and handles the slower
// cadences hanging off the tick counter: state snapshots and the
// once-a-second idle sweep.
func (s *Scheduler) tick(now time.Time) {
	s.tickCount++
	snapshotTick := s.tickCount%s.broadcastEvery == 0
	sweepTick := s.tickCount%uint64(s.cfg.TickRate) == 0

	for _, r := range s.rooms {
		s.deliver(r, r.Tick(s.dt))

		if sl := r.TakeShotLog(); sl != nil {
			s.recorder.ShotResolved(r.Code, sl)
			if r.Phase == PhaseGameOver {
				s.recorder.MatchEnded(r.Code, r.WinnerName(), r.WinReason)
				s.announcer.GameOver(r.Code, r.WinnerName(), r.WinReason)
			}
		}

		if snapshotTick && len(r.Seats) > 0 {
			s.deliver(r, []Event{broadcast(r.Snapshot())})
		}
	}

	if sweepTick {
		s.sweepIdle(now)
		s.announcer.Directory(s.directory())
	}
}

// sweepIdle purges rooms that have been empty past the grace period.
// EmptySince is normally stamped when the last seat leaves; stamping
// it here as well covers rooms emptied by any future path.
func (s *Scheduler) sweepIdle(now time.Time) {
	for code, r := range s.rooms {
		if len(r.Seats) > 0 {
			continue
		}
		if r.EmptySince.IsZero() {
			r.EmptySince = now
			continue
		}
		if now.Sub(r.EmptySince) >= s.cfg.IdleGrace {
			log.Printf("[SCHED] purging idle room %s", code)
			s.closeRoom(r, "idle")
		}
	}
}

func (s *Scheduler) dispatch(in Intent) {
	switch in := in.(type) {
	case CreateIntent:
		s.handleCreate(in)
	case JoinIntent:
		s.handleJoin(in)
	case ShootIntent:
		if r := s.playerRoom[in.PlayerID]; r != nil {
			s.deliver(r, r.ApplyShoot(in.PlayerID, in.Angle, in.Power))
		} else {
			s.sender.SendToPlayer(in.PlayerID, newError("not in a room"))
		}
	case PlaceCueIntent:
		if r := s.playerRoom[in.PlayerID]; r != nil {
			s.deliver(r, r.PlaceCue(in.PlayerID, in.X, in.Y))
		} else {
			s.sender.SendToPlayer(in.PlayerID, newError("not in a room"))
		}
	case ChatIntent:
		s.handleChat(in)
	case StateRequestIntent:
		if r := s.playerRoom[in.PlayerID]; r != nil {
			s.sender.SendToPlayer(in.PlayerID, r.Snapshot())
		} else {
			s.sender.SendToPlayer(in.PlayerID, newError("not in a room"))
		}
	case LeaveIntent:
		s.handleLeave(in)
	case DirectoryQuery:
		in.Reply <- s.directory()
	case CloseRoomQuery:
		s.handleClose(in)
	default:
		log.Printf("[SCHED] unknown intent %T", in)
	}
}

func (s *Scheduler) handleCreate(in CreateIntent) {
	if s.playerRoom[in.PlayerID] != nil {
		s.sender.SendToPlayer(in.PlayerID, newError("already in a room"))
		return
	}
	code := NewRoomCode()
	for s.rooms[code] != nil {
		code = NewRoomCode()
	}
	r := NewRoom(code, in.PlayerID, in.Name)
	s.rooms[code] = r
	s.playerRoom[in.PlayerID] = r

	s.sender.SendToPlayer(in.PlayerID, newJoined(code, in.PlayerID))
	s.sender.SendToPlayer(in.PlayerID, r.Snapshot())
	s.announcer.RoomCreated(code, r.HostName())
	s.announcer.Directory(s.directory())
}

func (s *Scheduler) handleJoin(in JoinIntent) {
	if s.playerRoom[in.PlayerID] != nil {
		s.sender.SendToPlayer(in.PlayerID, newError("already in a room"))
		return
	}
	r := s.rooms[strings.ToUpper(strings.TrimSpace(in.Code))]
	if r == nil {
		s.sender.SendToPlayer(in.PlayerID, newError("room not found"))
		return
	}
	evs, ok := r.Join(in.PlayerID, in.Name)
	if ok {
		s.playerRoom[in.PlayerID] = r
		r.EmptySince = time.Time{}
		s.recorder.MatchStarted(r.Code, r.Seats[0].Name, r.Seats[1].Name)
		s.announcer.Directory(s.directory())
	}
	s.deliver(r, evs)
}

func (s *Scheduler) handleChat(in ChatIntent) {
	r := s.playerRoom[in.PlayerID]
	if r == nil {
		s.sender.SendToPlayer(in.PlayerID, newError("not in a room"))
		return
	}
	seat := r.seatByPlayer(in.PlayerID)
	if seat == nil {
		return
	}
	s.deliver(r, []Event{broadcast(newChat(seat.Name, in.Msg))})
}

func (s *Scheduler) handleLeave(in LeaveIntent) {
	r := s.playerRoom[in.PlayerID]
	if r == nil {
		return
	}
	delete(s.playerRoom, in.PlayerID)

	phaseBefore := r.Phase
	evs, closed := r.RemovePlayer(in.PlayerID)
	s.deliver(r, evs)

	if phaseBefore != PhaseGameOver && r.Phase == PhaseGameOver {
		s.recorder.MatchEnded(r.Code, r.WinnerName(), r.WinReason)
		s.announcer.GameOver(r.Code, r.WinnerName(), r.WinReason)
	}

	if closed {
		s.closeRoom(r, "creator_left")
	} else if len(r.Seats) == 0 {
		r.EmptySince = time.Now()
	}
	s.announcer.Directory(s.directory())
}

func (s *Scheduler) handleClose(in CloseRoomQuery) {
	r := s.rooms[strings.ToUpper(strings.TrimSpace(in.Code))]
	if r == nil {
		in.Reply <- false
		return
	}
	for _, seat := range r.Seats {
		s.sender.SendToPlayer(seat.PlayerID, newError("room closed"))
	}
	if r.Started && r.Phase != PhaseGameOver {
		s.recorder.MatchEnded(r.Code, "", "closed")
	}
	s.closeRoom(r, "closed")
	s.announcer.Directory(s.directory())
	in.Reply <- true
}

// closeRoom drops a room and its seat registrations from the
// registry. Callers notify occupants first when that is warranted.
func (s *Scheduler) closeRoom(r *Room, reason string) {
	for _, seat := range r.Seats {
		delete(s.playerRoom, seat.PlayerID)
	}
	delete(s.rooms, r.Code)
	s.announcer.RoomClosed(r.Code, reason)
	log.Printf("[SCHED] room %s closed (%s)", r.Code, reason)
}

// deliver fans events out through the sender. An event without a
// target goes to every currently seated player.
func (s *Scheduler) deliver(r *Room, evs []Event) {
	for _, ev := range evs {
		if ev.To != "" {
			s.sender.SendToPlayer(ev.To, ev.Payload)
			continue
		}
		for _, seat := range r.Seats {
			s.sender.SendToPlayer(seat.PlayerID, ev.Payload)
		}
	}
}

// directory lists active rooms, oldest first, for the server browser.
func (s *Scheduler) directory() []RoomSummary {
	out := make([]RoomSummary, 0, len(s.rooms))
	for _, r := range s.rooms {
		out = append(out, RoomSummary{
			Code:        r.Code,
			PlayerCount: len(r.Seats),
			HostName:    r.HostName(),
			Phase:       r.Phase,
			CreatedAt:   r.CreatedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Code < out[j].Code
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
