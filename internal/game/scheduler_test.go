package game

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

type sentMsg struct {
	playerID string
	payload  interface{}
}

// fakeSender records what the scheduler would have pushed to sockets.
type fakeSender struct {
	mu   sync.Mutex
	msgs []sentMsg
}

func (f *fakeSender) SendToPlayer(playerID string, payload interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, sentMsg{playerID: playerID, payload: payload})
}

func (f *fakeSender) take() []sentMsg {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.msgs
	f.msgs = nil
	return out
}

func newTestScheduler() (*Scheduler, *fakeSender) {
	fs := &fakeSender{}
	s := NewScheduler(fs, SchedulerConfig{TickRate: 60, BroadcastRate: 20, IdleGrace: time.Minute}, nil, nil)
	return s, fs
}

// createRoom drives a create intent through dispatch and returns the
// room code the player was told about.
func createRoom(t *testing.T, s *Scheduler, fs *fakeSender, playerID, name string) string {
	t.Helper()
	s.dispatch(CreateIntent{PlayerID: playerID, Name: name})
	for _, m := range fs.take() {
		if j, ok := m.payload.(JoinedPayload); ok && m.playerID == playerID {
			return j.Code
		}
	}
	t.Fatalf("no join confirmation for %s", playerID)
	return ""
}

func TestCreateOpensRoom(t *testing.T) {
	s, fs := newTestScheduler()

	s.dispatch(CreateIntent{PlayerID: "p1", Name: "Alice"})

	msgs := fs.take()
	if len(msgs) != 2 {
		t.Fatalf("expected joined + state, got %d messages", len(msgs))
	}
	j, ok := msgs[0].payload.(JoinedPayload)
	if !ok {
		t.Fatalf("first message is %T, want JoinedPayload", msgs[0].payload)
	}
	if j.PlayerID != "p1" || len(j.Code) != RoomCodeLength {
		t.Errorf("joined payload = %+v", j)
	}
	if _, ok := msgs[1].payload.(StatePayload); !ok {
		t.Errorf("second message is %T, want StatePayload", msgs[1].payload)
	}
	if s.rooms[j.Code] == nil || s.playerRoom["p1"] == nil {
		t.Error("room not registered")
	}
}

func TestCreateWhileSeatedRejected(t *testing.T) {
	s, fs := newTestScheduler()
	createRoom(t, s, fs, "p1", "Alice")

	s.dispatch(CreateIntent{PlayerID: "p1", Name: "Alice"})

	msgs := fs.take()
	if len(msgs) != 1 {
		t.Fatalf("expected a single rejection, got %d messages", len(msgs))
	}
	ep, ok := msgs[0].payload.(ErrorPayload)
	if !ok || ep.Msg != "already in a room" {
		t.Errorf("got %+v", msgs[0].payload)
	}
	if len(s.rooms) != 1 {
		t.Errorf("room count = %d", len(s.rooms))
	}
}

func TestJoinUnknownRoom(t *testing.T) {
	s, fs := newTestScheduler()

	s.dispatch(JoinIntent{PlayerID: "p2", Name: "Bob", Code: "NOSUCH"})

	msgs := fs.take()
	ep, ok := msgs[0].payload.(ErrorPayload)
	if !ok || ep.Msg != "room not found" {
		t.Errorf("got %+v", msgs[0].payload)
	}
}

func TestJoinNormalizesCode(t *testing.T) {
	s, fs := newTestScheduler()
	code := createRoom(t, s, fs, "p1", "Alice")

	s.dispatch(JoinIntent{PlayerID: "p2", Name: "Bob", Code: "  " + strings.ToLower(code) + "  "})

	if s.playerRoom["p2"] == nil {
		t.Fatal("sloppy but valid code was not accepted")
	}
	if !s.rooms[code].Started {
		t.Error("game did not start on join")
	}
}

func TestJoinWhileSeatedRejected(t *testing.T) {
	s, fs := newTestScheduler()
	code := createRoom(t, s, fs, "p1", "Alice")
	createRoom(t, s, fs, "p2", "Bob")

	s.dispatch(JoinIntent{PlayerID: "p2", Name: "Bob", Code: code})

	msgs := fs.take()
	ep, ok := msgs[0].payload.(ErrorPayload)
	if !ok || ep.Msg != "already in a room" {
		t.Errorf("got %+v", msgs[0].payload)
	}
}

func TestShootRoutesToSeatedRoom(t *testing.T) {
	s, fs := newTestScheduler()
	code := createRoom(t, s, fs, "p1", "Alice")
	s.dispatch(JoinIntent{PlayerID: "p2", Name: "Bob", Code: code})
	fs.take()

	s.dispatch(ShootIntent{PlayerID: "p1", Angle: 0, Power: 50})

	if s.rooms[code].Phase != PhaseShotInFlight {
		t.Errorf("phase = %s after shoot", s.rooms[code].Phase)
	}
	states := 0
	for _, m := range fs.take() {
		if _, ok := m.payload.(StatePayload); ok {
			states++
		}
	}
	if states != 2 {
		t.Errorf("shot snapshot reached %d seats, want 2", states)
	}
}

func TestShootWithoutRoom(t *testing.T) {
	s, fs := newTestScheduler()

	s.dispatch(ShootIntent{PlayerID: "ghost", Angle: 0, Power: 50})

	msgs := fs.take()
	ep, ok := msgs[0].payload.(ErrorPayload)
	if !ok || ep.Msg != "not in a room" {
		t.Errorf("got %+v", msgs[0].payload)
	}
}

func TestStateRequestReturnsSnapshot(t *testing.T) {
	s, fs := newTestScheduler()
	createRoom(t, s, fs, "p1", "Alice")

	s.dispatch(StateRequestIntent{PlayerID: "p1"})

	msgs := fs.take()
	if len(msgs) != 1 {
		t.Fatalf("got %d messages", len(msgs))
	}
	snap, ok := msgs[0].payload.(StatePayload)
	if !ok {
		t.Fatalf("got %T", msgs[0].payload)
	}
	if len(snap.Balls) != NumBalls {
		t.Errorf("snapshot has %d balls", len(snap.Balls))
	}
}

func TestChatReachesBothSeats(t *testing.T) {
	s, fs := newTestScheduler()
	code := createRoom(t, s, fs, "p1", "Alice")
	s.dispatch(JoinIntent{PlayerID: "p2", Name: "Bob", Code: code})
	fs.take()

	s.dispatch(ChatIntent{PlayerID: "p1", Msg: "good luck"})

	got := 0
	for _, m := range fs.take() {
		if ch, ok := m.payload.(ChatPayload); ok {
			if ch.From != "Alice" || ch.Msg != "good luck" {
				t.Errorf("chat payload = %+v", ch)
			}
			got++
		}
	}
	if got != 2 {
		t.Errorf("chat reached %d seats, want 2", got)
	}
}

func TestLeaveGuestForfeits(t *testing.T) {
	s, fs := newTestScheduler()
	code := createRoom(t, s, fs, "p1", "Alice")
	s.dispatch(JoinIntent{PlayerID: "p2", Name: "Bob", Code: code})
	fs.take()

	s.dispatch(LeaveIntent{PlayerID: "p2"})

	r := s.rooms[code]
	if r == nil {
		t.Fatal("guest leaving must not delete the room")
	}
	if r.Phase != PhaseGameOver || r.Winner != "p1" {
		t.Errorf("phase=%s winner=%s", r.Phase, r.Winner)
	}
	if s.playerRoom["p2"] != nil {
		t.Error("leaver still registered")
	}
}

func TestLeaveCreatorClosesRoom(t *testing.T) {
	s, fs := newTestScheduler()
	code := createRoom(t, s, fs, "p1", "Alice")
	s.dispatch(JoinIntent{PlayerID: "p2", Name: "Bob", Code: code})
	fs.take()

	s.dispatch(LeaveIntent{PlayerID: "p1"})

	if s.rooms[code] != nil {
		t.Error("room survived its creator")
	}
	if s.playerRoom["p1"] != nil || s.playerRoom["p2"] != nil {
		t.Error("stale seat registrations")
	}
	notified := false
	for _, m := range fs.take() {
		if ep, ok := m.payload.(ErrorPayload); ok && m.playerID == "p2" && ep.Msg == "room closed" {
			notified = true
		}
	}
	if !notified {
		t.Error("remaining player was not told the room closed")
	}
}

func TestIdleRoomPurged(t *testing.T) {
	s, _ := newTestScheduler()
	r := NewRoom("IDLE99", "gone", "Ghost")
	r.Seats = nil
	s.rooms[r.Code] = r

	t0 := time.Now()
	s.sweepIdle(t0)
	if s.rooms[r.Code] == nil {
		t.Fatal("room purged before the grace period started")
	}
	if r.EmptySince.IsZero() {
		t.Fatal("first sweep should stamp EmptySince")
	}

	s.sweepIdle(t0.Add(s.cfg.IdleGrace - time.Second))
	if s.rooms[r.Code] == nil {
		t.Fatal("room purged inside the grace period")
	}

	s.sweepIdle(t0.Add(s.cfg.IdleGrace))
	if s.rooms[r.Code] != nil {
		t.Error("room survived past the grace period")
	}
}

func TestOccupiedRoomNeverSwept(t *testing.T) {
	s, fs := newTestScheduler()
	code := createRoom(t, s, fs, "p1", "Alice")

	s.sweepIdle(time.Now().Add(24 * time.Hour))

	if s.rooms[code] == nil {
		t.Error("occupied room was swept")
	}
}

func TestSnapshotCadence(t *testing.T) {
	s, fs := newTestScheduler()
	code := createRoom(t, s, fs, "p1", "Alice")
	s.dispatch(JoinIntent{PlayerID: "p2", Name: "Bob", Code: code})
	fs.take()

	for i := uint64(0); i < s.broadcastEvery; i++ {
		s.tick(time.Now())
	}

	perSeat := map[string]int{}
	for _, m := range fs.take() {
		if _, ok := m.payload.(StatePayload); ok {
			perSeat[m.playerID]++
		}
	}
	if perSeat["p1"] != 1 || perSeat["p2"] != 1 {
		t.Errorf("snapshots per seat = %v, want exactly 1 each", perSeat)
	}
}

func TestDirectoryQuery(t *testing.T) {
	s, fs := newTestScheduler()
	codeA := createRoom(t, s, fs, "p1", "Alice")
	codeB := createRoom(t, s, fs, "p2", "Bob")

	reply := make(chan []RoomSummary, 1)
	s.dispatch(DirectoryQuery{Reply: reply})

	rooms := <-reply
	if len(rooms) != 2 {
		t.Fatalf("directory lists %d rooms", len(rooms))
	}
	seen := map[string]RoomSummary{}
	for _, r := range rooms {
		seen[r.Code] = r
	}
	if seen[codeA].PlayerCount != 1 || seen[codeB].PlayerCount != 1 {
		t.Errorf("player counts wrong: %+v", rooms)
	}
	if seen[codeA].HostName != "Alice" {
		t.Errorf("host name = %q", seen[codeA].HostName)
	}
}

func TestCloseRoomQuery(t *testing.T) {
	s, fs := newTestScheduler()
	code := createRoom(t, s, fs, "p1", "Alice")
	s.dispatch(JoinIntent{PlayerID: "p2", Name: "Bob", Code: code})
	fs.take()

	reply := make(chan bool, 1)
	s.dispatch(CloseRoomQuery{Code: " " + strings.ToLower(code), Reply: reply})

	if !<-reply {
		t.Fatal("close reported failure for an existing room")
	}
	if s.rooms[code] != nil {
		t.Error("room still registered after close")
	}
	closed := 0
	for _, m := range fs.take() {
		if ep, ok := m.payload.(ErrorPayload); ok && ep.Msg == "room closed" {
			closed++
		}
	}
	if closed != 2 {
		t.Errorf("%d occupants notified, want 2", closed)
	}

	reply2 := make(chan bool, 1)
	s.dispatch(CloseRoomQuery{Code: code, Reply: reply2})
	if <-reply2 {
		t.Error("close reported success for a missing room")
	}
}

// TestRunProcessesIntents exercises the actual goroutine loop end to
// end; everything else in this file drives dispatch synchronously.
func TestRunProcessesIntents(t *testing.T) {
	s, _ := newTestScheduler()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	s.Submit(CreateIntent{PlayerID: "p1", Name: "Alice"})

	reply := make(chan []RoomSummary, 1)
	s.Submit(DirectoryQuery{Reply: reply})
	select {
	case rooms := <-reply:
		if len(rooms) != 1 {
			t.Errorf("directory lists %d rooms", len(rooms))
		}
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler loop did not answer")
	}
}
