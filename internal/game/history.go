package game

import (
	"encoding/json"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
)

// Recorder persists match history best-effort: failures are logged and
// the game plays on. All SQL runs on the recorder's own goroutine so
// the scheduler loop never waits on the database. A nil *Recorder is
// valid and records nothing, which is how the server runs without a
// database configured.
type Recorder struct {
	db  *sqlx.DB
	ops chan recordOp
}

type recordOp interface{ isRecordOp() }

type matchStartedOp struct {
	code   string
	p1, p2 string
	at     time.Time
}

type shotResolvedOp struct {
	code     string
	playerID string
	angle    float64
	power    float64
	captures []int
	scratch  bool
	at       time.Time
}

type matchEndedOp struct {
	code   string
	winner string
	reason string
	at     time.Time
}

func (matchStartedOp) isRecordOp() {}
func (shotResolvedOp) isRecordOp() {}
func (matchEndedOp) isRecordOp()   {}

// NewRecorder returns nil when db is nil.
func NewRecorder(db *sqlx.DB) *Recorder {
	if db == nil {
		return nil
	}
	return &Recorder{
		db:  db,
		ops: make(chan recordOp, 512),
	}
}

// Start consumes the op queue until it is closed via Stop.
func (r *Recorder) Start() {
	if r == nil {
		return
	}
	go r.loop()
}

// Stop closes the queue; queued ops are still written.
func (r *Recorder) Stop() {
	if r == nil {
		return
	}
	close(r.ops)
}

// MatchStarted opens a pool_matches row for a room whose game began.
func (r *Recorder) MatchStarted(code, player1, player2 string) {
	r.enqueue(matchStartedOp{code: code, p1: player1, p2: player2, at: time.Now()})
}

// ShotResolved appends a pool_shots row for a settled shot.
func (r *Recorder) ShotResolved(code string, sl *ShotLog) {
	r.enqueue(shotResolvedOp{
		code:     code,
		playerID: sl.PlayerID,
		angle:    sl.Angle,
		power:    sl.Power,
		captures: sl.Captures,
		scratch:  sl.Scratch,
		at:       time.Now(),
	})
}

// MatchEnded closes the room's pool_matches row.
func (r *Recorder) MatchEnded(code, winner, reason string) {
	r.enqueue(matchEndedOp{code: code, winner: winner, reason: reason, at: time.Now()})
}

func (r *Recorder) enqueue(op recordOp) {
	if r == nil {
		return
	}
	select {
	case r.ops <- op:
	default:
		log.Printf("[DB] recorder queue full, dropping %T", op)
	}
}

// loop owns the room-code to match-id mapping, so no other goroutine
// ever touches it.
func (r *Recorder) loop() {
	matchIDs := make(map[string]int64)
	for op := range r.ops {
		switch op := op.(type) {
		case matchStartedOp:
			var id int64
			err := r.db.Get(&id,
				`INSERT INTO pool_matches (room_code, player1_name, player2_name, started_at)
				 VALUES ($1, $2, $3, $4) RETURNING id`,
				op.code, op.p1, op.p2, op.at)
			if err != nil {
				log.Printf("[DB] failed to open match for room %s: %v", op.code, err)
				continue
			}
			matchIDs[op.code] = id

		case shotResolvedOp:
			id, ok := matchIDs[op.code]
			if !ok {
				continue
			}
			captures, err := json.Marshal(op.captures)
			if err != nil {
				log.Printf("[DB] failed to marshal captures for room %s: %v", op.code, err)
				continue
			}
			_, err = r.db.Exec(
				`INSERT INTO pool_shots (match_id, player_id, angle, power, captures, scratch, created_at)
				 VALUES ($1, $2, $3, $4, $5::jsonb, $6, $7)`,
				id, op.playerID, op.angle, op.power, string(captures), op.scratch, op.at)
			if err != nil {
				log.Printf("[DB] failed to record shot for room %s: %v", op.code, err)
			}

		case matchEndedOp:
			id, ok := matchIDs[op.code]
			if !ok {
				continue
			}
			delete(matchIDs, op.code)
			_, err := r.db.Exec(
				`UPDATE pool_matches SET winner_name = $1, win_reason = $2, completed_at = $3 WHERE id = $4`,
				op.winner, op.reason, op.at, id)
			if err != nil {
				log.Printf("[DB] failed to close match for room %s: %v", op.code, err)
			}
		}
	}
}
