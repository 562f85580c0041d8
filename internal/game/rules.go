package game

import (
	"log"
	"math"
)

// Phase is the rule state a room is in. Exactly one applies at a time.
type Phase string

const (
	PhaseAwaitingShot Phase = "AWAITING_SHOT"
	PhaseShotInFlight Phase = "SHOT_IN_FLIGHT"
	PhaseBallInHand   Phase = "BALL_IN_HAND"
	PhaseGameOver     Phase = "GAME_OVER"
)

// BallGroup is a player's assigned half of the object balls.
type BallGroup string

const (
	GroupSolids  BallGroup = "SOLIDS"
	GroupStripes BallGroup = "STRIPES"
	GroupAny     BallGroup = "ANY" // not yet assigned
)

// ballGroup returns the group a ball number belongs to. The cue and
// eight ball belong to neither.
func ballGroup(n int) BallGroup {
	if n >= 1 && n <= 7 {
		return GroupSolids
	}
	if n >= 9 && n <= 15 {
		return GroupStripes
	}
	return ""
}

// groupNumbers returns the seven ball numbers of a group.
func groupNumbers(g BallGroup) []int {
	if g == GroupSolids {
		return []int{1, 2, 3, 4, 5, 6, 7}
	}
	return []int{9, 10, 11, 12, 13, 14, 15}
}

// ApplyShoot validates and executes a shot request. Invalid requests
// get an explicit rejection with a reason; nothing about the room
// changes on rejection. Power is sanitized by clamping, not rejected.
func (r *Room) ApplyShoot(playerID string, angle, power float64) []Event {
	idx := r.seatIndex(playerID)
	if idx == -1 {
		return []Event{to(playerID, newError("not in this room"))}
	}

	switch {
	case r.Phase == PhaseGameOver:
		return []Event{to(playerID, newShootRejected("game is over"))}
	case !r.Started:
		return []Event{to(playerID, newShootRejected("waiting for opponent"))}
	case r.Phase == PhaseBallInHand:
		return []Event{to(playerID, newShootRejected("ball-in-hand placement pending"))}
	case r.Phase == PhaseShotInFlight || !r.engine.AtRest():
		return []Event{to(playerID, newShootRejected("balls are still moving"))}
	case idx != r.TurnIndex:
		return []Event{to(playerID, newShootRejected("not your turn"))}
	case !r.engine.CueBall().Active:
		return []Event{to(playerID, newShootRejected("cue ball is not on the table"))}
	}

	if power < 0 {
		power = 0
	}
	if power > MaxPower {
		power = MaxPower
	}

	speed := power * PowerScale
	r.engine.CueBall().Velocity = NewVec2(math.Cos(angle)*speed, math.Sin(angle)*speed)
	r.shot = shotRecord{seat: idx, angle: angle, power: power}
	r.Phase = PhaseShotInFlight
	r.LastEvent = "shot"

	log.Printf("[ROOM %s] shot by %s angle=%.3f power=%.1f", r.Code, playerID, angle, power)
	return []Event{broadcast(r.Snapshot())}
}

// PlaceCue puts the cue ball back on the table for ball-in-hand. The
// requested position is clamped into the table interior with a cushion
// margin; overlap with another ball is allowed and separates on the
// following ticks.
func (r *Room) PlaceCue(playerID string, x, y float64) []Event {
	if r.seatIndex(playerID) == -1 {
		return []Event{to(playerID, newError("not in this room"))}
	}
	if r.Phase != PhaseBallInHand {
		return []Event{to(playerID, newPlaceRejected("not ball-in-hand"))}
	}
	if r.seatIndex(playerID) != r.TurnIndex {
		return []Event{to(playerID, newPlaceRejected("not your turn"))}
	}

	x = clamp(x, PlacementMargin, r.engine.Table.Width-PlacementMargin)
	y = clamp(y, PlacementMargin, r.engine.Table.Height-PlacementMargin)

	cue := r.engine.CueBall()
	cue.Position = NewVec2(x, y)
	cue.Velocity = Vec2{}
	cue.Active = true
	r.Phase = PhaseAwaitingShot
	r.LastEvent = "cue_placed"

	log.Printf("[ROOM %s] cue ball placed at (%.0f, %.0f) by %s", r.Code, x, y, playerID)
	return []Event{broadcast(r.Snapshot())}
}

// resolveShot runs once, on the tick the table comes to rest, and
// applies the outcome of the shot in fixed order: group assignment,
// then the eight ball, then scratch, then turn retention.
func (r *Room) resolveShot() []Event {
	shooter := r.Seats[r.shot.seat]
	other := r.Seats[1-r.shot.seat]
	caps := r.shot.captures

	scratch := false
	eight := false
	for _, n := range caps {
		if n == 0 {
			scratch = true
		}
		if n == 8 {
			eight = true
		}
	}

	var evs []Event

	// Group assignment: the first object ball captured while groups are
	// open fixes the shooter's group for the rest of the game.
	if shooter.Group == GroupAny {
		for _, n := range caps {
			if n == 0 || n == 8 {
				continue
			}
			shooter.Group = ballGroup(n)
			if shooter.Group == GroupSolids {
				other.Group = GroupStripes
			} else {
				other.Group = GroupSolids
			}
			r.LastEvent = "groups_assigned"
			evs = append(evs,
				broadcast(newAssigned(shooter.PlayerID, shooter.Group)),
				broadcast(newAssigned(other.PlayerID, other.Group)),
			)
			log.Printf("[ROOM %s] groups assigned: %s=%s %s=%s",
				r.Code, shooter.PlayerID, shooter.Group, other.PlayerID, other.Group)
			break
		}
	}

	// Eight ball: game over either way. Winning requires an assigned
	// group, all seven of it already captured, and no scratch on this
	// shot; anything else hands the game to the opponent.
	if eight {
		r.Phase = PhaseGameOver
		if shooter.Group != GroupAny && r.groupCleared(shooter.Group) && !scratch {
			r.Winner = shooter.PlayerID
			r.WinReason = "pocket_8"
		} else {
			r.Winner = other.PlayerID
			r.WinReason = "illegal_8ball"
		}
		r.LastEvent = "game_over"
		r.recordShotLog(shooter, caps, scratch)
		evs = append(evs, broadcast(newGameOver(r.Winner, r.WinReason)), broadcast(r.Snapshot()))
		log.Printf("[ROOM %s] game over: %s wins (%s)", r.Code, r.Winner, r.WinReason)
		return evs
	}

	// Scratch: foul, incoming player gets ball-in-hand, turn always
	// passes. The cue ball stays off the table until placed.
	if scratch {
		evs = append(evs, broadcast(newFoul("cue ball pocketed", shooter.PlayerID)))
		r.switchTurn()
		r.Phase = PhaseBallInHand
		r.LastEvent = "scratch"
		r.recordShotLog(shooter, caps, scratch)
		evs = append(evs, broadcast(r.Snapshot()))
		log.Printf("[ROOM %s] scratch by %s, ball-in-hand for %s",
			r.Code, shooter.PlayerID, r.Seats[r.TurnIndex].PlayerID)
		return evs
	}

	// Turn retention: keep the table only after sinking at least one
	// own-group ball and none of the opponent's. Before assignment any
	// object ball counts as the shooter's.
	own, opp := 0, 0
	for _, n := range caps {
		if n == 0 || n == 8 {
			continue
		}
		if shooter.Group == GroupAny || ballGroup(n) == shooter.Group {
			own++
		} else {
			opp++
		}
	}
	if own >= 1 && opp == 0 {
		r.LastEvent = "turn_retained"
	} else {
		r.switchTurn()
		r.LastEvent = "turn_passed"
	}
	r.Phase = PhaseAwaitingShot
	r.recordShotLog(shooter, caps, scratch)
	evs = append(evs, broadcast(r.Snapshot()))
	return evs
}

// groupCleared reports whether all seven balls of a group are in the
// capture history.
func (r *Room) groupCleared(g BallGroup) bool {
	for _, n := range groupNumbers(g) {
		found := false
		for _, p := range r.Pocketed {
			if p == n {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (r *Room) switchTurn() {
	if len(r.Seats) > 1 {
		r.TurnIndex = 1 - r.TurnIndex
	}
}

func (r *Room) recordShotLog(shooter *Seat, caps []int, scratch bool) {
	captures := make([]int, len(caps))
	copy(captures, caps)
	r.lastShotLog = &ShotLog{
		PlayerID: shooter.PlayerID,
		Angle:    r.shot.angle,
		Power:    r.shot.power,
		Captures: captures,
		Scratch:  scratch,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
