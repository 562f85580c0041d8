package game

// Ball is a single pool ball's physics state. A pocketed ball stays in
// the array with Active=false; the cue ball is also inactive while a
// player holds it for ball-in-hand.
type Ball struct {
	Number   int  `json:"number"`
	Position Vec2 `json:"position"`
	Velocity Vec2 `json:"velocity"`
	Active   bool `json:"active"`
}

// Engine advances the billiard simulation one fixed tick at a time.
// It owns no rules: it only integrates, bounces and stops balls.
type Engine struct {
	Balls [NumBalls]*Ball
	Table *Table
}

// NewEngine racks a fresh set of balls on the given table.
func NewEngine(table *Table) *Engine {
	e := &Engine{Table: table}
	rack := StandardRack()
	for i := 0; i < NumBalls; i++ {
		e.Balls[i] = &Ball{
			Number:   i,
			Position: rack[i],
			Active:   true,
		}
	}
	return e
}

// Step advances the simulation by one tick of dt seconds. Movement and
// collision run in SubSteps slices of the tick so fast balls cannot
// pass through each other; friction is applied once per full tick.
func (e *Engine) Step(dt float64) {
	sub := dt / SubSteps
	for s := 0; s < SubSteps; s++ {
		e.integrate(sub)
		e.collideWalls()
		e.collideBalls()
	}
	e.applyFriction()
}

// AtRest reports whether every active ball has stopped. Friction snaps
// near-stopped balls to exactly zero, so this is a plain zero check.
func (e *Engine) AtRest() bool {
	for _, b := range e.Balls {
		if b.Active && !b.Velocity.IsZero() {
			return false
		}
	}
	return true
}

func (e *Engine) integrate(dt float64) {
	for _, b := range e.Balls {
		if !b.Active {
			continue
		}
		b.Position = b.Position.Plus(b.Velocity.Times(dt))
	}
}

// collideWalls clamps balls back inside the table and reflects the
// perpendicular velocity component, attenuated by wall restitution.
// Only an inward-moving component is negated: positional correction
// can push a ball into a wall while it already moves away from it.
func (e *Engine) collideWalls() {
	minX, maxX := BallRadius, e.Table.Width-BallRadius
	minY, maxY := BallRadius, e.Table.Height-BallRadius

	for _, b := range e.Balls {
		if !b.Active {
			continue
		}
		if b.Position.X < minX {
			b.Position.X = minX
			if b.Velocity.X < 0 {
				b.Velocity.X = -b.Velocity.X * WallRestitution
			}
		} else if b.Position.X > maxX {
			b.Position.X = maxX
			if b.Velocity.X > 0 {
				b.Velocity.X = -b.Velocity.X * WallRestitution
			}
		}
		if b.Position.Y < minY {
			b.Position.Y = minY
			if b.Velocity.Y < 0 {
				b.Velocity.Y = -b.Velocity.Y * WallRestitution
			}
		} else if b.Position.Y > maxY {
			b.Position.Y = maxY
			if b.Velocity.Y > 0 {
				b.Velocity.Y = -b.Velocity.Y * WallRestitution
			}
		}
	}
}

// collideBalls resolves every overlapping pair. The impulse is the
// equal-mass elastic exchange along the contact normal, slightly
// damped by BallRestitution, and is applied only when the pair is
// approaching. Positional separation is applied unconditionally so
// resting overlaps (for example a cue ball placed onto another ball)
// still drift apart.
func (e *Engine) collideBalls() {
	for i := 0; i < NumBalls; i++ {
		a := e.Balls[i]
		if !a.Active {
			continue
		}
		for j := i + 1; j < NumBalls; j++ {
			b := e.Balls[j]
			if !b.Active {
				continue
			}

			delta := b.Position.Minus(a.Position)
			distSq := delta.MagnitudeSquared()
			if distSq >= 4*BallRadius*BallRadius {
				continue
			}

			dist := delta.Magnitude()
			var normal Vec2
			if dist == 0 {
				// Coincident centers have no contact normal; pick a
				// fixed axis so resolution stays deterministic.
				normal = NewVec2(1, 0)
			} else {
				normal = delta.Times(1 / dist)
			}

			overlap := 2*BallRadius - dist
			shift := normal.Times(overlap/2 + SeparationEpsilon)
			a.Position = a.Position.Minus(shift)
			b.Position = b.Position.Plus(shift)

			relVel := b.Velocity.Minus(a.Velocity)
			approach := relVel.Dot(normal)
			if approach >= 0 {
				continue
			}

			impulse := normal.Times(-(1 + BallRestitution) * approach / 2)
			a.Velocity = a.Velocity.Minus(impulse)
			b.Velocity = b.Velocity.Plus(impulse)
		}
	}
}

// applyFriction slows every active ball once per tick, with stronger
// damping near standstill and a hard snap to zero below the stop
// threshold so AtRest converges.
func (e *Engine) applyFriction() {
	for _, b := range e.Balls {
		if !b.Active || b.Velocity.IsZero() {
			continue
		}
		b.Velocity = b.Velocity.Times(Friction)
		speed := b.Velocity.Magnitude()
		if speed < SlowSpeedThreshold {
			b.Velocity = b.Velocity.Times(SlowDamping)
			speed *= SlowDamping
		}
		if speed < StopThreshold {
			b.Velocity = Vec2{}
		}
	}
}

// CueBall returns ball 0.
func (e *Engine) CueBall() *Ball {
	return e.Balls[0]
}
