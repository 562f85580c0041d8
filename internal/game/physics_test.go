package game

import (
	"math"
	"testing"
)

const testDT = 1.0 / 60

// Helper to build an engine with every ball parked inactive, so tests
// place only the balls they care about.
func newBareEngine() *Engine {
	e := NewEngine(NewStandardTable())
	for _, b := range e.Balls {
		b.Active = false
		b.Velocity = Vec2{}
	}
	return e
}

func place(e *Engine, n int, x, y, vx, vy float64) *Ball {
	b := e.Balls[n]
	b.Position = NewVec2(x, y)
	b.Velocity = NewVec2(vx, vy)
	b.Active = true
	return b
}

// stepUntilRest ticks the engine until every ball stops, returning the
// number of ticks it took.
func stepUntilRest(t *testing.T, e *Engine, maxTicks int) int {
	t.Helper()
	for i := 0; i < maxTicks; i++ {
		e.Step(testDT)
		if e.AtRest() {
			return i + 1
		}
	}
	t.Fatalf("engine still moving after %d ticks", maxTicks)
	return maxTicks
}

func TestStraightShotMovesRight(t *testing.T) {
	e := newBareEngine()
	place(e, 0, 200, 200, 300, 0)

	startX := e.Balls[0].Position.X
	e.Step(testDT)

	if e.Balls[0].Position.X <= startX {
		t.Errorf("cue ball did not move right: start=%.2f end=%.2f", startX, e.Balls[0].Position.X)
	}
	if e.Balls[0].Position.Y != 200 {
		t.Errorf("cue ball drifted vertically: y=%.2f", e.Balls[0].Position.Y)
	}
}

func TestFrictionStopsBall(t *testing.T) {
	e := newBareEngine()
	place(e, 0, 400, 200, 200, 0)

	ticks := stepUntilRest(t, e, 1200)

	if !e.Balls[0].Velocity.IsZero() {
		t.Errorf("velocity not snapped to zero: %+v", e.Balls[0].Velocity)
	}
	// A medium shot should roll for a while but not forever.
	if ticks < 60 {
		t.Errorf("ball stopped suspiciously fast: %d ticks", ticks)
	}
}

func TestFullPowerShotStops(t *testing.T) {
	e := newBareEngine()
	place(e, 0, 400, 200, MaxPower*PowerScale, 0)

	// Even the hardest possible shot has to come to rest well inside
	// the tick budget the scheduler runs at.
	stepUntilRest(t, e, 1200)
}

func TestWallBounceReflectsAndAttenuates(t *testing.T) {
	e := newBareEngine()
	b := place(e, 0, 770, 200, 300, 0)

	bounced := false
	for i := 0; i < 60; i++ {
		e.Step(testDT)
		if b.Velocity.X < 0 {
			bounced = true
			break
		}
	}
	if !bounced {
		t.Fatal("ball never bounced off the right wall")
	}
	if b.Position.X > e.Table.Width-BallRadius {
		t.Errorf("ball ended up inside the wall: x=%.2f", b.Position.X)
	}
	// Restitution should have eaten a chunk of the speed.
	if got := -b.Velocity.X; got > 300*0.75 {
		t.Errorf("bounce lost too little speed: %.2f", got)
	}
}

func TestHeadOnCollisionTransfersMomentum(t *testing.T) {
	e := newBareEngine()
	a := place(e, 0, 300, 200, 120, 0)
	b := place(e, 1, 330, 200, 0, 0)

	for i := 0; i < 20; i++ {
		e.Step(testDT)
	}

	// With near-elastic equal masses the moving ball hands almost all
	// of its speed to the stationary one.
	if b.Velocity.X < 50 {
		t.Errorf("target ball too slow after head-on hit: vx=%.2f", b.Velocity.X)
	}
	if a.Velocity.X > b.Velocity.X {
		t.Errorf("cue ball kept more speed than target: cue=%.2f target=%.2f", a.Velocity.X, b.Velocity.X)
	}
	if b.Velocity.X < 0 {
		t.Errorf("target ball moving backwards: vx=%.2f", b.Velocity.X)
	}
}

func TestCoincidentBallsSeparate(t *testing.T) {
	e := newBareEngine()
	a := place(e, 1, 400, 200, 0, 0)
	b := place(e, 2, 400, 200, 0, 0)

	e.Step(testDT)

	if d := a.Position.DistanceTo(b.Position); d < 2*BallRadius {
		t.Errorf("coincident balls did not separate: d=%.2f", d)
	}
}

func TestBreakScattersAndSettles(t *testing.T) {
	e := NewEngine(NewStandardTable())
	rack := StandardRack()
	e.CueBall().Velocity = NewVec2(MaxPower*PowerScale, 0)

	stepUntilRest(t, e, 1800)

	// The pack should have scattered well beyond the rack footprint.
	moved := 0
	for i := 1; i < NumBalls; i++ {
		if e.Balls[i].Position.DistanceTo(rack[i]) > BallRadius {
			moved++
		}
	}
	if moved < 5 {
		t.Errorf("expected at least 5 balls to scatter on break, got %d", moved)
	}

	// No resting pair may overlap once everything has settled.
	for i := 0; i < NumBalls; i++ {
		if !e.Balls[i].Active {
			continue
		}
		for j := i + 1; j < NumBalls; j++ {
			if !e.Balls[j].Active {
				continue
			}
			d := e.Balls[i].Position.DistanceTo(e.Balls[j].Position)
			if d < 2*BallRadius-1.0 {
				t.Errorf("balls %d and %d overlap at rest: d=%.2f", i, j, d)
			}
		}
	}

	// Everything stays on the table.
	for _, b := range e.Balls {
		if !b.Active {
			continue
		}
		if b.Position.X < BallRadius-0.01 || b.Position.X > e.Table.Width-BallRadius+0.01 ||
			b.Position.Y < BallRadius-0.01 || b.Position.Y > e.Table.Height-BallRadius+0.01 {
			t.Errorf("ball %d outside the table: %+v", b.Number, b.Position)
		}
	}
}

func TestBreakIsDeterministic(t *testing.T) {
	run := func() [NumBalls]Vec2 {
		e := NewEngine(NewStandardTable())
		e.CueBall().Velocity = NewVec2(MaxPower*PowerScale, 0)
		for i := 0; i < 1800; i++ {
			e.Step(testDT)
			if e.AtRest() {
				break
			}
		}
		var out [NumBalls]Vec2
		for i, b := range e.Balls {
			out[i] = b.Position
		}
		return out
	}

	r1 := run()
	r2 := run()
	for i := 0; i < NumBalls; i++ {
		if r1[i] != r2[i] {
			t.Errorf("non-deterministic: ball %d run1=(%.4f,%.4f) run2=(%.4f,%.4f)",
				i, r1[i].X, r1[i].Y, r2[i].X, r2[i].Y)
		}
	}
}

func TestPocketCaptureInsideRadius(t *testing.T) {
	e := newBareEngine()
	b := place(e, 3, 10, 10, 0, 0)

	captured := e.DetectPockets()

	if len(captured) != 1 || captured[0] != 3 {
		t.Fatalf("expected ball 3 captured, got %v", captured)
	}
	if b.Active {
		t.Error("captured ball should be inactive")
	}
	if !b.Velocity.IsZero() {
		t.Error("captured ball should be stopped")
	}
}

func TestNearPocketCaptureNeedsInwardMotion(t *testing.T) {
	// Just outside the capture radius of the (0,0) corner pocket.
	e := newBareEngine()
	place(e, 5, 15, 15, -50, -50)
	if got := e.DetectPockets(); len(got) != 1 || got[0] != 5 {
		t.Errorf("inbound ball in near zone should be captured, got %v", got)
	}

	e2 := newBareEngine()
	out := place(e2, 5, 15, 15, 50, 50)
	if got := e2.DetectPockets(); len(got) != 0 {
		t.Errorf("outbound ball in near zone should survive, got %v", got)
	}
	if !out.Active {
		t.Error("outbound ball should still be active")
	}
}

func TestStandardRackLayout(t *testing.T) {
	rack := StandardRack()

	if rack[0] != NewVec2(200, 200) {
		t.Errorf("cue ball not on head spot: %+v", rack[0])
	}
	if rack[1] != NewVec2(600, 200) {
		t.Errorf("apex ball not on foot spot: %+v", rack[1])
	}
	// Eight ball sits in the middle of the third row.
	if rack[8].Y != 200 || rack[8].X <= rack[1].X {
		t.Errorf("eight ball misplaced: %+v", rack[8])
	}

	for i := 0; i < NumBalls; i++ {
		for j := i + 1; j < NumBalls; j++ {
			if rack[i] == rack[j] {
				t.Errorf("balls %d and %d racked on the same spot", i, j)
			}
		}
		if rack[i].X < BallRadius || rack[i].X > TableWidth-BallRadius ||
			rack[i].Y < BallRadius || rack[i].Y > TableHeight-BallRadius {
			t.Errorf("ball %d racked outside the table: %+v", i, rack[i])
		}
	}
}

func TestAtRestPredicate(t *testing.T) {
	e := newBareEngine()
	b := place(e, 0, 200, 200, 0, 0)

	if !e.AtRest() {
		t.Error("AtRest should be true with no moving balls")
	}

	b.Velocity = NewVec2(100, 0)
	if e.AtRest() {
		t.Error("AtRest should be false while the cue ball moves")
	}

	// Inactive balls never count, whatever their velocity says.
	b.Velocity = Vec2{}
	ghost := e.Balls[7]
	ghost.Velocity = NewVec2(999, 0)
	if !e.AtRest() {
		t.Error("inactive balls must not affect AtRest")
	}
}

func TestPowerScaleCoversTable(t *testing.T) {
	// A full-power shot from the head spot must reach the far rail; a
	// feather shot must not even get close.
	e := newBareEngine()
	b := place(e, 0, 200, 200, MaxPower*PowerScale, 0)
	maxX := b.Position.X
	for i := 0; i < 1800; i++ {
		e.Step(testDT)
		if b.Position.X > maxX {
			maxX = b.Position.X
		}
		if e.AtRest() {
			break
		}
	}
	if maxX < TableWidth-BallRadius-1 {
		t.Errorf("full-power shot never reached the far rail: maxX=%.2f", maxX)
	}

	e2 := newBareEngine()
	b2 := place(e2, 0, 200, 200, 5*PowerScale, 0)
	stepUntilRest(t, e2, 1800)
	if math.Abs(b2.Position.X-200) > TableWidth/2 {
		t.Errorf("feather shot travelled too far: x=%.2f", b2.Position.X)
	}
}

func TestHeadOnEqualSpeedsSwap(t *testing.T) {
	// Equal and opposite approach: the collision mirrors the pair, so
	// both rebound at near their incoming speed.
	e := newBareEngine()
	a := place(e, 1, 300, 200, 120, 0)
	b := place(e, 2, 340, 200, -120, 0)

	for i := 0; i < 20; i++ {
		e.Step(testDT)
	}

	if a.Velocity.X >= 0 || b.Velocity.X <= 0 {
		t.Fatalf("pair did not rebound: a=%.2f b=%.2f", a.Velocity.X, b.Velocity.X)
	}
	if diff := math.Abs(a.Velocity.X + b.Velocity.X); diff > 1e-6 {
		t.Errorf("rebound not symmetric: a=%.6f b=%.6f", a.Velocity.X, b.Velocity.X)
	}
	// Sub-elastic but close: most of the speed survives the exchange.
	if got := math.Abs(b.Velocity.X); got < 120*0.8 {
		t.Errorf("rebound speed %.2f, want near 120", got)
	}
}
