package game

// Physics and table constants for 8-ball pool. All lengths are in table
// units (table is 800x400), all speeds in units per second.

const (
	TableWidth  = 800.0
	TableHeight = 400.0

	BallRadius   = 10.0
	PocketRadius = 16.0 // capture when ball center is inside this
	NumBalls     = 16   // 0=cue, 1-7=solids, 8=eight, 9-15=stripes

	// Near-pocket assist: a ball inside this radius that is moving toward
	// the pocket center is treated as captured. Tune together with
	// PocketRadius; rules never depend on which of the two triggered.
	NearPocketRadius = 24.0

	SubSteps = 4 // collision sub-steps per physics tick

	WallRestitution = 0.7
	BallRestitution = 0.95

	// Per-tick rolling friction, with extra damping once a ball is nearly
	// stopped so nothing creeps across the cloth forever.
	Friction           = 0.992
	SlowSpeedThreshold = 12.0
	SlowDamping        = 0.9
	StopThreshold      = 3.0

	// SeparationEpsilon pads positional correction so separated balls do
	// not re-trigger the same contact next sub-step.
	SeparationEpsilon = 0.05

	MaxPower   = 100.0
	PowerScale = 9.0 // cue speed = power * PowerScale

	// PlacementMargin keeps ball-in-hand placements off the cushions.
	PlacementMargin = 2 * BallRadius

	DefaultTickRate      = 60 // physics ticks per second
	DefaultBroadcastRate = 20 // state snapshots per second
	MaxCatchUpTicks      = 2  // budget when the loop falls behind

	RoomCodeLength = 6
)
