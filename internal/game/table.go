package game

// Pocket is one of the 6 pockets on the table.
type Pocket struct {
	ID       int  `json:"id"`
	Position Vec2 `json:"position"`
}

// Table holds the immutable table geometry. Walls are the rectangle
// edges at x=0, x=Width, y=0, y=Height.
type Table struct {
	Width   float64
	Height  float64
	Pockets []Pocket
}

// NewStandardTable creates the standard 2:1 table with four corner
// pockets and two side pockets on the long rails.
func NewStandardTable() *Table {
	w := TableWidth
	h := TableHeight
	return &Table{
		Width:  w,
		Height: h,
		Pockets: []Pocket{
			{ID: 0, Position: NewVec2(0, 0)},
			{ID: 1, Position: NewVec2(w/2, 0)},
			{ID: 2, Position: NewVec2(w, 0)},
			{ID: 3, Position: NewVec2(0, h)},
			{ID: 4, Position: NewVec2(w/2, h)},
			{ID: 5, Position: NewVec2(w, h)},
		},
	}
}

// StandardRack returns the initial positions for all 16 balls.
// Fixed offsets, no jitter, so every rack is identical. The cue ball
// sits on the head spot, the apex ball on the foot spot, and the
// eight ball in the middle of the third row.
func StandardRack() [NumBalls]Vec2 {
	var pos [NumBalls]Vec2

	cx := TableWidth * 0.25
	fx := TableWidth * 0.75
	cy := TableHeight / 2

	// Row spacing slightly over the touching distance so the rack does
	// not start the game mid-collision.
	dx := 1.782 * BallRadius
	dy := 1.05 * BallRadius

	// Cue ball
	pos[0] = NewVec2(cx, cy)

	// Apex ball
	pos[1] = NewVec2(fx, cy)

	// Row 2
	pos[2] = NewVec2(fx+dx, cy+dy)
	pos[15] = NewVec2(fx+dx, cy-dy)

	// Row 3 (eight ball in center)
	pos[8] = NewVec2(fx+2*dx, cy)
	pos[5] = NewVec2(fx+2*dx, cy+2*dy)
	pos[10] = NewVec2(fx+2*dx, cy-2*dy)

	// Row 4
	pos[7] = NewVec2(fx+3*dx, cy+dy)
	pos[4] = NewVec2(fx+3*dx, cy+3*dy)
	pos[9] = NewVec2(fx+3*dx, cy-dy)
	pos[6] = NewVec2(fx+3*dx, cy-3*dy)

	// Row 5
	pos[11] = NewVec2(fx+4*dx, cy)
	pos[12] = NewVec2(fx+4*dx, cy+2*dy)
	pos[13] = NewVec2(fx+4*dx, cy-2*dy)
	pos[14] = NewVec2(fx+4*dx, cy+4*dy)
	pos[3] = NewVec2(fx+4*dx, cy-4*dy)

	return pos
}
