package game

// DetectPockets scans active balls against every pocket and captures
// the ones that fell. A ball is captured when its center is inside the
// pocket's capture radius, or inside the wider near-pocket zone while
// moving toward the pocket center. Captured balls are deactivated and
// stopped; the returned list preserves detection order, which is the
// order the rules credit them in.
func (e *Engine) DetectPockets() []int {
	var captured []int
	for _, b := range e.Balls {
		if !b.Active {
			continue
		}
		for i := range e.Table.Pockets {
			p := &e.Table.Pockets[i]
			d := b.Position.DistanceTo(p.Position)
			if d > NearPocketRadius {
				continue
			}
			if d > PocketRadius {
				// Near zone: only swallow balls headed into the pocket.
				toPocket := p.Position.Minus(b.Position)
				if b.Velocity.Dot(toPocket) <= 0 {
					continue
				}
			}
			b.Active = false
			b.Velocity = Vec2{}
			captured = append(captured, b.Number)
			break
		}
	}
	return captured
}
