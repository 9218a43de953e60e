package canvas

import "math"

// Guides holds at most one horizontal and one vertical alignment line,
// expressed as canvas-space coordinates. A nil value means no guide on that
// axis.
type Guides struct {
	X *float64
	Y *float64
}

func (g Guides) Active() bool { return g.X != nil || g.Y != nil }

// ComputeGuides compares the candidate position's alignment points
// (left/center/right on x; top/header/bottom on y) against every other
// node's matching points. The first node in iteration order with a point
// within GuideThreshold wins; there is no averaging or stacking.
func ComputeGuides(x, y float64, others []Node) Guides {
	xOpts := [3]float64{x, x + NodeW/2, x + NodeW}
	yOpts := [3]float64{y, y + HeaderH, y + NodeH}

	var out Guides
	for _, n := range others {
		if out.X == nil {
			for _, gx := range [3]float64{n.X, n.X + NodeW/2, n.X + NodeW} {
				if withinThreshold(xOpts, gx) {
					v := gx
					out.X = &v
					break
				}
			}
		}
		if out.Y == nil {
			for _, gy := range [3]float64{n.Y, n.Y + HeaderH, n.Y + NodeH} {
				if withinThreshold(yOpts, gy) {
					v := gy
					out.Y = &v
					break
				}
			}
		}
		if out.X != nil && out.Y != nil {
			break
		}
	}
	return out
}

func withinThreshold(opts [3]float64, target float64) bool {
	for _, o := range opts {
		if math.Abs(o-target) <= GuideThreshold {
			return true
		}
	}
	return false
}

// ApplyGuides nudges a position onto the active guide lines, matching
// whichever alignment point (center first, then leading edge, then trailing
// edge) is within threshold.
func ApplyGuides(x, y float64, g Guides) (float64, float64) {
	if g.X != nil {
		gx := *g.X
		switch {
		case math.Abs(x+NodeW/2-gx) <= GuideThreshold:
			x += gx - (x + NodeW/2)
		case math.Abs(x-gx) <= GuideThreshold:
			x = gx
		case math.Abs(x+NodeW-gx) <= GuideThreshold:
			x = gx - NodeW
		}
	}
	if g.Y != nil {
		gy := *g.Y
		switch {
		case math.Abs(y+HeaderH-gy) <= GuideThreshold:
			y += gy - (y + HeaderH)
		case math.Abs(y-gy) <= GuideThreshold:
			y = gy
		case math.Abs(y+NodeH-gy) <= GuideThreshold:
			y = gy - NodeH
		}
	}
	return x, y
}
