package canvas

import "math"

// Viewport is the ephemeral pan/zoom state of the board. It is never
// persisted.
type Viewport struct {
	Zoom float64
	Pan  Point
}

func NewViewport() Viewport {
	return Viewport{Zoom: 1}
}

func clampZoom(z float64) float64 {
	return math.Min(math.Max(z, MinZoom), MaxZoom)
}

// ZoomBy adjusts zoom by delta, clamped to [MinZoom, MaxZoom].
func (v *Viewport) ZoomBy(delta float64) {
	if v == nil {
		return
	}
	v.Zoom = clampZoom(v.Zoom + delta)
}

// ZoomAt adjusts zoom by delta anchored at a screen point relative to the
// canvas origin, shifting pan so the anchored point stays put.
func (v *Viewport) ZoomAt(delta, anchorX, anchorY float64) {
	if v == nil {
		return
	}
	prev := v.Zoom
	if prev == 0 {
		prev = 1
	}
	next := clampZoom(prev + delta)
	v.Pan.X -= anchorX * (next - prev) / prev
	v.Pan.Y -= anchorY * (next - prev) / prev
	v.Zoom = next
}

// FitToContent sets zoom and pan so every node is visible with a 10% margin.
// A board with no nodes leaves the viewport untouched.
func (v *Viewport) FitToContent(nodes []Node, viewW, viewH float64) {
	if v == nil || len(nodes) == 0 || viewW <= 0 || viewH <= 0 {
		return
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, n := range nodes {
		minX = math.Min(minX, n.X)
		minY = math.Min(minY, n.Y)
		maxX = math.Max(maxX, n.X+NodeW)
		maxY = math.Max(maxY, n.Y+NodeH)
	}
	contentW := maxX - minX
	contentH := maxY - minY
	if contentW <= 0 || contentH <= 0 {
		return
	}
	zoom := clampZoom(math.Min(viewW*0.9/contentW, viewH*0.9/contentH))
	v.Zoom = zoom
	v.Pan = Point{
		X: (viewW-contentW*zoom)/2 - minX*zoom,
		Y: (viewH-contentH*zoom)/2 - minY*zoom,
	}
}

// Reset restores the identity view.
func (v *Viewport) Reset() {
	if v == nil {
		return
	}
	v.Zoom = 1
	v.Pan = Point{}
}
