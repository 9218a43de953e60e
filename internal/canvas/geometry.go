package canvas

import "math"

// Board geometry constants. Nodes are fixed-size cards; the header strip is
// what edges attach to and what vertical guides align against.
const (
	NodeW   = 200
	NodeH   = 110
	HeaderH = 32
	Grid    = 80

	GuideThreshold = 8

	MinZoom = 0.5
	MaxZoom = 2.0
)

// Point is a position in either screen or canvas space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ScreenToCanvas maps a screen pixel position into canvas space given the
// canvas origin, the current pan offset and zoom factor.
func ScreenToCanvas(screenX, screenY float64, origin, pan Point, zoom float64) Point {
	if zoom == 0 {
		zoom = 1
	}
	return Point{
		X: (screenX - origin.X - pan.X) / zoom,
		Y: (screenY - origin.Y - pan.Y) / zoom,
	}
}

// CanvasToScreen is the inverse of ScreenToCanvas.
func CanvasToScreen(canvasX, canvasY float64, origin, pan Point, zoom float64) Point {
	return Point{
		X: canvasX*zoom + pan.X + origin.X,
		Y: canvasY*zoom + pan.Y + origin.Y,
	}
}

// ClampToCanvas keeps a node's top-left corner inside the addressable canvas
// region so the node never renders outside it. Idempotent.
func ClampToCanvas(x, y, canvasW, canvasH float64) Point {
	maxX := math.Max(0, canvasW-NodeW)
	maxY := math.Max(0, canvasH-NodeH)
	return Point{
		X: math.Min(math.Max(0, x), maxX),
		Y: math.Min(math.Max(0, y), maxY),
	}
}

// SnapToGrid rounds v to the nearest multiple of gridSize.
func SnapToGrid(v float64, gridSize float64) float64 {
	if gridSize <= 0 {
		return v
	}
	return math.Round(v/gridSize) * gridSize
}
