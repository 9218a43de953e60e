package canvas

import "strings"

// State enumerates the interaction states of the board editor.
type State int

const (
	StateIdle State = iota
	StateDraggingNode
	StateDraggingPalette
	StateLinkIdle
	StateLinkSourceSelected
)

// Editor drives the pointer interaction state machine over a Board. All
// operations are synchronous and in-memory; invalid transitions are no-ops.
type Editor struct {
	Board *Board

	CanvasW float64
	CanvasH float64
	Snap    bool

	state      State
	dragID     string
	guides     Guides
	linkSource string

	newID func() string
}

func NewEditor(board *Board, canvasW, canvasH float64, newID func() string) *Editor {
	if board == nil {
		board = NewBoard()
	}
	return &Editor{
		Board:   board,
		CanvasW: canvasW,
		CanvasH: canvasH,
		Snap:    true,
		newID:   newID,
	}
}

func (e *Editor) State() State { return e.state }

// Guides returns the alignment guides computed during the current drag.
func (e *Editor) Guides() Guides { return e.guides }

// LinkSource returns the node id selected as edge source, if any.
func (e *Editor) LinkSource() string { return e.linkSource }

// BeginPaletteDrag starts dragging a new module out of the palette.
func (e *Editor) BeginPaletteDrag() {
	if e == nil || e.state != StateIdle {
		return
	}
	e.state = StateDraggingPalette
}

// DropFromPalette finishes a palette drag at a screen position. Drops
// outside the canvas bounds are discarded. The created node is centered on
// the drop point, clamped and optionally snapped.
func (e *Editor) DropFromPalette(screen, origin Point, vp Viewport, typ string, defaults map[string]any) (Node, bool) {
	if e == nil || e.state != StateDraggingPalette {
		return Node{}, false
	}
	e.state = StateIdle
	if screen.X < origin.X || screen.X > origin.X+e.CanvasW || screen.Y < origin.Y || screen.Y > origin.Y+e.CanvasH {
		return Node{}, false
	}
	p := ScreenToCanvas(screen.X, screen.Y, origin, vp.Pan, vp.Zoom)
	pos := ClampToCanvas(p.X-NodeW/2, p.Y-NodeH/2, e.CanvasW, e.CanvasH)
	x, y := pos.X, pos.Y
	if e.Snap {
		x = SnapToGrid(x, Grid)
		y = SnapToGrid(y, Grid)
	}
	node := Node{ID: e.nextID(), Type: typ, X: x, Y: y, Props: defaults}
	e.Board.AddNode(node)
	n, _ := e.Board.NodeByID(node.ID)
	return n, true
}

// BeginNodeDrag starts dragging an existing node. Ignored while in link
// mode.
func (e *Editor) BeginNodeDrag(id string) bool {
	if e == nil || e.state != StateIdle {
		return false
	}
	if e.Board.IndexOf(id) < 0 {
		return false
	}
	e.state = StateDraggingNode
	e.dragID = id
	e.guides = Guides{}
	return true
}

// DragBy updates the live preview offset and recomputes alignment guides.
// Returns the clamped preview position.
func (e *Editor) DragBy(dx, dy float64) (Point, bool) {
	if e == nil || e.state != StateDraggingNode {
		return Point{}, false
	}
	cur, ok := e.Board.NodeByID(e.dragID)
	if !ok {
		e.guides = Guides{}
		return Point{}, false
	}
	pos := ClampToCanvas(cur.X+dx, cur.Y+dy, e.CanvasW, e.CanvasH)
	e.guides = ComputeGuides(pos.X, pos.Y, e.others(e.dragID))
	return pos, true
}

// EndNodeDrag commits the final position: clamped, then snapped and nudged
// onto any active guides when snapping is enabled.
func (e *Editor) EndNodeDrag(dx, dy float64) {
	if e == nil || e.state != StateDraggingNode {
		return
	}
	defer func() {
		e.state = StateIdle
		e.dragID = ""
		e.guides = Guides{}
	}()
	cur, ok := e.Board.NodeByID(e.dragID)
	if !ok {
		return
	}
	pos := ClampToCanvas(cur.X+dx, cur.Y+dy, e.CanvasW, e.CanvasH)
	x, y := pos.X, pos.Y
	if e.Snap {
		x = SnapToGrid(x, Grid)
		y = SnapToGrid(y, Grid)
		x, y = ApplyGuides(x, y, e.guides)
	}
	e.Board.MoveNode(e.dragID, x, y)
}

// ToggleLinkMode enters or leaves the edge-drawing mode.
func (e *Editor) ToggleLinkMode() {
	if e == nil {
		return
	}
	switch e.state {
	case StateIdle:
		e.state = StateLinkIdle
	case StateLinkIdle, StateLinkSourceSelected:
		e.state = StateIdle
		e.linkSource = ""
	}
}

// ClickNode handles a click while in link mode. The first click selects the
// source; clicks on other nodes append edges while keeping the source
// selected (fan-out); clicking the source again cancels the selection.
func (e *Editor) ClickNode(id string) {
	if e == nil || e.Board.IndexOf(id) < 0 {
		return
	}
	switch e.state {
	case StateLinkIdle:
		e.linkSource = id
		e.state = StateLinkSourceSelected
	case StateLinkSourceSelected:
		if id == e.linkSource {
			e.linkSource = ""
			e.state = StateLinkIdle
			return
		}
		e.Board.Connect(e.linkSource, id)
	}
}

// PressEscape cancels the source selection if one is active, otherwise
// exits link mode entirely.
func (e *Editor) PressEscape() {
	if e == nil {
		return
	}
	switch e.state {
	case StateLinkSourceSelected:
		e.linkSource = ""
		e.state = StateLinkIdle
	case StateLinkIdle:
		e.state = StateIdle
	}
}

// RemoveNode deletes a node through the board, clearing a dangling link
// source.
func (e *Editor) RemoveNode(id string) bool {
	if e == nil {
		return false
	}
	if !e.Board.RemoveNode(id) {
		return false
	}
	if e.linkSource == id {
		e.linkSource = ""
		if e.state == StateLinkSourceSelected {
			e.state = StateLinkIdle
		}
	}
	return true
}

func (e *Editor) others(excludeID string) []Node {
	out := make([]Node, 0, len(e.Board.Nodes))
	for _, n := range e.Board.Nodes {
		if n.ID != excludeID {
			out = append(out, n)
		}
	}
	return out
}

func (e *Editor) nextID() string {
	if e.newID != nil {
		if id := strings.TrimSpace(e.newID()); id != "" {
			return id
		}
	}
	return randomID(8)
}
