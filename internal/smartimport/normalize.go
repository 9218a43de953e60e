package smartimport

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"modelpuzzle/internal/canvas"
	"modelpuzzle/internal/catalog"
	"modelpuzzle/internal/util/jsonutil"
)

// Fallback grid for nodes the model placed nowhere: five columns, left to
// right, top to bottom.
const (
	fallbackOriginX = 100.0
	fallbackOriginY = 100.0
	fallbackStepX   = 250.0
	fallbackStepY   = 150.0
)

type rawNode struct {
	ID    json.RawMessage `json:"id"`
	Type  string          `json:"type"`
	X     *float64        `json:"x"`
	Y     *float64        `json:"y"`
	Props map[string]any  `json:"props"`
	Notes string          `json:"notes"`
}

type rawEdge struct {
	from  float64
	to    float64
	valid bool
}

// UnmarshalJSON never fails: an edge the model mangled beyond recognition
// is marked invalid and dropped during normalization instead of rejecting
// the whole graph.
func (e *rawEdge) UnmarshalJSON(data []byte) error {
	var pair []any
	if err := json.Unmarshal(data, &pair); err == nil {
		if len(pair) >= 2 {
			e.set(pair[0], pair[1])
		}
		return nil
	}
	var obj struct {
		Source any `json:"source"`
		Target any `json:"target"`
		From   any `json:"from"`
		To     any `json:"to"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil
	}
	if obj.Source != nil && obj.Target != nil {
		e.set(obj.Source, obj.Target)
	} else {
		e.set(obj.From, obj.To)
	}
	return nil
}

func (e *rawEdge) set(from, to any) {
	f, okF := edgeIndex(from)
	t, okT := edgeIndex(to)
	if okF && okT {
		e.from, e.to, e.valid = f, t, true
	}
}

// edgeIndex coerces a JSON endpoint to a number. Models sometimes quote the
// indexes despite the prompt's example.
func edgeIndex(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

type rawGraph struct {
	Nodes []rawNode `json:"nodes"`
	Edges []rawEdge `json:"edges"`
	Meta  struct {
		Name  string `json:"name"`
		Notes string `json:"notes"`
	} `json:"meta"`
}

// Normalize repairs whatever graph the model produced into a valid board.
// Only an unparseable top-level document is an error; per-node and per-edge
// defects are fixed or dropped in place.
func Normalize(raw json.RawMessage) (canvas.Board, error) {
	var g rawGraph
	if err := jsonutil.UnmarshalRaw(raw, &g); err != nil {
		return canvas.Board{}, fmt.Errorf("model output is not a graph: %w", err)
	}

	board := canvas.Board{
		Nodes: make([]canvas.Node, 0, len(g.Nodes)),
		Edges: make([]canvas.Edge, 0, len(g.Edges)),
		Meta: canvas.Meta{
			Name:  strings.TrimSpace(g.Meta.Name),
			Notes: strings.TrimSpace(g.Meta.Notes),
		},
	}
	for i, rn := range g.Nodes {
		node := canvas.Node{
			ID:    nodeID(rn.ID, i),
			Type:  nodeType(rn.Type),
			Notes: strings.TrimSpace(rn.Notes),
			Props: rn.Props,
		}
		if node.Props == nil {
			node.Props = catalog.DefaultsFor(node.Type)
		}
		node.X, node.Y = nodePosition(rn.X, rn.Y, i)
		board.Nodes = append(board.Nodes, node)
	}

	n := len(board.Nodes)
	for _, re := range g.Edges {
		if !re.valid {
			continue
		}
		from, to := int(re.from), int(re.to)
		if from < 0 || from >= n || to < 0 || to >= n || from == to {
			continue
		}
		board.Edges = append(board.Edges, canvas.Edge{from, to})
	}
	return board, nil
}

func nodeID(raw json.RawMessage, index int) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil && strings.TrimSpace(s) != "" {
		return strings.TrimSpace(s)
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return strconv.Itoa(int(f))
	}
	return strconv.Itoa(index)
}

func nodeType(t string) string {
	t = strings.TrimSpace(t)
	if t == "" {
		return "Linear"
	}
	return t
}

func nodePosition(x, y *float64, index int) (float64, float64) {
	if x != nil && y != nil && validCoord(*x) && validCoord(*y) {
		return *x, *y
	}
	col := index % 5
	row := index / 5
	return fallbackOriginX + float64(col)*fallbackStepX,
		fallbackOriginY + float64(row)*fallbackStepY
}

func validCoord(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
