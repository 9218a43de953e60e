package catalog

import "modelpuzzle/internal/canvas"

// TemplateNode is a node blueprint inside an architecture template.
type TemplateNode struct {
	Type  string
	Props map[string]any
	X     float64
	Y     float64
}

// Template is a ready-made architecture that can be loaded onto an empty
// board. Edges are index pairs into Nodes.
type Template struct {
	Nodes []TemplateNode
	Edges [][2]int
}

// Instantiate converts the blueprint into board nodes and edges, ready for
// Board.ApplyTemplate. Ids are left blank; the board assigns fresh ones.
func (t Template) Instantiate() ([]canvas.Node, []canvas.Edge) {
	nodes := make([]canvas.Node, 0, len(t.Nodes))
	for _, tn := range t.Nodes {
		props := make(map[string]any, len(tn.Props))
		for k, v := range tn.Props {
			props[k] = v
		}
		nodes = append(nodes, canvas.Node{Type: tn.Type, Props: props, X: tn.X, Y: tn.Y})
	}
	edges := make([]canvas.Edge, 0, len(t.Edges))
	for _, e := range t.Edges {
		edges = append(edges, canvas.Edge{e[0], e[1]})
	}
	return nodes, edges
}

var Templates = map[string]Template{
	"GPT (Decoder-only)": {
		Nodes: []TemplateNode{
			{Type: "Embedding", Props: map[string]any{"dim": 768}, X: 100, Y: 100},
			{Type: "Positional Encoding", Props: map[string]any{"max_len": 2048}, X: 100, Y: 250},
			{Type: "Multi-Head Attention", Props: map[string]any{"heads": 12, "dim": 768}, X: 100, Y: 400},
			{Type: "Feed-Forward", Props: map[string]any{"d_ff": 3072}, X: 100, Y: 550},
			{Type: "LayerNorm", Props: map[string]any{}, X: 100, Y: 700},
			{Type: "Linear", Props: map[string]any{"out": 50257}, X: 100, Y: 850},
		},
		Edges: [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 4}, {4, 5}},
	},
	"BERT (Encoder-only)": {
		Nodes: []TemplateNode{
			{Type: "Embedding", Props: map[string]any{"dim": 768}, X: 100, Y: 100},
			{Type: "Positional Encoding", Props: map[string]any{"max_len": 512}, X: 100, Y: 250},
			{Type: "Multi-Head Attention", Props: map[string]any{"heads": 12, "dim": 768}, X: 100, Y: 400},
			{Type: "LayerNorm", Props: map[string]any{}, X: 100, Y: 550},
			{Type: "Feed-Forward", Props: map[string]any{"d_ff": 3072}, X: 100, Y: 700},
			{Type: "Pooling", Props: map[string]any{"mode": "cls"}, X: 100, Y: 850},
		},
		Edges: [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 4}, {4, 5}},
	},
}
