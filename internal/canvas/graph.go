package canvas

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Node is one placed module block. Positions are canvas-space top-left
// coordinates and stay inside the clamped canvas region.
type Node struct {
	ID    string         `json:"id"`
	Type  string         `json:"type"`
	X     float64        `json:"x"`
	Y     float64        `json:"y"`
	Props map[string]any `json:"props"`
	Notes string         `json:"notes,omitempty"`
}

// Edge is a directed connection stored as a pair of indices into the node
// list: [from, to]. Index addressing matches the export format; every node
// removal must shift the indices (see Board.RemoveNode).
type Edge [2]int

// Meta is project-level metadata persisted alongside the graph.
type Meta struct {
	Name    string `json:"name"`
	Notes   string `json:"notes"`
	Author  string `json:"author,omitempty"`
	Version string `json:"version,omitempty"`
}

// Board owns the placed nodes and their edges.
type Board struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
	Meta  Meta   `json:"meta"`
}

func NewBoard() *Board {
	return &Board{Meta: Meta{Name: "My Design"}}
}

// IndexOf returns the list position of the node with the given id, or -1.
func (b *Board) IndexOf(id string) int {
	if b == nil {
		return -1
	}
	for i, n := range b.Nodes {
		if n.ID == id {
			return i
		}
	}
	return -1
}

func (b *Board) NodeByID(id string) (Node, bool) {
	i := b.IndexOf(id)
	if i < 0 {
		return Node{}, false
	}
	return b.Nodes[i], true
}

// AddNode appends a node. Props are copied so callers can reuse catalog
// defaults without aliasing.
func (b *Board) AddNode(n Node) {
	if b == nil || strings.TrimSpace(n.ID) == "" {
		return
	}
	props := make(map[string]any, len(n.Props))
	for k, v := range n.Props {
		props[k] = v
	}
	n.Props = props
	b.Nodes = append(b.Nodes, n)
}

// MoveNode sets a node's position. Unknown ids are ignored.
func (b *Board) MoveNode(id string, x, y float64) {
	i := b.IndexOf(id)
	if i < 0 {
		return
	}
	b.Nodes[i].X = x
	b.Nodes[i].Y = y
}

// RemoveNode deletes the node, drops every edge touching it, and decrements
// edge indices that pointed past it. This is the single index-shift site.
func (b *Board) RemoveNode(id string) bool {
	idx := b.IndexOf(id)
	if idx < 0 {
		return false
	}
	b.Nodes = append(b.Nodes[:idx], b.Nodes[idx+1:]...)
	kept := b.Edges[:0]
	for _, e := range b.Edges {
		if e[0] == idx || e[1] == idx {
			continue
		}
		if e[0] > idx {
			e[0]--
		}
		if e[1] > idx {
			e[1]--
		}
		kept = append(kept, e)
	}
	b.Edges = kept
	return true
}

// AddEdge appends [from,to] unless it would be a self-loop, reference an
// unknown index, or duplicate an existing edge. Invalid edges are silently
// rejected.
func (b *Board) AddEdge(from, to int) bool {
	if b == nil || from == to {
		return false
	}
	if from < 0 || to < 0 || from >= len(b.Nodes) || to >= len(b.Nodes) {
		return false
	}
	for _, e := range b.Edges {
		if e[0] == from && e[1] == to {
			return false
		}
	}
	b.Edges = append(b.Edges, Edge{from, to})
	return true
}

// Connect adds an edge between two node ids.
func (b *Board) Connect(fromID, toID string) bool {
	return b.AddEdge(b.IndexOf(fromID), b.IndexOf(toID))
}

func (b *Board) SetProp(id, key string, value any) {
	i := b.IndexOf(id)
	if i < 0 || strings.TrimSpace(key) == "" {
		return
	}
	if b.Nodes[i].Props == nil {
		b.Nodes[i].Props = make(map[string]any)
	}
	b.Nodes[i].Props[key] = value
}

func (b *Board) SetNotes(id, notes string) {
	i := b.IndexOf(id)
	if i < 0 {
		return
	}
	b.Nodes[i].Notes = notes
}

// Loaded templates land this far below existing content.
const templateGapY = 80.0

// ApplyTemplate appends a ready-made architecture to the board. Template
// nodes get fresh ids and their edges shift by the prior node count; when
// the board already has content the template lands below it.
func (b *Board) ApplyTemplate(nodes []Node, edges []Edge) {
	if b == nil || len(nodes) == 0 {
		return
	}

	offset := len(b.Nodes)
	var shiftY float64
	if offset > 0 {
		maxY := b.Nodes[0].Y
		for _, n := range b.Nodes[1:] {
			if n.Y > maxY {
				maxY = n.Y
			}
		}
		minY := nodes[0].Y
		for _, n := range nodes[1:] {
			if n.Y < minY {
				minY = n.Y
			}
		}
		shiftY = maxY + NodeH + templateGapY - minY
	}

	for _, n := range nodes {
		n.ID = NewNodeID()
		n.Y += shiftY
		b.AddNode(n)
	}
	for _, e := range edges {
		b.AddEdge(e[0]+offset, e[1]+offset)
	}
}

// AppendProjectNotes appends text to the project-level notes.
func (b *Board) AppendProjectNotes(text string) {
	if b == nil || strings.TrimSpace(text) == "" {
		return
	}
	if b.Meta.Notes != "" {
		b.Meta.Notes += "\n\n"
	}
	b.Meta.Notes += text
}

// ExportJSON serializes the board as {meta, nodes, edges}, round-trippable
// through ImportJSON.
func (b *Board) ExportJSON() ([]byte, error) {
	if b == nil {
		return nil, fmt.Errorf("board is nil")
	}
	doc := struct {
		Meta  Meta   `json:"meta"`
		Nodes []Node `json:"nodes"`
		Edges []Edge `json:"edges"`
	}{Meta: b.Meta, Nodes: b.Nodes, Edges: b.Edges}
	return json.MarshalIndent(doc, "", "  ")
}

// ImportJSON replaces the board contents from an exported document. Edges
// that violate the edge invariant are dropped rather than failing the whole
// import.
func (b *Board) ImportJSON(data []byte) error {
	if b == nil {
		return fmt.Errorf("board is nil")
	}
	var doc struct {
		Meta  Meta   `json:"meta"`
		Nodes []Node `json:"nodes"`
		Edges []Edge `json:"edges"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("import board: %w", err)
	}
	b.Nodes = nil
	b.Edges = nil
	for _, n := range doc.Nodes {
		b.AddNode(n)
	}
	for _, e := range doc.Edges {
		b.AddEdge(e[0], e[1])
	}
	if strings.TrimSpace(doc.Meta.Name) != "" {
		b.Meta.Name = doc.Meta.Name
	}
	if doc.Meta.Notes != "" {
		b.Meta.Notes = doc.Meta.Notes
	}
	if doc.Meta.Author != "" {
		b.Meta.Author = doc.Meta.Author
	}
	if doc.Meta.Version != "" {
		b.Meta.Version = doc.Meta.Version
	}
	return nil
}
