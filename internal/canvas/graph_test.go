package canvas

import (
	"bytes"
	"testing"
)

func chainBoard() *Board {
	b := NewBoard()
	b.AddNode(Node{ID: "a", Type: "Tokenizer", X: 80, Y: 80})
	b.AddNode(Node{ID: "b", Type: "Embedding", X: 320, Y: 80})
	b.AddNode(Node{ID: "c", Type: "Linear", X: 560, Y: 80})
	b.AddEdge(0, 1)
	b.AddEdge(1, 2)
	return b
}

func TestRemoveNodeShiftsEdgeIndices(t *testing.T) {
	b := chainBoard()
	b.AddEdge(0, 2)

	if !b.RemoveNode("b") {
		t.Fatal("remove failed")
	}
	if len(b.Nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(b.Nodes))
	}
	// Edges touching "b" are gone; a->c shifted from [0 2] to [0 1].
	if len(b.Edges) != 1 || b.Edges[0] != (Edge{0, 1}) {
		t.Fatalf("unexpected edges after removal: %v", b.Edges)
	}
	if b.Nodes[b.Edges[0][0]].ID != "a" || b.Nodes[b.Edges[0][1]].ID != "c" {
		t.Fatalf("surviving edge no longer connects a->c: %v", b.Edges)
	}
}

func TestRemoveFirstNodeShiftsAll(t *testing.T) {
	b := chainBoard()
	b.RemoveNode("a")
	if len(b.Edges) != 1 || b.Edges[0] != (Edge{0, 1}) {
		t.Fatalf("expected shifted edge [0 1], got %v", b.Edges)
	}
}

func TestAddEdgeRejections(t *testing.T) {
	b := chainBoard()
	if b.AddEdge(0, 0) {
		t.Fatal("self loop accepted")
	}
	if b.AddEdge(0, 1) {
		t.Fatal("duplicate accepted")
	}
	if b.AddEdge(0, 99) {
		t.Fatal("out of range accepted")
	}
	if b.AddEdge(-1, 1) {
		t.Fatal("negative index accepted")
	}
	if len(b.Edges) != 2 {
		t.Fatalf("edge list changed: %v", b.Edges)
	}
}

func TestConnectByID(t *testing.T) {
	b := chainBoard()
	if !b.Connect("a", "c") {
		t.Fatal("connect a->c failed")
	}
	if b.Connect("a", "missing") {
		t.Fatal("connect to unknown id accepted")
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	b := chainBoard()
	b.Meta.Name = "Tiny GPT"
	b.AppendProjectNotes("first note")
	b.SetProp("b", "dim", 768)
	b.SetNotes("c", "output head")

	raw, err := b.ExportJSON()
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	restored := NewBoard()
	if err := restored.ImportJSON(raw); err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(restored.Nodes) != 3 || len(restored.Edges) != 2 {
		t.Fatalf("round trip lost content: %d nodes, %d edges", len(restored.Nodes), len(restored.Edges))
	}
	if restored.Meta.Name != "Tiny GPT" || restored.Meta.Notes != "first note" {
		t.Fatalf("meta lost: %+v", restored.Meta)
	}
	if n, _ := restored.NodeByID("c"); n.Notes != "output head" {
		t.Fatalf("node notes lost: %+v", n)
	}

	again, err := restored.ExportJSON()
	if err != nil {
		t.Fatalf("re-export: %v", err)
	}
	if !bytes.Equal(raw, again) {
		t.Fatal("export not stable across a round trip")
	}
}

func TestImportDropsInvalidEdges(t *testing.T) {
	doc := []byte(`{
		"meta": {"name": "x"},
		"nodes": [{"id": "a", "type": "Linear"}, {"id": "b", "type": "ReLU"}],
		"edges": [[0, 1], [0, 0], [1, 7], [0, 1]]
	}`)
	b := NewBoard()
	if err := b.ImportJSON(doc); err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(b.Edges) != 1 || b.Edges[0] != (Edge{0, 1}) {
		t.Fatalf("invalid edges should be dropped, got %v", b.Edges)
	}
}

func TestAppendProjectNotesSeparator(t *testing.T) {
	b := NewBoard()
	b.AppendProjectNotes("one")
	b.AppendProjectNotes("two")
	if b.Meta.Notes != "one\n\ntwo" {
		t.Fatalf("unexpected notes: %q", b.Meta.Notes)
	}
	b.AppendProjectNotes("  ")
	if b.Meta.Notes != "one\n\ntwo" {
		t.Fatalf("blank append should be ignored: %q", b.Meta.Notes)
	}
}

func TestAddNodeCopiesProps(t *testing.T) {
	defaults := map[string]any{"dim": 512}
	b := NewBoard()
	b.AddNode(Node{ID: "a", Type: "Linear", Props: defaults})
	defaults["dim"] = 9999
	if n, _ := b.NodeByID("a"); n.Props["dim"] != 512 {
		t.Fatalf("props aliased to caller map: %v", n.Props)
	}
}

func TestApplyTemplateEmptyBoard(t *testing.T) {
	b := NewBoard()
	b.ApplyTemplate([]Node{
		{Type: "Embedding", X: 100, Y: 100},
		{Type: "Softmax", X: 100, Y: 250},
	}, []Edge{{0, 1}})

	if len(b.Nodes) != 2 || len(b.Edges) != 1 {
		t.Fatalf("template not applied: %d nodes, %d edges", len(b.Nodes), len(b.Edges))
	}
	if b.Nodes[0].Y != 100 || b.Nodes[1].Y != 250 {
		t.Fatalf("empty board should keep template positions: %v %v", b.Nodes[0].Y, b.Nodes[1].Y)
	}
	if b.Nodes[0].ID == "" || b.Nodes[0].ID == b.Nodes[1].ID {
		t.Fatalf("template nodes need fresh distinct ids: %q %q", b.Nodes[0].ID, b.Nodes[1].ID)
	}
	if b.Edges[0] != (Edge{0, 1}) {
		t.Fatalf("unexpected edges: %v", b.Edges)
	}
}

func TestApplyTemplateBelowExistingContent(t *testing.T) {
	b := NewBoard()
	b.AddNode(Node{ID: "a", Type: "Linear", X: 80, Y: 400})
	b.AddNode(Node{ID: "b", Type: "ReLU", X: 80, Y: 160})
	b.AddEdge(0, 1)

	b.ApplyTemplate([]Node{
		{Type: "Embedding", X: 100, Y: 100},
		{Type: "Softmax", X: 100, Y: 250},
	}, []Edge{{0, 1}})

	if len(b.Nodes) != 4 || len(b.Edges) != 2 {
		t.Fatalf("template not appended: %d nodes, %d edges", len(b.Nodes), len(b.Edges))
	}
	// Template lands below the lowest existing node, keeping relative layout.
	wantY := 400 + NodeH + templateGapY
	if b.Nodes[2].Y != wantY || b.Nodes[3].Y != wantY+150 {
		t.Fatalf("template not shifted below content: %v %v", b.Nodes[2].Y, b.Nodes[3].Y)
	}
	// Template edge indexes shift past the existing nodes.
	if b.Edges[1] != (Edge{2, 3}) {
		t.Fatalf("template edge not shifted: %v", b.Edges)
	}
}
