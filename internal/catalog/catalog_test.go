package catalog

import (
	"strings"
	"testing"

	"modelpuzzle/internal/canvas"
)

func TestLookup(t *testing.T) {
	m, ok := Lookup("Multi-Head Attention")
	if !ok || m.Defaults["heads"] != 8 {
		t.Fatalf("lookup failed: %+v ok=%v", m, ok)
	}
	if _, ok := Lookup("Nonexistent"); ok {
		t.Fatal("unknown type found")
	}
}

func TestDefaultsForReturnsCopy(t *testing.T) {
	d := DefaultsFor("Embedding")
	if d["dim"] != 768 {
		t.Fatalf("unexpected defaults: %v", d)
	}
	d["dim"] = 1
	if fresh := DefaultsFor("Embedding"); fresh["dim"] != 768 {
		t.Fatal("catalog defaults were mutated through a copy")
	}
}

func TestDefaultsForUnknownType(t *testing.T) {
	d := DefaultsFor("Custom Thing")
	if d == nil || len(d) != 0 {
		t.Fatalf("unknown type should give an empty map, got %v", d)
	}
}

func TestSearchModules(t *testing.T) {
	out := Search("attention")
	if !strings.Contains(out, "Module matches (1)") {
		t.Fatalf("unexpected output: %q", out)
	}
	if !strings.Contains(out, "Multi-Head Attention") {
		t.Fatalf("match missing: %q", out)
	}
}

func TestSearchModels(t *testing.T) {
	out := Search("bert")
	if !strings.Contains(out, "Model matches (1)") || !strings.Contains(out, "BERT") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestSearchCaseInsensitive(t *testing.T) {
	if Search("RELU") != Search("relu") {
		t.Fatal("search should ignore case")
	}
}

func TestSearchNoMatches(t *testing.T) {
	out := Search("zzzzz")
	if out != "No matches found. Try a different keyword." {
		t.Fatalf("unexpected output: %q", out)
	}
	if Search("  ") != out {
		t.Fatal("blank query should report no matches")
	}
}

func TestTemplateLoadsOntoBoard(t *testing.T) {
	tpl := Templates["GPT (Decoder-only)"]

	b := canvas.NewBoard()
	b.ApplyTemplate(tpl.Instantiate())

	if len(b.Nodes) != len(tpl.Nodes) || len(b.Edges) != len(tpl.Edges) {
		t.Fatalf("template not applied: %d nodes, %d edges", len(b.Nodes), len(b.Edges))
	}
	seen := map[string]bool{}
	for _, n := range b.Nodes {
		if n.ID == "" || seen[n.ID] {
			t.Fatalf("template node id missing or repeated: %q", n.ID)
		}
		seen[n.ID] = true
	}
	if b.Nodes[0].Type != tpl.Nodes[0].Type || b.Nodes[0].Y != tpl.Nodes[0].Y {
		t.Fatalf("first node wrong: %+v", b.Nodes[0])
	}
}

func TestTemplateInstantiateCopiesProps(t *testing.T) {
	tpl := Templates["BERT (Encoder-only)"]
	nodes, _ := tpl.Instantiate()
	nodes[0].Props["dim"] = 1
	fresh, _ := tpl.Instantiate()
	if fresh[0].Props["dim"] != 768 {
		t.Fatal("template props were mutated through an instance")
	}
}

func TestTemplatesAreWellFormed(t *testing.T) {
	for name, tpl := range Templates {
		if len(tpl.Nodes) == 0 {
			t.Fatalf("template %q has no nodes", name)
		}
		for _, e := range tpl.Edges {
			if e[0] < 0 || e[1] < 0 || e[0] >= len(tpl.Nodes) || e[1] >= len(tpl.Nodes) || e[0] == e[1] {
				t.Fatalf("template %q has invalid edge %v", name, e)
			}
		}
		for _, n := range tpl.Nodes {
			if _, ok := Lookup(n.Type); !ok {
				t.Fatalf("template %q uses unknown module type %q", name, n.Type)
			}
		}
	}
}
