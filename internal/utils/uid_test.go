package utils

import (
	"strings"
	"testing"
)

func TestAllocateUnique(t *testing.T) {
	a := NewIDAllocator()
	first := a.Allocate("Multi-Head Attention")
	second := a.Allocate("Multi-Head Attention")
	if first == second {
		t.Fatalf("duplicate ids: %q", first)
	}
	if !strings.HasPrefix(first, "multi-head-attention-") {
		t.Fatalf("unexpected slug: %q", first)
	}
	if second != first+"-2" {
		t.Fatalf("collision suffix expected, got %q", second)
	}
}

func TestAllocateRespectsExisting(t *testing.T) {
	a := NewIDAllocator("linear-deadbeef")
	id := a.Allocate("Linear")
	if id == "linear-deadbeef" {
		t.Fatal("reserved id reused")
	}
}

func TestAllocateEmptyType(t *testing.T) {
	a := NewIDAllocator()
	id := a.Allocate("  ")
	if !strings.HasPrefix(id, "node-") {
		t.Fatalf("empty type should fall back to node slug: %q", id)
	}
}
