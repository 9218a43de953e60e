// Package utils holds small helpers shared across the gateway.
package utils

import (
	"fmt"
	"hash/fnv"
	"strings"
	"unicode"
)

// IDAllocator hands out readable, collision-free node ids for imported
// graphs. An allocated id is "<slug>-<hash>" from the module type, or
// "<slug>-<hash>-N" when the same type repeats.
type IDAllocator struct {
	used    map[string]struct{}
	counter map[string]int
}

// NewIDAllocator reserves the given ids so imported nodes never collide
// with nodes already on the board.
func NewIDAllocator(existing ...string) *IDAllocator {
	a := &IDAllocator{
		used:    make(map[string]struct{}, len(existing)+8),
		counter: make(map[string]int, len(existing)+8),
	}
	for _, id := range existing {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		a.used[id] = struct{}{}
	}
	return a
}

// Allocate returns a fresh id derived from the module type.
func (a *IDAllocator) Allocate(moduleType string) string {
	if a == nil {
		a = NewIDAllocator()
	}
	base := baseID(moduleType)
	if _, ok := a.used[base]; !ok {
		a.used[base] = struct{}{}
		a.counter[base] = 1
		return base
	}
	n := a.counter[base]
	if n < 1 {
		n = 1
	}
	for {
		n++
		candidate := fmt.Sprintf("%s-%d", base, n)
		if _, exists := a.used[candidate]; exists {
			continue
		}
		a.used[candidate] = struct{}{}
		a.counter[base] = n
		return candidate
	}
}

func baseID(moduleType string) string {
	moduleType = strings.TrimSpace(moduleType)
	slug := slugifyASCII(moduleType)
	if slug == "" {
		slug = "node"
	}
	return fmt.Sprintf("%s-%s", slug, shortHashHex(moduleType))
}

func shortHashHex(s string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	sum := h.Sum64()
	return fmt.Sprintf("%08x", uint32(sum&0xffffffff))
}

func slugifyASCII(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	var b strings.Builder
	lastDash := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		return ""
	}
	return out
}
