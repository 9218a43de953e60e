package canvas

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeRemote struct {
	mu    sync.Mutex
	saves []json.RawMessage
	state json.RawMessage
	fail  bool
}

func (f *fakeRemote) LoadState(ctx context.Context, projectID string) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return nil, errors.New("remote down")
	}
	return f.state, nil
}

func (f *fakeRemote) SaveState(ctx context.Context, projectID string, data json.RawMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("remote down")
	}
	f.saves = append(f.saves, data)
	return nil
}

func (f *fakeRemote) saveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saves)
}

type fakeMirror struct {
	mu   sync.Mutex
	data map[string][]byte
	last string
}

func newFakeMirror() *fakeMirror {
	return &fakeMirror{data: make(map[string][]byte)}
}

func (m *fakeMirror) Load(projectID string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.data[projectID]
	return raw, ok
}

func (m *fakeMirror) Save(projectID string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[projectID] = data
}

func (m *fakeMirror) LastProjectID() string { return m.last }
func (m *fakeMirror) RememberProjectID(id string) { m.last = id }

func TestDebouncedSaveCollapsesBurst(t *testing.T) {
	remote := &fakeRemote{}
	mirror := newFakeMirror()
	s := NewSyncer(remote, mirror, "p1")
	s.SetDelay(30 * time.Millisecond)

	board := NewBoard()
	for i := 0; i < 5; i++ {
		board.AddNode(Node{ID: NewNodeID(), Type: "Linear"})
		s.NotifyChange(board)
	}
	if remote.saveCount() != 0 {
		t.Fatalf("save fired before the quiet window: %d", remote.saveCount())
	}

	time.Sleep(150 * time.Millisecond)
	if got := remote.saveCount(); got != 1 {
		t.Fatalf("burst should collapse into one save, got %d", got)
	}

	// The written snapshot is the final state of the burst.
	restored := NewBoard()
	if err := restored.ImportJSON(remote.saves[0]); err != nil {
		t.Fatalf("import saved state: %v", err)
	}
	if len(restored.Nodes) != 5 {
		t.Fatalf("stale snapshot written: %d nodes", len(restored.Nodes))
	}
	if _, ok := mirror.Load("p1"); !ok {
		t.Fatal("mirror not written")
	}
}

func TestFlushWritesImmediately(t *testing.T) {
	remote := &fakeRemote{}
	s := NewSyncer(remote, nil, "p1")

	board := NewBoard()
	board.AddNode(Node{ID: "a", Type: "Linear"})
	s.NotifyChange(board)
	s.Flush()

	if remote.saveCount() != 1 {
		t.Fatalf("flush should write pending state, got %d saves", remote.saveCount())
	}
	// Nothing pending, second flush is a no-op.
	s.Flush()
	if remote.saveCount() != 1 {
		t.Fatalf("empty flush wrote again: %d", remote.saveCount())
	}
}

func TestLoadFallsBackToMirror(t *testing.T) {
	board := NewBoard()
	board.AddNode(Node{ID: "a", Type: "Tokenizer"})
	raw, _ := board.ExportJSON()

	mirror := newFakeMirror()
	mirror.Save("p1", raw)

	s := NewSyncer(&fakeRemote{fail: true}, mirror, "p1")
	got, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got.Nodes) != 1 || got.Nodes[0].ID != "a" {
		t.Fatalf("mirror state not restored: %+v", got.Nodes)
	}
}

func TestLoadPrefersRemote(t *testing.T) {
	remoteBoard := NewBoard()
	remoteBoard.AddNode(Node{ID: "remote", Type: "Linear"})
	remoteRaw, _ := remoteBoard.ExportJSON()

	mirror := newFakeMirror()
	mirror.Save("p1", []byte(`{"nodes":[{"id":"local","type":"ReLU"}],"edges":[],"meta":{}}`))

	s := NewSyncer(&fakeRemote{state: remoteRaw}, mirror, "p1")
	got, _ := s.Load(context.Background())
	if len(got.Nodes) != 1 || got.Nodes[0].ID != "remote" {
		t.Fatalf("remote state should win: %+v", got.Nodes)
	}
}

func TestResolveProjectID(t *testing.T) {
	mem := newFakeMirror()

	if got := ResolveProjectID("abc123", mem); got != "abc123" {
		t.Fatalf("explicit id should win, got %q", got)
	}
	if mem.LastProjectID() != "abc123" {
		t.Fatalf("explicit id not remembered: %q", mem.LastProjectID())
	}

	if got := ResolveProjectID("", mem); got != "abc123" {
		t.Fatalf("remembered id should be reused, got %q", got)
	}

	fresh := newFakeMirror()
	got := ResolveProjectID("", fresh)
	if got == "" {
		t.Fatal("expected a generated id")
	}
	if fresh.LastProjectID() != got {
		t.Fatalf("generated id not remembered: %q vs %q", fresh.LastProjectID(), got)
	}
}
