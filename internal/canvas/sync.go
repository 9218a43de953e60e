package canvas

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"
)

// DebounceDelay is the quiet window after the last edit before a save is
// issued. Earlier pending saves are superseded, not queued.
const DebounceDelay = 600 * time.Millisecond

// RemoteStore is the remote key-value contract for project state.
type RemoteStore interface {
	LoadState(ctx context.Context, projectID string) (json.RawMessage, error)
	SaveState(ctx context.Context, projectID string, data json.RawMessage) error
}

// Mirror is the local best-effort copy of project state. Implementations
// swallow quota and I/O failures.
type Mirror interface {
	Load(projectID string) ([]byte, bool)
	Save(projectID string, data []byte)
}

// Rememberer stores the last used project id so a returning user without an
// explicit id resumes the same project.
type Rememberer interface {
	LastProjectID() string
	RememberProjectID(id string)
}

// ResolveProjectID picks the active project id: the explicit one when
// given, else the remembered one, else a freshly generated id. The chosen
// id is always remembered.
func ResolveProjectID(explicit string, mem Rememberer) string {
	id := strings.TrimSpace(explicit)
	if id == "" && mem != nil {
		id = strings.TrimSpace(mem.LastProjectID())
	}
	if id == "" {
		id = NewProjectID()
	}
	if mem != nil {
		mem.RememberProjectID(id)
	}
	return id
}

// Syncer persists board state with a trailing-edge debounce. Remote writes
// are fire-and-forget; failures are swallowed in favor of uninterrupted
// editing.
type Syncer struct {
	remote    RemoteStore
	mirror    Mirror
	projectID string
	delay     time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending json.RawMessage
}

func NewSyncer(remote RemoteStore, mirror Mirror, projectID string) *Syncer {
	return &Syncer{
		remote:    remote,
		mirror:    mirror,
		projectID: strings.TrimSpace(projectID),
		delay:     DebounceDelay,
	}
}

// SetDelay overrides the debounce window, mainly for tests.
func (s *Syncer) SetDelay(d time.Duration) {
	if s == nil || d <= 0 {
		return
	}
	s.mu.Lock()
	s.delay = d
	s.mu.Unlock()
}

// Load restores project state: remote first, local mirror on any failure or
// absence, empty board on total absence.
func (s *Syncer) Load(ctx context.Context) (*Board, error) {
	board := NewBoard()
	if s == nil || s.projectID == "" {
		return board, nil
	}
	if s.remote != nil {
		if raw, err := s.remote.LoadState(ctx, s.projectID); err == nil && len(raw) > 0 {
			if err := board.ImportJSON(raw); err == nil {
				return board, nil
			}
		}
	}
	if s.mirror != nil {
		if raw, ok := s.mirror.Load(s.projectID); ok {
			_ = board.ImportJSON(raw)
		}
	}
	return board, nil
}

// NotifyChange schedules a save of the given board snapshot after the
// debounce window. A new change resets the timer, so only the final state
// of a burst is written.
func (s *Syncer) NotifyChange(board *Board) {
	if s == nil || board == nil || s.projectID == "" {
		return
	}
	raw, err := board.ExportJSON()
	if err != nil {
		return
	}
	s.mu.Lock()
	s.pending = raw
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, s.flush)
	s.mu.Unlock()
}

// Flush writes any pending snapshot immediately.
func (s *Syncer) Flush() {
	if s == nil {
		return
	}
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()
	s.flush()
}

func (s *Syncer) flush() {
	s.mu.Lock()
	raw := s.pending
	s.pending = nil
	s.mu.Unlock()
	if len(raw) == 0 {
		return
	}
	if s.remote != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		_ = s.remote.SaveState(ctx, s.projectID, raw)
		cancel()
	}
	if s.mirror != nil {
		s.mirror.Save(s.projectID, raw)
	}
}

// Close stops the debounce timer and flushes the last pending save.
func (s *Syncer) Close() {
	s.Flush()
}
