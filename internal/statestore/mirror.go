package statestore

import (
	"os"
	"path/filepath"
	"strings"
)

// Mirror is the local best-effort copy of project state, one JSON file per
// project. It never expires and swallows every I/O failure, mirroring the
// browser localStorage fallback.
type Mirror struct {
	root string
}

func NewMirror(root string) *Mirror {
	return &Mirror{root: strings.TrimSpace(root)}
}

func (m *Mirror) path(projectID string) (string, bool) {
	if m == nil || m.root == "" {
		return "", false
	}
	projectID = strings.TrimSpace(projectID)
	if projectID == "" || projectID != filepath.Base(projectID) {
		return "", false
	}
	return filepath.Join(m.root, projectID+".json"), true
}

func (m *Mirror) Load(projectID string) ([]byte, bool) {
	p, ok := m.path(projectID)
	if !ok {
		return nil, false
	}
	raw, err := os.ReadFile(p)
	if err != nil || len(raw) == 0 {
		return nil, false
	}
	return raw, true
}

func (m *Mirror) Save(projectID string, data []byte) {
	p, ok := m.path(projectID)
	if !ok || len(data) == 0 {
		return
	}
	if err := os.MkdirAll(m.root, 0o755); err != nil {
		return
	}
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return
	}
	_ = os.Rename(tmp, p)
}

// LastProjectID and RememberProjectID persist the most recently used
// project id, so a returning caller without an explicit id resumes it.
func (m *Mirror) LastProjectID() string {
	if m == nil || m.root == "" {
		return ""
	}
	raw, err := os.ReadFile(filepath.Join(m.root, "last_project"))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(raw))
}

func (m *Mirror) RememberProjectID(id string) {
	if m == nil || m.root == "" || strings.TrimSpace(id) == "" {
		return
	}
	if err := os.MkdirAll(m.root, 0o755); err != nil {
		return
	}
	_ = os.WriteFile(filepath.Join(m.root, "last_project"), []byte(strings.TrimSpace(id)), 0o644)
}
