// Package handler holds the gateway's HTTP handlers. All endpoints speak
// plain JSON except the chat stream, which is NDJSON.
package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"modelpuzzle/internal/statestore"
)

// StateHandler serves project save/load. Every save refreshes the remote
// record's 30-day expiry.
type StateHandler struct {
	store  *statestore.Store
	mirror *statestore.Mirror
}

func NewStateHandler(store *statestore.Store, mirror *statestore.Mirror) *StateHandler {
	return &StateHandler{store: store, mirror: mirror}
}

func (h *StateHandler) HandleLoad(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	projectID := strings.TrimSpace(r.URL.Query().Get("projectId"))
	if projectID == "" {
		writeError(w, http.StatusBadRequest, "projectId is required")
		return
	}

	data, err := h.store.LoadState(r.Context(), projectID)
	if err != nil || data == nil {
		// Remote miss or failure falls back to the local mirror.
		if raw, ok := h.mirror.Load(projectID); ok {
			data = raw
		}
	}
	if data != nil {
		h.mirror.RememberProjectID(projectID)
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"projectId": projectID,
		"data":      data,
	})
}

func (h *StateHandler) HandleSave(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var in struct {
		ProjectID string          `json:"projectId"`
		Data      json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	projectID := strings.TrimSpace(in.ProjectID)
	if projectID == "" {
		writeError(w, http.StatusBadRequest, "projectId is required")
		return
	}
	if len(in.Data) == 0 {
		writeError(w, http.StatusBadRequest, "data is required")
		return
	}

	// The mirror write happens regardless of the remote outcome, so a
	// remote outage never loses work.
	h.mirror.Save(projectID, in.Data)
	h.mirror.RememberProjectID(projectID)

	if err := h.store.SaveState(r.Context(), projectID, in.Data); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
}
