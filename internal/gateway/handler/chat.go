package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"modelpuzzle/internal/chat"
	"modelpuzzle/internal/convstore"
)

// ChatHandler streams assistant replies and serves conversation history.
type ChatHandler struct {
	svc *chat.Service
}

func NewChatHandler(svc *chat.Service) *ChatHandler {
	return &ChatHandler{svc: svc}
}

// HandleChat answers a message as an NDJSON stream of delta events.
func (h *ChatHandler) HandleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var in struct {
		ConversationID string              `json:"conversationId"`
		Message        string              `json:"message"`
		Messages       []convstore.Message `json:"messages"`
		Context        json.RawMessage     `json:"context"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	message := strings.TrimSpace(in.Message)
	if message == "" {
		// Clients that send a full transcript want an answer to the
		// latest user turn.
		for i := len(in.Messages) - 1; i >= 0; i-- {
			if in.Messages[i].Role == "user" && strings.TrimSpace(in.Messages[i].Content) != "" {
				message = strings.TrimSpace(in.Messages[i].Content)
				break
			}
		}
	}
	if message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	out := chat.NewStreamWriter(w)
	h.svc.Stream(r.Context(), strings.TrimSpace(in.ConversationID), message, in.Context, out)
}

// HandleAppend stores turns the client produced locally, like fallback
// answers from the offline search.
func (h *ChatHandler) HandleAppend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var in struct {
		ConversationID string              `json:"conversationId"`
		Messages       []convstore.Message `json:"messages"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	convID := strings.TrimSpace(in.ConversationID)
	if convID == "" {
		writeError(w, http.StatusBadRequest, "conversationId is required")
		return
	}
	if len(in.Messages) == 0 {
		writeError(w, http.StatusBadRequest, "messages are required")
		return
	}
	for _, m := range in.Messages {
		if m.Role != "user" && m.Role != "assistant" {
			writeError(w, http.StatusBadRequest, "role must be user or assistant")
			return
		}
	}

	if err := h.svc.Append(r.Context(), convID, in.Messages...); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "error": err.Error()})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
}

func (h *ChatHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	convID := strings.TrimSpace(r.URL.Query().Get("conversationId"))
	if convID == "" {
		writeError(w, http.StatusBadRequest, "conversationId is required")
		return
	}

	msgs, err := h.svc.History(r.Context(), convID)
	if err != nil {
		// History degrades to an empty transcript so the panel still
		// renders.
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"messages": []convstore.Message{},
			"error":    err.Error(),
		})
		return
	}
	if msgs == nil {
		msgs = []convstore.Message{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"conversationId": convID,
		"messages":       msgs,
	})
}
