package handler

import (
	"context"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	boardWSWriteWait = 10 * time.Second
	boardWSPongWait  = 60 * time.Second
	boardWSPingEvery = (boardWSPongWait * 9) / 10
)

var boardWSUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

// BoardWSHandler relays board updates between clients editing the same
// project. The gateway does not interpret the payloads; it fans each
// message out to the other members of the project room.
type BoardWSHandler struct {
	mu    sync.Mutex
	rooms map[string]map[*boardClient]struct{}
}

type boardClient struct {
	send chan []byte
}

func NewBoardWSHandler() *BoardWSHandler {
	return &BoardWSHandler{rooms: make(map[string]map[*boardClient]struct{})}
}

func (h *BoardWSHandler) join(projectID string, c *boardClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[projectID]
	if !ok {
		room = make(map[*boardClient]struct{})
		h.rooms[projectID] = room
	}
	room[c] = struct{}{}
}

func (h *BoardWSHandler) leave(projectID string, c *boardClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[projectID]
	if !ok {
		return
	}
	delete(room, c)
	if len(room) == 0 {
		delete(h.rooms, projectID)
	}
}

func (h *BoardWSHandler) broadcast(projectID string, from *boardClient, msg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.rooms[projectID] {
		if c == from {
			continue
		}
		select {
		case c.send <- msg:
		default:
			// Slow consumer; drop the update rather than block the room.
		}
	}
}

func (h *BoardWSHandler) HandleBoardWS(w http.ResponseWriter, r *http.Request) {
	projectID := strings.TrimSpace(r.URL.Query().Get("projectId"))
	if projectID == "" {
		writeError(w, http.StatusBadRequest, "projectId is required")
		return
	}

	conn, err := boardWSUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	if err := conn.SetReadDeadline(time.Now().Add(boardWSPongWait)); err != nil {
		log.Printf("[ws] board %s: set read deadline: %v", projectID, err)
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(boardWSPongWait))
	})

	client := &boardClient{send: make(chan []byte, 32)}
	h.join(projectID, client)
	defer h.leave(projectID, client)

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		ticker := time.NewTicker(boardWSPingEvery)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-client.send:
				if err := conn.SetWriteDeadline(time.Now().Add(boardWSWriteWait)); err != nil {
					return
				}
				if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
					return
				}
			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(boardWSWriteWait)); err != nil {
					return
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	for {
		msgType, msg, err := conn.ReadMessage()
		if err != nil {
			break
		}
		if msgType != websocket.TextMessage || len(msg) == 0 {
			continue
		}
		h.broadcast(projectID, client, msg)
	}

	cancel()
	<-writerDone
}
