package chat

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"modelpuzzle/internal/catalog"
)

// Bridge is the consumer side of the NDJSON stream. When the assistant
// endpoint is unreachable it degrades to the local catalog search, so the
// side panel always answers something. A structured error event from a
// reachable endpoint is a real failure and is not masked.
type Bridge struct {
	Endpoint string
	Client   *http.Client
}

func NewBridge(endpoint string) *Bridge {
	return &Bridge{
		Endpoint: strings.TrimSpace(endpoint),
		Client:   &http.Client{Timeout: 5 * time.Minute},
	}
}

type askRequest struct {
	ConversationID string          `json:"conversationId,omitempty"`
	Message        string          `json:"message"`
	Context        json.RawMessage `json:"context,omitempty"`
}

// Ask sends the message and streams deltas to onDelta. The full reply is
// returned once the stream completes. Fallback answers return ok=false.
func (b *Bridge) Ask(ctx context.Context, convID, message string, boardContext json.RawMessage, onDelta func(string)) (reply string, ok bool, err error) {
	body, err := json.Marshal(askRequest{ConversationID: convID, Message: message, Context: boardContext})
	if err != nil {
		return "", false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", false, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.Client.Do(req)
	if err != nil {
		return b.fallback(message, onDelta), false, nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return b.fallback(message, onDelta), false, nil
	}

	var full strings.Builder
	sc := bufio.NewScanner(resp.Body)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	completed := false
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var ev Event
		if err := json.Unmarshal(line, &ev); err != nil {
			continue
		}
		switch ev.Type {
		case EventDelta:
			full.WriteString(ev.Delta)
			if onDelta != nil {
				onDelta(ev.Delta)
			}
		case EventCompleted:
			completed = true
		case EventError:
			return "", false, fmt.Errorf("assistant error: %s", ev.Error)
		}
	}
	if err := sc.Err(); err != nil {
		// Stream broke mid-reply. Partial text is not a usable answer.
		return b.fallback(message, onDelta), false, nil
	}
	if !completed && full.Len() == 0 {
		return b.fallback(message, onDelta), false, nil
	}
	return full.String(), true, nil
}

func (b *Bridge) fallback(query string, onDelta func(string)) string {
	text := catalog.Search(query)
	if onDelta != nil {
		onDelta(text)
	}
	return text
}
