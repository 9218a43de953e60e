// Package chat streams assistant replies about the board. The wire format
// is NDJSON, one event per line, flushed as deltas arrive.
package chat

import (
	"encoding/json"
	"io"
	"net/http"
)

// Event types on the NDJSON stream.
const (
	EventDelta     = "response.output_text.delta"
	EventCompleted = "response.completed"
	EventError     = "response.error"
)

// Event is one NDJSON line.
type Event struct {
	Type  string `json:"type"`
	Delta string `json:"delta,omitempty"`
	Error string `json:"error,omitempty"`
}

// StreamWriter emits events as NDJSON, flushing after each line so the
// client sees deltas as they happen.
type StreamWriter struct {
	w       io.Writer
	flusher http.Flusher
	enc     *json.Encoder
}

func NewStreamWriter(w io.Writer) *StreamWriter {
	sw := &StreamWriter{w: w, enc: json.NewEncoder(w)}
	if f, ok := w.(http.Flusher); ok {
		sw.flusher = f
	}
	return sw
}

func (s *StreamWriter) Write(ev Event) error {
	if err := s.enc.Encode(ev); err != nil {
		return err
	}
	if s.flusher != nil {
		s.flusher.Flush()
	}
	return nil
}

func (s *StreamWriter) Delta(text string) error {
	return s.Write(Event{Type: EventDelta, Delta: text})
}

func (s *StreamWriter) Completed() error {
	return s.Write(Event{Type: EventCompleted})
}

func (s *StreamWriter) Fail(msg string) error {
	return s.Write(Event{Type: EventError, Error: msg})
}
