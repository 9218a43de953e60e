// Package llmclient wraps the model API behind a small interface so the
// import pipeline and the chat bridge can be tested against a fake.
package llmclient

import (
	"context"
	"encoding/json"
	"errors"
)

var ErrInvalidJSON = errors.New("invalid json from LLM")

// Client is the surface the rest of the gateway depends on.
type Client interface {
	// GenerateJSON asks for application/json output and returns the raw
	// model response.
	GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error)

	// StreamText generates a plain-text reply, invoking onDelta for each
	// incremental chunk as it arrives.
	StreamText(ctx context.Context, system, user string, onDelta func(delta string)) error

	Name() string
	Close() error
}

// DocumentReader is implemented by clients that accept an inline PDF
// alongside the prompt.
type DocumentReader interface {
	GenerateJSONFromPDF(ctx context.Context, prompt string, pdf []byte) (json.RawMessage, error)
}
