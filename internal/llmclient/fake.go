package llmclient

import (
	"context"
	"encoding/json"
	"errors"
)

// Fake is a canned-response client for tests.
type Fake struct {
	JSON      json.RawMessage
	PDFJSON   json.RawMessage
	TextParts []string
	Err       error

	GenerateCalls int
	StreamCalls   int
	LastPrompt    string
	LastUser      string
}

func (f *Fake) Name() string { return "fake" }
func (f *Fake) Close() error { return nil }

func (f *Fake) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	f.GenerateCalls++
	f.LastPrompt = prompt
	if f.Err != nil {
		return nil, f.Err
	}
	if len(f.JSON) == 0 {
		return nil, errors.New("fake: no JSON configured")
	}
	return f.JSON, nil
}

func (f *Fake) GenerateJSONFromPDF(ctx context.Context, prompt string, pdf []byte) (json.RawMessage, error) {
	f.GenerateCalls++
	f.LastPrompt = prompt
	if f.Err != nil {
		return nil, f.Err
	}
	if len(f.PDFJSON) > 0 {
		return f.PDFJSON, nil
	}
	if len(f.JSON) == 0 {
		return nil, errors.New("fake: no JSON configured")
	}
	return f.JSON, nil
}

func (f *Fake) StreamText(ctx context.Context, system, user string, onDelta func(delta string)) error {
	f.StreamCalls++
	f.LastUser = user
	if f.Err != nil {
		return f.Err
	}
	for _, p := range f.TextParts {
		if onDelta != nil {
			onDelta(p)
		}
	}
	return nil
}
