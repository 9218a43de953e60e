// Package jsonutil decodes JSON as models actually emit it: sometimes
// fenced in markdown, sometimes double-encoded as a quoted string.
package jsonutil

import (
	"bytes"
	"encoding/json"
	"errors"
)

// StripFences removes a surrounding markdown code fence, with or without a
// language tag. Input without a fence passes through untouched.
func StripFences(raw []byte) []byte {
	trimmed := bytes.TrimSpace(raw)
	if !bytes.HasPrefix(trimmed, []byte("```")) {
		return trimmed
	}
	trimmed = trimmed[3:]
	if i := bytes.IndexByte(trimmed, '\n'); i >= 0 {
		// Drop the language tag line ("json", "JSON", or empty).
		trimmed = trimmed[i+1:]
	}
	trimmed = bytes.TrimSpace(trimmed)
	trimmed = bytes.TrimSuffix(trimmed, []byte("```"))
	return bytes.TrimSpace(trimmed)
}

// UnmarshalFlex decodes model output into v with best effort: fences are
// stripped first, and a payload double-encoded as a JSON string is
// unwrapped up to two levels.
func UnmarshalFlex(raw []byte, v any) error {
	raw = StripFences(raw)
	if len(raw) == 0 {
		return errors.New("empty payload")
	}
	if err := json.Unmarshal(raw, v); err == nil {
		return nil
	}
	for i := 0; i < 2; i++ {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			break
		}
		raw = StripFences([]byte(s))
		if err := json.Unmarshal(raw, v); err == nil {
			return nil
		}
	}
	return json.Unmarshal(raw, v)
}

// UnmarshalRaw accepts json.RawMessage directly.
func UnmarshalRaw(raw json.RawMessage, v any) error {
	return UnmarshalFlex([]byte(raw), v)
}

// MarshalNoEscape encodes v without escaping <, > and & so stored graphs
// stay readable.
func MarshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
