package ocr

import (
	"context"
	"encoding/json"
	"fmt"

	"modelpuzzle/internal/llmclient"
)

const extractPrompt = `Read the attached research paper and return JSON with this exact shape:
{
  "text": "full plain-text content, reading order preserved",
  "tables": ["each table rendered as markdown"],
  "formulas": ["each display equation in LaTeX"],
  "charts": ["one-sentence description of each figure"],
  "pages": 0
}
Return only the JSON object.`

// Multimodal extracts document structure by handing the PDF directly to a
// model that reads PDFs natively.
type Multimodal struct {
	reader llmclient.DocumentReader
}

func NewMultimodal(reader llmclient.DocumentReader) *Multimodal {
	return &Multimodal{reader: reader}
}

func (m *Multimodal) Name() string { return "multimodal" }

func (m *Multimodal) Extract(ctx context.Context, pdf []byte) (Result, error) {
	if m == nil || m.reader == nil {
		return Result{}, fmt.Errorf("no document reader configured")
	}
	raw, err := m.reader.GenerateJSONFromPDF(ctx, extractPrompt, pdf)
	if err != nil {
		return Result{}, err
	}
	var res Result
	if err := json.Unmarshal(raw, &res); err != nil {
		return Result{}, fmt.Errorf("decode extraction: %w", err)
	}
	return res, nil
}
