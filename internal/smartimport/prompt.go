package smartimport

import (
	"fmt"
	"strings"

	"modelpuzzle/internal/catalog"
	"modelpuzzle/internal/ocr"
)

// Source text beyond this cap is truncated before prompting; model files
// bigger than this carry the architecture in the first portion anyway.
const maxPromptSource = 15 * 1024

const graphShape = `Return ONLY a JSON object of this exact shape:
{
  "nodes": [{"id": "0", "type": "<module type>", "props": {}, "notes": ""}],
  "edges": [[0, 1]],
  "meta": {"name": "<model name>", "notes": ""}
}
Edges are pairs of node indexes, source first. Use only these module types:
%s
Pick the closest type when nothing matches exactly. Fill props with the
hyperparameters you can read off (dim, heads, layers, dropout rate).`

func typeVocabulary() string {
	names := make([]string, 0, len(catalog.ModuleTypes))
	for _, mt := range catalog.ModuleTypes {
		names = append(names, mt.Type)
	}
	return strings.Join(names, ", ")
}

// CodePrompt builds the extraction prompt for a model source file.
func CodePrompt(path, source string) string {
	if len(source) > maxPromptSource {
		source = source[:maxPromptSource]
	}
	var b strings.Builder
	b.WriteString("You are reading a neural network implementation. Identify the architecture as an ordered graph of modules.\n\n")
	fmt.Fprintf(&b, graphShape, typeVocabulary())
	b.WriteString("\n\n[SOURCE")
	if strings.TrimSpace(path) != "" {
		b.WriteString(": " + strings.TrimSpace(path))
	}
	b.WriteString("]\n")
	b.WriteString(source)
	return b.String()
}

// DocumentPrompt builds the extraction prompt from OCR output. Tables and
// formulas get their own sections so hyperparameters survive the trip.
func DocumentPrompt(res ocr.Result) string {
	var b strings.Builder
	b.WriteString("You are reading a machine learning paper. Identify the model architecture it proposes as an ordered graph of modules.\n\n")
	fmt.Fprintf(&b, graphShape, typeVocabulary())

	text := res.Text
	if len(text) > maxPromptSource {
		text = text[:maxPromptSource]
	}
	b.WriteString("\n\n[PAPER TEXT]\n")
	b.WriteString(text)

	if len(res.Tables) > 0 {
		b.WriteString("\n\n[TABLES]\n")
		for _, t := range res.Tables {
			b.WriteString(t)
			b.WriteString("\n")
		}
	}
	if len(res.Formulas) > 0 {
		b.WriteString("\n\n[FORMULAS]\n")
		for _, f := range res.Formulas {
			b.WriteString(f)
			b.WriteString("\n")
		}
	}
	return b.String()
}
