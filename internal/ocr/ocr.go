// Package ocr extracts text and structure from uploaded PDFs. Extractors
// are tried in order: a dedicated OCR service when configured, then the
// multimodal model reading the PDF inline, then a crude byte-level scan.
package ocr

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Result is the structured output of a document extraction pass.
type Result struct {
	Text     string   `json:"text"`
	Tables   []string `json:"tables,omitempty"`
	Formulas []string `json:"formulas,omitempty"`
	Charts   []string `json:"charts,omitempty"`
	Pages    int      `json:"pages,omitempty"`
}

// Empty reports whether the extraction produced nothing usable.
func (r Result) Empty() bool {
	return strings.TrimSpace(r.Text) == "" && len(r.Tables) == 0 && len(r.Formulas) == 0
}

// Extractor turns a PDF into a Result.
type Extractor interface {
	Extract(ctx context.Context, pdf []byte) (Result, error)
	Name() string
}

// Chain tries each extractor in order and returns the first non-empty
// result. Per-extractor failures are collected, not fatal, unless every
// extractor fails.
type Chain struct {
	extractors []Extractor
}

func NewChain(extractors ...Extractor) *Chain {
	kept := make([]Extractor, 0, len(extractors))
	for _, e := range extractors {
		if e != nil {
			kept = append(kept, e)
		}
	}
	return &Chain{extractors: kept}
}

func (c *Chain) Name() string { return "chain" }

func (c *Chain) Extract(ctx context.Context, pdf []byte) (Result, error) {
	if c == nil || len(c.extractors) == 0 {
		return Result{}, errors.New("no extractors configured")
	}
	if len(pdf) == 0 {
		return Result{}, errors.New("document is empty")
	}

	var errs []error
	for _, e := range c.extractors {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		res, err := e.Extract(ctx, pdf)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", e.Name(), err))
			continue
		}
		if res.Empty() {
			errs = append(errs, fmt.Errorf("%s: empty result", e.Name()))
			continue
		}
		return res, nil
	}
	return Result{}, fmt.Errorf("all extractors failed: %w", errors.Join(errs...))
}
