package ocr

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type stubExtractor struct {
	name string
	res  Result
	err  error
}

func (s stubExtractor) Name() string { return s.name }
func (s stubExtractor) Extract(ctx context.Context, pdf []byte) (Result, error) {
	return s.res, s.err
}

func TestChainFirstSuccessWins(t *testing.T) {
	c := NewChain(
		stubExtractor{name: "svc", err: errors.New("service down")},
		stubExtractor{name: "mm", res: Result{Text: "extracted"}},
		stubExtractor{name: "plain", res: Result{Text: "should not run"}},
	)
	res, err := c.Extract(context.Background(), []byte("%PDF"))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if res.Text != "extracted" {
		t.Fatalf("wrong extractor won: %q", res.Text)
	}
}

func TestChainSkipsEmptyResults(t *testing.T) {
	c := NewChain(
		stubExtractor{name: "svc", res: Result{}},
		stubExtractor{name: "mm", res: Result{Text: "good"}},
	)
	res, err := c.Extract(context.Background(), []byte("%PDF"))
	if err != nil || res.Text != "good" {
		t.Fatalf("empty result should not win: %+v %v", res, err)
	}
}

func TestChainAllFail(t *testing.T) {
	c := NewChain(
		stubExtractor{name: "svc", err: errors.New("down")},
		stubExtractor{name: "plain", err: errors.New("no text")},
	)
	_, err := c.Extract(context.Background(), []byte("%PDF"))
	if err == nil {
		t.Fatal("expected failure when every extractor fails")
	}
	if !strings.Contains(err.Error(), "svc") || !strings.Contains(err.Error(), "plain") {
		t.Fatalf("error should name the extractors: %v", err)
	}
}

func TestChainEmptyDocument(t *testing.T) {
	c := NewChain(stubExtractor{name: "svc", res: Result{Text: "x"}})
	if _, err := c.Extract(context.Background(), nil); err == nil {
		t.Fatal("empty document accepted")
	}
}

func TestPlainExtractsLiterals(t *testing.T) {
	pdf := []byte("1 0 obj\nBT (Hello) Tj (World) Tj ET\nendobj")
	res, err := NewPlain().Extract(context.Background(), pdf)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if res.Text != "Hello World" {
		t.Fatalf("unexpected text: %q", res.Text)
	}
}

func TestPlainCompressedStream(t *testing.T) {
	if _, err := NewPlain().Extract(context.Background(), []byte("binary gibberish")); err == nil {
		t.Fatal("expected failure with no literal text")
	}
}

func TestResultEmpty(t *testing.T) {
	if !(Result{}).Empty() {
		t.Fatal("zero result should be empty")
	}
	if (Result{Tables: []string{"|a|"}}).Empty() {
		t.Fatal("tables should count as content")
	}
}
