package ocr

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// Plain is the last-resort extractor. It pulls literal strings out of
// uncompressed PDF content streams; compressed documents yield nothing and
// the chain reports failure.
type Plain struct{}

func NewPlain() *Plain { return &Plain{} }

func (p *Plain) Name() string { return "plain" }

var pdfLiteral = regexp.MustCompile(`\(((?:[^()\\]|\\.)+)\)\s*Tj`)

func (p *Plain) Extract(ctx context.Context, pdf []byte) (Result, error) {
	matches := pdfLiteral.FindAllSubmatch(pdf, -1)
	if len(matches) == 0 {
		return Result{}, fmt.Errorf("no extractable text")
	}
	var b strings.Builder
	for _, m := range matches {
		b.WriteString(unescapePDF(string(m[1])))
		b.WriteByte(' ')
	}
	return Result{Text: strings.TrimSpace(b.String())}, nil
}

func unescapePDF(s string) string {
	replacer := strings.NewReplacer(
		`\(`, "(",
		`\)`, ")",
		`\\`, `\`,
		`\n`, "\n",
		`\r`, "",
		`\t`, "\t",
	)
	return replacer.Replace(s)
}
