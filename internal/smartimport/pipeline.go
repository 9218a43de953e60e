package smartimport

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"modelpuzzle/internal/blobstore"
	"modelpuzzle/internal/canvas"
	"modelpuzzle/internal/jobstore"
	"modelpuzzle/internal/llmclient"
	"modelpuzzle/internal/ocr"
	"modelpuzzle/internal/util/jsonutil"
)

// Pipeline orchestrates code and document imports.
type Pipeline struct {
	llm   llmclient.Client
	ocr   ocr.Extractor
	jobs  *jobstore.Store
	blobs *blobstore.Store
}

func NewPipeline(llm llmclient.Client, extractor ocr.Extractor, jobs *jobstore.Store, blobs *blobstore.Store) *Pipeline {
	return &Pipeline{llm: llm, ocr: extractor, jobs: jobs, blobs: blobs}
}

// ImportCode analyzes either a GitHub URL or pasted source text and returns
// the extracted graph.
func (p *Pipeline) ImportCode(ctx context.Context, input string) (canvas.Board, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return canvas.Board{}, fmt.Errorf("code or repository url required")
	}

	source := input
	path := ""
	if looksLikeGitHubURL(input) {
		src, err := ParseGitHubURL(input)
		if err != nil {
			return canvas.Board{}, err
		}
		source, path, err = NewFetcher().Fetch(ctx, src)
		if err != nil {
			return canvas.Board{}, err
		}
	}

	raw, err := p.llm.GenerateJSON(ctx, CodePrompt(path, source), nil)
	if err != nil {
		return canvas.Board{}, fmt.Errorf("analyze code: %w", err)
	}
	return Normalize(raw)
}

// ImportDocument runs the OCR chain and the model analysis synchronously.
// Used for documents small enough to travel in the request body.
func (p *Pipeline) ImportDocument(ctx context.Context, pdf []byte) (canvas.Board, error) {
	if len(pdf) == 0 {
		return canvas.Board{}, fmt.Errorf("document is empty")
	}
	res, err := p.ocr.Extract(ctx, pdf)
	if err != nil {
		return canvas.Board{}, fmt.Errorf("extract document: %w", err)
	}
	raw, err := p.llm.GenerateJSON(ctx, DocumentPrompt(res), nil)
	if err != nil {
		return canvas.Board{}, fmt.Errorf("analyze document: %w", err)
	}
	return Normalize(raw)
}

// ProcessJob is the background worker for uploaded documents. Progress
// lands in the job store at each stage; the poller reads it out.
func (p *Pipeline) ProcessJob(ctx context.Context, jobID string) {
	setStage := func(progress int, message string) {
		_, err := p.jobs.Set(ctx, jobID, jobstore.Update{
			Status:   jobstore.StatusProcessing,
			Progress: jobstore.IntPtr(progress),
			Message:  jobstore.StrPtr(message),
		})
		if err != nil {
			log.Printf("[smartimport] job %s: record stage: %v", jobID, err)
		}
	}
	fail := func(stage string, err error) {
		log.Printf("[smartimport] job %s: %s: %v", jobID, stage, err)
		_, _ = p.jobs.Set(ctx, jobID, jobstore.Update{
			Status: jobstore.StatusError,
			Error:  jobstore.StrPtr(err.Error()),
		})
	}

	started := time.Now()
	setStage(10, "Fetching document")
	pdf, err := p.blobs.Fetch(ctx, jobID)
	if err != nil {
		fail("fetch document", err)
		return
	}

	setStage(30, "Extracting document content")
	res, err := p.ocr.Extract(ctx, pdf)
	if err != nil {
		fail("extract document", err)
		return
	}

	setStage(60, "Analyzing architecture")
	raw, err := p.llm.GenerateJSON(ctx, DocumentPrompt(res), nil)
	if err != nil {
		fail("analyze document", err)
		return
	}
	board, err := Normalize(raw)
	if err != nil {
		fail("normalize graph", err)
		return
	}

	result, err := jsonutil.MarshalNoEscape(board)
	if err != nil {
		fail("encode result", err)
		return
	}

	_, err = p.jobs.Set(ctx, jobID, jobstore.Update{
		Status:   jobstore.StatusCompleted,
		Progress: jobstore.IntPtr(100),
		Message:  jobstore.StrPtr("Completed"),
		Result:   result,
	})
	if err != nil {
		log.Printf("[smartimport] job %s: record completion: %v", jobID, err)
		return
	}

	if err := p.blobs.Delete(ctx, jobID); err != nil {
		log.Printf("[smartimport] job %s: delete upload: %v", jobID, err)
	}
	log.Printf("[smartimport] job %s: completed in %s (%d nodes, %d edges)",
		jobID, time.Since(started).Round(time.Millisecond), len(board.Nodes), len(board.Edges))
}

func looksLikeGitHubURL(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.HasPrefix(s, "https://github.com/") ||
		strings.HasPrefix(s, "http://github.com/") ||
		strings.HasPrefix(s, "github.com/")
}
