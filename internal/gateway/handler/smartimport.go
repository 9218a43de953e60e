package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"modelpuzzle/internal/blobstore"
	"modelpuzzle/internal/canvas"
	"modelpuzzle/internal/jobstore"
	"modelpuzzle/internal/smartimport"
)

const jobProcessTimeout = 10 * time.Minute

// SmartImportHandler turns code and documents into module graphs. Small
// documents run synchronously; big ones go through upload plus polling.
type SmartImportHandler struct {
	pipeline *smartimport.Pipeline
	jobs     *jobstore.Store
	blobs    *blobstore.Store

	maxDirectBytes int64
	maxUploadBytes int64
}

func NewSmartImportHandler(pipeline *smartimport.Pipeline, jobs *jobstore.Store, blobs *blobstore.Store, maxDirectBytes, maxUploadBytes int64) *SmartImportHandler {
	return &SmartImportHandler{
		pipeline:       pipeline,
		jobs:           jobs,
		blobs:          blobs,
		maxDirectBytes: maxDirectBytes,
		maxUploadBytes: maxUploadBytes,
	}
}

func (h *SmartImportHandler) HandleCode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var in struct {
		Input string `json:"input"`
		Code  string `json:"code"`
		URL   string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	input := strings.TrimSpace(in.Input)
	if input == "" {
		input = strings.TrimSpace(in.URL)
	}
	if input == "" {
		input = strings.TrimSpace(in.Code)
	}
	if input == "" {
		writeError(w, http.StatusBadRequest, "input is required")
		return
	}

	board, err := h.pipeline.ImportCode(r.Context(), input)
	if err != nil {
		writeImportError(w, http.StatusBadGateway, err)
		return
	}
	writeStructure(w, board)
}

// HandleDocument analyzes a PDF sent either as a multipart "file" field or
// directly in the request body. Payloads over the direct limit get a 413
// telling the client to use the upload flow instead.
func (h *SmartImportHandler) HandleDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	pdf, tooLarge, err := readDocument(r, h.maxDirectBytes)
	if tooLarge {
		writeTooLarge(w)
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(pdf) == 0 {
		writeError(w, http.StatusBadRequest, "document is required")
		return
	}

	board, err := h.pipeline.ImportDocument(r.Context(), pdf)
	if err != nil {
		writeImportError(w, http.StatusBadGateway, err)
		return
	}
	writeStructure(w, board)
}

// HandleUpload accepts a large PDF, parks it in blob storage, and kicks off
// background processing. The client polls the status endpoint with the
// returned job id.
func (h *SmartImportHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h.blobs == nil {
		writeError(w, http.StatusServiceUnavailable, "upload storage is not configured")
		return
	}
	if ct := r.Header.Get("Content-Type"); ct != "" &&
		!strings.HasPrefix(ct, "application/pdf") && !strings.HasPrefix(ct, "multipart/form-data") {
		writeError(w, http.StatusUnsupportedMediaType, "only PDF uploads are supported")
		return
	}
	pdf, tooLarge, err := readDocument(r, h.maxUploadBytes)
	if tooLarge {
		writeError(w, http.StatusRequestEntityTooLarge, "upload too large")
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(pdf) == 0 {
		writeError(w, http.StatusBadRequest, "document is required")
		return
	}

	blobURL, err := h.blobs.Upload(r.Context(), jobstore.NewJobID(), "application/pdf", pdf)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "store upload: "+err.Error())
		return
	}
	// The job is addressed by its blob location, so the background worker
	// needs nothing beyond the URL the client also sees.
	jobID, err := blobstore.DeriveJobID(blobURL)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "derive job id: "+err.Error())
		return
	}
	if _, err := h.jobs.Set(r.Context(), jobID, jobstore.Update{
		Status:   jobstore.StatusPending,
		Progress: jobstore.IntPtr(0),
		Message:  jobstore.StrPtr("Queued"),
	}); err != nil {
		writeError(w, http.StatusInternalServerError, "create job: "+err.Error())
		return
	}

	// Processing outlives the request; the poller watches the job record.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobProcessTimeout)
		defer cancel()
		h.pipeline.ProcessJob(ctx, jobID)
	}()
	log.Printf("[smartimport] job %s: accepted upload (%d bytes)", jobID, len(pdf))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"mode":    "async",
		"jobId":   jobID,
		"blobUrl": blobURL,
	})
}

func (h *SmartImportHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	jobID := strings.TrimSpace(r.URL.Query().Get("jobId"))
	if jobID == "" {
		writeError(w, http.StatusBadRequest, "jobId is required")
		return
	}

	job, ok, err := h.jobs.Get(r.Context(), jobID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "job not found or expired")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(job)
}

// readDocument reads the PDF payload from a multipart "file" field or the
// raw body, whichever the client sent, enforcing the given size limit.
func readDocument(r *http.Request, limit int64) (pdf []byte, tooLarge bool, err error) {
	if r.ContentLength > limit {
		return nil, true, nil
	}

	var src io.Reader = r.Body
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, _, ferr := r.FormFile("file")
		if ferr != nil {
			return nil, false, fmt.Errorf("multipart file field: %w", ferr)
		}
		defer file.Close()
		src = file
	}

	pdf, err = io.ReadAll(io.LimitReader(src, limit+1))
	if err != nil {
		return nil, false, fmt.Errorf("read document: %w", err)
	}
	if int64(len(pdf)) > limit {
		return nil, true, nil
	}
	return pdf, false, nil
}

func writeStructure(w http.ResponseWriter, board canvas.Board) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success":   true,
		"structure": board,
		"stats": map[string]int{
			"nodeCount": len(board.Nodes),
			"edgeCount": len(board.Edges),
		},
	})
}

func writeImportError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error":   err.Error(),
	})
}

func writeTooLarge(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusRequestEntityTooLarge)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error":           "document too large for direct import",
		"shouldUseUpload": true,
	})
}
