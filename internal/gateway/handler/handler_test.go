package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modelpuzzle/internal/chat"
	"modelpuzzle/internal/convstore"
	"modelpuzzle/internal/jobstore"
	"modelpuzzle/internal/llmclient"
	"modelpuzzle/internal/smartimport"
	"modelpuzzle/internal/statestore"
)

func newStateHandler(t *testing.T) *StateHandler {
	t.Helper()
	return NewStateHandler(statestore.NewMemory(time.Minute), statestore.NewMirror(t.TempDir()))
}

func TestStateSaveThenLoad(t *testing.T) {
	h := newStateHandler(t)

	body := `{"projectId":"p1","data":{"nodes":[{"id":"a","type":"Linear","x":80,"y":80}],"edges":[],"meta":{"name":"x"}}}`
	rec := httptest.NewRecorder()
	h.HandleSave(rec, httptest.NewRequest(http.MethodPost, "/api/state/save", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.HandleLoad(rec, httptest.NewRequest(http.MethodGet, "/api/state/load?projectId=p1", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		ProjectID string          `json:"projectId"`
		Data      json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "p1", out.ProjectID)
	assert.Contains(t, string(out.Data), `"id":"a"`)
}

func TestStateLoadUnknownProject(t *testing.T) {
	h := newStateHandler(t)
	rec := httptest.NewRecorder()
	h.HandleLoad(rec, httptest.NewRequest(http.MethodGet, "/api/state/load?projectId=nope", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "null", strings.TrimSpace(string(out.Data)))
}

func TestStateSaveValidation(t *testing.T) {
	h := newStateHandler(t)
	for _, body := range []string{
		`{"data":{"nodes":[]}}`,
		`{"projectId":"p1"}`,
		`not json`,
	} {
		rec := httptest.NewRecorder()
		h.HandleSave(rec, httptest.NewRequest(http.MethodPost, "/api/state/save", strings.NewReader(body)))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body: %s", body)
	}
}

func TestStateMethodGuards(t *testing.T) {
	h := newStateHandler(t)
	rec := httptest.NewRecorder()
	h.HandleLoad(rec, httptest.NewRequest(http.MethodPost, "/api/state/load", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = httptest.NewRecorder()
	h.HandleSave(rec, httptest.NewRequest(http.MethodGet, "/api/state/save", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func newImportHandler(t *testing.T, llmJSON string) (*SmartImportHandler, *jobstore.Store) {
	t.Helper()
	jobs := jobstore.NewMemory(time.Minute)
	fake := &llmclient.Fake{JSON: json.RawMessage(llmJSON)}
	pipeline := smartimport.NewPipeline(fake, nil, jobs, nil)
	return NewSmartImportHandler(pipeline, jobs, nil, 4<<20, 500<<20), jobs
}

func TestImportCodeEndpoint(t *testing.T) {
	h, _ := newImportHandler(t, `{"nodes":[{"type":"Linear"},{"type":"ReLU"}],"edges":[[0,1]]}`)

	body := `{"input":"import torch.nn as nn\nclass Net(nn.Module): ..."}`
	rec := httptest.NewRecorder()
	h.HandleCode(rec, httptest.NewRequest(http.MethodPost, "/api/smart-import/code", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Success   bool `json:"success"`
		Structure struct {
			Nodes []json.RawMessage `json:"nodes"`
			Edges [][2]int          `json:"edges"`
		} `json:"structure"`
		Stats struct {
			NodeCount int `json:"nodeCount"`
			EdgeCount int `json:"edgeCount"`
		} `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.True(t, out.Success)
	assert.Len(t, out.Structure.Nodes, 2)
	assert.Equal(t, [2]int{0, 1}, out.Structure.Edges[0])
	assert.Equal(t, 2, out.Stats.NodeCount)
}

func TestChatAcceptsTranscriptShape(t *testing.T) {
	h := newChatHandler(t, &llmclient.Fake{TextParts: []string{"sure"}})

	body := `{"conversationId":"c2","messages":[{"role":"user","content":"first"},{"role":"assistant","content":"a"},{"role":"user","content":"latest question"}]}`
	rec := httptest.NewRecorder()
	h.HandleChat(rec, httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), chat.EventCompleted)
}

func TestImportCodeMissingInput(t *testing.T) {
	h, _ := newImportHandler(t, `{}`)
	rec := httptest.NewRecorder()
	h.HandleCode(rec, httptest.NewRequest(http.MethodPost, "/api/smart-import/code", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestImportDocumentTooLarge(t *testing.T) {
	h, _ := newImportHandler(t, `{}`)
	h.maxDirectBytes = 64

	big := bytes.Repeat([]byte("x"), 200)
	rec := httptest.NewRecorder()
	h.HandleDocument(rec, httptest.NewRequest(http.MethodPost, "/api/smart-import/document", bytes.NewReader(big)))
	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	var out struct {
		ShouldUseUpload bool `json:"shouldUseUpload"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.True(t, out.ShouldUseUpload)
}

func TestImportStatusNotFound(t *testing.T) {
	h, _ := newImportHandler(t, `{}`)
	rec := httptest.NewRecorder()
	h.HandleStatus(rec, httptest.NewRequest(http.MethodGet, "/api/smart-import/status?jobId=missing", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "expired")
}

func TestImportStatusReturnsJob(t *testing.T) {
	h, jobs := newImportHandler(t, `{}`)
	_, err := jobs.Set(context.Background(), "j1", jobstore.Update{
		Status:   jobstore.StatusProcessing,
		Progress: jobstore.IntPtr(60),
		Message:  jobstore.StrPtr("Analyzing architecture"),
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.HandleStatus(rec, httptest.NewRequest(http.MethodGet, "/api/smart-import/status?jobId=j1", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var job jobstore.Job
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &job))
	assert.Equal(t, 60, job.Progress)
	assert.Equal(t, jobstore.StatusProcessing, job.Status)
}

func TestImportUploadWithoutBlobStore(t *testing.T) {
	h, _ := newImportHandler(t, `{}`)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/smart-import/upload", strings.NewReader("%PDF"))
	req.Header.Set("Content-Type", "application/pdf")
	h.HandleUpload(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func newChatHandler(t *testing.T, fake *llmclient.Fake) *ChatHandler {
	t.Helper()
	return NewChatHandler(chat.NewService(fake, convstore.NewMemory(time.Minute)))
}

func TestChatStreamsNDJSON(t *testing.T) {
	h := newChatHandler(t, &llmclient.Fake{TextParts: []string{"use ", "residuals"}})

	body := `{"conversationId":"c1","message":"how do I stabilize deep stacks?"}`
	rec := httptest.NewRecorder()
	h.HandleChat(rec, httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/x-ndjson", rec.Header().Get("Content-Type"))

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 3)

	var ev chat.Event
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &ev))
	assert.Equal(t, chat.EventDelta, ev.Type)
	require.NoError(t, json.Unmarshal([]byte(lines[2]), &ev))
	assert.Equal(t, chat.EventCompleted, ev.Type)
}

func TestChatHistoryAfterStream(t *testing.T) {
	h := newChatHandler(t, &llmclient.Fake{TextParts: []string{"answer"}})

	body := `{"conversationId":"c1","message":"q"}`
	rec := httptest.NewRecorder()
	h.HandleChat(rec, httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.HandleHistory(rec, httptest.NewRequest(http.MethodGet, "/api/chat/history?conversationId=c1", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Messages []convstore.Message `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out.Messages, 2)
	assert.Equal(t, "assistant", out.Messages[1].Role)
}

func TestChatAppendValidatesRoles(t *testing.T) {
	h := newChatHandler(t, &llmclient.Fake{})

	body := `{"conversationId":"c1","messages":[{"role":"system","content":"x"}]}`
	rec := httptest.NewRecorder()
	h.HandleAppend(rec, httptest.NewRequest(http.MethodPost, "/api/chat/append", strings.NewReader(body)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body = `{"conversationId":"c1","messages":[{"role":"assistant","content":"offline answer"}]}`
	rec = httptest.NewRecorder()
	h.HandleAppend(rec, httptest.NewRequest(http.MethodPost, "/api/chat/append", strings.NewReader(body)))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestChatStoreFailureBodies(t *testing.T) {
	// Nothing listens on port 1, so every store call fails.
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	h := NewChatHandler(chat.NewService(&llmclient.Fake{}, convstore.NewRedis(rdb, time.Minute)))

	rec := httptest.NewRecorder()
	h.HandleHistory(rec, httptest.NewRequest(http.MethodGet, "/api/chat/history?conversationId=c1", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var hist struct {
		Messages []convstore.Message `json:"messages"`
		Error    string              `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &hist))
	assert.NotNil(t, hist.Messages)
	assert.Empty(t, hist.Messages)
	assert.NotEmpty(t, hist.Error)

	body := `{"conversationId":"c1","messages":[{"role":"user","content":"x"}]}`
	rec = httptest.NewRecorder()
	h.HandleAppend(rec, httptest.NewRequest(http.MethodPost, "/api/chat/append", strings.NewReader(body)))
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var ap struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ap))
	assert.False(t, ap.OK)
	assert.NotEmpty(t, ap.Error)
}

func TestChatMissingMessage(t *testing.T) {
	h := newChatHandler(t, &llmclient.Fake{})
	rec := httptest.NewRecorder()
	h.HandleChat(rec, httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"conversationId":"c1"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
