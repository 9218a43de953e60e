package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ServiceClient calls an external OCR endpoint. The document travels
// base64-encoded in a JSON body; auth is a bearer token when set.
type ServiceClient struct {
	url    string
	token  string
	client *http.Client
}

func NewServiceClient(url, token string) *ServiceClient {
	return &ServiceClient{
		url:    strings.TrimSpace(url),
		token:  strings.TrimSpace(token),
		client: &http.Client{Timeout: 120 * time.Second},
	}
}

func (s *ServiceClient) Name() string { return "ocr-service" }

func (s *ServiceClient) Extract(ctx context.Context, pdf []byte) (Result, error) {
	if s == nil || s.url == "" {
		return Result{}, fmt.Errorf("ocr service url not configured")
	}

	body, err := json.Marshal(map[string]string{
		"document": base64.StdEncoding.EncodeToString(pdf),
		"mimeType": "application/pdf",
	})
	if err != nil {
		return Result{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return Result{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("ocr service returned %d: %s", resp.StatusCode, firstLine(raw))
	}

	var res Result
	if err := json.Unmarshal(raw, &res); err != nil {
		return Result{}, fmt.Errorf("decode ocr response: %w", err)
	}
	return res, nil
}

func firstLine(b []byte) string {
	s := strings.TrimSpace(string(b))
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}
