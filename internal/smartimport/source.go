// Package smartimport turns source code or research papers into a module
// graph. Code arrives as a GitHub URL or pasted text; documents run through
// the OCR chain first. The model does the structural extraction; this
// package owns fetching, prompting, normalization, and merging.
package smartimport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const maxFetchBytes = 2 << 20

// Conventional locations for the model definition, probed in order when
// the URL points at a repository root rather than a single file.
var candidatePaths = []string{
	"model.py",
	"models.py",
	"modeling.py",
	"network.py",
	"architecture.py",
	"src/model.py",
	"src/models.py",
	"models/model.py",
}

var defaultBranches = []string{"main", "master"}

// Source locates the code to analyze.
type Source struct {
	Owner  string
	Repo   string
	Branch string
	Path   string
}

// ParseGitHubURL accepts either a repository root URL or a blob URL
// pointing at a single file.
func ParseGitHubURL(raw string) (Source, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Source{}, fmt.Errorf("repository url required")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return Source{}, fmt.Errorf("invalid repository url: %w", err)
	}
	if !strings.EqualFold(strings.TrimSpace(u.Host), "github.com") {
		return Source{}, fmt.Errorf("only github.com is supported")
	}

	parts := strings.Split(strings.Trim(strings.TrimSuffix(u.Path, ".git"), "/"), "/")
	if len(parts) < 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
		return Source{}, fmt.Errorf("invalid github repository url %q", raw)
	}
	src := Source{Owner: parts[0], Repo: parts[1]}

	// blob form: /owner/repo/blob/<branch>/<path...>
	if len(parts) >= 5 && parts[2] == "blob" {
		src.Branch = parts[3]
		src.Path = strings.Join(parts[4:], "/")
	}
	return src, nil
}

func (s Source) rawURL(branch, path string) string {
	return fmt.Sprintf("https://raw.githubusercontent.com/%s/%s/%s/%s", s.Owner, s.Repo, branch, path)
}

// Fetcher downloads model source from GitHub's raw content host.
type Fetcher struct {
	client *http.Client
}

func NewFetcher() *Fetcher {
	return &Fetcher{client: &http.Client{Timeout: 30 * time.Second}}
}

// Fetch returns the file content and the repo-relative path it came from.
// For a repository root URL it probes the conventional model-file locations
// on the default branches and returns the first hit.
func (f *Fetcher) Fetch(ctx context.Context, src Source) (string, string, error) {
	if src.Path != "" {
		branch := src.Branch
		if branch == "" {
			branch = defaultBranches[0]
		}
		body, err := f.get(ctx, src.rawURL(branch, src.Path))
		if err != nil {
			return "", "", err
		}
		return body, src.Path, nil
	}

	for _, branch := range defaultBranches {
		for _, p := range candidatePaths {
			body, err := f.get(ctx, src.rawURL(branch, p))
			if err != nil {
				continue
			}
			return body, p, nil
		}
	}
	return "", "", fmt.Errorf("no model file found in %s/%s (tried %s)",
		src.Owner, src.Repo, strings.Join(candidatePaths, ", "))
}

func (f *Fetcher) get(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: status %d", rawURL, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
	if err != nil {
		return "", err
	}
	if len(body) == 0 {
		return "", fmt.Errorf("fetch %s: empty file", rawURL)
	}
	return string(body), nil
}
