// Package analyzer obtains graph documents from outside the viewer: from the
// code-analysis backend over HTTP, or from a document file on disk.
package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ziadkadry99/code-landscape/internal/graphdoc"
)

// ErrEmptyRepoPath is returned when no repository path was given.
var ErrEmptyRepoPath = errors.New("repo_path is required")

// DefaultTimeout bounds a single analysis request.
const DefaultTimeout = 5 * time.Minute

// Submitter produces a graph document for a repository.
type Submitter interface {
	Submit(ctx context.Context, repoPath string) (*graphdoc.Document, error)
}

// HTTPClient submits repositories to the analysis backend.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPClient creates a client for the backend at baseURL. A non-positive
// timeout uses DefaultTimeout.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type analyzeRequest struct {
	RepoPath string `json:"repo_path"`
}

type errorResponse struct {
	Detail string `json:"detail"`
	Error  string `json:"error"`
}

// Submit posts repoPath to <base>/api/analyze and decodes the returned
// document. The document is validated before it is returned.
func (c *HTTPClient) Submit(ctx context.Context, repoPath string) (*graphdoc.Document, error) {
	repoPath = strings.TrimSpace(repoPath)
	if repoPath == "" {
		return nil, ErrEmptyRepoPath
	}

	body, err := json.Marshal(analyzeRequest{RepoPath: repoPath})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal analyze request: %w", err)
	}

	url := fmt.Sprintf("%s/api/analyze", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("analyze request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		var e errorResponse
		if json.Unmarshal(raw, &e) == nil && (e.Detail != "" || e.Error != "") {
			msg := e.Detail
			if msg == "" {
				msg = e.Error
			}
			return nil, fmt.Errorf("analyzer returned status %d: %s", resp.StatusCode, msg)
		}
		return nil, fmt.Errorf("analyzer returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	doc, err := graphdoc.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decoding analyzer response: %w", err)
	}
	return doc, nil
}

// FileSource serves a document file, ignoring the repository path.
type FileSource struct {
	Path string
}

// Submit loads the document file.
func (f FileSource) Submit(ctx context.Context, _ string) (*graphdoc.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return graphdoc.LoadFile(f.Path)
}
