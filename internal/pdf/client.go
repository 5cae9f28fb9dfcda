package pdf

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
)

// ErrGenerationFailed is returned for any failure of the rendering service,
// whether a transport error or a non-success status.
var ErrGenerationFailed = errors.New("pdf generation failed")

// GeneratePath is the rendering service endpoint.
const GeneratePath = "/generate-pdf"

// DefaultTimeout bounds a single generation request.
const DefaultTimeout = 60 * time.Second

type generateRequest struct {
	HTML string `json:"html"`
}

// Client posts rendered HTML to an external PDF rendering service.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the service at baseURL.
// A zero timeout selects DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Generate converts html to a PDF. The response body is returned as is on a
// 2xx status. Any other outcome wraps ErrGenerationFailed; error bodies are not parsed.
func (c *Client) Generate(ctx context.Context, html string) ([]byte, error) {
	body, err := json.Marshal(generateRequest{HTML: html})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+GeneratePath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrGenerationFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: status %d", ErrGenerationFailed, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrGenerationFailed, err)
	}
	return data, nil
}

// Ping reports whether the rendering service answers HTTP at its base URL.
// Any response counts; only transport errors fail.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.Body.Close()
}

// FileName returns the download name for a report requested at t,
// e.g. project_review_2026-03-14.pdf. The date is taken in UTC.
func FileName(t time.Time) string {
	return "project_review_" + t.UTC().Format("2006-01-02") + ".pdf"
}
