package segmentstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vandana/paligest/internal/segment"
)

// ErrNotFound is returned when the store has no row for the requested key.
var ErrNotFound = errors.New("segmentstore: not found")

// Client communicates with the literature store HTTP API, the relational
// backend holding works, segments and translations.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// WorkRequest is the body for PUT /works/{workID}.
type WorkRequest struct {
	Title           string                  `json:"title"`
	Filename        string                  `json:"filename"`
	ContentHash     string                  `json:"content_hash"`
	HierarchyLabels segment.HierarchyLabels `json:"hierarchy_labels"`
	Headings        []segment.Heading       `json:"headings"`
}

// WorkInfo is one work as reported by GET /works.
type WorkInfo struct {
	WorkID          string                  `json:"work_id"`
	Title           string                  `json:"title"`
	Filename        string                  `json:"filename"`
	ContentHash     string                  `json:"content_hash"`
	HierarchyLabels segment.HierarchyLabels `json:"hierarchy_labels"`
	SegmentCount    int                     `json:"segment_count"`
}

// TranslationRow is one imported translation keyed by segment location.
type TranslationRow struct {
	VaggaID     int    `json:"vagga_id"`
	SuttaID     int    `json:"sutta_id"`
	ParagraphID int    `json:"paragraph_id"`
	Translation string `json:"translation"`
	Language    string `json:"language,omitempty"`
}

// PutWork creates or updates work metadata, hierarchy labels and the
// headings outline.
func (c *Client) PutWork(ctx context.Context, workID string, req WorkRequest) error {
	return c.do(ctx, http.MethodPut, "/works/"+workID, req, nil)
}

// ListWorks returns all imported works.
func (c *Client) ListWorks(ctx context.Context) ([]WorkInfo, error) {
	var resp struct {
		Works []WorkInfo `json:"works"`
	}
	if err := c.do(ctx, http.MethodGet, "/works", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Works, nil
}

// FindWorkByHash looks up a work by content hash for dedup. Returns
// ErrNotFound when no work has that hash.
func (c *Client) FindWorkByHash(ctx context.Context, hash string) (*WorkInfo, error) {
	var info WorkInfo
	if err := c.do(ctx, http.MethodGet, "/works/by-hash/"+hash, nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// BulkInsertSegments inserts segment rows under a work. The store enforces a
// unique constraint on (work_id, vagga_id, sutta_id, paragraph_id) with
// insert-ignore semantics; the returned count is rows actually inserted.
func (c *Client) BulkInsertSegments(ctx context.Context, workID string, rows []segment.ParsedSegment) (int, error) {
	req := map[string]any{"segments": segment.Records(rows)}
	var resp struct {
		Inserted int `json:"inserted"`
	}
	if err := c.do(ctx, http.MethodPost, "/works/"+workID+"/segments/bulk", req, &resp); err != nil {
		return 0, err
	}
	return resp.Inserted, nil
}

// ListSegments returns all stored segments of a work in document order.
func (c *Client) ListSegments(ctx context.Context, workID string) ([]segment.ParsedSegment, error) {
	var resp struct {
		Segments []segment.ParsedSegment `json:"segments"`
	}
	if err := c.do(ctx, http.MethodGet, "/works/"+workID+"/segments", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Segments, nil
}

// UpdatePageNumber sets the page number of the segment at the given location
// key. Returns ErrNotFound when the store has no such segment.
func (c *Client) UpdatePageNumber(ctx context.Context, workID string, vaggaID, suttaID, paragraphID, page int) error {
	path := fmt.Sprintf("/works/%s/segments/%d/%d/%d", workID, vaggaID, suttaID, paragraphID)
	return c.do(ctx, http.MethodPatch, path, map[string]any{"page_number": page}, nil)
}

// PutTranslation stores one translation row. Returns ErrNotFound when no
// segment exists at the row's location key.
func (c *Client) PutTranslation(ctx context.Context, workID string, row TranslationRow) error {
	path := fmt.Sprintf("/works/%s/translations/%d/%d/%d", workID, row.VaggaID, row.SuttaID, row.ParagraphID)
	return c.do(ctx, http.MethodPut, path, row, nil)
}

// do executes one request against the store, decoding a JSON response into
// out when non-nil. 429 and 5xx map to RetryableError, 404 to ErrNotFound.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s %s: %w", method, path, ErrNotFound)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &RetryableError{StatusCode: resp.StatusCode, Message: string(respBody)}
	case resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusNoContent:
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, string(respBody))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// RetryableError indicates a transient store failure worth retrying.
type RetryableError struct {
	StatusCode int
	Message    string
}

func (e *RetryableError) Error() string {
	msg := e.Message
	if len(msg) > 200 {
		msg = msg[:200] + "..."
	}
	return fmt.Sprintf("retryable error (status %d): %s", e.StatusCode, msg)
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
