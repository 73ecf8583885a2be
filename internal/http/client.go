package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	ioutils "github.com/handiism/khinsider-downloader/internal/io"
)

// DefaultUserAgent is sent when no other User-Agent is configured.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:126.0) Gecko/20100101 Firefox/126.0"

// DefaultTimeout bounds a single request, including reading the body.
const DefaultTimeout = 60 * time.Second

// StatusError is returned when the server answers with an unusable status.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.URL)
}

// Client wraps HTTP operations with archive-specific configuration.
//
// Client is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a new HTTP client.
//
// An empty userAgent falls back to DefaultUserAgent and a non-positive
// timeout falls back to DefaultTimeout.
func NewClient(userAgent string, timeout time.Duration) *Client {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  userAgent,
	}
}

// ProgressReader wraps a reader to track download progress.
type ProgressReader struct {
	// Reader is the underlying reader.
	Reader io.Reader

	// Total is the expected total bytes (from Content-Length, -1 if unknown).
	Total int64

	// Count is the current number of bytes read.
	Count int64

	// OnUpdate is called after each Read with (bytesRead, totalExpected).
	OnUpdate func(read, total int64)
}

// Read implements io.Reader, tracking progress and calling OnUpdate.
func (pr *ProgressReader) Read(p []byte) (int, error) {
	n, err := pr.Reader.Read(p)
	if n > 0 {
		pr.Count += int64(n)
		if pr.OnUpdate != nil {
			pr.OnUpdate(pr.Count, pr.Total)
		}
	}
	return n, err
}

// GetPage performs a GET request and returns the response body.
//
// Client error pages (4xx) are returned like any other page: the archive
// serves its "No such album" page with an error status, and the caller
// decides from the content. Server errors (5xx) return a *StatusError.
func (c *Client) GetPage(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.do(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}
	return io.ReadAll(resp.Body)
}

// DownloadFile streams the resource at url to destPath.
//
// The body is written through a temporary ".part" file and moved into place
// on success, so a failed download never leaves destPath behind. An existing
// destPath is never replaced; the error then matches fs.ErrExist. onProgress
// may be nil. Returns the number of bytes written.
func (c *Client) DownloadFile(ctx context.Context, url, destPath string, onProgress func(written, total int64)) (int64, error) {
	resp, err := c.get(ctx, url)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	var body io.Reader = resp.Body
	if onProgress != nil {
		body = &ProgressReader{
			Reader:   resp.Body,
			Total:    resp.ContentLength,
			OnUpdate: onProgress,
		}
	}

	return ioutils.WriteFileAtomic(destPath, body)
}

// get performs a GET request and rejects any status other than 200 OK.
func (c *Client) get(ctx context.Context, url string) (*http.Response, error) {
	resp, err := c.do(ctx, url)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}
	return resp, nil
}

func (c *Client) do(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	return c.httpClient.Do(req)
}
