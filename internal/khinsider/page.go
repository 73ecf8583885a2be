package khinsider

import (
	"bytes"
	"context"
	"fmt"
	"regexp"

	"github.com/PuerkitoBio/goquery"

	khttp "github.com/handiism/khinsider-downloader/internal/http"
)

var (
	// strayCellClose matches a line holding nothing but a closing </td>.
	// Album pages carry these outside of any cell, which breaks table parsing.
	strayCellClose = regexp.MustCompile(`(?m)^</td>\s*$`)

	// badAmpersand matches "&#" that does not start a numeric or hex character reference.
	badAmpersand = regexp.MustCompile(`&#([^0-9x]|x[^0-9A-Fa-f])`)
)

// Fetcher retrieves a page and parses it into a queryable document.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*goquery.Document, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, url string) (*goquery.Document, error)

// Fetch calls f(ctx, url).
func (f FetcherFunc) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	return f(ctx, url)
}

// PageFetcher fetches archive pages over HTTP.
type PageFetcher struct {
	client *khttp.Client
}

// NewPageFetcher creates a PageFetcher using client for requests.
func NewPageFetcher(client *khttp.Client) *PageFetcher {
	return &PageFetcher{client: client}
}

// Fetch downloads url, repairs the markup and parses it.
//
// Pages served with a client error status are still parsed, so a missing
// album surfaces as NonexistentAlbumError. Network errors and server error
// statuses are returned wrapped so the caller can report connection problems.
func (f *PageFetcher) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	body, err := f.client.GetPage(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	return ParsePage(body)
}

// ParsePage repairs raw page bytes and parses them into a document.
func ParsePage(body []byte) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(bytes.NewReader(RepairPage(body)))
}

// RepairPage applies the byte-level fixes album pages need before parsing:
//   - lines consisting only of "</td>" are removed
//   - "&#" not followed by a valid character reference is escaped as "&amp;#"
func RepairPage(body []byte) []byte {
	body = strayCellClose.ReplaceAll(body, nil)
	return badAmpersand.ReplaceAll(body, []byte("&amp;#${1}"))
}
