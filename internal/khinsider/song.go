package khinsider

import (
	"context"
	"fmt"
	"sync"

	"github.com/PuerkitoBio/goquery"

	"github.com/handiism/khinsider-downloader/internal/model"
)

// Song is a song detail page of an album.
//
// A song page lists one download link per available format. The page is
// fetched on first use and cached for the lifetime of the Song.
type Song struct {
	// URL is the absolute URL of the song page.
	URL string

	fetcher Fetcher

	mu   sync.Mutex
	page *goquery.Document
}

// NewSong creates a Song that will fetch its page through fetcher.
func NewSong(url string, fetcher Fetcher) *Song {
	return &Song{URL: url, fetcher: fetcher}
}

func (s *Song) String() string {
	return fmt.Sprintf("<Song: %s>", s.URL)
}

// Page returns the parsed song page, fetching it on the first call.
//
// A failed fetch is not cached; the next call tries again.
func (s *Song) Page(ctx context.Context) (*goquery.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.page != nil {
		return s.page, nil
	}

	page, err := s.fetcher.Fetch(ctx, s.URL)
	if err != nil {
		return nil, err
	}
	s.page = page
	return page, nil
}

// Files returns every song file linked from the page, in document order.
func (s *Song) Files(ctx context.Context) ([]*model.File, error) {
	page, err := s.Page(ctx)
	if err != nil {
		return nil, err
	}
	return songFiles(s.URL, page.Selection), nil
}

// AppropriateFile picks the file to download according to formats.
//
// With no formats the first file is returned. Otherwise formats are tried in
// order and the first file with a matching extension wins. A nil file with a
// nil error means the song has no file in any of the formats.
func (s *Song) AppropriateFile(ctx context.Context, formats []string) (*model.File, error) {
	files, err := s.Files(ctx)
	if err != nil {
		return nil, err
	}
	return SelectFile(files, formats), nil
}

// SelectFile applies the format preference to files.
//
// Example:
//
//	// files: ["a.mp3", "a.ogg"]
//	SelectFile(files, []string{"flac", "mp3"}) // a.mp3
//	SelectFile(files, nil)                     // a.mp3 (first file)
//	SelectFile(files, []string{"flac"})        // nil
func SelectFile(files []*model.File, formats []string) *model.File {
	if len(formats) == 0 {
		if len(files) == 0 {
			return nil
		}
		return files[0]
	}

	for _, format := range formats {
		for _, f := range files {
			if f.Extension() == format {
				return f
			}
		}
	}
	return nil
}

// songFiles collects the links of page that point at song files.
// Links are resolved against pageURL before matching.
func songFiles(pageURL string, page *goquery.Selection) []*model.File {
	var files []*model.File
	page.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		abs, ok := resolveURL(pageURL, href)
		if !ok || !songFileURL.MatchString(abs) {
			return
		}
		files = append(files, model.NewFile(abs))
	})
	return files
}
