package khinsider

import (
	"fmt"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"

	"github.com/handiism/khinsider-downloader/internal/model"
)

const noSuchAlbum = "No such album"

// defaultFormats is used when the song list header names no format column.
var defaultFormats = []string{"mp3"}

// nonFormatHeadings are song list column headings that do not name a format.
var nonFormatHeadings = map[string]struct{}{
	"":          {},
	"Track":     {},
	"Song Name": {},
	"Download":  {},
	"Size":      {},
}

// Soundtrack is an album page of the archive.
//
// The page is fetched by the caller and handed to NewSoundtrack. Every
// derived property first checks that the page is a real album and fails
// with *NonexistentAlbumError otherwise. Each property is computed at most
// once and cached; concurrent callers share the same result.
type Soundtrack struct {
	// URL is the album page URL.
	URL string

	page    *goquery.Document
	fetcher Fetcher

	content func() (*goquery.Selection, error)
	name    func() (string, error)
	formats func() ([]string, error)
	songs   func() ([]*Song, error)
	images  func() ([]*model.File, error)
}

// NewSoundtrack creates a Soundtrack for an already fetched album page.
//
// fetcher is handed to the Songs of the album to fetch their pages.
func NewSoundtrack(url string, page *goquery.Document, fetcher Fetcher) *Soundtrack {
	s := &Soundtrack{URL: url, page: page, fetcher: fetcher}
	s.content = sync.OnceValues(s.checkContent)
	s.name = sync.OnceValues(s.readName)
	s.formats = sync.OnceValues(s.readFormats)
	s.songs = sync.OnceValues(s.readSongs)
	s.images = sync.OnceValues(s.readImages)
	return s
}

func (s *Soundtrack) String() string {
	return fmt.Sprintf("<Soundtrack: %s>", s.URL)
}

// ID returns the album id, the last path segment of the URL.
func (s *Soundtrack) ID() string {
	return lastSegment(s.URL)
}

// Name returns the album name from the page heading.
func (s *Soundtrack) Name() (string, error) {
	return s.name()
}

// AvailableFormats returns the lowercase formats the album is offered in,
// in column order. Albums whose song list names no format default to ["mp3"].
//
// The returned slice is shared between calls and must not be modified.
func (s *Soundtrack) AvailableFormats() ([]string, error) {
	return s.formats()
}

// Songs returns the songs of the album in page order.
func (s *Soundtrack) Songs() ([]*Song, error) {
	return s.songs()
}

// Images returns the album artwork files in page order.
//
// An album without an artwork table has no images; that is not an error.
func (s *Soundtrack) Images() ([]*model.File, error) {
	return s.images()
}

// checkContent locates the content region and verifies the page is an album.
func (s *Soundtrack) checkContent() (*goquery.Selection, error) {
	if s.page == nil {
		return nil, &NonexistentAlbumError{Soundtrack: s}
	}

	content, ok := findFirst(s.page.Selection, "#pageContent")
	if !ok {
		return nil, &NonexistentAlbumError{Soundtrack: s}
	}

	paragraph, ok := findFirst(content, "p")
	if !ok || paragraph.Text() == noSuchAlbum {
		return nil, &NonexistentAlbumError{Soundtrack: s}
	}

	return content, nil
}

func (s *Soundtrack) readName() (string, error) {
	content, err := s.content()
	if err != nil {
		return "", err
	}

	heading, ok := findFirst(content, "h2")
	if !ok {
		return "", &NonexistentAlbumError{Soundtrack: s}
	}

	if texts := strippedStrings(heading); len(texts) > 0 {
		return texts[0], nil
	}
	return "", nil
}

func (s *Soundtrack) songList() (*goquery.Selection, error) {
	content, err := s.content()
	if err != nil {
		return nil, err
	}

	table, ok := findFirst(content, "table#songlist")
	if !ok {
		return nil, &NonexistentAlbumError{Soundtrack: s}
	}
	return table, nil
}

func (s *Soundtrack) readFormats() ([]string, error) {
	table, err := s.songList()
	if err != nil {
		return nil, err
	}

	header, ok := findFirst(table, "tr")
	if !ok {
		return nil, &NonexistentAlbumError{Soundtrack: s}
	}

	var formats []string
	header.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
		heading := strippedText(cell)
		if _, skip := nonFormatHeadings[heading]; skip {
			return
		}
		formats = append(formats, strings.ToLower(heading))
	})

	if len(formats) == 0 {
		return defaultFormats, nil
	}
	return formats, nil
}

func (s *Soundtrack) readSongs() ([]*Song, error) {
	table, err := s.songList()
	if err != nil {
		return nil, err
	}

	var songs []*Song
	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		anchor, ok := findFirst(row, "a")
		if !ok {
			return
		}
		href, ok := anchor.Attr("href")
		if !ok {
			return
		}
		if abs, ok := resolveURL(s.URL, href); ok {
			songs = append(songs, NewSong(abs, s.fetcher))
		}
	})
	return songs, nil
}

func (s *Soundtrack) readImages() ([]*model.File, error) {
	content, err := s.content()
	if err != nil {
		return nil, err
	}

	table, ok := findFirst(content, "table")
	if !ok {
		return []*model.File{}, nil
	}

	images := []*model.File{}
	table.Find("a").Each(func(_ int, anchor *goquery.Selection) {
		img, ok := findFirst(anchor, "img")
		if !ok {
			return
		}
		href, ok := img.Attr("href")
		if !ok {
			return
		}
		if abs, ok := resolveURL(s.URL, href); ok {
			images = append(images, model.NewFile(abs))
		}
	})
	return images, nil
}
