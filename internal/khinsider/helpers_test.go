package khinsider

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

const testAlbumURL = "https://downloads.khinsider.com/game-soundtracks/album/mother-3"

const albumHTML = `<html><body>
<div id="pageContent">
<h2>
  Mother 3 <small>Original Soundtrack</small>
</h2>
<p>Platforms: GBA</p>
<table>
<tr>
<td><a href="/full/cover.jpg"><img href="https://img.example.com/covers/Cover%201.jpg" src="thumb1.jpg"></a></td>
<td><a href="/full/back.png"><span><img href="/scans/Back.png" src="thumb2.png"></span></a></td>
<td><a href="/about">no image here</a></td>
</tr>
</table>
<table id="songlist">
<tr><th>Track</th><th>Song Name</th><th> MP3 </th><th>FLAC</th><th>Size</th><th></th></tr>
<tr><td>1</td><td><a href="/game-soundtracks/album/mother-3/01.mp3">Love Theme</a></td></tr>
<tr><th colspan="4">Disc 2</th></tr>
<tr><td>2</td><td><span><a href="mother-3/02.mp3">Strong One</a></span></td></tr>
<tr><td>3</td><td><a href="https://downloads.khinsider.com/game-soundtracks/album/mother-3/03.mp3">Unfounded Revenge</a></td></tr>
</table>
</div>
</body></html>`

const (
	song1URL = "https://downloads.khinsider.com/game-soundtracks/album/mother-3/01.mp3"
	song2URL = "https://downloads.khinsider.com/game-soundtracks/album/mother-3/02.mp3"
	song3URL = "https://downloads.khinsider.com/game-soundtracks/album/mother-3/03.mp3"
)

// songHTML renders a song page linking one file per extension.
func songHTML(name string, exts ...string) string {
	page := `<html><body><div id="pageContent">`
	for _, ext := range exts {
		page += fmt.Sprintf(`<p><a href="https://vgm.example.com/soundtracks/mother-3/abc/%s.%s">Download %s</a></p>`, name, ext, ext)
	}
	page += `<a href="/game-soundtracks/album/mother-3">Back to album</a></div></body></html>`
	return page
}

func mustParse(t *testing.T, page string) *goquery.Document {
	t.Helper()
	doc, err := ParsePage([]byte(page))
	if err != nil {
		t.Fatalf("ParsePage() error = %v", err)
	}
	return doc
}

// countingFetcher serves canned pages and counts requests per URL.
type countingFetcher struct {
	pages map[string]string

	mu    sync.Mutex
	calls map[string]int
	order []string
}

func newCountingFetcher(pages map[string]string) *countingFetcher {
	return &countingFetcher{pages: pages, calls: map[string]int{}}
}

func (f *countingFetcher) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	f.mu.Lock()
	f.calls[url]++
	f.order = append(f.order, url)
	f.mu.Unlock()

	page, ok := f.pages[url]
	if !ok {
		return nil, fmt.Errorf("fetch %s: connection refused", url)
	}
	return ParsePage([]byte(page))
}

func (f *countingFetcher) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.order)
}

func albumFetcher() *countingFetcher {
	return newCountingFetcher(map[string]string{
		song1URL: songHTML("01%20Love%20Theme", "mp3", "flac"),
		song2URL: songHTML("02%20Strong%20One", "mp3", "flac"),
		song3URL: songHTML("03%20Unfounded%20Revenge", "mp3", "flac"),
	})
}
