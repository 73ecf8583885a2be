package khinsider

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
)

// ErrInvalidAlbumURL is returned by ParseAlbumURL for anything that is not an album page URL.
var ErrInvalidAlbumURL = errors.New("the given input is not recognized as a proper URL")

var albumURLPattern = regexp.MustCompile(`(?i)^https?://downloads\.khinsider\.com/game-soundtracks/album/([^/]+)$`)

// songFileURL matches the absolute URL of a downloadable song file.
var songFileURL = regexp.MustCompile(`^https?://[^/]+/(?:soundtracks|ost)/.+$`)

// ParseAlbumURL validates an album page URL and returns the album id.
//
// Scheme and host are matched case-insensitively:
//
//	ParseAlbumURL("https://downloads.khinsider.com/game-soundtracks/album/mother-3") // "mother-3", nil
func ParseAlbumURL(raw string) (string, error) {
	m := albumURLPattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return "", ErrInvalidAlbumURL
	}
	return m[1], nil
}

// resolveURL resolves ref against base the way a browser resolves a link.
func resolveURL(base, ref string) (string, bool) {
	b, err := url.Parse(base)
	if err != nil {
		return "", false
	}
	r, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return "", false
	}
	return b.ResolveReference(r).String(), true
}

// lastSegment returns the final non-empty path segment of rawURL.
func lastSegment(rawURL string) string {
	trimmed := strings.TrimRight(rawURL, "/")
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}
