package model

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// File represents a single downloadable resource of a soundtrack.
//
// A File is immutable once created. Filename is derived from the final path
// segment of URL, percent-decoded, and is intentionally not sanitized so the
// raw name can be listed or inspected.
type File struct {
	// URL is the absolute URL of the resource.
	URL string

	// Filename is the percent-decoded last path segment of URL.
	Filename string
}

// NewFile creates a File for the given absolute URL.
//
// Example:
//
//	NewFile("https://host/ost/album/Track%2001.flac").Filename // "Track 01.flac"
func NewFile(rawURL string) *File {
	return &File{
		URL:      rawURL,
		Filename: filenameFromURL(rawURL),
	}
}

// Extension returns the lowercased file extension without the leading dot.
//
// Leading dots of the filename are ignored, so ".hidden" has no extension.
func (f *File) Extension() string {
	name := strings.TrimLeft(f.Filename, ".")
	return strings.ToLower(strings.Trim(path.Ext(name), "."))
}

// Title returns the filename without its extension.
func (f *File) Title() string {
	name := strings.TrimLeft(f.Filename, ".")
	ext := path.Ext(name)
	return strings.TrimSuffix(f.Filename, ext)
}

func (f *File) String() string {
	return fmt.Sprintf("<File: %s>", f.URL)
}

// filenameFromURL takes everything after the last slash and unescapes it.
// Undecodable escapes leave the segment untouched.
func filenameFromURL(rawURL string) string {
	segment := rawURL
	if i := strings.LastIndex(rawURL, "/"); i >= 0 {
		segment = rawURL[i+1:]
	}
	decoded, err := url.PathUnescape(segment)
	if err != nil {
		return segment
	}
	return decoded
}
