package model

import (
	"path/filepath"

	ioutils "github.com/handiism/khinsider-downloader/internal/io"
)

// Album records a soundtrack as it was saved to disk.
//
// Album is built while the download manager walks the resolved files. Only
// files that exist locally after the run are recorded, so playlists and tags
// never point at missing files.
type Album struct {
	// Title is the soundtrack name shown on the album page.
	// Empty if the name could not be read.
	Title string

	// URL is the album page URL.
	URL string

	// Path is the directory the files were saved to.
	Path string

	// Tracks holds the song files in album order.
	Tracks []*Track

	// ArtworkPath is the local path of the first image file.
	// Empty if the album has no artwork on disk.
	ArtworkPath string
}

// NewAlbum creates an empty Album rooted at dir.
func NewAlbum(title, url, dir string) *Album {
	return &Album{
		Title: title,
		URL:   url,
		Path:  dir,
	}
}

// HasArtwork returns true if a cover image was saved for the album.
func (a *Album) HasArtwork() bool {
	return a.ArtworkPath != ""
}

// LocalPath returns where f is stored inside the album directory.
func (a *Album) LocalPath(f *File) string {
	return filepath.Join(a.Path, ioutils.SanitizeFileName(f.Filename))
}

// AddTrack appends a song file as the next track and returns it.
//
// fresh marks a file that was downloaded during this run rather than found
// on disk.
func (a *Album) AddTrack(f *File, fresh bool) *Track {
	track := &Track{
		Album:  a,
		Number: len(a.Tracks) + 1,
		Title:  f.Title(),
		File:   f,
		Path:   a.LocalPath(f),
		Fresh:  fresh,
	}
	a.Tracks = append(a.Tracks, track)
	return track
}

// SetArtwork records f as the album cover if none was recorded yet.
func (a *Album) SetArtwork(f *File) {
	if a.ArtworkPath == "" {
		a.ArtworkPath = a.LocalPath(f)
	}
}
