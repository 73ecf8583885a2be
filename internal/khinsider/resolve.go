package khinsider

import (
	"context"
	"fmt"
	"iter"
	"strings"

	"github.com/handiism/khinsider-downloader/internal/model"
)

// FileIterator yields the files to download for a soundtrack.
//
// Songs come first, in album order, one file per song chosen by the format
// preference; songs without a matching file are skipped. Album images follow.
// Every call to Next fetches only the song pages needed to produce the next
// file.
//
// Use it like bufio.Scanner:
//
//	for it.Next(ctx) {
//	    download(it.File())
//	}
//	if err := it.Err(); err != nil { ... }
//
// A FileIterator is not safe for concurrent use.
type FileIterator struct {
	// OnMissing, if set, is called for every song that has no file in any of
	// the preferred formats.
	OnMissing func(song *Song)

	soundtrack *Soundtrack
	formats    []string
	songs      []*Song
	images     []*model.File

	nextSong  int
	nextImage int

	file *model.File
	song *Song
	err  error
}

// Resolve prepares the download sequence for soundtrack.
//
// formats is the preference order of file extensions, most wanted first;
// entries are lowercased. An empty list takes the first file of every song.
// If formats is not empty and none of them is offered by the album, Resolve
// fails with *UnavailableFormatsError before any song page is fetched.
// Pages that are not albums fail with *NonexistentAlbumError.
func Resolve(soundtrack *Soundtrack, formats []string) (*FileIterator, error) {
	formats = normalizeFormats(formats)

	if len(formats) > 0 {
		available, err := soundtrack.AvailableFormats()
		if err != nil {
			return nil, err
		}
		if !intersects(formats, available) {
			return nil, &UnavailableFormatsError{Soundtrack: soundtrack, Requested: formats}
		}
	}

	songs, err := soundtrack.Songs()
	if err != nil {
		return nil, err
	}
	images, err := soundtrack.Images()
	if err != nil {
		return nil, err
	}

	return &FileIterator{
		soundtrack: soundtrack,
		formats:    formats,
		songs:      songs,
		images:     images,
	}, nil
}

// Soundtrack returns the soundtrack being resolved.
func (it *FileIterator) Soundtrack() *Soundtrack {
	return it.soundtrack
}

// Expected returns the upper bound of files the iterator can yield.
func (it *FileIterator) Expected() int {
	return len(it.songs) + len(it.images)
}

// Next advances to the next file. It returns false at the end of the
// sequence or when a song page could not be fetched; check Err afterwards.
func (it *FileIterator) Next(ctx context.Context) bool {
	it.file, it.song = nil, nil
	if it.err != nil {
		return false
	}

	for it.nextSong < len(it.songs) {
		song := it.songs[it.nextSong]
		it.nextSong++

		file, err := song.AppropriateFile(ctx, it.formats)
		if err != nil {
			it.err = fmt.Errorf("resolve %s: %w", song.URL, err)
			return false
		}
		if file == nil {
			if it.OnMissing != nil {
				it.OnMissing(song)
			}
			continue
		}

		it.file, it.song = file, song
		return true
	}

	if it.nextImage < len(it.images) {
		it.file = it.images[it.nextImage]
		it.nextImage++
		return true
	}
	return false
}

// File returns the file produced by the last successful call to Next.
func (it *FileIterator) File() *model.File {
	return it.file
}

// Song returns the song the current file belongs to, or nil for album images.
func (it *FileIterator) Song() *Song {
	return it.song
}

// Err returns the error that stopped the iteration, if any.
func (it *FileIterator) Err() error {
	return it.err
}

// All returns the remaining sequence as an iterator.
// A fetch failure is yielded once as the last pair with a nil file.
func (it *FileIterator) All(ctx context.Context) iter.Seq2[*model.File, error] {
	return func(yield func(*model.File, error) bool) {
		for it.Next(ctx) {
			if !yield(it.File(), nil) {
				return
			}
		}
		if err := it.Err(); err != nil {
			yield(nil, err)
		}
	}
}

// normalizeFormats lowercases the entries of formats.
func normalizeFormats(formats []string) []string {
	if len(formats) == 0 {
		return nil
	}
	out := make([]string, len(formats))
	for i, f := range formats {
		out[i] = strings.ToLower(f)
	}
	return out
}

func intersects(a, b []string) bool {
	set := make(map[string]struct{}, len(b))
	for _, s := range b {
		set[s] = struct{}{}
	}
	for _, s := range a {
		if _, ok := set[s]; ok {
			return true
		}
	}
	return false
}
