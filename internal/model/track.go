package model

// Track represents a song file of an album saved to disk.
type Track struct {
	// Album is a reference to the parent album.
	Album *Album

	// Number is the track number (1-indexed) in album order.
	Number int

	// Title is the filename without its extension.
	Title string

	// File is the resource the track was downloaded from.
	File *File

	// Path is the local file path.
	Path string

	// Fresh is true when the file was downloaded during the current run.
	Fresh bool
}

// IsMP3 reports whether the track can carry ID3 tags.
func (t *Track) IsMP3() bool {
	return t.File.Extension() == "mp3"
}
