package audio

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/bogem/id3v2"
	"github.com/handiism/khinsider-downloader/internal/model"
)

// ErrNotMP3 is returned when tags are requested for a file that cannot
// carry ID3 tags.
var ErrNotMP3 = errors.New("not an mp3 file")

// TagEditAction defines how to handle individual ID3 tags.
//
// Each tag field can be configured independently to determine whether
// it should be modified, cleared, or left unchanged.
type TagEditAction int

const (
	// TagEmpty clears the tag value.
	TagEmpty TagEditAction = iota

	// TagModify updates the tag with the value read from the album page.
	TagModify

	// TagDoNotModify leaves the existing tag value unchanged.
	TagDoNotModify
)

// TagConfig holds tagging configuration for each ID3 field.
//
// Example:
//
//	cfg := &TagConfig{
//	    ModifyTags:  true,
//	    Album:       TagModify,      // Album name from the album page
//	    TrackTitle:  TagModify,      // Title from the file name
//	    TrackNumber: TagModify,      // Position in the song list
//	    Comments:    TagDoNotModify, // Keep whatever the file shipped with
//	}
type TagConfig struct {
	// ModifyTags is a master switch. If false, no text frames are modified.
	ModifyTags bool

	// Album controls the TALB (Album title) frame.
	Album TagEditAction

	// TrackTitle controls the TIT2 (Title) frame.
	TrackTitle TagEditAction

	// TrackNumber controls the TRCK (Track number) frame.
	TrackNumber TagEditAction

	// Comments controls the COMM (Comments) frames.
	Comments TagEditAction
}

// DefaultTagConfig returns the default tag configuration.
//
// Album, title and track number are set; comments are kept.
func DefaultTagConfig() *TagConfig {
	return &TagConfig{
		ModifyTags:  true,
		Album:       TagModify,
		TrackTitle:  TagModify,
		TrackNumber: TagModify,
		Comments:    TagDoNotModify,
	}
}

// Tagger writes ID3 tags to MP3 files.
//
// Example:
//
//	tagger := NewTagger(DefaultTagConfig())
//
//	// After the album has been downloaded
//	for _, track := range album.Tracks {
//	    if err := tagger.SaveTags(track, cover); err != nil {
//	        log.Printf("Failed to tag %s: %v", track.Path, err)
//	    }
//	}
type Tagger struct {
	config *TagConfig
}

// NewTagger creates a new Tagger with the given configuration.
//
// If config is nil, DefaultTagConfig() is used.
func NewTagger(config *TagConfig) *Tagger {
	if config == nil {
		config = DefaultTagConfig()
	}
	return &Tagger{config: config}
}

// SaveTags writes ID3 tags to the track's MP3 file.
//
// The existing tag is parsed and updated in place; files without a tag get
// a new one. artwork is JPEG data embedded as the front cover, nil to keep
// the existing pictures. Tracks that are not MP3 files fail with ErrNotMP3.
func (t *Tagger) SaveTags(track *model.Track, artwork []byte) error {
	if !track.IsMP3() {
		return fmt.Errorf("%s: %w", track.Path, ErrNotMP3)
	}

	tag, err := id3v2.Open(track.Path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("open tags of %s: %w", track.Path, err)
	}
	defer tag.Close()

	if t.config.ModifyTags {
		t.updateTextFrames(tag, track)
	}

	if artwork != nil {
		t.updateArtwork(tag, artwork)
	}

	if err := tag.Save(); err != nil {
		return fmt.Errorf("save tags of %s: %w", track.Path, err)
	}
	return nil
}

// updateTextFrames updates text-based ID3 frames based on configuration.
func (t *Tagger) updateTextFrames(tag *id3v2.Tag, track *model.Track) {
	// Album (TALB)
	switch t.config.Album {
	case TagEmpty:
		tag.SetAlbum("")
	case TagModify:
		if track.Album != nil && track.Album.Title != "" {
			tag.SetAlbum(track.Album.Title)
		}
	}

	// Track Title (TIT2)
	switch t.config.TrackTitle {
	case TagEmpty:
		tag.SetTitle("")
	case TagModify:
		tag.SetTitle(track.Title)
	}

	// Track Number (TRCK)
	switch t.config.TrackNumber {
	case TagEmpty:
		tag.DeleteFrames("TRCK")
	case TagModify:
		tag.AddTextFrame("TRCK", id3v2.EncodingUTF8, strconv.Itoa(track.Number))
	}

	// Comments (COMM)
	if t.config.Comments == TagEmpty {
		tag.DeleteFrames(tag.CommonID("Comments"))
	}
}

// updateArtwork embeds cover art as an attached picture frame.
func (t *Tagger) updateArtwork(tag *id3v2.Tag, artwork []byte) {
	tag.DeleteFrames(tag.CommonID("Attached picture"))

	pic := id3v2.PictureFrame{
		Encoding:    id3v2.EncodingUTF8,
		MimeType:    "image/jpeg",
		PictureType: id3v2.PTFrontCover,
		Description: "Cover",
		Picture:     artwork,
	}
	tag.AddAttachedPicture(pic)
}
