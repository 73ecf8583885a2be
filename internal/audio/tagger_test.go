package audio

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/bogem/id3v2"
	"github.com/handiism/khinsider-downloader/internal/model"
)

// fakeAudio stands in for MPEG frames; the tagger never decodes audio.
var fakeAudio = bytes.Repeat([]byte{0xFF, 0xFB, 0x90, 0x00}, 64)

func newTestTrack(t *testing.T, filename string) *model.Track {
	t.Helper()
	dir := t.TempDir()
	album := model.NewAlbum("Mother 3", "https://downloads.khinsider.com/game-soundtracks/album/mother-3", dir)
	album.AddTrack(model.NewFile("https://vgm.example.com/soundtracks/mother-3/a/intro.mp3"), true)
	track := album.AddTrack(model.NewFile("https://vgm.example.com/soundtracks/mother-3/a/"+filename), true)

	if err := os.WriteFile(track.Path, fakeAudio, 0644); err != nil {
		t.Fatal(err)
	}
	return track
}

func TestTagger_SaveTags(t *testing.T) {
	track := newTestTrack(t, "02%20Love%20Theme.mp3")
	cover := []byte{0xFF, 0xD8, 0xFF, 0xD9}

	if err := NewTagger(nil).SaveTags(track, cover); err != nil {
		t.Fatalf("SaveTags() error = %v", err)
	}

	tag, err := id3v2.Open(track.Path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer tag.Close()

	if got := tag.Album(); got != "Mother 3" {
		t.Errorf("Album() = %q, want %q", got, "Mother 3")
	}
	if got := tag.Title(); got != "02 Love Theme" {
		t.Errorf("Title() = %q, want %q", got, "02 Love Theme")
	}
	if got := tag.GetTextFrame("TRCK").Text; got != "2" {
		t.Errorf("TRCK = %q, want 2", got)
	}

	pictures := tag.GetFrames(tag.CommonID("Attached picture"))
	if len(pictures) != 1 {
		t.Fatalf("got %d pictures, want 1", len(pictures))
	}
	pic, ok := pictures[0].(id3v2.PictureFrame)
	if !ok || !bytes.Equal(pic.Picture, cover) {
		t.Error("cover art not embedded")
	}
}

func TestTagger_KeepsAudio(t *testing.T) {
	track := newTestTrack(t, "song.mp3")

	if err := NewTagger(nil).SaveTags(track, nil); err != nil {
		t.Fatalf("SaveTags() error = %v", err)
	}

	data, err := os.ReadFile(track.Path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasSuffix(data, fakeAudio) {
		t.Error("audio frames changed by tagging")
	}
	if !bytes.HasPrefix(data, []byte("ID3")) {
		t.Error("file should start with an ID3 header")
	}
}

func TestTagger_DoNotModify(t *testing.T) {
	track := newTestTrack(t, "song.mp3")

	cfg := DefaultTagConfig()
	cfg.ModifyTags = false
	if err := NewTagger(cfg).SaveTags(track, nil); err != nil {
		t.Fatalf("SaveTags() error = %v", err)
	}

	tag, err := id3v2.Open(track.Path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatal(err)
	}
	defer tag.Close()

	if tag.Album() != "" || tag.Title() != "" {
		t.Errorf("text frames written with ModifyTags=false: album %q, title %q", tag.Album(), tag.Title())
	}
}

func TestTagger_NotMP3(t *testing.T) {
	track := newTestTrack(t, "song.flac")

	err := NewTagger(nil).SaveTags(track, nil)
	if !errors.Is(err, ErrNotMP3) {
		t.Errorf("SaveTags() error = %v, want ErrNotMP3", err)
	}
}

func TestTagger_MissingFile(t *testing.T) {
	track := newTestTrack(t, "song.mp3")
	if err := os.Remove(track.Path); err != nil {
		t.Fatal(err)
	}

	if err := NewTagger(nil).SaveTags(track, nil); err == nil {
		t.Error("SaveTags() should fail for a missing file")
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(track.Path), "song.mp3")); !os.IsNotExist(err) {
		t.Error("SaveTags() should not create the file")
	}
}
