package model

import (
	"path/filepath"
	"testing"
)

func TestNewFile_Filename(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://host/soundtracks/album/01%20Intro.mp3", "01 Intro.mp3"},
		{"https://host/ost/album/Track.flac", "Track.flac"},
		{"https://host/ost/album/a%2Fb.ogg", "a/b.ogg"},
		{"https://host/ost/album/100%.mp3", "100%.mp3"},
		{"https://host/ost/album/", ""},
		{"plain.mp3", "plain.mp3"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			f := NewFile(tt.url)
			if f.URL != tt.url {
				t.Errorf("URL = %q, want %q", f.URL, tt.url)
			}
			if f.Filename != tt.want {
				t.Errorf("Filename = %q, want %q", f.Filename, tt.want)
			}
		})
	}
}

func TestFile_FilenameNotSanitized(t *testing.T) {
	f := NewFile("https://host/ost/album/What%3F%20Why%3A.mp3")
	if f.Filename != "What? Why:.mp3" {
		t.Errorf("Filename = %q, want raw decoded name", f.Filename)
	}
}

func TestFile_Extension(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"song.mp3", "mp3"},
		{"song.FLAC", "flac"},
		{"archive.tar.ogg", "ogg"},
		{"noext", ""},
		{".hidden", ""},
		{"trailing.", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &File{Filename: tt.name}
			if got := f.Extension(); got != tt.want {
				t.Errorf("Extension() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFile_Title(t *testing.T) {
	f := &File{Filename: "01 Intro.mp3"}
	if got := f.Title(); got != "01 Intro" {
		t.Errorf("Title() = %q, want %q", got, "01 Intro")
	}
}

func TestAlbum_AddTrack(t *testing.T) {
	album := NewAlbum("Mother 3", "https://host/album/mother-3", "/music")

	first := album.AddTrack(NewFile("https://host/ost/m3/01%20Love%3F.mp3"), true)
	second := album.AddTrack(NewFile("https://host/ost/m3/02%20Theme.flac"), false)

	if first.Number != 1 || second.Number != 2 {
		t.Errorf("track numbers = %d, %d, want 1, 2", first.Number, second.Number)
	}
	if want := filepath.Join("/music", "01 Love-.mp3"); first.Path != want {
		t.Errorf("Path = %q, want %q", first.Path, want)
	}
	if !first.IsMP3() || second.IsMP3() {
		t.Error("IsMP3() should only be true for the mp3 track")
	}
	if !first.Fresh || second.Fresh {
		t.Error("Fresh flag not kept")
	}
}

func TestAlbum_SetArtworkKeepsFirst(t *testing.T) {
	album := NewAlbum("", "", "/music")
	if album.HasArtwork() {
		t.Fatal("new album should have no artwork")
	}

	album.SetArtwork(NewFile("https://host/cover.jpg"))
	album.SetArtwork(NewFile("https://host/back.jpg"))

	if want := filepath.Join("/music", "cover.jpg"); album.ArtworkPath != want {
		t.Errorf("ArtworkPath = %q, want %q", album.ArtworkPath, want)
	}
}

func TestDownloadResult_String(t *testing.T) {
	tests := []struct {
		result DownloadResult
		want   string
	}{
		{DownloadSuccess, "DownloadSuccess"},
		{FileExists, "FileExists"},
		{ConnectionFailed, "ConnectionFailed"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.result.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}
