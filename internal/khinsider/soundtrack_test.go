package khinsider

import (
	"errors"
	"reflect"
	"testing"
)

func TestSoundtrack_Name(t *testing.T) {
	st := NewSoundtrack(testAlbumURL, mustParse(t, albumHTML), albumFetcher())

	name, err := st.Name()
	if err != nil {
		t.Fatalf("Name() error = %v", err)
	}
	if name != "Mother 3" {
		t.Errorf("Name() = %q, want %q", name, "Mother 3")
	}
	if st.ID() != "mother-3" {
		t.Errorf("ID() = %q, want mother-3", st.ID())
	}
}

func TestSoundtrack_AvailableFormats(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   []string
	}{
		{"declared formats", `<tr><th>Track</th><th>Song Name</th><th>MP3</th><th>FLAC</th><th>Size</th></tr>`, []string{"mp3", "flac"}},
		{"data cells", `<tr><td></td><td>Song Name</td><td>OGG</td><td>Download</td></tr>`, []string{"ogg"}},
		{"no format columns", `<tr><th>Track</th><th>Song Name</th><th>Size</th></tr>`, []string{"mp3"}},
		{"nested markup", `<tr><th><b> M4A </b></th><th>Size</th></tr>`, []string{"m4a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := `<div id="pageContent"><h2>x</h2><p>info</p><table id="songlist">` + tt.header + `</table></div>`
			st := NewSoundtrack(testAlbumURL, mustParse(t, page), albumFetcher())

			got, err := st.AvailableFormats()
			if err != nil {
				t.Fatalf("AvailableFormats() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("AvailableFormats() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSoundtrack_AvailableFormatsMemoized(t *testing.T) {
	st := NewSoundtrack(testAlbumURL, mustParse(t, albumHTML), albumFetcher())

	first, err := st.AvailableFormats()
	if err != nil {
		t.Fatalf("AvailableFormats() error = %v", err)
	}
	for i := 0; i < 2; i++ {
		again, _ := st.AvailableFormats()
		if &again[0] != &first[0] {
			t.Fatal("AvailableFormats() recomputed the formats")
		}
	}
	if !reflect.DeepEqual(first, []string{"mp3", "flac"}) {
		t.Errorf("AvailableFormats() = %v", first)
	}
}

func TestSoundtrack_Songs(t *testing.T) {
	st := NewSoundtrack(testAlbumURL, mustParse(t, albumHTML), albumFetcher())

	songs, err := st.Songs()
	if err != nil {
		t.Fatalf("Songs() error = %v", err)
	}

	want := []string{song1URL, song2URL, song3URL}
	if len(songs) != len(want) {
		t.Fatalf("got %d songs, want %d", len(songs), len(want))
	}
	for i, s := range songs {
		if s.URL != want[i] {
			t.Errorf("songs[%d].URL = %q, want %q", i, s.URL, want[i])
		}
	}

	again, _ := st.Songs()
	if again[0] != songs[0] {
		t.Error("Songs() should return the cached Song values")
	}
}

func TestSoundtrack_Images(t *testing.T) {
	st := NewSoundtrack(testAlbumURL, mustParse(t, albumHTML), albumFetcher())

	images, err := st.Images()
	if err != nil {
		t.Fatalf("Images() error = %v", err)
	}

	want := []string{
		"https://img.example.com/covers/Cover%201.jpg",
		"https://downloads.khinsider.com/scans/Back.png",
	}
	if len(images) != len(want) {
		t.Fatalf("got %d images, want %d: %v", len(images), len(want), images)
	}
	for i, img := range images {
		if img.URL != want[i] {
			t.Errorf("images[%d].URL = %q, want %q", i, img.URL, want[i])
		}
	}
	if images[0].Filename != "Cover 1.jpg" {
		t.Errorf("Filename = %q", images[0].Filename)
	}
}

func TestSoundtrack_ImagesWithoutTable(t *testing.T) {
	page := `<div id="pageContent"><h2>x</h2><p>info</p></div>`
	st := NewSoundtrack(testAlbumURL, mustParse(t, page), albumFetcher())

	images, err := st.Images()
	if err != nil {
		t.Fatalf("Images() error = %v", err)
	}
	if len(images) != 0 {
		t.Errorf("got %d images, want 0", len(images))
	}
}

func TestSoundtrack_Nonexistent(t *testing.T) {
	pages := map[string]string{
		"no such album":     `<html><body><div id="pageContent"><p>No such album</p></div></body></html>`,
		"no content region": `<html><body><p>Hello</p></body></html>`,
		"no paragraph":      `<html><body><div id="pageContent"><h2>Name</h2><table id="songlist"></table></div></body></html>`,
		"nil page":          "",
	}

	for name, page := range pages {
		t.Run(name, func(t *testing.T) {
			st := NewSoundtrack(testAlbumURL, nil, albumFetcher())
			if page != "" {
				st = NewSoundtrack(testAlbumURL, mustParse(t, page), albumFetcher())
			}

			checks := map[string]func() error{
				"Name":             func() error { _, err := st.Name(); return err },
				"AvailableFormats": func() error { _, err := st.AvailableFormats(); return err },
				"Songs":            func() error { _, err := st.Songs(); return err },
				"Images":           func() error { _, err := st.Images(); return err },
			}
			for prop, check := range checks {
				err := check()
				var nonexistent *NonexistentAlbumError
				if !errors.As(err, &nonexistent) {
					t.Errorf("%s() error = %v, want *NonexistentAlbumError", prop, err)
					continue
				}
				if nonexistent.Soundtrack != st {
					t.Errorf("%s() error does not reference the soundtrack", prop)
				}
			}
		})
	}
}

func TestSoundtrack_MissingPartsAreNonexistent(t *testing.T) {
	page := `<div id="pageContent"><p>Album info</p><table><tr><td>art</td></tr></table></div>`
	st := NewSoundtrack(testAlbumURL, mustParse(t, page), albumFetcher())

	if _, err := st.Name(); !IsNonexistentAlbum(err) {
		t.Errorf("Name() without heading error = %v", err)
	}
	if _, err := st.AvailableFormats(); !IsNonexistentAlbum(err) {
		t.Errorf("AvailableFormats() without song list error = %v", err)
	}
	if _, err := st.Songs(); !IsNonexistentAlbum(err) {
		t.Errorf("Songs() without song list error = %v", err)
	}
	if images, err := st.Images(); err != nil || len(images) != 0 {
		t.Errorf("Images() = %v, %v; want empty list", images, err)
	}
}
