package ioutils

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"normal-file.mp3", "normal-file.mp3"},
		{"file:with:colons.mp3", "file-with-colons.mp3"},
		{"file<with>brackets.mp3", "file-with-brackets.mp3"},
		{`file/with\slashes.mp3`, "file-with-slashes.mp3"},
		{"file|with|pipes.mp3", "file-with-pipes.mp3"},
		{"file?with*wildcards.mp3", "file-with-wildcards.mp3"},
		{`file"with"quotes.mp3`, "file-with-quotes.mp3"},
		{"readme.", "readme"},
		{"trailing dots...", "trailing dots"},
		{"trailing spaces   ", "trailing spaces"},
		{"mixed . . ", "mixed"},
		{"CON", "CON_"},
		{"con", "con"},
		{"COM1", "COM1_"},
		{"LPT9", "LPT9_"},
		{"NUL.", "NUL_"},
		{"", "_"},
		{"...", "_"},
		{"~", "~_"},
		{"double  space", "double  space"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := SanitizeFileName(tt.input); got != tt.want {
				t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeFileName_Idempotent(t *testing.T) {
	inputs := []string{
		"", " ", ".", "..", "CON", "CON_", "a/.", "a ?", "? ", "x. :",
		`<>:"/\|?*`, "Track 01. ", "..hidden", "what?.", "AUX .",
	}

	for _, s := range inputs {
		once := SanitizeFileName(s)
		if twice := SanitizeFileName(once); twice != once {
			t.Errorf("SanitizeFileName not idempotent for %q: %q then %q", s, once, twice)
		}
		if strings.ContainsAny(once, `<>:"/\|?*`) {
			t.Errorf("SanitizeFileName(%q) = %q still contains invalid characters", s, once)
		}
	}
}

func TestEnsureDir(t *testing.T) {
	root := t.TempDir()

	nested := filepath.Join(root, "a", "b")
	if err := EnsureDir(nested); err != nil {
		t.Fatalf("EnsureDir() error = %v", err)
	}
	if info, err := os.Stat(nested); err != nil || !info.IsDir() {
		t.Fatalf("expected directory at %s", nested)
	}
	if err := EnsureDir(nested); err != nil {
		t.Errorf("EnsureDir() on existing dir error = %v", err)
	}

	file := filepath.Join(root, "file")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := EnsureDir(file); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("EnsureDir(file) error = %v, want ErrInvalidPath", err)
	}
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "song.mp3")

	n, err := WriteFileAtomic(path, strings.NewReader("audio"))
	if err != nil {
		t.Fatalf("WriteFileAtomic() error = %v", err)
	}
	if n != 5 {
		t.Errorf("written = %d, want 5", n)
	}

	data, err := os.ReadFile(path)
	if err != nil || string(data) != "audio" {
		t.Errorf("file content = %q, %v", data, err)
	}
	assertOnlyEntries(t, dir, "song.mp3")
}

func TestWriteFileAtomic_NeverOverwrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cover.jpg")
	if err := os.WriteFile(path, []byte("first"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := WriteFileAtomic(path, strings.NewReader("second"))
	if !errors.Is(err, fs.ErrExist) {
		t.Fatalf("WriteFileAtomic() error = %v, want fs.ErrExist", err)
	}

	data, _ := os.ReadFile(path)
	if string(data) != "first" {
		t.Errorf("file content = %q, want %q", data, "first")
	}
	assertOnlyEntries(t, dir, "cover.jpg")
}

// assertOnlyEntries fails unless dir holds exactly the named entries.
func assertOnlyEntries(t *testing.T, dir string, names ...string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, e := range entries {
		got = append(got, e.Name())
	}
	if strings.Join(got, ",") != strings.Join(names, ",") {
		t.Errorf("directory entries = %v, want %v", got, names)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestWriteFileAtomic_FailureLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "song.mp3")

	if _, err := WriteFileAtomic(path, failingReader{}); err == nil {
		t.Fatal("expected error")
	}
	assertOnlyEntries(t, dir)
}
