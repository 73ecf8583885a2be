package ioutils

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// ErrInvalidPath is returned when an output path exists but is not a directory.
var ErrInvalidPath = errors.New("path is a file, which is invalid")

// invalidChars matches characters Windows does not allow in filenames.
// They are replaced on every platform so names stay the same across systems.
var invalidChars = regexp.MustCompile(`[<>:"/\\|?*]`)

// reservedNames cannot be used as filenames on Windows.
var reservedNames = map[string]struct{}{
	"": {}, ".": {}, "..": {}, "~": {},
	"CON": {}, "PRN": {}, "AUX": {}, "NUL": {},
	"COM1": {}, "COM2": {}, "COM3": {}, "COM4": {}, "COM5": {},
	"COM6": {}, "COM7": {}, "COM8": {}, "COM9": {},
	"LPT1": {}, "LPT2": {}, "LPT3": {}, "LPT4": {}, "LPT5": {},
	"LPT6": {}, "LPT7": {}, "LPT8": {}, "LPT9": {},
}

// SanitizeFileName maps an arbitrary string to a name that is safe to create
// on any major filesystem.
//
// The following transformations are applied:
//   - Trailing spaces and dots are removed (Explorer cannot handle them)
//   - Reserved names (CON, PRN, NUL, COM1, "..", empty, ...) get a trailing underscore
//   - Invalid characters (<>:"/\|?*) are replaced with a hyphen
//
// The reserved name check is case-sensitive. SanitizeFileName is idempotent.
//
// Example:
//
//	SanitizeFileName("readme.")    // Returns "readme"
//	SanitizeFileName("CON")        // Returns "CON_"
//	SanitizeFileName("What? Why:") // Returns "What- Why-"
func SanitizeFileName(name string) string {
	name = strings.TrimRight(name, " .")

	if _, reserved := reservedNames[name]; reserved {
		return name + "_"
	}

	return invalidChars.ReplaceAllString(name, "-")
}

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Returns ErrInvalidPath if path already exists as a regular file.
func EnsureDir(path string) error {
	info, err := os.Stat(path)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("%w: %s", ErrInvalidPath, path)
		}
		return nil
	}
	if !os.IsNotExist(err) {
		return err
	}
	return os.MkdirAll(path, 0755)
}

// Exists reports whether anything is present at path.
func Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// WriteFile writes data to a file, creating it if necessary.
func WriteFile(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// WriteFileAtomic streams r into path without ever replacing an existing file.
//
// The content is first written to a uniquely named ".part" file next to path
// and only moved into place once fully written, so an interrupted download
// never leaves a truncated file under the final name. If path appeared in the
// meantime the new content is discarded and the error matches fs.ErrExist.
func WriteFileAtomic(path string, r io.Reader) (int64, error) {
	dir, name := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	out, err := os.CreateTemp(dir, "."+name+".*.part")
	if err != nil {
		return 0, err
	}
	tmp := out.Name()
	defer os.Remove(tmp)

	n, err := io.Copy(out, r)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return n, err
	}
	if err := os.Chmod(tmp, 0644); err != nil {
		return n, err
	}

	if err := publish(tmp, path); err != nil {
		return n, err
	}
	return n, nil
}

// publish moves tmp to path unless path exists.
//
// A hard link fails atomically when path is taken. Filesystems without hard
// links fall back to a checked rename.
func publish(tmp, path string) error {
	err := os.Link(tmp, path)
	if err == nil || errors.Is(err, fs.ErrExist) {
		return err
	}
	if Exists(path) {
		return fmt.Errorf("%s: %w", path, fs.ErrExist)
	}
	return os.Rename(tmp, path)
}
