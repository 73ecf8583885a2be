package khinsider

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// maxQuotedID is the longest album id that is quoted in error messages.
const maxQuotedID = 80

// NonexistentAlbumError is returned when a page is not a valid album page.
//
// This happens when:
//   - The page has no content region
//   - The content region has no paragraph, or it reads "No such album"
//   - The album name heading or the song list table is missing
type NonexistentAlbumError struct {
	Soundtrack *Soundtrack
}

func (e *NonexistentAlbumError) Error() string {
	return fmt.Sprintf("The soundtrack %sdoes not exist.", quotedID(e.Soundtrack))
}

// UnavailableFormatsError is returned when none of the requested formats is
// offered by the album.
type UnavailableFormatsError struct {
	Soundtrack *Soundtrack
	Requested  []string
}

func (e *UnavailableFormatsError) Error() string {
	quoted := make([]string, len(e.Requested))
	for i, f := range e.Requested {
		quoted[i] = fmt.Sprintf("%q", f)
	}
	return fmt.Sprintf("The soundtrack %sis not available in the requested formats (%s).",
		quotedID(e.Soundtrack), strings.Join(quoted, ", "))
}

// AvailableMessage describes the formats the album is actually offered in.
//
// Example:
//
//	`The soundtrack "mother-3" is only available in the "mp3" and "flac" formats.`
func (e *UnavailableFormatsError) AvailableMessage() string {
	formats, err := e.Soundtrack.AvailableFormats()
	if err != nil || len(formats) == 0 {
		return e.Error()
	}
	return fmt.Sprintf("The soundtrack %sis only available in the %s.", quotedID(e.Soundtrack), describeFormats(formats))
}

// IsNonexistentAlbum reports whether err is, or wraps, a *NonexistentAlbumError.
func IsNonexistentAlbum(err error) bool {
	var e *NonexistentAlbumError
	return errors.As(err, &e)
}

// IsUnavailableFormats reports whether err is, or wraps, an *UnavailableFormatsError.
func IsUnavailableFormats(err error) bool {
	var e *UnavailableFormatsError
	return errors.As(err, &e)
}

// Describe renders err as a message for the person who asked to download
// albumURL.
func Describe(err error, albumURL string) string {
	var unavailable *UnavailableFormatsError
	var urlErr *url.Error

	switch {
	case IsNonexistentAlbum(err):
		return fmt.Sprintf("The soundtrack %q does not seem to exist.", albumURL)
	case errors.As(err, &unavailable):
		prefix := "Formats not available. "
		if len(unavailable.Requested) == 1 {
			prefix = "Format not available. "
		}
		return prefix + unavailable.AvailableMessage()
	case errors.Is(err, ErrInvalidAlbumURL):
		return fmt.Sprintf("%q is not a valid album URL.", albumURL)
	case errors.As(err, &urlErr):
		return "Could not connect to KHInsider."
	}
	return err.Error()
}

func quotedID(s *Soundtrack) string {
	if s == nil {
		return ""
	}
	id := s.ID()
	if id == "" || len(id) > maxQuotedID {
		return ""
	}
	return fmt.Sprintf("%q ", id)
}

// describeFormats renders `"mp3" format.`-style lists with an Oxford comma.
func describeFormats(formats []string) string {
	quoted := make([]string, len(formats))
	for i, f := range formats {
		quoted[i] = fmt.Sprintf("%q", f)
	}

	switch len(quoted) {
	case 1:
		return quoted[0] + " format"
	case 2:
		return quoted[0] + " and " + quoted[1] + " formats"
	default:
		return strings.Join(quoted[:len(quoted)-1], ", ") + ", and " + quoted[len(quoted)-1] + " formats"
	}
}
