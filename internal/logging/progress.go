package logging

import (
	"github.com/handiism/khinsider-downloader/internal/download"
	"github.com/rs/zerolog"
)

// ProgressHandler returns a download progress callback that writes every
// event to logger. Verbose events are logged at debug level; success events
// at info level with status=success.
func ProgressHandler(logger zerolog.Logger) func(download.ProgressEvent) {
	return func(event download.ProgressEvent) {
		var e *zerolog.Event
		switch event.Level {
		case download.LevelVerbose:
			e = logger.Debug()
		case download.LevelWarning:
			e = logger.Warn()
		case download.LevelError:
			e = logger.Error()
		case download.LevelSuccess:
			e = logger.Info().Str("status", "success")
		default:
			e = logger.Info()
		}
		e.Msg(event.Message)
	}
}
