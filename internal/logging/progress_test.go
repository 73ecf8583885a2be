package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/handiism/khinsider-downloader/internal/download"
)

func TestProgressHandler_Levels(t *testing.T) {
	tests := []struct {
		level     download.ProgressLevel
		wantLevel string
	}{
		{download.LevelInfo, "info"},
		{download.LevelVerbose, "debug"},
		{download.LevelWarning, "warn"},
		{download.LevelError, "error"},
		{download.LevelSuccess, "info"},
	}

	for _, tt := range tests {
		t.Run(tt.wantLevel, func(t *testing.T) {
			var buf bytes.Buffer
			handler := ProgressHandler(New(Config{Level: "debug", Format: "json", Output: &buf}))

			handler(download.ProgressEvent{Message: "hello", Level: tt.level})

			var entry map[string]any
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				t.Fatalf("output is not JSON: %v", err)
			}
			if entry["level"] != tt.wantLevel {
				t.Errorf("level = %v, want %s", entry["level"], tt.wantLevel)
			}
			if entry["message"] != "hello" {
				t.Errorf("message = %v", entry["message"])
			}
		})
	}
}

func TestProgressHandler_SuccessStatus(t *testing.T) {
	var buf bytes.Buffer
	handler := ProgressHandler(New(Config{Format: "json", Output: &buf}))

	handler(download.ProgressEvent{Message: "done", Level: download.LevelSuccess})

	if !strings.Contains(buf.String(), `"status":"success"`) {
		t.Errorf("output = %q, want status=success", buf.String())
	}
}

func TestProgressHandler_VerboseHiddenAtInfo(t *testing.T) {
	var buf bytes.Buffer
	handler := ProgressHandler(New(Config{Level: "info", Format: "json", Output: &buf}))

	handler(download.ProgressEvent{Message: "Downloaded: a.mp3", Level: download.LevelVerbose})

	if buf.Len() != 0 {
		t.Errorf("verbose event written at info level: %q", buf.String())
	}
}
