package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	khttp "github.com/handiism/khinsider-downloader/internal/http"
	"github.com/joho/godotenv"
)

// Environment variables read by ApplyEnv.
const (
	EnvOutputDirectory        = "KHINSIDER_OUTPUT_DIRECTORY"
	EnvFormats                = "KHINSIDER_FORMATS"
	EnvUserAgent              = "KHINSIDER_USER_AGENT"
	EnvMaxConcurrentDownloads = "KHINSIDER_MAX_CONCURRENT_DOWNLOADS"
	EnvLogLevel               = "KHINSIDER_LOG_LEVEL"
	EnvLogFormat              = "KHINSIDER_LOG_FORMAT"
)

// DefaultUserAgent is sent with every request unless overridden.
const DefaultUserAgent = khttp.DefaultUserAgent

// Settings holds all configuration options.
type Settings struct {
	// Download settings
	OutputDirectory        string   `json:"output_directory"`
	Formats                []string `json:"formats"`
	MaxConcurrentDownloads int      `json:"max_concurrent_downloads"`
	DownloadMaxRetries     int      `json:"download_max_retries"`
	DownloadRetryCooldown  float64  `json:"download_retry_cooldown"`
	DownloadRetryExponent  float64  `json:"download_retry_exponent"`
	RequestTimeout         float64  `json:"request_timeout"`
	UserAgent              string   `json:"user_agent"`

	// Tag settings
	ModifyTags            bool `json:"modify_tags"`
	SaveCoverArtInTags    bool `json:"save_cover_art_in_tags"`
	CoverArtInTagsMaxSize int  `json:"cover_art_in_tags_max_size"`

	// Playlist settings
	CreatePlaylist bool   `json:"create_playlist"`
	PlaylistFormat string `json:"playlist_format"` // m3u, pls, wpl, zpl
	M3UExtended    bool   `json:"m3u_extended"`

	// Log settings
	LogLevel  string `json:"log_level"`  // debug, info, warn, error
	LogFormat string `json:"log_format"` // text, json
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		OutputDirectory:        ".",
		MaxConcurrentDownloads: 1,
		DownloadMaxRetries:     5,
		DownloadRetryCooldown:  1,
		DownloadRetryExponent:  2,
		RequestTimeout:         60,
		UserAgent:              DefaultUserAgent,

		ModifyTags:            false,
		SaveCoverArtInTags:    true,
		CoverArtInTagsMaxSize: 1000,

		CreatePlaylist: false,
		PlaylistFormat: "m3u",
		M3UExtended:    true,

		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Load reads settings from a JSON file.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	settings.Formats = NormalizeFormats(settings.Formats)

	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overrides settings from the process environment.
//
// Variables found in envFile are loaded first; variables that are already
// set in the environment win. A missing envFile is not an error. Pass an
// empty envFile to skip it.
func (s *Settings) ApplyEnv(envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	if v, ok := os.LookupEnv(EnvOutputDirectory); ok && v != "" {
		s.OutputDirectory = v
	}
	if v, ok := os.LookupEnv(EnvFormats); ok {
		s.Formats = NormalizeFormats(strings.Split(v, ","))
	}
	if v, ok := os.LookupEnv(EnvUserAgent); ok && v != "" {
		s.UserAgent = v
	}
	if v, ok := os.LookupEnv(EnvMaxConcurrentDownloads); ok && v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n < 1 {
			return fmt.Errorf("%s: invalid value %q", EnvMaxConcurrentDownloads, v)
		}
		s.MaxConcurrentDownloads = n
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok && v != "" {
		s.LogLevel = v
	}
	if v, ok := os.LookupEnv(EnvLogFormat); ok && v != "" {
		s.LogFormat = v
	}

	return nil
}

// RetryCooldown returns the base delay between download retries.
func (s *Settings) RetryCooldown() time.Duration {
	return time.Duration(s.DownloadRetryCooldown * float64(time.Second))
}

// Timeout returns the per-request timeout.
func (s *Settings) Timeout() time.Duration {
	return time.Duration(s.RequestTimeout * float64(time.Second))
}

// NormalizeFormats cleans a format preference list.
//
// Leading dots and surrounding spaces are stripped, entries are lowercased
// and empty entries are dropped. Order is preserved.
//
// Example:
//
//	NormalizeFormats([]string{".FLAC", " mp3", ""}) // ["flac", "mp3"]
func NormalizeFormats(formats []string) []string {
	var out []string
	for _, f := range formats {
		f = strings.ToLower(strings.TrimLeft(strings.TrimSpace(f), "."))
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}
