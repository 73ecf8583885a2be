// Package config provides configuration management for khinsider-downloader.
//
// This package handles:
//   - Loading and saving settings from JSON files
//   - Default configuration values
//   - Overrides from the environment and an optional .env file
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// Downloads into the current directory
//	// One download at a time, five retries
//	// Tags and playlists disabled
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/config.json")
//	if err != nil {
//	    // Uses defaults if file doesn't exist
//	}
//
// # Environment
//
// ApplyEnv loads an optional .env file and applies the KHINSIDER_* variables
// on top of the loaded settings:
//
//	KHINSIDER_OUTPUT_DIRECTORY=/music/vgm
//	KHINSIDER_FORMATS=flac,mp3
//	KHINSIDER_MAX_CONCURRENT_DOWNLOADS=4
//	KHINSIDER_LOG_LEVEL=debug
package config
