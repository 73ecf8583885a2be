// Package model defines the core data structures used throughout
// the khinsider-downloader application.
//
// # File
//
// File is one downloadable resource discovered while resolving an album page:
//
//	file := model.NewFile("https://example.com/soundtracks/ost/01%20Intro.mp3")
//	fmt.Println(file.Filename)    // "01 Intro.mp3"
//	fmt.Println(file.Extension()) // "mp3"
//
// The filename is kept exactly as the URL encodes it. It is only made safe
// for the filesystem when the file is persisted.
//
// # Album and Track
//
// Album and Track record what ended up on disk after a download run. They feed
// ID3 tagging and playlist generation:
//
//	album := model.NewAlbum("Mother 3", albumURL, "/music/mother-3")
//	track := album.AddTrack(file, true)
//	fmt.Println(track.Path) // "/music/mother-3/01 Intro.mp3"
//
// # DownloadResult
//
// DownloadResult reports the outcome of persisting a single File.
package model
