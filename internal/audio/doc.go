// Package audio provides post-download services for saved soundtracks:
// ID3 tag writing and playlist generation.
//
// # ID3 Tagging
//
// Use the Tagger to write ID3 tags to downloaded MP3 files:
//
//	tagger := audio.NewTagger(audio.DefaultTagConfig())
//	err := tagger.SaveTags(track, coverJPEG)
//
// The tagger supports:
//   - Album Title, Track Title
//   - Track Number
//   - Cover Art (embedded in MP3)
//
// Other formats offered by the archive (FLAC, OGG, M4A) are left untouched.
//
// # Playlist Generation
//
// Generate playlists in various formats:
//
//	creator := audio.NewPlaylistCreator(audio.FormatM3U, true) // extended M3U
//	err := creator.WritePlaylist(album)
//	// writes <album dir>/<album name>.m3u
//
// Supported formats:
//   - M3U (with optional extended info)
//   - PLS
//   - WPL (Windows Media Player)
//   - ZPL (Zune Media Player)
package audio
