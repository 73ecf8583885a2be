// Package http provides the HTTP client used to talk to the KHInsider archive.
//
// The Client in this package handles:
//   - A browser User-Agent header (the archive rejects unknown agents)
//   - Timeout handling
//   - File downloads streamed to disk with progress tracking
//   - Typed errors for unusable responses (non-200 downloads, 5xx pages)
//
// # Basic Usage
//
//	client := http.NewClient(http.DefaultUserAgent, time.Minute)
//
//	// Fetch an album page
//	body, err := client.GetPage(ctx, "https://downloads.khinsider.com/game-soundtracks/album/mother-3")
//
//	// Download a file with a progress callback
//	n, err := client.DownloadFile(ctx, fileURL, "/music/01 Intro.mp3", func(written, total int64) {
//	    fmt.Printf("%d/%d\n", written, total)
//	})
package http
