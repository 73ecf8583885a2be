// Package download provides the download orchestration logic for
// saving soundtracks from the archive to disk.
//
// # Manager
//
// The Manager coordinates the entire download process:
//
//  1. Validate the album URL and fetch the album page
//  2. Resolve the files to download, one song page at a time
//  3. Save every file into the output directory
//  4. Tag new MP3 files with ID3 metadata (optional)
//  5. Generate a playlist (optional)
//
// # Basic Usage
//
//	manager := download.NewManager(settings, func(event download.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	summary, err := manager.Download(ctx, "https://downloads.khinsider.com/game-soundtracks/album/mother-3")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%d downloaded, %d failed\n", summary.Downloaded, summary.Failed)
//
// # Concurrency
//
// Up to settings.MaxConcurrentDownloads files are saved in parallel. The
// next song page is fetched only when a download slot frees up, so a
// cancelled run never requests pages past the files it started.
//
// # Persistence
//
// Each file is written to <dir>/<sanitized filename>. Existing files are
// never overwritten and report model.FileExists; files that cannot be
// fetched report model.ConnectionFailed and do not stop the run.
//
// # Progress Tracking
//
// Progress is reported via a callback function that receives ProgressEvent:
//
//	type ProgressEvent struct {
//	    Message string
//	    Level   ProgressLevel // Info, Verbose, Warning, Error, Success
//	}
//
// # Retry Logic
//
// Failed downloads are retried with exponential backoff, configurable via
// settings.DownloadMaxRetries, settings.DownloadRetryCooldown and
// settings.DownloadRetryExponent. Client errors such as 404 are not retried.
package download
