package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/handiism/khinsider-downloader/internal/audio"
	"github.com/handiism/khinsider-downloader/internal/config"
	"github.com/handiism/khinsider-downloader/internal/http"
	ioutils "github.com/handiism/khinsider-downloader/internal/io"
	"github.com/handiism/khinsider-downloader/internal/khinsider"
	"github.com/handiism/khinsider-downloader/internal/model"
	"golang.org/x/sync/errgroup"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a download progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// Summary reports the outcome of downloading one soundtrack.
type Summary struct {
	// Album lists the files present on disk after the run.
	Album *model.Album

	Downloaded int
	Existing   int
	Failed     int
	Missing    int // songs without a file in any requested format

	Bytes int64
}

// Manager coordinates soundtrack downloads.
type Manager struct {
	settings     *config.Settings
	httpClient   *http.Client
	fetcher      khinsider.Fetcher
	tagger       *audio.Tagger
	playlist     *audio.PlaylistCreator
	imageService *ioutils.ImageService

	receivedBytes  int64
	expectedFiles  int32
	processedFiles int32

	onProgress func(ProgressEvent)
	mu         sync.Mutex // serializes onProgress

	claimMu sync.Mutex
	claimed map[string]struct{} // destination paths being written
}

// NewManager creates a new download Manager.
func NewManager(settings *config.Settings, onProgress func(ProgressEvent)) *Manager {
	playlistFormat, _ := audio.ParsePlaylistFormat(settings.PlaylistFormat)
	httpClient := http.NewClient(settings.UserAgent, settings.Timeout())

	return &Manager{
		settings:     settings,
		httpClient:   httpClient,
		fetcher:      khinsider.NewPageFetcher(httpClient),
		tagger:       audio.NewTagger(audio.DefaultTagConfig()),
		playlist:     audio.NewPlaylistCreator(playlistFormat, settings.M3UExtended),
		imageService: ioutils.NewImageService(),
		onProgress:   onProgress,
		claimed:      make(map[string]struct{}),
	}
}

// Open validates albumURL, fetches the album page and returns its Soundtrack.
func (m *Manager) Open(ctx context.Context, albumURL string) (*khinsider.Soundtrack, error) {
	if _, err := khinsider.ParseAlbumURL(albumURL); err != nil {
		return nil, err
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("Fetching album page: %s", albumURL), Level: LevelVerbose})
	page, err := m.fetcher.Fetch(ctx, albumURL)
	if err != nil {
		return nil, err
	}
	return khinsider.NewSoundtrack(albumURL, page, m.fetcher), nil
}

// Download fetches the album at albumURL and saves its files to the
// configured output directory.
func (m *Manager) Download(ctx context.Context, albumURL string) (*Summary, error) {
	soundtrack, err := m.Open(ctx, albumURL)
	if err != nil {
		return nil, err
	}
	return m.DownloadSoundtrack(ctx, soundtrack, m.settings.OutputDirectory)
}

// ListFileURLs writes the URL of every file that would be downloaded, one
// per line, and returns how many were written.
func (m *Manager) ListFileURLs(ctx context.Context, soundtrack *khinsider.Soundtrack, w io.Writer) (int, error) {
	it, err := khinsider.Resolve(soundtrack, m.settings.Formats)
	if err != nil {
		return 0, err
	}
	it.OnMissing = m.reportMissing

	count := 0
	for file, err := range it.All(ctx) {
		if err != nil {
			return count, err
		}
		if _, err := fmt.Fprintln(w, file.URL); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// slot tracks one file handed to a download worker.
type slot struct {
	file   *model.File
	song   bool
	result model.DownloadResult
	bytes  int64
}

// DownloadSoundtrack saves every resolved file of soundtrack into dir.
//
// Files are resolved lazily: the next song page is only fetched once a
// download slot is free. Failed downloads are counted and do not stop the
// run. A song page that cannot be fetched, a cancelled context or a file that
// cannot be written to dir stops the run once the files in flight finish; the
// summary of what was done is returned together with the error.
func (m *Manager) DownloadSoundtrack(ctx context.Context, soundtrack *khinsider.Soundtrack, dir string) (*Summary, error) {
	it, err := khinsider.Resolve(soundtrack, m.settings.Formats)
	if err != nil {
		return nil, err
	}

	name, err := soundtrack.Name()
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = soundtrack.ID()
	}

	if err := ioutils.EnsureDir(dir); err != nil {
		return nil, err
	}

	summary := &Summary{Album: model.NewAlbum(name, soundtrack.URL, dir)}
	it.OnMissing = func(song *khinsider.Song) {
		summary.Missing++
		m.reportMissing(song)
	}

	atomic.StoreInt32(&m.expectedFiles, int32(it.Expected()))
	m.progress(ProgressEvent{Message: fmt.Sprintf("Found album: %s (%d files)", name, it.Expected()), Level: LevelInfo})

	limit := max(m.settings.MaxConcurrentDownloads, 1)
	sem := make(chan struct{}, limit)
	g, gctx := errgroup.WithContext(ctx)
	var slots []*slot

pull:
	for gctx.Err() == nil {
		select {
		case sem <- struct{}{}:
		case <-gctx.Done():
			break pull
		}
		if !it.Next(gctx) {
			<-sem
			break pull
		}

		s := &slot{file: it.File(), song: it.Song() != nil}
		slots = append(slots, s)
		g.Go(func() error {
			var err error
			s.result, s.bytes, err = m.persist(gctx, s.file, dir)
			if err != nil {
				// Keep the slot so nothing more is pulled.
				return err
			}
			<-sem
			return nil
		})
	}

	runErr := g.Wait()
	if runErr == nil {
		runErr = it.Err()
	}
	if runErr == nil {
		runErr = ctx.Err()
	}

	for _, s := range slots {
		switch s.result {
		case model.DownloadSuccess:
			summary.Downloaded++
			summary.Bytes += s.bytes
		case model.FileExists:
			summary.Existing++
		default:
			summary.Failed++
			continue
		}

		if s.song {
			summary.Album.AddTrack(s.file, s.result == model.DownloadSuccess)
		} else {
			summary.Album.SetArtwork(s.file)
		}
	}

	if runErr != nil {
		return summary, runErr
	}

	m.finishAlbum(ctx, summary.Album)

	level := LevelSuccess
	if summary.Failed > 0 {
		level = LevelWarning
	}
	m.progress(ProgressEvent{
		Message: fmt.Sprintf("Finished %s: %d downloaded, %d already present, %d failed", name, summary.Downloaded, summary.Existing, summary.Failed),
		Level:   level,
	})
	return summary, nil
}

// Persist saves file into dir under its sanitized name.
//
// An existing file is never overwritten and reports model.FileExists, as does
// a file whose name is already being written by another Persist call.
// Downloads are retried with exponential cooldown; when every attempt fails
// the result is model.ConnectionFailed.
func (m *Manager) Persist(ctx context.Context, file *model.File, dir string) model.DownloadResult {
	result, _, _ := m.persist(ctx, file, dir)
	return result
}

// persist returns a non-nil error only when dir cannot be written to, which
// no later file would get past either.
func (m *Manager) persist(ctx context.Context, file *model.File, dir string) (model.DownloadResult, int64, error) {
	defer atomic.AddInt32(&m.processedFiles, 1)

	name := ioutils.SanitizeFileName(file.Filename)
	path := filepath.Join(dir, name)

	if !m.claim(path) {
		m.skipExisting(name)
		return model.FileExists, 0, nil
	}
	defer m.release(path)

	if ioutils.Exists(path) {
		m.skipExisting(name)
		return model.FileExists, 0, nil
	}

	attempts := max(m.settings.DownloadMaxRetries, 1)

	var err error
	for tries := 0; tries < attempts; tries++ {
		var n, last int64
		n, err = m.httpClient.DownloadFile(ctx, file.URL, path, func(written, total int64) {
			atomic.AddInt64(&m.receivedBytes, written-last)
			last = written
		})
		if err == nil {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Downloaded: %s", name), Level: LevelVerbose})
			return model.DownloadSuccess, n, nil
		}
		atomic.AddInt64(&m.receivedBytes, -last)

		if errors.Is(err, fs.ErrExist) {
			m.skipExisting(name)
			return model.FileExists, 0, nil
		}
		if localFailure(err) {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Cannot save %s: %v", name, err), Level: LevelError})
			return model.ConnectionFailed, 0, fmt.Errorf("save %s: %w", name, err)
		}
		if ctx.Err() != nil || !retryable(err) || tries == attempts-1 {
			break
		}
		m.progress(ProgressEvent{Message: fmt.Sprintf("Retry %d/%d for %s", tries+1, attempts-1, name), Level: LevelWarning})
		m.waitForRetry(ctx, tries)
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("Failed to download %s: %v", name, err), Level: LevelError})
	return model.ConnectionFailed, 0, nil
}

// claim reserves path for one writer. It reports false if path is taken.
func (m *Manager) claim(path string) bool {
	m.claimMu.Lock()
	defer m.claimMu.Unlock()
	if _, taken := m.claimed[path]; taken {
		return false
	}
	m.claimed[path] = struct{}{}
	return true
}

func (m *Manager) release(path string) {
	m.claimMu.Lock()
	defer m.claimMu.Unlock()
	delete(m.claimed, path)
}

func (m *Manager) skipExisting(name string) {
	m.progress(ProgressEvent{Message: fmt.Sprintf("Skipping existing: %s", name), Level: LevelVerbose})
}

// localFailure reports whether err comes from the filesystem rather than the
// network.
func localFailure(err error) bool {
	var pathErr *fs.PathError
	var linkErr *os.LinkError
	return errors.As(err, &pathErr) || errors.As(err, &linkErr)
}

// retryable reports whether a failed download may succeed when repeated.
// Client errors such as 404 are final.
func retryable(err error) bool {
	var statusErr *http.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode >= 500 || statusErr.StatusCode == 429
	}
	return true
}

// finishAlbum runs the tagging and playlist steps for a downloaded album.
func (m *Manager) finishAlbum(ctx context.Context, album *model.Album) {
	if m.settings.ModifyTags {
		m.tagAlbum(ctx, album)
	}

	if m.settings.CreatePlaylist && len(album.Tracks) > 0 {
		path, err := m.playlist.WritePlaylist(ctx, album)
		if err != nil {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Error creating playlist: %v", err), Level: LevelWarning})
		} else {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Created playlist: %s", filepath.Base(path)), Level: LevelSuccess})
		}
	}
}

func (m *Manager) tagAlbum(ctx context.Context, album *model.Album) {
	var cover []byte
	if m.settings.SaveCoverArtInTags && album.HasArtwork() {
		data, err := os.ReadFile(album.ArtworkPath)
		if err == nil {
			cover, err = m.imageService.PrepareCover(ctx, data, m.settings.CoverArtInTagsMaxSize)
		}
		if err != nil {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Cover art not embedded: %v", err), Level: LevelWarning})
			cover = nil
		}
	}

	for _, track := range album.Tracks {
		if !track.Fresh || !track.IsMP3() {
			continue
		}
		if err := m.tagger.SaveTags(track, cover); err != nil {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Error tagging %s: %v", filepath.Base(track.Path), err), Level: LevelWarning})
			continue
		}
		m.progress(ProgressEvent{Message: fmt.Sprintf("Tagged: %s", filepath.Base(track.Path)), Level: LevelVerbose})
	}
}

func (m *Manager) reportMissing(song *khinsider.Song) {
	m.progress(ProgressEvent{Message: fmt.Sprintf("No file matching the requested formats for song %s", song.URL), Level: LevelWarning})
}

// GetProgress returns current download progress.
func (m *Manager) GetProgress() (received int64, filesProcessed, filesExpected int32) {
	return atomic.LoadInt64(&m.receivedBytes),
		atomic.LoadInt32(&m.processedFiles),
		atomic.LoadInt32(&m.expectedFiles)
}

func (m *Manager) waitForRetry(ctx context.Context, tries int) {
	factor := math.Pow(m.settings.DownloadRetryExponent, float64(tries))
	select {
	case <-ctx.Done():
	case <-time.After(time.Duration(float64(m.settings.RetryCooldown()) * factor)):
	}
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onProgress(event)
}
