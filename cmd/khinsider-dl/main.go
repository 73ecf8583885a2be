package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/handiism/khinsider-downloader/internal/config"
	"github.com/handiism/khinsider-downloader/internal/download"
	"github.com/handiism/khinsider-downloader/internal/khinsider"
	"github.com/handiism/khinsider-downloader/internal/logging"
)

const (
	exitOK          = 0
	exitFailure     = 1
	exitInterrupted = 130
)

// formatList collects repeated -f flags; each value may hold a comma list.
type formatList []string

func (f *formatList) String() string {
	return strings.Join(*f, ",")
}

func (f *formatList) Set(value string) error {
	*f = append(*f, strings.Split(value, ",")...)
	return nil
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupts
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nInterrupted, cancelling...")
		cancel()
	}()

	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("khinsider-dl", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var formats formatList
	var (
		inputFlag     = fs.String("i", "", "Album URL to download")
		outputFlag    = fs.String("o", "", "Output directory (overrides config)")
		listFlag      = fs.Bool("list_file_urls", false, "Print the file URLs instead of downloading")
		configFlag    = fs.String("config", "", "Path to config file")
		envFlag       = fs.String("env", ".env", "Path to an optional .env file")
		playlistFlag  = fs.Bool("playlist", false, "Create playlist file")
		tagsFlag      = fs.Bool("tags", false, "Write ID3 tags to downloaded MP3 files")
		verboseFlag   = fs.Bool("verbose", false, "Show verbose output")
		logFormatFlag = fs.String("log-format", "", "Log format: text or json (overrides config)")
	)
	fs.Var(&formats, "f", "Preferred format, most wanted first (repeatable, or comma-separated)")

	fs.Usage = func() {
		fmt.Fprintln(stderr, "KHInsider Downloader - Download video game soundtracks")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Usage:")
		fmt.Fprintln(stderr, "  khinsider-dl -i <album URL> [options]")
		fmt.Fprintln(stderr, "  khinsider-dl [options] <album URL>")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "For interactive mode, use: khinsider-tui")
		fmt.Fprintln(stderr)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitFailure
	}

	albumURL := strings.TrimSpace(*inputFlag)
	if albumURL == "" && fs.NArg() > 0 {
		albumURL = strings.TrimSpace(fs.Arg(0))
	}
	if albumURL == "" {
		fs.Usage()
		return exitFailure
	}

	// Load config
	settings := config.DefaultSettings()
	if *configFlag != "" {
		var err error
		settings, err = config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(stderr, "Error loading config: %v\n", err)
			return exitFailure
		}
	}
	if err := settings.ApplyEnv(*envFlag); err != nil {
		fmt.Fprintf(stderr, "Error loading environment: %v\n", err)
		return exitFailure
	}

	// Apply flags
	if *outputFlag != "" {
		settings.OutputDirectory = *outputFlag
	}
	if len(formats) > 0 {
		settings.Formats = config.NormalizeFormats(formats)
	}
	if *playlistFlag {
		settings.CreatePlaylist = true
	}
	if *tagsFlag {
		settings.ModifyTags = true
	}
	if *verboseFlag {
		settings.LogLevel = "debug"
	}
	if *logFormatFlag != "" {
		settings.LogFormat = *logFormatFlag
	}

	if _, err := khinsider.ParseAlbumURL(albumURL); err != nil {
		fmt.Fprintln(stderr, khinsider.Describe(err, albumURL))
		return exitFailure
	}

	logger := logging.New(logging.Config{
		Level:  settings.LogLevel,
		Format: settings.LogFormat,
		Output: stderr,
	})
	manager := download.NewManager(settings, logging.ProgressHandler(logger))

	soundtrack, err := manager.Open(ctx, albumURL)
	if err != nil {
		return fail(ctx, stderr, err, albumURL)
	}

	if *listFlag {
		if _, err := manager.ListFileURLs(ctx, soundtrack, stdout); err != nil {
			return fail(ctx, stderr, err, albumURL)
		}
		return exitOK
	}

	logger.Info().Str("path", settings.OutputDirectory).Msg("Downloading")

	summary, err := manager.DownloadSoundtrack(ctx, soundtrack, settings.OutputDirectory)
	if err != nil {
		return fail(ctx, stderr, err, albumURL)
	}

	logger.Info().
		Int("downloaded", summary.Downloaded).
		Int("existing", summary.Existing).
		Int("failed", summary.Failed).
		Int("missing", summary.Missing).
		Str("size", fmt.Sprintf("%.2f MB", float64(summary.Bytes)/1024/1024)).
		Msg("Complete")
	return exitOK
}

// fail reports err and returns the exit code for it.
func fail(ctx context.Context, stderr io.Writer, err error, albumURL string) int {
	if ctx.Err() != nil {
		fmt.Fprintln(stderr, "Interrupted! Stopped download...")
		return exitInterrupted
	}
	fmt.Fprintln(stderr, khinsider.Describe(err, albumURL))
	return exitFailure
}
