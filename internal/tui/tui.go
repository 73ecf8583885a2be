// Package tui provides a Bubble Tea terminal user interface for khinsider-downloader.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/handiism/khinsider-downloader/internal/config"
	"github.com/handiism/khinsider-downloader/internal/download"
	"github.com/handiism/khinsider-downloader/internal/khinsider"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)

	albumStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))
)

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateInitializing
	StateDownloading
	StateComplete
	StateError
)

// maxLogs is the number of log lines kept on screen.
const maxLogs = 10

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   download.ProgressLevel
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state       State
	urlInput    textinput.Model
	formatInput textinput.Model
	spinner     spinner.Model
	progress    progress.Model
	settings    *config.Settings
	logs        []LogEntry
	album       string
	err         error

	// Download context
	ctx    context.Context
	cancel context.CancelFunc

	manager *download.Manager
	events  chan download.ProgressEvent
	summary *download.Summary

	// Download progress
	processedFiles int32
	expectedFiles  int32
	receivedBytes  int64

	// Options
	tags     bool
	playlist bool
	verbose  bool

	width  int
	height int
}

// NewModel creates a new TUI model. A nil settings uses the defaults.
func NewModel(settings *config.Settings) Model {
	if settings == nil {
		settings = config.DefaultSettings()
	}

	urlInput := textinput.New()
	urlInput.Placeholder = "https://downloads.khinsider.com/game-soundtracks/album/..."
	urlInput.Focus()
	urlInput.CharLimit = 500
	urlInput.Width = 60

	formatInput := textinput.New()
	formatInput.Placeholder = "flac, mp3 (empty: first available)"
	formatInput.SetValue(strings.Join(settings.Formats, ", "))
	formatInput.CharLimit = 100
	formatInput.Width = 40

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:       StateInput,
		urlInput:    urlInput,
		formatInput: formatInput,
		spinner:     sp,
		progress:    prog,
		settings:    settings,
		logs:        make([]LogEntry, 0),
		ctx:         ctx,
		cancel:      cancel,
		tags:        settings.ModifyTags,
		playlist:    settings.CreatePlaylist,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// ProgressMsg is sent for every event reported by the download manager.
	ProgressMsg struct {
		Event download.ProgressEvent
	}

	// InitDoneMsg is sent when the album page has been fetched.
	InitDoneMsg struct {
		Soundtrack *khinsider.Soundtrack
		Manager    *download.Manager
		Album      string
		Err        error
	}

	// DownloadDoneMsg is sent when the album download finishes.
	DownloadDoneMsg struct {
		Summary *download.Summary
		Err     error
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(max(msg.Width-20, 20), 80)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			if m.state == StateInput {
				return m, tea.Quit
			}
			if m.state == StateDownloading || m.state == StateInitializing {
				m.cancel()
				m.state = StateError
				m.err = fmt.Errorf("cancelled by user")
			}

		case "tab", "shift+tab":
			if m.state == StateInput {
				m.toggleFocus()
				return m, nil
			}

		case "enter":
			if m.state == StateInput && strings.TrimSpace(m.urlInput.Value()) != "" {
				m.state = StateInitializing
				m.events = make(chan download.ProgressEvent, 64)
				return m, tea.Batch(
					initializeDownload(m.ctx, m.urlInput.Value(), m.downloadSettings(), m.events),
					waitForEvent(m.events),
					m.spinner.Tick,
				)
			}

		case "ctrl+t":
			if m.state == StateInput {
				m.tags = !m.tags
				return m, nil
			}

		case "ctrl+p":
			if m.state == StateInput {
				m.playlist = !m.playlist
				return m, nil
			}

		case "ctrl+e":
			if m.state == StateInput {
				m.verbose = !m.verbose
				return m, nil
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				m.reset()
				return m, nil
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ProgressMsg:
		if m.events != nil {
			cmds = append(cmds, waitForEvent(m.events))
		}
		if msg.Event.Level == download.LevelVerbose && !m.verbose {
			break
		}
		m.logs = append(m.logs, LogEntry{
			Message: msg.Event.Message,
			Level:   msg.Event.Level,
		})
		if len(m.logs) > maxLogs {
			m.logs = m.logs[len(m.logs)-maxLogs:]
		}

	case InitDoneMsg:
		if m.state != StateInitializing {
			break
		}
		if msg.Err != nil {
			m.state = StateError
			m.err = describe(msg.Err, m.urlInput.Value())
			break
		}
		m.album = msg.Album
		m.manager = msg.Manager
		m.state = StateDownloading
		cmds = append(cmds,
			startDownload(m.ctx, msg.Manager, msg.Soundtrack, m.settings.OutputDirectory, m.events),
			m.tickProgress())

	case DownloadDoneMsg:
		if m.manager != nil {
			m.receivedBytes, m.processedFiles, m.expectedFiles = m.manager.GetProgress()
		}
		m.summary = msg.Summary
		switch {
		case m.ctx.Err() != nil:
			m.state = StateError
			m.err = fmt.Errorf("cancelled by user")
		case msg.Err != nil:
			m.state = StateError
			m.err = describe(msg.Err, m.urlInput.Value())
		default:
			m.state = StateComplete
		}

	case TickMsg:
		if m.manager != nil && m.state == StateDownloading {
			m.receivedBytes, m.processedFiles, m.expectedFiles = m.manager.GetProgress()
			cmds = append(cmds, m.progress.SetPercent(m.percent()), m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	if m.state == StateInput {
		var cmd tea.Cmd
		if m.urlInput.Focused() {
			m.urlInput, cmd = m.urlInput.Update(msg)
		} else {
			m.formatInput, cmd = m.formatInput.Update(msg)
		}
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) toggleFocus() {
	if m.urlInput.Focused() {
		m.urlInput.Blur()
		m.formatInput.Focus()
	} else {
		m.formatInput.Blur()
		m.urlInput.Focus()
	}
}

// reset prepares the model for a new download.
func (m *Model) reset() {
	m.state = StateInput
	m.logs = nil
	m.album = ""
	m.err = nil
	m.summary = nil
	m.processedFiles = 0
	m.expectedFiles = 0
	m.receivedBytes = 0
	m.manager = nil
	m.events = nil
	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.urlInput.SetValue("")
	m.formatInput.Blur()
	m.urlInput.Focus()
}

// downloadSettings applies the on-screen options to a copy of the settings.
func (m Model) downloadSettings() *config.Settings {
	s := *m.settings
	s.Formats = config.NormalizeFormats(strings.Split(m.formatInput.Value(), ","))
	s.ModifyTags = m.tags
	s.CreatePlaylist = m.playlist
	return &s
}

func (m Model) percent() float64 {
	if m.expectedFiles == 0 {
		return 0
	}
	return float64(m.processedFiles) / float64(m.expectedFiles)
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("🎵 KHInsider Downloader"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Download video game soundtracks"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateInitializing:
		b.WriteString(m.viewInitializing())
	case StateDownloading:
		b.WriteString(m.viewDownloading())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func checkbox(on bool) string {
	if on {
		return "[×]"
	}
	return "[ ]"
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Album URL:"))
	b.WriteString("\n")
	b.WriteString(m.urlInput.View())
	b.WriteString("\n\n")
	b.WriteString(subtitleStyle.Render("Formats, most wanted first:"))
	b.WriteString("\n")
	b.WriteString(m.formatInput.View())
	b.WriteString("\n\n")

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %s Tag MP3 files (ctrl+t)\n", checkbox(m.tags))
	fmt.Fprintf(&b, "  %s Create playlist (ctrl+p)\n", checkbox(m.playlist))
	fmt.Fprintf(&b, "  %s Verbose output (ctrl+e)\n", checkbox(m.verbose))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Output directory: %s", m.settings.OutputDirectory)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewInitializing() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Fetching album page..."))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewDownloading() string {
	var b strings.Builder

	if m.album != "" {
		b.WriteString(albumStyle.Render(fmt.Sprintf("♪ %s", m.album)))
		b.WriteString("\n\n")
	}

	b.WriteString(m.progress.ViewAs(m.percent()))
	b.WriteString("\n")

	b.WriteString(infoStyle.Render(fmt.Sprintf(
		"Files: %d/%d | Downloaded: %.2f MB",
		m.processedFiles,
		m.expectedFiles,
		float64(m.receivedBytes)/1024/1024,
	)))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	var downloaded, existing, failed int
	if m.summary != nil {
		downloaded, existing, failed = m.summary.Downloaded, m.summary.Existing, m.summary.Failed
	}

	return boxStyle.Render(fmt.Sprintf(
		"✨ Download Complete!\n\n"+
			"Album: %s\n"+
			"Downloaded: %d\n"+
			"Already present: %d\n"+
			"Failed: %d\n"+
			"Size: %.2f MB",
		m.album,
		downloaded,
		existing,
		failed,
		float64(m.receivedBytes)/1024/1024,
	))
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("❌ Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		fmt.Fprintf(&b, "  %s", m.err.Error())
	}

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case download.LevelError:
			style = errorStyle
			prefix = "✗"
		case download.LevelWarning:
			style = warningStyle
			prefix = "!"
		case download.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case download.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateInput:
		return "enter: start • tab: switch field • ctrl+t: tags • ctrl+p: playlist • ctrl+e: verbose • esc: quit"
	case StateInitializing, StateDownloading:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: new download • q: quit"
	}
	return ""
}

// describe turns download errors into the messages shown to the user.
func describe(err error, albumURL string) error {
	return fmt.Errorf("%s", khinsider.Describe(err, strings.TrimSpace(albumURL)))
}

// initializeDownload fetches the album page and creates the manager.
// Manager events are forwarded to events.
func initializeDownload(ctx context.Context, albumURL string, settings *config.Settings, events chan download.ProgressEvent) tea.Cmd {
	return func() tea.Msg {
		manager := download.NewManager(settings, func(event download.ProgressEvent) {
			select {
			case events <- event:
			default:
			}
		})

		soundtrack, err := manager.Open(ctx, strings.TrimSpace(albumURL))
		if err != nil {
			close(events)
			return InitDoneMsg{Err: err}
		}

		name, err := soundtrack.Name()
		if err != nil {
			close(events)
			return InitDoneMsg{Err: err}
		}
		if name == "" {
			name = soundtrack.ID()
		}

		return InitDoneMsg{
			Soundtrack: soundtrack,
			Manager:    manager,
			Album:      name,
		}
	}
}

// startDownload runs the album download in the background.
func startDownload(ctx context.Context, manager *download.Manager, soundtrack *khinsider.Soundtrack, dir string, events chan download.ProgressEvent) tea.Cmd {
	return func() tea.Msg {
		defer close(events)
		summary, err := manager.DownloadSoundtrack(ctx, soundtrack, dir)
		return DownloadDoneMsg{Summary: summary, Err: err}
	}
}

// waitForEvent delivers the next manager event as a ProgressMsg.
func waitForEvent(events <-chan download.ProgressEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return nil
		}
		return ProgressMsg{Event: event}
	}
}

// Run starts the TUI application.
func Run(settings *config.Settings) error {
	p := tea.NewProgram(NewModel(settings), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
