// Package tui provides a Bubble Tea terminal user interface for bandcamp-art.
package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/handiism/bandcamp-art/internal/config"
	"github.com/handiism/bandcamp-art/internal/download"
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

	releaseStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))
)

// maxLogs is the number of events kept on screen.
const maxLogs = 10

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateInitializing
	StateDownloading
	StateComplete
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   download.ProgressLevel
}

// eventBuffer collects progress events from the manager's goroutines until
// the next tick drains them into the model.
type eventBuffer struct {
	mu     sync.Mutex
	events []download.ProgressEvent
}

func (b *eventBuffer) add(event download.ProgressEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *eventBuffer) drain() []download.ProgressEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	events := b.events
	b.events = nil
	return events
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	settings  *config.Settings
	logs      []LogEntry
	releases  []string
	err       error

	// Download context
	ctx    context.Context
	cancel context.CancelFunc

	// Download manager reference
	manager *download.Manager
	events  *eventBuffer

	// Download progress
	status download.Progress

	// Options, seeded from settings
	hsmusic      bool
	trackNumbers bool
	overwrite    bool
	dryRun       bool
	verbose      bool

	width  int
	height int
}

// NewModel creates a new TUI model. settings provides the defaults for
// the options and everything not exposed in the UI.
func NewModel(settings *config.Settings) Model {
	if settings == nil {
		settings = config.DefaultSettings()
	}

	ti := textinput.New()
	ti.Placeholder = "https://label.bandcamp.com/album/name"
	ti.Focus()
	ti.CharLimit = 2000
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:        StateInput,
		textInput:    ti,
		spinner:      sp,
		progress:     prog,
		settings:     settings,
		logs:         make([]LogEntry, 0),
		ctx:          ctx,
		cancel:       cancel,
		events:       &eventBuffer{},
		hsmusic:      settings.HSMusic,
		trackNumbers: settings.TrackNumbers,
		overwrite:    settings.Overwrite,
		dryRun:       settings.DryRun,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// InitDoneMsg is sent when initialization completes.
	InitDoneMsg struct {
		Releases []string
		Manager  *download.Manager
		Err      error
	}

	// DownloadDoneMsg is sent when all downloads complete.
	DownloadDoneMsg struct {
		Progress download.Progress
		Err      error
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
			return m, nil

		case "tab":
			// Switch between the URL field and the option keys
			if m.state == StateInput {
				if m.textInput.Focused() {
					m.textInput.Blur()
				} else {
					cmds = append(cmds, m.textInput.Focus())
				}
				return m, tea.Batch(cmds...)
			}

		case "enter":
			if m.state == StateInput && len(parseURLs(m.textInput.Value())) > 0 {
				m.state = StateInitializing
				m.manager = m.newManager()
				return m, tea.Batch(m.initialize(), m.spinner.Tick, m.tickProgress())
			}

		case "h", "n", "o", "y", "v":
			if m.state == StateInput && !m.textInput.Focused() {
				m.toggle(msg.String())
				return m, nil
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				m = m.reset()
				return m, textinput.Blink
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case InitDoneMsg:
		m.appendEvents(m.events.drain())
		if m.state != StateInitializing {
			break
		}
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else if len(msg.Releases) == 0 {
			m.state = StateError
			m.err = fmt.Errorf("no releases found")
		} else {
			m.releases = msg.Releases
			m.status = msg.Manager.GetProgress()
			m.state = StateDownloading
			cmds = append(cmds, m.startDownload())
		}

	case DownloadDoneMsg:
		m.appendEvents(m.events.drain())
		m.status = msg.Progress
		if m.state != StateDownloading {
			break
		}
		if m.ctx.Err() != nil {
			m.state = StateError
			m.err = fmt.Errorf("cancelled by user")
		} else if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else {
			m.state = StateComplete
		}

	case TickMsg:
		if m.state != StateInitializing && m.state != StateDownloading {
			break
		}
		m.appendEvents(m.events.drain())
		if m.manager != nil && m.state == StateDownloading {
			m.status = m.manager.GetProgress()
			cmds = append(cmds, m.progress.SetPercent(m.percent()))
		}
		cmds = append(cmds, m.tickProgress())

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	// Update text input
	if m.state == StateInput {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) toggle(key string) {
	switch key {
	case "h":
		m.hsmusic = !m.hsmusic
	case "n":
		m.trackNumbers = !m.trackNumbers
	case "o":
		m.overwrite = !m.overwrite
	case "y":
		m.dryRun = !m.dryRun
	case "v":
		m.verbose = !m.verbose
	}
}

// reset prepares the model for a new run, keeping the options.
func (m Model) reset() Model {
	m.state = StateInput
	m.logs = nil
	m.releases = nil
	m.err = nil
	m.status = download.Progress{}
	m.manager = nil
	m.events = &eventBuffer{}
	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.progress.SetPercent(0)
	m.textInput.SetValue("")
	m.textInput.Focus()
	return m
}

func (m *Model) appendEvents(events []download.ProgressEvent) {
	for _, event := range events {
		// Verbose messages show in verbose mode and in dry runs
		if event.Level == download.LevelVerbose && !m.verbose && !m.dryRun {
			continue
		}
		m.logs = append(m.logs, LogEntry{Message: event.Message, Level: event.Level})
	}
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

func (m Model) percent() float64 {
	if m.status.Total == 0 {
		return 0
	}
	return float64(m.status.Processed) / float64(m.status.Total)
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// currentSettings returns a copy of the base settings with the UI options applied.
func (m Model) currentSettings() *config.Settings {
	settings := *m.settings
	settings.HSMusic = m.hsmusic
	settings.TrackNumbers = m.trackNumbers
	settings.Overwrite = m.overwrite
	settings.DryRun = m.dryRun
	return &settings
}

func (m Model) newManager() *download.Manager {
	return download.NewManager(m.currentSettings(), m.events.add)
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("Bandcamp Art"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Download album and track artwork from Bandcamp"))
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
		return "[x]"
	}
	return "[ ]"
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Enter Bandcamp URLs (discography, album or track):"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s HSMusic names (h)\n", checkbox(m.hsmusic)))
	b.WriteString(fmt.Sprintf("  %s Track numbers (n)\n", checkbox(m.trackNumbers && !m.hsmusic)))
	b.WriteString(fmt.Sprintf("  %s Overwrite existing files (o)\n", checkbox(m.overwrite)))
	b.WriteString(fmt.Sprintf("  %s Dry run (y)\n", checkbox(m.dryRun)))
	b.WriteString(fmt.Sprintf("  %s Verbose output (v)\n", checkbox(m.verbose)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Output directory: %s", m.settings.OutputDir)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewInitializing() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Fetching release pages..."))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewDownloading() string {
	var b strings.Builder

	if len(m.releases) > 0 {
		b.WriteString(successStyle.Render(fmt.Sprintf("Found %d release(s):", len(m.releases))))
		b.WriteString("\n")
		for _, release := range m.releases {
			b.WriteString(releaseStyle.Render("  " + release))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(m.progress.ViewAs(m.percent()))
	b.WriteString("\n")

	b.WriteString(infoStyle.Render(fmt.Sprintf(
		"Images: %d/%d | Saved: %d | Downloaded: %.2f MB",
		m.status.Processed,
		m.status.Total,
		m.status.Saved,
		float64(m.status.ReceivedBytes)/1024/1024,
	)))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	var b strings.Builder

	verb := "Saved"
	if m.dryRun {
		verb = "Would've saved"
	}
	box := boxStyle.Render(fmt.Sprintf(
		"Done!\n\n"+
			"Releases: %d\n"+
			"%s: %d of %d images\n"+
			"Size: %.2f MB",
		len(m.releases),
		verb,
		m.status.Saved,
		m.status.Total,
		float64(m.status.ReceivedBytes)/1024/1024,
	))
	b.WriteString(box)
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
		b.WriteString("\n\n")
	}
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "-"
		switch log.Level {
		case download.LevelError:
			style = errorStyle
			prefix = "x"
		case download.LevelWarning:
			style = warningStyle
			prefix = "!"
		case download.LevelSuccess:
			style = successStyle
			prefix = "+"
		case download.LevelInfo:
			style = infoStyle
			prefix = ">"
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
		if m.textInput.Focused() {
			return "enter: start | tab: options | esc: quit"
		}
		return "enter: start | tab: edit URLs | h n o y v: toggle options | esc: quit"
	case StateInitializing, StateDownloading:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: new download | q: quit"
	}
	return ""
}

// parseURLs splits the input on whitespace and commas.
func parseURLs(input string) []string {
	return strings.FieldsFunc(input, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
}

// initialize resolves the entered URLs into releases.
func (m Model) initialize() tea.Cmd {
	ctx := m.ctx
	manager := m.manager
	urls := parseURLs(m.textInput.Value())

	return func() tea.Msg {
		if err := manager.Initialize(ctx, urls); err != nil {
			return InitDoneMsg{Err: err}
		}
		return InitDoneMsg{
			Releases: manager.GetReleaseNames(),
			Manager:  manager,
		}
	}
}

// startDownload starts the actual download in background.
func (m Model) startDownload() tea.Cmd {
	ctx := m.ctx
	manager := m.manager

	return func() tea.Msg {
		if manager == nil {
			return DownloadDoneMsg{Err: fmt.Errorf("no manager")}
		}

		err := manager.StartDownloads(ctx)
		return DownloadDoneMsg{
			Progress: manager.GetProgress(),
			Err:      err,
		}
	}
}

// Run starts the TUI application.
func Run(settings *config.Settings) error {
	p := tea.NewProgram(NewModel(settings), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
