// SPDX-License-Identifier: MIT
/*
Package tui is the terminal front end: a Bubble Tea program showing the
two oscilloscope channels, the clip parameters and the transport.

Bubble Tea runs Update and View on one goroutine, which is the only one
that touches the scope surfaces and the playback controller. Loading and
reversal happen in commands and come back as messages.
*/
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"scope/internal/analysis"
	"scope/internal/audio"
	"scope/internal/config"
	"scope/internal/log"
	"scope/internal/playback"
	"scope/internal/scope"
	"scope/pkg/build"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	defaultCols = 78
	defaultRows = 10
	minRows     = 4

	// Lines outside the two channel bodies: header, params, status, two
	// channel titles, four border lines, prompt and help.
	chromeLines = 11
)

// Options configures the program.
type Options struct {
	Config *config.Config
	Output playback.Output
	Sink   scope.FrameSink
	// Path, if set, is loaded on start.
	Path string
}

// tickMsg drives the playback clock. Ticks from an older generation are
// dropped, so stopping or pausing never leaves a second tick chain running.
type tickMsg struct{ gen int }

type loadedMsg struct {
	path string
	clip *audio.Clip
	err  error
}

type reversedMsg struct {
	gen    int
	result audio.ReverseResult
}

// Model is the oscilloscope program state.
type Model struct {
	cfg       *config.Config
	keys      keyMap
	help      help.Model
	spinner   spinner.Model
	prompt    textinput.Model
	prompting bool

	wave     *scope.CellSurface
	spec     *scope.CellSurface
	scope    *scope.Scope
	analyzer *analysis.Analyzer
	session  *playback.Session
	ctrl     *playback.Controller

	path          string
	status        string
	statusKind    statusKind
	gen           int
	reverseGen    int
	reversing     bool
	cancelReverse context.CancelFunc
	width         int
	height        int
}

// New builds the model. Nothing is drawn to the terminal until the program
// runs.
func New(opts Options) (Model, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.NewConfig()
	}
	if opts.Output == nil {
		return Model{}, errors.New("tui: no audio output")
	}

	analyzer, err := analysis.NewAnalyzer(cfg.Spectrum)
	if err != nil {
		return Model{}, err
	}

	cols, rows := defaultCols, defaultRows
	if cfg.Display.Width > 0 {
		cols = cfg.Display.Width
	}
	if cfg.Display.Height > 0 {
		rows = cfg.Display.Height
	}

	theme := scope.TerminalTheme()
	wave := scope.NewCellSurface(cols, rows)
	spec := scope.NewCellSurface(cols, rows)
	sc := scope.New(wave, spec, theme, cfg.Display)
	sc.SetSink(opts.Sink)

	session := &playback.Session{}
	ctrl := playback.NewController(opts.Output, sc, session, cfg.Playback)

	prompt := textinput.New()
	prompt.Prompt = "LOAD > "
	prompt.Placeholder = "path to .wav or .mp3"
	prompt.CharLimit = 4096

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = highlightStyle

	return Model{
		cfg:        cfg,
		keys:       defaultKeyMap(),
		help:       help.New(),
		spinner:    sp,
		prompt:     prompt,
		wave:       wave,
		spec:       spec,
		scope:      sc,
		analyzer:   analyzer,
		session:    session,
		ctrl:       ctrl,
		path:       opts.Path,
		status:     "READY",
		statusKind: statusOK,
	}, nil
}

// Init loads the initial file, if any.
func (m Model) Init() tea.Cmd {
	if m.path == "" {
		return nil
	}
	return loadFile(m.path)
}

func loadFile(path string) tea.Cmd {
	return func() tea.Msg {
		clip, err := audio.Load(path)
		return loadedMsg{path: path, clip: clip, err: err}
	}
}

func waitReversed(gen int, ch <-chan audio.ReverseResult) tea.Cmd {
	return func() tea.Msg {
		return reversedMsg{gen: gen, result: <-ch}
	}
}

func (m Model) tick() tea.Cmd {
	gen := m.gen
	return tea.Tick(m.cfg.Playback.Interval, func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}

// Update handles input and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tickMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		switch m.ctrl.Tick() {
		case playback.EventTick:
			return m, m.tick()
		case playback.EventStopped:
			m.setStatus(statusError, "STOPPED")
		}
		return m, nil

	case loadedMsg:
		m.loaded(msg)
		return m, nil

	case reversedMsg:
		return m.reversed(msg), nil

	case spinner.TickMsg:
		if !m.reversing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.prompting {
			return m.updatePrompt(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.prompting = false
		m.prompt.Blur()
		return m, nil
	case tea.KeyEnter:
		m.prompting = false
		m.prompt.Blur()
		path := strings.TrimSpace(m.prompt.Value())
		if path == "" {
			return m, nil
		}
		m.setStatus(statusOK, "LOADING...")
		return m, loadFile(path)
	case tea.KeyCtrlC:
		return m.quit()
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.Open):
		m.prompting = true
		m.prompt.SetValue(m.path)
		m.prompt.CursorEnd()
		return m, m.prompt.Focus()

	case key.Matches(msg, m.keys.Reverse):
		return m.startReverse()

	case key.Matches(msg, m.keys.Play):
		wasPaused := m.ctrl.State() == playback.Paused
		if err := m.ctrl.Start(); err != nil {
			m.playbackError(err)
			return m, nil
		}
		if wasPaused {
			m.setStatus(statusOK, "PLAYBACK ACTIVE")
		} else {
			m.setStatus(statusOK, fmt.Sprintf("PLAYING @ %.2fx", m.ctrl.Speed()))
		}
		m.gen++
		return m, m.tick()

	case key.Matches(msg, m.keys.Pause):
		switch m.ctrl.State() {
		case playback.Playing:
			m.ctrl.Pause()
			m.gen++
			m.setStatus(statusWarn, "PAUSED")
			return m, nil
		case playback.Paused:
			m.ctrl.Resume()
			m.gen++
			m.setStatus(statusOK, "PLAYBACK ACTIVE")
			return m, m.tick()
		}
		return m, nil

	case key.Matches(msg, m.keys.Stop):
		m.gen++
		if err := m.ctrl.Stop(); err != nil {
			log.Warnf("tui: %v", err)
		}
		m.setStatus(statusError, "STOPPED")
		return m, nil

	case key.Matches(msg, m.keys.Faster):
		return m.changeSpeed(m.cfg.Playback.SpeedStep)

	case key.Matches(msg, m.keys.Slower):
		return m.changeSpeed(-m.cfg.Playback.SpeedStep)
	}
	return m, nil
}

func (m Model) changeSpeed(delta float64) (tea.Model, tea.Cmd) {
	playing := m.ctrl.State() == playback.Playing
	speed, err := m.ctrl.SetSpeed(m.ctrl.Speed() + delta)
	if err != nil {
		m.gen++
		m.playbackError(err)
		return m, nil
	}
	if !playing {
		return m, nil
	}
	m.gen++
	m.setStatus(statusOK, fmt.Sprintf("PLAYING @ %.2fx", speed))
	return m, m.tick()
}

func (m Model) startReverse() (tea.Model, tea.Cmd) {
	clip := m.session.Original()
	if clip == nil {
		m.setStatus(statusError, "ERROR: NO SIGNAL LOADED")
		return m, nil
	}
	if m.reversing {
		return m, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.cancelReverse = cancel
	m.reversing = true
	m.reverseGen++
	m.setStatus(statusWarn, "REVERSING...")
	return m, tea.Batch(waitReversed(m.reverseGen, audio.ReverseAsync(ctx, clip)), m.spinner.Tick)
}

func (m Model) reversed(msg reversedMsg) Model {
	if msg.gen != m.reverseGen {
		return m
	}
	m.reversing = false
	if m.cancelReverse != nil {
		m.cancelReverse()
		m.cancelReverse = nil
	}
	if err := msg.result.Err; err != nil {
		if !errors.Is(err, context.Canceled) {
			m.setStatus(statusError, fmt.Sprintf("ERROR: %v", err))
		}
		return m
	}

	if m.ctrl.Active() {
		m.gen++
		if err := m.ctrl.Stop(); err != nil {
			log.Warnf("tui: %v", err)
		}
	}
	m.session.SetReversed(msg.result.Clip)
	m.scope.SetSignal(scope.SignalFromClip(msg.result.Clip, m.cfg.Display.DisplaySamples, m.analyzer))
	m.setStatus(statusOK, "SIGNAL REVERSED")
	return m
}

func (m *Model) loaded(msg loadedMsg) {
	if msg.err != nil {
		m.setStatus(statusError, fmt.Sprintf("ERROR: %v", msg.err))
		return
	}

	m.gen++
	if err := m.ctrl.Stop(); err != nil {
		log.Warnf("tui: %v", err)
	}
	m.abortReverse()

	m.path = msg.path
	m.session.SetOriginal(msg.clip)
	m.scope.SetSignal(scope.SignalFromClip(msg.clip, m.cfg.Display.DisplaySamples, m.analyzer))
	m.setStatus(statusOK, "SIGNAL LOADED")
	log.Infof("tui: loaded %s", msg.path)
}

func (m *Model) abortReverse() {
	if m.cancelReverse != nil {
		m.cancelReverse()
		m.cancelReverse = nil
	}
	m.reversing = false
	m.reverseGen++
}

func (m *Model) playbackError(err error) {
	if errors.Is(err, playback.ErrNoReversed) {
		m.setStatus(statusError, "ERROR: NO REVERSED SIGNAL")
		return
	}
	m.setStatus(statusError, fmt.Sprintf("ERROR: %v", err))
}

func (m *Model) setStatus(kind statusKind, text string) {
	m.statusKind = kind
	m.status = text
	log.Debugf("tui: status %s", text)
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.gen++
	m.abortReverse()
	if err := m.ctrl.Close(); err != nil {
		log.Warnf("tui: %v", err)
	}
	return m, tea.Quit
}

// resize fits both channel surfaces into the terminal unless the
// configuration fixes their size.
func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.help.Width = width

	cols := m.cfg.Display.Width
	if cols <= 0 {
		cols = max(width-2, 20)
	}
	rows := m.cfg.Display.Height
	if rows <= 0 {
		rows = max((height-chromeLines)/2, minRows)
	}

	if c, r := m.wave.Size(); c == cols && r == rows {
		return
	}
	m.wave.Resize(cols, rows)
	m.spec.Resize(cols, rows)
	m.scope.Redraw()
	if m.ctrl.Active() {
		m.scope.ShowStatic(m.ctrl.PositionMs(), true)
	}
}

// View renders the UI
func (m Model) View() string {
	var sb strings.Builder

	info := build.GetBuildFlags()
	sb.WriteString(titleStyle.Render("REVERSE AUDIO OSCILLOSCOPE"))
	sb.WriteString(infoStyle.Render(fmt.Sprintf("  %s %s", info.Name, info.Version)))
	sb.WriteByte('\n')
	sb.WriteString(m.paramsView())
	sb.WriteByte('\n')
	sb.WriteString(m.statusView())
	sb.WriteByte('\n')

	sb.WriteString(channelTitleStyle.Render("CH1 ─ TIME DOMAIN"))
	sb.WriteByte('\n')
	sb.WriteString(channelStyle.Render(m.wave.View()))
	sb.WriteByte('\n')
	sb.WriteString(channelTitleStyle.Render("CH2 ─ FREQUENCY DOMAIN"))
	sb.WriteByte('\n')
	sb.WriteString(channelStyle.Render(m.spec.View()))
	sb.WriteByte('\n')

	if m.prompting {
		sb.WriteString(m.prompt.View())
	}
	sb.WriteByte('\n')
	sb.WriteString(m.help.View(m.keys))
	return sb.String()
}

func (m Model) paramsView() string {
	params := [][2]string{
		{"Fs", "-- kHz"},
		{"CH", "--"},
		{"BITS", "--"},
		{"RATE", "-- kbps"},
		{"TIME", "-- s"},
		{"FMT", "--"},
	}
	if clip := m.session.Original(); clip != nil {
		md := clip.Metadata()
		params = [][2]string{
			{"Fs", fmt.Sprintf("%.1f kHz", float64(md.SampleRate)/1000)},
			{"CH", fmt.Sprintf("%d", md.Channels)},
			{"BITS", fmt.Sprintf("%d", md.BitDepth)},
			{"RATE", fmt.Sprintf("%.0f kbps", md.BitrateKbps)},
			{"TIME", fmt.Sprintf("%.2f s", md.DurationSec)},
			{"FMT", md.Format},
		}
	}

	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = paramNameStyle.Render(p[0]+": ") + paramValueStyle.Render(p[1])
	}
	return strings.Join(parts, "   ")
}

func (m Model) statusView() string {
	reversed := paramNameStyle.Render("○ NOT REVERSED")
	if m.session.Reversed() != nil {
		reversed = highlightStyle.Render("● REVERSED")
	}

	status := statusStyles[m.statusKind].Render(m.status)
	if m.reversing {
		status = m.spinner.View() + status
	}

	duration := m.ctrl.DurationMs()
	if !m.ctrl.Active() {
		duration = 0
		if clip := m.session.Current(); clip != nil {
			duration = clip.DurationMs()
		}
	}
	clock := fmt.Sprintf("%05.2f / %05.2f", m.ctrl.PositionMs()/1000, duration/1000)
	speed := fmt.Sprintf("%.2fx", m.ctrl.Speed())

	return lipgloss.JoinHorizontal(lipgloss.Top,
		reversed, "   ",
		status, "   ",
		paramValueStyle.Render(clock), "   ",
		paramValueStyle.Render(speed),
	)
}

// Run starts the program on the alternate screen and blocks until the user
// quits or ctx is cancelled. Logs go to the configured log file while it
// runs, or are discarded.
func Run(ctx context.Context, opts Options) error {
	m, err := New(opts)
	if err != nil {
		return err
	}

	restore, err := divertLogs(m.cfg.LogFile)
	if err != nil {
		return err
	}
	defer restore()

	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		err = nil
	}
	if fm, ok := final.(Model); ok {
		fm.abortReverse()
		if cerr := fm.ctrl.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

func divertLogs(path string) (func(), error) {
	if path == "" {
		log.SetOutput(io.Discard)
		return func() { log.SetOutput(os.Stderr) }, nil
	}
	f, err := log.OpenFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	return func() {
		log.SetOutput(os.Stderr)
		f.Close()
	}, nil
}
