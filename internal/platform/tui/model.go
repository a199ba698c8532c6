package tui

import (
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-pursuit/internal/config"
	"github.com/vovakirdan/tui-pursuit/internal/game"
	"github.com/vovakirdan/tui-pursuit/internal/maps"
	"github.com/vovakirdan/tui-pursuit/internal/storage"
)

// GameOptions configures a game screen.
type GameOptions struct {
	Config config.Config
	Store  *storage.Store // nil disables result saving
	Player string
	Seed   int64 // zero seeds from the clock
	Logger *log.Logger
}

// runHandle owns the live session behind a game screen. Model copies share
// it, so the session can be closed from outside the program loop.
type runHandle struct {
	mu      sync.Mutex
	session *game.Session
}

// swap installs s and closes the session it replaces.
func (h *runHandle) swap(s *game.Session) {
	h.mu.Lock()
	old := h.session
	h.session = s
	h.mu.Unlock()
	if old != nil {
		old.Close()
	}
}

func (h *runHandle) current() *game.Session {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.session
}

// Close releases the live session, if any.
func (h *runHandle) Close() {
	h.swap(nil)
}

// GameModel is the Bubble Tea model for one map. The level runs on its own
// goroutines; the model samples Level.Current at the configured frame rate.
type GameModel struct {
	gameMap   maps.Map
	opts      GameOptions
	run       *runHandle
	id        uint64
	keys      KeyMap
	help      help.Model
	theme     Theme
	width     int
	height    int
	highScore int
	saved     bool // result recorded for the current session
	errMsg    string
	quitting  bool
	back      bool
}

// NewGameModel builds a session for m. The level starts when Init runs.
func NewGameModel(m maps.Map, opts GameOptions, run *runHandle) (GameModel, error) {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if run == nil {
		run = &runHandle{}
	}
	gm := GameModel{
		gameMap: m,
		opts:    opts,
		run:     run,
		id:      nextScreenID(),
		keys:    DefaultKeyMap(),
		help:    help.New(),
		theme:   DefaultTheme(),
	}
	if err := gm.newSession(); err != nil {
		return GameModel{}, err
	}
	gm.highScore = gm.loadHighScore()
	return gm, nil
}

func (m *GameModel) newSession() error {
	seed := m.opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	s, err := game.NewSession(m.gameMap, m.opts.Config, game.Options{Seed: seed, Logger: m.opts.Logger})
	if err != nil {
		return err
	}
	m.run.swap(s)
	m.saved = false
	return nil
}

func (m GameModel) loadHighScore() int {
	if m.opts.Store == nil {
		return 0
	}
	high, err := m.opts.Store.HighScore(m.gameMap.ID)
	if err != nil {
		m.opts.Logger.Warn("could not load high score", "map", m.gameMap.ID, "err", err)
		return 0
	}
	return high
}

// Init starts the level and the redraw loop.
func (m GameModel) Init() tea.Cmd {
	if s := m.run.current(); s != nil {
		s.Start()
	}
	return tickCmd(m.id, m.opts.Config.Display.FPS)
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		if msg.Screen != m.id || m.quitting || m.back {
			return m, nil
		}
		if s := m.run.current(); s != nil && s.Finished() {
			m.recordResult()
		}
		return m, tickCmd(m.id, m.opts.Config.Display.FPS)
	}
	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.run.current()
	if s == nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.leave()
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Back):
		// Leaving a live run needs a pause first.
		if s.Finished() || !s.Level.IsInProgress() {
			m.leave()
			m.back = true
		}
		return m, nil

	case key.Matches(msg, m.keys.Restart):
		s.Pause()
		m.recordResult()
		m.opts.Seed = 0
		if err := m.newSession(); err != nil {
			m.errMsg = err.Error()
			m.opts.Logger.Error("could not restart", "map", m.gameMap.ID, "err", err)
			return m, nil
		}
		m.run.current().Start()
		return m, nil

	case key.Matches(msg, m.keys.Pause):
		if !s.Finished() {
			s.Toggle()
		}
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	if d, ok := m.keys.Direction(msg); ok && s.Level.IsInProgress() {
		s.Move(d)
	}
	return m, nil
}

// leave pauses the run, records it and releases the session.
func (m *GameModel) leave() {
	if s := m.run.current(); s != nil {
		s.Pause()
	}
	m.recordResult()
	m.run.Close()
}

// recordResult saves the current run once. Runs that never started are
// not saved.
func (m *GameModel) recordResult() {
	s := m.run.current()
	if m.saved || s == nil {
		return
	}
	if !s.Finished() && s.Elapsed() == 0 {
		return
	}
	m.saved = true
	if m.opts.Store == nil {
		return
	}

	r := s.Result(m.opts.Player)
	if _, err := m.opts.Store.SaveResult(r); err != nil {
		m.opts.Logger.Warn("could not save result", "map", r.MapID, "err", err)
		return
	}
	if r.Score > m.highScore {
		m.highScore = r.Score
	}
}

// View renders the current state to a string for display.
func (m GameModel) View() string {
	s := m.run.current()
	if m.quitting || m.back || s == nil {
		return ""
	}

	snap := s.Level.Current()
	info := hudInfo{
		Title:     displayName(m.gameMap),
		HighScore: max(m.highScore, snap.Player().Score),
		Elapsed:   s.Elapsed(),
		Running:   s.Level.IsInProgress(),
	}

	parts := []string{
		RenderHUD(snap, info, m.theme),
		"",
		RenderBoard(snap, m.theme),
		"",
	}
	if status := RenderStatus(snap, info, m.theme); status != "" {
		parts = append(parts, status)
	}
	if m.errMsg != "" {
		parts = append(parts, m.theme.OverlayError.Render(m.errMsg))
	}
	parts = append(parts, m.theme.HUDControls.Render(m.help.View(m.keys)))

	content := lipgloss.JoinVertical(lipgloss.Left, parts...)
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.back
}

func displayName(m maps.Map) string {
	if m.Name != "" {
		return m.Name
	}
	return m.ID
}
