package tui

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-pursuit/internal/config"
	"github.com/vovakirdan/tui-pursuit/internal/maps"
	"github.com/vovakirdan/tui-pursuit/internal/storage"
)

type screen int

const (
	screenMenu screen = iota
	screenGame
	screenScores
)

// AppOptions configures the full menu, game and scoreboard flow.
type AppOptions struct {
	Maps   []maps.Map
	Config config.Config
	Store  *storage.Store
	Player string
	Seed   int64
	Logger *log.Logger
	// MapID skips the menu and opens this map directly.
	MapID  string
	Width  int
	Height int
}

// App manages the session flow: menu -> game -> menu, with the scoreboard
// one key away. It is the top-level model for local and SSH play.
type App struct {
	opts     AppOptions
	run      *runHandle
	screen   screen
	menu     MenuModel
	game     GameModel
	scores   ScoreboardModel
	quitting bool
}

// NewApp creates the top-level model. Call Close when the program exits.
func NewApp(opts AppOptions) (App, error) {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	a := App{
		opts: opts,
		run:  &runHandle{},
		menu: NewMenuModel(opts.Maps, opts.Width, opts.Height),
	}
	if opts.MapID == "" {
		return a, nil
	}

	for _, m := range opts.Maps {
		if m.ID == opts.MapID {
			if err := a.openGame(m); err != nil {
				return App{}, err
			}
			return a, nil
		}
	}
	return App{}, fmt.Errorf("map not found: %s", opts.MapID)
}

// Close releases the live game session, if any.
func (a App) Close() {
	a.run.Close()
}

func (a *App) openGame(m maps.Map) error {
	gm, err := NewGameModel(m, GameOptions{
		Config: a.opts.Config,
		Store:  a.opts.Store,
		Player: a.opts.Player,
		Seed:   a.opts.Seed,
		Logger: a.opts.Logger,
	}, a.run)
	if err != nil {
		return err
	}
	gm.width, gm.height = a.opts.Width, a.opts.Height
	gm.help.Width = a.opts.Width
	a.game = gm
	a.screen = screenGame
	return nil
}

func (a *App) openMenu() tea.Cmd {
	a.menu = NewMenuModel(a.opts.Maps, a.opts.Width, a.opts.Height)
	a.screen = screenMenu
	return a.menu.Init()
}

// Init initializes the session.
func (a App) Init() tea.Cmd {
	if a.screen == screenGame {
		return a.game.Init()
	}
	return a.menu.Init()
}

// Update handles messages for the session.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		a.opts.Width = wsm.Width
		a.opts.Height = wsm.Height
	}

	switch a.screen {
	case screenGame:
		return a.updateGame(msg)
	case screenScores:
		return a.updateScores(msg)
	}
	return a.updateMenu(msg)
}

// updateMenu handles updates when in menu mode.
func (a App) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := a.menu.Update(msg)
	if menu, ok := next.(MenuModel); ok {
		a.menu = menu
	}

	if a.menu.IsQuitting() {
		a.quitting = true
		return a, tea.Quit
	}

	if a.menu.WantsScoreboard() {
		a.scores = NewScoreboardModel(a.opts.Store, a.opts.Maps, a.opts.Width, a.opts.Height)
		a.screen = screenScores
		return a, a.scores.Init()
	}

	if selected := a.menu.Selected(); selected != nil {
		if err := a.openGame(*selected); err != nil {
			a.opts.Logger.Error("could not open map", "map", selected.ID, "err", err)
			a.menu.selected = nil
			a.menu.errMsg = err.Error()
			return a, nil
		}
		return a, a.game.Init()
	}

	return a, cmd
}

// updateGame handles updates when in game mode.
func (a App) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := a.game.Update(msg)
	if gm, ok := next.(GameModel); ok {
		a.game = gm
	}

	if a.game.BackToMenu() {
		return a, a.openMenu()
	}
	if a.game.IsQuitting() {
		a.quitting = true
		return a, tea.Quit
	}
	return a, cmd
}

// updateScores handles updates when the scoreboard is open.
func (a App) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := a.scores.Update(msg)
	if sb, ok := next.(ScoreboardModel); ok {
		a.scores = sb
	}

	if a.scores.IsGoingBack() {
		return a, a.openMenu()
	}
	if a.scores.IsQuitting() {
		a.quitting = true
		return a, tea.Quit
	}
	return a, cmd
}

// View renders the current view.
func (a App) View() string {
	if a.quitting {
		return ""
	}
	switch a.screen {
	case screenGame:
		return a.game.View()
	case screenScores:
		return a.scores.View()
	}
	return a.menu.View()
}

// Run starts the Bubble Tea program on the local terminal.
func Run(opts AppOptions) error {
	app, err := NewApp(opts)
	if err != nil {
		return err
	}
	defer app.Close()

	_, err = tea.NewProgram(app, tea.WithAltScreen()).Run()
	return err
}
