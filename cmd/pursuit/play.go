package main

import (
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-pursuit/internal/maps"
	"github.com/vovakirdan/tui-pursuit/internal/platform/tui"
)

var flagPlayer string

var playCmd = &cobra.Command{
	Use:   "play [map]",
	Short: "Play a map",
	Long: `Start playing the given map, by ID or by file path. Without a map
the map picker opens.

Controls:
  Arrows/WASD  - Move
  P/Space      - Pause
  R            - Restart
  Esc/B        - Back to menu (when paused or finished)
  Q/Ctrl+C     - Quit

Examples:
  pursuit play classic
  pursuit play ./maps/spiral.yaml
  pursuit play tunnel --seed 42`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with the map picker",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to select a map and Tab for the
scoreboard. After a run ends, Esc returns to the menu.`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	for _, c := range []*cobra.Command{playCmd, menuCmd} {
		c.Flags().StringVar(&flagPlayer, "player", os.Getenv("USER"), "Name recorded with results")
	}
}

func runPlay(_ *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("play needs a terminal; use 'pursuit sim' for headless runs")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(io.Discard)
	if err != nil {
		return err
	}
	defer closeLog()

	all, err := loadMaps()
	if err != nil {
		return err
	}

	mapID := ""
	if len(args) == 1 {
		m, err := findMap(args[0])
		if err != nil {
			return err
		}
		all = withMap(all, m)
		mapID = m.ID
	}

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width, height = w, h
	}

	store := openStore(cfg, logger)
	if store != nil {
		defer store.Close()
	}

	return tui.Run(tui.AppOptions{
		Maps:   all,
		Config: cfg,
		Store:  store,
		Player: flagPlayer,
		Seed:   flagSeed,
		Logger: logger,
		MapID:  mapID,
		Width:  width,
		Height: height,
	})
}

// withMap adds m to the list unless a map with its ID is already there.
func withMap(all []maps.Map, m maps.Map) []maps.Map {
	for i := range all {
		if all[i].ID == m.ID {
			all[i] = m
			return all
		}
	}
	return append(all, m)
}
