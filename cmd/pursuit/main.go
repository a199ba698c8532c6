// pursuit is a real-time grid pursuit game for the terminal: clear every
// pellet on the map before the pursuers catch you.
//
// Usage:
//
//	pursuit list             - List available maps and pursuer variants
//	pursuit play [map]       - Play a map (menu when no map is given)
//	pursuit menu             - Start the interactive map picker
//	pursuit sim [map]        - Run a headless game with an autopilot
//	pursuit serve            - Start SSH server for remote play
//	pursuit scores [map]     - Show results
//
// Global flags:
//
//	--config <path> - Custom configuration file
//	--maps <dir>    - Directory with extra map files (default: ./maps)
//	--seed <value>  - Set RNG seed for reproducible pursuer timing
//	--db <path>     - Set database path (default: from config)
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-pursuit/internal/config"
	"github.com/vovakirdan/tui-pursuit/internal/maps"
	"github.com/vovakirdan/tui-pursuit/internal/storage"
)

var (
	// Global flags
	flagConfig  string
	flagMapsDir string
	flagSeed    int64
	flagDBPath  string
	flagFPS     int
	flagLogFile string
	flagVerbose bool
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pursuit",
	Short: "Pursuit - outrun the pursuers and clear the board",
	Long: `Pursuit is a terminal maze game. Collect every pellet on the map
while pursuers with different strategies hunt you down.

Available commands:
  list     - Show maps and pursuer variants
  play     - Play a map directly
  menu     - Interactive map picker
  sim      - Headless run driven by an autopilot
  serve    - Start SSH server for remote play
  scores   - View results

Examples:
  pursuit list
  pursuit play classic
  pursuit sim tunnel --pilot greedy --timeout 10s
  pursuit serve --ssh :2222
  pursuit scores classic`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	rootCmd.PersistentFlags().StringVar(&flagMapsDir, "maps", "maps", "Directory with extra map files")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to results database (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Redraw rate (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
}

// loadConfig reads the configuration and applies flag overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return config.Config{}, err
	}
	if flagDBPath != "" {
		cfg.Storage.DBPath = flagDBPath
	}
	if flagFPS > 0 {
		cfg.Display.FPS = flagFPS
	}
	return cfg, cfg.Validate()
}

// loadMaps returns the built-in maps merged with the maps directory.
func loadMaps() ([]maps.Map, error) {
	return maps.NewLoader(flagMapsDir).LoadAll()
}

// findMap resolves a map ID or a path to a map file.
func findMap(ref string) (maps.Map, error) {
	return maps.NewLoader(flagMapsDir).LoadByID(ref)
}

// newLogger builds the command logger. Interactive commands pass
// io.Discard as the fallback so log lines never land on the game screen.
func newLogger(fallback io.Writer) (*log.Logger, func(), error) {
	w := fallback
	closeFn := func() {}
	if flagLogFile != "" {
		if err := os.MkdirAll(filepath.Dir(flagLogFile), 0o755); err != nil {
			return nil, nil, fmt.Errorf("cannot create log directory: %w", err)
		}
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot open log file: %w", err)
		}
		w = f
		closeFn = func() { f.Close() }
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Prefix:          "pursuit",
	})
	if flagVerbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger, closeFn, nil
}

// openStore opens the results database. Failure is reported and play
// continues without saving.
func openStore(cfg config.Config, logger *log.Logger) *storage.Store {
	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open results database: %v\n", err)
		logger.Warn("results disabled", "err", err)
		return nil
	}
	return store
}

func seed() int64 {
	if flagSeed != 0 {
		return flagSeed
	}
	return time.Now().UnixNano()
}
