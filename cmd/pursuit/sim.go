package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-pursuit/internal/game"
)

var (
	flagTimeout time.Duration
	flagStep    time.Duration
	flagPilot   string
	flagSave    bool
)

var pilots = map[string]game.Autopilot{
	"greedy": game.Greedy,
	"random": game.RandomWalk,
}

var simCmd = &cobra.Command{
	Use:   "sim [map]",
	Short: "Run a headless game driven by an autopilot",
	Long: `Play a map without a terminal UI. The autopilot moves the player every
step while the pursuers run on their own timers, until the board is cleared,
the player is caught, or the timeout passes.

Autopilots:
  greedy - Walk to the nearest pellet, avoiding pursuers
  random - Random walk

Examples:
  pursuit sim classic
  pursuit sim tunnel --pilot random --timeout 5s --seed 7
  pursuit sim corridor --save`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSim,
}

func init() {
	simCmd.Flags().DurationVar(&flagTimeout, "timeout", 30*time.Second, "Give up after this long")
	simCmd.Flags().DurationVar(&flagStep, "step", 150*time.Millisecond, "Time between player moves")
	simCmd.Flags().StringVar(&flagPilot, "pilot", "greedy", "Autopilot: greedy or random")
	simCmd.Flags().BoolVar(&flagSave, "save", false, "Record the result in the database")
}

func runSim(cmd *cobra.Command, args []string) error {
	pilot, ok := pilots[flagPilot]
	if !ok {
		return fmt.Errorf("unknown pilot %q (want greedy or random)", flagPilot)
	}
	if flagStep <= 0 {
		return fmt.Errorf("--step must be positive")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	ref := "classic"
	if len(args) == 1 {
		ref = args[0]
	}
	m, err := findMap(ref)
	if err != nil {
		return err
	}

	runSeed := seed()
	s, err := game.NewSession(m, cfg, game.Options{Seed: runSeed, Logger: logger})
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), flagTimeout)
	defer cancel()

	logger.Info("simulating", "map", m.ID, "pilot", flagPilot, "seed", runSeed)
	result := game.Simulate(ctx, s, flagStep, pilot, runSeed)
	snap := s.Level.Current()

	fmt.Printf("Map:       %s\n", m.ID)
	fmt.Printf("Outcome:   %s\n", result.Outcome)
	fmt.Printf("Score:     %d\n", result.Score)
	fmt.Printf("Remaining: %d\n", snap.Remaining())
	fmt.Printf("Duration:  %s\n", result.Duration.Round(time.Millisecond))
	fmt.Printf("Seed:      %d\n", runSeed)

	if !flagSave {
		return nil
	}
	store := openStore(cfg, logger)
	if store == nil {
		return nil
	}
	defer store.Close()

	result.Player = "sim:" + flagPilot
	runID, err := store.SaveResult(result)
	if err != nil {
		return err
	}
	fmt.Printf("Saved:     %s\n", runID)
	return nil
}
