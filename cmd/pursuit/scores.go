package main

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-pursuit/internal/platform/tui"
	"github.com/vovakirdan/tui-pursuit/internal/storage"
)

var (
	flagLimit  int
	flagBrowse bool
	flagClear  bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [map]",
	Short: "Show results",
	Long: `Display the best results for a map, or a summary of every map played
when no map is given.

Examples:
  pursuit scores
  pursuit scores classic --limit 20
  pursuit scores --browse
  pursuit scores tunnel --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVarP(&flagLimit, "limit", "n", 10, "Number of results to show")
	scoresCmd.Flags().BoolVar(&flagBrowse, "browse", false, "Open the interactive scoreboard")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete all results for the map")
}

func runScores(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("opening results database: %w", err)
	}
	defer store.Close()

	if flagBrowse {
		all, err := loadMaps()
		if err != nil {
			return err
		}
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		return tui.RunScoreboard(store, all, width, height)
	}

	if len(args) == 0 {
		if flagClear {
			return fmt.Errorf("--clear needs a map")
		}
		return printSummary(store)
	}

	mapID := args[0]
	if flagClear {
		if err := store.ClearResults(mapID); err != nil {
			return err
		}
		log.Info("cleared results", "map", mapID)
		return nil
	}
	return printTop(store, mapID)
}

func printTop(store *storage.Store, mapID string) error {
	results, err := store.TopScores(mapID, flagLimit)
	if err != nil {
		return err
	}

	fmt.Printf("High Scores - %s\n", mapID)
	fmt.Println()

	if len(results) == 0 {
		fmt.Println("No results recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'pursuit play %s' to set the first high score!\n", mapID)
		return nil
	}

	fmt.Printf("  %-4s  %-12s  %-7s  %-9s  %-6s  %s\n", "Rank", "Player", "Score", "Outcome", "Time", "Date")
	fmt.Printf("  %-4s  %-12s  %-7s  %-9s  %-6s  %s\n", "----", "------", "-----", "-------", "----", "----")
	for i, r := range results {
		fmt.Printf("  %-4d  %-12s  %-7d  %-9s  %-6s  %s\n",
			i+1, r.Player, r.Score, r.Outcome,
			r.Duration.Round(time.Second), r.CreatedAt.Format("2006-01-02 15:04"))
	}

	stats, err := store.MapStats(mapID)
	if err == nil {
		fmt.Println()
		fmt.Printf("Runs: %d  Wins: %d  Best: %d  Average: %.0f\n", stats.Runs, stats.Wins, stats.HighScore, stats.AvgScore)
	}
	return nil
}

func printSummary(store *storage.Store) error {
	all, err := store.AllMapStats()
	if err != nil {
		return err
	}
	if len(all) == 0 {
		fmt.Println("No results recorded yet.")
		return nil
	}

	ids := make([]string, 0, len(all))
	for id := range all {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Printf("  %-16s  %-5s  %-5s  %-7s  %-7s  %s\n", "Map", "Runs", "Wins", "Best", "Average", "Last played")
	fmt.Printf("  %-16s  %-5s  %-5s  %-7s  %-7s  %s\n", "---", "----", "----", "----", "-------", "-----------")
	for _, id := range ids {
		s := all[id]
		fmt.Printf("  %-16s  %-5d  %-5d  %-7d  %-7.0f  %s\n",
			id, s.Runs, s.Wins, s.HighScore, s.AvgScore, s.LastPlayed.Format("2006-01-02 15:04"))
	}

	recent, err := store.RecentResults(5)
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Println("Recent runs:")
	for _, r := range recent {
		fmt.Printf("  %-16s  %-12s  %-7d  %s\n", r.MapID, r.Player, r.Score, r.Outcome)
	}
	return nil
}
