package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-pursuit/internal/maps"
	"github.com/vovakirdan/tui-pursuit/internal/strategy"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List maps and pursuer variants",
	Long:  `Shows the built-in maps, maps found in the maps directory and the registered pursuer variants.`,
	RunE:  runList,
}

func runList(_ *cobra.Command, _ []string) error {
	all, err := loadMaps()
	if err != nil {
		return err
	}

	fmt.Println("Available maps:")
	fmt.Println()

	maxIDLen := 2 // "ID" header
	for _, m := range all {
		maxIDLen = max(maxIDLen, len(m.ID))
	}

	fmt.Printf("  %-*s  %-7s  %-8s  %s\n", maxIDLen, "ID", "Size", "Pursuers", "Name")
	fmt.Printf("  %-*s  %-7s  %-8s  %s\n", maxIDLen, "--", "----", "--------", "----")
	for _, m := range all {
		width, pursuers := 0, 0
		for _, row := range m.Rows {
			width = max(width, len([]rune(row)))
			pursuers += strings.Count(row, string(maps.SymPursuer))
		}
		source := ""
		if m.FilePath != "" {
			source = "  (" + m.FilePath + ")"
		}
		fmt.Printf("  %-*s  %-7s  %-8d  %s%s\n", maxIDLen, m.ID, fmt.Sprintf("%dx%d", width, len(m.Rows)), pursuers, m.Name, source)
	}

	fmt.Println()
	fmt.Println("Pursuer variants:")
	fmt.Println()
	for _, v := range strategy.Variants() {
		fmt.Printf("  %-10s  %s\n", v.Name, v.Summary)
	}

	fmt.Println()
	fmt.Println("Run 'pursuit play <id>' to play a map.")
	return nil
}
