package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-pursuit/internal/strategy"
)

// Theme contains all configurable visual styles.
type Theme struct {
	// Board cells
	Wall       lipgloss.Style
	Floor      lipgloss.Style
	Pellet     lipgloss.Style
	BigPellet  lipgloss.Style
	Player     lipgloss.Style
	PlayerDead lipgloss.Style
	Pursuers   map[string]lipgloss.Style // by variant
	Pursuer    lipgloss.Style            // unknown variants

	// HUD styles
	HUDTitle     lipgloss.Style
	HUDLabel     lipgloss.Style
	HUDValue     lipgloss.Style
	HUDSeparator lipgloss.Style
	HUDControls  lipgloss.Style

	// Overlay styles
	OverlayWon    lipgloss.Style
	OverlayLost   lipgloss.Style
	OverlayPaused lipgloss.Style
	OverlayError  lipgloss.Style

	// Menu styles
	MenuTitle       lipgloss.Style
	MenuItemNormal  lipgloss.Style
	MenuItemActive  lipgloss.Style
	MenuDescription lipgloss.Style
}

// DefaultTheme returns the default visual theme.
func DefaultTheme() Theme {
	return Theme{
		Wall:       lipgloss.NewStyle().Foreground(lipgloss.Color("63")),
		Floor:      lipgloss.NewStyle(),
		Pellet:     lipgloss.NewStyle().Foreground(lipgloss.Color("223")),
		BigPellet:  lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		Player:     lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		PlayerDead: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Pursuers: map[string]lipgloss.Style{
			strategy.Chaser:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),   // red
			strategy.Ambusher:  lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true), // pink
			strategy.Patroller: lipgloss.NewStyle().Foreground(lipgloss.Color("51")).Bold(true),  // cyan
			strategy.Wanderer:  lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true), // orange
		},
		Pursuer: lipgloss.NewStyle().Foreground(lipgloss.Color("135")).Bold(true),

		HUDTitle:     lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Bold(true),
		HUDLabel:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		HUDValue:     lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true),
		HUDSeparator: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		HUDControls:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),

		OverlayWon:    lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true),
		OverlayLost:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		OverlayPaused: lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
		OverlayError:  lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Italic(true),

		MenuTitle:       lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Bold(true),
		MenuItemNormal:  lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		MenuItemActive:  lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")).Bold(true),
		MenuDescription: lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
	}
}

// PursuerStyle returns the style for a pursuer variant.
func (t Theme) PursuerStyle(variant string) lipgloss.Style {
	if s, ok := t.Pursuers[variant]; ok {
		return s
	}
	return t.Pursuer
}
