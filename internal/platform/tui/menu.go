package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-pursuit/internal/maps"
	"github.com/vovakirdan/tui-pursuit/internal/strategy"
)

// MenuModel is the Bubble Tea model for the map picker.
type MenuModel struct {
	items          []maps.Map
	cursor         int
	width          int
	height         int
	keys           MenuKeyMap
	help           help.Model
	theme          Theme
	errMsg         string
	quitting       bool
	selected       *maps.Map // Set when user selects a map
	openScoreboard bool      // True if user pressed Tab for scoreboard
}

// NewMenuModel creates a new menu model.
func NewMenuModel(items []maps.Map, width, height int) MenuModel {
	return MenuModel{
		items:  items,
		width:  width,
		height: height,
		keys:   DefaultMenuKeyMap(),
		help:   help.New(),
		theme:  DefaultTheme(),
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Select):
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
			return m, tea.Quit // Exit menu to start game
		}

	case key.Matches(msg, m.keys.Scores):
		m.openScoreboard = true
		return m, tea.Quit // Exit menu to show scoreboard
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(m.theme.MenuTitle.Render("  P U R S U I T  "), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Select a map", m.width))
	b.WriteString("\n\n")

	if len(m.items) == 0 {
		b.WriteString(centerText(m.theme.MenuDescription.Render("No maps found."), m.width))
		b.WriteString("\n")
	}
	for i, item := range m.items {
		line := fmt.Sprintf("%-16s %s", displayName(item), describeMap(item))
		if i == m.cursor {
			b.WriteString(centerText(m.theme.MenuItemActive.Render("> "+line), m.width))
		} else {
			b.WriteString(centerText(m.theme.MenuItemNormal.Render("  "+line), m.width))
		}
		b.WriteString("\n")
	}

	if len(m.items) > 0 {
		b.WriteString("\n")
		b.WriteString(centerText(m.theme.MenuDescription.Render(describeVariants(m.items[m.cursor])), m.width))
		b.WriteString("\n")
	}
	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(centerText(m.theme.OverlayError.Render(m.errMsg), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(m.theme.HUDControls.Render(m.help.View(m.keys)), m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selected map, or nil if none selected.
func (m MenuModel) Selected() *maps.Map {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if user requested scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}

// describeMap summarises the grid size and spawn counts.
func describeMap(m maps.Map) string {
	width := 0
	pursuers := 0
	pellets := 0
	for _, row := range m.Rows {
		width = max(width, len([]rune(row)))
		pursuers += strings.Count(row, string(maps.SymPursuer))
		pellets += strings.Count(row, string(maps.SymPellet))
	}
	return fmt.Sprintf("%dx%d  %d pursuers  %d pellets", width, len(m.Rows), pursuers, pellets)
}

// describeVariants lists the pursuer variants in spawn order.
func describeVariants(m maps.Map) string {
	n := 0
	for _, row := range m.Rows {
		n += strings.Count(row, string(maps.SymPursuer))
	}
	names := make([]string, n)
	for i := range names {
		names[i] = strategy.Rotation[i%len(strategy.Rotation)]
		if i < len(m.Variants) && m.Variants[i] != "" {
			names[i] = m.Variants[i]
		}
	}
	if len(names) == 0 {
		return "no pursuers"
	}
	return strings.Join(names, ", ")
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	padding := (width - w) / 2
	return strings.Repeat(" ", padding) + text
}
