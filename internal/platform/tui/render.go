package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-pursuit/internal/board"
	"github.com/vovakirdan/tui-pursuit/internal/maps"
	"github.com/vovakirdan/tui-pursuit/internal/state"
)

// Each cell is drawn two columns wide so the grid looks square.
const cellWidth = 2

var facingGlyphs = [...]string{
	board.North: "v",
	board.South: "^",
	board.West:  ">",
	board.East:  "<",
}

// RenderBoard draws the snapshot as styled text, one line per row.
func RenderBoard(s *state.Snapshot, t Theme) string {
	b := s.Board()

	pursuers := make(map[board.Coord]state.Pursuer, s.PursuerCount())
	for _, p := range s.Pursuers() {
		if _, taken := pursuers[p.Pos]; !taken {
			pursuers[p.Pos] = p
		}
	}
	player := s.Player()

	var sb strings.Builder
	sb.Grow(b.Width()*b.Height()*cellWidth*2 + b.Height())
	for y := 0; y < b.Height(); y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < b.Width(); x++ {
			c := board.C(x, y)
			sb.WriteString(renderCell(s, c, player, pursuers, t))
		}
	}
	return sb.String()
}

func renderCell(s *state.Snapshot, c board.Coord, player state.Player, pursuers map[board.Coord]state.Pursuer, t Theme) string {
	if player.Pos == c && !player.Alive {
		return t.PlayerDead.Render(pad("X"))
	}
	if p, ok := pursuers[c]; ok {
		return t.PursuerStyle(p.Variant).Render(pad(pursuerGlyph(p.Variant)))
	}
	if player.Pos == c {
		return t.Player.Render(pad(facingGlyphs[player.Facing]))
	}
	if col, ok := s.Collectible(c); ok {
		if col.Value > maps.DefaultPelletValue {
			return t.BigPellet.Render(pad("o"))
		}
		return t.Pellet.Render(pad("."))
	}
	if s.Board().Terrain(c) == board.Wall {
		return t.Wall.Render(strings.Repeat("█", cellWidth))
	}
	return t.Floor.Render(strings.Repeat(" ", cellWidth))
}

func pursuerGlyph(variant string) string {
	if variant == "" {
		return "G"
	}
	return strings.ToUpper(variant[:1])
}

func pad(glyph string) string {
	return glyph + strings.Repeat(" ", cellWidth-lipgloss.Width(glyph))
}

// hudInfo is everything the status bar shows besides the snapshot.
type hudInfo struct {
	Title     string
	HighScore int
	Elapsed   time.Duration
	Running   bool
}

// RenderHUD draws the title and status lines above the board.
func RenderHUD(s *state.Snapshot, info hudInfo, t Theme) string {
	sep := t.HUDSeparator.Render("  |  ")
	field := func(label string, value any) string {
		return t.HUDLabel.Render(label+" ") + t.HUDValue.Render(fmt.Sprint(value))
	}

	stats := strings.Join([]string{
		field("Score", s.Player().Score),
		field("Pellets", s.Remaining()),
		field("Best", info.HighScore),
		field("Time", formatElapsed(info.Elapsed)),
	}, sep)

	return lipgloss.JoinVertical(lipgloss.Left,
		t.HUDTitle.Render(info.Title),
		stats,
	)
}

// RenderStatus returns the overlay line for the run state, or "" while
// the level is running.
func RenderStatus(s *state.Snapshot, info hudInfo, t Theme) string {
	switch {
	case s.Lost():
		return t.OverlayLost.Render("CAUGHT!  r: retry  esc: menu")
	case s.Won():
		return t.OverlayWon.Render("BOARD CLEARED!  r: play again  esc: menu")
	case !info.Running:
		return t.OverlayPaused.Render("PAUSED  p: resume  esc: menu")
	}
	return ""
}

func formatElapsed(d time.Duration) string {
	d = d.Round(time.Second)
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}
