// Package tui provides the Bubble Tea front end: a map picker, the game
// screen, the scoreboard and an SSH server that serves all three.
package tui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg asks a game screen to redraw. Screen identifies the game model
// that scheduled it so stale tick chains die out.
type TickMsg struct {
	Screen uint64
	At     time.Time
}

var screenIDs atomic.Uint64

func nextScreenID() uint64 {
	return screenIDs.Add(1)
}

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(screen uint64, fps int) tea.Cmd {
	if fps <= 0 {
		fps = 25
	}
	interval := time.Second / time.Duration(fps)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Screen: screen, At: t}
	})
}
