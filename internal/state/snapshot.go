// Package state holds the immutable game-state snapshot and the pure
// transitions that produce one snapshot from another.
package state

import (
	"sort"
	"time"

	"github.com/vovakirdan/tui-pursuit/internal/board"
)

// Player is the singleton player entity.
type Player struct {
	Pos    board.Coord
	Facing board.Direction
	Score  int
	Alive  bool
}

// Timing is the per-pursuer move cadence: each period is
// Base + uniform[0, Jitter).
type Timing struct {
	Base   time.Duration
	Jitter time.Duration
}

// Pursuer is an autonomous adversary. Its index in the snapshot is its
// identity for the lifetime of the level.
type Pursuer struct {
	Pos     board.Coord
	Facing  board.Direction
	Variant string
	Timing  Timing
	Home    board.Coord // spawn cell
}

// Collectible is a pellet worth Value points.
type Collectible struct {
	Pos   board.Coord
	Value int
}

// Snapshot is the authoritative game state at one instant. It is never
// modified after construction; transitions return a new value.
type Snapshot struct {
	board        *board.Board
	player       Player
	pursuers     []Pursuer
	collectibles map[board.Coord]Collectible
	seq          uint64
}

// New creates the initial snapshot of a level. Collectibles are keyed by
// cell; a later entry for the same cell replaces an earlier one.
func New(b *board.Board, player Player, pursuers []Pursuer, collectibles []Collectible) *Snapshot {
	ps := make([]Pursuer, len(pursuers))
	copy(ps, pursuers)
	cs := make(map[board.Coord]Collectible, len(collectibles))
	for _, c := range collectibles {
		cs[c.Pos] = c
	}
	return &Snapshot{
		board:        b,
		player:       player,
		pursuers:     ps,
		collectibles: cs,
	}
}

// Board returns the board the level is played on.
func (s *Snapshot) Board() *board.Board {
	return s.board
}

// Player returns the player state.
func (s *Snapshot) Player() Player {
	return s.player
}

// PursuerCount returns the number of pursuers. It never changes.
func (s *Snapshot) PursuerCount() int {
	return len(s.pursuers)
}

// Pursuer returns the pursuer at index i.
func (s *Snapshot) Pursuer(i int) (Pursuer, bool) {
	if i < 0 || i >= len(s.pursuers) {
		return Pursuer{}, false
	}
	return s.pursuers[i], true
}

// Pursuers returns a copy of all pursuers in index order.
func (s *Snapshot) Pursuers() []Pursuer {
	out := make([]Pursuer, len(s.pursuers))
	copy(out, s.pursuers)
	return out
}

// Collectible returns the collectible on c, if any.
func (s *Snapshot) Collectible(c board.Coord) (Collectible, bool) {
	col, ok := s.collectibles[c]
	return col, ok
}

// Collectibles returns the remaining collectibles in row-major order.
func (s *Snapshot) Collectibles() []Collectible {
	out := make([]Collectible, 0, len(s.collectibles))
	for _, c := range s.collectibles {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Pos.Y != out[j].Pos.Y {
			return out[i].Pos.Y < out[j].Pos.Y
		}
		return out[i].Pos.X < out[j].Pos.X
	})
	return out
}

// Remaining returns the number of collectibles left on the board.
func (s *Snapshot) Remaining() int {
	return len(s.collectibles)
}

// PursuerAt reports whether any pursuer stands on c.
func (s *Snapshot) PursuerAt(c board.Coord) bool {
	for _, p := range s.pursuers {
		if p.Pos == c {
			return true
		}
	}
	return false
}

// PlayerAt reports whether the player stands on c.
func (s *Snapshot) PlayerAt(c board.Coord) bool {
	return s.player.Pos == c
}

// Seq counts the transitions that produced this snapshot from the
// initial one.
func (s *Snapshot) Seq() uint64 {
	return s.seq
}

// Won reports whether every collectible has been taken.
func (s *Snapshot) Won() bool {
	return len(s.collectibles) == 0
}

// Lost reports whether the player has died.
func (s *Snapshot) Lost() bool {
	return !s.player.Alive
}

// derive returns a shallow copy sharing the pursuer slice and collectible
// map. Callers replace whichever of those they change.
func (s *Snapshot) derive() *Snapshot {
	next := *s
	next.seq++
	return &next
}

func (s *Snapshot) withoutCollectible(c board.Coord) map[board.Coord]Collectible {
	cs := make(map[board.Coord]Collectible, len(s.collectibles))
	for k, v := range s.collectibles {
		if k != c {
			cs[k] = v
		}
	}
	return cs
}
