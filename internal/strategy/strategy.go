// Package strategy decides where pursuers move next.
//
// Every variant is the same chase skeleton with a different target rule:
// pick a target cell, run A* towards it, and take the first step. When no
// target or no path exists the pursuer makes a random accessible move.
package strategy

import (
	"math/rand"

	"github.com/vovakirdan/tui-pursuit/internal/board"
	"github.com/vovakirdan/tui-pursuit/internal/nav"
	"github.com/vovakirdan/tui-pursuit/internal/state"
)

// Strategy computes the next move for pursuer i.
// The second result is false when the pursuer cannot move at all.
type Strategy interface {
	NextMove(s *state.Snapshot, i int, rng *rand.Rand) (board.Direction, bool)
}

// Options tunes a variant. Zero values fall back to DefaultOptions.
type Options struct {
	// TerrainAware makes the path search avoid cells the pursuer
	// cannot enter. Without it the search is purely geometric and the
	// pursuer may stall against walls until the fallback kicks in.
	TerrainAware bool
	Lookahead    int // ambusher: cells ahead of the player
	ShyRadius    int // wanderer: chase only beyond this distance
}

// DefaultOptions returns the tuning used when none is configured.
func DefaultOptions() Options {
	return Options{
		TerrainAware: true,
		Lookahead:    4,
		ShyRadius:    8,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Lookahead <= 0 {
		o.Lookahead = d.Lookahead
	}
	if o.ShyRadius <= 0 {
		o.ShyRadius = d.ShyRadius
	}
	return o
}

// TargetRule picks the cell pursuer i is heading for.
type TargetRule func(s *state.Snapshot, i int) (board.Coord, bool)

// Chase is the chase-then-fallback skeleton shared by all variants.
type Chase struct {
	Target       TargetRule
	TerrainAware bool
}

// NextMove implements Strategy.
func (c Chase) NextMove(s *state.Snapshot, i int, rng *rand.Rand) (board.Direction, bool) {
	p, ok := s.Pursuer(i)
	if !ok {
		return 0, false
	}
	b := s.Board()

	if target, ok := c.Target(s, i); ok {
		var pass nav.Traversable
		if c.TerrainAware {
			pass = nav.For(b, board.KindPursuer)
		}
		if path, ok := nav.AStar(b, p.Pos, target, pass); ok && len(path) > 0 {
			return path[0], true
		}
	}
	return RandomMove(b, p.Pos, rng)
}

// RandomMove picks uniformly among directions whose neighbour a pursuer
// standing on at may enter.
func RandomMove(b *board.Board, at board.Coord, rng *rand.Rand) (board.Direction, bool) {
	var options []board.Direction
	for _, d := range board.Directions {
		if _, ok := b.CanMove(at, d, board.KindPursuer); ok {
			options = append(options, d)
		}
	}
	if len(options) == 0 {
		return 0, false
	}
	return options[rng.Intn(len(options))], true
}
