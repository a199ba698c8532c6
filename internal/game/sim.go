package game

import (
	"context"
	"math/rand"
	"time"

	"github.com/vovakirdan/tui-pursuit/internal/board"
	"github.com/vovakirdan/tui-pursuit/internal/nav"
	"github.com/vovakirdan/tui-pursuit/internal/state"
	"github.com/vovakirdan/tui-pursuit/internal/storage"
)

// Autopilot picks the player's next move without a human at the keys.
type Autopilot func(s *state.Snapshot, rng *rand.Rand) (board.Direction, bool)

// RandomWalk moves to a random open neighbour.
func RandomWalk(s *state.Snapshot, rng *rand.Rand) (board.Direction, bool) {
	return randomStep(s, rng, func(board.Coord) bool { return true })
}

func randomStep(s *state.Snapshot, rng *rand.Rand, allow func(board.Coord) bool) (board.Direction, bool) {
	var options []board.Direction
	for _, d := range board.Directions {
		if next, ok := s.Board().CanMove(s.Player().Pos, d, board.KindPlayer); ok && allow(next) {
			options = append(options, d)
		}
	}
	if len(options) == 0 {
		return 0, false
	}
	return options[rng.Intn(len(options))], true
}

// Greedy walks toward the nearest pellet, avoiding cells with a pursuer
// on them, and otherwise steps to a random pursuer-free neighbour.
func Greedy(s *state.Snapshot, rng *rand.Rand) (board.Direction, bool) {
	b := s.Board()
	pass := func(c board.Coord) bool {
		return b.IsAccessible(c, board.KindPlayer) && !s.PursuerAt(c)
	}
	from := s.Player().Pos
	target, ok := nav.Nearest(b, from, func(c board.Coord) bool {
		_, has := s.Collectible(c)
		return has
	})
	if ok {
		if path, ok := nav.ShortestPath(b, from, target, pass); ok && len(path) > 0 {
			return path[0], true
		}
	}
	return randomStep(s, rng, func(c board.Coord) bool { return !s.PursuerAt(c) })
}

// Simulate plays the session headlessly: the pilot moves the player every
// step until the run finishes or ctx is done. The level is stopped before
// returning.
func Simulate(ctx context.Context, s *Session, step time.Duration, pilot Autopilot, seed int64) storage.Result {
	rng := rand.New(rand.NewSource(seed))
	ticker := time.NewTicker(step)
	defer ticker.Stop()

	s.Start()
	for {
		select {
		case <-s.Done():
			return s.Result("sim")
		case <-ctx.Done():
			s.Pause()
			return s.Result("sim")
		case <-ticker.C:
			if d, ok := pilot(s.Level.Current(), rng); ok {
				s.Move(d)
			}
		}
	}
}
