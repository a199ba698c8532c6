package state

import "github.com/vovakirdan/tui-pursuit/internal/board"

// Transition maps a snapshot to its successor. It returns false when the
// move does not apply to s, in which case s is returned unchanged.
// Transitions read only their argument, so a move decided against an
// older snapshot is re-validated against whatever state it lands on.
type Transition func(s *Snapshot) (*Snapshot, bool)

// MovePlayer moves the player one cell in d.
//
// Resolution order is fixed: move, then collectible pickup, then pursuer
// collision, all against the destination cell.
func MovePlayer(d board.Direction) Transition {
	return func(s *Snapshot) (*Snapshot, bool) {
		if !s.player.Alive {
			return s, false
		}
		dst, ok := s.board.CanMove(s.player.Pos, d, board.KindPlayer)
		if !ok {
			return s, false
		}

		next := s.derive()
		next.player.Pos = dst
		next.player.Facing = d

		if col, ok := s.collectibles[dst]; ok {
			next.collectibles = s.withoutCollectible(dst)
			next.player.Score += col.Value
		}
		if s.PursuerAt(dst) {
			next.player.Alive = false
		}
		return next, true
	}
}

// MovePursuer moves pursuer i one cell in d. Entering the player's cell
// kills the player. Pursuers may share cells with each other.
func MovePursuer(i int, d board.Direction) Transition {
	return func(s *Snapshot) (*Snapshot, bool) {
		if i < 0 || i >= len(s.pursuers) {
			return s, false
		}
		dst, ok := s.board.CanMove(s.pursuers[i].Pos, d, board.KindPursuer)
		if !ok {
			return s, false
		}

		next := s.derive()
		next.pursuers = make([]Pursuer, len(s.pursuers))
		copy(next.pursuers, s.pursuers)
		next.pursuers[i].Pos = dst
		next.pursuers[i].Facing = d

		if s.player.Alive && s.player.Pos == dst {
			next.player.Alive = false
		}
		return next, true
	}
}
