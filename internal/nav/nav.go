// Package nav implements shortest-path searches over a board.
//
// Every search takes an optional Traversable predicate. A nil predicate
// ignores terrain and searches the raw link graph, which yields the
// geometric shortest path whether or not an entity could walk it.
// "No path" is a normal result reported through the ok return value.
package nav

import "github.com/vovakirdan/tui-pursuit/internal/board"

// Traversable reports whether a search may enter the given cell.
type Traversable func(c board.Coord) bool

// For binds the board's accessibility rule to a requester kind.
func For(b *board.Board, k board.Kind) Traversable {
	return func(c board.Coord) bool {
		return b.IsAccessible(c, k)
	}
}

func (p Traversable) allows(c board.Coord) bool {
	return p == nil || p(c)
}

// step records how a cell was first reached.
type step struct {
	prev board.Coord
	dir  board.Direction
}

// walkBack rebuilds the direction sequence from the predecessor links.
func walkBack(came map[board.Coord]step, from, to board.Coord) []board.Direction {
	var rev []board.Direction
	for at := to; at != from; {
		s := came[at]
		rev = append(rev, s.dir)
		at = s.prev
	}
	path := make([]board.Direction, len(rev))
	for i, d := range rev {
		path[len(rev)-1-i] = d
	}
	return path
}

// Follow applies a path to a start cell and returns every cell visited,
// excluding the start. It stops early if a link is missing.
func Follow(b *board.Board, from board.Coord, path []board.Direction) []board.Coord {
	cells := make([]board.Coord, 0, len(path))
	at := from
	for _, d := range path {
		next, ok := b.Neighbor(at, d)
		if !ok {
			break
		}
		cells = append(cells, next)
		at = next
	}
	return cells
}
