package nav

import (
	"github.com/zyedidia/generic/mapset"

	"github.com/vovakirdan/tui-pursuit/internal/board"
)

// ShortestPath runs a breadth-first search from one cell to another.
// Neighbours are expanded in board.Directions order and the first
// discovery of a cell wins, so ties between equal-length paths go to the
// earliest direction in that order.
func ShortestPath(b *board.Board, from, to board.Coord, pass Traversable) ([]board.Direction, bool) {
	if from == to {
		return []board.Direction{}, true
	}
	if !b.InBounds(from) || !b.InBounds(to) {
		return nil, false
	}

	visited := mapset.New[board.Coord]()
	visited.Put(from)
	came := make(map[board.Coord]step)
	queue := []board.Coord{from}

	for len(queue) > 0 {
		at := queue[0]
		queue = queue[1:]

		for _, d := range board.Directions {
			next, ok := b.Neighbor(at, d)
			if !ok || visited.Has(next) || !pass.allows(next) {
				continue
			}
			visited.Put(next)
			came[next] = step{prev: at, dir: d}
			if next == to {
				return walkBack(came, from, to), true
			}
			queue = append(queue, next)
		}
	}
	return nil, false
}

// Nearest searches outward from a cell in ring order and returns the first
// cell for which match is true. The start cell is tested first. Terrain is
// ignored; only declared links are followed.
func Nearest(b *board.Board, from board.Coord, match func(board.Coord) bool) (board.Coord, bool) {
	if !b.InBounds(from) {
		return board.Coord{}, false
	}

	visited := mapset.New[board.Coord]()
	visited.Put(from)
	queue := []board.Coord{from}

	for len(queue) > 0 {
		at := queue[0]
		queue = queue[1:]
		if match(at) {
			return at, true
		}
		for _, d := range board.Directions {
			next, ok := b.Neighbor(at, d)
			if !ok || visited.Has(next) {
				continue
			}
			visited.Put(next)
			queue = append(queue, next)
		}
	}
	return board.Coord{}, false
}
