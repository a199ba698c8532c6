package nav

import (
	"container/heap"

	"github.com/zyedidia/generic/mapset"

	"github.com/vovakirdan/tui-pursuit/internal/board"
)

// openItem is an entry in the A* frontier. An item whose g no longer
// matches the best known cost is stale and skipped when popped.
type openItem struct {
	at  board.Coord
	g   int
	f   int
	seq int
}

// openList orders by f, then by insertion sequence.
type openList []openItem

func (o openList) Len() int { return len(o) }
func (o openList) Less(i, j int) bool {
	if o[i].f != o[j].f {
		return o[i].f < o[j].f
	}
	return o[i].seq < o[j].seq
}
func (o openList) Swap(i, j int) { o[i], o[j] = o[j], o[i] }
func (o *openList) Push(x any)   { *o = append(*o, x.(openItem)) }
func (o *openList) Pop() any {
	old := *o
	n := len(old)
	it := old[n-1]
	*o = old[:n-1]
	return it
}

// AStar finds a shortest path using Manhattan distance as the heuristic.
//
// Among open cells with equal f-score the one pushed first is expanded
// first, and neighbours are pushed in board.Directions order. The result
// has the same length as ShortestPath for any query; the exact route may
// differ when several shortest paths exist. On boards with tunnel links
// the Manhattan estimate can overshoot, so the heuristic is dropped there.
func AStar(b *board.Board, from, to board.Coord, pass Traversable) ([]board.Direction, bool) {
	if from == to {
		return []board.Direction{}, true
	}
	if !b.InBounds(from) || !b.InBounds(to) {
		return nil, false
	}

	h := func(c board.Coord) int {
		if b.Warped() {
			return 0
		}
		return c.Manhattan(to)
	}

	closed := mapset.New[board.Coord]()
	gScore := map[board.Coord]int{from: 0}
	came := make(map[board.Coord]step)

	seq := 0
	ol := &openList{{at: from, g: 0, f: h(from), seq: seq}}

	for ol.Len() > 0 {
		cur := heap.Pop(ol).(openItem)
		if closed.Has(cur.at) || cur.g != gScore[cur.at] {
			continue
		}
		if cur.at == to {
			return walkBack(came, from, to), true
		}
		closed.Put(cur.at)

		for _, d := range board.Directions {
			next, ok := b.Neighbor(cur.at, d)
			if !ok || closed.Has(next) || !pass.allows(next) {
				continue
			}
			g := cur.g + 1
			if best, seen := gScore[next]; seen && g >= best {
				continue
			}
			gScore[next] = g
			came[next] = step{prev: cur.at, dir: d}
			seq++
			heap.Push(ol, openItem{at: next, g: g, f: g + h(next), seq: seq})
		}
	}
	return nil, false
}
