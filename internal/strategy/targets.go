package strategy

import (
	"github.com/vovakirdan/tui-pursuit/internal/board"
	"github.com/vovakirdan/tui-pursuit/internal/nav"
	"github.com/vovakirdan/tui-pursuit/internal/state"
)

// Built-in variant names.
const (
	Chaser    = "chaser"
	Ambusher  = "ambusher"
	Patroller = "patroller"
	Wanderer  = "wanderer"
)

// Rotation is the order in which variants are handed out to spawn points
// that do not name one.
var Rotation = []string{Chaser, Ambusher, Patroller, Wanderer}

func init() {
	Register(Chaser, "heads straight for the nearest player", func(o Options) Strategy {
		return Chase{Target: NearestPlayer, TerrainAware: o.TerrainAware}
	})
	Register(Ambusher, "aims at the cells ahead of the player", func(o Options) Strategy {
		return Chase{Target: AheadOfPlayer(o.Lookahead), TerrainAware: o.TerrainAware}
	})
	Register(Patroller, "circles its home corner", func(o Options) Strategy {
		return Chase{Target: HomeCorner, TerrainAware: o.TerrainAware}
	})
	Register(Wanderer, "chases from afar, retreats when close", func(o Options) Strategy {
		return Chase{Target: Shy(o.ShyRadius), TerrainAware: o.TerrainAware}
	})
}

// NearestPlayer finds the closest cell holding the player by ring search
// over the board's links.
func NearestPlayer(s *state.Snapshot, i int) (board.Coord, bool) {
	p, ok := s.Pursuer(i)
	if !ok {
		return board.Coord{}, false
	}
	return nav.Nearest(s.Board(), p.Pos, s.PlayerAt)
}

// AheadOfPlayer targets up to n cells in front of the player, stopping at
// the last cell the player could walk to.
func AheadOfPlayer(n int) TargetRule {
	return func(s *state.Snapshot, _ int) (board.Coord, bool) {
		pl := s.Player()
		at := pl.Pos
		for k := 0; k < n; k++ {
			next, ok := s.Board().CanMove(at, pl.Facing, board.KindPlayer)
			if !ok {
				break
			}
			at = next
		}
		return at, true
	}
}

// HomeCorner targets the accessible cell closest to the corner assigned
// to pursuer i. Corners rotate top-right, top-left, bottom-right,
// bottom-left by index.
func HomeCorner(s *state.Snapshot, i int) (board.Coord, bool) {
	b := s.Board()
	w, h := b.Width()-1, b.Height()-1
	corners := [4]board.Coord{
		board.C(w, 0),
		board.C(0, 0),
		board.C(w, h),
		board.C(0, h),
	}
	corner := corners[i%len(corners)]
	return nav.Nearest(b, corner, func(c board.Coord) bool {
		return b.IsAccessible(c, board.KindPursuer)
	})
}

// Shy chases the player while it is farther than radius cells away and
// falls back to the home corner once it gets close.
func Shy(radius int) TargetRule {
	return func(s *state.Snapshot, i int) (board.Coord, bool) {
		p, ok := s.Pursuer(i)
		if !ok {
			return board.Coord{}, false
		}
		if p.Pos.Manhattan(s.Player().Pos) > radius {
			return NearestPlayer(s, i)
		}
		return HomeCorner(s, i)
	}
}
