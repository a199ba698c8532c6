package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-pursuit/internal/board"
)

func mustBoard(t *testing.T, rows ...string) *board.Board {
	t.Helper()
	terrain := make([][]board.Terrain, len(rows))
	for y, r := range rows {
		terrain[y] = make([]board.Terrain, len(r))
		for x, ch := range r {
			if ch == '#' {
				terrain[y][x] = board.Wall
			}
		}
	}
	b, err := board.New(terrain)
	require.NoError(t, err)
	return b
}

func alive(at board.Coord) Player {
	return Player{Pos: at, Facing: board.West, Alive: true}
}

func TestMovePlayerCorridor(t *testing.T) {
	b := mustBoard(t, "####", "#  #", "####")
	s := New(b, alive(board.C(1, 1)), nil, nil)

	next, ok := MovePlayer(board.East)(s)
	require.True(t, ok)
	p := next.Player()
	assert.Equal(t, board.C(2, 1), p.Pos)
	assert.Equal(t, board.East, p.Facing)
	assert.Equal(t, 0, p.Score)
	assert.True(t, p.Alive)

	assert.Equal(t, board.C(1, 1), s.Player().Pos, "prior snapshot is untouched")
	assert.Equal(t, s.Seq()+1, next.Seq())
}

func TestMovePlayerIntoWallIsNoChange(t *testing.T) {
	b := mustBoard(t, "####", "#  #", "####")
	s := New(b, alive(board.C(1, 1)), nil, nil)

	next, ok := MovePlayer(board.North)(s)
	assert.False(t, ok)
	assert.Same(t, s, next)
}

func TestMovePlayerCollectsPellets(t *testing.T) {
	b := mustBoard(t, "#####", "# ..#", "#####")
	s := New(b, alive(board.C(1, 1)), nil, []Collectible{
		{Pos: board.C(2, 1), Value: 10},
		{Pos: board.C(3, 1), Value: 25},
	})
	require.Equal(t, 2, s.Remaining())

	s1, ok := MovePlayer(board.East)(s)
	require.True(t, ok)
	assert.Equal(t, 1, s1.Remaining())
	assert.Equal(t, 10, s1.Player().Score)
	_, ok = s1.Collectible(board.C(2, 1))
	assert.False(t, ok)
	assert.False(t, s1.Won())

	s2, ok := MovePlayer(board.East)(s1)
	require.True(t, ok)
	assert.Equal(t, 0, s2.Remaining())
	assert.Equal(t, 35, s2.Player().Score)
	assert.True(t, s2.Won())

	assert.Equal(t, 2, s.Remaining(), "collectible map is copied, not shared")
}

func TestMovePlayerScoresAndDiesInSameTransition(t *testing.T) {
	b := mustBoard(t, "####", "#  #", "####")
	s := New(b, alive(board.C(1, 1)),
		[]Pursuer{{Pos: board.C(2, 1), Variant: "chaser"}},
		[]Collectible{{Pos: board.C(2, 1), Value: 10}},
	)

	next, ok := MovePlayer(board.East)(s)
	require.True(t, ok)
	assert.Equal(t, 10, next.Player().Score)
	assert.Equal(t, 0, next.Remaining())
	assert.False(t, next.Player().Alive)
	assert.True(t, next.Lost())
}

func TestDeadPlayerCannotMove(t *testing.T) {
	b := mustBoard(t, "####", "#  #", "####")
	p := alive(board.C(1, 1))
	p.Alive = false
	s := New(b, p, nil, nil)

	_, ok := MovePlayer(board.East)(s)
	assert.False(t, ok)
}

func TestMovePursuerKillsPlayer(t *testing.T) {
	b := mustBoard(t, "#####", "#   #", "#####")
	s := New(b, alive(board.C(1, 1)), []Pursuer{
		{Pos: board.C(3, 1)},
		{Pos: board.C(2, 1)},
	}, []Collectible{{Pos: board.C(3, 1), Value: 10}})

	// Pursuers may overlap each other.
	s1, ok := MovePursuer(0, board.West)(s)
	require.True(t, ok)
	assert.True(t, s1.Player().Alive)
	p0, _ := s1.Pursuer(0)
	p1, _ := s1.Pursuer(1)
	assert.Equal(t, p0.Pos, p1.Pos)
	assert.Equal(t, board.West, p0.Facing)

	s2, ok := MovePursuer(1, board.West)(s1)
	require.True(t, ok)
	assert.False(t, s2.Player().Alive)
	assert.Equal(t, 0, s2.Player().Score, "pursuer collisions never score")
	assert.Equal(t, 1, s2.Remaining(), "pursuers do not collect")

	orig, _ := s.Pursuer(0)
	assert.Equal(t, board.C(3, 1), orig.Pos)
}

func TestMovePursuerRevalidatesAgainstLiveSnapshot(t *testing.T) {
	b := mustBoard(t, "#####", "#   #", "#####")
	s := New(b, alive(board.C(3, 1)), []Pursuer{{Pos: board.C(2, 1)}}, nil)

	// A west move decided at (2,1) is applied after the pursuer already
	// reached (1,1): the wall now blocks it.
	moved, ok := MovePursuer(0, board.West)(s)
	require.True(t, ok)
	stale := MovePursuer(0, board.West)
	again, ok := stale(moved)
	assert.False(t, ok)
	assert.Same(t, moved, again)

	_, ok = MovePursuer(5, board.West)(s)
	assert.False(t, ok)
}

func TestCollectiblesSortedRowMajor(t *testing.T) {
	b := mustBoard(t, "   ", "   ")
	s := New(b, alive(board.C(0, 0)), nil, []Collectible{
		{Pos: board.C(2, 1), Value: 1},
		{Pos: board.C(1, 0), Value: 1},
		{Pos: board.C(0, 1), Value: 1},
	})
	cs := s.Collectibles()
	require.Len(t, cs, 3)
	assert.Equal(t, board.C(1, 0), cs[0].Pos)
	assert.Equal(t, board.C(0, 1), cs[1].Pos)
	assert.Equal(t, board.C(2, 1), cs[2].Pos)
}
