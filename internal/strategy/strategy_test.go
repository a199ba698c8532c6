package strategy

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-pursuit/internal/board"
	"github.com/vovakirdan/tui-pursuit/internal/state"
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

func chaseSnapshot(t *testing.T) *state.Snapshot {
	b := mustBoard(t,
		"#########",
		"#   # # #",
		"# #     #",
		"# # # # #",
		"#########",
	)
	return state.New(b,
		state.Player{Pos: board.C(1, 3), Facing: board.North, Alive: true},
		[]state.Pursuer{{Pos: board.C(3, 3), Variant: Chaser}},
		nil,
	)
}

func TestChaserFollowsTerrainAwarePath(t *testing.T) {
	s := chaseSnapshot(t)
	rng := rand.New(rand.NewSource(1))

	st, err := New(Chaser, Options{TerrainAware: true})
	require.NoError(t, err)
	d, ok := st.NextMove(s, 0, rng)
	require.True(t, ok)
	assert.Equal(t, board.North, d)
}

func TestChaserIgnoringTerrainWalksStraight(t *testing.T) {
	s := chaseSnapshot(t)
	rng := rand.New(rand.NewSource(1))

	st, err := New(Chaser, Options{TerrainAware: false})
	require.NoError(t, err)
	d, ok := st.NextMove(s, 0, rng)
	require.True(t, ok)
	assert.Equal(t, board.West, d)
}

func TestFallbackRandomMove(t *testing.T) {
	// Player is walled off, so the chase finds no path.
	b := mustBoard(t,
		"#######",
		"# # # #",
		"#######",
	)
	s := state.New(b,
		state.Player{Pos: board.C(1, 1), Alive: true},
		[]state.Pursuer{{Pos: board.C(3, 1)}, {Pos: board.C(5, 1)}},
		nil,
	)
	rng := rand.New(rand.NewSource(7))
	st, err := New(Chaser, DefaultOptions())
	require.NoError(t, err)

	_, ok := st.NextMove(s, 0, rng)
	assert.False(t, ok, "boxed-in pursuer has no move")

	open := mustBoard(t, "#####", "#   #", "#####")
	seen := make(map[board.Direction]bool)
	for k := 0; k < 50; k++ {
		d, ok := RandomMove(open, board.C(2, 1), rng)
		require.True(t, ok)
		assert.Contains(t, []board.Direction{board.West, board.East}, d)
		seen[d] = true
	}
	assert.Len(t, seen, 2)
}

func TestAheadOfPlayerStopsAtWalls(t *testing.T) {
	b := mustBoard(t,
		"#######",
		"#     #",
		"#######",
	)
	s := state.New(b,
		state.Player{Pos: board.C(2, 1), Facing: board.East, Alive: true},
		[]state.Pursuer{{Pos: board.C(1, 1)}},
		nil,
	)
	target, ok := AheadOfPlayer(4)(s, 0)
	require.True(t, ok)
	assert.Equal(t, board.C(5, 1), target)

	target, ok = AheadOfPlayer(2)(s, 0)
	require.True(t, ok)
	assert.Equal(t, board.C(4, 1), target)
}

func TestHomeCornerRotation(t *testing.T) {
	b := mustBoard(t,
		"#####",
		"#   #",
		"#   #",
		"#####",
	)
	s := state.New(b, state.Player{Pos: board.C(2, 1), Alive: true}, make([]state.Pursuer, 5), nil)

	want := []board.Coord{
		board.C(3, 1), board.C(1, 1), board.C(3, 2), board.C(1, 2), board.C(3, 1),
	}
	for i, w := range want {
		got, ok := HomeCorner(s, i)
		require.True(t, ok)
		assert.Equal(t, w, got, "pursuer %d", i)
	}
}

func TestShyRetreatsWhenClose(t *testing.T) {
	b := mustBoard(t,
		"############",
		"#          #",
		"############",
	)
	s := state.New(b,
		state.Player{Pos: board.C(1, 1), Alive: true},
		[]state.Pursuer{{Pos: board.C(3, 1)}, {Pos: board.C(10, 1)}},
		nil,
	)
	rule := Shy(4)

	// Pursuer 0 is close and heads for the top-right corner.
	target, ok := rule(s, 0)
	require.True(t, ok)
	assert.Equal(t, board.C(10, 1), target)

	// Pursuer 1 is far and chases.
	target, ok = rule(s, 1)
	require.True(t, ok)
	assert.Equal(t, board.C(1, 1), target)
}

func TestRegistry(t *testing.T) {
	names := make([]string, 0)
	for _, info := range Variants() {
		names = append(names, info.Name)
		assert.NotEmpty(t, info.Summary)
	}
	assert.Equal(t, []string{Ambusher, Chaser, Patroller, Wanderer}, names)
	for _, v := range Rotation {
		assert.True(t, Exists(v))
	}

	_, err := New("blinky", DefaultOptions())
	var cfgErr board.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, board.CodeUnknownVariant, cfgErr.Code)

	assert.Panics(t, func() {
		Register(Chaser, "dup", func(Options) Strategy { return Chase{} })
	})
}
