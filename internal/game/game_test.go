package game

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-pursuit/internal/board"
	"github.com/vovakirdan/tui-pursuit/internal/config"
	"github.com/vovakirdan/tui-pursuit/internal/maps"
	"github.com/vovakirdan/tui-pursuit/internal/state"
	"github.com/vovakirdan/tui-pursuit/internal/storage"
	"github.com/vovakirdan/tui-pursuit/internal/strategy"
)

func fastConfig() config.Config {
	cfg := config.Default()
	for name, p := range cfg.Pursuers {
		p.BaseIntervalMs = 2
		p.JitterMs = 2
		cfg.Pursuers[name] = p
	}
	return cfg
}

func TestBuildUsesConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Scoring.PelletValue = 7

	snap, strategies, err := Build(maps.Map{
		ID:       "t",
		Rows:     []string{"#P.GG#"},
		Variants: []string{strategy.Ambusher, strategy.Chaser},
	}, cfg)
	require.NoError(t, err)
	require.Len(t, strategies, 2)

	c, ok := snap.Collectible(board.C(2, 0))
	require.True(t, ok)
	assert.Equal(t, 7, c.Value)

	g0, _ := snap.Pursuer(0)
	assert.Equal(t, strategy.Ambusher, g0.Variant)
	assert.Equal(t, 200*time.Millisecond, g0.Timing.Base)
	assert.Equal(t, 100*time.Millisecond, g0.Timing.Jitter)
}

func TestBuildRejectsBadMap(t *testing.T) {
	_, _, err := Build(maps.Map{ID: "bad", Rows: []string{"#?#"}}, config.Default())
	assert.Error(t, err)
}

func TestSessionWin(t *testing.T) {
	s, err := NewSession(maps.Map{ID: "row", Rows: []string{"#P..#"}}, config.Default(), Options{Seed: 1})
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, storage.OutcomeAbandoned, s.Outcome())
	s.Start()
	s.Move(board.East)
	s.Move(board.East)

	select {
	case <-s.Done():
	case <-time.After(time.Second):
		t.Fatal("run did not finish")
	}
	assert.True(t, s.Finished())
	assert.False(t, s.Level.IsInProgress(), "session stops the level")

	r := s.Result("ada")
	assert.Equal(t, "row", r.MapID)
	assert.Equal(t, "ada", r.Player)
	assert.Equal(t, storage.OutcomeWon, r.Outcome)
	assert.Equal(t, 20, r.Score)

	s.Start()
	assert.False(t, s.Level.IsInProgress(), "finished runs cannot restart")
}

func TestSessionLoss(t *testing.T) {
	s, err := NewSession(maps.Map{ID: "trap", Rows: []string{"#P  G#", "#.####"}}, fastConfig(), Options{Seed: 3})
	require.NoError(t, err)
	defer s.Close()

	s.Start()
	select {
	case <-s.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("pursuer never caught the player")
	}
	assert.Equal(t, storage.OutcomeLost, s.Outcome())
	assert.Equal(t, 0, s.Result("").Score)
}

func TestSessionToggleTracksElapsed(t *testing.T) {
	s, err := NewSession(maps.Map{ID: "idle", Rows: []string{"#P. #"}}, config.Default(), Options{})
	require.NoError(t, err)
	defer s.Close()

	s.Toggle()
	assert.True(t, s.Level.IsInProgress())
	time.Sleep(5 * time.Millisecond)
	s.Toggle()
	assert.False(t, s.Level.IsInProgress())

	paused := s.Elapsed()
	assert.GreaterOrEqual(t, paused, 5*time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, paused, s.Elapsed(), "clock stops while paused")
}

func TestStartWhileRunningKeepsClock(t *testing.T) {
	s, err := NewSession(maps.Map{ID: "idle", Rows: []string{"#P. #"}}, config.Default(), Options{})
	require.NoError(t, err)
	defer s.Close()

	s.Start()
	time.Sleep(10 * time.Millisecond)
	s.Start()
	assert.GreaterOrEqual(t, s.Elapsed(), 10*time.Millisecond)

	s.Pause()
	assert.GreaterOrEqual(t, s.Elapsed(), 10*time.Millisecond)
}

func TestSimulateGreedyClearsCorridor(t *testing.T) {
	s, err := NewSession(maps.Map{ID: "corridor", Rows: []string{"#P....#"}}, config.Default(), Options{})
	require.NoError(t, err)
	defer s.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	r := Simulate(ctx, s, time.Millisecond, Greedy, 1)
	assert.Equal(t, storage.OutcomeWon, r.Outcome)
	assert.Equal(t, 40, r.Score)
}

func TestSimulateTimesOut(t *testing.T) {
	s, err := NewSession(maps.Map{ID: "walled", Rows: []string{"#P#.#"}}, config.Default(), Options{})
	require.NoError(t, err)
	defer s.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	r := Simulate(ctx, s, time.Millisecond, RandomWalk, 1)
	assert.Equal(t, storage.OutcomeAbandoned, r.Outcome)
	assert.False(t, s.Level.IsInProgress())
}

func TestGreedyAvoidsPursuers(t *testing.T) {
	snap, _, err := Build(maps.Map{ID: "g", Rows: []string{
		"#####",
		"#.PG#",
		"#   #",
		"#####",
	}}, config.Default())
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(1))
	d, ok := Greedy(snap, rng)
	require.True(t, ok)
	assert.Equal(t, board.West, d)

	blocked := state.New(snap.Board(), snap.Player(), []state.Pursuer{{Pos: board.C(1, 1)}}, snap.Collectibles())
	d, ok = Greedy(blocked, rng)
	require.True(t, ok)
	assert.NotEqual(t, board.West, d, "path through a pursuer is not taken directly")
}
