package level

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-pursuit/internal/board"
	"github.com/vovakirdan/tui-pursuit/internal/state"
	"github.com/vovakirdan/tui-pursuit/internal/strategy"
)

// snapshotFrom builds a snapshot from a character grid: # wall, . pellet
// worth 10, G pursuer, P player.
func snapshotFrom(t *testing.T, timing state.Timing, rows ...string) *state.Snapshot {
	t.Helper()
	terrain := make([][]board.Terrain, len(rows))
	var player state.Player
	var pursuers []state.Pursuer
	var pellets []state.Collectible
	for y, r := range rows {
		terrain[y] = make([]board.Terrain, len(r))
		for x, ch := range r {
			at := board.C(x, y)
			switch ch {
			case '#':
				terrain[y][x] = board.Wall
			case '.':
				pellets = append(pellets, state.Collectible{Pos: at, Value: 10})
			case 'G':
				pursuers = append(pursuers, state.Pursuer{Pos: at, Home: at, Variant: strategy.Chaser, Timing: timing})
			case 'P':
				player = state.Player{Pos: at, Facing: board.East, Alive: true}
			}
		}
	}
	b, err := board.New(terrain)
	require.NoError(t, err)
	return state.New(b, player, pursuers, pellets)
}

type counter struct {
	won, lost atomic.Int32
}

func (c *counter) LevelWon()  { c.won.Add(1) }
func (c *counter) LevelLost() { c.lost.Add(1) }

func sync1(t *testing.T, l *Level) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, l.Sync(ctx))
}

func TestMovesIgnoredWhileStopped(t *testing.T) {
	initial := snapshotFrom(t, state.Timing{}, "####", "#P #", "####")
	l := New(initial)
	defer l.Close()

	require.False(t, l.IsInProgress())
	require.NoError(t, l.Submit(state.MovePlayer(board.East)))
	sync1(t, l)
	assert.Same(t, initial, l.Current())
}

func TestCorridorMove(t *testing.T) {
	l := New(snapshotFrom(t, state.Timing{}, "####", "#P #", "####"))
	defer l.Close()

	l.Start()
	require.NoError(t, l.Submit(state.MovePlayer(board.East)))
	sync1(t, l)

	p := l.Current().Player()
	assert.Equal(t, board.C(2, 1), p.Pos)
	assert.Equal(t, board.East, p.Facing)
	assert.Equal(t, 0, p.Score)
}

func TestPelletsWinOnce(t *testing.T) {
	l := New(snapshotFrom(t, state.Timing{}, "#####", "#P..#", "#####"))
	defer l.Close()
	c := &counter{}
	l.AddObserver(c)
	l.Start()
	require.Zero(t, c.won.Load())

	require.NoError(t, l.Submit(state.MovePlayer(board.East)))
	sync1(t, l)
	assert.Equal(t, 1, l.Current().Remaining())
	assert.Equal(t, 10, l.Current().Player().Score)
	assert.Zero(t, c.won.Load())

	require.NoError(t, l.Submit(state.MovePlayer(board.East)))
	sync1(t, l)
	assert.Equal(t, 0, l.Current().Remaining())
	assert.Equal(t, int32(1), c.won.Load())
	assert.Zero(t, c.lost.Load())

	// A rejected move does not replace the snapshot, so nothing fires.
	require.NoError(t, l.Submit(state.MovePlayer(board.East)))
	sync1(t, l)
	assert.Equal(t, int32(1), c.won.Load())
}

func TestWinRefiresOnEveryReplacement(t *testing.T) {
	l := New(snapshotFrom(t, state.Timing{}, "#####", "#P. #", "#####"))
	defer l.Close()
	c := &counter{}
	l.AddObserver(c)
	l.Start()

	require.NoError(t, l.Submit(state.MovePlayer(board.East)))
	require.NoError(t, l.Submit(state.MovePlayer(board.East)))
	sync1(t, l)
	assert.Equal(t, int32(2), c.won.Load())
}

func TestPursuerCatchesPlayer(t *testing.T) {
	l := New(snapshotFrom(t, state.Timing{}, "#####", "#P G#", "#. ##", "#####"))
	defer l.Close()
	c := &counter{}
	l.AddObserver(c)
	l.Start()

	require.NoError(t, l.Submit(state.MovePursuer(0, board.West)))
	require.NoError(t, l.Submit(state.MovePursuer(0, board.West)))
	sync1(t, l)
	assert.False(t, l.Current().Player().Alive)
	assert.Equal(t, int32(1), c.lost.Load())
	assert.Zero(t, c.won.Load())
}

func TestStartWithNothingToCollectWinsImmediately(t *testing.T) {
	l := New(snapshotFrom(t, state.Timing{}, "####", "#P #", "####"))
	defer l.Close()
	c := &counter{}
	l.AddObserver(c)

	l.Start()
	l.Start()
	assert.Equal(t, int32(1), c.won.Load(), "second Start is a no-op")
	assert.True(t, l.IsInProgress())

	l.Stop()
	l.Stop()
	assert.False(t, l.IsInProgress())
}

func TestRemoveObserver(t *testing.T) {
	l := New(snapshotFrom(t, state.Timing{}, "####", "#P #", "####"))
	defer l.Close()
	kept, dropped := &counter{}, &counter{}
	l.AddObserver(kept)
	l.AddObserver(dropped)
	l.RemoveObserver(dropped)
	l.RemoveObserver(&counter{})

	l.Start()
	assert.Equal(t, int32(1), kept.won.Load())
	assert.Zero(t, dropped.won.Load())
}

type recordingObserver struct {
	hits []int
}

func (recordingObserver) LevelWon()  {}
func (recordingObserver) LevelLost() {}

func TestRemoveObserverIgnoresUncomparableTypes(t *testing.T) {
	l := New(snapshotFrom(t, state.Timing{}, "####", "#P #", "####"))
	defer l.Close()
	c := &counter{}
	l.AddObserver(recordingObserver{hits: []int{1}})
	l.AddObserver(c)

	assert.NotPanics(t, func() { l.RemoveObserver(recordingObserver{}) })
	assert.NotPanics(t, func() { l.RemoveObserver(c) })

	l.Start()
	assert.Zero(t, c.won.Load())
}

type serialObserver struct {
	active, overlaps, calls atomic.Int32
}

func (o *serialObserver) LevelWon() {
	if o.active.Add(1) > 1 {
		o.overlaps.Add(1)
	}
	time.Sleep(100 * time.Microsecond)
	o.active.Add(-1)
	o.calls.Add(1)
}

func (o *serialObserver) LevelLost() {}

func TestNotificationsNeverOverlap(t *testing.T) {
	l := New(snapshotFrom(t, state.Timing{}, "#######", "#P    #", "#######"))
	defer l.Close()
	o := &serialObserver{}
	l.AddObserver(o)
	l.Start()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for k := 0; k < 40; k++ {
			d := board.East
			if k%2 == 1 {
				d = board.West
			}
			assert.NoError(t, l.Submit(state.MovePlayer(d)))
		}
	}()
	for k := 0; k < 20; k++ {
		l.Stop()
		l.Start()
	}
	wg.Wait()
	sync1(t, l)

	assert.Zero(t, o.overlaps.Load())
	assert.Positive(t, o.calls.Load())
}

func TestObserverMayStopLevel(t *testing.T) {
	l := New(snapshotFrom(t, state.Timing{}, "######", "#P.. #", "######"))
	defer l.Close()
	var stops atomic.Int32
	l.AddObserver(NewObserver(func() {
		stops.Add(1)
		l.Stop()
	}, nil))
	l.Start()

	for k := 0; k < 4; k++ {
		require.NoError(t, l.Submit(state.MovePlayer(board.East)))
	}
	sync1(t, l)

	assert.Equal(t, int32(1), stops.Load())
	assert.False(t, l.IsInProgress())
	assert.Equal(t, board.C(3, 1), l.Current().Player().Pos, "moves after Stop are no-ops")
}

func TestConcurrentSubmissionsAreSerialized(t *testing.T) {
	row := "#P" + strings.Repeat(".", 60) + "#"
	wall := strings.Repeat("#", len(row))
	l := New(snapshotFrom(t, state.Timing{}, wall, row, wall))
	defer l.Close()
	c := &counter{}
	l.AddObserver(c)
	l.Start()

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for k := 0; k < 15; k++ {
				assert.NoError(t, l.Submit(state.MovePlayer(board.East)))
			}
		}()
	}
	wg.Wait()
	sync1(t, l)

	s := l.Current()
	assert.Equal(t, board.C(61, 1), s.Player().Pos)
	assert.Equal(t, 600, s.Player().Score)
	assert.Equal(t, 0, s.Remaining())
	assert.Equal(t, uint64(60), s.Seq())
	assert.Equal(t, int32(1), c.won.Load())
}

func TestTimersChasePlayer(t *testing.T) {
	timing := state.Timing{Base: 2 * time.Millisecond, Jitter: 3 * time.Millisecond}
	initial := snapshotFrom(t, timing,
		"#######",
		"#P . G#",
		"#######",
	)
	chaser, err := strategy.New(strategy.Chaser, strategy.DefaultOptions())
	require.NoError(t, err)

	l := New(initial, WithStrategies([]strategy.Strategy{chaser}), WithSeed(42))
	defer l.Close()
	lost := make(chan struct{}, 1)
	l.AddObserver(NewObserver(nil, func() {
		select {
		case lost <- struct{}{}:
		default:
		}
	}))
	l.Start()

	select {
	case <-lost:
	case <-time.After(2 * time.Second):
		t.Fatal("pursuer never caught the player")
	}
	l.Stop()
	assert.False(t, l.Current().Player().Alive)
	assert.Equal(t, 0, l.Current().Player().Score)
}

func TestClosedLevelRejectsSubmissions(t *testing.T) {
	l := New(snapshotFrom(t, state.Timing{}, "####", "#P #", "####"))
	l.Start()
	l.Close()
	l.Close()

	assert.ErrorIs(t, l.Submit(state.MovePlayer(board.East)), ErrClosed)
	assert.ErrorIs(t, l.Sync(context.Background()), ErrClosed)
	assert.False(t, l.IsInProgress())

	l.Start()
	assert.False(t, l.IsInProgress(), "a closed level cannot restart")
}
