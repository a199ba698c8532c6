// Package game assembles a playable level from a map and configuration and
// tracks one run of it from start to outcome.
package game

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-pursuit/internal/board"
	"github.com/vovakirdan/tui-pursuit/internal/config"
	"github.com/vovakirdan/tui-pursuit/internal/level"
	"github.com/vovakirdan/tui-pursuit/internal/maps"
	"github.com/vovakirdan/tui-pursuit/internal/scheduler"
	"github.com/vovakirdan/tui-pursuit/internal/state"
	"github.com/vovakirdan/tui-pursuit/internal/storage"
	"github.com/vovakirdan/tui-pursuit/internal/strategy"
)

// inputBuffer is how many player moves may wait for the level.
const inputBuffer = 16

// Options configures a Session.
type Options struct {
	Seed   int64
	Logger *log.Logger
}

// Build turns a map into its initial snapshot and one strategy per pursuer.
func Build(m maps.Map, cfg config.Config) (*state.Snapshot, []strategy.Strategy, error) {
	snap, err := m.Snapshot(maps.Options{
		PelletValue: cfg.Scoring.PelletValue,
		Timing: func(variant string) state.Timing {
			return cfg.Pursuer(variant).Timing()
		},
	})
	if err != nil {
		return nil, nil, err
	}

	strategies := make([]strategy.Strategy, snap.PursuerCount())
	for i, p := range snap.Pursuers() {
		st, err := strategy.New(p.Variant, cfg.Pursuer(p.Variant).Options())
		if err != nil {
			return nil, nil, err
		}
		strategies[i] = st
	}
	return snap, strategies, nil
}

// Session is one run of a map: the level, its input feed and the outcome.
type Session struct {
	Map   maps.Map
	Level *level.Level

	logger *log.Logger
	input  chan board.Direction
	cancel context.CancelFunc
	feed   sync.WaitGroup

	mu       sync.Mutex
	started  time.Time
	elapsed  time.Duration
	outcome  storage.Outcome
	finished chan struct{}
	once     sync.Once
}

// NewSession builds the level for m. The level starts stopped.
func NewSession(m maps.Map, cfg config.Config, opts Options) (*Session, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	snap, strategies, err := Build(m, cfg)
	if err != nil {
		return nil, err
	}

	lvl := level.New(snap,
		level.WithStrategies(strategies),
		level.WithSeed(opts.Seed),
		level.WithLogger(logger.With("map", m.ID)),
	)
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		Map:      m,
		Level:    lvl,
		logger:   logger,
		input:    make(chan board.Direction, inputBuffer),
		cancel:   cancel,
		finished: make(chan struct{}),
	}
	lvl.AddObserver(level.NewObserver(
		func() { s.finish(storage.OutcomeWon) },
		func() { s.finish(storage.OutcomeLost) },
	))

	s.feed.Add(1)
	go func() {
		defer s.feed.Done()
		if err := scheduler.Feed(ctx, lvl, s.input); err != nil {
			logger.Debug("input feed ended", "err", err)
		}
	}()
	return s, nil
}

// Start resumes play. It does nothing once the run has finished or while
// it is already running.
func (s *Session) Start() {
	if s.Finished() {
		return
	}
	s.mu.Lock()
	if s.started.IsZero() {
		s.started = time.Now()
	}
	s.mu.Unlock()
	s.Level.Start()
}

// Pause stops the level, keeping the time played so far.
func (s *Session) Pause() {
	s.Level.Stop()
	s.mu.Lock()
	s.accumulate()
	s.mu.Unlock()
}

// Toggle pauses a running session or resumes a paused one.
func (s *Session) Toggle() {
	if s.Level.IsInProgress() {
		s.Pause()
	} else {
		s.Start()
	}
}

// Move queues a player move. Moves are dropped when the buffer is full.
func (s *Session) Move(d board.Direction) {
	select {
	case s.input <- d:
	default:
	}
}

// Finished reports whether the run has been won or lost.
func (s *Session) Finished() bool {
	select {
	case <-s.finished:
		return true
	default:
		return false
	}
}

// Done is closed when the run is won or lost.
func (s *Session) Done() <-chan struct{} {
	return s.finished
}

// Outcome returns how the run ended, or OutcomeAbandoned while it is
// still open.
func (s *Session) Outcome() storage.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.outcome == "" {
		return storage.OutcomeAbandoned
	}
	return s.outcome
}

// Elapsed returns the time spent in progress.
func (s *Session) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.elapsed
	if !s.started.IsZero() {
		d += time.Since(s.started)
	}
	return d
}

// Result describes the run for storage.
func (s *Session) Result(player string) storage.Result {
	snap := s.Level.Current()
	return storage.Result{
		MapID:    s.Map.ID,
		Player:   player,
		Score:    snap.Player().Score,
		Outcome:  s.Outcome(),
		Duration: s.Elapsed(),
	}
}

// Close releases the level and input feed.
func (s *Session) Close() {
	s.cancel()
	s.feed.Wait()
	s.Level.Close()
}

// finish runs on the level's apply goroutine the first time a terminal
// condition is reached. The engine keeps running until told otherwise, so
// stopping the level is done here.
func (s *Session) finish(o storage.Outcome) {
	s.once.Do(func() {
		s.mu.Lock()
		s.outcome = o
		s.accumulate()
		s.mu.Unlock()

		s.Level.Stop()
		s.logger.Info("run finished", "map", s.Map.ID, "outcome", o, "score", s.Level.Current().Player().Score)
		close(s.finished)
	})
}

// accumulate folds the current stretch of play into elapsed. Callers
// hold s.mu.
func (s *Session) accumulate() {
	if !s.started.IsZero() {
		s.elapsed += time.Since(s.started)
		s.started = time.Time{}
	}
}
