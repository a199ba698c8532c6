// Package scheduler drives pursuers on independent jittered clocks and
// forwards player input, submitting every move to a single Sink.
package scheduler

import (
	"context"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/tui-pursuit/internal/board"
	"github.com/vovakirdan/tui-pursuit/internal/state"
	"github.com/vovakirdan/tui-pursuit/internal/strategy"
)

// minPeriod keeps a misconfigured timer from spinning.
const minPeriod = time.Millisecond

// Sink is the serialization point transitions are submitted to.
type Sink interface {
	Current() *state.Snapshot
	SubmitContext(ctx context.Context, t state.Transition) error
}

// Options configures a Scheduler.
type Options struct {
	Seed   int64
	Logger *log.Logger
}

// Scheduler owns one timer goroutine per pursuer.
type Scheduler struct {
	sink       Sink
	strategies []strategy.Strategy
	rngs       []*rand.Rand
	logger     *log.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	group  *errgroup.Group
}

// New creates a scheduler for the given strategies, indexed like the
// pursuers of the sink's snapshot. A nil strategy leaves that pursuer idle.
func New(sink Sink, strategies []strategy.Strategy, opts Options) *Scheduler {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	rngs := make([]*rand.Rand, len(strategies))
	for i := range rngs {
		rngs[i] = rand.New(rand.NewSource(opts.Seed + int64(i)))
	}
	return &Scheduler{
		sink:       sink,
		strategies: strategies,
		rngs:       rngs,
		logger:     logger,
	}
}

// Running reports whether the timers are active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.group != nil
}

// Start launches the pursuer timers. It is a no-op while already running.
// Timers stop when ctx is cancelled or Stop is called.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.group != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(ctx)

	snap := s.sink.Current()
	for i, st := range s.strategies {
		p, ok := snap.Pursuer(i)
		if st == nil || !ok {
			continue
		}
		i, st := i, st
		g.Go(func() error {
			return s.run(gctx, i, p.Timing, st, s.rngs[i])
		})
	}
	s.cancel = cancel
	s.group = g
	s.logger.Debug("timers started", "pursuers", len(s.strategies))
}

// Stop cancels every timer and waits for the goroutines to exit.
// Moves already submitted are left to the sink.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.group == nil {
		return
	}
	s.cancel()
	if err := s.group.Wait(); err != nil {
		s.logger.Warn("timer exited", "err", err)
	}
	s.cancel = nil
	s.group = nil
	s.logger.Debug("timers stopped")
}

// Period draws the next timer period: base + uniform[0, jitter).
func Period(t state.Timing, rng *rand.Rand) time.Duration {
	d := t.Base
	if t.Jitter > 0 {
		d += time.Duration(rng.Int63n(int64(t.Jitter)))
	}
	if d < minPeriod {
		d = minPeriod
	}
	return d
}

func (s *Scheduler) run(ctx context.Context, i int, t state.Timing, st strategy.Strategy, rng *rand.Rand) error {
	timer := time.NewTimer(Period(t, rng))
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
		}

		if d, ok := st.NextMove(s.sink.Current(), i, rng); ok {
			if err := s.sink.SubmitContext(ctx, state.MovePursuer(i, d)); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
			s.logger.Debug("pursuer move", "index", i, "dir", d)
		}
		timer.Reset(Period(t, rng))
	}
}

// Feed translates directions from in into player moves until in is
// closed or ctx is done.
func Feed(ctx context.Context, sink Sink, in <-chan board.Direction) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-in:
			if !ok {
				return nil
			}
			if err := sink.SubmitContext(ctx, state.MovePlayer(d)); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
		}
	}
}
