// Package level wraps the current snapshot in a start/stop lifecycle and
// serializes every transition through one apply goroutine.
package level

import (
	"context"
	"errors"
	"io"
	"reflect"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-pursuit/internal/scheduler"
	"github.com/vovakirdan/tui-pursuit/internal/state"
	"github.com/vovakirdan/tui-pursuit/internal/strategy"
)

// ErrClosed is returned when submitting to a closed level.
var ErrClosed = errors.New("level: closed")

// queueSize bounds the number of pending transitions.
const queueSize = 256

type request struct {
	t     state.Transition
	start *state.Snapshot // snapshot to evaluate on behalf of Start
	ack   chan struct{}   // closed once processed; nil for plain moves
}

// Option configures a Level.
type Option func(*Level)

// WithLogger sets the logger. The default discards output.
func WithLogger(l *log.Logger) Option {
	return func(lv *Level) {
		if l != nil {
			lv.logger = l
		}
	}
}

// WithStrategies gives each pursuer, by index, the strategy its timer runs.
func WithStrategies(s []strategy.Strategy) Option {
	return func(lv *Level) {
		lv.strategies = s
	}
}

// WithSeed seeds the pursuer timers and strategies.
func WithSeed(seed int64) Option {
	return func(lv *Level) {
		lv.seed = seed
	}
}

// Level is the lifecycle state machine around the current snapshot.
type Level struct {
	logger     *log.Logger
	strategies []strategy.Strategy
	seed       int64
	timers     *scheduler.Scheduler

	mu         sync.RWMutex
	current    *state.Snapshot
	inProgress bool
	observers  []Observer

	// runMu serializes Start and Stop.
	runMu sync.Mutex

	queue     chan request
	done      chan struct{}
	exited    chan struct{}
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// New creates a stopped level over the initial snapshot and starts its
// apply goroutine. Call Close to release it.
func New(initial *state.Snapshot, opts ...Option) *Level {
	ctx, cancel := context.WithCancel(context.Background())
	l := &Level{
		logger:  log.New(io.Discard),
		current: initial,
		queue:   make(chan request, queueSize),
		done:    make(chan struct{}),
		exited:  make(chan struct{}),
		ctx:     ctx,
		cancel:  cancel,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.timers = scheduler.New(l, l.strategies, scheduler.Options{Seed: l.seed, Logger: l.logger})

	go l.processTransitions()
	return l
}

// Start moves the level to InProgress, starts the pursuer timers and
// evaluates the current snapshot for win or loss. The evaluation runs on
// the apply goroutine and Start waits for it, so Start must not be called
// from an observer. Starting a running level does nothing.
func (l *Level) Start() {
	l.runMu.Lock()
	l.mu.Lock()
	if l.inProgress || l.ctx.Err() != nil {
		l.mu.Unlock()
		l.runMu.Unlock()
		return
	}
	l.inProgress = true
	snap := l.current
	l.mu.Unlock()

	l.timers.Start(l.ctx)
	l.runMu.Unlock()

	l.logger.Info("level started", "pursuers", snap.PursuerCount(), "remaining", snap.Remaining())
	ack := make(chan struct{})
	if err := l.enqueue(context.Background(), request{start: snap, ack: ack}); err != nil {
		return
	}
	select {
	case <-ack:
	case <-l.done:
	}
}

// Stop moves the level to Stopped and cancels the pursuer timers.
// Transitions still queued are applied as no-ops. Stopping a stopped
// level does nothing.
func (l *Level) Stop() {
	l.runMu.Lock()
	defer l.runMu.Unlock()

	l.mu.Lock()
	if !l.inProgress {
		l.mu.Unlock()
		return
	}
	l.inProgress = false
	l.mu.Unlock()

	l.timers.Stop()
	l.logger.Info("level stopped")
}

// IsInProgress reports whether the level is running.
func (l *Level) IsInProgress() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.inProgress
}

// Current returns the latest snapshot. It is safe to read concurrently.
func (l *Level) Current() *state.Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

// Submit queues a transition, blocking while the queue is full.
func (l *Level) Submit(t state.Transition) error {
	return l.SubmitContext(context.Background(), t)
}

// SubmitContext queues a transition, giving up when ctx is done.
func (l *Level) SubmitContext(ctx context.Context, t state.Transition) error {
	return l.enqueue(ctx, request{t: t})
}

// Sync waits until every transition submitted before it has been applied.
func (l *Level) Sync(ctx context.Context) error {
	ack := make(chan struct{})
	if err := l.enqueue(ctx, request{ack: ack}); err != nil {
		return err
	}
	select {
	case <-ack:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return ErrClosed
	}
}

func (l *Level) enqueue(ctx context.Context, r request) error {
	select {
	case <-l.done:
		return ErrClosed
	default:
	}
	select {
	case l.queue <- r:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return ErrClosed
	}
}

// AddObserver registers o for win and loss notifications.
func (l *Level) AddObserver(o Observer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.observers = append(l.observers, o)
}

// RemoveObserver unregisters o. Unknown observers are ignored, as are
// observers whose type cannot be compared.
func (l *Level) RemoveObserver(o Observer) {
	if o == nil || !reflect.TypeOf(o).Comparable() {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, existing := range l.observers {
		if existing == o {
			l.observers = append(l.observers[:i:i], l.observers[i+1:]...)
			return
		}
	}
}

// Close stops the level and its apply goroutine. Pending transitions are
// dropped and later submissions fail with ErrClosed. Close waits for the
// apply goroutine, so it must not be called from an observer.
func (l *Level) Close() {
	l.closeOnce.Do(func() {
		l.Stop()
		l.cancel()
		close(l.done)
		<-l.exited
	})
}

func (l *Level) observerList() []Observer {
	out := make([]Observer, len(l.observers))
	copy(out, l.observers)
	return out
}

// processTransitions is the single consumer of the queue.
func (l *Level) processTransitions() {
	defer close(l.exited)
	for {
		select {
		case r := <-l.queue:
			switch {
			case r.start != nil:
				l.evaluateStart(r.start)
			case r.t != nil:
				l.apply(r.t)
			}
			if r.ack != nil {
				close(r.ack)
			}
		case <-l.done:
			return
		}
	}
}

// apply runs one transition against the current snapshot. The progress
// guard is checked here rather than at submit time so moves computed
// before a Stop land as no-ops.
func (l *Level) apply(t state.Transition) {
	l.mu.Lock()
	if !l.inProgress {
		l.mu.Unlock()
		return
	}
	next, changed := t(l.current)
	if !changed {
		l.mu.Unlock()
		return
	}
	l.current = next
	observers := l.observerList()
	l.mu.Unlock()

	l.logger.Debug("snapshot replaced", "seq", next.Seq())
	l.notify(next, observers)
}

// evaluateStart notifies for the snapshot Start saw, unless a later
// replacement has already been evaluated or the level was stopped.
func (l *Level) evaluateStart(snap *state.Snapshot) {
	l.mu.RLock()
	fresh := l.inProgress && l.current == snap
	observers := l.observerList()
	l.mu.RUnlock()
	if fresh {
		l.notify(snap, observers)
	}
}

func (l *Level) notify(s *state.Snapshot, observers []Observer) {
	if s.Lost() {
		l.logger.Info("level lost", "score", s.Player().Score)
		for _, o := range observers {
			o.LevelLost()
		}
	}
	if s.Won() {
		l.logger.Info("level won", "score", s.Player().Score)
		for _, o := range observers {
			o.LevelWon()
		}
	}
}
