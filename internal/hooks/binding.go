// Package hooks holds live, stateful bindings between callers and
// repositories. A binding owns the last fetched snapshot, refetches when its
// key changes and refetches in full after every successful mutation.
package hooks

import (
	"context"
	"errors"
	"log/slog"
	"reflect"
	"sync"
	"time"

	"devmart/internal/lib/logger/handlers/slogdiscard"
	"devmart/internal/lib/logger/sl"
	"devmart/internal/metrics"
)

const DefaultTimeout = 30 * time.Second

// ErrClosed is returned when waiting on a binding that has been closed.
var ErrClosed = errors.New("hook closed")

// State is a snapshot of a binding. After a failed fetch Data still holds
// the last successful result and Err describes the failure.
type State[V any] struct {
	Data      V
	Loading   bool
	Err       error
	Message   string
	FetchedAt time.Time
}

// Stale reports whether Data is left over from before a failed fetch.
func (s State[V]) Stale() bool {
	return s.Err != nil && !s.FetchedAt.IsZero()
}

type Fetcher[K any, V any] func(ctx context.Context, key K) (V, error)

type config struct {
	name    string
	log     *slog.Logger
	timeout time.Duration
}

type Option func(*config)

func WithName(name string) Option {
	return func(c *config) {
		c.name = name
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(c *config) {
		c.log = log
	}
}

// WithTimeout bounds every fetch independently of any retries inside it.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func newConfig(opts []Option) config {
	c := config{
		name:    "hook",
		log:     slogdiscard.NewDiscardLogger(),
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(&c)
	}

	return c
}

// Binding keeps the result of fetch(key) up to date. Only the result of the
// most recently started fetch is ever applied.
type Binding[K any, V any] struct {
	cfg   config
	fetch Fetcher[K, V]

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	key      K
	state    State[V]
	gen      uint64
	inflight context.CancelFunc
	settled  chan struct{}
	closed   bool
	subs     map[chan State[V]]struct{}
}

// NewBinding starts fetching key immediately.
func NewBinding[K any, V any](fetch Fetcher[K, V], key K, opts ...Option) *Binding[K, V] {
	ctx, cancel := context.WithCancel(context.Background())

	b := &Binding[K, V]{
		cfg:    newConfig(opts),
		fetch:  fetch,
		ctx:    ctx,
		cancel: cancel,
		key:    key,
		subs:   make(map[chan State[V]]struct{}),
	}

	b.mu.Lock()
	b.startLocked()
	b.mu.Unlock()

	return b
}

func (b *Binding[K, V]) State() State[V] {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.state
}

func (b *Binding[K, V]) Key() K {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.key
}

// SetKey refetches when key differs from the current one by value. It
// reports whether a fetch was started.
func (b *Binding[K, V]) SetKey(key K) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed || reflect.DeepEqual(b.key, key) {
		return false
	}

	b.key = key
	b.startLocked()

	return true
}

// Refetch starts a new fetch of the current key.
func (b *Binding[K, V]) Refetch() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.closed {
		b.startLocked()
	}
}

// Settled waits until no fetch is in flight and returns the resulting state.
func (b *Binding[K, V]) Settled(ctx context.Context) (State[V], error) {
	b.mu.Lock()
	ch, closed := b.settled, b.closed
	b.mu.Unlock()

	if closed {
		return b.State(), ErrClosed
	}
	if ch != nil {
		select {
		case <-ch:
		case <-ctx.Done():
			return b.State(), ctx.Err()
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return b.state, ErrClosed
	}

	return b.state, nil
}

// Refresh refetches and waits for the result.
func (b *Binding[K, V]) Refresh(ctx context.Context) (State[V], error) {
	b.Refetch()
	return b.Settled(ctx)
}

// Fresh returns the settled state, refetching first when the last fetch
// failed or is older than maxAge. A zero maxAge never expires.
func (b *Binding[K, V]) Fresh(ctx context.Context, maxAge time.Duration) (State[V], error) {
	st, err := b.Settled(ctx)
	if err != nil {
		return st, err
	}

	expired := maxAge > 0 && time.Since(st.FetchedAt) > maxAge
	if st.Err != nil || expired {
		return b.Refresh(ctx)
	}

	return st, nil
}

// Mutate runs op and, when it succeeds, refetches before returning. A failed
// op leaves the state untouched and its error is returned as is.
func (b *Binding[K, V]) Mutate(ctx context.Context, op func(ctx context.Context) error) error {
	if err := op(ctx); err != nil {
		return err
	}

	_, err := b.Refresh(ctx)
	if errors.Is(err, ErrClosed) {
		return nil
	}

	return err
}

// Subscribe delivers state changes. Slow readers only see the latest state.
// The channel is closed by cancel or Close.
func (b *Binding[K, V]) Subscribe() (<-chan State[V], func()) {
	ch := make(chan State[V], 1)

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		close(ch)
		return ch, func() {}
	}

	b.subs[ch] = struct{}{}
	ch <- b.state

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()

			if _, ok := b.subs[ch]; ok {
				delete(b.subs, ch)
				close(ch)
			}
		})
	}
}

// Close cancels in-flight fetches. No state changes happen afterwards.
func (b *Binding[K, V]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	b.closed = true
	b.cancel()
	if b.settled != nil {
		close(b.settled)
		b.settled = nil
	}
	for ch := range b.subs {
		close(ch)
	}
	b.subs = nil
}

func (b *Binding[K, V]) Closed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.closed
}

func (b *Binding[K, V]) startLocked() {
	if b.inflight != nil {
		b.inflight()
	}

	b.gen++
	gen := b.gen
	key := b.key

	ctx, cancel := context.WithTimeout(b.ctx, b.cfg.timeout)
	b.inflight = cancel

	if b.settled == nil {
		b.settled = make(chan struct{})
	}
	b.state.Loading = true
	b.publishLocked()

	go b.run(ctx, cancel, gen, key)
}

func (b *Binding[K, V]) run(ctx context.Context, cancel context.CancelFunc, gen uint64, key K) {
	defer cancel()

	start := time.Now()
	data, err := b.fetch(ctx, key)
	metrics.HookFetchDuration.WithLabelValues(b.cfg.name).Observe(time.Since(start).Seconds())

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed || gen != b.gen {
		metrics.HookFetchesTotal.WithLabelValues(b.cfg.name, "discarded").Inc()
		return
	}

	b.inflight = nil
	b.state.Loading = false

	if err != nil {
		metrics.HookFetchesTotal.WithLabelValues(b.cfg.name, "error").Inc()
		b.cfg.log.Warn("hook fetch failed",
			slog.String("hook", b.cfg.name),
			slog.Bool("stale", !b.state.FetchedAt.IsZero()),
			sl.Err(err),
		)

		b.state.Err = err
		b.state.Message = Message(err)
	} else {
		metrics.HookFetchesTotal.WithLabelValues(b.cfg.name, "ok").Inc()

		b.state.Data = data
		b.state.Err = nil
		b.state.Message = ""
		b.state.FetchedAt = time.Now()
	}

	close(b.settled)
	b.settled = nil
	b.publishLocked()
}

func (b *Binding[K, V]) publishLocked() {
	for ch := range b.subs {
		select {
		case <-ch:
		default:
		}
		ch <- b.state
	}
}
