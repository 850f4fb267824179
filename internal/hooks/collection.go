package hooks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"devmart/internal/metrics"

	lru "github.com/hashicorp/golang-lru/v2"
)

type CollectionConfig struct {
	// Size bounds the number of live lists and, separately, live records.
	Size    int           `yaml:"size" env-default:"128"`
	MaxAge  time.Duration `yaml:"max_age" env-default:"1m"`
	Timeout time.Duration `yaml:"timeout" env-default:"30s"`
}

// Collection is the registry of live lists and records for one entity.
// Mutations made through it refetch every live binding of that entity.
type Collection[T any, F any, In any] struct {
	name   string
	src    Source[T, F, In]
	maxAge time.Duration
	opts   []Option

	mu      sync.Mutex
	lists   *lru.Cache[string, *List[T, F]]
	records *lru.Cache[string, *Record[T]]
}

func NewCollection[T any, F any, In any](name string, src Source[T, F, In], cfg CollectionConfig, log *slog.Logger) (*Collection[T, F, In], error) {
	const op = "hooks.NewCollection"

	if cfg.Size <= 0 {
		cfg.Size = 128
	}

	c := &Collection[T, F, In]{
		name:   name,
		src:    src,
		maxAge: cfg.MaxAge,
		opts: []Option{
			WithName(name),
			WithLogger(log.With(slog.String("hook", name))),
			WithTimeout(cfg.Timeout),
		},
	}

	lists, err := lru.NewWithEvict(cfg.Size, func(_ string, l *List[T, F]) {
		l.Close()
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	records, err := lru.NewWithEvict(cfg.Size, func(_ string, r *Record[T]) {
		r.Close()
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	c.lists, c.records = lists, records

	return c, nil
}

func (c *Collection[T, F, In]) Name() string {
	return c.name
}

// List returns the live list for f, creating it when needed.
func (c *Collection[T, F, In]) List(f F) *List[T, F] {
	key := filterKey(f)

	c.mu.Lock()
	defer c.mu.Unlock()

	if l, ok := c.lists.Get(key); ok && !l.Closed() {
		return l
	}

	l := NewList[T, F](c.src, f, c.opts...)
	c.lists.Add(key, l)
	c.observe()

	return l
}

// Record returns the live record for slug, creating it when needed.
func (c *Collection[T, F, In]) Record(slug string) *Record[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	if r, ok := c.records.Get(slug); ok && !r.Closed() {
		return r
	}

	r := NewRecord[T](c.src, slug, c.opts...)
	c.records.Add(slug, r)
	c.observe()

	return r
}

// FindAll returns the settled state of the list for f.
func (c *Collection[T, F, In]) FindAll(ctx context.Context, f F) (State[Page[T]], error) {
	st, err := c.List(f).Fresh(ctx, c.maxAge)
	if errors.Is(err, ErrClosed) {
		// Evicted while waiting.
		return c.List(f).Fresh(ctx, c.maxAge)
	}

	return st, err
}

// FindBySlug returns the settled state of the record for slug.
func (c *Collection[T, F, In]) FindBySlug(ctx context.Context, slug string) (State[*T], error) {
	st, err := c.Record(slug).Fresh(ctx, c.maxAge)
	if errors.Is(err, ErrClosed) {
		return c.Record(slug).Fresh(ctx, c.maxAge)
	}

	return st, err
}

func (c *Collection[T, F, In]) Create(ctx context.Context, in In) (*T, error) {
	return mutateRecord(ctx, c.Mutate, func(ctx context.Context) (*T, error) {
		return c.src.Create(ctx, in)
	})
}

func (c *Collection[T, F, In]) Update(ctx context.Context, id string, in In) (*T, error) {
	return mutateRecord(ctx, c.Mutate, func(ctx context.Context) (*T, error) {
		return c.src.Update(ctx, id, in)
	})
}

func (c *Collection[T, F, In]) Delete(ctx context.Context, id string) error {
	return c.Mutate(ctx, func(ctx context.Context) error {
		return c.src.Delete(ctx, id)
	})
}

// Mutate runs op and, on success, refetches every live binding before
// returning.
func (c *Collection[T, F, In]) Mutate(ctx context.Context, op func(ctx context.Context) error) error {
	if err := op(ctx); err != nil {
		return err
	}

	return c.refreshAll(ctx)
}

func (c *Collection[T, F, In]) refreshAll(ctx context.Context) error {
	lists := c.lists.Values()
	records := c.records.Values()

	waits := make([]func(context.Context) error, 0, len(lists)+len(records))
	for _, l := range lists {
		l.Refetch()
		waits = append(waits, settle(l.Binding))
	}
	for _, r := range records {
		r.Refetch()
		waits = append(waits, settle(r.Binding))
	}

	for _, wait := range waits {
		if err := wait(ctx); err != nil {
			return err
		}
	}

	return nil
}

func settle[K any, V any](b *Binding[K, V]) func(context.Context) error {
	return func(ctx context.Context) error {
		_, err := b.Settled(ctx)
		if errors.Is(err, ErrClosed) {
			return nil
		}
		return err
	}
}

// Len returns the number of live lists and records.
func (c *Collection[T, F, In]) Len() int {
	return c.lists.Len() + c.records.Len()
}

// Close closes every live binding.
func (c *Collection[T, F, In]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lists.Purge()
	c.records.Purge()
	c.observe()
}

func (c *Collection[T, F, In]) observe() {
	metrics.LiveHooks.WithLabelValues(c.name).Set(float64(c.Len()))
}

// filterKey identifies filters by value.
func filterKey(f any) string {
	b, err := json.Marshal(f)
	if err != nil {
		return fmt.Sprintf("%#v", f)
	}

	return string(b)
}
