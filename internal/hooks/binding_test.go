package hooks_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"devmart/internal/hooks"
	"devmart/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func settle[K any, V any](t *testing.T, b *hooks.Binding[K, V]) hooks.State[V] {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	st, err := b.Settled(ctx)
	require.NoError(t, err)

	return st
}

// gatedFetcher blocks each key until it is released and ignores
// cancellation, so late results really arrive late.
type gatedFetcher struct {
	mu    sync.Mutex
	gates map[string]chan struct{}
	calls int32
}

func newGatedFetcher(keys ...string) *gatedFetcher {
	g := &gatedFetcher{gates: make(map[string]chan struct{})}
	for _, k := range keys {
		g.gates[k] = make(chan struct{})
	}
	return g
}

func (g *gatedFetcher) release(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	close(g.gates[key])
}

func (g *gatedFetcher) fetch(_ context.Context, key string) (string, error) {
	atomic.AddInt32(&g.calls, 1)

	g.mu.Lock()
	gate := g.gates[key]
	g.mu.Unlock()

	if gate != nil {
		<-gate
	}

	return "result:" + key, nil
}

func TestBinding_StartsLoadingImmediately(t *testing.T) {
	g := newGatedFetcher("f1")
	b := hooks.NewBinding(g.fetch, "f1")
	defer b.Close()

	st := b.State()
	assert.True(t, st.Loading)
	assert.Empty(t, st.Data)

	g.release("f1")
	st = settle(t, b)

	assert.False(t, st.Loading)
	assert.NoError(t, st.Err)
	assert.Equal(t, "result:f1", st.Data)
	assert.False(t, st.FetchedAt.IsZero())
}

func TestBinding_StaleResultDiscarded(t *testing.T) {
	g := newGatedFetcher("f1", "f2")
	b := hooks.NewBinding(g.fetch, "f1")
	defer b.Close()

	require.True(t, b.SetKey("f2"))
	g.release("f2")

	st := settle(t, b)
	assert.Equal(t, "result:f2", st.Data)

	// f1 resolves after f2 was issued and must never win.
	g.release("f1")
	assert.Never(t, func() bool {
		return b.State().Data != "result:f2"
	}, 100*time.Millisecond, 5*time.Millisecond)
	assert.Equal(t, int32(2), atomic.LoadInt32(&g.calls))
}

func TestBinding_LateNewerResultStillWins(t *testing.T) {
	g := newGatedFetcher("f1", "f2")
	b := hooks.NewBinding(g.fetch, "f1")
	defer b.Close()

	require.True(t, b.SetKey("f2"))
	g.release("f1")

	assert.Never(t, func() bool {
		return b.State().Data == "result:f1"
	}, 50*time.Millisecond, 5*time.Millisecond)
	assert.True(t, b.State().Loading)

	g.release("f2")
	assert.Equal(t, "result:f2", settle(t, b).Data)
}

func TestBinding_SetKeyComparesByValue(t *testing.T) {
	type filter struct {
		Status string
		Tags   []string
	}

	var calls int32
	fetch := func(_ context.Context, f filter) (int, error) {
		return int(atomic.AddInt32(&calls, 1)), nil
	}

	b := hooks.NewBinding(fetch, filter{Status: "published", Tags: []string{"go"}})
	defer b.Close()
	settle(t, b)

	assert.False(t, b.SetKey(filter{Status: "published", Tags: []string{"go"}}))
	assert.True(t, b.SetKey(filter{Status: "published", Tags: []string{"go", "css"}}))

	st := settle(t, b)
	assert.Equal(t, 2, st.Data)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestBinding_ErrorKeepsPreviousData(t *testing.T) {
	var fail atomic.Bool
	fetch := func(_ context.Context, _ string) ([]string, error) {
		if fail.Load() {
			return nil, storage.ErrUnavailable
		}
		return []string{"a", "b"}, nil
	}

	b := hooks.NewBinding(fetch, "k")
	defer b.Close()

	first := settle(t, b)
	require.NoError(t, first.Err)
	assert.False(t, first.Stale())

	fail.Store(true)
	st, err := b.Refresh(context.Background())
	require.NoError(t, err)

	assert.ErrorIs(t, st.Err, storage.ErrUnavailable)
	assert.NotEmpty(t, st.Message)
	assert.Equal(t, []string{"a", "b"}, st.Data)
	assert.True(t, st.Stale())
	assert.Equal(t, first.FetchedAt, st.FetchedAt)

	fail.Store(false)
	st, err = b.Refresh(context.Background())
	require.NoError(t, err)
	assert.NoError(t, st.Err)
	assert.Empty(t, st.Message)
}

func TestBinding_FirstFetchErrorIsNotStale(t *testing.T) {
	fetch := func(_ context.Context, _ string) (string, error) {
		return "", errors.New("boom")
	}

	b := hooks.NewBinding(fetch, "k")
	defer b.Close()

	st := settle(t, b)
	assert.Error(t, st.Err)
	assert.False(t, st.Stale())
	assert.Equal(t, "Something went wrong. Please try again.", st.Message)
}

func TestBinding_FetchTimeout(t *testing.T) {
	fetch := func(ctx context.Context, _ string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}

	b := hooks.NewBinding(fetch, "k", hooks.WithTimeout(20*time.Millisecond))
	defer b.Close()

	st := settle(t, b)
	assert.ErrorIs(t, st.Err, context.DeadlineExceeded)
	assert.Equal(t, "The request timed out. Please try again.", st.Message)
}

func TestBinding_CloseGuardsState(t *testing.T) {
	g := newGatedFetcher("k")
	b := hooks.NewBinding(g.fetch, "k")

	updates, _ := b.Subscribe()
	<-updates

	b.Close()
	g.release("k")

	assert.Never(t, func() bool {
		return b.State().Data != ""
	}, 50*time.Millisecond, 5*time.Millisecond)

	_, ok := <-updates
	assert.False(t, ok)

	_, err := b.Settled(context.Background())
	assert.ErrorIs(t, err, hooks.ErrClosed)
	assert.False(t, b.SetKey("other"))
}

func TestBinding_CloseCancelsInFlightFetch(t *testing.T) {
	cancelled := make(chan struct{})
	fetch := func(ctx context.Context, _ string) (string, error) {
		<-ctx.Done()
		close(cancelled)
		return "", ctx.Err()
	}

	b := hooks.NewBinding(fetch, "k")
	b.Close()

	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("fetch was not cancelled")
	}
}

func TestBinding_MutateRefetches(t *testing.T) {
	var mu sync.Mutex
	items := []string{"a"}
	fetch := func(_ context.Context, _ string) ([]string, error) {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), items...), nil
	}

	b := hooks.NewBinding(fetch, "k")
	defer b.Close()
	settle(t, b)

	err := b.Mutate(context.Background(), func(context.Context) error {
		mu.Lock()
		defer mu.Unlock()
		items = append(items, "b")
		return nil
	})
	require.NoError(t, err)

	// The refetch completed before Mutate returned.
	assert.Equal(t, []string{"a", "b"}, b.State().Data)
}

func TestBinding_FailedMutationLeavesStateUnchanged(t *testing.T) {
	var calls int32
	fetch := func(_ context.Context, _ string) (int32, error) {
		return atomic.AddInt32(&calls, 1), nil
	}

	b := hooks.NewBinding(fetch, "k")
	defer b.Close()
	before := settle(t, b)

	opErr := errors.New("rejected")
	err := b.Mutate(context.Background(), func(context.Context) error { return opErr })

	assert.ErrorIs(t, err, opErr)
	assert.Equal(t, before, b.State())
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestBinding_SubscribeLatestWins(t *testing.T) {
	var n int32
	fetch := func(_ context.Context, _ string) (int32, error) {
		return atomic.AddInt32(&n, 1), nil
	}

	b := hooks.NewBinding(fetch, "k")
	defer b.Close()
	settle(t, b)

	updates, unsubscribe := b.Subscribe()
	defer unsubscribe()

	for i := 0; i < 3; i++ {
		_, err := b.Refresh(context.Background())
		require.NoError(t, err)
	}

	// Only the newest state is buffered for a reader that fell behind.
	st := <-updates
	assert.Equal(t, int32(4), st.Data)
	assert.False(t, st.Loading)

	select {
	case extra := <-updates:
		t.Fatalf("unexpected buffered state %+v", extra)
	default:
	}
}

func TestBinding_FreshRefetchesExpiredState(t *testing.T) {
	var n int32
	fetch := func(_ context.Context, _ string) (int32, error) {
		return atomic.AddInt32(&n, 1), nil
	}

	b := hooks.NewBinding(fetch, "k")
	defer b.Close()
	settle(t, b)

	st, err := b.Fresh(context.Background(), time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int32(1), st.Data)

	time.Sleep(5 * time.Millisecond)
	st, err = b.Fresh(context.Background(), time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, int32(2), st.Data)
}
