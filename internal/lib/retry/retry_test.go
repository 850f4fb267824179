package retry_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"devmart/internal/lib/logger/handlers/slogdiscard"
	"devmart/internal/lib/retry"
	"devmart/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastPolicy(maxRetries int) retry.Policy {
	return retry.Policy{
		MaxRetries:   maxRetries,
		InitialDelay: time.Millisecond,
		Factor:       2,
		MaxDelay:     5 * time.Millisecond,
	}
}

func TestPolicy_DefaultDelays(t *testing.T) {
	delays := retry.DefaultPolicy().Delays()

	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}, delays)
}

func TestPolicy_DelaysCapped(t *testing.T) {
	p := retry.Policy{MaxRetries: 6, InitialDelay: time.Second, Factor: 2, MaxDelay: 10 * time.Second}

	assert.Equal(t, []time.Duration{
		time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second, 10 * time.Second, 10 * time.Second,
	}, p.Delays())
}

func TestPolicy_DelaysMonotonic(t *testing.T) {
	policies := []retry.Policy{
		retry.DefaultPolicy(),
		{MaxRetries: 8, InitialDelay: 300 * time.Millisecond, Factor: 1.5, MaxDelay: 2 * time.Second},
		{MaxRetries: 5, InitialDelay: 20 * time.Second, Factor: 2, MaxDelay: 10 * time.Second},
		{MaxRetries: 5, InitialDelay: time.Second, Factor: 0.5, MaxDelay: 10 * time.Second},
		{MaxRetries: 4, InitialDelay: time.Second, Factor: 3, MaxDelay: 0},
	}

	for i, p := range policies {
		t.Run(fmt.Sprintf("policy %d", i), func(t *testing.T) {
			delays := p.Delays()
			require.Len(t, delays, p.MaxRetries)

			maxDelay := p.MaxDelay
			if maxDelay <= 0 {
				maxDelay = p.InitialDelay
			}

			for j, d := range delays {
				assert.LessOrEqual(t, d, maxDelay)
				if j > 0 {
					assert.GreaterOrEqual(t, d, delays[j-1])
				}
			}
		})
	}
}

func TestRetrier_BoundedAttempts(t *testing.T) {
	r := retry.New(slogdiscard.NewDiscardLogger(), fastPolicy(3))

	var calls int32
	err := r.Do(context.Background(), "test", func(ctx context.Context) error {
		atomic.AddInt32(&calls, 1)
		return storage.ErrUnavailable
	})

	assert.ErrorIs(t, err, storage.ErrUnavailable)
	assert.Equal(t, int32(4), atomic.LoadInt32(&calls))
}

func TestRetrier_ZeroRetries(t *testing.T) {
	r := retry.New(slogdiscard.NewDiscardLogger(), fastPolicy(0))

	var calls int
	err := r.Do(context.Background(), "test", func(ctx context.Context) error {
		calls++
		return storage.ErrUnavailable
	})

	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetrier_StopsOnPermanentError(t *testing.T) {
	r := retry.New(slogdiscard.NewDiscardLogger(), fastPolicy(5))

	var calls int
	err := r.Do(context.Background(), "test", func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return &retry.StatusError{Code: http.StatusServiceUnavailable}
		}
		return &retry.StatusError{Code: http.StatusBadRequest}
	})

	var statusErr *retry.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadRequest, statusErr.Code)
	assert.Equal(t, 3, calls)
}

func TestRetrier_SucceedsAfterTransient(t *testing.T) {
	var delays []time.Duration
	r := retry.New(slogdiscard.NewDiscardLogger(), fastPolicy(3),
		retry.WithNotify(func(op string, attempt int, err error, delay time.Duration) {
			delays = append(delays, delay)
		}),
	)

	calls := 0
	got, err := retry.Value(context.Background(), r, "test", func(ctx context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", context.DeadlineExceeded
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{time.Millisecond, 2 * time.Millisecond}, delays)
}

func TestRetrier_ContextCancelled(t *testing.T) {
	r := retry.New(slogdiscard.NewDiscardLogger(), retry.Policy{
		MaxRetries: 10, InitialDelay: time.Hour, Factor: 2, MaxDelay: time.Hour,
	})

	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	done := make(chan error, 1)
	go func() {
		done <- r.Do(ctx, "test", func(ctx context.Context) error {
			calls++
			return storage.ErrUnavailable
		})
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	case <-time.After(time.Second):
		t.Fatal("retrier did not stop after cancellation")
	}
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "unavailable", err: fmt.Errorf("select: %w", storage.ErrUnavailable), want: true},
		{name: "deadline", err: context.DeadlineExceeded, want: true},
		{name: "too many requests", err: &retry.StatusError{Code: http.StatusTooManyRequests}, want: true},
		{name: "bad gateway", err: &retry.StatusError{Code: http.StatusBadGateway}, want: true},
		{name: "bad request", err: &retry.StatusError{Code: http.StatusBadRequest}, want: false},
		{name: "not found", err: storage.ErrNotFound, want: false},
		{name: "unauthorized", err: storage.ErrUnauthorized, want: false},
		{name: "conflict", err: storage.ErrConflict, want: false},
		{name: "canceled", err: context.Canceled, want: false},
		{name: "plain", err: errors.New("boom"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, retry.IsTransient(tt.err))
		})
	}
}
