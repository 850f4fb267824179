// Package retry re-runs operations that failed with a transient error, waiting
// an exponentially growing delay between attempts.
package retry

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"devmart/internal/lib/logger/sl"
)

type Policy struct {
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	InitialDelay time.Duration `yaml:"initial_delay" env-default:"1s"`
	Factor       float64       `yaml:"factor" env-default:"2"`
	MaxDelay     time.Duration `yaml:"max_delay" env-default:"10s"`
}

func DefaultPolicy() Policy {
	return Policy{
		MaxRetries:   3,
		InitialDelay: time.Second,
		Factor:       2,
		MaxDelay:     10 * time.Second,
	}
}

// normalized keeps the delay sequence non-decreasing and bounded by MaxDelay.
func (p Policy) normalized() Policy {
	if p.MaxRetries < 0 {
		p.MaxRetries = 0
	}
	if p.Factor < 1 {
		p.Factor = 1
	}
	if p.InitialDelay < 0 {
		p.InitialDelay = 0
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = p.InitialDelay
	}
	if p.InitialDelay > p.MaxDelay {
		p.InitialDelay = p.MaxDelay
	}

	return p
}

func (p Policy) exponential() *backoff.ExponentialBackOff {
	p = p.normalized()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialDelay
	b.Multiplier = p.Factor
	b.MaxInterval = p.MaxDelay
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0
	b.Reset()

	return b
}

// Delays returns the wait before each retry: InitialDelay * Factor^n, capped.
func (p Policy) Delays() []time.Duration {
	p = p.normalized()
	b := backoff.WithMaxRetries(p.exponential(), uint64(p.MaxRetries))

	delays := make([]time.Duration, 0, p.MaxRetries)
	for {
		next := b.NextBackOff()
		if next == backoff.Stop {
			return delays
		}
		delays = append(delays, next)
	}
}

// Classifier reports whether err is worth another attempt.
type Classifier func(err error) bool

// Notify is called before sleeping ahead of retry number attempt (1-based).
type Notify func(op string, attempt int, err error, delay time.Duration)

type Retrier struct {
	log      *slog.Logger
	policy   Policy
	classify Classifier
	notify   Notify
}

type Option func(*Retrier)

func WithClassifier(c Classifier) Option {
	return func(r *Retrier) {
		r.classify = c
	}
}

func WithNotify(n Notify) Option {
	return func(r *Retrier) {
		r.notify = n
	}
}

func New(log *slog.Logger, policy Policy, opts ...Option) *Retrier {
	r := &Retrier{
		log:      log,
		policy:   policy.normalized(),
		classify: IsTransient,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

func (r *Retrier) Policy() Policy {
	return r.policy
}

// Do runs fn until it succeeds, fails with a non-transient error, the retry
// budget is spent or ctx is done. The last error is returned unchanged.
func (r *Retrier) Do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	attempt := 0

	operation := func() error {
		attempt++

		err := fn(ctx)
		if err == nil {
			return nil
		}
		if !r.classify(err) {
			return backoff.Permanent(err)
		}

		return err
	}

	b := backoff.WithContext(
		backoff.WithMaxRetries(r.policy.exponential(), uint64(r.policy.MaxRetries)),
		ctx,
	)

	err := backoff.RetryNotify(operation, b, func(err error, delay time.Duration) {
		r.log.Warn("transient failure, retrying",
			slog.String("op", op),
			slog.Int("attempt", attempt),
			slog.Duration("delay", delay),
			sl.Err(err),
		)

		if r.notify != nil {
			r.notify(op, attempt, err, delay)
		}
	})

	var permanent *backoff.PermanentError
	if errors.As(err, &permanent) {
		return permanent.Err
	}

	return err
}

// Value is Do for operations that produce a result.
func Value[T any](ctx context.Context, r *Retrier, op string, fn func(ctx context.Context) (T, error)) (T, error) {
	var out T

	err := r.Do(ctx, op, func(ctx context.Context) error {
		v, err := fn(ctx)
		if err != nil {
			return err
		}
		out = v

		return nil
	})

	return out, err
}
