package services

import (
	"fmt"
	"math"
	"time"

	"devmart/internal/clientstate"
)

const DefaultCooldown = 5 * time.Minute

// RateLimitedError is returned when a client submits again inside the
// cooldown window.
type RateLimitedError struct {
	Remaining time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("please wait %s before sending another message", e.Remaining.Round(time.Second))
}

// RetryAfter returns the remaining wait in whole seconds, rounded up.
func (e *RateLimitedError) RetryAfter() int {
	return int(math.Ceil(e.Remaining.Seconds()))
}

// Cooldown is an advisory per-client submission limit stored in client state.
type Cooldown struct {
	window time.Duration
	now    func() time.Time
}

func NewCooldown(window time.Duration, now func() time.Time) *Cooldown {
	if window <= 0 {
		window = DefaultCooldown
	}
	if now == nil {
		now = time.Now
	}

	return &Cooldown{window: window, now: now}
}

func (c *Cooldown) Window() time.Duration {
	return c.window
}

// Check fails with *RateLimitedError while the last recorded submission is
// younger than the window. A missing or unreadable timestamp never limits.
func (c *Cooldown) Check(store clientstate.Store) error {
	const op = "lead_service.Cooldown.Check"

	raw, ok, err := store.Get(clientstate.KeyLastContactSubmit)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		return nil
	}

	last, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return nil
	}

	if elapsed := c.now().Sub(last); elapsed < c.window {
		return &RateLimitedError{Remaining: c.window - elapsed}
	}

	return nil
}

func (c *Cooldown) Mark(store clientstate.Store) error {
	const op = "lead_service.Cooldown.Mark"

	if err := store.Set(clientstate.KeyLastContactSubmit, c.now().UTC().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
