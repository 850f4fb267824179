package clientstate

import (
	"fmt"
	"strconv"
	"sync"
)

// Preferences exposes UI preferences as an observable value. Set writes
// through to the store and notifies subscribers before returning.
type Preferences struct {
	store Store

	mu   sync.Mutex
	subs map[chan bool]struct{}
}

func NewPreferences(store Store) *Preferences {
	return &Preferences{
		store: store,
		subs:  make(map[chan bool]struct{}),
	}
}

// SidebarCollapsed defaults to false when unset or unreadable.
func (p *Preferences) SidebarCollapsed() (bool, error) {
	const op = "clientstate.Preferences.SidebarCollapsed"

	raw, ok, err := p.store.Get(KeySidebarCollapsed)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		return false, nil
	}

	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, nil
	}

	return v, nil
}

func (p *Preferences) SetSidebarCollapsed(v bool) error {
	const op = "clientstate.Preferences.SetSidebarCollapsed"

	if err := p.store.Set(KeySidebarCollapsed, strconv.FormatBool(v)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	for ch := range p.subs {
		select {
		case <-ch:
		default:
		}
		ch <- v
	}

	return nil
}

// Subscribe delivers the latest value after each change.
func (p *Preferences) Subscribe() (<-chan bool, func()) {
	ch := make(chan bool, 1)

	p.mu.Lock()
	p.subs[ch] = struct{}{}
	p.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			p.mu.Lock()
			defer p.mu.Unlock()

			delete(p.subs, ch)
			close(ch)
		})
	}
}

// Registry hands out one long-lived Preferences per user, so subscribers
// see changes made by any request of that user.
type Registry struct {
	mem *Memory

	mu    sync.Mutex
	prefs map[string]*Preferences
}

func NewRegistry(mem *Memory) *Registry {
	return &Registry{mem: mem, prefs: make(map[string]*Preferences)}
}

func (r *Registry) For(userID string) *Preferences {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.prefs[userID]
	if !ok {
		p = NewPreferences(r.mem.For(userID))
		r.prefs[userID] = p
	}

	return p
}
