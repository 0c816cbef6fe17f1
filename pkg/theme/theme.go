// Package theme carries the dashboard's light/dark mode.
//
// A Provider holds the current mode and pushes changes to subscribers;
// request-scoped code reads the mode from a context instead.
package theme

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// Mode is the visual theme.
type Mode string

const (
	Light Mode = "light"
	Dark  Mode = "dark"
)

// CookieName is the cookie the dashboard stores the mode in.
const CookieName = "shop_admin_theme"

// ErrUnknownMode is returned by ParseMode for values other than light or dark.
var ErrUnknownMode = errors.New("unknown theme mode")

// ParseMode parses a mode name, case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case Light:
		return Light, nil
	case Dark:
		return Dark, nil
	}
	return Light, ErrUnknownMode
}

// IsDark reports whether m is Dark.
func (m Mode) IsDark() bool { return m == Dark }

// Provider holds the current mode and notifies subscribers when it changes.
type Provider struct {
	mu     sync.RWMutex
	mode   Mode
	subs   map[int]func(Mode)
	nextID int
}

// NewProvider returns a provider starting in mode.
func NewProvider(mode Mode) *Provider {
	return &Provider{mode: mode, subs: make(map[int]func(Mode))}
}

// Mode returns the current mode.
func (p *Provider) Mode() Mode {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.mode
}

// Set changes the mode. Subscribers are called only when it actually changes.
func (p *Provider) Set(mode Mode) {
	p.mu.Lock()
	if p.mode == mode {
		p.mu.Unlock()
		return
	}
	p.mode = mode
	subs := make([]func(Mode), 0, len(p.subs))
	for _, fn := range p.subs {
		subs = append(subs, fn)
	}
	p.mu.Unlock()

	for _, fn := range subs {
		fn(mode)
	}
}

// Subscribe registers fn for mode changes and returns a function that
// removes it.
func (p *Provider) Subscribe(fn func(Mode)) (unsubscribe func()) {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.subs[id] = fn
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.subs, id)
		p.mu.Unlock()
	}
}

type contextKey struct{}

// WithMode returns a copy of ctx carrying mode.
func WithMode(ctx context.Context, mode Mode) context.Context {
	return context.WithValue(ctx, contextKey{}, mode)
}

// FromContext returns the mode stored in ctx, or Light.
func FromContext(ctx context.Context) Mode {
	if m, ok := ctx.Value(contextKey{}).(Mode); ok {
		return m
	}
	return Light
}
