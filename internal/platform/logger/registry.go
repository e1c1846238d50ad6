package logger

import (
	"sort"
	"strings"
	"sync"
)

// Registry owns the process root logger and the named component loggers
// derived from it. It is created once at startup and closed on shutdown.
type Registry struct {
	mu     sync.Mutex
	root   *Logger
	named  map[string]*Logger
	closed bool
}

func NewRegistry(mode, level string) (*Registry, error) {
	root, err := NewWithLevel(mode, level)
	if err != nil {
		return nil, err
	}
	return NewRegistryFrom(root), nil
}

// NewRegistryFrom wraps an existing root logger.
func NewRegistryFrom(root *Logger) *Registry {
	if root == nil {
		root = NewNop()
	}
	return &Registry{root: root, named: map[string]*Logger{}}
}

func (r *Registry) Root() *Logger {
	if r == nil {
		return NewNop()
	}
	return r.root
}

// Named returns the logger for a component, creating it on first use.
// After Close it returns a no-op logger.
func (r *Registry) Named(component string) *Logger {
	if r == nil {
		return NewNop()
	}
	component = strings.TrimSpace(component)
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return NewNop()
	}
	if component == "" {
		return r.root
	}
	if l, ok := r.named[component]; ok {
		return l
	}
	l := r.root.With("component", component)
	r.named[component] = l
	return l
}

// Components lists the registered component names in sorted order.
func (r *Registry) Components() []string {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.named))
	for k := range r.named {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Close flushes every logger. It is safe to call more than once.
func (r *Registry) Close() {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	for _, l := range r.named {
		l.Sync()
	}
	r.root.Sync()
	r.named = map[string]*Logger{}
}
