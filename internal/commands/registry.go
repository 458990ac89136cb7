package commands

import (
	"fmt"
	"sort"
	"sync"
)

// Registry resolves command names and aliases to commands. Commands
// register themselves from init, so after startup the registry is
// only ever read.
type Registry struct {
	mu      sync.RWMutex
	primary []Command
	byName  map[string]Command
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Command)}
}

// Register adds a command under its primary name and every alias.
// A name collision with an already registered command is an error.
func (r *Registry) Register(c Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := append([]string{c.Name()}, c.Aliases()...)
	for _, n := range names {
		if _, taken := r.byName[n]; taken {
			return fmt.Errorf("duplicate command name %q", n)
		}
	}
	for _, n := range names {
		r.byName[n] = c
	}
	r.primary = append(r.primary, c)
	return nil
}

// Find resolves a name or alias.
func (r *Registry) Find(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byName[name]
	return c, ok
}

// All returns the registered commands sorted by primary name, for
// help output.
func (r *Registry) All() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Command, len(r.primary))
	copy(out, r.primary)
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// DefaultRegistry holds every command built into the kazam binary.
var DefaultRegistry = NewRegistry()

// Register adds a command to DefaultRegistry. Registration happens
// from init, so a collision is a programming error and panics.
func Register(c Command) {
	if err := DefaultRegistry.Register(c); err != nil {
		panic(err)
	}
}
