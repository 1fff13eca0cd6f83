package dialect

import (
	"fmt"
	"sort"
	"sync"
)

// Registry manages named dialects.
type Registry struct {
	mu       sync.RWMutex
	dialects map[string]*Dialect
}

// NewRegistry creates an empty dialect registry.
func NewRegistry() *Registry {
	return &Registry{
		dialects: make(map[string]*Dialect),
	}
}

// NewBuiltinRegistry creates a registry holding the built-in dialects.
func NewBuiltinRegistry() *Registry {
	r := NewRegistry()
	for _, d := range Builtin() {
		// Built-in names are unique.
		_ = r.Register(d)
	}
	return r
}

// Register adds a dialect to the registry.
func (r *Registry) Register(d *Dialect) error {
	if d == nil {
		return fmt.Errorf("cannot register nil dialect")
	}
	name := d.Name()
	if name == "" {
		return fmt.Errorf("dialect name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.dialects[name]; exists {
		return fmt.Errorf("dialect already registered: %s", name)
	}

	r.dialects[name] = d
	return nil
}

// Get returns a dialect by name.
func (r *Registry) Get(name string) (*Dialect, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.dialects[name]
	if !ok {
		return nil, fmt.Errorf("dialect not found: %s", name)
	}
	return d, nil
}

// List returns all registered dialect names (sorted).
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.dialects))
	for name := range r.dialects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has checks if a dialect is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.dialects[name]
	return ok
}

// Count returns the number of registered dialects.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.dialects)
}

// Unregister removes a dialect from the registry.
func (r *Registry) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.dialects[name]; !ok {
		return fmt.Errorf("dialect not found: %s", name)
	}
	delete(r.dialects, name)
	return nil
}

// Derive registers a new dialect built from the named base with the given
// changes applied. Commands in overrides are merged over the base table.
func (r *Registry) Derive(name, base string, overrides map[uint16]string, apply func(*Config)) (*Dialect, error) {
	b, err := r.Get(base)
	if err != nil {
		return nil, err
	}

	cfg := b.Config()
	cfg.Name = name
	for code, mnemonic := range overrides {
		for c, n := range cfg.Commands {
			if n == mnemonic && c != code {
				delete(cfg.Commands, c)
			}
		}
		cfg.Commands[code] = mnemonic
	}
	if apply != nil {
		apply(&cfg)
	}

	d, err := New(cfg)
	if err != nil {
		return nil, err
	}
	if err := r.Register(d); err != nil {
		return nil, err
	}
	return d, nil
}
