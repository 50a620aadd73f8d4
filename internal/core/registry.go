package core

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"sync"
)

// Registry holds table definitions by key. It is safe for concurrent use.
//
// The package-level functions work on a default registry that core/tables
// fills from init. Tests that need isolation build their own with
// NewRegistry and hand it to the service with WithRegistry.
type Registry struct {
	mu   sync.RWMutex
	defs map[string]TableDefinition
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]TableDefinition)}
}

var defaultRegistry = NewRegistry()

// validate rejects definitions no session could be opened on.
func (d TableDefinition) validate() error {
	if d.Info.Key == "" || d.KeyField == "" {
		return errors.New("key and key field are required")
	}
	if d.Source == nil {
		return errors.New("no source")
	}
	if _, err := d.ColumnSet(); err != nil {
		return err
	}
	return nil
}

// Register adds def, filling Label and DBTable from the key when unset.
// It panics on a duplicate key or an unusable definition; both are
// programming errors caught at startup.
func (r *Registry) Register(def TableDefinition) {
	if err := def.validate(); err != nil {
		panic(fmt.Sprintf("table %q: %v", def.Info.Key, err))
	}
	if def.Info.Label == "" {
		def.Info.Label = def.Info.Key
	}
	if def.DBTable == "" {
		def.DBTable = def.Info.Key
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.defs[def.Info.Key]; exists {
		panic(fmt.Sprintf("table already registered: %s", def.Info.Key))
	}
	r.defs[def.Info.Key] = def
}

// Get returns the definition for key.
func (r *Registry) Get(key string) (TableDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[key]
	return def, ok
}

// All returns every definition ordered by group, then key.
func (r *Registry) All() []TableDefinition {
	return r.collect(func(TableDefinition) bool { return true })
}

// ByGroup returns the definitions in group ordered by key.
func (r *Registry) ByGroup(group string) []TableDefinition {
	return r.collect(func(d TableDefinition) bool { return d.Info.Group == group })
}

func (r *Registry) collect(keep func(TableDefinition) bool) []TableDefinition {
	r.mu.RLock()
	out := make([]TableDefinition, 0, len(r.defs))
	for _, def := range r.defs {
		if keep(def) {
			out = append(out, def)
		}
	}
	r.mu.RUnlock()

	slices.SortFunc(out, func(a, b TableDefinition) int {
		return cmp.Or(cmp.Compare(a.Info.Group, b.Info.Group), cmp.Compare(a.Info.Key, b.Info.Key))
	})
	return out
}

// Groups returns the distinct group names, sorted.
func (r *Registry) Groups() []string {
	r.mu.RLock()
	groups := make([]string, 0, len(r.defs))
	for _, def := range r.defs {
		groups = append(groups, def.Info.Group)
	}
	r.mu.RUnlock()

	slices.Sort(groups)
	return slices.Compact(groups)
}

// Len returns the number of registered tables.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.defs)
}

// UseSources replaces the source of every registered table with the one
// factory builds for it.
func (r *Registry) UseSources(factory SourceFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, def := range r.defs {
		def.Source = factory(def)
		r.defs[key] = def
	}
}

// Clear removes every definition.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.defs)
}

/* ----------------------------------------
	DEFAULT REGISTRY
---------------------------------------- */

// Register adds def to the default registry. See Registry.Register.
func Register(def TableDefinition) { defaultRegistry.Register(def) }

// Get looks key up in the default registry.
func Get(key string) (TableDefinition, bool) { return defaultRegistry.Get(key) }

// All lists the default registry.
func All() []TableDefinition { return defaultRegistry.All() }

// ByGroup lists one group of the default registry.
func ByGroup(group string) []TableDefinition { return defaultRegistry.ByGroup(group) }

// Groups lists the default registry's groups.
func Groups() []string { return defaultRegistry.Groups() }

// TableCount returns the size of the default registry.
func TableCount() int { return defaultRegistry.Len() }

// UseSources swaps every source in the default registry. main uses it to
// move off the mock data.
func UseSources(factory SourceFactory) { defaultRegistry.UseSources(factory) }

// Clear empties the default registry. Primarily useful for testing.
func Clear() { defaultRegistry.Clear() }
