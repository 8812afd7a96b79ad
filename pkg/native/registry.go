// Package native provides the registry of host functions exposed to Lox
// programs through the global environment.
package native

import (
	"github.com/thomasrohde/lox/pkg/evaluator"
)

// Fn represents a native function.
type Fn struct {
	Name string
	Call evaluator.NativeFn
}

// Registry holds registered native functions.
type Registry struct {
	fns map[string]*Fn
}

// NewRegistry creates a new empty native registry.
func NewRegistry() *Registry {
	return &Registry{
		fns: make(map[string]*Fn),
	}
}

// Register adds a native function to the registry.
func (r *Registry) Register(fn Fn) {
	r.fns[fn.Name] = &fn
}

// Get retrieves a native function by name.
func (r *Registry) Get(name string) *Fn {
	return r.fns[name]
}

// Remove unregisters a native function. Removing an unknown name is a
// no-op.
func (r *Registry) Remove(name string) {
	delete(r.fns, name)
}

// All returns all registered native functions.
func (r *Registry) All() map[string]*Fn {
	return r.fns
}

// Bindings converts the registry into the map expected by
// evaluator.ExecOptions.
func (r *Registry) Bindings() map[string]evaluator.NativeFn {
	out := make(map[string]evaluator.NativeFn, len(r.fns))
	for name, fn := range r.fns {
		out[name] = fn.Call
	}
	return out
}
