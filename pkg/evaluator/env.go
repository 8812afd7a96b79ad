package evaluator

// Env is a scoped environment for variable bindings. It supports
// parent-chained lookup for lexical scoping. Environments are shared by
// pointer: a closure and every call frame that captured the same scope all
// read and write through one Env, which is how closures observe each
// other's mutations.
type Env struct {
	values map[string]Value
	parent *Env
}

// NewEnv creates a new environment with an optional parent scope.
func NewEnv(parent *Env) *Env {
	return &Env{
		values: make(map[string]Value),
		parent: parent,
	}
}

// Child creates a new child scope whose parent is this environment.
func (e *Env) Child() *Env {
	return NewEnv(e)
}

// Define binds a name in this scope. Re-declaring an existing name rebinds
// it here only; outer bindings are shadowed, not touched.
func (e *Env) Define(name string, val Value) {
	e.values[name] = val
}

// Get looks up a name, traversing parent scopes.
func (e *Env) Get(name string) (Value, bool) {
	if val, ok := e.values[name]; ok {
		return val, true
	}
	if e.parent != nil {
		return e.parent.Get(name)
	}
	return nil, false
}

// Assign mutates the nearest enclosing scope that declares name. It never
// creates a binding: assigning an undeclared name reports false.
func (e *Env) Assign(name string, val Value) bool {
	if _, ok := e.values[name]; ok {
		e.values[name] = val
		return true
	}
	if e.parent != nil {
		return e.parent.Assign(name, val)
	}
	return false
}

// Has checks whether a name is declared in this scope or any parent.
func (e *Env) Has(name string) bool {
	if _, ok := e.values[name]; ok {
		return true
	}
	if e.parent != nil {
		return e.parent.Has(name)
	}
	return false
}
