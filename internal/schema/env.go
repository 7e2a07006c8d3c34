package schema

// Env is one scope of the named-value environment. Lookups walk from the
// scope outward through its parents, bindings always go to the scope itself.
type Env struct {
	parent *Env
	names  []string
	values []Value

	// pending pointer resolutions of an open structure scope
	deferring bool
	pending   []func() error
}

// NewEnv returns an empty root scope.
func NewEnv() *Env {
	return &Env{}
}

// Push returns a new scope chained to e.
func (e *Env) Push() *Env {
	return &Env{parent: e}
}

// Parent returns the enclosing scope or nil for a root scope.
func (e *Env) Parent() *Env {
	return e.parent
}

// Bind binds a value to a name in this scope, replacing an earlier binding
// of the same name in this scope.
func (e *Env) Bind(name string, v Value) {
	for i, n := range e.names {
		if n == name {
			e.values[i] = v
			return
		}
	}
	e.names = append(e.names, name)
	e.values = append(e.values, v)
}

// Lookup returns the value bound to name in this scope or the closest
// enclosing scope that binds it.
func (e *Env) Lookup(name string) (Value, bool) {
	for scope := e; scope != nil; scope = scope.parent {
		for i, n := range scope.names {
			if n == name {
				return scope.values[i], true
			}
		}
	}
	return nil, false
}

// LookupInt returns the value bound to name if it is an integer.
func (e *Env) LookupInt(name string) (int64, bool) {
	v, ok := e.Lookup(name)
	if !ok {
		return 0, false
	}
	return asInt(v)
}

// flush runs the pending pointer resolutions in the order they were
// registered. Resolutions registered while flushing run immediately.
func (e *Env) flush() error {
	e.deferring = false
	pending := e.pending
	e.pending = nil
	for _, resolve := range pending {
		if err := resolve(); err != nil {
			return err
		}
	}
	return nil
}
