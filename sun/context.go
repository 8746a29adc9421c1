package sun

import "slices"

// binding is the storage cell behind a variable name. Reference parameters
// share the caller's cell, so writes through either name are visible to both.
type binding struct {
	value Value
}

// Context maps variable names to their storage. There is one global context
// per run and one per active function invocation.
type Context struct {
	vars map[string]*binding
}

func newContext() *Context {
	return &Context{vars: make(map[string]*binding)}
}

func (c *Context) lookup(name string) (*binding, bool) {
	b, ok := c.vars[name]
	return b, ok
}

// alias binds name to an existing cell owned by another context.
func (c *Context) alias(name string, cell *binding) {
	c.vars[name] = cell
}

func (c *Context) store(name string, v Value) {
	if b, ok := c.vars[name]; ok {
		b.value = v
		return
	}
	c.vars[name] = &binding{value: v}
}

// Get returns the value held by name.
func (c *Context) Get(name string) (Value, bool) {
	b, ok := c.vars[name]
	if !ok {
		return Value{}, false
	}
	return b.value, true
}

// Names returns the declared variable names in sorted order.
func (c *Context) Names() []string {
	names := make([]string, 0, len(c.vars))
	for name := range c.vars {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Snapshot copies the current name to value mapping.
func (c *Context) Snapshot() map[string]Value {
	out := make(map[string]Value, len(c.vars))
	for name, b := range c.vars {
		out[name] = b.value
	}
	return out
}
