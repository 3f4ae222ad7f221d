/*
Package script is the boundary between the asset loaders and the embedded
scripting engine.

Loaders register modules by name; the engine resolves them on require. A
module's value is built by its Loader the first time it is required and the
same value is returned afterwards, the way package.preload and package.loaded
work together.
*/
package script

import (
	"fmt"
	"sort"
)

// Loader builds the value of a module.
type Loader func() (interface{}, error)

type module struct {
	load   Loader
	loaded bool
	value  interface{}
}

// Modules is a set of preloaded modules and globals.
type Modules struct {
	modules map[string]*module
	globals map[string]interface{}
}

// New returns an empty module set.
func New() *Modules {
	return &Modules{
		modules: make(map[string]*module),
		globals: make(map[string]interface{}),
	}
}

// Preload registers l under name, replacing any previous registration.
func (m *Modules) Preload(name string, l Loader) {
	m.modules[name] = &module{load: l}
}

// Has reports whether a module called name is registered.
func (m *Modules) Has(name string) bool {
	_, ok := m.modules[name]
	return ok
}

// Names returns the registered module names in sorted order.
func (m *Modules) Names() []string {
	names := make([]string, 0, len(m.modules))
	for name := range m.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Require returns the value of the module called name, building it on first
// use.
func (m *Modules) Require(name string) (interface{}, error) {
	mod, ok := m.modules[name]
	if !ok {
		return nil, fmt.Errorf("script: module %q not found", name)
	}
	if !mod.loaded {
		v, err := mod.load()
		if err != nil {
			return nil, fmt.Errorf("script: loading %q: %w", name, err)
		}
		mod.value, mod.loaded = v, true
	}
	return mod.value, nil
}

// SetGlobal sets the global called name.
func (m *Modules) SetGlobal(name string, v interface{}) {
	m.globals[name] = v
}

// Global returns the global called name.
func (m *Modules) Global(name string) (interface{}, bool) {
	v, ok := m.globals[name]
	return v, ok
}
