package strategy

import (
	"fmt"
	"sort"
)

// Registry maps strategy names to implementations. It is built once and
// read-only afterwards, so it is safe for concurrent use.
type Registry struct {
	byName map[string]Strategy
}

// NewRegistry builds a registry from strategies. Duplicate names are
// rejected, so registration order never affects lookup.
func NewRegistry(strategies ...Strategy) (*Registry, error) {
	r := &Registry{byName: make(map[string]Strategy, len(strategies))}
	for _, s := range strategies {
		name := s.Name()
		if _, dup := r.byName[name]; dup {
			return nil, fmt.Errorf("duplicate strategy name: %s", name)
		}
		r.byName[name] = s
	}
	return r, nil
}

// Builtin returns strategies for every supported site family.
func Builtin() []Strategy {
	return []Strategy{
		Default(),
		Modal(),
		Convex(),
		Cursor(),
		ClaudeCode(),
		Unsloth(),
		NewTerraform(),
	}
}

// BuiltinRegistry returns a registry holding Builtin.
func BuiltinRegistry() *Registry {
	r, err := NewRegistry(Builtin()...)
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup returns the strategy registered as name, or an *UnknownError
// listing the registered names.
func (r *Registry) Lookup(name string) (Strategy, error) {
	s, ok := r.byName[name]
	if !ok {
		return nil, &UnknownError{Name: name, Known: r.Names()}
	}
	return s, nil
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
