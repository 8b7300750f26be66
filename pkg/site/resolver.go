package site

import (
	"sort"

	"github.com/jmylchreest/docpull/internal/logger"
)

// Resolver looks up site descriptors by identifier. It re-reads its Store
// on every call, so edits to a descriptor file take effect immediately.
type Resolver struct {
	store Store
}

// NewResolver creates a Resolver over store. A nil store uses the
// embedded descriptors.
func NewResolver(store Store) *Resolver {
	if store == nil {
		store = EmbeddedStore()
	}
	return &Resolver{store: store}
}

// Resolve returns the descriptor for id. An unknown id yields a
// *NotFoundError listing the known identifiers.
func (r *Resolver) Resolve(id string) (Config, error) {
	sites, err := r.store.Load()
	if err != nil {
		return Config{}, err
	}
	cfg, ok := sites[id]
	if !ok {
		return Config{}, &NotFoundError{ID: id, Known: sortedKeys(sites)}
	}
	return cfg, nil
}

// IDs returns every known site identifier in sorted order. A store that
// cannot be read yields an empty list.
func (r *Resolver) IDs() []string {
	sites, err := r.store.Load()
	if err != nil {
		logger.Warn("failed to load site descriptors", "error", err)
		return []string{}
	}
	return sortedKeys(sites)
}

func sortedKeys(m map[string]Config) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
