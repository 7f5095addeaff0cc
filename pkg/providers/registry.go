package providers

import (
	"fmt"
	"slices"
)

// Registry is a read-only set of providers keyed by id.
//
// A Registry never changes after NewRegistry returns and may be shared
// between goroutines. Lookups return copies.
type Registry struct {
	providers map[string]Info
	ids       []string
}

// NewRegistry merges user-defined providers over the built-ins. A user entry
// with a built-in id replaces the built-in.
func NewRegistry(builtIns, user map[string]Info) *Registry {
	merged := make(map[string]Info, len(builtIns)+len(user))
	for id, info := range builtIns {
		merged[id] = info.Clone()
	}
	for id, info := range user {
		merged[id] = info.Clone()
	}

	ids := make([]string, 0, len(merged))
	for id := range merged {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	return &Registry{providers: merged, ids: ids}
}

// Get returns the provider with the given id.
func (r *Registry) Get(id string) (Info, bool) {
	info, ok := r.providers[id]
	if !ok {
		return Info{}, false
	}
	return info.Clone(), true
}

// Lookup is Get with a *ConfigError for unknown ids.
func (r *Registry) Lookup(id string) (Info, error) {
	info, ok := r.Get(id)
	if !ok {
		return Info{}, &ConfigError{
			Provider: id,
			Field:    "model_provider",
			Message:  fmt.Sprintf("unknown provider (available: %v)", r.ids),
		}
	}
	return info, nil
}

// IDs returns the provider ids in sorted order.
func (r *Registry) IDs() []string {
	return slices.Clone(r.ids)
}

// Len returns the number of providers.
func (r *Registry) Len() int {
	return len(r.ids)
}
