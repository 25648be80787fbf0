package selfdescribe

import (
	"fmt"

	"github.com/custodia-labs/sdindex/internal/core/domain"
)

// Registry maps logical index names to their generators.
// Names are kept in registration order, which is the rebuild order.
type Registry struct {
	names      []domain.IndexName
	generators map[domain.IndexName]Generator
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		generators: make(map[domain.IndexName]Generator),
	}
}

// DefaultRegistry returns a registry holding the six standard generators.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(domain.IndexObservers, ObserverDocs)
	r.Register(domain.IndexMonitors, MonitorDocs)
	r.Register(domain.IndexMetrics, MetricDocs)
	r.Register(domain.IndexDimensionsObserverDefined, ObserverDimensionDocs)
	r.Register(domain.IndexDimensionsMonitorDefined, MonitorDimensionDocs)
	r.Register(domain.IndexProperties, PropertyDocs)
	return r
}

// Register adds or replaces the generator for an index.
func (r *Registry) Register(name domain.IndexName, gen Generator) {
	if _, ok := r.generators[name]; !ok {
		r.names = append(r.names, name)
	}
	r.generators[name] = gen
}

// Get returns the generator for an index.
func (r *Registry) Get(name domain.IndexName) (Generator, error) {
	gen, ok := r.generators[name]
	if !ok {
		return nil, fmt.Errorf("%w: no generator for index %q", domain.ErrNotFound, name)
	}
	return gen, nil
}

// Has returns true if a generator is registered for the index.
func (r *Registry) Has(name domain.IndexName) bool {
	_, ok := r.generators[name]
	return ok
}

// Names returns the registered indices in registration order.
func (r *Registry) Names() []domain.IndexName {
	names := make([]domain.IndexName, len(r.names))
	copy(names, r.names)
	return names
}
