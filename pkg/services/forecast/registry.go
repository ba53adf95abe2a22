package forecast

import (
	"fmt"
	"sort"
	"sync"
)

// Factory constructs a ready-to-fit Forecaster.
type Factory func() Forecaster

// Registry manages the set of model variants a run evaluates.
type Registry interface {
	// Register adds a new model factory under its identifier.
	Register(model string, factory Factory) error
	// Create instantiates the named model variant.
	Create(model string) (Forecaster, error)
	// ListModels returns the registered identifiers in sorted order.
	ListModels() []string
}

type registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty model registry.
func NewRegistry() Registry {
	return &registry{factories: make(map[string]Factory)}
}

func (r *registry) Register(model string, factory Factory) error {
	if model == "" {
		return fmt.Errorf("model name cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("factory cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[model]; exists {
		return fmt.Errorf("model %q is already registered", model)
	}
	r.factories[model] = factory
	return nil
}

func (r *registry) Create(model string) (Forecaster, error) {
	r.mu.RLock()
	factory, exists := r.factories[model]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("model %q is not registered", model)
	}
	return factory(), nil
}

func (r *registry) ListModels() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	models := make([]string, 0, len(r.factories))
	for model := range r.factories {
		models = append(models, model)
	}
	sort.Strings(models)
	return models
}
