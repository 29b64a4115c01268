package models

import (
	"fmt"
	"sort"
	"sync"
)

// Factory builds a model instance. Factories run at most once per
// registered name; the resulting model is cached.
type Factory func() (Model, error)

// Registry manages named model factories with lazy instantiation.
// Factories are stored at registration time; models are created on first
// Get call. Thread-safe for concurrent access.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	models    map[string]Model
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		models:    make(map[string]Model),
	}
}

// Register adds a named model factory to the registry.
// The model is not instantiated until Get is called.
func (r *Registry) Register(name string, factory Factory) error {
	if name == "" {
		return ErrEmptyModelName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("%w: %s", ErrModelExists, name)
	}

	r.factories[name] = factory
	return nil
}

// RegisterModel adds an already-built model under the given name.
func (r *Registry) RegisterModel(name string, model Model) error {
	if model == nil {
		return ErrNilModel
	}
	return r.Register(name, func() (Model, error) { return model, nil })
}

// Get retrieves a named model, instantiating it lazily on first access.
func (r *Registry) Get(name string) (Model, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if m, exists := r.models[name]; exists {
		return m, nil
	}

	factory, registered := r.factories[name]
	if !registered {
		return nil, fmt.Errorf("%w: %s", ErrModelNotFound, name)
	}

	m, err := factory()
	if err != nil {
		return nil, fmt.Errorf("failed to create model %q: %w", name, err)
	}

	r.models[name] = m
	return m, nil
}

// List returns the registered model names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Replace updates the factory for an existing named model.
// Any cached instance is invalidated; the next Get re-instantiates.
func (r *Registry) Replace(name string, factory Factory) error {
	if name == "" {
		return ErrEmptyModelName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; !exists {
		return fmt.Errorf("%w: %s", ErrModelNotFound, name)
	}

	r.factories[name] = factory
	delete(r.models, name)
	return nil
}

// Unregister removes a named model from the registry.
func (r *Registry) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; !exists {
		return fmt.Errorf("%w: %s", ErrModelNotFound, name)
	}

	delete(r.factories, name)
	delete(r.models, name)
	return nil
}
