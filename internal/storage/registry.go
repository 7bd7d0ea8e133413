package storage

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maps backend names to factories. A factory binds a backend to a
// path only when Create is called, so one registry serves every task file.
type Registry struct {
	mu       sync.RWMutex
	backends map[string]BackendFactory
}

// NewRegistry returns an empty registry
func NewRegistry() *Registry {
	return &Registry{
		backends: make(map[string]BackendFactory),
	}
}

// Register adds factory under name. Names are unique.
func (r *Registry) Register(name string, factory BackendFactory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.backends[name]; exists {
		return fmt.Errorf("backend %s already registered", name)
	}

	r.backends[name] = factory
	return nil
}

// Create binds the named factory to path
func (r *Registry) Create(name, path string) (Backend, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, exists := r.backends[name]
	if !exists {
		return nil, fmt.Errorf("backend %s not registered", name)
	}

	return factory(path), nil
}

// List returns the registered names in alphabetical order
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.backends))
	for name := range r.backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// defaultRegistry is filled by backend packages from their init functions
var defaultRegistry = NewRegistry()

// Register adds factory to the default registry
func Register(name string, factory BackendFactory) error {
	return defaultRegistry.Register(name, factory)
}

// CreateBackend binds a backend from the default registry to path
func CreateBackend(name, path string) (Backend, error) {
	return defaultRegistry.Create(name, path)
}

// ListBackends returns the names in the default registry
func ListBackends() []string {
	return defaultRegistry.List()
}
