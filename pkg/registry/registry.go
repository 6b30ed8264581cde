// Package registry maps component type keys to factories. Every Resolve
// builds a fresh component so callers never share instance state.
package registry

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-formschema/pkg/component"
)

var (
	// ErrTypeNotFound is returned when resolving an unregistered type key.
	ErrTypeNotFound = errors.New("registry: component type not found")
	// ErrAlreadyRegistered is returned when a type key is registered twice.
	ErrAlreadyRegistered = errors.New("registry: component type already registered")
)

// Factory builds a new component instance.
type Factory func() *component.Component

// Registry stores component factories by type key. Duplicate keys are
// rejected; resolve unknown keys to an explicit error.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	order     []string
}

// New creates an empty registry instance.
func New() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register adds a factory under typeKey.
func (r *Registry) Register(typeKey string, factory Factory) error {
	key := strings.TrimSpace(typeKey)
	if key == "" {
		return fmt.Errorf("registry: type key is required")
	}
	if factory == nil {
		return fmt.Errorf("registry: factory for %q is required", key)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[key]; exists {
		return fmt.Errorf("registry: %q: %w", key, ErrAlreadyRegistered)
	}
	r.factories[key] = factory
	r.order = append(r.order, key)
	return nil
}

// RegisterDefinition registers def under its Identifier. Resolved components
// are built with options.
func (r *Registry) RegisterDefinition(def component.Definition, options ...component.Option) error {
	if def == nil {
		return fmt.Errorf("registry: definition is required")
	}
	opts := append([]component.Option(nil), options...)
	return r.Register(def.Identifier(), func() *component.Component {
		return component.New(def, opts...)
	})
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(typeKey string, factory Factory) {
	if err := r.Register(typeKey, factory); err != nil {
		panic(err)
	}
}

// Unregister removes typeKey and reports whether it was present.
func (r *Registry) Unregister(typeKey string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[typeKey]; !exists {
		return false
	}
	delete(r.factories, typeKey)
	for idx, key := range r.order {
		if key == typeKey {
			r.order = append(r.order[:idx], r.order[idx+1:]...)
			break
		}
	}
	return true
}

// Resolve builds a new component for typeKey.
func (r *Registry) Resolve(typeKey string) (*component.Component, error) {
	r.mu.RLock()
	factory, ok := r.factories[typeKey]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: %q: %w", typeKey, ErrTypeNotFound)
	}
	comp := factory()
	if comp == nil {
		return nil, fmt.Errorf("registry: factory for %q returned nil", typeKey)
	}
	return comp, nil
}

// MustResolve panics if the type is missing.
func (r *Registry) MustResolve(typeKey string) *component.Component {
	comp, err := r.Resolve(typeKey)
	if err != nil {
		panic(err)
	}
	return comp
}

// Has reports whether typeKey is registered.
func (r *Registry) Has(typeKey string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.factories[typeKey]
	return ok
}

// Types returns the registered type keys in registration order.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]string(nil), r.order...)
}

// Len reports the number of registered types.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.order)
}
