package provider

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownProviderType is returned when a runtime config names a provider
// type nobody registered.
var ErrUnknownProviderType = errors.New("unknown provider type")

// Registry maps provider type tags to factories. It is populated once at
// process start and read-only afterwards, so concurrent reads need no
// locking.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a provider factory under a type tag.
func (r *Registry) Register(providerType string, factory Factory) error {
	if r == nil {
		return errors.New("registry is nil")
	}
	providerType = strings.ToLower(strings.TrimSpace(providerType))
	if providerType == "" {
		return errors.New("provider type is required")
	}
	if factory == nil {
		return errors.New("provider factory is nil")
	}
	if _, exists := r.factories[providerType]; exists {
		return fmt.Errorf("provider type %q already registered", providerType)
	}
	r.factories[providerType] = factory
	return nil
}

// New builds a configured Provider for cfg.Type. An unregistered type is a
// configuration error, reported with the list of known types.
func (r *Registry) New(cfg RuntimeConfig) (Provider, error) {
	if r == nil {
		return nil, errors.New("registry is nil")
	}
	factory, ok := r.factories[strings.ToLower(strings.TrimSpace(cfg.Type))]
	if !ok {
		return nil, fmt.Errorf("%w: %q (known types: %s)", ErrUnknownProviderType, cfg.Type, strings.Join(r.Types(), ", "))
	}
	return factory(cfg)
}

// Types returns the registered provider type tags in sorted order.
func (r *Registry) Types() []string {
	if r == nil {
		return nil
	}
	out := make([]string, 0, len(r.factories))
	for name := range r.factories {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
