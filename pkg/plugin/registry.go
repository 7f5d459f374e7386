package plugin

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownPluginType is returned when a runtime config names a plugin
// type nobody registered.
var ErrUnknownPluginType = errors.New("unknown plugin type")

// Metadata is a plugin type's registration identity, static per type
// rather than per instance.
type Metadata struct {
	Type        string
	Name        string
	Description string
	Version     string
	Author      string
}

// Factory couples a plugin type's metadata with its constructor.
type Factory struct {
	Meta Metadata
	New  func(cfg RuntimeConfig) (Plugin, error)
}

// Registry maps plugin type tags to factories. Populated once at startup
// from the fixed list of known implementations, read-only afterwards.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry creates an empty plugin registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a plugin factory under its metadata type tag.
func (r *Registry) Register(factory Factory) error {
	if r == nil {
		return errors.New("registry is nil")
	}
	tag := strings.ToLower(strings.TrimSpace(factory.Meta.Type))
	if tag == "" {
		return errors.New("plugin type is required")
	}
	if factory.New == nil {
		return errors.New("plugin constructor is nil")
	}
	if _, exists := r.factories[tag]; exists {
		return fmt.Errorf("plugin type %q already registered", tag)
	}
	r.factories[tag] = factory
	return nil
}

// New builds a live plugin instance from a runtime config. An unknown type
// is a configuration error, reported with the list of known types.
func (r *Registry) New(cfg RuntimeConfig) (Plugin, error) {
	if r == nil {
		return nil, errors.New("registry is nil")
	}
	factory, ok := r.factories[strings.ToLower(strings.TrimSpace(cfg.Type))]
	if !ok {
		return nil, fmt.Errorf("%w: %q (known types: %s)", ErrUnknownPluginType, cfg.Type, strings.Join(r.Types(), ", "))
	}
	return factory.New(cfg)
}

// Types returns the registered plugin type tags in sorted order.
func (r *Registry) Types() []string {
	if r == nil {
		return nil
	}
	out := make([]string, 0, len(r.factories))
	for tag := range r.factories {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

// Available returns the metadata of every registered plugin type, sorted
// by type tag.
func (r *Registry) Available() []Metadata {
	if r == nil {
		return nil
	}
	out := make([]Metadata, 0, len(r.factories))
	for _, factory := range r.factories {
		out = append(out, factory.Meta)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out
}
