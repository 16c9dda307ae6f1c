package engine

import (
	"fmt"
	"log/slog"
	"sort"
)

// Factory constructs an engine instance from its persisted options.
type Factory func(options map[string]string, log *slog.Logger) (TemplateEngine, error)

// Registry maps engine names to factories. It is assembled once at startup
// and read-only afterwards; lookups of unregistered names fail with a typed
// error rather than a nil factory.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory under the given name, replacing any previous entry.
func (r *Registry) Register(name string, f Factory) {
	r.factories[name] = f
}

// New resolves name and constructs an engine with the given options.
func (r *Registry) New(name string, options map[string]string, log *slog.Logger) (TemplateEngine, error) {
	f, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, name)
	}
	return f(options, log)
}

// Names returns the registered engine names in lexical order.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.factories))
	for name := range r.factories {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
