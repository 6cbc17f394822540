package codegen

import (
	"fmt"
	"sort"
)

// BackendConfig contains the settings a backend factory receives
type BackendConfig struct {
	Options

	// Namespace is the package/namespace for the generated code
	Namespace string

	// ImmutableTypes omits mutators and makes record fields read-only
	ImmutableTypes bool
}

// Factory creates a backend from its configuration
type Factory func(cfg BackendConfig) (Backend, error)

// Registry manages available backends
type Registry struct {
	backends map[string]Factory
}

// NewRegistry creates a new backend registry
func NewRegistry() *Registry {
	return &Registry{
		backends: make(map[string]Factory),
	}
}

// Register adds a new backend factory to the registry
func (r *Registry) Register(language string, factory Factory) {
	r.backends[language] = factory
}

// Get creates a backend for the specified language
func (r *Registry) Get(language string, cfg BackendConfig) (Backend, error) {
	factory, exists := r.backends[language]
	if !exists {
		return nil, fmt.Errorf("unsupported language: %s", language)
	}

	backend, err := factory(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s backend: %w", language, err)
	}
	return backend, nil
}

// Languages returns the supported languages, sorted
func (r *Registry) Languages() []string {
	languages := make([]string, 0, len(r.backends))
	for lang := range r.backends {
		languages = append(languages, lang)
	}
	sort.Strings(languages)
	return languages
}
