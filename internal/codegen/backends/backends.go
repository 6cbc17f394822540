// Package backends wires the built-in language backends into a registry.
package backends

import (
	"github.com/gockelhut/jsvcgen/internal/codegen"
	"github.com/gockelhut/jsvcgen/internal/codegen/java"
)

// DefaultRegistry returns a registry with all built-in backends registered
func DefaultRegistry() *codegen.Registry {
	registry := codegen.NewRegistry()
	registry.Register(java.Language, java.NewFromConfig)
	return registry
}
