package codegen

import (
	"iter"
	"strings"

	"github.com/gockelhut/jsvcgen/internal/codegen/writer"
	"github.com/gockelhut/jsvcgen/internal/schema"
)

// Backend binds the generator framework to one target language. Every
// hook produces a finite, lazily evaluated sequence of lines; the framework
// drains each sequence exactly once.
//
// Embed Base to get the default FormatFieldName, FormatTypeName, FileHeader
// and Includes hooks.
type Backend interface {
	// Language returns the name of the target language (e.g., "java")
	Language() string

	// Options returns the newline and indentation settings
	Options() Options

	// FileName derives the output path of an entity's artifact under root
	FileName(root string, entity schema.Entity, svc *schema.ServiceDescription) string

	// FormatTypeName spells a type reference in the target language
	FormatTypeName(t *schema.Type) string

	// FormatFieldName spells a field name in the target language
	FormatFieldName(name string) string

	// FileHeader returns the leading lines of an artifact
	FileHeader(entity schema.Entity, svc *schema.ServiceDescription) iter.Seq[string]

	// Includes returns the import/include lines written after the header
	Includes(entity schema.Entity, svc *schema.ServiceDescription) iter.Seq[string]

	// Type renders the body of one type's artifact
	Type(t *schema.Type, svc *schema.ServiceDescription) (iter.Seq[string], error)

	// Service renders the body of the service artifact
	Service(svc *schema.ServiceDescription) (iter.Seq[string], error)
}

// Options contains common options for code generation
type Options struct {
	// Newline terminates every emitted line
	Newline string

	// Indent is the unit of indentation, applied once per nesting level
	Indent string
}

// DefaultOptions returns "\n" line endings and four-space indentation
func DefaultOptions() Options {
	return Options{
		Newline: "\n",
		Indent:  "    ",
	}
}

// withDefaults fills unset fields from DefaultOptions
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Newline == "" {
		o.Newline = d.Newline
	}
	if o.Indent == "" {
		o.Indent = d.Indent
	}
	return o
}

// ArraySuffix is appended by the default FormatTypeName to array types.
const ArraySuffix = "[]"

// Base provides the default hooks. Backends embed it.
type Base struct {
	opts Options
}

// NewBase creates a Base with unset options filled from DefaultOptions
func NewBase(opts Options) Base {
	return Base{opts: opts.withDefaults()}
}

// Options returns the newline and indentation settings
func (b Base) Options() Options {
	return b.opts.withDefaults()
}

// Indent returns the indentation for the given nesting level
func (b Base) Indent(level int) string {
	return writer.Indent(b.Options().Indent).At(level)
}

// FormatFieldName returns the name unchanged
func (b Base) FormatFieldName(name string) string {
	return name
}

// FormatTypeName returns the type's name, with ArraySuffix for arrays
func (b Base) FormatTypeName(t *schema.Type) string {
	if t.IsArray() {
		return t.Name() + ArraySuffix
	}
	return t.Name()
}

// FileHeader produces no lines
func (b Base) FileHeader(schema.Entity, *schema.ServiceDescription) iter.Seq[string] {
	return writer.Empty()
}

// Includes produces no lines
func (b Base) Includes(schema.Entity, *schema.ServiceDescription) iter.Seq[string] {
	return writer.Empty()
}

// EntityName returns a printable name for log fields and errors
func EntityName(entity schema.Entity) string {
	if svc, ok := entity.(*schema.ServiceDescription); ok {
		return "service " + svc.Name()
	}
	name := entity.AsType().Name()
	if strings.TrimSpace(name) == "" {
		return "type <anonymous>"
	}
	return "type " + name
}
