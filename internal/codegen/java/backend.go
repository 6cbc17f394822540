// Package java is the reference backend: it renders records as Java classes
// with accessors and mutators, and the service as a JSON-RPC client class.
package java

import (
	"errors"
	"fmt"
	"iter"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gockelhut/jsvcgen/internal/codegen"
	"github.com/gockelhut/jsvcgen/internal/codegen/writer"
	"github.com/gockelhut/jsvcgen/internal/schema"
)

const (
	// Language is the registry key of this backend
	Language = "java"

	// FileExtension is appended to every artifact name
	FileExtension = ".java"

	// ServiceBaseClass is the runtime class every service client extends
	ServiceBaseClass = "com.gockelhut.jsvcgen.JsonRpcServiceBase"
)

// typenameMapping maps schema primitives onto Java types
var typenameMapping = map[string]string{
	"boolean": "boolean",
	"integer": "long",
	"number":  "double",
	"string":  "String",
}

// boxedTypes maps Java primitives onto their boxed spelling for generics
var boxedTypes = map[string]string{
	"boolean": "Boolean",
	"long":    "Long",
	"double":  "Double",
}

// Backend generates Java client classes
type Backend struct {
	codegen.Base
	namespace      string
	immutableTypes bool
	commentWidth   int
}

// NewBackend creates a new Java backend writing into the given package
func NewBackend(namespace string, immutableTypes bool, opts codegen.Options) *Backend {
	return &Backend{
		Base:           codegen.NewBase(opts),
		namespace:      namespace,
		immutableTypes: immutableTypes,
		commentWidth:   writer.DefaultCommentWidth,
	}
}

// NewFromConfig is the registry factory for the Java backend
func NewFromConfig(cfg codegen.BackendConfig) (codegen.Backend, error) {
	if cfg.Namespace == "" {
		return nil, errors.New("java namespace is required")
	}
	for _, part := range strings.Split(cfg.Namespace, ".") {
		if part == "" {
			return nil, fmt.Errorf("invalid java namespace %q", cfg.Namespace)
		}
	}
	return NewBackend(cfg.Namespace, cfg.ImmutableTypes, cfg.Options), nil
}

// Language returns the name of the target language
func (b *Backend) Language() string {
	return Language
}

// FileName places the artifact in the namespace's directory
func (b *Backend) FileName(root string, entity schema.Entity, svc *schema.ServiceDescription) string {
	dir := filepath.FromSlash(strings.ReplaceAll(b.namespace, ".", "/"))
	return filepath.Join(root, dir, b.className(entity.AsType())+FileExtension)
}

// FormatTypeName maps primitives, camel-cases type names, appends "[]" for
// arrays and wraps optionals in Optional<>.
func (b *Backend) FormatTypeName(t *schema.Type) string {
	name := b.className(t)
	if t.IsArray() {
		name += "[]"
	}
	if t.IsOptional() {
		if boxed, ok := boxedTypes[name]; ok {
			name = boxed
		}
		name = "Optional<" + name + ">"
	}
	return name
}

// FormatFieldName converts a schema name to lower camel case
func (b *Backend) FormatFieldName(name string) string {
	return writer.CamelCase(name, false)
}

// FileHeader writes the package declaration
func (b *Backend) FileHeader(schema.Entity, *schema.ServiceDescription) iter.Seq[string] {
	return writer.Of("package "+b.namespace+";", "")
}

// Includes writes the imports the artifact needs, sorted
func (b *Backend) Includes(entity schema.Entity, svc *schema.ServiceDescription) iter.Seq[string] {
	imports := make(map[string]bool)

	switch e := entity.(type) {
	case *schema.ServiceDescription:
		imports[ServiceBaseClass] = true
		imports["java.net.URL"] = true
		for _, method := range e.Methods() {
			if method.ReturnInfo().Type().IsOptional() {
				imports["java.util.Optional"] = true
			}
			for _, arg := range method.Params().Members() {
				if arg.Type().IsOptional() {
					imports["java.util.Optional"] = true
				}
			}
		}
	case *schema.Type:
		imports["java.io.Serializable"] = true
		for _, member := range e.Members() {
			if member.Type().IsOptional() {
				imports["java.util.Optional"] = true
			}
		}
	}

	sorted := make([]string, 0, len(imports))
	for imp := range imports {
		sorted = append(sorted, "import "+imp+";")
	}
	sort.Strings(sorted)
	return writer.Of(append(sorted, "")...)
}

// Type renders a record as a class with one field, one accessor and (for
// mutable types) one mutator per member, plus an all-members constructor.
func (b *Backend) Type(t *schema.Type, svc *schema.ServiceDescription) (iter.Seq[string], error) {
	if t.Kind() != schema.KindRecord {
		return nil, fmt.Errorf("type %q is a %s, not a record", t.String(), t.Kind())
	}

	members := t.Members()
	for _, member := range members {
		if member.TypeName() == "" {
			return nil, fmt.Errorf("member %q of %q has no type name", member.Name(), t.Name())
		}
	}

	blocks := []iter.Seq[string]{
		b.fields(members),
		b.constructor(t, members),
	}
	for _, member := range members {
		blocks = append(blocks, b.accessor(member))
		if !b.immutableTypes {
			blocks = append(blocks, b.mutator(member))
		}
	}

	return writer.Concat(
		b.comment(t.Documentation(), 0),
		writer.Of("public class "+b.className(t)+" implements Serializable {"),
		writer.Join("", blocks...),
		writer.Of("}"),
	), nil
}

// Service renders the client class with one method per schema method
func (b *Backend) Service(svc *schema.ServiceDescription) (iter.Seq[string], error) {
	for _, method := range svc.Methods() {
		if method.ReturnInfo().Type().Name() == "" {
			return nil, fmt.Errorf("method %q has no return type name", method.Name())
		}
		for _, arg := range method.Params().Members() {
			if arg.TypeName() == "" {
				return nil, fmt.Errorf("param %q of method %q has no type name", arg.Name(), method.Name())
			}
		}
	}

	className := b.className(svc.AsType())
	blocks := []iter.Seq[string]{
		writer.Of(
			b.Indent(1)+"public "+className+"(URL endpoint) {",
			b.Indent(2)+"super(endpoint);",
			b.Indent(1)+"}",
		),
	}
	for _, method := range svc.Methods() {
		blocks = append(blocks, b.method(method))
	}

	return writer.Concat(
		writer.Of("public class "+className+" extends JsonRpcServiceBase {"),
		writer.Join("", blocks...),
		writer.Of("}"),
	), nil
}

// className spells a type without array or optional decoration
func (b *Backend) className(t *schema.Type) string {
	if mapped, ok := typenameMapping[t.Name()]; ok {
		return mapped
	}
	return writer.CamelCase(t.Name(), true)
}

func (b *Backend) accessorName(member string) string {
	return "get" + writer.CamelCase(member, true)
}

func (b *Backend) mutatorName(member string) string {
	return "set" + writer.CamelCase(member, true)
}

func (b *Backend) methodName(method *schema.Method) string {
	return writer.CamelCase(method.Name(), false)
}

func (b *Backend) argList(members []*schema.Member) string {
	args := make([]string, 0, len(members))
	for _, m := range members {
		args = append(args, b.FormatTypeName(m.Type())+" "+b.FormatFieldName(m.Name()))
	}
	return strings.Join(args, ", ")
}

func (b *Backend) comment(text string, level int) iter.Seq[string] {
	if text == "" {
		return writer.Empty()
	}
	return writer.CommentCStyle(text, b.Indent(level), b.commentWidth)
}

func (b *Backend) fields(members []*schema.Member) iter.Seq[string] {
	modifier := "private "
	if b.immutableTypes {
		modifier = "private final "
	}

	lines := []string{b.Indent(1) + "private static final long serialVersionUID = 1L;"}
	for _, m := range members {
		lines = append(lines, b.Indent(1)+modifier+b.FormatTypeName(m.Type())+" "+b.FormatFieldName(m.Name())+";")
	}
	return writer.Of(lines...)
}

func (b *Backend) constructor(t *schema.Type, members []*schema.Member) iter.Seq[string] {
	lines := []string{b.Indent(1) + "public " + b.className(t) + "(" + b.argList(members) + ") {"}
	for _, m := range members {
		field := b.FormatFieldName(m.Name())
		lines = append(lines, b.Indent(2)+"this."+field+" = "+field+";")
	}
	lines = append(lines, b.Indent(1)+"}")
	return writer.Of(lines...)
}

func (b *Backend) accessor(m *schema.Member) iter.Seq[string] {
	return writer.Concat(
		b.comment(m.Documentation(), 1),
		writer.Of(
			b.Indent(1)+"public "+b.FormatTypeName(m.Type())+" "+b.accessorName(m.Name())+"() {",
			b.Indent(2)+"return this."+b.FormatFieldName(m.Name())+";",
			b.Indent(1)+"}",
		),
	)
}

func (b *Backend) mutator(m *schema.Member) iter.Seq[string] {
	field := b.FormatFieldName(m.Name())
	return writer.Of(
		b.Indent(1)+"public void "+b.mutatorName(m.Name())+"("+b.FormatTypeName(m.Type())+" "+field+") {",
		b.Indent(2)+"this."+field+" = "+field+";",
		b.Indent(1)+"}",
	)
}

// method renders one client method. Its body is a marker until a transport
// is bound to the generated client.
func (b *Backend) method(method *schema.Method) iter.Seq[string] {
	name := b.methodName(method)
	ret := method.ReturnInfo()
	return writer.Concat(
		b.comment(methodDoc(method), 1),
		writer.Of(
			b.Indent(1)+"public "+b.FormatTypeName(ret.Type())+" "+name+"("+b.argList(method.Params().Members())+") {",
			b.Indent(2)+unboundBody(name),
			b.Indent(1)+"}",
		),
	)
}

// unboundBody is the method body emitted in place of the remote call
func unboundBody(methodName string) string {
	return fmt.Sprintf("throw new UnsupportedOperationException(%q);", methodName+" is not bound to a transport")
}

// methodDoc appends @param and @return tags to the method documentation
func methodDoc(method *schema.Method) string {
	var tags []string
	for _, arg := range method.Params().Members() {
		if arg.Documentation() != "" {
			tags = append(tags, "@param "+writer.CamelCase(arg.Name(), false)+" "+arg.Documentation())
		}
	}
	if doc := method.ReturnInfo().Documentation(); doc != "" {
		tags = append(tags, "@return "+doc)
	}

	doc := method.Documentation()
	switch {
	case len(tags) == 0:
		return doc
	case doc == "":
		return strings.Join(tags, "\n")
	default:
		return doc + "\n\n" + strings.Join(tags, "\n")
	}
}
