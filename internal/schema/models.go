package schema

import "slices"

// Primitives are the type names a backend maps onto its own scalar types.
var Primitives = map[string]bool{
	"boolean": true,
	"integer": true,
	"number":  true,
	"string":  true,
}

// Kind classifies a loaded Type
type Kind int

const (
	// KindPrimitive is one of the Primitives
	KindPrimitive Kind = iota
	// KindReference names another type by name; it is resolved by the backend
	KindReference
	// KindRecord is a structured type with members
	KindRecord
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindReference:
		return "reference"
	case KindRecord:
		return "record"
	default:
		return "unknown"
	}
}

// Entity is a schema element that is rendered into its own artifact:
// a Type or the ServiceDescription.
type Entity interface {
	// AsType returns the type that names the artifact
	AsType() *Type
}

// Type is a named data shape
type Type struct {
	name       string
	kind       Kind
	members    []*Member
	doc        string
	isArray    bool
	isOptional bool
}

// Name returns the type name, or the primitive/reference name it stands for
func (t *Type) Name() string { return t.name }

// Kind returns whether the type is a primitive, a reference or a record
func (t *Type) Kind() Kind { return t.kind }

// Members returns the members of a record in declaration order, or nil
// when the type is not a record
func (t *Type) Members() []*Member {
	if t.kind != KindRecord {
		return nil
	}
	if t.members == nil {
		return []*Member{}
	}
	return slices.Clone(t.members)
}

// Documentation returns the assembled documentation text
func (t *Type) Documentation() string { return t.doc }

// IsArray reports whether the value is a sequence of this type
func (t *Type) IsArray() bool { return t.isArray }

// IsOptional reports whether the value may be absent
func (t *Type) IsOptional() bool { return t.isOptional }

// AsType implements Entity
func (t *Type) AsType() *Type { return t }

// Member is a named, typed field of a record
type Member struct {
	name string
	typ  *Type
	doc  string
}

// Name returns the member name as written in the schema
func (m *Member) Name() string { return m.name }

// Type returns the member's type
func (m *Member) Type() *Type { return m.typ }

// TypeName returns the name of the member's type
func (m *Member) TypeName() string { return m.typ.name }

// Documentation returns the assembled documentation text
func (m *Member) Documentation() string { return m.doc }

// Argument is a Member used as a method parameter
type Argument struct {
	Member
	order    float64
	hasOrder bool
}

// DefOrder returns the declared def_order and whether one was declared
func (a *Argument) DefOrder() (float64, bool) { return a.order, a.hasOrder }

// ParamList is the ordered parameter list of a method
type ParamList struct {
	name string
	args []*Argument
}

// Name returns the synthesized request type name, <Method>Request
func (p *ParamList) Name() string { return p.name }

// Args returns the arguments in resolved order
func (p *ParamList) Args() []*Argument { return slices.Clone(p.args) }

// Len returns the number of arguments
func (p *ParamList) Len() int { return len(p.args) }

// Members returns the arguments as members, in resolved order
func (p *ParamList) Members() []*Member {
	out := make([]*Member, len(p.args))
	for i, a := range p.args {
		out[i] = &a.Member
	}
	return out
}

// ReturnInfo is the return shape of a method
type ReturnInfo struct {
	name string
	typ  *Type
	doc  string
}

// Name returns the name of the method the return info belongs to
func (r *ReturnInfo) Name() string { return r.name }

// Type returns the returned type
func (r *ReturnInfo) Type() *Type { return r.typ }

// Documentation returns the assembled documentation text
func (r *ReturnInfo) Documentation() string { return r.doc }

// Method is a named remote operation
type Method struct {
	name       string
	params     *ParamList
	returnInfo *ReturnInfo
	doc        string
}

// Name returns the method name as written in the schema
func (m *Method) Name() string { return m.name }

// Params returns the method's parameter list
func (m *Method) Params() *ParamList { return m.params }

// ReturnInfo returns the method's return shape
func (m *Method) ReturnInfo() *ReturnInfo { return m.returnInfo }

// Documentation returns the assembled documentation text
func (m *Method) Documentation() string { return m.doc }

// RequestTypeName returns the synthesized parameter record name
func (m *Method) RequestTypeName() string { return m.name + "Request" }

// ResultTypeName returns the synthesized result type name
func (m *Method) ResultTypeName() string { return m.name + "Result" }

// ServiceDescription is the root of a loaded schema
type ServiceDescription struct {
	name    string
	types   []*Type
	methods []*Method
}

// Name returns the service name
func (s *ServiceDescription) Name() string { return s.name }

// Types returns the types in document order, duplicates included
func (s *ServiceDescription) Types() []*Type { return slices.Clone(s.types) }

// Methods returns the methods in document order, duplicates included
func (s *ServiceDescription) Methods() []*Method { return slices.Clone(s.methods) }

// AsType implements Entity. The service is named like a record type and is
// never an array.
func (s *ServiceDescription) AsType() *Type {
	return &Type{name: s.name, kind: KindRecord}
}
