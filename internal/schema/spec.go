package schema

import (
	"errors"
	"fmt"

	"github.com/buger/jsonparser"
)

// TypeSpec is the raw shape of a type as written in the document, decoded
// from the JSON value's shape: Primitive, Reference, ArrayOf or Record.
type TypeSpec interface {
	typeSpec()
}

// Primitive is a bare string naming one of the Primitives
type Primitive struct {
	Name string
}

// Reference is a bare string naming any other type
type Reference struct {
	Name string
}

// ArrayOf is a single-element array wrapping the element spec
type ArrayOf struct {
	Elem TypeSpec
}

// Record is an object spec
type Record struct {
	// Name is the value of the "type" key, empty when absent
	Name string

	// Members holds the "members" entries in document order
	Members []MemberSpec

	// HasMembers is set when the object carries a "members" key
	HasMembers bool

	DocLines []string
	Optional bool
}

// MemberSpec is one entry of a record's "members" object
type MemberSpec struct {
	Name string
	Spec TypeSpec
}

func (Primitive) typeSpec() {}
func (Reference) typeSpec() {}
func (ArrayOf) typeSpec()   {}
func (Record) typeSpec()    {}

// ParseTypeSpec decodes a standalone JSON document into a TypeSpec
func ParseTypeSpec(data []byte) (TypeSpec, error) {
	value, dataType, _, err := jsonparser.Get(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse type: %w", err)
	}
	return decodeTypeSpec("", value, dataType)
}

// decodeTypeSpec dispatches on the JSON shape. name is only used to give
// errors context.
func decodeTypeSpec(name string, value []byte, dataType jsonparser.ValueType) (TypeSpec, error) {
	switch dataType {
	case jsonparser.String:
		s, err := jsonparser.ParseString(value)
		if err != nil {
			return nil, fmt.Errorf("failed to parse type name: %w", err)
		}
		if Primitives[s] {
			return Primitive{Name: s}, nil
		}
		return Reference{Name: s}, nil

	case jsonparser.Array:
		elems, err := arrayElements(value)
		if err != nil {
			return nil, err
		}
		if len(elems) != 1 {
			return nil, &ShapeError{
				Name:   name,
				Value:  string(value),
				Reason: fmt.Sprintf("array type must have exactly one element, has %d", len(elems)),
			}
		}
		elem, err := decodeTypeSpec(name, elems[0].value, elems[0].dataType)
		if err != nil {
			return nil, err
		}
		return ArrayOf{Elem: elem}, nil

	case jsonparser.Object:
		return decodeRecord(name, value)

	case jsonparser.NotExist:
		return nil, &ShapeError{Name: name, Value: "nothing"}

	default:
		return nil, &ShapeError{Name: name, Value: string(value)}
	}
}

func decodeRecord(name string, value []byte) (TypeSpec, error) {
	rec := Record{}

	typeName, dataType, _, err := jsonparser.Get(value, "type")
	switch {
	case errors.Is(err, jsonparser.KeyPathNotFoundError):
	case err != nil:
		return nil, fmt.Errorf("failed to read type key: %w", err)
	case dataType != jsonparser.String:
		return nil, &ShapeError{Name: name, Value: string(typeName), Reason: `"type" must be a string`}
	default:
		if rec.Name, err = jsonparser.ParseString(typeName); err != nil {
			return nil, fmt.Errorf("failed to parse type key: %w", err)
		}
	}

	members, dataType, _, err := jsonparser.Get(value, "members")
	switch {
	case errors.Is(err, jsonparser.KeyPathNotFoundError):
	case err != nil:
		return nil, fmt.Errorf("failed to read members: %w", err)
	case dataType != jsonparser.Object:
		return nil, &ShapeError{Name: name, Value: string(members), Reason: `"members" must be an object`}
	default:
		rec.HasMembers = true
		err = jsonparser.ObjectEach(members, func(key, val []byte, dt jsonparser.ValueType, _ int) error {
			memberName := string(key)
			spec, err := decodeTypeSpec(memberName, val, dt)
			if err != nil {
				return fmt.Errorf("member %q: %w", memberName, err)
			}
			rec.Members = append(rec.Members, MemberSpec{Name: memberName, Spec: spec})
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	if rec.DocLines, err = docLines(name, value); err != nil {
		return nil, err
	}

	rec.Optional, err = jsonparser.GetBoolean(value, "optional")
	if err != nil && !errors.Is(err, jsonparser.KeyPathNotFoundError) {
		return nil, &ShapeError{Name: name, Value: string(value), Reason: `"optional" must be a boolean`}
	}

	return rec, nil
}

type element struct {
	value    []byte
	dataType jsonparser.ValueType
}

func arrayElements(value []byte) ([]element, error) {
	var elems []element
	var cbErr error
	_, err := jsonparser.ArrayEach(value, func(v []byte, dt jsonparser.ValueType, _ int, err error) {
		if err != nil {
			if cbErr == nil {
				cbErr = err
			}
			return
		}
		elems = append(elems, element{value: v, dataType: dt})
	})
	if err == nil {
		err = cbErr
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse array: %w", err)
	}
	return elems, nil
}

// docLines reads the optional "doc_lines" array of strings from an object
func docLines(name string, obj []byte) ([]string, error) {
	raw, dataType, _, err := jsonparser.Get(obj, "doc_lines")
	if errors.Is(err, jsonparser.KeyPathNotFoundError) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read doc_lines: %w", err)
	}
	if dataType != jsonparser.Array {
		return nil, &ShapeError{Name: name, Value: string(raw), Reason: `"doc_lines" must be an array of strings`}
	}

	elems, err := arrayElements(raw)
	if err != nil {
		return nil, err
	}
	lines := make([]string, 0, len(elems))
	for _, e := range elems {
		if e.dataType != jsonparser.String {
			return nil, &ShapeError{Name: name, Value: string(raw), Reason: `"doc_lines" must be an array of strings`}
		}
		line, err := jsonparser.ParseString(e.value)
		if err != nil {
			return nil, fmt.Errorf("failed to parse doc line: %w", err)
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// kindOf classifies a bare type name
func kindOf(name string) Kind {
	if Primitives[name] {
		return KindPrimitive
	}
	return KindReference
}

// NewType resolves a TypeSpec into a Type. fallbackName names an object
// spec that carries no "type" key.
//
// An object with "members", or with no "type" key at all, is a record. An
// object that only names its type with "type" is a primitive or reference
// that carries documentation and optionality.
func NewType(fallbackName string, spec TypeSpec) (*Type, error) {
	switch s := spec.(type) {
	case Primitive:
		return &Type{name: s.Name, kind: KindPrimitive}, nil

	case Reference:
		return &Type{name: s.Name, kind: KindReference}, nil

	case ArrayOf:
		elem, err := NewType(fallbackName, s.Elem)
		if err != nil {
			return nil, err
		}
		arr := *elem
		arr.isArray = true
		return &arr, nil

	case Record:
		t := &Type{
			name:       fallbackName,
			doc:        JoinDocLines(s.DocLines),
			isOptional: s.Optional,
		}
		if s.Name != "" {
			t.name = s.Name
		}

		if s.HasMembers || s.Name == "" {
			t.kind = KindRecord
			t.members = make([]*Member, 0, len(s.Members))
			for _, ms := range s.Members {
				m, err := newMember(ms.Name, ms.Spec)
				if err != nil {
					return nil, fmt.Errorf("member %q: %w", ms.Name, err)
				}
				t.members = append(t.members, m)
			}
		} else {
			t.kind = kindOf(t.name)
		}
		return t, nil

	default:
		return nil, fmt.Errorf("unsupported type spec %T", spec)
	}
}

// newMember resolves a member. Its documentation comes from the type spec only
// when the type spec is an object.
func newMember(name string, spec TypeSpec) (*Member, error) {
	typ, err := NewType("", spec)
	if err != nil {
		return nil, err
	}
	m := &Member{name: name, typ: typ}
	if rec, ok := spec.(Record); ok {
		m.doc = JoinDocLines(rec.DocLines)
	}
	return m, nil
}
