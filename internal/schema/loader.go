package schema

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/buger/jsonparser"
)

// LoadFromFile reads a service description document from disk and loads it
func LoadFromFile(path string, ctx LoadContext) (*ServiceDescription, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read service description %s: %w", path, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("service description is empty: %s", path)
	}
	return LoadFromJSON(data, ctx)
}

// LoadFromJSON builds a ServiceDescription from a JSON document.
//
// Types and methods keep document order. A duplicate type or method name is
// reported through ctx as a warning and both entries are kept. Any malformed
// type aborts the whole load; no partial description is returned.
func LoadFromJSON(data []byte, ctx LoadContext) (*ServiceDescription, error) {
	if ctx == nil {
		ctx = DiscardContext()
	}

	root, dataType, end, err := jsonparser.Get(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service description: %w", err)
	}
	if trailing := bytes.TrimSpace(data[end:]); len(trailing) > 0 {
		return nil, &ShapeError{Value: string(trailing), Reason: "unexpected data after the service description"}
	}
	if dataType != jsonparser.Object {
		return nil, &ShapeError{Value: string(root), Reason: "service description must be a JSON object"}
	}

	svc := &ServiceDescription{}

	nameValue, dataType, _, err := jsonparser.Get(root, "servicename")
	if errors.Is(err, jsonparser.KeyPathNotFoundError) {
		return nil, &MissingKeyError{Key: "servicename"}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read servicename: %w", err)
	}
	if dataType != jsonparser.String {
		return nil, &ShapeError{Value: string(nameValue), Reason: "servicename must be a string"}
	}
	if svc.name, err = jsonparser.ParseString(nameValue); err != nil {
		return nil, fmt.Errorf("failed to parse servicename: %w", err)
	}

	types, err := requiredObject(root, "types")
	if err != nil {
		return nil, err
	}
	methods, err := requiredObject(root, "methods")
	if err != nil {
		return nil, err
	}

	typeNames := make(map[string]bool)
	err = jsonparser.ObjectEach(types, func(key, value []byte, dt jsonparser.ValueType, _ int) error {
		name := string(key)
		if typeNames[name] {
			ctx.Warning("found duplicate type with name %q", name)
		}
		typ, err := loadType(name, value, dt)
		if err != nil {
			return fmt.Errorf("type %q: %w", name, err)
		}
		ctx.Debug("loaded %s type %q", typ.kind, typ.name)
		typeNames[typ.name] = true
		svc.types = append(svc.types, typ)
		return nil
	})
	if err != nil {
		return nil, err
	}

	methodNames := make(map[string]bool)
	err = jsonparser.ObjectEach(methods, func(key, value []byte, dt jsonparser.ValueType, _ int) error {
		name := string(key)
		if methodNames[name] {
			ctx.Warning("found duplicate method with name %q", name)
		}
		method, err := loadMethod(name, value, dt)
		if err != nil {
			return fmt.Errorf("method %q: %w", name, err)
		}
		ctx.Debug("loaded method %q with %d params", method.name, method.params.Len())
		methodNames[method.name] = true
		svc.methods = append(svc.methods, method)
		return nil
	})
	if err != nil {
		return nil, err
	}

	ctx.Info("loaded service %q: %d types, %d methods", svc.name, len(svc.types), len(svc.methods))
	return svc, nil
}

func requiredObject(root []byte, key string) ([]byte, error) {
	value, dataType, _, err := jsonparser.Get(root, key)
	if errors.Is(err, jsonparser.KeyPathNotFoundError) {
		return nil, &MissingKeyError{Key: key}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if dataType != jsonparser.Object {
		return nil, &ShapeError{Value: string(value), Reason: fmt.Sprintf("%q must be an object", key)}
	}
	return value, nil
}

func loadType(name string, value []byte, dataType jsonparser.ValueType) (*Type, error) {
	spec, err := decodeTypeSpec(name, value, dataType)
	if err != nil {
		return nil, err
	}
	return NewType(name, spec)
}

func loadMethod(name string, value []byte, dataType jsonparser.ValueType) (*Method, error) {
	if dataType != jsonparser.Object {
		return nil, &ShapeError{Name: name, Value: string(value), Reason: "method must be an object"}
	}

	method := &Method{name: name}

	params, err := optionalObject(name, value, "params")
	if err != nil {
		return nil, err
	}
	if method.params, err = loadParamList(method.RequestTypeName(), params); err != nil {
		return nil, err
	}

	retInfo, err := optionalObject(name, value, "ret_info")
	if err != nil {
		return nil, err
	}
	if method.returnInfo, err = loadReturnInfo(name, method.ResultTypeName(), retInfo); err != nil {
		return nil, fmt.Errorf("ret_info: %w", err)
	}

	lines, err := docLines(name, value)
	if err != nil {
		return nil, err
	}
	method.doc = JoinDocLines(lines)

	return method, nil
}

// optionalObject returns the object under key, or "{}" when it is absent
func optionalObject(name string, obj []byte, key string) ([]byte, error) {
	value, dataType, _, err := jsonparser.Get(obj, key)
	if errors.Is(err, jsonparser.KeyPathNotFoundError) {
		return []byte("{}"), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if dataType != jsonparser.Object {
		return nil, &ShapeError{Name: name, Value: string(value), Reason: fmt.Sprintf("%q must be an object", key)}
	}
	return value, nil
}

func loadReturnInfo(methodName, resultName string, value []byte) (*ReturnInfo, error) {
	raw, dataType, _, err := jsonparser.Get(value, "type")
	if err != nil && !errors.Is(err, jsonparser.KeyPathNotFoundError) {
		return nil, fmt.Errorf("failed to read type: %w", err)
	}
	typ, err := loadType(resultName, raw, dataType)
	if err != nil {
		return nil, err
	}

	lines, err := docLines(resultName, value)
	if err != nil {
		return nil, err
	}

	return &ReturnInfo{
		name: methodName,
		typ:  typ,
		doc:  JoinDocLines(lines),
	}, nil
}

// loadParamList orders arguments by def_order. Arguments without def_order
// sort after every argument that declares one; ties keep document order.
func loadParamList(name string, value []byte) (*ParamList, error) {
	list := &ParamList{name: name}

	err := jsonparser.ObjectEach(value, func(key, val []byte, dt jsonparser.ValueType, _ int) error {
		argName := string(key)
		arg, err := loadArgument(argName, val, dt)
		if err != nil {
			return fmt.Errorf("param %q: %w", argName, err)
		}
		list.args = append(list.args, arg)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(list.args, func(i, j int) bool {
		a, b := list.args[i], list.args[j]
		if a.hasOrder != b.hasOrder {
			return a.hasOrder
		}
		return a.order < b.order
	})
	return list, nil
}

func loadArgument(name string, value []byte, dataType jsonparser.ValueType) (*Argument, error) {
	spec, err := decodeTypeSpec(name, value, dataType)
	if err != nil {
		return nil, err
	}
	member, err := newMember(name, spec)
	if err != nil {
		return nil, err
	}
	arg := &Argument{Member: *member}

	if dataType == jsonparser.Object {
		order, err := jsonparser.GetFloat(value, "def_order")
		switch {
		case errors.Is(err, jsonparser.KeyPathNotFoundError):
		case err != nil:
			return nil, &ShapeError{Name: name, Value: string(value), Reason: `"def_order" must be a number`}
		default:
			arg.order = order
			arg.hasOrder = true
		}
	}
	return arg, nil
}
