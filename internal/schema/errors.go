package schema

import (
	"errors"
	"fmt"
)

// ErrSchema is matched by every error that rejects a service description.
var ErrSchema = errors.New("invalid service description")

// ShapeError reports a TypeSpec whose JSON shape is not an object, a string
// or a single-element array.
type ShapeError struct {
	// Name is the type name being resolved, if one is known
	Name string

	// Value is the offending raw JSON value
	Value string

	// Reason describes what was expected
	Reason string
}

// Error implements the error interface
func (e *ShapeError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = "type must be defined by a mapping or string"
	}
	if e.Name != "" {
		return fmt.Sprintf("%s: %s, found %s", e.Name, reason, e.Value)
	}
	return fmt.Sprintf("%s, found %s", reason, e.Value)
}

// Is reports ErrSchema as the error category
func (e *ShapeError) Is(target error) bool {
	return target == ErrSchema
}

// MissingKeyError reports a required top-level key absent from the document.
type MissingKeyError struct {
	Key string
}

// Error implements the error interface
func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("service description is missing required key %q", e.Key)
}

// Is reports ErrSchema as the error category
func (e *MissingKeyError) Is(target error) bool {
	return target == ErrSchema
}
