package writer

import (
	"iter"
	"strings"
)

// Of returns a sequence yielding the given lines in order.
func Of(lines ...string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, line := range lines {
			if !yield(line) {
				return
			}
		}
	}
}

// Empty returns a sequence with no lines.
func Empty() iter.Seq[string] {
	return func(func(string) bool) {}
}

// Concat chains sequences end to end. Nil sequences are skipped.
func Concat(seqs ...iter.Seq[string]) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, seq := range seqs {
			if seq == nil {
				continue
			}
			for line := range seq {
				if !yield(line) {
					return
				}
			}
		}
	}
}

// Join chains sequences, yielding sep between consecutive non-nil ones.
func Join(sep string, seqs ...iter.Seq[string]) iter.Seq[string] {
	return func(yield func(string) bool) {
		first := true
		for _, seq := range seqs {
			if seq == nil {
				continue
			}
			if !first && !yield(sep) {
				return
			}
			first = false
			for line := range seq {
				if !yield(line) {
					return
				}
			}
		}
	}
}

// Prefix prepends p to every line of seq. Empty lines stay empty so
// generated files carry no trailing whitespace.
func Prefix(p string, seq iter.Seq[string]) iter.Seq[string] {
	return func(yield func(string) bool) {
		for line := range seq {
			if line != "" {
				line = p + line
			}
			if !yield(line) {
				return
			}
		}
	}
}

// Indent is the unit of indentation, applied once per nesting level.
type Indent string

// At returns the indentation for the given nesting level
func (i Indent) At(level int) string {
	if level <= 0 {
		return ""
	}
	return strings.Repeat(string(i), level)
}
