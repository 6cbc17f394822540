package schema

import (
	"fmt"
	"io"
	"strings"
)

// String returns the type name with "[]" for arrays and "?" for optionals
func (t *Type) String() string {
	s := t.name
	if t.isArray {
		s += "[]"
	}
	if t.isOptional {
		s += "?"
	}
	return s
}

// String returns the method signature, e.g. "getOrigin(x, y): Point"
func (m *Method) String() string {
	names := make([]string, 0, m.params.Len())
	for _, a := range m.params.args {
		names = append(names, a.name)
	}
	return m.name + "(" + strings.Join(names, ", ") + "): " + m.returnInfo.typ.String()
}

// Dump writes a human-readable listing of the service description
func (s *ServiceDescription) Dump(w io.Writer) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "service %s\n", s.name)

	for _, t := range s.types {
		fmt.Fprintf(&sb, "\ntype %s (%s)\n", t, t.kind)
		writeDoc(&sb, "\t\t", t.doc)
		for _, m := range t.members {
			fmt.Fprintf(&sb, "\t%s: %s\n", m.name, m.typ)
			writeDoc(&sb, "\t\t", m.doc)
		}
	}

	for _, m := range s.methods {
		fmt.Fprintf(&sb, "\nmethod %s\n", m)
		writeDoc(&sb, "\t\t", m.doc)
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func writeDoc(sb *strings.Builder, prefix, doc string) {
	if doc == "" {
		return
	}
	for _, line := range strings.Split(doc, "\n") {
		sb.WriteString(prefix)
		sb.WriteString(line)
		sb.WriteString("\n")
	}
}
