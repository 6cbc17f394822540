package codegen

import (
	"errors"
	"io"
	"iter"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gockelhut/jsvcgen/internal/codegen/writer"
	"github.com/gockelhut/jsvcgen/internal/schema"
)

// mockBackend is a test backend that renders a plain-text outline
type mockBackend struct {
	Base
	failType string
}

func newMockBackend(opts Options) *mockBackend {
	return &mockBackend{Base: NewBase(opts)}
}

func (m *mockBackend) Language() string {
	return "mock"
}

func (m *mockBackend) FileName(root string, entity schema.Entity, svc *schema.ServiceDescription) string {
	return filepath.Join(root, svc.Name(), m.FormatTypeName(entity.AsType())+".txt")
}

func (m *mockBackend) FileHeader(entity schema.Entity, svc *schema.ServiceDescription) iter.Seq[string] {
	return writer.Of("// "+EntityName(entity), "")
}

func (m *mockBackend) Includes(schema.Entity, *schema.ServiceDescription) iter.Seq[string] {
	return writer.Of("#include <mock>", "")
}

func (m *mockBackend) Type(t *schema.Type, svc *schema.ServiceDescription) (iter.Seq[string], error) {
	if t.Name() == m.failType {
		return nil, errors.New("boom")
	}
	return func(yield func(string) bool) {
		if !yield("record " + t.Name()) {
			return
		}
		for _, member := range t.Members() {
			if !yield(m.Indent(1) + m.FormatFieldName(member.Name()) + ": " + m.FormatTypeName(member.Type())) {
				return
			}
		}
	}, nil
}

func (m *mockBackend) Service(svc *schema.ServiceDescription) (iter.Seq[string], error) {
	lines := []string{"service " + svc.Name()}
	for _, method := range svc.Methods() {
		lines = append(lines, m.Indent(1)+method.String())
	}
	return writer.Of(lines...), nil
}

// trackingSink counts opened and closed artifacts
type trackingSink struct {
	inner  Sink
	mu     sync.Mutex
	opened int
	closed int
}

func (s *trackingSink) Create(path string) (io.WriteCloser, error) {
	w, err := s.inner.Create(path)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.opened++
	s.mu.Unlock()
	return &trackingFile{WriteCloser: w, sink: s}, nil
}

type trackingFile struct {
	io.WriteCloser
	sink *trackingSink
}

func (f *trackingFile) Close() error {
	f.sink.mu.Lock()
	f.sink.closed++
	f.sink.mu.Unlock()
	return f.WriteCloser.Close()
}

const shapesSchema = `{
  "servicename": "Shapes",
  "types": {
    "Point": {"members": {"x": "number", "y": "number"}},
    "Polygon": {"members": {"points": ["Point"], "label": {"type": "string", "optional": true}}},
    "Circle": {"members": {"center": "Point", "radius": "number"}}
  },
  "methods": {
    "get_origin": {"ret_info": {"type": "Point"}},
    "scale": {
      "params": {"factor": {"type": "number", "def_order": 1}, "shape": {"type": "Polygon", "def_order": 0}},
      "ret_info": {"type": "Polygon"}
    }
  }
}`

func loadShapes(t *testing.T) *schema.ServiceDescription {
	t.Helper()
	svc, err := schema.LoadFromJSON([]byte(shapesSchema), schema.DiscardContext())
	require.NoError(t, err)
	return svc
}
