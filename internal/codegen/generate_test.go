package codegen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gockelhut/jsvcgen/internal/schema"
)

// Test plan for Generator:
// 1. Every type gets one artifact, then the service gets one
// 2. Header and includes precede the body, one configured newline per line
// 3. Default hooks behave as documented
// 4. A failing hook stops generation and its artifact is still closed
// 5. Directory creation failures surface as OutputError
// 6. Parallel generation writes the same artifacts in schema order, and
//    types sharing a path keep the sequential last-one-wins result
// 7. Check mode detects stale output without writing

func TestGenerator_Generate(t *testing.T) {
	svc := loadShapes(t)
	sink := NewMemorySink()
	g := NewGenerator(newMockBackend(Options{Newline: "\r\n", Indent: "\t"}), Config{Sink: sink})

	res, err := g.Generate(context.Background(), svc, "out")
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join("out", "Shapes", "Point.txt"),
		filepath.Join("out", "Shapes", "Polygon.txt"),
		filepath.Join("out", "Shapes", "Circle.txt"),
		filepath.Join("out", "Shapes", "Shapes.txt"),
	}, res.Files)

	polygon, ok := sink.File(filepath.Join("out", "Shapes", "Polygon.txt"))
	require.True(t, ok)
	assert.Equal(t, "// type Polygon\r\n\r\n#include <mock>\r\n\r\nrecord Polygon\r\n\tpoints: Point[]\r\n\tlabel: string\r\n", polygon)

	service, ok := sink.File(filepath.Join("out", "Shapes", "Shapes.txt"))
	require.True(t, ok)
	assert.Contains(t, service, "// service Shapes\r\n")
	assert.Contains(t, service, "\tget_origin(): Point\r\n")
	assert.Contains(t, service, "\tscale(shape, factor): Polygon\r\n")
}

func TestBase_DefaultHooks(t *testing.T) {
	svc, err := schema.LoadFromJSON([]byte(`{
		"servicename": "S",
		"types": {"Names": ["string"], "One": "string"},
		"methods": {}
	}`), nil)
	require.NoError(t, err)

	b := NewBase(Options{})
	assert.Equal(t, DefaultOptions(), b.Options())
	assert.Equal(t, "        ", b.Indent(2))

	assert.Equal(t, "some_field", b.FormatFieldName("some_field"))
	assert.Equal(t, "string[]", b.FormatTypeName(svc.Types()[0]))
	assert.Equal(t, "string", b.FormatTypeName(svc.Types()[1]))
	assert.Equal(t, "S", b.FormatTypeName(svc.AsType()))

	assert.Empty(t, slices.Collect(b.FileHeader(svc, svc)))
	assert.Empty(t, slices.Collect(b.Includes(svc.Types()[0], svc)))
}

func TestGenerator_HookFailureClosesArtifact(t *testing.T) {
	// Test: A failing Type hook aborts the run and releases the open artifact
	svc := loadShapes(t)
	backend := newMockBackend(DefaultOptions())
	backend.failType = "Polygon"

	sink := &trackingSink{inner: NewMemorySink()}
	g := NewGenerator(backend, Config{Sink: sink})

	res, err := g.Generate(context.Background(), svc, "out")
	require.Error(t, err)
	assert.Nil(t, res)
	assert.Contains(t, err.Error(), "failed to render type Polygon: boom")

	assert.Equal(t, 2, sink.opened, "Circle and the service must not be attempted")
	assert.Equal(t, sink.opened, sink.closed)

	paths := sink.inner.(*MemorySink).Paths()
	assert.NotContains(t, paths, filepath.Join("out", "Shapes", "Circle.txt"))
	assert.NotContains(t, paths, filepath.Join("out", "Shapes", "Shapes.txt"))
}

func TestGenerator_DirectoryCreationFailure(t *testing.T) {
	// Test: An output root that is a regular file fails with OutputError
	svc := loadShapes(t)
	root := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(root, []byte("not a directory"), 0644))

	g := NewGenerator(newMockBackend(DefaultOptions()), Config{})
	_, err := g.Generate(context.Background(), svc, root)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOutput))

	var outErr *OutputError
	require.True(t, errors.As(err, &outErr))
	assert.Equal(t, "type Point", outErr.Entity)
	assert.Equal(t, filepath.Join(root, "Shapes", "Point.txt"), outErr.Path)
	assert.Contains(t, err.Error(), "failed to create directory")
}

func TestGenerator_FileSink(t *testing.T) {
	svc := loadShapes(t)
	root := t.TempDir()

	g := NewGenerator(newMockBackend(DefaultOptions()), Config{})
	res, err := g.Generate(context.Background(), svc, root)
	require.NoError(t, err)
	require.Len(t, res.Files, 4)

	data, err := os.ReadFile(filepath.Join(root, "Shapes", "Point.txt"))
	require.NoError(t, err)
	assert.Equal(t, "// type Point\n\n#include <mock>\n\nrecord Point\n    x: number\n    y: number\n", string(data))

	// Regenerating overwrites in place
	_, err = g.Generate(context.Background(), svc, root)
	require.NoError(t, err)
	again, err := os.ReadFile(filepath.Join(root, "Shapes", "Point.txt"))
	require.NoError(t, err)
	assert.Equal(t, data, again)
}

func manyTypesSchema(n int) string {
	var entries []string
	for i := 0; i < n; i++ {
		entries = append(entries, fmt.Sprintf(`"T%d": {"members": {"f%d": "integer"}}`, i, i))
	}
	return fmt.Sprintf(`{"servicename": "Many", "types": {%s}, "methods": {}}`, strings.Join(entries, ", "))
}

func TestGenerator_Parallel(t *testing.T) {
	svc, err := schema.LoadFromJSON([]byte(manyTypesSchema(25)), nil)
	require.NoError(t, err)

	sequential := NewMemorySink()
	_, err = NewGenerator(newMockBackend(DefaultOptions()), Config{Sink: sequential}).
		Generate(context.Background(), svc, "root")
	require.NoError(t, err)

	parallel := &trackingSink{inner: NewMemorySink()}
	res, err := NewGenerator(newMockBackend(DefaultOptions()), Config{Sink: parallel, Parallelism: 4}).
		Generate(context.Background(), svc, "root")
	require.NoError(t, err)

	require.Len(t, res.Files, 26)
	for i := 0; i < 25; i++ {
		assert.Equal(t, filepath.Join("root", "Many", fmt.Sprintf("T%d.txt", i)), res.Files[i])
	}
	assert.Equal(t, filepath.Join("root", "Many", "Many.txt"), res.Files[25])

	assert.Equal(t, 26, parallel.opened)
	assert.Equal(t, parallel.opened, parallel.closed)

	parallelFiles := parallel.inner.(*MemorySink)
	assert.Equal(t, sequential.Paths(), parallelFiles.Paths())
	for _, p := range sequential.Paths() {
		want, _ := sequential.File(p)
		got, _ := parallelFiles.File(p)
		assert.Equal(t, want, got, p)
	}
}

func duplicateTypesSchema() string {
	var fields []string
	for i := 0; i < 40; i++ {
		fields = append(fields, fmt.Sprintf(`"field_%d": "string"`, i))
	}
	return fmt.Sprintf(`{
		"servicename": "Dup",
		"types": {
			"Vol": {"members": {%s}},
			"Other": {"members": {"a": "string"}},
			"Vol": {"members": {"id": "integer"}}
		},
		"methods": {}
	}`, strings.Join(fields, ", "))
}

func TestGenerator_ParallelDuplicateNames(t *testing.T) {
	// Test: Types sharing an artifact path end with the later type's content
	// whatever the parallelism, as in sequential generation
	svc, err := schema.LoadFromJSON([]byte(duplicateTypesSchema()), nil)
	require.NoError(t, err)
	require.Len(t, svc.Types(), 3)

	seqRoot := t.TempDir()
	_, err = NewGenerator(newMockBackend(DefaultOptions()), Config{}).Generate(context.Background(), svc, seqRoot)
	require.NoError(t, err)
	want, err := os.ReadFile(filepath.Join(seqRoot, "Dup", "Vol.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(want), "id: integer")
	assert.NotContains(t, string(want), "field_0")

	for i := 0; i < 50; i++ {
		root := t.TempDir()
		res, err := NewGenerator(newMockBackend(DefaultOptions()), Config{Parallelism: 4}).
			Generate(context.Background(), svc, root)
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(root, "Dup", "Vol.txt"),
			filepath.Join(root, "Dup", "Other.txt"),
			filepath.Join(root, "Dup", "Vol.txt"),
			filepath.Join(root, "Dup", "Dup.txt"),
		}, res.Files)

		got, err := os.ReadFile(filepath.Join(root, "Dup", "Vol.txt"))
		require.NoError(t, err)
		require.Equal(t, string(want), string(got), "run %d", i)
	}
}

func TestGroupByPath(t *testing.T) {
	svc, err := schema.LoadFromJSON([]byte(duplicateTypesSchema()), nil)
	require.NoError(t, err)

	groups := groupByPath(newMockBackend(DefaultOptions()), "root", svc.Types(), svc)
	assert.Equal(t, [][]int{{0, 2}, {1}}, groups)
}

func TestGenerator_ParallelFailure(t *testing.T) {
	svc, err := schema.LoadFromJSON([]byte(manyTypesSchema(25)), nil)
	require.NoError(t, err)

	backend := newMockBackend(DefaultOptions())
	backend.failType = "T3"
	sink := &trackingSink{inner: NewMemorySink()}

	_, err = NewGenerator(backend, Config{Sink: sink, Parallelism: 3}).
		Generate(context.Background(), svc, "root")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to render type T3")

	_, ok := sink.inner.(*MemorySink).File(filepath.Join("root", "Many", "Many.txt"))
	assert.False(t, ok, "the service artifact must not be written after a failure")
	assert.Equal(t, sink.opened, sink.closed)
}

func TestGenerator_Canceled(t *testing.T) {
	svc := loadShapes(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sink := NewMemorySink()
	_, err := NewGenerator(newMockBackend(DefaultOptions()), Config{Sink: sink}).Generate(ctx, svc, "out")
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, sink.Paths())
}

func TestGenerator_CheckSink(t *testing.T) {
	svc := loadShapes(t)
	root := t.TempDir()
	backend := newMockBackend(DefaultOptions())

	t.Run("missing output is stale", func(t *testing.T) {
		_, err := NewGenerator(backend, Config{Sink: NewCheckSink()}).Generate(context.Background(), svc, root)
		require.ErrorIs(t, err, ErrStale)
		assert.Contains(t, err.Error(), "would be created")

		_, statErr := os.Stat(filepath.Join(root, "Shapes"))
		assert.True(t, os.IsNotExist(statErr), "check mode must not write")
	})

	_, err := NewGenerator(backend, Config{}).Generate(context.Background(), svc, root)
	require.NoError(t, err)

	t.Run("fresh output passes", func(t *testing.T) {
		check := NewCheckSink()
		_, err := NewGenerator(backend, Config{Sink: check}).Generate(context.Background(), svc, root)
		require.NoError(t, err)
		assert.Len(t, check.Checked(), 4)
	})

	t.Run("modified output is stale", func(t *testing.T) {
		path := filepath.Join(root, "Shapes", "Circle.txt")
		require.NoError(t, os.WriteFile(path, []byte("edited"), 0644))

		_, err := NewGenerator(backend, Config{Sink: NewCheckSink()}).Generate(context.Background(), svc, root)
		require.ErrorIs(t, err, ErrStale)
		assert.Contains(t, err.Error(), "Circle.txt differs")
	})
}

func TestGenerator_Logging(t *testing.T) {
	svc := loadShapes(t)
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	_, err := NewGenerator(newMockBackend(DefaultOptions()), Config{Sink: NewMemorySink(), Logger: &logger}).
		Generate(context.Background(), svc, "out")
	require.NoError(t, err)

	out := buf.String()
	assert.Equal(t, 4, strings.Count(out, `"message":"wrote artifact"`))
	assert.Contains(t, out, `"entity":"service Shapes"`)
	assert.Contains(t, out, `"language":"mock"`)
	assert.Contains(t, out, `"message":"generated service artifacts"`)
}
