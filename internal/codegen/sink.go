package codegen

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// ErrStale is reported by CheckSink when an artifact on disk does not match
// the generated content.
var ErrStale = errors.New("generated output is out of date")

// Sink opens artifacts for writing. Implementations must be safe for
// concurrent calls when the generator runs with Parallelism > 1.
type Sink interface {
	// Create opens path for writing, creating parent directories as needed.
	// The artifact is complete once the returned writer is closed.
	Create(path string) (io.WriteCloser, error)
}

// FileSink writes artifacts to the local filesystem, overwriting existing files.
type FileSink struct {
	// DirMode is the permission for created directories (default: 0755)
	DirMode os.FileMode

	// FileMode is the permission for created files (default: 0644)
	FileMode os.FileMode
}

// NewFileSink creates a FileSink with default permissions
func NewFileSink() *FileSink {
	return &FileSink{
		DirMode:  0755,
		FileMode: 0644,
	}
}

// Create implements Sink
func (s *FileSink) Create(path string) (io.WriteCloser, error) {
	dirMode, fileMode := s.DirMode, s.FileMode
	if dirMode == 0 {
		dirMode = 0755
	}
	if fileMode == 0 {
		fileMode = 0644
	}

	if err := os.MkdirAll(filepath.Dir(path), dirMode); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, fileMode)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	return &bufferedFile{Writer: bufio.NewWriter(f), file: f}, nil
}

// bufferedFile flushes its buffer before closing the file
type bufferedFile struct {
	*bufio.Writer
	file *os.File
}

func (b *bufferedFile) Close() error {
	flushErr := b.Flush()
	closeErr := b.file.Close()
	if flushErr != nil {
		return fmt.Errorf("failed to flush file: %w", flushErr)
	}
	if closeErr != nil {
		return fmt.Errorf("failed to close file: %w", closeErr)
	}
	return nil
}

// CheckSink renders artifacts into memory and compares them with the files
// on disk without writing anything. Close fails with ErrStale on mismatch.
type CheckSink struct {
	mu      sync.Mutex
	checked []string
}

// NewCheckSink creates a CheckSink
func NewCheckSink() *CheckSink {
	return &CheckSink{}
}

// Create implements Sink
func (s *CheckSink) Create(path string) (io.WriteCloser, error) {
	return &checkFile{sink: s, path: path}, nil
}

// Checked returns the paths found up to date, sorted
func (s *CheckSink) Checked() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]string(nil), s.checked...)
	sort.Strings(out)
	return out
}

type checkFile struct {
	bytes.Buffer
	sink *CheckSink
	path string
}

func (c *checkFile) Close() error {
	existing, err := os.ReadFile(c.path)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s would be created", ErrStale, c.path)
	}
	if err != nil {
		return fmt.Errorf("failed to read existing file: %w", err)
	}
	if !bytes.Equal(existing, c.Bytes()) {
		return fmt.Errorf("%w: %s differs", ErrStale, c.path)
	}

	c.sink.mu.Lock()
	c.sink.checked = append(c.sink.checked, c.path)
	c.sink.mu.Unlock()
	return nil
}

// MemorySink keeps artifacts in memory, keyed by path.
type MemorySink struct {
	mu    sync.Mutex
	files map[string][]byte
}

// NewMemorySink creates an empty MemorySink
func NewMemorySink() *MemorySink {
	return &MemorySink{files: make(map[string][]byte)}
}

// Create implements Sink
func (s *MemorySink) Create(path string) (io.WriteCloser, error) {
	return &memoryFile{sink: s, path: path}, nil
}

// File returns the content stored for path
func (s *MemorySink) File(path string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[path]
	return string(data), ok
}

// Paths returns every stored path, sorted
func (s *MemorySink) Paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	paths := make([]string, 0, len(s.files))
	for p := range s.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

type memoryFile struct {
	bytes.Buffer
	sink *MemorySink
	path string
}

func (m *memoryFile) Close() error {
	m.sink.mu.Lock()
	defer m.sink.mu.Unlock()
	m.sink.files[m.path] = append([]byte(nil), m.Bytes()...)
	return nil
}
