package writer

import (
	"io"
	"iter"
)

// Writer streams lines of generated code to an underlying io.Writer,
// terminating every line with the configured newline.
//
// The first write error is sticky: every later write is a no-op and Err
// reports it.
type Writer struct {
	out     io.Writer
	newline string
	lines   int
	err     error
}

// NewWriter creates a new line writer with the specified line terminator
func NewWriter(out io.Writer, newline string) *Writer {
	if newline == "" {
		newline = "\n"
	}
	return &Writer{
		out:     out,
		newline: newline,
	}
}

// WriteLine writes a string followed by the newline
func (w *Writer) WriteLine(s string) {
	if w.err != nil {
		return
	}
	if _, err := io.WriteString(w.out, s); err != nil {
		w.err = err
		return
	}
	if _, err := io.WriteString(w.out, w.newline); err != nil {
		w.err = err
		return
	}
	w.lines++
}

// WriteLines drains a line sequence into the writer, stopping early on error
func (w *Writer) WriteLines(seq iter.Seq[string]) error {
	if seq == nil {
		return w.err
	}
	for line := range seq {
		w.WriteLine(line)
		if w.err != nil {
			break
		}
	}
	return w.err
}

// Lines returns the number of lines written so far
func (w *Writer) Lines() int {
	return w.lines
}

// Err returns the first error encountered while writing
func (w *Writer) Err() error {
	return w.err
}
