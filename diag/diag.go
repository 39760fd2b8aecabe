// Package diag carries line-tagged compiler diagnostics from the lexer,
// parser and analyzer to whoever is listening.
package diag

import (
	"fmt"
	"io"
	"sync"

	"github.com/hashicorp/go-multierror"
)

// Sink receives diagnostics. Every report carries the source file and a
// line number (1-based).
type Sink interface {
	Report(file string, line int, message string)
}

// Diagnostic is a single recorded report.
type Diagnostic struct {
	File    string
	Line    int
	Message string
}

// String renders the diagnostic as "file:line: message".
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d: %s", d.File, d.Line, d.Message)
}

// Error lets a Diagnostic travel as an error value.
func (d Diagnostic) Error() string {
	return d.String()
}

// Writer prints every diagnostic to an io.Writer as it arrives.
type Writer struct {
	w     io.Writer
	count int
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (s *Writer) Report(file string, line int, message string) {
	s.count++
	fmt.Fprintln(s.w, Diagnostic{File: file, Line: line, Message: message})
}

// Count returns the number of diagnostics written so far.
func (s *Writer) Count() int {
	return s.count
}

// Collector records diagnostics in arrival order. It is safe for concurrent
// use so the language server can share one per document.
type Collector struct {
	mu          sync.Mutex
	diagnostics []Diagnostic
}

func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) Report(file string, line int, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.diagnostics = append(c.diagnostics, Diagnostic{File: file, Line: line, Message: message})
}

// Diagnostics returns a copy of everything reported so far.
func (c *Collector) Diagnostics() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Diagnostic, len(c.diagnostics))
	copy(out, c.diagnostics)
	return out
}

func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.diagnostics)
}

// Err folds all recorded diagnostics into one error, or returns nil when
// nothing was reported.
func (c *Collector) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	var result error
	for _, d := range c.diagnostics {
		result = multierror.Append(result, d)
	}
	if merr, ok := result.(*multierror.Error); ok {
		merr.ErrorFormat = listFormat
	}
	return result
}

func listFormat(errs []error) string {
	s := fmt.Sprintf("%d diagnostic(s):", len(errs))
	for _, err := range errs {
		s += "\n" + err.Error()
	}
	return s
}

// Tee fans a report out to several sinks.
type Tee []Sink

func (t Tee) Report(file string, line int, message string) {
	for _, s := range t {
		s.Report(file, line, message)
	}
}

// Discard drops every report.
var Discard Sink = discard{}

type discard struct{}

func (discard) Report(string, int, string) {}
