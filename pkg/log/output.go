package log

import (
	"io"
	"os"
	"sync"
)

// ConsoleOutput writes formatted entries to stdout, errors and above to stderr.
type ConsoleOutput struct {
	mu     sync.Mutex
	stdout io.Writer
	stderr io.Writer
}

// NewConsoleOutput returns a ConsoleOutput bound to the process streams.
func NewConsoleOutput() *ConsoleOutput {
	return &ConsoleOutput{stdout: os.Stdout, stderr: os.Stderr}
}

// Write sends the formatted entry to the appropriate stream.
func (o *ConsoleOutput) Write(entry *Entry, formatted []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	w := o.stdout
	if w == nil {
		w = os.Stdout
	}
	if entry.Level >= ErrorLevel {
		if o.stderr != nil {
			w = o.stderr
		} else {
			w = os.Stderr
		}
	}
	_, err := w.Write(formatted)
	return err
}

// Close is a no-op for console output.
func (o *ConsoleOutput) Close() error { return nil }

// WriterOutput adapts any io.Writer into an Output. Useful in tests.
type WriterOutput struct {
	mu sync.Mutex
	W  io.Writer
}

// Write appends the formatted entry to the underlying writer.
func (o *WriterOutput) Write(_ *Entry, formatted []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, err := o.W.Write(formatted)
	return err
}

// Close is a no-op.
func (o *WriterOutput) Close() error { return nil }
