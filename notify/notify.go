// Package notify carries user-facing status messages. Components that need
// to surface a message take a Notifier at construction time rather than
// writing to a shared global.
package notify

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// Notifier surfaces transient messages to the user.
type Notifier interface {
	Successf(format string, args ...any)
	Errorf(format string, args ...any)
	Infof(format string, args ...any)
}

// Writer prints messages to an io.Writer, one per line. This is the
// terminal-facing implementation used by the CLI.
type Writer struct {
	Out io.Writer
}

var _ Notifier = (*Writer)(nil)

func (w *Writer) Successf(format string, args ...any) {
	fmt.Fprintf(w.Out, format+"\n", args...)
}

func (w *Writer) Errorf(format string, args ...any) {
	fmt.Fprintf(w.Out, "error: "+format+"\n", args...)
}

func (w *Writer) Infof(format string, args ...any) {
	fmt.Fprintf(w.Out, format+"\n", args...)
}

// Log routes messages into the structured log instead of the terminal.
type Log struct {
	Entry *logrus.Entry
}

var _ Notifier = (*Log)(nil)

func (l *Log) Successf(format string, args ...any) { l.Entry.Infof(format, args...) }
func (l *Log) Errorf(format string, args ...any)   { l.Entry.Errorf(format, args...) }
func (l *Log) Infof(format string, args ...any)    { l.Entry.Infof(format, args...) }

// Discard drops all messages. Handy default for library use and tests.
type Discard struct{}

var _ Notifier = Discard{}

func (Discard) Successf(string, ...any) {}
func (Discard) Errorf(string, ...any)   {}
func (Discard) Infof(string, ...any)    {}
