package view

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/jacoelho/stepgraph/cmd/stepgraph/version"
)

// Stream provides basic output operations wrapping an io.Writer.
type Stream struct {
	Writer io.Writer
}

// NewStream creates a Stream writing to w.
func NewStream(w io.Writer) *Stream {
	return &Stream{Writer: w}
}

// Println writes arguments to the stream with a newline.
func (s *Stream) Println(args ...any) {
	fmt.Fprintln(s.Writer, args...)
}

// Printf writes formatted output to the stream.
func (s *Stream) Printf(format string, args ...any) {
	fmt.Fprintf(s.Writer, format, args...)
}

// PrintVersion writes version information to the stream.
func (s *Stream) PrintVersion() {
	version.Fprint(s.Writer)
}

// IsTerminal reports whether the stream writes to a terminal.
func (s *Stream) IsTerminal() bool {
	f, ok := s.Writer.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// ConfigureColor turns colored output off when disabled is set, NO_COLOR is
// present in the environment, or the stream is not a terminal.
func ConfigureColor(s *Stream, disabled bool) {
	_, noColorEnv := os.LookupEnv("NO_COLOR")
	color.NoColor = disabled || noColorEnv || !s.IsTerminal()
}
