package hamlparser

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dpotapov/hamlparser/haml"
)

// SourceLine is one line of template source shown around an error.
type SourceLine struct {
	Lineno int
	Text   string
	Error  bool
}

// SourceContext holds the lines surrounding a parse error.
type SourceContext struct {
	Filename  string
	ErrorLine int
	Lines     []SourceLine
}

// NewSourceContext returns up to radius lines before and after line (1-based)
// of src. A negative radius counts as 0. It returns nil if line is outside src.
func NewSourceContext(src, filename string, line, radius int) *SourceContext {
	radius = max(radius, 0)
	lines := strings.Split(strings.TrimSuffix(src, "\n"), "\n")
	if line < 1 || line > len(lines) {
		return nil
	}
	first := max(line-radius, 1)
	last := min(line+radius, len(lines))

	ctx := &SourceContext{Filename: filename, ErrorLine: line}
	for n := first; n <= last; n++ {
		ctx.Lines = append(ctx.Lines, SourceLine{
			Lineno: n,
			Text:   strings.TrimRight(lines[n-1], "\r"),
			Error:  n == line,
		})
	}
	return ctx
}

// ErrorContext returns the source context for err if it is a parse error
// (haml.Error), or nil otherwise.
func ErrorContext(err error, src, filename string, radius int) *SourceContext {
	var herr haml.Error
	if !errors.As(err, &herr) {
		return nil
	}
	return NewSourceContext(src, filename, herr.Line(), radius)
}

// WriteTo writes the context as numbered lines, marking the error line with
// ">".
func (c *SourceContext) WriteTo(w io.Writer) (int64, error) {
	if len(c.Lines) == 0 {
		return 0, nil
	}
	width := len(fmt.Sprint(c.Lines[len(c.Lines)-1].Lineno))
	var sb strings.Builder
	for _, l := range c.Lines {
		mark := " "
		if l.Error {
			mark = ">"
		}
		fmt.Fprintf(&sb, "%s %*d | %s\n", mark, width, l.Lineno, l.Text)
	}
	n, err := io.WriteString(w, sb.String())
	return int64(n), err
}
